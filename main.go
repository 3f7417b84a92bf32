package main

import (
	"flag"
	"fmt"
	"os"

	"grimm.is/ifctl/cmd"
)

// DefaultConfigFile is where serve looks when -c is not given.
const DefaultConfigFile = "/etc/ifctl/ifctl.hcl"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		serveFlags := flag.NewFlagSet("serve", flag.ExitOnError)
		configFile := serveFlags.String("config", DefaultConfigFile, "Configuration file")
		serveFlags.StringVar(configFile, "c", DefaultConfigFile, "Configuration file (short)")
		serveFlags.Parse(os.Args[2:])

		if err := cmd.RunServe(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Serve failed: %v\n", err)
			os.Exit(1)
		}

	case "caps":
		if err := cmd.RunCaps(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

	case "hash-password":
		if err := cmd.RunHashPassword(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`ifctl - network interface control service

Usage:
  ifctl <command> [options]

Commands:
  serve          Run the HTTP control service
                 Options: --config (-c) <file>   (default %s)
  caps           Manage the binary's file capabilities
                 Subcommands: grant, revoke, status [binary]
  hash-password  Hash an admin password for the config file

The service needs cap_net_admin and cap_net_raw to drive netlink. Grant
them once per build with: sudo ifctl caps grant
`, DefaultConfigFile)
}
