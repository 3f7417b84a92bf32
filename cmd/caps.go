package cmd

import (
	"fmt"

	"grimm.is/ifctl/internal/setup"
)

// RunCaps handles `ifctl caps grant|revoke|status [binary]`. With no binary
// argument the running executable is used, so `sudo ifctl caps grant` after
// a rebuild does the right thing.
func RunCaps(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: ifctl caps grant|revoke|status [binary]")
	}

	path := ""
	if len(args) > 1 {
		path = args[1]
	} else {
		var err error
		path, err = setup.SelfPath()
		if err != nil {
			return err
		}
	}

	switch args[0] {
	case "grant":
		if err := setup.Grant(path); err != nil {
			return err
		}
		fmt.Printf("granted %s on %s\n", setup.CapabilitySet, path)
		return nil
	case "revoke":
		if err := setup.Revoke(path); err != nil {
			return err
		}
		fmt.Printf("revoked capabilities on %s\n", path)
		return nil
	case "status":
		st, err := setup.GetStatus(path)
		if err != nil {
			return err
		}
		if st.Granted {
			fmt.Printf("%s: granted (%s)\n", st.Path, st.Raw)
		} else {
			fmt.Printf("%s: not granted\n", st.Path)
		}
		return nil
	default:
		return fmt.Errorf("unknown caps subcommand %q (want grant, revoke, or status)", args[0])
	}
}
