// Package cmd implements the CLI entrypoints.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grimm.is/ifctl/internal/api"
	"grimm.is/ifctl/internal/audit"
	"grimm.is/ifctl/internal/auth"
	"grimm.is/ifctl/internal/clock"
	"grimm.is/ifctl/internal/config"
	"grimm.is/ifctl/internal/logging"
	"grimm.is/ifctl/internal/netctl"
	"grimm.is/ifctl/internal/setup"
	"grimm.is/ifctl/internal/wireless"
)

func logLevel(name string) logging.Level {
	switch name {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

// RunServe loads the config and runs the service until SIGINT/SIGTERM.
func RunServe(configFile string) error {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logLevel(cfg.LogLevel)
	logging.SetDefault(logging.New(logCfg))
	logger := logging.WithComponent("serve")

	if err := setup.CheckEffective(); err != nil {
		return err
	}

	cred, err := auth.NewCredential(cfg.AdminPasswordHash)
	if err != nil {
		return fmt.Errorf("invalid admin_password_hash: %w", err)
	}

	ttl, _ := cfg.TokenTTLDuration()
	cooldown, _ := cfg.LoginCooldownDuration()
	tokens := auth.NewTokenStore(ttl, cooldown, &clock.RealClock{})

	stop := make(chan struct{})
	defer close(stop)
	tokens.StartSweeper(time.Minute, stop)
	defer tokens.Clear()

	// Wireless and ethtool are optional: a host without wifi hardware or
	// libcap still serves link-state operations.
	var wifi wireless.Manager
	if w, err := wireless.Dial(); err != nil {
		logger.Warn("wireless support unavailable", "error", err)
	} else {
		wifi = w
		defer w.Close()
	}

	var hw netctl.HardwareInfo
	if e, err := netctl.NewEthtoolInfo(); err != nil {
		logger.Warn("ethtool unavailable", "error", err)
	} else {
		hw = e
		defer e.Close()
	}

	controller := netctl.NewController(netctl.ControllerConfig{
		Netlink:    &netctl.RealNetlinker{},
		Wireless:   wifi,
		Hardware:   hw,
		Store:      netctl.NewStore(),
		BusyPolicy: config.BusyPolicy(cfg.BusyPolicy),
		Allowed:    cfg.ManagesInterface,
	})
	if err := controller.SeedStore(); err != nil {
		return fmt.Errorf("seed interface state: %w", err)
	}

	var auditLog *audit.Store
	if cfg.AuditDB != "" {
		auditLog, err = audit.NewStore(cfg.AuditDB, cfg.AuditRetentionDays)
		if err != nil {
			return fmt.Errorf("open audit store: %w", err)
		}
		defer auditLog.Close()
		auditLog.StartPruner(time.Hour, stop)
	}

	server := api.NewServer(api.ServerOptions{
		Config:     cfg,
		Credential: cred,
		Tokens:     tokens,
		Controller: controller,
		AuditLog:   auditLog,
		Logger:     logging.Default(),
	})
	defer server.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting", "listen_addr", cfg.ListenAddr)
	return server.ListenAndServe(ctx, cfg.ListenAddr)
}
