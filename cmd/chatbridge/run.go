package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chatbridge/chatbridge/pkg/bot"
	"github.com/chatbridge/chatbridge/pkg/browser"
	"github.com/chatbridge/chatbridge/pkg/config"
	"github.com/chatbridge/chatbridge/pkg/logger"
	"github.com/chatbridge/chatbridge/pkg/netprobe"
	"github.com/chatbridge/chatbridge/pkg/procguard"
	"github.com/chatbridge/chatbridge/pkg/stats"
	"github.com/spf13/cobra"
)

// networkWaitTimeout bounds the startup wait for outbound connectivity.
const networkWaitTimeout = 5 * time.Minute

type runOptions struct {
	configPath       string
	statsPath        string
	pidPath          string
	logFile          string
	headless         bool
	skipNetworkCheck bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bot: log in to both sites, then idle until stopped",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd, opts)
		},
	}

	runCmd.Flags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to the configuration file")
	runCmd.Flags().StringVar(&opts.statsPath, "stats", stats.DefaultPath, "path to the stats file")
	runCmd.Flags().StringVar(&opts.pidPath, "pid", procguard.DefaultPIDPath, "path to the PID file")
	runCmd.Flags().StringVar(&opts.logFile, "log-file", "bot.log", "path to the rotating log file")
	runCmd.Flags().BoolVar(&opts.headless, "headless", false, "run the browsers headless (overrides the config file)")
	runCmd.Flags().BoolVar(&opts.skipNetworkCheck, "skip-network-check", false, "start without waiting for outbound connectivity")

	return runCmd
}

func runBot(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if errors.Is(err, config.ErrCreated) {
		fmt.Printf("Configuration file %q created. Please fill it in and restart.\n", opts.configPath)
		return nil
	}
	if err != nil {
		return err
	}

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		fmt.Printf("Please fill in the following fields in %q: %s\n",
			opts.configPath, strings.Join(missing, ", "))
		return nil
	}

	if cmd.Flags().Changed("headless") {
		cfg.Headless = opts.headless
	}

	logCfg := logger.DefaultConfig()
	logCfg.File = opts.logFile
	log, err := logger.New(logCfg)
	if err != nil {
		return err
	}
	entry := log.WithField("app", "chatbridge")

	guard := procguard.New(opts.pidPath, entry)
	if guard.AlreadyRunning("chatbridge") {
		return fmt.Errorf("another chatbridge instance is already running (see %s)", opts.pidPath)
	}
	guard.WritePID()
	defer guard.Remove()

	ctx, cancel := procguard.NotifyShutdown(context.Background(), entry)
	defer cancel()

	if !opts.skipNetworkCheck {
		prober := netprobe.New(netprobe.DefaultConfig(), entry)
		if !prober.WaitForNetwork(ctx, networkWaitTimeout) {
			return fmt.Errorf("no network connectivity after %s", networkWaitTimeout)
		}
	}

	st := stats.New(opts.statsPath, entry)
	st.Save()
	entry.Infof("run id %s", st.Snapshot().RunID)

	manager := browser.NewManager(entry)
	b := bot.New(cfg, entry, st, manager)
	defer b.Stop()

	if err := b.Start(ctx); err != nil {
		entry.WithError(err).Error("bot crashed")
		return err
	}
	return nil
}
