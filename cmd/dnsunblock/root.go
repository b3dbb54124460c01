// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"

	"github.com/spf13/cobra"
)

type cli struct {
	flags globalFlags
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "dnsunblock",
		Short:         "Find and whitelist domains blocked by AdGuard DNS",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dnsunblock/config.yaml)")
	pf.StringVar(&c.flags.serverID, "server", "", "DNS server profile id (overrides server_id)")
	pf.StringVar(&c.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		c.blockedCmd(),
		c.unblockCmd(),
		c.rulesCmd(),
		c.devicesCmd(),
		c.verifyCmd(),
		c.exportCmd(),
		c.serveCmd(),
		c.logoutCmd(),
	)
	return root
}

// run builds the app for one command and closes it afterwards.
func (c *cli) run(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, c.flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(ctx, a)
}
