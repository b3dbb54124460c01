// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *cli) rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the server's user rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				rules, err := a.svc.Rules(ctx, a.cfg.ServerID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				state := "enabled"
				if !rules.Enabled {
					state = "disabled"
				}
				fmt.Fprintf(out, "# user rules %s, %d rule(s)\n", state, len(rules.Rules))
				for _, r := range rules.Rules {
					fmt.Fprintln(out, r)
				}
				return nil
			})
		},
	}
}

func (c *cli) devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List the account's devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				devices, err := a.svc.Devices(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSERVER")
				for _, d := range devices {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.DeviceType, d.DNSServerID)
				}
				return tw.Flush()
			})
		},
	}
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored API tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				if err := a.creds.Invalidate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Stored credentials removed.")
				return nil
			})
		},
	}
}
