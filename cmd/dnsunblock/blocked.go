// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/dnsunblock/src/report"
	"github.com/H0llyW00dzZ/dnsunblock/src/service"
)

func (c *cli) blockedCmd() *cobra.Command {
	var (
		window     time.Duration
		limit      int
		subdomains bool
	)

	cmd := &cobra.Command{
		Use:   "blocked",
		Short: "List recently blocked root domains, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				rep, err := a.svc.Blocked(ctx, service.BlockedQuery{
					ServerID: a.cfg.ServerID,
					Window:   window,
					Limit:    limit,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if rep.Empty() {
					fmt.Fprintln(out, rep.Suggestion())
					return nil
				}
				return report.WriteTable(out, rep.Groups, subdomains)
			})
		},
	}

	cmd.Flags().DurationVar(&window, "window", 0, "how far back to look (default from config, 24h)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum log entries to scan (default from config, 500)")
	cmd.Flags().BoolVar(&subdomains, "subdomains", false, "list the hostnames under each root")
	return cmd
}
