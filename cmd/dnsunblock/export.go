// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/dnsunblock/src/report"
	"github.com/H0llyW00dzZ/dnsunblock/src/service"
)

func (c *cli) exportCmd() *cobra.Command {
	var (
		out    string
		window time.Duration
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the blocked-domain report to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) (err error) {
				rep, err := a.svc.Blocked(ctx, service.BlockedQuery{
					ServerID: a.cfg.ServerID,
					Window:   window,
					Limit:    limit,
				})
				if err != nil {
					return err
				}

				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer func() {
					if cerr := f.Close(); err == nil {
						err = cerr
					}
				}()

				if err := report.WriteXLSX(f, report.Data{
					Groups:      rep.Groups,
					Hosts:       rep.Hosts,
					DeviceNames: rep.DeviceNames,
					Root:        a.svc.Analyzer().Root,
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d root(s), %d host(s) to %s\n",
					len(rep.Groups), len(rep.Hosts), out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "blocked.xlsx", "output file")
	cmd.Flags().DurationVar(&window, "window", 0, "how far back to look (default from config, 24h)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum log entries to scan (default from config, 500)")
	return cmd
}
