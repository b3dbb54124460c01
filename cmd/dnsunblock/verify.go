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

func (c *cli) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify DOMAIN...",
		Short: "Resolve domains through the filtering resolvers and report blocks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				results, err := a.prober().Check(ctx, args...)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "DOMAIN\tSTATUS\tREASON\tRESOLVER")
				for _, r := range results {
					status := "ok"
					switch {
					case r.Error != nil:
						status = "error: " + r.Error.Error()
					case r.Blocked:
						status = "blocked"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Domain, status, r.Reason, r.Resolver)
				}
				return tw.Flush()
			})
		},
	}
}
