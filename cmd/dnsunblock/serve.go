// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/dnsunblock/src/server"
)

func (c *cli) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the blocked/unblock API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				if addr == "" {
					addr = a.cfg.Serve.Addr
				}
				if a.cfg.Serve.Token == "" {
					a.log.Warn("serve.token is empty; the API is unauthenticated")
				}

				srv := server.New(a.svc, a.cfg.ServerID,
					server.WithToken(a.cfg.Serve.Token),
					server.WithLogger(a.log),
					server.WithRegistry(a.reg),
					server.WithProber(a.prober()),
				)
				return srv.ListenAndServe(ctx, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}
