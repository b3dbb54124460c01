// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/dnsunblock/src/service"
)

var errAborted = errors.New("aborted")

func (c *cli) unblockCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "unblock DOMAIN...",
		Short: "Whitelist the root domains of the given hostnames",
		Long: `Whitelist the root domains of the given hostnames.

Each hostname is reduced to its root domain and a rule "@@||root^" is
appended to the server's user rules, which also allows every subdomain.
Rules already present are left alone.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				out := cmd.OutOrStdout()

				sum := a.svc.Preview(args)
				if len(sum.Roots) == 0 {
					return service.ErrNoDomains
				}

				fmt.Fprintln(out, "This will allow:")
				for _, line := range strings.Split(sum.String(), "\n") {
					fmt.Fprintln(out, "  "+line)
				}
				if !yes {
					ok, err := confirm(cmd.InOrStdin(), out, "Proceed?")
					if err != nil {
						return err
					}
					if !ok {
						return errAborted
					}
				}

				res, err := a.svc.Unblock(ctx, a.cfg.ServerID, args)
				if err != nil {
					return err
				}
				printUnblockResult(out, res)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func printUnblockResult(out io.Writer, res service.UnblockResult) {
	switch {
	case res.NoOp():
		fmt.Fprintf(out, "Already whitelisted: %s\n", strings.Join(res.AlreadyPresent, ", "))
		return
	case res.Partial():
		fmt.Fprintf(out, "Added %d rule(s); already whitelisted: %s\n",
			len(res.Added), strings.Join(res.AlreadyPresent, ", "))
	default:
		fmt.Fprintf(out, "Added %d rule(s)\n", len(res.Added))
	}
	for _, r := range res.Added {
		fmt.Fprintln(out, "  "+r)
	}
	if !res.RulesEnabled {
		fmt.Fprintln(out, "Note: user rules are disabled on this server; enable them for the new rules to apply.")
	}
}
