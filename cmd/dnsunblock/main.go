// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Command dnsunblock finds the domains an AdGuard DNS account has been
// blocking lately and whitelists the ones a broken app needs.
//
//	dnsunblock blocked --window 2h
//	dnsunblock unblock www.peacocktv.com cdn.peacocktv.com
//	dnsunblock verify www.peacocktv.com
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
