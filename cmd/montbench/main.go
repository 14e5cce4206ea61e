// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/luxfi/montbench/cmd/montbench/run"
)

func main() {
	cmd := &cobra.Command{
		Use:   "montbench",
		Short: "Montgomery multiplication accelerator benchmark",
	}
	cmd.AddCommand(run.Command())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "montbench: %s\n", err)
		os.Exit(1)
	}
}
