// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Command redfishctl inspects and drives a Redfish service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/linuxfoundation/lfx-v2-redfish-client/pkg/log"
)

func init() {
	// structured logs go to stderr so command output stays parseable
	logging.InitStructureLogConfig()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
