// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish"
)

func newUpdateFirmwareCmd(opts *globalOptions) *cobra.Command {
	var (
		protocol string
		targets  []string
		wait     bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "update-firmware IMAGE_URI",
		Short: "Apply a firmware image through the UpdateService",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root, release, err := ServiceRootImpl(ctx, opts.cfg, opts.debug)
			if err != nil {
				return err
			}
			defer release()

			updates, err := root.UpdateService(ctx)
			if err != nil {
				return err
			}
			monitor, err := updates.SimpleUpdate(ctx, args[0], redfish.TransferProtocol(protocol), targets)
			if err != nil {
				return err
			}
			if wait {
				if err := waitForTask(ctx, monitor, newPollLimiter(interval)); err != nil {
					return err
				}
			}
			registries, err := root.MessageRegistries(ctx, opts.cfg.Language)
			if err != nil {
				return err
			}
			return reportTask(ctx, cmd.OutOrStdout(), monitor, registries)
		},
	}

	cmd.Flags().StringVar(&protocol, "protocol", "", "transfer protocol, such as HTTPS; empty lets the service infer it")
	cmd.Flags().StringSliceVar(&targets, "target", nil, "URI of a component to update; repeatable")
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "wait for the update task to complete")
	cmd.Flags().DurationVar(&interval, "poll-interval", defaultPollInterval, "minimum time between task polls")
	return cmd
}
