// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish"
)

func newResetCmd(opts *globalOptions) *cobra.Command {
	var (
		resetType string
		wait      bool
		interval  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "reset SYSTEM",
		Short: "Reset a computer system, addressed by Id or URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root, release, err := ServiceRootImpl(ctx, opts.cfg, opts.debug)
			if err != nil {
				return err
			}
			defer release()

			system, err := findSystem(ctx, root, args[0])
			if err != nil {
				return err
			}
			monitor, err := system.Reset(ctx, redfish.ResetType(resetType))
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

	cmd.Flags().StringVarP(&resetType, "type", "t", string(redfish.ResetGracefulRestart), "reset type")
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "wait for an asynchronous reset to complete")
	cmd.Flags().DurationVar(&interval, "poll-interval", defaultPollInterval, "minimum time between task polls")
	return cmd
}

func findSystem(ctx context.Context, root *redfish.ServiceRoot, id string) (*redfish.System, error) {
	systems, err := root.Systems(ctx)
	if err != nil {
		return nil, err
	}
	for _, path := range systems.MembersIdentities {
		s, err := systems.GetMember(ctx, path)
		if err != nil {
			return nil, err
		}
		if path == id || s.ID.OrElse("") == id {
			return s, nil
		}
	}
	return nil, errors.NewNotFound(http.MethodGet, systems.Path()+"#"+id)
}
