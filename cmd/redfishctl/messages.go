// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/registry"
)

func newMessagesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "messages [MESSAGE_ID [ARG...]]",
		Short: "List message registries or resolve a message id",
		Long: `Without arguments, lists the message registries the service provides
for the configured language. With a message id such as
Base.1.0.0.PropertyValueNotInList, prints the resolved message.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root, release, err := ServiceRootImpl(ctx, opts.cfg, opts.debug)
			if err != nil {
				return err
			}
			defer release()

			registries, err := root.MessageRegistries(ctx, opts.cfg.Language)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				keys := make([]string, 0, len(registries))
				for k := range registries {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(out, "%s\t%d messages\n", k, len(registries[k].Messages))
				}
				return nil
			}

			msgArgs := make([]any, 0, len(args)-1)
			for _, a := range args[1:] {
				msgArgs = append(msgArgs, a)
			}
			m := registry.ParseMessage(registries, registry.Message{
				MessageID:   field.Of(args[0]),
				MessageArgs: msgArgs,
			})
			fmt.Fprintf(out, "[%s] %s\n", m.Severity.OrElse(registry.SeverityWarning), m.Message.OrElse(registry.UnknownText))
			if resolution, ok := m.Resolution.Get(); ok && resolution != "" {
				fmt.Fprintf(out, "resolution: %s\n", resolution)
			}
			return nil
		},
	}
}
