// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"
	"goa.design/clue/log"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	debug      bool
	flags      Config
	cfg        Config
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:          "redfishctl",
		Short:        "Inspect and operate Redfish services",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = opts.override(cmd, cfg)
			if err := opts.cfg.Validate(); err != nil {
				return err
			}

			if opts.debug {
				ctx := log.Context(cmd.Context(),
					log.WithOutput(cmd.ErrOrStderr()),
					log.WithFormat(log.FormatTerminal),
					log.WithDebug(),
				)
				cmd.SetContext(ctx)
			}
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML configuration file")
	f.BoolVarP(&opts.debug, "debug", "d", false, "log every HTTP exchange")
	f.StringVar(&opts.flags.Address, "address", "", "BMC base URL, such as https://10.0.0.5")
	f.StringVarP(&opts.flags.Username, "username", "u", "", "BMC user name")
	f.StringVarP(&opts.flags.Password, "password", "p", "", "BMC password")
	f.StringVar(&opts.flags.AuthMode, "auth", "", "authentication mode: basic, session or none")
	f.StringVar(&opts.flags.Connector, "connector", "", "connector: http or mockup")
	f.StringVar(&opts.flags.MockupDir, "mockup-dir", "", "DMTF mockup directory for the mockup connector")
	f.BoolVar(&opts.flags.Insecure, "insecure", false, "skip TLS certificate verification")
	f.StringVar(&opts.flags.Language, "language", "", "message registry language")

	cmd.AddCommand(
		newInventoryCmd(opts),
		newResetCmd(opts),
		newUpdateFirmwareCmd(opts),
		newMessagesCmd(opts),
	)
	return cmd
}

// override applies the flags the user actually set on top of cfg.
func (o *globalOptions) override(cmd *cobra.Command, cfg Config) Config {
	f := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if f.Changed(name) {
			*dst = v
		}
	}
	set("address", &cfg.Address, o.flags.Address)
	set("username", &cfg.Username, o.flags.Username)
	set("password", &cfg.Password, o.flags.Password)
	set("auth", &cfg.AuthMode, o.flags.AuthMode)
	set("connector", &cfg.Connector, o.flags.Connector)
	set("mockup-dir", &cfg.MockupDir, o.flags.MockupDir)
	set("language", &cfg.Language, o.flags.Language)
	if f.Changed("insecure") {
		cfg.Insecure = o.flags.Insecure
	}
	return cfg
}
