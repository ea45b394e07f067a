// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish"
)

type systemReport struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name,omitempty"`
	Manufacturer string `yaml:"manufacturer,omitempty"`
	Model        string `yaml:"model,omitempty"`
	SerialNumber string `yaml:"serial_number,omitempty"`
	PowerState   string `yaml:"power_state,omitempty"`
	Health       string `yaml:"health,omitempty"`
	MemoryGiB    any    `yaml:"memory_gib,omitempty"`
	Processors   any    `yaml:"processors,omitempty"`
	MaxDriveSize any    `yaml:"max_drive_bytes,omitempty"`
}

type processorReport struct {
	Count        int    `yaml:"count"`
	Architecture string `yaml:"architecture,omitempty"`
	TotalCores   any    `yaml:"total_cores,omitempty"`
	TotalThreads any    `yaml:"total_threads,omitempty"`
	MaxSpeedMHz  any    `yaml:"max_speed_mhz,omitempty"`
}

type managerReport struct {
	ID              string `yaml:"id"`
	Type            string `yaml:"type,omitempty"`
	FirmwareVersion string `yaml:"firmware_version,omitempty"`
}

type chassisReport struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type,omitempty"`
}

type inventoryReport struct {
	Service struct {
		Name           string `yaml:"name,omitempty"`
		RedfishVersion string `yaml:"redfish_version"`
		Product        string `yaml:"product,omitempty"`
		Vendor         string `yaml:"vendor,omitempty"`
	} `yaml:"service"`
	Systems  []systemReport  `yaml:"systems,omitempty"`
	Managers []managerReport `yaml:"managers,omitempty"`
	Chassis  []chassisReport `yaml:"chassis,omitempty"`
}

func newInventoryCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "Print systems, managers and chassis as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			root, release, err := ServiceRootImpl(ctx, opts.cfg, opts.debug)
			if err != nil {
				return err
			}
			defer release()

			report, err := buildInventory(ctx, root)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(report); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

// buildInventory walks the service. Services lacking a whole collection
// simply have no entry for it.
func buildInventory(ctx context.Context, root *redfish.ServiceRoot) (*inventoryReport, error) {
	report := &inventoryReport{}
	report.Service.Name = root.Name.OrElse("")
	report.Service.RedfishVersion = root.SchemaVersion()
	report.Service.Product = root.Product.OrElse("")
	report.Service.Vendor = root.Vendor.OrElse("")

	systems, err := root.Systems(ctx)
	switch {
	case errors.IsNotFound(err):
	case err != nil:
		return nil, err
	default:
		members, err := systems.GetMembers(ctx)
		if err != nil {
			return nil, err
		}
		for _, s := range members {
			report.Systems = append(report.Systems, describeSystem(ctx, s))
		}
	}

	managers, err := root.Managers(ctx)
	switch {
	case errors.IsNotFound(err):
	case err != nil:
		return nil, err
	default:
		members, err := managers.GetMembers(ctx)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			report.Managers = append(report.Managers, managerReport{
				ID:              m.ID.OrElse(m.Path()),
				Type:            string(m.ManagerType.OrElse("")),
				FirmwareVersion: m.FirmwareVersion.OrElse(""),
			})
		}
	}

	chassis, err := root.Chassis(ctx)
	switch {
	case errors.IsNotFound(err):
	case err != nil:
		return nil, err
	default:
		members, err := chassis.GetMembers(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range members {
			report.Chassis = append(report.Chassis, chassisReport{
				ID:   c.ID.OrElse(c.Path()),
				Type: c.ChassisType.OrElse(""),
			})
		}
	}

	return report, nil
}

// describeSystem reports what the system exposes; sub-resources that fail
// are logged and left out.
func describeSystem(ctx context.Context, s *redfish.System) systemReport {
	r := systemReport{
		ID:           s.ID.OrElse(s.Path()),
		Name:         s.Name.OrElse(""),
		Manufacturer: s.Manufacturer.OrElse(""),
		Model:        s.Model.OrElse(""),
		SerialNumber: s.SerialNumber.OrElse(""),
		PowerState:   string(s.PowerState.OrElse("")),
	}
	if s.Status != nil {
		r.Health = string(s.Status.Health.OrElse(""))
	}
	if s.MemorySummary != nil {
		if gib, ok := s.MemorySummary.TotalSystemMemoryGiB.Get(); ok {
			r.MemoryGiB = gib
		}
	}

	if processors, err := s.Processors(ctx); err == nil {
		summary, err := processors.Summary(ctx)
		if err == nil {
			p := processorReport{
				Count:        summary.Count,
				Architecture: summary.Architecture.OrElse(""),
			}
			if v, ok := summary.TotalCores.Get(); ok {
				p.TotalCores = v
			}
			if v, ok := summary.TotalThreads.Get(); ok {
				p.TotalThreads = v
			}
			if v, ok := summary.MaxSpeedMHz.Get(); ok {
				p.MaxSpeedMHz = v
			}
			r.Processors = p
		} else {
			slog.WarnContext(ctx, "unable to summarise processors", "system", r.ID, "error", err)
		}
	}

	if storage, err := s.Storage(ctx); err == nil {
		subsystems, err := storage.GetMembers(ctx)
		if err != nil {
			slog.WarnContext(ctx, "unable to read storage", "system", r.ID, "error", err)
			return r
		}
		var largest int64
		for _, st := range subsystems {
			size, err := st.MaxDriveSize(ctx)
			if err != nil {
				slog.WarnContext(ctx, "unable to read drives", "storage", st.Path(), "error", err)
				continue
			}
			if v, ok := size.Get(); ok && (r.MaxDriveSize == nil || v > largest) {
				largest = v
				r.MaxDriveSize = v
			}
		}
	}
	return r
}
