// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package redfish

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
)

// Processor is a processor of a system.
type Processor struct {
	resource.Base

	ID                    field.Value[string]
	Name                  field.Value[string]
	Socket                field.Value[string]
	ProcessorType         field.Value[string]
	ProcessorArchitecture field.Value[string]
	InstructionSet        field.Value[string]
	Manufacturer          field.Value[string]
	Model                 field.Value[string]
	MaxSpeedMHz           field.Value[int]
	TotalCores            field.Value[int]
	TotalThreads          field.Value[int]
	Status                *Status
}

var processorSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(p *Processor) *field.Value[string] { return &p.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(p *Processor) *field.Value[string] { return &p.Name }),
	field.Scalar(field.P("Socket"), field.String, func(p *Processor) *field.Value[string] { return &p.Socket }),
	field.Scalar(field.P("ProcessorType"), field.String, func(p *Processor) *field.Value[string] { return &p.ProcessorType }),
	field.Scalar(field.P("ProcessorArchitecture"), field.String, func(p *Processor) *field.Value[string] { return &p.ProcessorArchitecture }),
	field.Scalar(field.P("InstructionSet"), field.String, func(p *Processor) *field.Value[string] { return &p.InstructionSet }),
	field.Scalar(field.P("Manufacturer"), field.String, func(p *Processor) *field.Value[string] { return &p.Manufacturer }),
	field.Scalar(field.P("Model"), field.String, func(p *Processor) *field.Value[string] { return &p.Model }),
	field.Scalar(field.P("MaxSpeedMHz"), field.Int, func(p *Processor) *field.Value[int] { return &p.MaxSpeedMHz }),
	field.Scalar(field.P("TotalCores"), field.Int, func(p *Processor) *field.Value[int] { return &p.TotalCores }),
	field.Scalar(field.P("TotalThreads"), field.Int, func(p *Processor) *field.Value[int] { return &p.TotalThreads }),
	field.Composite(field.P("Status"), statusSchema, func(p *Processor) **Status { return &p.Status }),
)

// Parse implements resource.Parser.
func (p *Processor) Parse(c field.Context, doc map[string]any) error {
	return processorSchema.Decode(c, doc, p)
}

// NewProcessor fetches the processor at path.
func NewProcessor(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*Processor, error) {
	p := &Processor{}
	if err := resource.Init(ctx, p, &p.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return p, nil
}

// ProcessorSummary aggregates the processors of a system.
type ProcessorSummary struct {
	// Count is the number of processors not reported as Absent.
	Count        int
	Architecture field.Value[string]
	TotalCores   field.Value[int]
	TotalThreads field.Value[int]
	MaxSpeedMHz  field.Value[int]
}

// ProcessorCollection lists the processors of a system.
type ProcessorCollection struct {
	resource.Collection[*Processor]

	summary resource.Memo[ProcessorSummary]
}

// NewProcessorCollection fetches the collection at path.
func NewProcessorCollection(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*ProcessorCollection, error) {
	c := &ProcessorCollection{}
	if err := resource.InitCollection(ctx, c, &c.Collection, conn, path, version, NewProcessor, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Summary aggregates the members. It is computed once and kept until the
// collection is refreshed with a changed document or forcibly.
func (c *ProcessorCollection) Summary(ctx context.Context) (ProcessorSummary, error) {
	return c.summary.Get(ctx, &c.Base, func(ctx context.Context) (ProcessorSummary, error) {
		members, err := c.GetMembers(ctx)
		if err != nil {
			return ProcessorSummary{}, err
		}

		var (
			summary               ProcessorSummary
			cores, threads, speed []field.Value[int]
		)
		for _, p := range members {
			if p.Status != nil && p.Status.State.OrElse("") == StateAbsent {
				continue
			}
			summary.Count++
			if !summary.Architecture.IsPresent() && p.ProcessorArchitecture.IsPresent() {
				summary.Architecture = p.ProcessorArchitecture
			}
			cores = append(cores, p.TotalCores)
			threads = append(threads, p.TotalThreads)
			speed = append(speed, p.MaxSpeedMHz)
		}
		summary.TotalCores = resource.SafeSum(cores)
		summary.TotalThreads = resource.SafeSum(threads)
		summary.MaxSpeedMHz = resource.SafeMax(speed)
		return summary, nil
	})
}
