// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package redfish is the typed catalog of Redfish resources, from the
// ServiceRoot down to drives and volumes. Every type is a thin declaration
// over the field, resource, oem, registry and task packages.
package redfish

import (
	"context"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/task"
)

// Health of a resource.
type Health string

const (
	HealthOK       Health = "OK"
	HealthWarning  Health = "Warning"
	HealthCritical Health = "Critical"
)

var healths = field.Enum(HealthOK, HealthWarning, HealthCritical)

// State of a resource.
type State string

const (
	StateEnabled            State = "Enabled"
	StateDisabled           State = "Disabled"
	StateStandbyOffline     State = "StandbyOffline"
	StateStandbySpare       State = "StandbySpare"
	StateInTest             State = "InTest"
	StateStarting           State = "Starting"
	StateAbsent             State = "Absent"
	StateUnavailableOffline State = "UnavailableOffline"
	StateDeferring          State = "Deferring"
	StateQuiesced           State = "Quiesced"
	StateUpdating           State = "Updating"
)

var states = field.Enum(
	StateEnabled, StateDisabled, StateStandbyOffline, StateStandbySpare,
	StateInTest, StateStarting, StateAbsent, StateUnavailableOffline,
	StateDeferring, StateQuiesced, StateUpdating,
)

// Status is the common status object.
type Status struct {
	State        field.Value[State]
	Health       field.Value[Health]
	HealthRollup field.Value[Health]
}

var statusSchema = field.NewSchema(
	field.Mapped(field.P("State"), states, func(s *Status) *field.Value[State] { return &s.State }),
	field.Mapped(field.P("Health"), healths, func(s *Status) *field.Value[Health] { return &s.Health }),
	field.Mapped(field.P("HealthRollup"), healths, func(s *Status) *field.Value[Health] { return &s.HealthRollup }),
)

// IndicatorLED is the state of the identification LED.
type IndicatorLED string

const (
	IndicatorLit      IndicatorLED = "Lit"
	IndicatorBlinking IndicatorLED = "Blinking"
	IndicatorOff      IndicatorLED = "Off"
)

var indicatorLEDs = field.Enum(IndicatorLit, IndicatorBlinking, IndicatorOff)

// PowerState of a system, chassis or manager.
type PowerState string

const (
	PowerOn          PowerState = "On"
	PowerOff         PowerState = "Off"
	PowerPoweringOn  PowerState = "PoweringOn"
	PowerPoweringOff PowerState = "PoweringOff"
	PowerPaused      PowerState = "Paused"
)

var powerStates = field.Enum(PowerOn, PowerOff, PowerPoweringOn, PowerPoweringOff, PowerPaused)

// ResetType is the parameter of Reset actions.
type ResetType string

const (
	ResetOn               ResetType = "On"
	ResetForceOff         ResetType = "ForceOff"
	ResetGracefulShutdown ResetType = "GracefulShutdown"
	ResetGracefulRestart  ResetType = "GracefulRestart"
	ResetForceRestart     ResetType = "ForceRestart"
	ResetNmi              ResetType = "Nmi"
	ResetForceOn          ResetType = "ForceOn"
	ResetPushPowerButton  ResetType = "PushPowerButton"
	ResetPowerCycle       ResetType = "PowerCycle"
	ResetSuspend          ResetType = "Suspend"
	ResetPause            ResetType = "Pause"
	ResetResume           ResetType = "Resume"
)

var resetTypes = field.Enum(
	ResetOn, ResetForceOff, ResetGracefulShutdown, ResetGracefulRestart,
	ResetForceRestart, ResetNmi, ResetForceOn, ResetPushPowerButton,
	ResetPowerCycle, ResetSuspend, ResetPause, ResetResume,
)

// link returns the descriptor of a navigation link stored in slot.
func link[T any](key string, slot func(*T) *field.Value[string]) field.Descriptor[T] {
	return field.Scalar(field.P(key), field.Link, slot)
}

// child builds the sub-resource behind a navigation link and memoises it
// in cell. A resource without the link reports the sub-resource as not
// found, the same way a service without the feature would.
func child[R resource.Resource](ctx context.Context, cell *resource.Cell[R], owner *resource.Base, name string, ref field.Value[string], factory resource.Factory[R]) (R, error) {
	return cell.Get(ctx, owner, func(ctx context.Context) (R, error) {
		path, ok := ref.Get()
		if !ok || path == "" {
			var zero R
			return zero, errors.NewNotFound(http.MethodGet, owner.Path()+"#/"+name)
		}
		return factory(ctx, owner.Connector(), path, owner.SchemaVersion(), owner.ChildOptions()...)
	})
}

// allowedOrAll returns the values the service advertises for param, or
// the whole table when it advertises none.
func allowedOrAll[E any](a *resource.Action, param string, table map[string]E) []string {
	if allowed, ok := a.Allowed(param); ok && len(allowed) > 0 {
		return allowed
	}
	return field.Keys(table)
}

// reset performs a Reset style action and invalidates the owner, whose
// power state is about to change.
func reset(ctx context.Context, owner *resource.Base, a *resource.Action, name string, resetType ResetType) (*task.Monitor, error) {
	target, err := resource.ActionTarget(a, name, owner)
	if err != nil {
		return nil, err
	}
	if err := resource.ValidateParameter("ResetType", string(resetType), allowedOrAll(a, "ResetType", resetTypes)); err != nil {
		return nil, err
	}

	resp, err := owner.Post(ctx, target, map[string]any{"ResetType": resetType})
	if err != nil {
		return nil, err
	}
	if err := owner.Invalidate(ctx, false); err != nil {
		return nil, err
	}
	return task.FromResponse(owner.Connector(), resp, task.WithLogger(owner.Logger())), nil
}
