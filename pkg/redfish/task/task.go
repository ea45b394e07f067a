// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package task

import (
	"context"
	"time"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/registry"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/resource"
)

// TaskState is the lifecycle state reported by a Task.
type TaskState string

const (
	TaskNew         TaskState = "New"
	TaskStarting    TaskState = "Starting"
	TaskRunning     TaskState = "Running"
	TaskSuspended   TaskState = "Suspended"
	TaskInterrupted TaskState = "Interrupted"
	TaskPending     TaskState = "Pending"
	TaskStopping    TaskState = "Stopping"
	TaskCompleted   TaskState = "Completed"
	TaskKilled      TaskState = "Killed"
	TaskException   TaskState = "Exception"
	TaskService     TaskState = "Service"
	TaskCancelling  TaskState = "Cancelling"
	TaskCancelled   TaskState = "Cancelled"
)

var taskStates = field.Enum(
	TaskNew, TaskStarting, TaskRunning, TaskSuspended, TaskInterrupted,
	TaskPending, TaskStopping, TaskCompleted, TaskKilled, TaskException,
	TaskService, TaskCancelling, TaskCancelled,
)

var taskHealth = field.Enum(registry.SeverityOK, registry.SeverityWarning, registry.SeverityCritical)

// Task is a long running operation tracked by the service.
type Task struct {
	resource.Base

	ID              field.Value[string]
	Name            field.Value[string]
	TaskState       field.Value[TaskState]
	TaskStatus      field.Value[registry.Severity]
	PercentComplete field.Value[int]
	StartTime       field.Value[time.Time]
	EndTime         field.Value[time.Time]
	TaskMonitor     field.Value[string]
	Messages        []registry.Message
}

var taskSchema = field.NewSchema(
	field.Scalar(field.P("Id"), field.String, func(t *Task) *field.Value[string] { return &t.ID }, field.Required()),
	field.Scalar(field.P("Name"), field.String, func(t *Task) *field.Value[string] { return &t.Name }),
	field.Mapped(field.P("TaskState"), taskStates, func(t *Task) *field.Value[TaskState] { return &t.TaskState }),
	field.Mapped(field.P("TaskStatus"), taskHealth, func(t *Task) *field.Value[registry.Severity] { return &t.TaskStatus }),
	field.Scalar(field.P("PercentComplete"), field.Int, func(t *Task) *field.Value[int] { return &t.PercentComplete }),
	field.Scalar(field.P("StartTime"), field.Time, func(t *Task) *field.Value[time.Time] { return &t.StartTime }),
	field.Scalar(field.P("EndTime"), field.Time, func(t *Task) *field.Value[time.Time] { return &t.EndTime }),
	field.Scalar(field.P("TaskMonitor"), field.String, func(t *Task) *field.Value[string] { return &t.TaskMonitor }),
	field.List(field.P("Messages"), registry.MessageSchema, func(t *Task) *[]registry.Message { return &t.Messages }),
)

// Parse implements resource.Parser.
func (t *Task) Parse(c field.Context, doc map[string]any) error {
	return taskSchema.Decode(c, doc, t)
}

// NewTask fetches the task at path.
func NewTask(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*Task, error) {
	t := &Task{}
	if err := resource.Init(ctx, t, &t.Base, conn, path, version, opts...); err != nil {
		return nil, err
	}
	return t, nil
}

// Done reports whether the task reached a final state.
func (t *Task) Done() bool {
	switch t.TaskState.OrElse("") {
	case TaskCompleted, TaskKilled, TaskException, TaskCancelled:
		return true
	}
	return false
}

// ParseMessages resolves the task messages against registries.
func (t *Task) ParseMessages(registries map[string]*registry.MessageRegistry) []registry.Message {
	out := make([]registry.Message, 0, len(t.Messages))
	for _, m := range t.Messages {
		out = append(out, registry.ParseMessage(registries, m))
	}
	return out
}

// TaskCollection lists the tasks of the TaskService.
type TaskCollection struct {
	resource.Collection[*Task]
}

// NewTaskCollection fetches the collection at path.
func NewTaskCollection(ctx context.Context, conn resource.Connector, path, version string, opts ...resource.Option) (*TaskCollection, error) {
	c := &TaskCollection{}
	if err := resource.InitCollection(ctx, c, &c.Collection, conn, path, version, NewTask, opts...); err != nil {
		return nil, err
	}
	return c, nil
}
