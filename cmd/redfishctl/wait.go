// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/registry"
	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/task"
)

// defaultPollInterval bounds how often a monitor is polled whatever the
// service asks for in Retry-After.
const defaultPollInterval = time.Second

func newPollLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// waitForTask polls monitor until the operation completes, sleeping as
// long as the service asks between polls.
func waitForTask(ctx context.Context, monitor *task.Monitor, limiter *rate.Limiter) error {
	for {
		inProgress, err := monitor.InProgress(ctx)
		if err != nil {
			return fmt.Errorf("polling %s: %w", monitor.Path(), err)
		}
		if !inProgress {
			return nil
		}

		slog.DebugContext(ctx, "waiting for task",
			"path", monitor.Path(),
			"sleep_for", monitor.SleepFor(),
		)
		timer := time.NewTimer(monitor.SleepFor())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
	}
}

// reportTask prints the outcome of a completed monitor, with the task
// messages resolved against registries when the service returned a task.
func reportTask(ctx context.Context, out io.Writer, monitor *task.Monitor, registries map[string]*registry.MessageRegistry) error {
	if monitor.State() == task.InProgress {
		fmt.Fprintf(out, "task accepted, monitor at %s\n", monitor.Path())
		return nil
	}

	t, err := monitor.Task(ctx)
	if err != nil {
		status := 0
		if resp := monitor.Response(); resp != nil {
			status = resp.StatusCode
		}
		fmt.Fprintf(out, "completed with status %d\n", status)
		return nil
	}

	fmt.Fprintf(out, "task %s: %s (%s)\n",
		t.ID.OrElse(t.Path()),
		t.TaskState.OrElse("Unknown"),
		t.TaskStatus.OrElse(registry.SeverityOK),
	)
	for _, m := range t.ParseMessages(registries) {
		fmt.Fprintf(out, "  [%s] %s: %s\n",
			m.Severity.OrElse(registry.SeverityWarning),
			m.MessageID.OrElse(""),
			m.Message.OrElse(registry.UnknownText),
		)
	}
	return nil
}
