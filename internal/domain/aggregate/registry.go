package aggregate

import (
	"errors"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/domain/project"
	"github.com/louisbranch/trackspace/internal/domain/task"
	"github.com/louisbranch/trackspace/internal/domain/user"
	"github.com/louisbranch/trackspace/internal/domain/workspace"
)

// RegisterCommands registers every aggregate kind's commands with the shared
// registry. newID mints server-side identifiers for payload fields that
// accept them (currently task comment IDs).
func RegisterCommands(registry *command.Registry, newID func() string) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	if err := workspace.RegisterCommands(registry); err != nil {
		return err
	}
	if err := project.RegisterCommands(registry); err != nil {
		return err
	}
	if err := task.RegisterCommands(registry, newID); err != nil {
		return err
	}
	return user.RegisterCommands(registry)
}

// RegisterEvents registers every aggregate kind's events with the shared
// registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	if err := workspace.RegisterEvents(registry); err != nil {
		return err
	}
	if err := project.RegisterEvents(registry); err != nil {
		return err
	}
	if err := task.RegisterEvents(registry); err != nil {
		return err
	}
	return user.RegisterEvents(registry)
}
