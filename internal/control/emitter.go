/*
 *
 *  MIT License
 *
 *  (C) Copyright 2022 Hewlett Packard Enterprise Development LP
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a
 *  copy of this software and associated documentation files (the "Software"),
 *  to deal in the Software without restriction, including without limitation
 *  the rights to use, copy, modify, merge, publish, distribute, sublicense,
 *  and/or sell copies of the Software, and to permit persons to whom the
 *  Software is furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included
 *  in all copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
 *  THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR
 *  OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
 *  ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
 *  OTHER DEALINGS IN THE SOFTWARE.
 *
 */
package control

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/reconcile"
)

const (
	VerbAddZone    = "addzone"
	VerbChangeZone = "changezone"
	VerbDeleteZone = "delzone"
)

// Backend is the downstream name server: where the current zone set is read from and where control commands go.
type Backend interface {
	// CurrentState returns the zones the server serves now, mapped to their patterns.
	CurrentState(ctx context.Context) (common.ZonePatterns, error)

	AddZone(ctx context.Context, zone string, pattern string) error
	ChangeZone(ctx context.Context, zone string, pattern string) error
	DeleteZone(ctx context.Context, zone string) error
}

// Command is a control command in nsd-control form.
type Command struct {
	Verb    string `json:"verb"`
	Zone    string `json:"zone"`
	Pattern string `json:"pattern,omitempty"`
}

func (command Command) String() string {
	if command.Pattern == "" {
		return fmt.Sprintf("%s %s", command.Verb, command.Zone)
	}
	return fmt.Sprintf("%s %s %s", command.Verb, command.Zone, command.Pattern)
}

// CommandFor maps a plan operation onto its control command.
func CommandFor(operation reconcile.Operation) Command {
	switch operation.Kind {
	case reconcile.OperationAdd:
		return Command{Verb: VerbAddZone, Zone: operation.Zone, Pattern: operation.Pattern}
	case reconcile.OperationChange:
		return Command{Verb: VerbChangeZone, Zone: operation.Zone, Pattern: operation.Pattern}
	default:
		return Command{Verb: VerbDeleteZone, Zone: operation.Zone}
	}
}

// CommandError is a control command the backend failed to execute.
type CommandError struct {
	Command Command
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Emitter issues the operations of a plan to a Backend.
type Emitter struct {
	backend Backend
	logger  *zap.Logger
}

func NewEmitter(backend Backend, logger *zap.Logger) *Emitter {
	return &Emitter{
		backend: backend,
		logger:  logger,
	}
}

// Apply issues every operation of the plan in order and returns the commands it issued. In simulate mode the
// commands are only logged. A failed command is not retried and does not stop the remaining ones, all failures are
// returned together once the plan has been worked through.
func (emitter *Emitter) Apply(ctx context.Context, plan reconcile.Plan, simulate bool) ([]Command, error) {
	var commands []Command
	var errs error

	for _, operation := range plan.Operations {
		command := CommandFor(operation)
		commandLogger := emitter.logger.With(zap.String("zone", command.Zone), zap.String("command", command.String()))

		switch operation.Kind {
		case reconcile.OperationAdd:
			commandLogger.Info("Add zone", zap.String("pattern", command.Pattern))
		case reconcile.OperationChange:
			commandLogger.Info("Update zone", zap.String("pattern", command.Pattern))
		case reconcile.OperationDelete:
			commandLogger.Info("Delete zone")
		}

		commands = append(commands, command)

		if simulate {
			commandLogger.Debug("DRY-RUN")
			continue
		}

		commandLogger.Debug("EXEC")
		if err := emitter.execute(ctx, operation); err != nil {
			commandLogger.Error("Control command failed", zap.Error(err))
			errs = multierr.Append(errs, &CommandError{Command: command, Err: err})
		}
	}

	return commands, errs
}

func (emitter *Emitter) execute(ctx context.Context, operation reconcile.Operation) error {
	switch operation.Kind {
	case reconcile.OperationAdd:
		return emitter.backend.AddZone(ctx, operation.Zone, operation.Pattern)
	case reconcile.OperationChange:
		return emitter.backend.ChangeZone(ctx, operation.Zone, operation.Pattern)
	case reconcile.OperationDelete:
		return emitter.backend.DeleteZone(ctx, operation.Zone)
	default:
		return fmt.Errorf("unknown operation %s", operation.Kind)
	}
}
