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
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/reconcile"
)

const (
	DefaultNSDControl = "nsd-control"
	DefaultZoneList   = "/var/lib/nsd/zone.list"
)

// CommandRunner runs an external program and returns what it printed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs on the local host.
type ExecRunner struct{}

func (runner ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	return output.Bytes(), err
}

// NSDBackend drives NSD through nsd-control and reads the zones it serves from its zone list file.
type NSDBackend struct {
	ControlPath  string
	ConfigPath   *string
	ZoneListPath string

	runner CommandRunner
}

func NewNSDBackend(controlPath string, configPath *string, zoneListPath string, runner CommandRunner) *NSDBackend {
	if runner == nil {
		runner = ExecRunner{}
	}

	return &NSDBackend{
		ControlPath:  controlPath,
		ConfigPath:   configPath,
		ZoneListPath: zoneListPath,
		runner:       runner,
	}
}

func (backend *NSDBackend) CurrentState(_ context.Context) (common.ZonePatterns, error) {
	return reconcile.ReadZoneList(backend.ZoneListPath)
}

func (backend *NSDBackend) AddZone(ctx context.Context, zone string, pattern string) error {
	return backend.control(ctx, VerbAddZone, zone, pattern)
}

func (backend *NSDBackend) ChangeZone(ctx context.Context, zone string, pattern string) error {
	return backend.control(ctx, VerbChangeZone, zone, pattern)
}

func (backend *NSDBackend) DeleteZone(ctx context.Context, zone string) error {
	return backend.control(ctx, VerbDeleteZone, zone)
}

// control runs nsd-control. nsd-control reports some failures with exit status 0 and an "error" line, both count.
func (backend *NSDBackend) control(ctx context.Context, args ...string) error {
	if backend.ConfigPath != nil {
		args = append([]string{"-c", *backend.ConfigPath}, args...)
	}

	output, err := backend.runner.Run(ctx, backend.ControlPath, args...)
	message := strings.TrimSpace(string(output))
	if err != nil {
		if message != "" {
			return fmt.Errorf("%s: %w: %s", backend.ControlPath, err, message)
		}
		return fmt.Errorf("%s: %w", backend.ControlPath, err)
	}
	if strings.HasPrefix(message, "error") {
		return fmt.Errorf("%s: %s", backend.ControlPath, message)
	}

	return nil
}
