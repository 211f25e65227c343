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

	"github.com/joeig/go-powerdns/v2"
	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
)

// MastersFunc returns the masters the member zones of a pattern are transferred from.
type MastersFunc func(pattern string) []string

// PowerDNSBackend keeps member zones as secondary (Slave) zones on a PowerDNS authoritative server. The pattern of a
// zone is kept in its account field; zones without an account are not managed here and are never touched.
type PowerDNSBackend struct {
	client  *powerdns.Client
	masters MastersFunc
	logger  *zap.Logger
}

func NewPowerDNSBackend(client *powerdns.Client, masters MastersFunc, logger *zap.Logger) *PowerDNSBackend {
	return &PowerDNSBackend{
		client:  client,
		masters: masters,
		logger:  logger,
	}
}

func (backend *PowerDNSBackend) CurrentState(_ context.Context) (common.ZonePatterns, error) {
	zones, err := backend.client.Zones.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	return managedZones(zones), nil
}

// managedZones picks the secondary zones that carry a pattern in their account field.
func managedZones(zones []powerdns.Zone) common.ZonePatterns {
	current := make(common.ZonePatterns)
	for _, zone := range zones {
		if zone.Name == nil || zone.Kind == nil || *zone.Kind != powerdns.SlaveZoneKind {
			continue
		}
		if zone.Account == nil || *zone.Account == "" {
			continue
		}
		current[common.NormalizeZoneName(*zone.Name)] = *zone.Account
	}

	return current
}

func (backend *PowerDNSBackend) AddZone(_ context.Context, zone string, pattern string) error {
	masters := backend.masters(pattern)
	if len(masters) == 0 {
		return fmt.Errorf("no masters known for pattern %s", pattern)
	}

	// The zone is created together with its account. A zone that exists without one would be invisible to
	// CurrentState and could never be added or deleted again.
	name := common.MakeDomainCanonical(zone)
	_, err := backend.client.Zones.Add(&powerdns.Zone{
		Name:    powerdns.String(name),
		Kind:    powerdns.ZoneKindPtr(powerdns.SlaveZoneKind),
		Masters: masters,
		Account: powerdns.String(pattern),
	})
	if err != nil {
		return fmt.Errorf("failed to add zone: %w", err)
	}

	backend.logger.Debug("Added secondary zone", zap.String("zone", name), zap.Strings("masters", masters))

	return nil
}

func (backend *PowerDNSBackend) ChangeZone(_ context.Context, zone string, pattern string) error {
	masters := backend.masters(pattern)
	if len(masters) == 0 {
		return fmt.Errorf("no masters known for pattern %s", pattern)
	}

	name := common.MakeDomainCanonical(zone)
	change := &powerdns.Zone{
		Account: powerdns.String(pattern),
		Masters: masters,
	}
	if err := backend.client.Zones.Change(name, change); err != nil {
		return fmt.Errorf("failed to change zone: %w", err)
	}

	return nil
}

func (backend *PowerDNSBackend) DeleteZone(_ context.Context, zone string) error {
	if err := backend.client.Zones.Delete(common.MakeDomainCanonical(zone)); err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}

	return nil
}
