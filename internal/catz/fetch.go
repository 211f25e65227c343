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
package catz

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/config"
)

// Fetcher obtains the record set of a catalog zone, reusing the local copy while the master serial is unchanged.
type Fetcher struct {
	client TransferClient
	logger *zap.Logger
}

func NewFetcher(client TransferClient, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		logger: logger,
	}
}

// Fetch returns the current content of the catalog zone described by source.
func (fetcher *Fetcher) Fetch(ctx context.Context, source config.CatalogZoneSource) (*Zone, error) {
	logger := fetcher.logger.With(zap.String("catalog", source.Origin))

	var cached *Zone
	var cacheErr error
	if source.ZoneFile != nil {
		cached, cacheErr = ReadZoneFile(*source.ZoneFile, source.Origin)
		if cacheErr != nil {
			if errors.Is(cacheErr, os.ErrNotExist) {
				logger.Debug("No cached catalog zone", zap.String("zonefile", *source.ZoneFile))
			} else {
				logger.Warn("Ignoring unreadable cached catalog zone", zap.String("zonefile", *source.ZoneFile),
					zap.Error(cacheErr))
			}
			cached = nil
		}
	}

	// A catalog without a master is only ever read from its zone file.
	if source.Master == nil {
		if cached == nil {
			return nil, &TransferError{Origin: source.Origin, Err: cacheErr}
		}
		logger.Debug("Loaded catalog zone from zone file", zap.Uint32("serial", cached.Serial()))
		return cached, nil
	}

	request := TransferRequest{
		Origin: source.Origin,
		Master: *source.Master,
		Key:    source.Key,
	}

	if cached != nil {
		serial, err := fetcher.client.Serial(ctx, request)
		if err != nil {
			logger.Warn("Serial check failed, falling back to full transfer", zap.Error(err))
		} else if !SerialNewer(serial, cached.Serial()) {
			logger.Debug("Zone not changed", zap.Uint32("serial", cached.Serial()))
			return cached, nil
		} else {
			logger.Debug("Zone changed", zap.Uint32("cachedSerial", cached.Serial()),
				zap.Uint32("masterSerial", serial))
		}
	}

	start := time.Now()
	records, err := fetcher.client.Transfer(ctx, request)
	if err != nil {
		return nil, &TransferError{Origin: source.Origin, Master: request.Master, Err: err}
	}

	zone, err := NewZone(source.Origin, records)
	if err != nil {
		return nil, &TransferError{Origin: source.Origin, Master: request.Master,
			Err: fmt.Errorf("incomplete transfer: %w", err)}
	}
	logger.Debug("Zone transferred", zap.Duration("elapsed", time.Since(start)),
		zap.Uint32("serial", zone.Serial()), zap.Int("records", len(zone.Records)))

	if source.ZoneFile != nil {
		if err := WriteZoneFile(*source.ZoneFile, zone); err != nil {
			logger.Error("Failed to write catalog zone cache", zap.String("zonefile", *source.ZoneFile),
				zap.Error(err))
		}
	}

	return zone, nil
}
