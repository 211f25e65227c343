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
package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

var errRunInProgress = errors.New("synchronization already in progress")

// trueUp runs one synchronization unless another one is still in progress.
func trueUp(ctx context.Context) error {
	trueUpMtx.Lock()
	if trueUpInProgress {
		trueUpMtx.Unlock()
		return errRunInProgress
	}
	trueUpInProgress = true
	trueUpMtx.Unlock()

	result, err := syncManager.Run(ctx, *dryRun)

	trueUpMtx.Lock()
	lastResult = result
	trueUpInProgress = false
	trueUpMtx.Unlock()

	return err
}

func doLoop(ctx context.Context) {
	logger.Info("Running true up loop at interval.", zap.Int("interval", *interval))

	defer WaitGroup.Done()

	for Running {
		select {
		case <-trueUpShutdown:
			logger.Info("True up loop shutdown.")
			return
		case <-trueUpRunNow: // do it
		case <-time.After(time.Duration(*interval) * time.Second):
			logger.Debug("Running true up loop.")
		}

		if err := trueUp(ctx); err != nil {
			logger.Error("Synchronization failed!", zap.Error(err))
		} else {
			logger.Info("Synchronization complete.")
		}
	}

	logger.Info("True up loop shutdown.")
}
