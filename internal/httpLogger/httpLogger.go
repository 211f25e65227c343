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
package httpLogger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// HTTPLogger routes retryablehttp output into zap. It satisfies both retryablehttp.Logger and
// retryablehttp.LeveledLogger; the leveled form is the one the client prefers.

type HTTPLogger struct {
	logger *zap.Logger
}

func NewHTTPLogger(parentLogger *zap.Logger) *HTTPLogger {
	return &HTTPLogger{
		logger: parentLogger.With(zap.String("component", "http")),
	}
}

func (logger *HTTPLogger) Printf(format string, args ...interface{}) {
	originalMessage := fmt.Sprintf(format, args...)

	if strings.HasPrefix(originalMessage, "[DEBUG]") {
		logger.logger.Debug(strings.TrimSpace(strings.TrimPrefix(originalMessage, "[DEBUG]")))
	} else if strings.HasPrefix(originalMessage, "[WARN]") {
		logger.logger.Warn(strings.TrimSpace(strings.TrimPrefix(originalMessage, "[WARN]")))
	} else if strings.HasPrefix(originalMessage, "[ERR]") {
		logger.logger.Error(strings.TrimSpace(strings.TrimPrefix(originalMessage, "[ERR]")))
	} else {
		logger.logger.Info(strings.TrimSpace(originalMessage))
	}
}

func (logger *HTTPLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.logger.Error(msg, fields(keysAndValues)...)
}

func (logger *HTTPLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.logger.Warn(msg, fields(keysAndValues)...)
}

func (logger *HTTPLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.logger.Info(msg, fields(keysAndValues)...)
}

func (logger *HTTPLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.logger.Debug(msg, fields(keysAndValues)...)
}

// fields turns retryablehttp's alternating key/value list into zap fields. A dangling key is kept with a nil value.
func fields(keysAndValues []interface{}) []zap.Field {
	result := make([]zap.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		var value interface{}
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}
		result = append(result, zap.Any(key, value))
	}

	return result
}
