/*
Copyright 2025-2026 the eHalisaha Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package e2e

import (
	"io"

	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	crzap "sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// NewLogger returns a development logger writing to w, typically the
// GinkgoWriter so output is attached to the spec that produced it.  Debug
// logging enables the V(1) and V(2) levels used for polling attempts and
// browser protocol chatter.
func NewLogger(config *TestConfig, w io.Writer) logr.Logger {
	level := zapcore.InfoLevel
	if config.DebugLogging {
		level = zapcore.Level(-2)
	}

	return crzap.New(
		crzap.WriteTo(w),
		crzap.UseDevMode(true),
		crzap.Level(level),
	)
}
