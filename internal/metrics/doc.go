// Copyright (c) Restruct Authors.
// Licensed under the MIT License.

// Package metrics provides internal metrics collection for the
// reconstruction engine. This package is internal and should not be imported
// by external projects; the root package exposes it through an engine
// option.
package metrics
