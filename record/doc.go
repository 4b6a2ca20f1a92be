// Copyright (c) Restruct Authors.
// Licensed under the MIT License.

/*
Package record provides the typed output side of reconstruction: the
schema-complete Record value, the Validator that produces it from a filled
mapping, and the Merger that combines successive partial views without
losing previously-known information.

A Record is produced only by a Validator and is never mutated afterwards;
callers receive their own Clone, and the engine keeps its own copy for
future merges.
*/
package record
