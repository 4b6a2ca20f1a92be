// Copyright (c) Restruct Authors.
// Licensed under the MIT License.

/*
Package engine implements the incremental reconstruction engine: the
fragment-in / record-out orchestrator that turns a stream of partial text
fragments into a lazily-growing sequence of validated records.

One Engine owns the reconstruction state for one logical stream. Fragments
are filtered by channel, accumulated into a text buffer, repaired into a
partial mapping, completed with schema defaults, validated, merged with the
previous record, and finally passed through the emission gate that decides
whether the update is worth surfacing:

	eng, err := engine.New(desc, engine.WithThrottleChars(50))
	for f := range fragments {
		if rec := eng.AddFragment(f); rec != nil {
			push(rec)
		}
	}
	final := eng.LastValid()

AddFragment never returns an error and never blocks: repair and validation
failures degrade to "no update this round" and are logged at Debug. The only
hard failure is an invalid schema descriptor, surfaced by New.

An Engine is single-threaded by contract. Independent engines share nothing
but the immutable schema descriptor and may run concurrently. For
channel-driven pipelines, [Stream] wraps an engine in the one goroutine
allowed to touch it.
*/
package engine
