// Copyright (c) Restruct Authors.
// Licensed under the MIT License.

/*
Package main provides the restruct command-line entry point.

The run subcommand loads a schema descriptor, reads a fragment stream from
stdin (NDJSON objects with text/channel/subchannel keys, or bare text
lines), drives a reconstruction engine over it, and prints each emitted
record as one JSON line. The final record is flushed at EOF even when the
emission gate held it back.

	restruct run -schema schema.yaml < fragments.ndjson
	restruct run -config restruct.yaml -throttle 20
	restruct version
*/
package main
