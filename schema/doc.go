// Copyright (c) Restruct Authors.
// Licensed under the MIT License.

/*
Package schema models the output schema that reconstructed records must
conform to: an ordered field list with type tags and default policies.

A Descriptor is built once, validated at construction, and shared read-only
by every component that needs it:

	desc, err := schema.New(
		schema.String("response"),
		schema.Enum("sentiment", "positive", "neutral", "negative"),
		schema.Boolean("requires_escalation"),
		schema.Float("confidence"),
	)

Descriptors can also be loaded from YAML or JSON files via [Load] and
[Parse], which makes them usable from configuration without recompiling.

The package also hosts the default filler: [Descriptor.Fill] turns a partial
mapping (as produced by the repair package) into a schema-complete mapping by
inserting explicit or type-appropriate defaults for missing fields.
*/
package schema
