package engine

import "github.com/BaSui01/restruct/record"

// FragmentMeta is the channel routing metadata a fragment may carry.
// Channel names the logical sub-stream within a multiplexed physical stream;
// Subchannel names the tool call when tool invocations share the transport.
type FragmentMeta struct {
	Channel    string
	Subchannel string
}

// Meta returns the metadata itself, giving every variant that embeds
// FragmentMeta the Fragment interface.
func (m FragmentMeta) Meta() FragmentMeta { return m }

// Fragment is one unit of incoming stream data. The three variants are
// [Text] for raw model output, [Mapping] for sources that deliver pre-parsed
// partial mappings, and [Typed] for sources that deliver already-validated
// records.
type Fragment interface {
	Meta() FragmentMeta
	fragment()
}

// Text is a raw text fragment, usually a handful of tokens.
type Text struct {
	FragmentMeta
	Content string
}

func (Text) fragment() {}

// Mapping is an untyped key-value fragment. It skips the repair step and
// goes straight to default filling and validation.
type Mapping struct {
	FragmentMeta
	Values map[string]any
}

func (Mapping) fragment() {}

// Typed carries an already-validated record and skips straight to merging.
type Typed struct {
	FragmentMeta
	Record *record.Record
}

func (Typed) fragment() {}
