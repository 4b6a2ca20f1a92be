package engine

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/BaSui01/restruct/record"
	"github.com/BaSui01/restruct/schema"
)

// The final reconstructed record must not depend on where the stream was cut
// into fragments: any split of a complete document yields the same result as
// feeding it whole.
func TestEngine_FragmentationInvariance(t *testing.T) {
	desc, err := schema.New(
		schema.String("response"),
		schema.Enum("sentiment", "positive", "neutral", "negative").WithDefault("neutral"),
		schema.Boolean("requires_escalation"),
		schema.Float("confidence"),
	)
	if err != nil {
		t.Fatal(err)
	}

	const doc = `{"response": "Hello, how can I help you today", ` +
		`"sentiment": "positive", "requires_escalation": true, "confidence": 0.25}`

	whole, err := New(desc)
	if err != nil {
		t.Fatal(err)
	}
	whole.AddFragment(Text{Content: doc})
	want := whole.LastValid()
	if want == nil {
		t.Fatal("whole document did not produce a record")
	}

	// Every possible two-fragment split, exhaustively.
	for cut := 1; cut < len(doc); cut++ {
		eng, err := New(desc)
		if err != nil {
			t.Fatal(err)
		}
		eng.AddFragment(Text{Content: doc[:cut]})
		eng.AddFragment(Text{Content: doc[cut:]})
		got := eng.LastValid()
		if got == nil || !got.Equal(want) {
			t.Fatalf("split at offset %d diverged: got %v", cut, got)
		}
	}

	// Random multi-fragment splits.
	rapid.Check(t, func(t *rapid.T) {
		eng, err := New(desc)
		if err != nil {
			t.Fatal(err)
		}

		rest := doc
		for len(rest) > 0 {
			n := rapid.IntRange(1, len(rest)).Draw(t, "cut")
			eng.AddFragment(Text{Content: rest[:n]})
			rest = rest[n:]
		}

		got := eng.LastValid()
		if got == nil {
			t.Fatalf("fragmented stream produced no record")
		}
		if !got.Equal(want) {
			t.Fatalf("fragmented result %v differs from whole-document result %v",
				got.Fields(), want.Fields())
		}
	})
}

// Emitting never lags behind reality: after any fragment sequence drawn from
// a document prefix, the last valid record reflects the longest repairable
// prefix, and LastValid equals the last record an emission could have shown
// plus any throttled growth.
func TestEngine_EmittedRecordsMonotonic(t *testing.T) {
	desc, err := schema.New(
		schema.String("response"),
		schema.List("tags"),
	)
	if err != nil {
		t.Fatal(err)
	}

	const doc = `{"response": "abcdefghijklmnopqrstuvwxyz", "tags": ["a", "b", "c"]}`

	rapid.Check(t, func(t *rapid.T) {
		eng, err := New(desc, WithThrottleChars(rapid.IntRange(1, 30).Draw(t, "throttle")))
		if err != nil {
			t.Fatal(err)
		}

		var prev *record.Record
		rest := doc
		for len(rest) > 0 {
			n := rapid.IntRange(1, len(rest)).Draw(t, "cut")
			rec := eng.AddFragment(Text{Content: rest[:n]})
			rest = rest[n:]
			if rec == nil {
				continue
			}
			if prev != nil {
				prevResp := prev.StringField("response")
				nextResp := rec.StringField("response")
				if len(nextResp) < len(prevResp) {
					t.Fatalf("primary content shrank from %q to %q", prevResp, nextResp)
				}
				prevTags, _ := prev.Get("tags")
				nextTags, _ := rec.Get("tags")
				if len(nextTags.([]any)) < len(prevTags.([]any)) {
					t.Fatalf("list field shrank from %v to %v", prevTags, nextTags)
				}
			}
			prev = rec
		}

		final := eng.LastValid()
		if final == nil {
			t.Fatal("complete document produced no record")
		}
		if got := final.StringField("response"); got != "abcdefghijklmnopqrstuvwxyz" {
			t.Fatalf("final response = %q", got)
		}
	})
}
