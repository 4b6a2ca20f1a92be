package engine

import (
	"context"

	"github.com/BaSui01/restruct/record"
)

// Stream drives eng over a fragment channel from a single goroutine and
// returns the channel of emitted records. When the fragment channel closes,
// the final state is flushed through LastValid if it is newer than the last
// emission, and the output channel is closed. Cancelling ctx stops the
// driver; the output channel is closed either way.
//
// The returned sequence is finite and non-restartable: one consumer, one
// session.
func Stream(ctx context.Context, eng *Engine, fragments <-chan Fragment) <-chan *record.Record {
	out := make(chan *record.Record, 1)

	go func() {
		defer close(out)
		var lastSent *record.Record

		for {
			select {
			case <-ctx.Done():
				return
			case f, ok := <-fragments:
				if !ok {
					final := eng.LastValid()
					if final != nil && !final.Equal(lastSent) {
						select {
						case out <- final:
						case <-ctx.Done():
						}
					}
					return
				}
				rec := eng.AddFragment(f)
				if rec == nil {
					continue
				}
				lastSent = rec
				select {
				case out <- rec:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
