package engine

// channelAction is the filter's verdict for one fragment.
type channelAction int

const (
	// channelAccumulate appends the fragment to the current buffer.
	channelAccumulate channelAction = iota
	// channelIgnore drops the fragment without touching engine state.
	channelIgnore
	// channelSwitch accumulates the fragment after resetting the buffer and
	// merge bookkeeping: the stream just (re-)entered the target channel.
	channelSwitch
)

// channelFilter selects the fragments belonging to the targeted channel of a
// multiplexed stream. Untagged fragments always pass (single-channel
// stream). Tagged fragments require a configured target: matching ones pass,
// and the first match after being outside the target triggers a reset.
type channelFilter struct {
	target string
	// active is the channel the stream is currently positioned in, tracked
	// from tagged fragments only.
	active string
}

func (f *channelFilter) apply(meta FragmentMeta) channelAction {
	if meta.Channel == "" {
		return channelAccumulate
	}
	if f.target == "" || meta.Channel != f.target {
		// Record that the stream has left the target so a later return
		// re-enters it with a fresh buffer.
		f.active = meta.Channel
		return channelIgnore
	}
	if f.active != f.target {
		f.active = f.target
		return channelSwitch
	}
	return channelAccumulate
}

func (f *channelFilter) reset() {
	f.active = ""
}
