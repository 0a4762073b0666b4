package world

// ConditionKind selects which viewers of a ChunkLayer a buffered message
// reaches.
type ConditionKind uint8

const (
	ConditionAll ConditionKind = iota
	ConditionExcept
	ConditionView
	ConditionViewExcept
	ConditionTransitionView
)

// Condition picks the recipients of one buffered message.
type Condition struct {
	Kind ConditionKind

	Except Key // ConditionExcept / ConditionViewExcept

	Pos [2]int32 // ConditionView / ConditionViewExcept / ConditionTransitionView.Viewed

	Unviewed  [2]int32 // ConditionTransitionView only
	HasUnview bool
}

// All matches every viewer of the layer.
func All() Condition { return Condition{Kind: ConditionAll} }

// Except matches every viewer but one, used for self-exclusion when a
// client already predicted its own action.
func Except(client Key) Condition { return Condition{Kind: ConditionExcept, Except: client} }

// View matches viewers whose view currently includes pos.
func View(pos [2]int32) Condition { return Condition{Kind: ConditionView, Pos: pos} }

// ViewExcept is View with an additional self-exclusion.
func ViewExcept(pos [2]int32, client Key) Condition {
	return Condition{Kind: ConditionViewExcept, Pos: pos, Except: client}
}

// TransitionView matches viewers who gained view of `viewed` and do not
// already have view of `unviewed`, preventing a double-send when an entity
// is visible through two chunks at once.
func TransitionView(viewed, unviewed [2]int32) Condition {
	return Condition{Kind: ConditionTransitionView, Pos: viewed, Unviewed: unviewed, HasUnview: true}
}

// Message is one buffered (condition, bytes) entry, as returned by
// ChunkLayer.Drain for the Flush phase to resolve against viewer membership.
type Message struct {
	Cond  Condition
	Bytes []byte
}

// message is an alias of Message, the element type of the buffer's
// internal storage.
type message = Message

// messageBufferLookback bounds how many recent messages (and how many
// bytes) the append routine scans for a mergeable match: a bounded
// look-back of a few KiB or a few dozen messages.
const (
	messageBufferLookbackCount = 32
	messageBufferLookbackBytes = 4096
)

// messageBuffer is the append-only per-ChunkLayer byte log of (condition,
// bytes) messages. Appends merge into the most recent message sharing an
// identical condition, within the lookback window, so a run of small
// packets for the same recipients doesn't produce one length-prefixed
// frame per packet.
type messageBuffer struct {
	messages   []message
	totalBytes int
}

// Append adds body under cond, coalescing with the most recent
// identical-condition message found within the lookback window.
func (b *messageBuffer) Append(cond Condition, body []byte) {
	lookback := messageBufferLookbackCount
	if lookback > len(b.messages) {
		lookback = len(b.messages)
	}
	scanned := 0
	for i := len(b.messages) - 1; i >= 0 && i >= len(b.messages)-lookback; i-- {
		scanned += len(b.messages[i].Bytes)
		if scanned > messageBufferLookbackBytes {
			break
		}
		if b.messages[i].Cond == cond {
			b.messages[i].Bytes = append(b.messages[i].Bytes, body...)
			b.totalBytes += len(body)
			return
		}
	}
	b.messages = append(b.messages, Message{Cond: cond, Bytes: append([]byte(nil), body...)})
	b.totalBytes += len(body)
}

// Drain returns the buffered messages in append order and clears the
// buffer. Callers (the Flush phase) resolve each Condition against a
// layer's current viewer set to decide delivery.
func (b *messageBuffer) Drain() []Message {
	out := b.messages
	b.messages = nil
	b.totalBytes = 0
	return out
}

func (b *messageBuffer) reset() {
	b.messages = nil
	b.totalBytes = 0
}
