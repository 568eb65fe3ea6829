package canon

// MessageFlags is the closed set of boolean message properties derived during
// assembly.
type MessageFlags uint32

const (
	// FlagIncoming marks messages received rather than sent.
	FlagIncoming MessageFlags = 1 << 0
	// FlagWasScheduled marks messages that were delivered from the schedule.
	FlagWasScheduled MessageFlags = 1 << 1
	// FlagCountedAsIncoming marks delivered scheduled messages that count as
	// incoming for unread accounting.
	FlagCountedAsIncoming MessageFlags = 1 << 2
	// FlagCopyProtected marks messages that forbid forwarding and saving.
	FlagCopyProtected MessageFlags = 1 << 3
	// FlagIsForumTopic marks messages that belong to a forum topic.
	FlagIsForumTopic MessageFlags = 1 << 4
	// FlagTopIndexable marks messages eligible for the per-peer top index,
	// set for non-inline reply keyboards.
	FlagTopIndexable MessageFlags = 1 << 5
	// FlagCanBeGroupedIntoFeed is set on every assembled message.
	FlagCanBeGroupedIntoFeed MessageFlags = 1 << 6
)

// Contains reports whether every bit of other is set.
func (f MessageFlags) Contains(other MessageFlags) bool { return f&other == other }

// ForwardInfo describes the provenance of a forwarded message. A non-nil
// value always carries at least one of AuthorID, SourceID or AuthorSignature.
type ForwardInfo struct {
	// AuthorID is the original author, when known. For channel-authored
	// forwards it equals SourceID.
	AuthorID *PeerID
	// SourceID is the origin channel, when the forward came from one.
	SourceID *PeerID
	// SourceMessageID is the origin post, when the forward came from a
	// channel post.
	SourceMessageID *MessageID
	// Date is the original send time in unix seconds.
	Date int
	// AuthorSignature is the free-text author name or post signature.
	AuthorSignature string
	// PSAType is the public-service-announcement marker, when present.
	PSAType string
	// Imported marks messages imported from a foreign chat history.
	Imported bool
}

// Message is the canonical, storage-ready form of one raw wire message. It is
// produced once per raw record and is immutable afterwards; pin and reaction
// state changes are applied by re-running the pure classification, never by
// in-place mutation elsewhere.
type Message struct {
	// ID is unique within its peer and namespace.
	ID MessageID
	// AuthorID is the sending peer; nil only for anonymous messages.
	AuthorID *PeerID
	// Timestamp is the send time in unix seconds.
	Timestamp int
	// ThreadID groups the message into a sub-conversation, when set.
	ThreadID *int64
	// GroupingKey links the messages of one multi-media album.
	GroupingKey *int64
	// Flags is the derived boolean property set.
	Flags MessageFlags
	// Tags is the per-message classification bitset.
	Tags Tags
	// GlobalTags is the cross-peer classification bitset.
	GlobalTags GlobalTags
	// ForwardInfo is the forward provenance, when the message was forwarded.
	ForwardInfo *ForwardInfo
	// Attributes is the ordered derived metadata list.
	Attributes []Attribute
	// Media is the ordered canonical media list; empty for text-only and
	// plain service messages.
	Media []Media
	// Text is the raw message body; empty for pure service/media messages.
	Text string
}

// PeerID returns the conversation the message belongs to.
func (m *Message) PeerID() PeerID { return m.ID.Peer }

// Attribute returns the first attribute matching the predicate, or nil.
func (m *Message) Attribute(match func(Attribute) bool) Attribute {
	for _, attribute := range m.Attributes {
		if match(attribute) {
			return attribute
		}
	}

	return nil
}

// ChannelImplicitThreadID is the sentinel thread id representing a broadcast
// channel's single implicit thread.
const ChannelImplicitThreadID int64 = 1
