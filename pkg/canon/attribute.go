package canon

// Attribute is one tagged-variant metadata record attached to a message.
// The set of implementations is closed: each variant lives in this package
// and the marker method keeps foreign types out, so switches over attributes
// can treat the listed kinds as exhaustive.
type Attribute interface {
	isAttribute()
}

// ReplyQuote is the quoted excerpt carried by reply attributes.
type ReplyQuote struct {
	Text     string
	Entities []TextEntity
	// Media is the resolved quoted media, when the reply quoted one.
	Media Media
}

// Reply marks the message as a reply to another message.
type Reply struct {
	// MessageID is the reply target; its peer defaults to the owning
	// conversation unless the header named a different origin peer.
	MessageID MessageID
	// ThreadMessageID is the thread root the reply resolved into, when any.
	ThreadMessageID *MessageID
	// Quote is the quoted excerpt, when present.
	Quote *ReplyQuote
	// IsQuote marks a partial-quote reply.
	IsQuote bool
}

// QuotedReply is a header-only reply: the header carried origin information
// but no usable numeric reply id.
type QuotedReply struct {
	// PeerID is the quoted origin peer, when known.
	PeerID *PeerID
	// AuthorName is the quoted origin display name, when known.
	AuthorName string
	Quote      *ReplyQuote
	IsQuote    bool
}

// ReplyToStory marks the message as a reply to a story.
type ReplyToStory struct {
	Peer    PeerID
	StoryID int
}

// Edited records the latest edit.
type Edited struct {
	Date int
	// IsHidden suppresses the edited marker in clients.
	IsHidden bool
}

// ViewCount is the channel post view counter.
type ViewCount struct {
	Count int
}

// ForwardCount is the channel post forward counter.
type ForwardCount struct {
	Count int
}

// AuthorSignature is the channel post author signature.
type AuthorSignature struct {
	Signature string
}

// InlineBot records the inline bot a message was sent via.
type InlineBot struct {
	BotID PeerID
}

// ConsumableContent marks media consumed exactly once (voice notes, instant
// videos, expiring media).
type ConsumableContent struct {
	Consumed bool
}

// ConsumablePersonalMention marks a personal mention with consumption state.
type ConsumablePersonalMention struct {
	Consumed bool
	Pending  bool
}

// NotificationInfo carries notification-relevant bits.
type NotificationInfo struct {
	Personal bool
	Muted    bool
}

// ReplyThread summarizes the comment thread rooted at this message.
type ReplyThread struct {
	Count            int
	LatestUsers      []PeerID
	CommentsPeerID   *PeerID
	MaxMessageID     *int
	MaxReadMessageID *int
}

// RestrictionRule is one platform restriction entry.
type RestrictionRule struct {
	Platform string
	Reason   string
	Text     string
}

// Restricted lists content restriction rules.
type Restricted struct {
	Rules []RestrictionRule
}

// AutoclearTimeout is the media self-destruct timer.
type AutoclearTimeout struct {
	// Timeout is in seconds; ViewOnceTimeout means "after first view".
	Timeout int
	// CountdownBeginTime is the unix second the countdown started, when
	// already running.
	CountdownBeginTime *int
}

// AutoremoveTimeout is the chat-level auto-delete timer applied to the
// message.
type AutoremoveTimeout struct {
	Timeout            int
	CountdownBeginTime *int
}

// NonPremium marks media restricted to non-premium rendering.
type NonPremium struct{}

// MediaSpoiler marks media hidden behind a spoiler cover.
type MediaSpoiler struct{}

// WebpagePreview carries webpage display attributes.
type WebpagePreview struct {
	// LeadingPreview places the preview above the text.
	LeadingPreview bool
	// ForceLargeMedia is three-valued: nil means no explicit preference.
	ForceLargeMedia *bool
	IsManuallyAdded bool
	IsSafe          bool
}

// ReplyMarkup describes the keyboard attached to the message.
type ReplyMarkup struct {
	// Inline marks an inline keyboard under the message rather than a
	// reply keyboard.
	Inline      bool
	SingleUse   bool
	Resize      bool
	Selective   bool
	Persistent  bool
	Hidden      bool
	ForceReply  bool
	Placeholder string
}

// ContentRequiresValidation marks legacy content that must be revalidated.
type ContentRequiresValidation struct{}

// TextEntities carries the typed spans of the message text. It is attached
// even when empty, except for media kinds that never carry text.
type TextEntities struct {
	Entities []TextEntity
}

// ReactionCount is one reaction aggregate.
type ReactionCount struct {
	// Value is the emoji, "custom:<id>" for custom emoji, or "paid".
	Value string
	Count int
	// ChosenOrder is set when the local account chose this reaction.
	ChosenOrder *int
}

// RecentReaction is one recent per-peer reaction entry.
type RecentReaction struct {
	Peer   PeerID
	Value  string
	Unread bool
	My     bool
}

// Reactions is the message reaction state.
type Reactions struct {
	// HasUnseen is set when a recent reaction is still unread.
	HasUnseen   bool
	CanViewList bool
	Results     []ReactionCount
	Recent      []RecentReaction
}

// SourceReference points back to the original message a saved copy came
// from. It is independent of ForwardInfo.
type SourceReference struct {
	MessageID MessageID
}

func (Reply) isAttribute()                     {}
func (QuotedReply) isAttribute()               {}
func (ReplyToStory) isAttribute()              {}
func (Edited) isAttribute()                    {}
func (ViewCount) isAttribute()                 {}
func (ForwardCount) isAttribute()              {}
func (AuthorSignature) isAttribute()           {}
func (InlineBot) isAttribute()                 {}
func (ConsumableContent) isAttribute()         {}
func (ConsumablePersonalMention) isAttribute() {}
func (NotificationInfo) isAttribute()          {}
func (ReplyThread) isAttribute()               {}
func (Restricted) isAttribute()                {}
func (AutoclearTimeout) isAttribute()          {}
func (AutoremoveTimeout) isAttribute()         {}
func (NonPremium) isAttribute()                {}
func (MediaSpoiler) isAttribute()              {}
func (WebpagePreview) isAttribute()            {}
func (ReplyMarkup) isAttribute()               {}
func (ContentRequiresValidation) isAttribute() {}
func (TextEntities) isAttribute()              {}
func (Reactions) isAttribute()                 {}
func (SourceReference) isAttribute()           {}
