package normalize

import (
	"fmt"

	"tgcanon/pkg/canon"

	"github.com/gotd/td/tg"
)

// Options configure one normalization run.
type Options struct {
	// Namespace places the produced message id. Scheduled-history records
	// use NamespaceScheduled, which also drops the volatile view counters.
	Namespace canon.Namespace
	// PeerIsForum marks the owning peer as a forum supergroup, which
	// changes how reply headers resolve into threads.
	PeerIsForum bool
}

// Result is one normalized record: the canonical message plus the derived
// side outputs storage consumes.
type Result struct {
	// Message is nil when the raw record was an empty placeholder.
	Message *canon.Message
	// PeerReferences lists every peer the message references, deduplicated
	// in first-seen order.
	PeerReferences []canon.PeerID
	// ReplyReference is the reply index edge, present when the message is
	// a numeric reply.
	ReplyReference *canon.ReplyReference
}

// Message normalizes one raw wire message. Empty placeholder records yield an
// empty result without error; a nil record is an upstream contract violation.
func Message(raw tg.MessageClass, opts Options) (Result, error) {
	if raw == nil {
		return Result{}, canon.ErrNilRawRecord
	}

	switch typed := raw.(type) {
	case *tg.Message:
		return assembleContent(typed, opts)
	case *tg.MessageService:
		return assembleService(typed, opts)
	case *tg.MessageEmpty:
		// Placeholder records carry nothing to normalize.
		return Result{}, nil
	default:
		return Result{}, fmt.Errorf("unsupported raw record type %T", raw)
	}
}

func assembleContent(raw *tg.Message, opts Options) (Result, error) {
	// SetFlags recomputes the raw flag word from the typed fields, so the
	// flag table sees consistent bits for hand-built records too.
	raw.SetFlags()
	flags := decodeContentFlags(raw.Flags)

	owner, ok := peerID(raw.PeerID)
	if !ok {
		return Result{}, fmt.Errorf("message %d: unsupported owner peer %T", raw.ID, raw.PeerID)
	}

	author := owner
	if fromClass, ok := raw.GetFromID(); ok {
		if peer, ok := peerID(fromClass); ok {
			author = peer
		}
	}

	var media []canon.Media
	var resolution mediaResolution
	if rawMedia, ok := raw.GetMedia(); ok {
		resolution = resolveMedia(rawMedia, owner)
		if resolution.Media != nil {
			media = append(media, resolution.Media)
		}
	}

	reply := parsedReply{}
	if replyTo, ok := raw.GetReplyTo(); ok {
		reply = parseReply(replyTo)
	}
	threadID, threadRoot := resolveThread(owner, opts.PeerIsForum, reply, raw.ID, nil)

	var attributes []canon.Attribute
	replyAttributes, replyTarget := buildReplyAttributes(reply, owner, threadRoot)
	attributes = append(attributes, replyAttributes...)

	forwardInfo, sourceReference := resolveForward(forwardHeader(raw))
	if sourceReference != nil {
		attributes = append(attributes, *sourceReference)
	}

	var consumable *canon.ConsumableContent
	if resolution.ExpirationTimer != nil && *resolution.ExpirationTimer > 0 {
		attributes = append(attributes, canon.AutoclearTimeout{Timeout: *resolution.ExpirationTimer})
		consumable = &canon.ConsumableContent{Consumed: false}
	}
	if resolution.NonPremium {
		attributes = append(attributes, canon.NonPremium{})
	}
	if resolution.HasSpoiler {
		attributes = append(attributes, canon.MediaSpoiler{})
	}
	if resolution.Webpage != nil {
		attributes = append(attributes, canon.WebpagePreview{
			LeadingPreview:  flags.LeadingPreview,
			ForceLargeMedia: resolution.Webpage.ForceLargeMedia,
			IsManuallyAdded: resolution.Webpage.IsManuallyAdded,
			IsSafe:          resolution.Webpage.IsSafe,
		})
	}
	if ttl, ok := raw.GetTTLPeriod(); ok {
		attributes = append(attributes, canon.AutoremoveTimeout{
			Timeout:            ttl,
			CountdownBeginTime: intPtr(raw.Date),
		})
	}
	if postAuthor, ok := raw.GetPostAuthor(); ok {
		attributes = append(attributes, canon.AuthorSignature{Signature: postAuthor})
	}
	if consumableMedia(media) {
		// Voice and round-video consumption state wins over the generic
		// expiring-content state; the attribute appears once either way.
		consumable = &canon.ConsumableContent{Consumed: !flags.MediaUnread}
	}
	if consumable != nil {
		attributes = append(attributes, *consumable)
	}
	if flags.Mentioned {
		attributes = append(attributes, canon.ConsumablePersonalMention{Consumed: !flags.MediaUnread})
	}
	if flags.Mentioned || flags.Silent {
		attributes = append(attributes, canon.NotificationInfo{Personal: flags.Mentioned, Muted: flags.Silent})
	}
	if viaBotID, ok := raw.GetViaBotID(); ok {
		attributes = append(attributes, canon.InlineBot{BotID: canon.UserPeer(viaBotID)})
	}
	if opts.Namespace != canon.NamespaceScheduled {
		// Counters on scheduled records are stale placeholders.
		if views, ok := raw.GetViews(); ok {
			attributes = append(attributes, canon.ViewCount{Count: views})
		}
		if forwards, ok := raw.GetForwards(); ok {
			attributes = append(attributes, canon.ForwardCount{Count: forwards})
		}
	}
	if editDate, ok := raw.GetEditDate(); ok {
		attributes = append(attributes, canon.Edited{Date: editDate, IsHidden: flags.EditHidden})
	}

	entities := decideEntities(raw.Entities, media)
	if entities.attach {
		attributes = append(attributes, canon.TextEntities{Entities: entities.entities})
	}
	if flags.RequiresValidation {
		attributes = append(attributes, canon.ContentRequiresValidation{})
	}
	if reactions, ok := raw.GetReactions(); ok {
		attributes = append(attributes, mapReactions(reactions))
	}
	if replies, ok := raw.GetReplies(); ok {
		attributes = append(attributes, mapReplies(replies))
	}
	if rules, ok := raw.GetRestrictionReason(); ok && len(rules) > 0 {
		attributes = append(attributes, mapRestriction(rules))
	}

	messageFlags := canon.FlagCanBeGroupedIntoFeed
	if flags.Incoming {
		messageFlags |= canon.FlagIncoming
	}
	if flags.WasScheduled {
		messageFlags |= canon.FlagWasScheduled | canon.FlagCountedAsIncoming
	}
	if flags.CopyProtected {
		messageFlags |= canon.FlagCopyProtected
	}
	if reply.flags.ForumTopic {
		messageFlags |= canon.FlagIsForumTopic
	}
	if markupClass, ok := raw.GetReplyMarkup(); ok {
		if markup, ok := mapReplyMarkup(markupClass); ok {
			attributes = append(attributes, markup)
			if !markup.Inline {
				messageFlags |= canon.FlagTopIndexable
			}
		}
	}

	tags, globalTags := ClassifyTags(flags.Incoming, attributes, media, entities.entities, flags.Pinned)

	message := &canon.Message{
		ID:          canon.MessageID{Peer: owner, Namespace: opts.Namespace, ID: raw.ID},
		AuthorID:    peerIDPtr(author),
		Timestamp:   raw.Date,
		ThreadID:    threadID,
		Flags:       messageFlags,
		Tags:        tags,
		GlobalTags:  globalTags,
		ForwardInfo: forwardInfo,
		Attributes:  attributes,
		Media:       media,
		Text:        raw.Message,
	}
	if groupedID, ok := raw.GetGroupedID(); ok {
		message.GroupingKey = int64Ptr(groupedID)
	}

	result := Result{Message: message, PeerReferences: collectPeers(message)}
	if replyTarget != nil {
		result.ReplyReference = &canon.ReplyReference{Source: message.ID, Target: *replyTarget}
	}

	return result, nil
}

func assembleService(raw *tg.MessageService, opts Options) (Result, error) {
	raw.SetFlags()
	flags := decodeServiceFlags(raw.Flags)

	owner, ok := peerID(raw.PeerID)
	if !ok {
		return Result{}, fmt.Errorf("service message %d: unsupported owner peer %T", raw.ID, raw.PeerID)
	}

	author := owner
	if fromClass, ok := raw.GetFromID(); ok {
		if peer, ok := peerID(fromClass); ok {
			author = peer
		}
	}

	var action canon.ServiceAction
	var media []canon.Media
	if mapped, ok := mapAction(raw.Action); ok {
		action = mapped
		media = append(media, canon.Action{Action: mapped})
	}

	reply := parsedReply{}
	if replyTo, ok := raw.GetReplyTo(); ok {
		reply = parseReply(replyTo)
	}
	threadID, threadRoot := resolveThread(owner, opts.PeerIsForum, reply, raw.ID, action)

	var attributes []canon.Attribute
	replyAttributes, replyTarget := buildReplyAttributes(reply, owner, threadRoot)
	attributes = append(attributes, replyAttributes...)

	if ttl, ok := raw.GetTTLPeriod(); ok {
		attributes = append(attributes, canon.AutoremoveTimeout{
			Timeout:            ttl,
			CountdownBeginTime: intPtr(raw.Date),
		})
	}
	if flags.Mentioned {
		attributes = append(attributes, canon.ConsumablePersonalMention{Consumed: !flags.MediaUnread})
	}
	if flags.Mentioned || flags.Silent {
		attributes = append(attributes, canon.NotificationInfo{Personal: flags.Mentioned, Muted: flags.Silent})
	}
	if flags.RequiresValidation {
		attributes = append(attributes, canon.ContentRequiresValidation{})
	}

	messageFlags := canon.FlagCanBeGroupedIntoFeed
	if flags.Incoming {
		messageFlags |= canon.FlagIncoming
	}
	if flags.WasScheduled {
		messageFlags |= canon.FlagWasScheduled
	}
	if flags.CopyProtected {
		messageFlags |= canon.FlagCopyProtected
	}
	if reply.flags.ForumTopic {
		messageFlags |= canon.FlagIsForumTopic
	}
	if _, ok := action.(canon.TopicCreate); ok {
		messageFlags |= canon.FlagIsForumTopic
	}

	tags, globalTags := ClassifyTags(flags.Incoming, attributes, media, nil, false)

	message := &canon.Message{
		ID:         canon.MessageID{Peer: owner, Namespace: opts.Namespace, ID: raw.ID},
		AuthorID:   peerIDPtr(author),
		Timestamp:  raw.Date,
		ThreadID:   threadID,
		Flags:      messageFlags,
		Tags:       tags,
		GlobalTags: globalTags,
		Attributes: attributes,
		Media:      media,
	}

	result := Result{Message: message, PeerReferences: collectPeers(message)}
	if replyTarget != nil {
		result.ReplyReference = &canon.ReplyReference{Source: message.ID, Target: *replyTarget}
	}

	return result, nil
}

func forwardHeader(raw *tg.Message) *tg.MessageFwdHeader {
	header, ok := raw.GetFwdFrom()
	if !ok {
		return nil
	}

	return &header
}

// consumableMedia reports whether the media list contains once-consumable
// content (voice notes, instant round videos).
func consumableMedia(media []canon.Media) bool {
	for _, value := range media {
		if file, ok := value.(canon.File); ok && (file.IsVoice() || file.IsInstantVideo()) {
			return true
		}
	}

	return false
}
