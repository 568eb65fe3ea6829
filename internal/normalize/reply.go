package normalize

import (
	"tgcanon/pkg/canon"

	"github.com/gotd/td/tg"
)

// parsedReply is the decoded reply header of a raw message, in the shape the
// thread and attribute stages consume. The zero value means "no reply header".
type parsedReply struct {
	present bool
	flags   replyHeaderFlags
	// msgID is the numeric reply target, when the header carried one.
	msgID *int
	// topID is the thread/topic root id, when the header carried one.
	topID *int
	// peer is the origin peer named by the header; nil means the owning
	// conversation.
	peer          *canon.PeerID
	from          *tg.MessageFwdHeader
	media         tg.MessageMediaClass
	quoteText     *string
	quoteEntities []tg.MessageEntityClass
	story         *canon.ReplyToStory
}

func parseReply(replyTo tg.MessageReplyHeaderClass) parsedReply {
	switch typed := replyTo.(type) {
	case *tg.MessageReplyHeader:
		typed.SetFlags()
		parsed := parsedReply{present: true, flags: decodeReplyHeaderFlags(typed.Flags)}
		if id, ok := typed.GetReplyToMsgID(); ok {
			parsed.msgID = intPtr(id)
		}
		if top, ok := typed.GetReplyToTopID(); ok {
			parsed.topID = intPtr(top)
		}
		if peerClass, ok := typed.GetReplyToPeerID(); ok {
			if peer, ok := peerID(peerClass); ok {
				parsed.peer = peerIDPtr(peer)
			}
		}
		if from, ok := typed.GetReplyFrom(); ok {
			header := from
			parsed.from = &header
		}
		if media, ok := typed.GetReplyMedia(); ok {
			parsed.media = media
		}
		if text, ok := typed.GetQuoteText(); ok {
			parsed.quoteText = stringPtr(text)
		}
		if entities, ok := typed.GetQuoteEntities(); ok {
			parsed.quoteEntities = entities
		}
		return parsed
	case *tg.MessageReplyStoryHeader:
		peer, ok := peerID(typed.Peer)
		if !ok {
			return parsedReply{}
		}
		return parsedReply{
			present: true,
			story:   &canon.ReplyToStory{Peer: peer, StoryID: typed.StoryID},
		}
	default:
		return parsedReply{}
	}
}

// quote builds the quoted excerpt, when the header carried quote text or
// quoted media. Quoted media resolves through the regular media path.
func (r parsedReply) quote(owner canon.PeerID) *canon.ReplyQuote {
	if r.quoteText == nil && r.media == nil {
		return nil
	}

	quote := &canon.ReplyQuote{}
	if r.quoteText != nil {
		quote.Text = *r.quoteText
		quote.Entities = mapTextEntities(r.quoteEntities)
	}
	if r.media != nil {
		if resolved := resolveMedia(r.media, owner); resolved.Media != nil {
			quote.Media = resolved.Media
		}
	}

	return quote
}

// buildReplyAttributes turns the parsed header into reply attributes. The
// second return is the numeric reply target, used for the reply index edge;
// header-only (quoted) replies and story replies produce none.
func buildReplyAttributes(r parsedReply, owner canon.PeerID, thread *canon.MessageID) ([]canon.Attribute, *canon.MessageID) {
	if !r.present {
		return nil, nil
	}
	if r.story != nil {
		return []canon.Attribute{*r.story}, nil
	}

	quote := r.quote(owner)
	if r.msgID != nil {
		targetPeer := owner
		if r.peer != nil {
			targetPeer = *r.peer
		}
		target := cloudMessageID(targetPeer, *r.msgID)
		attribute := canon.Reply{
			MessageID:       target,
			ThreadMessageID: thread,
			Quote:           quote,
			IsQuote:         r.flags.Quote,
		}
		return []canon.Attribute{attribute}, &target
	}

	if r.from != nil || quote != nil {
		attribute := canon.QuotedReply{Quote: quote, IsQuote: r.flags.Quote}
		if r.from != nil {
			if fromClass, ok := r.from.GetFromID(); ok {
				if peer, ok := peerID(fromClass); ok {
					attribute.PeerID = peerIDPtr(peer)
				}
			}
			if name, ok := r.from.GetFromName(); ok {
				attribute.AuthorName = name
			}
		}
		return []canon.Attribute{attribute}, nil
	}

	return nil, nil
}
