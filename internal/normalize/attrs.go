package normalize

import (
	"strconv"

	"tgcanon/pkg/canon"

	"github.com/gotd/td/tg"
)

// reactionValue flattens a reaction into its stable string form: the emoji
// itself, "custom:<document id>", or "paid".
func reactionValue(reaction tg.ReactionClass) string {
	switch typed := reaction.(type) {
	case *tg.ReactionEmoji:
		return typed.Emoticon
	case *tg.ReactionCustomEmoji:
		return "custom:" + strconv.FormatInt(typed.DocumentID, 10)
	case *tg.ReactionPaid:
		return "paid"
	default:
		return ""
	}
}

func mapReactions(wire tg.MessageReactions) canon.Reactions {
	out := canon.Reactions{CanViewList: wire.CanSeeList}
	for _, result := range wire.Results {
		entry := canon.ReactionCount{
			Value: reactionValue(result.Reaction),
			Count: result.Count,
		}
		if order, ok := result.GetChosenOrder(); ok {
			entry.ChosenOrder = intPtr(order)
		}
		out.Results = append(out.Results, entry)
	}
	if recent, ok := wire.GetRecentReactions(); ok {
		for _, entry := range recent {
			peer, ok := peerID(entry.PeerID)
			if !ok {
				continue
			}
			out.Recent = append(out.Recent, canon.RecentReaction{
				Peer:   peer,
				Value:  reactionValue(entry.Reaction),
				Unread: entry.Unread,
				My:     entry.My,
			})
			if entry.Unread {
				out.HasUnseen = true
			}
		}
	}

	return out
}

func mapReplies(wire tg.MessageReplies) canon.ReplyThread {
	thread := canon.ReplyThread{Count: wire.Replies}
	if repliers, ok := wire.GetRecentRepliers(); ok {
		for _, replier := range repliers {
			if peer, ok := peerID(replier); ok {
				thread.LatestUsers = append(thread.LatestUsers, peer)
			}
		}
	}
	if wire.Comments {
		if channelID, ok := wire.GetChannelID(); ok {
			thread.CommentsPeerID = peerIDPtr(canon.ChannelPeer(channelID))
		}
	}
	if maxID, ok := wire.GetMaxID(); ok {
		thread.MaxMessageID = intPtr(maxID)
	}
	if readMaxID, ok := wire.GetReadMaxID(); ok {
		thread.MaxReadMessageID = intPtr(readMaxID)
	}

	return thread
}

func mapReplyMarkup(wire tg.ReplyMarkupClass) (canon.ReplyMarkup, bool) {
	switch typed := wire.(type) {
	case *tg.ReplyKeyboardMarkup:
		markup := canon.ReplyMarkup{
			Resize:     typed.Resize,
			SingleUse:  typed.SingleUse,
			Selective:  typed.Selective,
			Persistent: typed.Persistent,
		}
		if placeholder, ok := typed.GetPlaceholder(); ok {
			markup.Placeholder = placeholder
		}
		return markup, true
	case *tg.ReplyInlineMarkup:
		return canon.ReplyMarkup{Inline: true}, true
	case *tg.ReplyKeyboardHide:
		return canon.ReplyMarkup{Hidden: true, Selective: typed.Selective}, true
	case *tg.ReplyKeyboardForceReply:
		markup := canon.ReplyMarkup{
			ForceReply: true,
			SingleUse:  typed.SingleUse,
			Selective:  typed.Selective,
		}
		if placeholder, ok := typed.GetPlaceholder(); ok {
			markup.Placeholder = placeholder
		}
		return markup, true
	default:
		return canon.ReplyMarkup{}, false
	}
}

func mapRestriction(rules []tg.RestrictionReason) canon.Restricted {
	out := canon.Restricted{}
	for _, rule := range rules {
		out.Rules = append(out.Rules, canon.RestrictionRule{
			Platform: rule.Platform,
			Reason:   rule.Reason,
			Text:     rule.Text,
		})
	}

	return out
}
