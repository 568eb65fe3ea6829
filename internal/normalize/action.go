package normalize

import (
	"tgcanon/pkg/canon"

	"github.com/gotd/td/tg"
)

// mapAction converts a raw service action into its canonical form. Unknown
// actions return false and the service message assembles without media.
func mapAction(action tg.MessageActionClass) (canon.ServiceAction, bool) {
	switch typed := action.(type) {
	case *tg.MessageActionChatCreate:
		return canon.GroupCreated{Title: typed.Title, Users: userPeers(typed.Users)}, true
	case *tg.MessageActionChatEditTitle:
		return canon.TitleUpdated{Title: typed.Title}, true
	case *tg.MessageActionChatEditPhoto:
		return canon.PhotoUpdated{}, true
	case *tg.MessageActionChatDeletePhoto:
		return canon.PhotoDeleted{}, true
	case *tg.MessageActionChatAddUser:
		return canon.AddedMembers{Users: userPeers(typed.Users)}, true
	case *tg.MessageActionChatDeleteUser:
		return canon.RemovedMember{User: canon.UserPeer(typed.UserID)}, true
	case *tg.MessageActionChatJoinedByLink:
		return canon.JoinedByLink{Inviter: canon.UserPeer(typed.InviterID)}, true
	case *tg.MessageActionChatJoinedByRequest:
		return canon.JoinedByRequest{}, true
	case *tg.MessageActionChannelCreate:
		return canon.ChannelCreated{Title: typed.Title}, true
	case *tg.MessageActionChatMigrateTo:
		return canon.MigratedTo{Channel: canon.ChannelPeer(typed.ChannelID)}, true
	case *tg.MessageActionChannelMigrateFrom:
		return canon.MigratedFrom{Title: typed.Title, Group: canon.GroupPeer(typed.ChatID)}, true
	case *tg.MessageActionPinMessage:
		return canon.PinnedMessage{}, true
	case *tg.MessageActionHistoryClear:
		return canon.HistoryCleared{}, true
	case *tg.MessageActionGameScore:
		return canon.GameScore{GameID: typed.GameID, Score: typed.Score}, true
	case *tg.MessageActionPaymentSent:
		return canon.PaymentSent{Currency: typed.Currency, TotalAmount: typed.TotalAmount}, true
	case *tg.MessageActionPhoneCall:
		call := canon.PhoneCall{Video: typed.Video, CallID: typed.CallID}
		if duration, ok := typed.GetDuration(); ok {
			call.Duration = intPtr(duration)
		}
		if reason, ok := typed.GetReason(); ok {
			call.DiscardReason = discardReason(reason)
		}
		return call, true
	case *tg.MessageActionScreenshotTaken:
		return canon.ScreenshotTaken{}, true
	case *tg.MessageActionCustomAction:
		return canon.Custom{Text: typed.Message}, true
	case *tg.MessageActionContactSignUp:
		return canon.ContactSignUp{}, true
	case *tg.MessageActionGeoProximityReached:
		from, fromOK := peerID(typed.FromID)
		to, toOK := peerID(typed.ToID)
		if !fromOK || !toOK {
			return nil, false
		}
		return canon.GeoProximityReached{From: from, To: to, Distance: typed.Distance}, true
	case *tg.MessageActionGroupCall:
		event := canon.GroupPhoneCall{}
		if duration, ok := typed.GetDuration(); ok {
			event.Duration = intPtr(duration)
		}
		return event, true
	case *tg.MessageActionInviteToGroupCall:
		return canon.InviteToGroupCall{Users: userPeers(typed.Users)}, true
	case *tg.MessageActionSetMessagesTTL:
		return canon.AutoremoveTimeoutUpdated{Period: typed.Period}, true
	case *tg.MessageActionSetChatTheme:
		// Gift-based themes carry no emoticon; the update still records.
		update := canon.ChatThemeUpdated{}
		if theme, ok := typed.Theme.(*tg.ChatTheme); ok {
			update.Emoji = theme.Emoticon
		}
		return update, true
	case *tg.MessageActionTopicCreate:
		create := canon.TopicCreate{Title: typed.Title, IconColor: typed.IconColor}
		if emojiID, ok := typed.GetIconEmojiID(); ok {
			create.IconEmojiID = int64Ptr(emojiID)
		}
		return create, true
	case *tg.MessageActionTopicEdit:
		edit := canon.TopicEdit{}
		if title, ok := typed.GetTitle(); ok {
			edit.Title = stringPtr(title)
		}
		if emojiID, ok := typed.GetIconEmojiID(); ok {
			edit.IconEmojiID = int64Ptr(emojiID)
		}
		if closed, ok := typed.GetClosed(); ok {
			edit.Closed = boolPtr(closed)
		}
		if hidden, ok := typed.GetHidden(); ok {
			edit.Hidden = boolPtr(hidden)
		}
		return edit, true
	case *tg.MessageActionGiftPremium:
		return canon.GiftedPremium{
			Currency: typed.Currency,
			Amount:   typed.Amount,
			Months:   monthsFromDays(typed.Days),
		}, true
	case *tg.MessageActionGiftCode:
		code := canon.GiftCode{
			Months:      monthsFromDays(typed.Days),
			Slug:        typed.Slug,
			ViaGiveaway: typed.ViaGiveaway,
		}
		if boostClass, ok := typed.GetBoostPeer(); ok {
			if peer, ok := peerID(boostClass); ok {
				code.BoostPeer = peerIDPtr(peer)
			}
		}
		return code, true
	case *tg.MessageActionGiveawayLaunch:
		return canon.GiveawayLaunched{}, true
	case *tg.MessageActionRequestedPeer:
		peers := make([]canon.PeerID, 0, len(typed.Peers))
		for _, peerClass := range typed.Peers {
			if peer, ok := peerID(peerClass); ok {
				peers = append(peers, peer)
			}
		}
		return canon.RequestedPeers{ButtonID: typed.ButtonID, Peers: peers}, true
	default:
		return nil, false
	}
}

// monthsFromDays converts the wire subscription length to whole months,
// which is how the canonical model counts premium gifts.
func monthsFromDays(days int) int {
	return days / 30
}

func userPeers(ids []int64) []canon.PeerID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]canon.PeerID, 0, len(ids))
	for _, id := range ids {
		out = append(out, canon.UserPeer(id))
	}

	return out
}

func discardReason(reason tg.PhoneCallDiscardReasonClass) canon.CallDiscardReason {
	switch reason.(type) {
	case *tg.PhoneCallDiscardReasonMissed:
		return canon.CallDiscardMissed
	case *tg.PhoneCallDiscardReasonDisconnect:
		return canon.CallDiscardDisconnect
	case *tg.PhoneCallDiscardReasonHangup:
		return canon.CallDiscardHangup
	case *tg.PhoneCallDiscardReasonBusy:
		return canon.CallDiscardBusy
	default:
		return canon.CallDiscardUnknown
	}
}
