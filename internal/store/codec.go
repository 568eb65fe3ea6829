package store

import (
	"encoding/json"
	"fmt"

	"tgcanon/pkg/canon"
)

// kindEnvelope is the serialized form of one closed-sum value: a kind
// discriminator plus the concrete payload. The kind strings are part of the
// on-disk format and must stay stable.
type kindEnvelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

func newEnvelope(kind string, payload any) (kindEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return kindEnvelope{}, fmt.Errorf("encode %s: %w", kind, err)
	}

	return kindEnvelope{Kind: kind, Data: data}, nil
}

func decodePayload[T any](env kindEnvelope) (T, error) {
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", env.Kind, err)
	}

	return out, nil
}

// storedMessage is the serialized form of a canonical message. Interface
// fields travel as envelopes; everything else marshals directly.
type storedMessage struct {
	ID          canon.MessageID
	AuthorID    *canon.PeerID      `json:",omitempty"`
	Timestamp   int
	ThreadID    *int64             `json:",omitempty"`
	GroupingKey *int64             `json:",omitempty"`
	Flags       canon.MessageFlags
	Tags        canon.Tags
	GlobalTags  canon.GlobalTags
	ForwardInfo *canon.ForwardInfo `json:",omitempty"`
	Attributes  []kindEnvelope     `json:",omitempty"`
	Media       []kindEnvelope     `json:",omitempty"`
	Text        string             `json:",omitempty"`
}

func encodeMessage(message *canon.Message) ([]byte, error) {
	stored := storedMessage{
		ID:          message.ID,
		AuthorID:    message.AuthorID,
		Timestamp:   message.Timestamp,
		ThreadID:    message.ThreadID,
		GroupingKey: message.GroupingKey,
		Flags:       message.Flags,
		Tags:        message.Tags,
		GlobalTags:  message.GlobalTags,
		ForwardInfo: message.ForwardInfo,
		Text:        message.Text,
	}
	for _, attribute := range message.Attributes {
		env, err := encodeAttribute(attribute)
		if err != nil {
			return nil, err
		}
		stored.Attributes = append(stored.Attributes, env)
	}
	for _, value := range message.Media {
		env, err := encodeMedia(value)
		if err != nil {
			return nil, err
		}
		stored.Media = append(stored.Media, env)
	}

	return json.Marshal(stored)
}

func decodeMessage(data []byte) (*canon.Message, error) {
	var stored storedMessage
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode message record: %w", err)
	}

	message := &canon.Message{
		ID:          stored.ID,
		AuthorID:    stored.AuthorID,
		Timestamp:   stored.Timestamp,
		ThreadID:    stored.ThreadID,
		GroupingKey: stored.GroupingKey,
		Flags:       stored.Flags,
		Tags:        stored.Tags,
		GlobalTags:  stored.GlobalTags,
		ForwardInfo: stored.ForwardInfo,
		Text:        stored.Text,
	}
	for _, env := range stored.Attributes {
		attribute, err := decodeAttribute(env)
		if err != nil {
			return nil, err
		}
		message.Attributes = append(message.Attributes, attribute)
	}
	for _, env := range stored.Media {
		value, err := decodeMedia(env)
		if err != nil {
			return nil, err
		}
		message.Media = append(message.Media, value)
	}

	return message, nil
}

type quotePayload struct {
	Text     string             `json:",omitempty"`
	Entities []canon.TextEntity `json:",omitempty"`
	Media    *kindEnvelope      `json:",omitempty"`
}

func encodeQuote(quote *canon.ReplyQuote) (*quotePayload, error) {
	if quote == nil {
		return nil, nil
	}
	payload := &quotePayload{Text: quote.Text, Entities: quote.Entities}
	if quote.Media != nil {
		env, err := encodeMedia(quote.Media)
		if err != nil {
			return nil, err
		}
		payload.Media = &env
	}

	return payload, nil
}

func decodeQuote(payload *quotePayload) (*canon.ReplyQuote, error) {
	if payload == nil {
		return nil, nil
	}
	quote := &canon.ReplyQuote{Text: payload.Text, Entities: payload.Entities}
	if payload.Media != nil {
		value, err := decodeMedia(*payload.Media)
		if err != nil {
			return nil, err
		}
		quote.Media = value
	}

	return quote, nil
}

type replyPayload struct {
	MessageID       canon.MessageID
	ThreadMessageID *canon.MessageID `json:",omitempty"`
	Quote           *quotePayload    `json:",omitempty"`
	IsQuote         bool             `json:",omitempty"`
}

type quotedReplyPayload struct {
	PeerID     *canon.PeerID `json:",omitempty"`
	AuthorName string        `json:",omitempty"`
	Quote      *quotePayload `json:",omitempty"`
	IsQuote    bool          `json:",omitempty"`
}

func encodeAttribute(attribute canon.Attribute) (kindEnvelope, error) {
	switch typed := attribute.(type) {
	case canon.Reply:
		quote, err := encodeQuote(typed.Quote)
		if err != nil {
			return kindEnvelope{}, err
		}
		return newEnvelope("reply", replyPayload{
			MessageID:       typed.MessageID,
			ThreadMessageID: typed.ThreadMessageID,
			Quote:           quote,
			IsQuote:         typed.IsQuote,
		})
	case canon.QuotedReply:
		quote, err := encodeQuote(typed.Quote)
		if err != nil {
			return kindEnvelope{}, err
		}
		return newEnvelope("quoted_reply", quotedReplyPayload{
			PeerID:     typed.PeerID,
			AuthorName: typed.AuthorName,
			Quote:      quote,
			IsQuote:    typed.IsQuote,
		})
	case canon.ReplyToStory:
		return newEnvelope("reply_to_story", typed)
	case canon.Edited:
		return newEnvelope("edited", typed)
	case canon.ViewCount:
		return newEnvelope("view_count", typed)
	case canon.ForwardCount:
		return newEnvelope("forward_count", typed)
	case canon.AuthorSignature:
		return newEnvelope("author_signature", typed)
	case canon.InlineBot:
		return newEnvelope("inline_bot", typed)
	case canon.ConsumableContent:
		return newEnvelope("consumable_content", typed)
	case canon.ConsumablePersonalMention:
		return newEnvelope("consumable_personal_mention", typed)
	case canon.NotificationInfo:
		return newEnvelope("notification_info", typed)
	case canon.ReplyThread:
		return newEnvelope("reply_thread", typed)
	case canon.Restricted:
		return newEnvelope("restricted", typed)
	case canon.AutoclearTimeout:
		return newEnvelope("autoclear_timeout", typed)
	case canon.AutoremoveTimeout:
		return newEnvelope("autoremove_timeout", typed)
	case canon.NonPremium:
		return newEnvelope("non_premium", typed)
	case canon.MediaSpoiler:
		return newEnvelope("media_spoiler", typed)
	case canon.WebpagePreview:
		return newEnvelope("webpage_preview", typed)
	case canon.ReplyMarkup:
		return newEnvelope("reply_markup", typed)
	case canon.ContentRequiresValidation:
		return newEnvelope("content_requires_validation", typed)
	case canon.TextEntities:
		return newEnvelope("text_entities", typed)
	case canon.Reactions:
		return newEnvelope("reactions", typed)
	case canon.SourceReference:
		return newEnvelope("source_reference", typed)
	default:
		return kindEnvelope{}, fmt.Errorf("encode attribute: unknown type %T", attribute)
	}
}

func decodeAttribute(env kindEnvelope) (canon.Attribute, error) {
	switch env.Kind {
	case "reply":
		payload, err := decodePayload[replyPayload](env)
		if err != nil {
			return nil, err
		}
		quote, err := decodeQuote(payload.Quote)
		if err != nil {
			return nil, err
		}
		return canon.Reply{
			MessageID:       payload.MessageID,
			ThreadMessageID: payload.ThreadMessageID,
			Quote:           quote,
			IsQuote:         payload.IsQuote,
		}, nil
	case "quoted_reply":
		payload, err := decodePayload[quotedReplyPayload](env)
		if err != nil {
			return nil, err
		}
		quote, err := decodeQuote(payload.Quote)
		if err != nil {
			return nil, err
		}
		return canon.QuotedReply{
			PeerID:     payload.PeerID,
			AuthorName: payload.AuthorName,
			Quote:      quote,
			IsQuote:    payload.IsQuote,
		}, nil
	case "reply_to_story":
		return decodePayload[canon.ReplyToStory](env)
	case "edited":
		return decodePayload[canon.Edited](env)
	case "view_count":
		return decodePayload[canon.ViewCount](env)
	case "forward_count":
		return decodePayload[canon.ForwardCount](env)
	case "author_signature":
		return decodePayload[canon.AuthorSignature](env)
	case "inline_bot":
		return decodePayload[canon.InlineBot](env)
	case "consumable_content":
		return decodePayload[canon.ConsumableContent](env)
	case "consumable_personal_mention":
		return decodePayload[canon.ConsumablePersonalMention](env)
	case "notification_info":
		return decodePayload[canon.NotificationInfo](env)
	case "reply_thread":
		return decodePayload[canon.ReplyThread](env)
	case "restricted":
		return decodePayload[canon.Restricted](env)
	case "autoclear_timeout":
		return decodePayload[canon.AutoclearTimeout](env)
	case "autoremove_timeout":
		return decodePayload[canon.AutoremoveTimeout](env)
	case "non_premium":
		return decodePayload[canon.NonPremium](env)
	case "media_spoiler":
		return decodePayload[canon.MediaSpoiler](env)
	case "webpage_preview":
		return decodePayload[canon.WebpagePreview](env)
	case "reply_markup":
		return decodePayload[canon.ReplyMarkup](env)
	case "content_requires_validation":
		return decodePayload[canon.ContentRequiresValidation](env)
	case "text_entities":
		return decodePayload[canon.TextEntities](env)
	case "reactions":
		return decodePayload[canon.Reactions](env)
	case "source_reference":
		return decodePayload[canon.SourceReference](env)
	default:
		return nil, fmt.Errorf("decode attribute: unknown kind %q", env.Kind)
	}
}

type filePayload struct {
	ID         int64
	Date       int
	MimeType   string         `json:",omitempty"`
	Size       int64          `json:",omitempty"`
	Attributes []kindEnvelope `json:",omitempty"`
}

type extendedMediaPayload struct {
	Preview *canon.ExtendedMediaPreview `json:",omitempty"`
	Full    *kindEnvelope               `json:",omitempty"`
}

type invoicePayload struct {
	Title                    string
	Description              string                `json:",omitempty"`
	Currency                 string
	TotalAmount              int64
	StartParam               string                `json:",omitempty"`
	ReceiptMessageID         *canon.MessageID      `json:",omitempty"`
	IsTest                   bool                  `json:",omitempty"`
	ShippingAddressRequested bool                  `json:",omitempty"`
	ExtendedMedia            *extendedMediaPayload `json:",omitempty"`
}

func encodeMedia(value canon.Media) (kindEnvelope, error) {
	switch typed := value.(type) {
	case canon.Photo:
		return newEnvelope("photo", typed)
	case canon.File:
		payload := filePayload{
			ID:       typed.ID,
			Date:     typed.Date,
			MimeType: typed.MimeType,
			Size:     typed.Size,
		}
		for _, attribute := range typed.Attributes {
			env, err := encodeFileAttribute(attribute)
			if err != nil {
				return kindEnvelope{}, err
			}
			payload.Attributes = append(payload.Attributes, env)
		}
		return newEnvelope("file", payload)
	case canon.Map:
		return newEnvelope("map", typed)
	case canon.Contact:
		return newEnvelope("contact", typed)
	case canon.Webpage:
		return newEnvelope("webpage", typed)
	case canon.Game:
		return newEnvelope("game", typed)
	case canon.Invoice:
		payload := invoicePayload{
			Title:                    typed.Title,
			Description:              typed.Description,
			Currency:                 typed.Currency,
			TotalAmount:              typed.TotalAmount,
			StartParam:               typed.StartParam,
			ReceiptMessageID:         typed.ReceiptMessageID,
			IsTest:                   typed.IsTest,
			ShippingAddressRequested: typed.ShippingAddressRequested,
		}
		if typed.ExtendedMedia != nil {
			extended := &extendedMediaPayload{Preview: typed.ExtendedMedia.Preview}
			if typed.ExtendedMedia.Full != nil {
				env, err := encodeMedia(typed.ExtendedMedia.Full)
				if err != nil {
					return kindEnvelope{}, err
				}
				extended.Full = &env
			}
			payload.ExtendedMedia = extended
		}
		return newEnvelope("invoice", payload)
	case canon.Poll:
		return newEnvelope("poll", typed)
	case canon.Dice:
		return newEnvelope("dice", typed)
	case canon.Story:
		return newEnvelope("story", typed)
	case canon.Giveaway:
		return newEnvelope("giveaway", typed)
	case canon.Unsupported:
		return newEnvelope("unsupported", typed)
	case canon.ExpiredContent:
		return newEnvelope("expired", typed)
	case canon.Action:
		env, err := encodeAction(typed.Action)
		if err != nil {
			return kindEnvelope{}, err
		}
		return newEnvelope("action", env)
	default:
		return kindEnvelope{}, fmt.Errorf("encode media: unknown type %T", value)
	}
}

func decodeMedia(env kindEnvelope) (canon.Media, error) {
	switch env.Kind {
	case "photo":
		return decodePayload[canon.Photo](env)
	case "file":
		payload, err := decodePayload[filePayload](env)
		if err != nil {
			return nil, err
		}
		file := canon.File{
			ID:       payload.ID,
			Date:     payload.Date,
			MimeType: payload.MimeType,
			Size:     payload.Size,
		}
		for _, attrEnv := range payload.Attributes {
			attribute, err := decodeFileAttribute(attrEnv)
			if err != nil {
				return nil, err
			}
			file.Attributes = append(file.Attributes, attribute)
		}
		return file, nil
	case "map":
		return decodePayload[canon.Map](env)
	case "contact":
		return decodePayload[canon.Contact](env)
	case "webpage":
		return decodePayload[canon.Webpage](env)
	case "game":
		return decodePayload[canon.Game](env)
	case "invoice":
		payload, err := decodePayload[invoicePayload](env)
		if err != nil {
			return nil, err
		}
		invoice := canon.Invoice{
			Title:                    payload.Title,
			Description:              payload.Description,
			Currency:                 payload.Currency,
			TotalAmount:              payload.TotalAmount,
			StartParam:               payload.StartParam,
			ReceiptMessageID:         payload.ReceiptMessageID,
			IsTest:                   payload.IsTest,
			ShippingAddressRequested: payload.ShippingAddressRequested,
		}
		if payload.ExtendedMedia != nil {
			extended := &canon.ExtendedMedia{Preview: payload.ExtendedMedia.Preview}
			if payload.ExtendedMedia.Full != nil {
				full, err := decodeMedia(*payload.ExtendedMedia.Full)
				if err != nil {
					return nil, err
				}
				extended.Full = full
			}
			invoice.ExtendedMedia = extended
		}
		return invoice, nil
	case "poll":
		return decodePayload[canon.Poll](env)
	case "dice":
		return decodePayload[canon.Dice](env)
	case "story":
		return decodePayload[canon.Story](env)
	case "giveaway":
		return decodePayload[canon.Giveaway](env)
	case "unsupported":
		return decodePayload[canon.Unsupported](env)
	case "expired":
		return decodePayload[canon.ExpiredContent](env)
	case "action":
		actionEnv, err := decodePayload[kindEnvelope](env)
		if err != nil {
			return nil, err
		}
		action, err := decodeAction(actionEnv)
		if err != nil {
			return nil, err
		}
		return canon.Action{Action: action}, nil
	default:
		return nil, fmt.Errorf("decode media: unknown kind %q", env.Kind)
	}
}

func encodeFileAttribute(attribute canon.FileAttribute) (kindEnvelope, error) {
	switch typed := attribute.(type) {
	case canon.FileImageSize:
		return newEnvelope("image_size", typed)
	case canon.FileAnimated:
		return newEnvelope("animated", typed)
	case canon.FileSticker:
		return newEnvelope("sticker", typed)
	case canon.FileVideo:
		return newEnvelope("video", typed)
	case canon.FileAudio:
		return newEnvelope("audio", typed)
	case canon.FileName:
		return newEnvelope("file_name", typed)
	case canon.FileHasStickers:
		return newEnvelope("has_stickers", typed)
	case canon.FileCustomEmoji:
		return newEnvelope("custom_emoji", typed)
	default:
		return kindEnvelope{}, fmt.Errorf("encode file attribute: unknown type %T", attribute)
	}
}

func decodeFileAttribute(env kindEnvelope) (canon.FileAttribute, error) {
	switch env.Kind {
	case "image_size":
		return decodePayload[canon.FileImageSize](env)
	case "animated":
		return decodePayload[canon.FileAnimated](env)
	case "sticker":
		return decodePayload[canon.FileSticker](env)
	case "video":
		return decodePayload[canon.FileVideo](env)
	case "audio":
		return decodePayload[canon.FileAudio](env)
	case "file_name":
		return decodePayload[canon.FileName](env)
	case "has_stickers":
		return decodePayload[canon.FileHasStickers](env)
	case "custom_emoji":
		return decodePayload[canon.FileCustomEmoji](env)
	default:
		return nil, fmt.Errorf("decode file attribute: unknown kind %q", env.Kind)
	}
}

func encodeAction(action canon.ServiceAction) (kindEnvelope, error) {
	switch typed := action.(type) {
	case canon.PhoneCall:
		return newEnvelope("phone_call", typed)
	case canon.TopicCreate:
		return newEnvelope("topic_create", typed)
	case canon.TopicEdit:
		return newEnvelope("topic_edit", typed)
	case canon.GroupCreated:
		return newEnvelope("group_created", typed)
	case canon.ChannelCreated:
		return newEnvelope("channel_created", typed)
	case canon.AddedMembers:
		return newEnvelope("added_members", typed)
	case canon.RemovedMember:
		return newEnvelope("removed_member", typed)
	case canon.JoinedByLink:
		return newEnvelope("joined_by_link", typed)
	case canon.JoinedByRequest:
		return newEnvelope("joined_by_request", typed)
	case canon.TitleUpdated:
		return newEnvelope("title_updated", typed)
	case canon.PhotoUpdated:
		return newEnvelope("photo_updated", typed)
	case canon.PhotoDeleted:
		return newEnvelope("photo_deleted", typed)
	case canon.PinnedMessage:
		return newEnvelope("pinned_message", typed)
	case canon.HistoryCleared:
		return newEnvelope("history_cleared", typed)
	case canon.ScreenshotTaken:
		return newEnvelope("screenshot_taken", typed)
	case canon.GameScore:
		return newEnvelope("game_score", typed)
	case canon.PaymentSent:
		return newEnvelope("payment_sent", typed)
	case canon.ContactSignUp:
		return newEnvelope("contact_sign_up", typed)
	case canon.GeoProximityReached:
		return newEnvelope("geo_proximity_reached", typed)
	case canon.GroupPhoneCall:
		return newEnvelope("group_phone_call", typed)
	case canon.InviteToGroupCall:
		return newEnvelope("invite_to_group_call", typed)
	case canon.AutoremoveTimeoutUpdated:
		return newEnvelope("autoremove_timeout_updated", typed)
	case canon.ChatThemeUpdated:
		return newEnvelope("chat_theme_updated", typed)
	case canon.GiftedPremium:
		return newEnvelope("gifted_premium", typed)
	case canon.GiftCode:
		return newEnvelope("gift_code", typed)
	case canon.GiveawayLaunched:
		return newEnvelope("giveaway_launched", typed)
	case canon.RequestedPeers:
		return newEnvelope("requested_peers", typed)
	case canon.MigratedTo:
		return newEnvelope("migrated_to", typed)
	case canon.MigratedFrom:
		return newEnvelope("migrated_from", typed)
	case canon.Custom:
		return newEnvelope("custom", typed)
	default:
		return kindEnvelope{}, fmt.Errorf("encode action: unknown type %T", action)
	}
}

func decodeAction(env kindEnvelope) (canon.ServiceAction, error) {
	switch env.Kind {
	case "phone_call":
		return decodePayload[canon.PhoneCall](env)
	case "topic_create":
		return decodePayload[canon.TopicCreate](env)
	case "topic_edit":
		return decodePayload[canon.TopicEdit](env)
	case "group_created":
		return decodePayload[canon.GroupCreated](env)
	case "channel_created":
		return decodePayload[canon.ChannelCreated](env)
	case "added_members":
		return decodePayload[canon.AddedMembers](env)
	case "removed_member":
		return decodePayload[canon.RemovedMember](env)
	case "joined_by_link":
		return decodePayload[canon.JoinedByLink](env)
	case "joined_by_request":
		return decodePayload[canon.JoinedByRequest](env)
	case "title_updated":
		return decodePayload[canon.TitleUpdated](env)
	case "photo_updated":
		return decodePayload[canon.PhotoUpdated](env)
	case "photo_deleted":
		return decodePayload[canon.PhotoDeleted](env)
	case "pinned_message":
		return decodePayload[canon.PinnedMessage](env)
	case "history_cleared":
		return decodePayload[canon.HistoryCleared](env)
	case "screenshot_taken":
		return decodePayload[canon.ScreenshotTaken](env)
	case "game_score":
		return decodePayload[canon.GameScore](env)
	case "payment_sent":
		return decodePayload[canon.PaymentSent](env)
	case "contact_sign_up":
		return decodePayload[canon.ContactSignUp](env)
	case "geo_proximity_reached":
		return decodePayload[canon.GeoProximityReached](env)
	case "group_phone_call":
		return decodePayload[canon.GroupPhoneCall](env)
	case "invite_to_group_call":
		return decodePayload[canon.InviteToGroupCall](env)
	case "autoremove_timeout_updated":
		return decodePayload[canon.AutoremoveTimeoutUpdated](env)
	case "chat_theme_updated":
		return decodePayload[canon.ChatThemeUpdated](env)
	case "gifted_premium":
		return decodePayload[canon.GiftedPremium](env)
	case "gift_code":
		return decodePayload[canon.GiftCode](env)
	case "giveaway_launched":
		return decodePayload[canon.GiveawayLaunched](env)
	case "requested_peers":
		return decodePayload[canon.RequestedPeers](env)
	case "migrated_to":
		return decodePayload[canon.MigratedTo](env)
	case "migrated_from":
		return decodePayload[canon.MigratedFrom](env)
	case "custom":
		return decodePayload[canon.Custom](env)
	default:
		return nil, fmt.Errorf("decode action: unknown kind %q", env.Kind)
	}
}
