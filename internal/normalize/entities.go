package normalize

import (
	"tgcanon/pkg/canon"

	"github.com/gotd/td/tg"
)

// mapTextEntities converts wire entities into canonical spans. Unknown
// entity kinds are forward-compatibility noise and are dropped.
func mapTextEntities(entities []tg.MessageEntityClass) []canon.TextEntity {
	if len(entities) == 0 {
		return nil
	}

	out := make([]canon.TextEntity, 0, len(entities))
	for _, entity := range entities {
		if entity == nil {
			continue
		}

		span := canon.TextEntity{
			Offset: entity.GetOffset(),
			Length: entity.GetLength(),
		}

		switch typed := entity.(type) {
		case *tg.MessageEntityMention:
			span.Type = canon.EntityMention
		case *tg.MessageEntityHashtag:
			span.Type = canon.EntityHashtag
		case *tg.MessageEntityCashtag:
			span.Type = canon.EntityHashtag
		case *tg.MessageEntityBotCommand:
			span.Type = canon.EntityBotCommand
		case *tg.MessageEntityURL:
			span.Type = canon.EntityURL
		case *tg.MessageEntityEmail:
			span.Type = canon.EntityEmail
		case *tg.MessageEntityBold:
			span.Type = canon.EntityBold
		case *tg.MessageEntityItalic:
			span.Type = canon.EntityItalic
		case *tg.MessageEntityCode:
			span.Type = canon.EntityCode
		case *tg.MessageEntityPre:
			span.Type = canon.EntityPre
			span.Language = typed.Language
		case *tg.MessageEntityTextURL:
			span.Type = canon.EntityTextURL
			span.URL = typed.URL
		case *tg.MessageEntityMentionName:
			span.Type = canon.EntityTextMention
			span.User = peerIDPtr(canon.UserPeer(typed.UserID))
		case *tg.MessageEntityPhone:
			span.Type = canon.EntityPhoneNumber
		case *tg.MessageEntityUnderline:
			span.Type = canon.EntityUnderline
		case *tg.MessageEntityStrike:
			span.Type = canon.EntityStrikethrough
		case *tg.MessageEntityBlockquote:
			span.Type = canon.EntityBlockquote
		case *tg.MessageEntityBankCard:
			span.Type = canon.EntityBankCard
		case *tg.MessageEntitySpoiler:
			span.Type = canon.EntitySpoiler
		case *tg.MessageEntityCustomEmoji:
			span.Type = canon.EntityCustomEmoji
			span.DocumentID = typed.DocumentID
		default:
			continue
		}

		out = append(out, span)
	}

	if len(out) == 0 {
		return nil
	}

	return out
}

// entitiesDecision is the single explicit decision on whether a TextEntities
// attribute is attached, computed once and passed downward.
type entitiesDecision struct {
	attach   bool
	entities []canon.TextEntity
}

// decideEntities attaches the mapped entities when present; with no wire
// entities an empty attribute is still attached unless the media list
// contains a kind that never carries text (contact, map).
func decideEntities(wire []tg.MessageEntityClass, media []canon.Media) entitiesDecision {
	if mapped := mapTextEntities(wire); mapped != nil {
		return entitiesDecision{attach: true, entities: mapped}
	}

	for _, value := range media {
		switch value.(type) {
		case canon.Contact, canon.Map:
			return entitiesDecision{}
		}
	}

	return entitiesDecision{attach: true}
}
