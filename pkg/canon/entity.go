package canon

// EntityType identifies one text entity kind.
type EntityType string

const (
	// EntityMention is an @username mention.
	EntityMention EntityType = "mention"
	// EntityHashtag is a #hashtag (cashtags fold into this kind).
	EntityHashtag EntityType = "hashtag"
	// EntityBotCommand is a /command.
	EntityBotCommand EntityType = "bot_command"
	// EntityURL is a bare URL in the text.
	EntityURL EntityType = "url"
	// EntityEmail is an email address.
	EntityEmail EntityType = "email"
	// EntityBold is bold formatting.
	EntityBold EntityType = "bold"
	// EntityItalic is italic formatting.
	EntityItalic EntityType = "italic"
	// EntityCode is inline monospace formatting.
	EntityCode EntityType = "code"
	// EntityPre is a preformatted block, optionally with a language.
	EntityPre EntityType = "pre"
	// EntityTextURL is a text span linking to an explicit URL.
	EntityTextURL EntityType = "text_url"
	// EntityTextMention is a text span mentioning a user without username.
	EntityTextMention EntityType = "text_mention"
	// EntityPhoneNumber is a phone number.
	EntityPhoneNumber EntityType = "phone_number"
	// EntityUnderline is underline formatting.
	EntityUnderline EntityType = "underline"
	// EntityStrikethrough is strikethrough formatting.
	EntityStrikethrough EntityType = "strikethrough"
	// EntityBlockquote is a quoted block.
	EntityBlockquote EntityType = "blockquote"
	// EntityBankCard is a bank card number.
	EntityBankCard EntityType = "bank_card"
	// EntitySpoiler is hidden-until-tapped text.
	EntitySpoiler EntityType = "spoiler"
	// EntityCustomEmoji is a custom emoji backed by a document.
	EntityCustomEmoji EntityType = "custom_emoji"
)

// TextEntity is one typed span of the message text. Offset and Length are in
// UTF-16 code units, as on the wire.
type TextEntity struct {
	Type   EntityType
	Offset int
	Length int
	// URL is set for EntityTextURL.
	URL string `json:",omitempty"`
	// User is set for EntityTextMention.
	User *PeerID `json:",omitempty"`
	// Language is set for EntityPre when known.
	Language string `json:",omitempty"`
	// DocumentID is set for EntityCustomEmoji.
	DocumentID int64 `json:",omitempty"`
}
