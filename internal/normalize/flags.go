package normalize

import "github.com/gotd/td/bin"

// Bit positions of the raw message flag words, per the wire layer carried by
// gotd. Every flag read in this package goes through one of the decode
// functions below so the bit-to-meaning mapping lives in exactly one place.
const (
	msgBitOut           = 1
	msgBitMentioned     = 4
	msgBitMediaUnread   = 5
	msgBitSilent        = 13
	msgBitPost          = 14
	msgBitFromScheduled = 18
	msgBitLegacy        = 19
	msgBitEditHide      = 21
	msgBitPinned        = 24
	msgBitNoforwards    = 26
	msgBitInvertMedia   = 27

	replyBitForumTopic = 3
	replyBitQuote      = 9

	fwdBitImported = 7
	fwdBitSavedOut = 11
)

// contentFlags is the named view of a content message's flag word.
type contentFlags struct {
	Incoming           bool
	Mentioned          bool
	MediaUnread        bool
	Silent             bool
	Post               bool
	WasScheduled       bool
	RequiresValidation bool
	EditHidden         bool
	Pinned             bool
	CopyProtected      bool
	LeadingPreview     bool
}

func decodeContentFlags(f bin.Fields) contentFlags {
	return contentFlags{
		Incoming:           !f.Has(msgBitOut),
		Mentioned:          f.Has(msgBitMentioned),
		MediaUnread:        f.Has(msgBitMediaUnread),
		Silent:             f.Has(msgBitSilent),
		Post:               f.Has(msgBitPost),
		WasScheduled:       f.Has(msgBitFromScheduled),
		RequiresValidation: f.Has(msgBitLegacy),
		EditHidden:         f.Has(msgBitEditHide),
		Pinned:             f.Has(msgBitPinned),
		CopyProtected:      f.Has(msgBitNoforwards),
		LeadingPreview:     f.Has(msgBitInvertMedia),
	}
}

// serviceFlags is the named view of a service message's flag word.
type serviceFlags struct {
	Incoming           bool
	Mentioned          bool
	MediaUnread        bool
	Silent             bool
	Post               bool
	WasScheduled       bool
	RequiresValidation bool
	CopyProtected      bool
}

func decodeServiceFlags(f bin.Fields) serviceFlags {
	return serviceFlags{
		Incoming:           !f.Has(msgBitOut),
		Mentioned:          f.Has(msgBitMentioned),
		MediaUnread:        f.Has(msgBitMediaUnread),
		Silent:             f.Has(msgBitSilent),
		Post:               f.Has(msgBitPost),
		WasScheduled:       f.Has(msgBitFromScheduled),
		RequiresValidation: f.Has(msgBitLegacy),
		CopyProtected:      f.Has(msgBitNoforwards),
	}
}

// replyHeaderFlags is the named view of a reply header's flag word.
type replyHeaderFlags struct {
	ForumTopic bool
	Quote      bool
}

func decodeReplyHeaderFlags(f bin.Fields) replyHeaderFlags {
	return replyHeaderFlags{
		ForumTopic: f.Has(replyBitForumTopic),
		Quote:      f.Has(replyBitQuote),
	}
}

// forwardHeaderFlags is the named view of a forward header's flag word.
type forwardHeaderFlags struct {
	Imported bool
	SavedOut bool
}

func decodeForwardHeaderFlags(f bin.Fields) forwardHeaderFlags {
	return forwardHeaderFlags{
		Imported: f.Has(fwdBitImported),
		SavedOut: f.Has(fwdBitSavedOut),
	}
}
