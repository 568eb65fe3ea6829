package normalize

import (
	"tgcanon/pkg/canon"

	"github.com/gotd/td/tg"
)

// resolveForward maps a forward header into canonical provenance. The second
// return is the saved-message back reference, which travels as an attribute
// and is independent of the provenance record.
func resolveForward(header *tg.MessageFwdHeader) (*canon.ForwardInfo, *canon.SourceReference) {
	if header == nil {
		return nil, nil
	}
	header.SetFlags()
	flags := decodeForwardHeaderFlags(header.Flags)

	var source *canon.SourceReference
	if savedClass, ok := header.GetSavedFromPeer(); ok {
		if savedID, ok := header.GetSavedFromMsgID(); ok {
			if peer, ok := peerID(savedClass); ok {
				source = &canon.SourceReference{MessageID: cloudMessageID(peer, savedID)}
			}
		}
	}

	var (
		authorID        *canon.PeerID
		sourceID        *canon.PeerID
		sourceMessageID *canon.MessageID
	)
	if fromClass, ok := header.GetFromID(); ok {
		if peer, ok := peerID(fromClass); ok {
			if peer.Kind == canon.PeerChannel {
				sourceID = peerIDPtr(peer)
				if post, ok := header.GetChannelPost(); ok {
					id := cloudMessageID(peer, post)
					sourceMessageID = &id
				}
			} else {
				authorID = peerIDPtr(peer)
			}
		}
	}

	signature := ""
	if postAuthor, ok := header.GetPostAuthor(); ok {
		signature = postAuthor
	} else if fromName, ok := header.GetFromName(); ok {
		signature = fromName
	}

	info := &canon.ForwardInfo{
		Date:            header.Date,
		AuthorSignature: signature,
		Imported:        flags.Imported,
	}
	if psa, ok := header.GetPsaType(); ok {
		info.PSAType = psa
	}

	switch {
	case authorID != nil:
		info.AuthorID = authorID
	case sourceID != nil:
		// Channel-authored forward: the channel is both author and source.
		info.AuthorID = sourceID
		info.SourceID = sourceID
		info.SourceMessageID = sourceMessageID
	case signature != "":
		// Hidden origin: signature-only provenance.
	default:
		return nil, source
	}

	return info, source
}
