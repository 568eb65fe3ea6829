// Package normalize converts raw wire-format Telegram message records into
// canonical, storage-ready messages plus the derived metadata used for
// indexing and prefetch. The whole pipeline is a pure function of its input
// record and options: it performs no I/O, keeps no state, and is safe to
// re-invoke and to run across workers.
package normalize

import (
	"tgcanon/pkg/canon"

	"github.com/gotd/td/tg"
)

// peerID maps a wire peer reference into its canonical namespace.
func peerID(peer tg.PeerClass) (canon.PeerID, bool) {
	switch typed := peer.(type) {
	case *tg.PeerUser:
		return canon.UserPeer(typed.UserID), true
	case *tg.PeerChat:
		return canon.GroupPeer(typed.ChatID), true
	case *tg.PeerChannel:
		return canon.ChannelPeer(typed.ChannelID), true
	default:
		return canon.PeerID{}, false
	}
}

func intPtr(v int) *int          { return &v }
func int64Ptr(v int64) *int64    { return &v }
func boolPtr(v bool) *bool       { return &v }
func stringPtr(v string) *string { return &v }

func peerIDPtr(p canon.PeerID) *canon.PeerID {
	copied := p
	return &copied
}

func cloudMessageID(peer canon.PeerID, id int) canon.MessageID {
	return canon.MessageID{Peer: peer, Namespace: canon.NamespaceCloud, ID: id}
}
