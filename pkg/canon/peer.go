package canon

import (
	"fmt"
	"strconv"
)

// PeerKind identifies the identifier namespace a peer lives in.
type PeerKind uint8

// Kind values start at 1 so the zero PeerID stays distinguishable from a
// user peer with id 0. Values are storage-stable.
const (
	// PeerUser is a private user peer.
	PeerUser PeerKind = 1
	// PeerGroup is a legacy group peer.
	PeerGroup PeerKind = 2
	// PeerChannel is a channel or supergroup peer.
	PeerChannel PeerKind = 3
)

// String returns a short stable label for the kind.
func (k PeerKind) String() string {
	switch k {
	case PeerUser:
		return "user"
	case PeerGroup:
		return "group"
	case PeerChannel:
		return "channel"
	default:
		return "unknown"
	}
}

// PeerID identifies an addressable conversation participant. User, group and
// channel identifiers occupy distinct namespaces, so the kind is part of the
// identity.
type PeerID struct {
	Kind PeerKind
	ID   int64
}

// UserPeer builds a user-kind peer id.
func UserPeer(id int64) PeerID { return PeerID{Kind: PeerUser, ID: id} }

// GroupPeer builds a group-kind peer id.
func GroupPeer(id int64) PeerID { return PeerID{Kind: PeerGroup, ID: id} }

// ChannelPeer builds a channel-kind peer id.
func ChannelPeer(id int64) PeerID { return PeerID{Kind: PeerChannel, ID: id} }

// IsZero reports whether the peer id is unset.
func (p PeerID) IsZero() bool { return p == PeerID{} }

// String renders the peer id as "<kind>:<id>".
func (p PeerID) String() string {
	return fmt.Sprintf("%s:%s", p.Kind, strconv.FormatInt(p.ID, 10))
}

// Namespace distinguishes message origins within one peer.
type Namespace uint8

const (
	// NamespaceCloud holds regular cloud-delivered messages.
	NamespaceCloud Namespace = iota
	// NamespaceScheduled holds messages scheduled for later delivery.
	NamespaceScheduled
	// NamespaceLocal holds locally generated messages.
	NamespaceLocal
)

// MessageID uniquely identifies a message within one peer and namespace.
type MessageID struct {
	Peer      PeerID
	Namespace Namespace
	ID        int
}

// String renders the message id for logs and cache keys.
func (id MessageID) String() string {
	return fmt.Sprintf("%s/%d/%d", id.Peer, id.Namespace, id.ID)
}

// ReplyReference is one source-message-to-target-message reply edge, used by
// the storage collaborator to maintain its secondary reply index.
type ReplyReference struct {
	Source MessageID
	Target MessageID
}
