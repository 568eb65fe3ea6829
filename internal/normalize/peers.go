package normalize

import "tgcanon/pkg/canon"

// peerCollector accumulates peer references in first-seen order without
// duplicates, so the output is deterministic for identical input.
type peerCollector struct {
	seen map[canon.PeerID]struct{}
	out  []canon.PeerID
}

func newPeerCollector() *peerCollector {
	return &peerCollector{seen: make(map[canon.PeerID]struct{})}
}

func (c *peerCollector) add(peer canon.PeerID) {
	if peer.IsZero() {
		return
	}
	if _, ok := c.seen[peer]; ok {
		return
	}
	c.seen[peer] = struct{}{}
	c.out = append(c.out, peer)
}

// collectPeers lists every peer a canonical message references: the owning
// conversation, the author, forward provenance, and the peers embedded in
// attributes, media and service actions. Storage prefetches these before the
// message is rendered.
func collectPeers(message *canon.Message) []canon.PeerID {
	collector := newPeerCollector()
	collector.add(message.PeerID())
	if message.AuthorID != nil {
		collector.add(*message.AuthorID)
	}
	if forward := message.ForwardInfo; forward != nil {
		if forward.AuthorID != nil {
			collector.add(*forward.AuthorID)
		}
		if forward.SourceID != nil {
			collector.add(*forward.SourceID)
		}
	}

	for _, attribute := range message.Attributes {
		switch typed := attribute.(type) {
		case canon.SourceReference:
			collector.add(typed.MessageID.Peer)
		case canon.InlineBot:
			collector.add(typed.BotID)
		case canon.ReplyToStory:
			collector.add(typed.Peer)
		case canon.TextEntities:
			for _, entity := range typed.Entities {
				if entity.User != nil {
					collector.add(*entity.User)
				}
			}
		}
	}

	for _, value := range message.Media {
		switch typed := value.(type) {
		case canon.Contact:
			if typed.PeerID != nil {
				collector.add(*typed.PeerID)
			}
		case canon.Action:
			addActionPeers(collector, typed.Action)
		}
	}

	return collector.out
}

func addActionPeers(collector *peerCollector, action canon.ServiceAction) {
	switch typed := action.(type) {
	case canon.GroupCreated:
		for _, user := range typed.Users {
			collector.add(user)
		}
	case canon.AddedMembers:
		for _, user := range typed.Users {
			collector.add(user)
		}
	case canon.RemovedMember:
		collector.add(typed.User)
	case canon.JoinedByLink:
		collector.add(typed.Inviter)
	case canon.MigratedTo:
		collector.add(typed.Channel)
	case canon.MigratedFrom:
		collector.add(typed.Group)
	case canon.GeoProximityReached:
		collector.add(typed.From)
		collector.add(typed.To)
	case canon.InviteToGroupCall:
		for _, user := range typed.Users {
			collector.add(user)
		}
	case canon.RequestedPeers:
		for _, peer := range typed.Peers {
			collector.add(peer)
		}
	case canon.GiftCode:
		if typed.BoostPeer != nil {
			collector.add(*typed.BoostPeer)
		}
	}
}
