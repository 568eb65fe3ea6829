package normalize

import "tgcanon/pkg/canon"

// resolveThread derives the thread id and the thread root message for one
// message. The rules, in priority order:
//
//  1. Topic management actions anchor their own thread: a topic-create
//     message roots the topic at itself, a topic-edit at the message it
//     replies to.
//  2. An explicit top id in the reply header names the thread root. In forum
//     peers this holds only when the header marks the reply as topic-scoped
//     or the reply crosses peers; the root lives in the header's origin peer
//     when one is named.
//  3. Without a top id, a reply inside a channel roots the thread at the
//     replied-to message. In forum peers this holds only for replies the
//     header marks as topic-scoped.
//  4. A channel message outside any explicit thread falls into the channel's
//     single implicit thread.
//
// Other peers without reply context carry no thread.
func resolveThread(owner canon.PeerID, isForum bool, r parsedReply, ownID int, action canon.ServiceAction) (*int64, *canon.MessageID) {
	switch action.(type) {
	case canon.TopicCreate:
		root := cloudMessageID(owner, ownID)
		return int64Ptr(int64(ownID)), &root
	case canon.TopicEdit:
		if r.msgID != nil {
			root := cloudMessageID(owner, *r.msgID)
			return int64Ptr(int64(*r.msgID)), &root
		}
	}

	if r.present && r.story == nil {
		crossPeer := r.peer != nil && *r.peer != owner
		if r.topID != nil && (!isForum || r.flags.ForumTopic || crossPeer) {
			rootPeer := owner
			if r.peer != nil {
				rootPeer = *r.peer
			}
			root := cloudMessageID(rootPeer, *r.topID)
			return int64Ptr(int64(*r.topID)), &root
		}
		if owner.Kind == canon.PeerChannel && r.msgID != nil {
			if !isForum || r.flags.ForumTopic {
				root := cloudMessageID(owner, *r.msgID)
				return int64Ptr(int64(*r.msgID)), &root
			}
		}
	}

	if owner.Kind == canon.PeerChannel {
		implicit := canon.ChannelImplicitThreadID
		return &implicit, nil
	}

	return nil, nil
}
