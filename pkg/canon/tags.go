package canon

import "strings"

// Tags is the per-message classification bitset used for fast filtered
// queries. Bit values are storage-stable: they are persisted as-is and used
// in index masks, so they must never be renumbered.
type Tags uint32

const (
	// TagPhotoOrVideo marks a message carrying a photo or a full video.
	TagPhotoOrVideo Tags = 1 << 0
	// TagFile marks a message carrying a generic file.
	TagFile Tags = 1 << 1
	// TagMusic marks a message carrying a non-voice audio track.
	TagMusic Tags = 1 << 2
	// TagWebPage marks a message with a webpage preview or a bare link.
	TagWebPage Tags = 1 << 3
	// TagVoiceOrInstantVideo marks voice notes and instant round videos.
	TagVoiceOrInstantVideo Tags = 1 << 4
	// TagUnseenPersonalMessage marks a not-yet-consumed personal mention.
	TagUnseenPersonalMessage Tags = 1 << 5
	// TagLiveLocation marks an active live-location broadcast.
	TagLiveLocation Tags = 1 << 6
	// TagGif marks an animated media item.
	TagGif Tags = 1 << 7
	// TagPhoto marks a photo.
	TagPhoto Tags = 1 << 8
	// TagVideo marks a full video.
	TagVideo Tags = 1 << 9
	// TagPinned marks a pinned message.
	TagPinned Tags = 1 << 10
	// TagUnseenReaction marks a message with reactions not yet seen.
	TagUnseenReaction Tags = 1 << 11
)

// Contains reports whether every bit of other is set.
func (t Tags) Contains(other Tags) bool { return t&other == other }

// With returns the tags with the given bits added.
func (t Tags) With(other Tags) Tags { return t | other }

// Without returns the tags with the given bits cleared.
func (t Tags) Without(other Tags) Tags { return t &^ other }

// String lists the set tags for logs.
func (t Tags) String() string {
	names := []struct {
		tag  Tags
		name string
	}{
		{TagPhotoOrVideo, "photoOrVideo"},
		{TagFile, "file"},
		{TagMusic, "music"},
		{TagWebPage, "webPage"},
		{TagVoiceOrInstantVideo, "voiceOrInstantVideo"},
		{TagUnseenPersonalMessage, "unseenPersonalMessage"},
		{TagLiveLocation, "liveLocation"},
		{TagGif, "gif"},
		{TagPhoto, "photo"},
		{TagVideo, "video"},
		{TagPinned, "pinned"},
		{TagUnseenReaction, "unseenReaction"},
	}

	var out []string
	for _, entry := range names {
		if t.Contains(entry.tag) {
			out = append(out, entry.name)
		}
	}
	if len(out) == 0 {
		return "none"
	}

	return strings.Join(out, "|")
}

// GlobalTags is the cross-peer classification bitset. Like Tags, bit values
// are storage-stable.
type GlobalTags uint32

const (
	// GlobalTagCalls marks any phone call service message.
	GlobalTagCalls GlobalTags = 1 << 0
	// GlobalTagMissedCalls marks incoming calls discarded as missed.
	GlobalTagMissedCalls GlobalTags = 1 << 1
)

// Contains reports whether every bit of other is set.
func (t GlobalTags) Contains(other GlobalTags) bool { return t&other == other }

// String lists the set tags for logs.
func (t GlobalTags) String() string {
	var out []string
	if t.Contains(GlobalTagCalls) {
		out = append(out, "calls")
	}
	if t.Contains(GlobalTagMissedCalls) {
		out = append(out, "missedCalls")
	}
	if len(out) == 0 {
		return "none"
	}

	return strings.Join(out, "|")
}
