package canon

import "testing"

func TestTagsBitSetOperations(t *testing.T) {
	t.Parallel()

	tags := Tags(0).With(TagPhoto).With(TagPhotoOrVideo)
	if !tags.Contains(TagPhoto) || !tags.Contains(TagPhotoOrVideo) {
		t.Error("With did not set the requested bits")
	}
	if tags.Contains(TagVideo) {
		t.Error("Contains reported an unset bit")
	}
	if !tags.Contains(TagPhoto | TagPhotoOrVideo) {
		t.Error("Contains must require every bit of the mask")
	}
	if tags.Contains(TagPhoto | TagVideo) {
		t.Error("Contains matched a partially set mask")
	}

	cleared := tags.Without(TagPhoto)
	if cleared.Contains(TagPhoto) {
		t.Error("Without did not clear the bit")
	}
	if !cleared.Contains(TagPhotoOrVideo) {
		t.Error("Without cleared an unrelated bit")
	}
}

func TestTagsString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tags Tags
		want string
	}{
		{name: "empty", tags: 0, want: "none"},
		{name: "single", tags: TagMusic, want: "music"},
		{name: "multiple in bit order", tags: TagPinned | TagPhoto | TagFile, want: "file|photo|pinned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.tags.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGlobalTagsString(t *testing.T) {
	t.Parallel()

	if got := GlobalTags(0).String(); got != "none" {
		t.Errorf("String() = %q, want none", got)
	}
	if got := (GlobalTagCalls | GlobalTagMissedCalls).String(); got != "calls|missedCalls" {
		t.Errorf("String() = %q, want calls|missedCalls", got)
	}
}

func TestPeerIDString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		peer PeerID
		want string
	}{
		{name: "user", peer: UserPeer(42), want: "user:42"},
		{name: "group", peer: GroupPeer(100), want: "group:100"},
		{name: "channel", peer: ChannelPeer(9001), want: "channel:9001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.peer.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPeerIDIsZero(t *testing.T) {
	t.Parallel()

	if !(PeerID{}).IsZero() {
		t.Error("zero value must report IsZero")
	}
	if UserPeer(0).IsZero() {
		t.Error("a user peer with id 0 still carries a kind and is not zero")
	}
}

func TestMessageIDString(t *testing.T) {
	t.Parallel()

	id := MessageID{Peer: ChannelPeer(7), Namespace: NamespaceScheduled, ID: 123}
	if got, want := id.String(), "channel:7/1/123"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFileHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		file            File
		isVoice         bool
		isInstantVideo  bool
		isSticker       bool
		isAnimatedStick bool
	}{
		{
			name:    "voice note",
			file:    File{Attributes: []FileAttribute{FileAudio{Voice: true, Duration: 3}}},
			isVoice: true,
		},
		{
			name: "music track",
			file: File{Attributes: []FileAttribute{FileAudio{Title: "song"}}},
		},
		{
			name:           "round video",
			file:           File{Attributes: []FileAttribute{FileVideo{RoundMessage: true}}},
			isInstantVideo: true,
		},
		{
			name:      "sticker",
			file:      File{Attributes: []FileAttribute{FileSticker{Alt: ":)"}}},
			isSticker: true,
		},
		{
			name:            "animated sticker by mime type",
			file:            File{MimeType: AnimatedStickerMimeType},
			isAnimatedStick: true,
		},
		{
			name: "plain document",
			file: File{MimeType: "application/pdf", Attributes: []FileAttribute{FileName{Name: "a.pdf"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.file.IsVoice(); got != tt.isVoice {
				t.Errorf("IsVoice() = %v, want %v", got, tt.isVoice)
			}
			if got := tt.file.IsInstantVideo(); got != tt.isInstantVideo {
				t.Errorf("IsInstantVideo() = %v, want %v", got, tt.isInstantVideo)
			}
			if got := tt.file.IsSticker(); got != tt.isSticker {
				t.Errorf("IsSticker() = %v, want %v", got, tt.isSticker)
			}
			if got := tt.file.IsAnimatedSticker(); got != tt.isAnimatedStick {
				t.Errorf("IsAnimatedSticker() = %v, want %v", got, tt.isAnimatedStick)
			}
		})
	}
}

func TestMessageAttributeLookup(t *testing.T) {
	t.Parallel()

	message := &Message{
		ID: MessageID{Peer: UserPeer(1), ID: 10},
		Attributes: []Attribute{
			ViewCount{Count: 5},
			Edited{Date: 100},
			Edited{Date: 200},
		},
	}

	found := message.Attribute(func(a Attribute) bool {
		_, ok := a.(Edited)
		return ok
	})
	edited, ok := found.(Edited)
	if !ok {
		t.Fatalf("Attribute returned %T, want Edited", found)
	}
	if edited.Date != 100 {
		t.Errorf("Attribute returned the later match, date = %d", edited.Date)
	}

	missing := message.Attribute(func(a Attribute) bool {
		_, ok := a.(Reactions)
		return ok
	})
	if missing != nil {
		t.Errorf("Attribute on no match = %v, want nil", missing)
	}

	if got := message.PeerID(); got != UserPeer(1) {
		t.Errorf("PeerID() = %v, want user:1", got)
	}
}
