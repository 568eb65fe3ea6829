package normalize

import (
	"testing"

	"tgcanon/pkg/canon"
)

func TestClassifyTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		incoming   bool
		attributes []canon.Attribute
		media      []canon.Media
		entities   []canon.TextEntity
		pinned     bool
		wantTags   canon.Tags
		wantGlobal canon.GlobalTags
	}{
		{
			name:     "photo",
			media:    []canon.Media{canon.Photo{ID: 1}},
			wantTags: canon.TagPhotoOrVideo | canon.TagPhoto,
		},
		{
			name:       "secret photo",
			attributes: []canon.Attribute{canon.AutoclearTimeout{Timeout: 60}},
			media:      []canon.Media{canon.Photo{ID: 1}},
			wantTags:   0,
		},
		{
			name:       "view once photo",
			attributes: []canon.Attribute{canon.AutoclearTimeout{Timeout: ViewOnceTimeout}},
			media:      []canon.Media{canon.Photo{ID: 1}},
			wantTags:   0,
		},
		{
			name:     "plain document",
			media:    []canon.Media{canon.File{ID: 2}},
			wantTags: canon.TagFile,
		},
		{
			name: "video",
			media: []canon.Media{canon.File{
				ID:         2,
				Attributes: []canon.FileAttribute{canon.FileVideo{Duration: 10}},
			}},
			wantTags: canon.TagPhotoOrVideo | canon.TagVideo,
		},
		{
			name:       "secret video",
			attributes: []canon.Attribute{canon.AutoclearTimeout{Timeout: 30}},
			media: []canon.Media{canon.File{
				ID:         2,
				Attributes: []canon.FileAttribute{canon.FileVideo{Duration: 10}},
			}},
			wantTags: 0,
		},
		{
			name: "round video",
			media: []canon.Media{canon.File{
				ID:         2,
				Attributes: []canon.FileAttribute{canon.FileVideo{RoundMessage: true}},
			}},
			wantTags: canon.TagVoiceOrInstantVideo,
		},
		{
			name: "voice note",
			media: []canon.Media{canon.File{
				ID:         2,
				Attributes: []canon.FileAttribute{canon.FileAudio{Voice: true, Duration: 3}},
			}},
			wantTags: canon.TagVoiceOrInstantVideo,
		},
		{
			name: "music track",
			media: []canon.Media{canon.File{
				ID:         2,
				Attributes: []canon.FileAttribute{canon.FileAudio{Title: "song"}},
			}},
			wantTags: canon.TagMusic,
		},
		{
			name: "gif",
			media: []canon.Media{canon.File{
				ID: 2,
				Attributes: []canon.FileAttribute{
					canon.FileVideo{Duration: 4},
					canon.FileAnimated{},
				},
			}},
			wantTags: canon.TagGif,
		},
		{
			name: "sticker",
			media: []canon.Media{canon.File{
				ID:         2,
				Attributes: []canon.FileAttribute{canon.FileSticker{Alt: "😀"}},
			}},
			wantTags: 0,
		},
		{
			name:     "animated sticker",
			media:    []canon.Media{canon.File{ID: 2, MimeType: canon.AnimatedStickerMimeType}},
			wantTags: 0,
		},
		{
			name:     "loaded webpage",
			media:    []canon.Media{canon.Webpage{ID: 3, Loaded: true}},
			wantTags: canon.TagWebPage,
		},
		{
			name:     "pending webpage",
			media:    []canon.Media{canon.Webpage{ID: 3}},
			wantTags: 0,
		},
		{
			name:     "bare link in text",
			entities: []canon.TextEntity{{Type: canon.EntityURL, Length: 10}},
			wantTags: canon.TagWebPage,
		},
		{
			name:     "link with pending webpage media",
			media:    []canon.Media{canon.Webpage{ID: 3}},
			entities: []canon.TextEntity{{Type: canon.EntityURL, Length: 10}},
			wantTags: 0,
		},
		{
			name:     "live location",
			media:    []canon.Media{canon.Map{LiveBroadcastingTimeout: intPtr(900)}},
			wantTags: canon.TagLiveLocation,
		},
		{
			name:     "static location",
			media:    []canon.Media{canon.Map{Latitude: 1, Longitude: 2}},
			wantTags: 0,
		},
		{
			name:       "unseen personal mention",
			attributes: []canon.Attribute{canon.ConsumablePersonalMention{}},
			wantTags:   canon.TagUnseenPersonalMessage,
		},
		{
			name:       "consumed personal mention",
			attributes: []canon.Attribute{canon.ConsumablePersonalMention{Consumed: true}},
			wantTags:   0,
		},
		{
			name:       "unseen reaction",
			attributes: []canon.Attribute{canon.Reactions{HasUnseen: true}},
			wantTags:   canon.TagUnseenReaction,
		},
		{
			name:     "pinned",
			pinned:   true,
			wantTags: canon.TagPinned,
		},
		{
			name:     "missed incoming call",
			incoming: true,
			media: []canon.Media{canon.Action{Action: canon.PhoneCall{
				CallID:        9,
				DiscardReason: canon.CallDiscardMissed,
			}}},
			wantGlobal: canon.GlobalTagCalls | canon.GlobalTagMissedCalls,
		},
		{
			name: "outgoing call",
			media: []canon.Media{canon.Action{Action: canon.PhoneCall{
				CallID:        9,
				DiscardReason: canon.CallDiscardHangup,
			}}},
			wantGlobal: canon.GlobalTagCalls,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tags, globalTags := ClassifyTags(tt.incoming, tt.attributes, tt.media, tt.entities, tt.pinned)
			if tags != tt.wantTags {
				t.Fatalf("tags = %s, want %s", tags, tt.wantTags)
			}
			if globalTags != tt.wantGlobal {
				t.Fatalf("global tags = %s, want %s", globalTags, tt.wantGlobal)
			}
		})
	}
}
