package normalize

import (
	"errors"
	"reflect"
	"testing"

	"tgcanon/pkg/canon"

	"github.com/gotd/td/tg"
)

func TestMessageNilRecord(t *testing.T) {
	t.Parallel()

	_, err := Message(nil, Options{})
	if !errors.Is(err, canon.ErrNilRawRecord) {
		t.Fatalf("err = %v, want ErrNilRawRecord", err)
	}
}

func TestMessageEmptyRecord(t *testing.T) {
	t.Parallel()

	result, err := Message(&tg.MessageEmpty{ID: 5}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != nil {
		t.Fatalf("message = %+v, want nil", result.Message)
	}
}

func TestMessageAssembly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    tg.MessageClass
		opts   Options
		assert func(t *testing.T, got Result)
	}{
		{
			name: "channel photo post",
			raw: func() tg.MessageClass {
				photo := &tg.MessageMediaPhoto{}
				photo.SetPhoto(&tg.Photo{
					ID:   900,
					Date: 1_700_000_000,
					Sizes: []tg.PhotoSizeClass{
						&tg.PhotoSize{Type: "x", W: 800, H: 600, Size: 40_000},
					},
				})
				message := &tg.Message{
					ID:     501,
					Post:   true,
					PeerID: &tg.PeerChannel{ChannelID: 700},
					Date:   1_700_000_000,
				}
				message.SetMedia(photo)
				return message
			}(),
			assert: func(t *testing.T, got Result) {
				t.Helper()
				message := got.Message
				if message == nil {
					t.Fatal("expected message")
				}
				if !message.Tags.Contains(canon.TagPhotoOrVideo | canon.TagPhoto) {
					t.Fatalf("tags = %s, want photoOrVideo|photo", message.Tags)
				}
				if message.ThreadID == nil || *message.ThreadID != canon.ChannelImplicitThreadID {
					t.Fatalf("thread id = %v, want implicit channel thread", message.ThreadID)
				}
				if message.ForwardInfo != nil {
					t.Fatalf("forward info = %+v, want nil", message.ForwardInfo)
				}
				if !message.Flags.Contains(canon.FlagIncoming | canon.FlagCanBeGroupedIntoFeed) {
					t.Fatalf("flags = %b, want incoming and feed-groupable", message.Flags)
				}
				channel := canon.ChannelPeer(700)
				if message.PeerID() != channel {
					t.Fatalf("peer = %s, want %s", message.PeerID(), channel)
				}
				if len(got.PeerReferences) == 0 || got.PeerReferences[0] != channel {
					t.Fatalf("peer refs = %v, want leading %s", got.PeerReferences, channel)
				}
			},
		},
		{
			name: "self-destructing video keeps media but no gallery tags",
			raw: func() tg.MessageClass {
				document := &tg.MessageMediaDocument{}
				document.SetDocument(&tg.Document{
					ID:       901,
					Date:     1_700_000_000,
					MimeType: "video/mp4",
					Size:     1 << 20,
					Attributes: []tg.DocumentAttributeClass{
						&tg.DocumentAttributeVideo{Duration: 10, W: 640, H: 480},
					},
				})
				document.SetTTLSeconds(30)
				message := &tg.Message{
					ID:     502,
					PeerID: &tg.PeerUser{UserID: 42},
					FromID: &tg.PeerUser{UserID: 42},
					Date:   1_700_000_000,
				}
				message.SetMedia(document)
				return message
			}(),
			assert: func(t *testing.T, got Result) {
				t.Helper()
				message := got.Message
				if len(message.Media) != 1 {
					t.Fatalf("media length = %d, want 1", len(message.Media))
				}
				if message.Tags != 0 {
					t.Fatalf("tags = %s, want none", message.Tags)
				}
				var timer *canon.AutoclearTimeout
				var consumable *canon.ConsumableContent
				for _, attribute := range message.Attributes {
					switch typed := attribute.(type) {
					case canon.AutoclearTimeout:
						timer = &typed
					case canon.ConsumableContent:
						consumable = &typed
					}
				}
				if timer == nil || timer.Timeout != 30 {
					t.Fatalf("autoclear = %+v, want timeout 30", timer)
				}
				if consumable == nil || consumable.Consumed {
					t.Fatalf("consumable = %+v, want unconsumed", consumable)
				}
			},
		},
		{
			name: "scheduled post drops volatile counters",
			raw: func() tg.MessageClass {
				message := &tg.Message{
					ID:            503,
					Post:          true,
					FromScheduled: true,
					PeerID:        &tg.PeerChannel{ChannelID: 700},
					Date:          1_700_000_000,
					Message:       "later",
				}
				message.SetViews(10)
				message.SetForwards(2)
				return message
			}(),
			opts: Options{Namespace: canon.NamespaceScheduled},
			assert: func(t *testing.T, got Result) {
				t.Helper()
				message := got.Message
				if message.ID.Namespace != canon.NamespaceScheduled {
					t.Fatalf("namespace = %d, want scheduled", message.ID.Namespace)
				}
				for _, attribute := range message.Attributes {
					switch attribute.(type) {
					case canon.ViewCount, canon.ForwardCount:
						t.Fatalf("unexpected counter attribute %T", attribute)
					}
				}
				want := canon.FlagWasScheduled | canon.FlagCountedAsIncoming
				if !message.Flags.Contains(want) {
					t.Fatalf("flags = %b, want scheduled delivery bits", message.Flags)
				}
			},
		},
		{
			name: "reply with quote produces index edge",
			raw: func() tg.MessageClass {
				header := &tg.MessageReplyHeader{Quote: true}
				header.SetReplyToMsgID(40)
				header.SetQuoteText("quoted part")
				message := &tg.Message{
					ID:      504,
					PeerID:  &tg.PeerChat{ChatID: 100},
					FromID:  &tg.PeerUser{UserID: 42},
					Date:    1_700_000_000,
					Message: "answer",
				}
				message.SetReplyTo(header)
				return message
			}(),
			assert: func(t *testing.T, got Result) {
				t.Helper()
				message := got.Message
				reply, ok := message.Attributes[0].(canon.Reply)
				if !ok {
					t.Fatalf("attributes[0] = %T, want Reply", message.Attributes[0])
				}
				group := canon.GroupPeer(100)
				if reply.MessageID != cloudMessageID(group, 40) {
					t.Fatalf("reply target = %v, want group:100/40", reply.MessageID)
				}
				if !reply.IsQuote || reply.Quote == nil || reply.Quote.Text != "quoted part" {
					t.Fatalf("quote = %+v, want quoted part", reply.Quote)
				}
				if got.ReplyReference == nil {
					t.Fatal("expected reply reference")
				}
				if got.ReplyReference.Source != message.ID {
					t.Fatalf("reference source = %v, want %v", got.ReplyReference.Source, message.ID)
				}
				if got.ReplyReference.Target != reply.MessageID {
					t.Fatalf("reference target = %v, want %v", got.ReplyReference.Target, reply.MessageID)
				}
			},
		},
		{
			name: "forwarded channel post with saved reference",
			raw: func() tg.MessageClass {
				forward := tg.MessageFwdHeader{
					FromID: &tg.PeerChannel{ChannelID: 800},
					Date:   1_699_000_000,
				}
				forward.SetChannelPost(77)
				forward.SetSavedFromPeer(&tg.PeerChannel{ChannelID: 800})
				forward.SetSavedFromMsgID(77)
				message := &tg.Message{
					ID:     505,
					PeerID: &tg.PeerUser{UserID: 42},
					FromID: &tg.PeerUser{UserID: 42},
					Date:   1_700_000_000,
				}
				message.SetFwdFrom(forward)
				return message
			}(),
			assert: func(t *testing.T, got Result) {
				t.Helper()
				message := got.Message
				source := canon.ChannelPeer(800)
				if message.ForwardInfo == nil {
					t.Fatal("expected forward info")
				}
				if message.ForwardInfo.SourceID == nil || *message.ForwardInfo.SourceID != source {
					t.Fatalf("forward source = %v, want %s", message.ForwardInfo.SourceID, source)
				}
				reference, ok := message.Attributes[0].(canon.SourceReference)
				if !ok {
					t.Fatalf("attributes[0] = %T, want SourceReference", message.Attributes[0])
				}
				if reference.MessageID != cloudMessageID(source, 77) {
					t.Fatalf("source reference = %v, want channel:800/77", reference.MessageID)
				}
				found := false
				for _, peer := range got.PeerReferences {
					if peer == source {
						found = true
					}
				}
				if !found {
					t.Fatalf("peer refs = %v, want to include %s", got.PeerReferences, source)
				}
			},
		},
		{
			name: "topic create service message",
			raw: &tg.MessageService{
				ID:     506,
				PeerID: &tg.PeerChannel{ChannelID: 700},
				Date:   1_700_000_000,
				Action: &tg.MessageActionTopicCreate{Title: "general", IconColor: 3},
			},
			opts: Options{PeerIsForum: true},
			assert: func(t *testing.T, got Result) {
				t.Helper()
				message := got.Message
				if message.ThreadID == nil || *message.ThreadID != 506 {
					t.Fatalf("thread id = %v, want own id", message.ThreadID)
				}
				if !message.Flags.Contains(canon.FlagIsForumTopic) {
					t.Fatalf("flags = %b, want forum topic bit", message.Flags)
				}
				if len(message.Media) != 1 {
					t.Fatalf("media length = %d, want action", len(message.Media))
				}
				action, ok := message.Media[0].(canon.Action)
				if !ok {
					t.Fatalf("media[0] = %T, want Action", message.Media[0])
				}
				if _, ok := action.Action.(canon.TopicCreate); !ok {
					t.Fatalf("action = %T, want TopicCreate", action.Action)
				}
			},
		},
		{
			name: "missed call service message",
			raw: func() tg.MessageClass {
				action := &tg.MessageActionPhoneCall{CallID: 9}
				action.SetReason(&tg.PhoneCallDiscardReasonMissed{})
				return &tg.MessageService{
					ID:     507,
					PeerID: &tg.PeerUser{UserID: 42},
					FromID: &tg.PeerUser{UserID: 42},
					Date:   1_700_000_000,
					Action: action,
				}
			}(),
			assert: func(t *testing.T, got Result) {
				t.Helper()
				want := canon.GlobalTagCalls | canon.GlobalTagMissedCalls
				if got.Message.GlobalTags != want {
					t.Fatalf("global tags = %s, want %s", got.Message.GlobalTags, want)
				}
			},
		},
		{
			name: "expiring voice note consumes once",
			raw: func() tg.MessageClass {
				document := &tg.MessageMediaDocument{}
				document.SetDocument(&tg.Document{
					ID:       902,
					Date:     1_700_000_000,
					MimeType: "audio/ogg",
					Size:     10_000,
					Attributes: []tg.DocumentAttributeClass{
						&tg.DocumentAttributeAudio{Voice: true, Duration: 4},
					},
				})
				document.SetTTLSeconds(30)
				message := &tg.Message{
					ID:     510,
					PeerID: &tg.PeerUser{UserID: 42},
					FromID: &tg.PeerUser{UserID: 42},
					Date:   1_700_000_000,
				}
				message.SetMedia(document)
				return message
			}(),
			assert: func(t *testing.T, got Result) {
				t.Helper()
				var consumables []canon.ConsumableContent
				for _, attribute := range got.Message.Attributes {
					if typed, ok := attribute.(canon.ConsumableContent); ok {
						consumables = append(consumables, typed)
					}
				}
				if len(consumables) != 1 {
					t.Fatalf("consumable attributes = %d, want 1", len(consumables))
				}
				// The voice consumption state wins over the generic
				// expiring-content state.
				if !consumables[0].Consumed {
					t.Fatal("consumed = false, want true for read voice note")
				}
			},
		},
		{
			name: "zero wire ttl adds no autoclear",
			raw: func() tg.MessageClass {
				document := &tg.MessageMediaDocument{}
				document.SetDocument(&tg.Document{
					ID:       903,
					Date:     1_700_000_000,
					MimeType: "application/pdf",
					Size:     5_000,
					Attributes: []tg.DocumentAttributeClass{
						&tg.DocumentAttributeFilename{FileName: "a.pdf"},
					},
				})
				document.SetTTLSeconds(0)
				message := &tg.Message{
					ID:     511,
					PeerID: &tg.PeerUser{UserID: 42},
					FromID: &tg.PeerUser{UserID: 42},
					Date:   1_700_000_000,
				}
				message.SetMedia(document)
				return message
			}(),
			assert: func(t *testing.T, got Result) {
				t.Helper()
				for _, attribute := range got.Message.Attributes {
					switch attribute.(type) {
					case canon.AutoclearTimeout, canon.ConsumableContent:
						t.Fatalf("unexpected attribute %T for zero timeout", attribute)
					}
				}
			},
		},
		{
			name: "mentioned message keeps notification info",
			raw: &tg.Message{
				ID:        512,
				Mentioned: true,
				PeerID:    &tg.PeerChat{ChatID: 100},
				FromID:    &tg.PeerUser{UserID: 43},
				Date:      1_700_000_000,
				Message:   "ping",
			},
			assert: func(t *testing.T, got Result) {
				t.Helper()
				var info *canon.NotificationInfo
				for _, attribute := range got.Message.Attributes {
					if typed, ok := attribute.(canon.NotificationInfo); ok {
						info = &typed
					}
				}
				if info == nil {
					t.Fatal("expected notification info on mentioned message")
				}
				if !info.Personal || info.Muted {
					t.Fatalf("notification info = %+v, want personal and unmuted", info)
				}
			},
		},
		{
			name: "quoted media survives without quote text",
			raw: func() tg.MessageClass {
				quoted := &tg.MessageMediaPhoto{}
				quoted.SetPhoto(&tg.Photo{
					ID:   905,
					Date: 1_699_000_000,
					Sizes: []tg.PhotoSizeClass{
						&tg.PhotoSize{Type: "x", W: 100, H: 100, Size: 2_000},
					},
				})
				header := &tg.MessageReplyHeader{Quote: true}
				header.SetReplyToMsgID(41)
				header.SetReplyMedia(quoted)
				message := &tg.Message{
					ID:      513,
					PeerID:  &tg.PeerChat{ChatID: 100},
					FromID:  &tg.PeerUser{UserID: 42},
					Date:    1_700_000_000,
					Message: "about that picture",
				}
				message.SetReplyTo(header)
				return message
			}(),
			assert: func(t *testing.T, got Result) {
				t.Helper()
				reply, ok := got.Message.Attributes[0].(canon.Reply)
				if !ok {
					t.Fatalf("attributes[0] = %T, want Reply", got.Message.Attributes[0])
				}
				if reply.Quote == nil {
					t.Fatal("expected quote for quoted media reply")
				}
				if reply.Quote.Text != "" {
					t.Fatalf("quote text = %q, want empty", reply.Quote.Text)
				}
				if _, ok := reply.Quote.Media.(canon.Photo); !ok {
					t.Fatalf("quote media = %T, want Photo", reply.Quote.Media)
				}
			},
		},
		{
			name: "service message carries validation marker",
			raw: &tg.MessageService{
				ID:     514,
				Legacy: true,
				PeerID: &tg.PeerChat{ChatID: 100},
				FromID: &tg.PeerUser{UserID: 42},
				Date:   1_700_000_000,
				Action: &tg.MessageActionPinMessage{},
			},
			assert: func(t *testing.T, got Result) {
				t.Helper()
				found := false
				for _, attribute := range got.Message.Attributes {
					if _, ok := attribute.(canon.ContentRequiresValidation); ok {
						found = true
					}
				}
				if !found {
					t.Fatal("expected validation marker on legacy service message")
				}
			},
		},
		{
			name: "bare link tags as webpage",
			raw: &tg.Message{
				ID:      508,
				PeerID:  &tg.PeerUser{UserID: 42},
				FromID:  &tg.PeerUser{UserID: 42},
				Date:    1_700_000_000,
				Message: "see https://example.org",
				Entities: []tg.MessageEntityClass{
					&tg.MessageEntityURL{Offset: 4, Length: 19},
				},
			},
			assert: func(t *testing.T, got Result) {
				t.Helper()
				if !got.Message.Tags.Contains(canon.TagWebPage) {
					t.Fatalf("tags = %s, want webPage", got.Message.Tags)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Message(tt.raw, tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.assert(t, got)
		})
	}
}

func TestMessageDeterministic(t *testing.T) {
	t.Parallel()

	build := func() tg.MessageClass {
		header := &tg.MessageReplyHeader{}
		header.SetReplyToMsgID(40)
		message := &tg.Message{
			ID:      509,
			PeerID:  &tg.PeerChat{ChatID: 100},
			FromID:  &tg.PeerUser{UserID: 42},
			Date:    1_700_000_000,
			Message: "same in, same out",
		}
		message.SetReplyTo(header)
		message.SetGroupedID(12345)
		return message
	}

	first, err := Message(build(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Message(build(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%+v\n%+v", first, second)
	}
}
