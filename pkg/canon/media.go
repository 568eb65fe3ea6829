package canon

// Media is one canonical media value attached to a message. Like Attribute,
// the implementation set is closed to this package.
type Media interface {
	isMedia()
}

// PhotoSize is one available rendition of a photo.
type PhotoSize struct {
	Type   string
	Width  int
	Height int
	Size   int
}

// Photo is an uploaded image.
type Photo struct {
	ID          int64
	Date        int
	HasStickers bool
	Sizes       []PhotoSize
}

// FileAttribute is one typed property of a File. Closed sum.
type FileAttribute interface {
	isFileAttribute()
}

// FileImageSize carries still image dimensions.
type FileImageSize struct {
	Width  int
	Height int
}

// FileAnimated marks an animation (gif-like looping video).
type FileAnimated struct{}

// FileSticker marks a sticker with its alt emoji.
type FileSticker struct {
	Alt  string
	Mask bool
}

// FileVideo carries video properties.
type FileVideo struct {
	RoundMessage      bool
	SupportsStreaming bool
	Duration          float64
	Width             int
	Height            int
}

// FileAudio carries audio properties.
type FileAudio struct {
	Voice     bool
	Duration  int
	Title     string
	Performer string
	Waveform  []byte
}

// FileName carries the original file name.
type FileName struct {
	Name string
}

// FileHasStickers marks media with attached stickers.
type FileHasStickers struct{}

// FileCustomEmoji marks a custom emoji document.
type FileCustomEmoji struct {
	Alt string
}

func (FileImageSize) isFileAttribute()   {}
func (FileAnimated) isFileAttribute()    {}
func (FileSticker) isFileAttribute()     {}
func (FileVideo) isFileAttribute()       {}
func (FileAudio) isFileAttribute()       {}
func (FileName) isFileAttribute()        {}
func (FileHasStickers) isFileAttribute() {}
func (FileCustomEmoji) isFileAttribute() {}

// AnimatedStickerMimeType identifies vector animated stickers; such files
// suppress media tags entirely.
const AnimatedStickerMimeType = "application/x-tgsticker"

// File is an uploaded document of any kind.
type File struct {
	ID         int64
	Date       int
	MimeType   string
	Size       int64
	Attributes []FileAttribute
}

// IsVoice reports whether the file is a voice note.
func (f File) IsVoice() bool {
	for _, attribute := range f.Attributes {
		if audio, ok := attribute.(FileAudio); ok && audio.Voice {
			return true
		}
	}

	return false
}

// IsInstantVideo reports whether the file is an instant round video.
func (f File) IsInstantVideo() bool {
	for _, attribute := range f.Attributes {
		if video, ok := attribute.(FileVideo); ok && video.RoundMessage {
			return true
		}
	}

	return false
}

// IsSticker reports whether the file carries a sticker attribute.
func (f File) IsSticker() bool {
	for _, attribute := range f.Attributes {
		if _, ok := attribute.(FileSticker); ok {
			return true
		}
	}

	return false
}

// IsAnimatedSticker reports whether the file is a vector animated sticker.
func (f File) IsAnimatedSticker() bool {
	return f.MimeType == AnimatedStickerMimeType
}

// Venue describes a named place on a map.
type Venue struct {
	Title    string
	Address  string
	Provider string
	ID       string
	Type     string
}

// Map unifies geo points, venues and live locations.
type Map struct {
	Latitude  float64
	Longitude float64
	// Heading is the movement direction in degrees, live locations only.
	Heading *int
	// Venue is set for venue media.
	Venue *Venue
	// LiveBroadcastingTimeout is the live-location broadcast window in
	// seconds; nil for static points and venues.
	LiveBroadcastingTimeout *int
	// LiveProximityNotificationRadius is the proximity alert radius in
	// meters, when armed.
	LiveProximityNotificationRadius *int
}

// Contact is a shared phone contact.
type Contact struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	// PeerID is set when the contact is a known user.
	PeerID *PeerID
	VCard  string
}

// Webpage is a link preview.
type Webpage struct {
	ID  int64
	URL string
	// Loaded reports whether the preview content arrived; pending previews
	// carry only the id.
	Loaded      bool
	DisplayURL  string
	SiteName    string
	Title       string
	Description string
}

// Game is a shared inline game.
type Game struct {
	ID          int64
	ShortName   string
	Title       string
	Description string
}

// ExtendedMediaPreview is the paid-content stub shown before purchase.
type ExtendedMediaPreview struct {
	Width         int
	Height        int
	ThumbData     []byte
	VideoDuration *int
}

// ExtendedMedia is the invoice sub-media: either a preview stub or the full
// embedded media value.
type ExtendedMedia struct {
	Preview *ExtendedMediaPreview
	Full    Media
}

// Invoice is a payment request message.
type Invoice struct {
	Title                    string
	Description              string
	Currency                 string
	TotalAmount              int64
	StartParam               string
	ReceiptMessageID         *MessageID
	IsTest                   bool
	ShippingAddressRequested bool
	ExtendedMedia            *ExtendedMedia
}

// PollPublicity selects who can see poll voters.
type PollPublicity uint8

const (
	// PollAnonymous hides voter identities.
	PollAnonymous PollPublicity = iota
	// PollPublic exposes voter identities.
	PollPublic
)

// PollKind selects the poll semantics.
type PollKind uint8

const (
	// PollKindPoll is a regular opinion poll.
	PollKindPoll PollKind = iota
	// PollKindQuiz is a quiz with a correct answer.
	PollKindQuiz
)

// PollOption is one poll answer option.
type PollOption struct {
	Text string
	Data []byte
}

// Poll is a poll or quiz.
type Poll struct {
	ID              int64
	Publicity       PollPublicity
	Kind            PollKind
	MultipleAnswers bool
	Question        string
	Options         []PollOption
	IsClosed        bool
	// DeadlineTimeout is the auto-close period in seconds, when set.
	DeadlineTimeout *int
}

// Dice is an animated random-value emoji.
type Dice struct {
	Emoji string
	Value int
}

// Story references a story shared into the chat.
type Story struct {
	Peer PeerID
	ID   int
	// ViaMention is set when the story reached the chat via a mention.
	ViaMention bool
}

// Giveaway is a premium giveaway announcement.
type Giveaway struct {
	OnlyNewSubscribers bool
	Channels           []PeerID
	Countries          []string
	Quantity           int
	Months             int
	UntilDate          int
}

// Unsupported marks media the current wire layer cannot represent; clients
// prompt for an update.
type Unsupported struct{}

// ExpiredKind distinguishes what kind of content expired.
type ExpiredKind uint8

const (
	// ExpiredPhoto is an expired self-destructing photo.
	ExpiredPhoto ExpiredKind = iota
	// ExpiredFile is an expired self-destructing file.
	ExpiredFile
)

// ExpiredContent marks self-destructed media whose payload is gone.
type ExpiredContent struct {
	Kind ExpiredKind
}

// Action wraps a service action as a media value so service messages flow
// through the same classification path as content messages.
type Action struct {
	Action ServiceAction
}

func (Photo) isMedia()          {}
func (File) isMedia()           {}
func (Map) isMedia()            {}
func (Contact) isMedia()        {}
func (Webpage) isMedia()        {}
func (Game) isMedia()           {}
func (Invoice) isMedia()        {}
func (Poll) isMedia()           {}
func (Dice) isMedia()           {}
func (Story) isMedia()          {}
func (Giveaway) isMedia()       {}
func (Unsupported) isMedia()    {}
func (ExpiredContent) isMedia() {}
func (Action) isMedia()         {}
