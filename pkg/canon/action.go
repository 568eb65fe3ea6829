package canon

// ServiceAction is one canonical service-message action. Closed sum; wire
// actions outside this set are dropped as forward-compatibility noise and
// the service message is assembled without media.
type ServiceAction interface {
	isServiceAction()
}

// CallDiscardReason explains why a phone call ended.
type CallDiscardReason string

const (
	// CallDiscardMissed means the callee never answered.
	CallDiscardMissed CallDiscardReason = "missed"
	// CallDiscardDisconnect means the connection dropped.
	CallDiscardDisconnect CallDiscardReason = "disconnect"
	// CallDiscardHangup means a participant hung up.
	CallDiscardHangup CallDiscardReason = "hangup"
	// CallDiscardBusy means the callee was busy.
	CallDiscardBusy CallDiscardReason = "busy"
	// CallDiscardUnknown covers reasons newer than this layer.
	CallDiscardUnknown CallDiscardReason = "unknown"
)

// PhoneCall records a one-to-one call.
type PhoneCall struct {
	Video    bool
	CallID   int64
	Duration *int
	// DiscardReason is empty while the call is ongoing.
	DiscardReason CallDiscardReason
}

// TopicCreate opens a new forum topic.
type TopicCreate struct {
	Title       string
	IconColor   int
	IconEmojiID *int64
}

// TopicEdit changes forum topic properties; nil fields were untouched.
type TopicEdit struct {
	Title       *string
	IconEmojiID *int64
	Closed      *bool
	Hidden      *bool
}

// GroupCreated records legacy group creation.
type GroupCreated struct {
	Title string
	Users []PeerID
}

// ChannelCreated records channel creation.
type ChannelCreated struct {
	Title string
}

// AddedMembers records members added to a group.
type AddedMembers struct {
	Users []PeerID
}

// RemovedMember records a member removal (or self-leave).
type RemovedMember struct {
	User PeerID
}

// JoinedByLink records a join via invite link.
type JoinedByLink struct {
	Inviter PeerID
}

// JoinedByRequest records an approved join request.
type JoinedByRequest struct{}

// TitleUpdated records a chat title change.
type TitleUpdated struct {
	Title string
}

// PhotoUpdated records a chat photo change.
type PhotoUpdated struct{}

// PhotoDeleted records a chat photo removal.
type PhotoDeleted struct{}

// PinnedMessage records that the replied-to message was pinned.
type PinnedMessage struct{}

// HistoryCleared records a history clear.
type HistoryCleared struct{}

// ScreenshotTaken records a chat screenshot notification.
type ScreenshotTaken struct{}

// GameScore records a game score update.
type GameScore struct {
	GameID int64
	Score  int
}

// PaymentSent records a completed payment.
type PaymentSent struct {
	Currency    string
	TotalAmount int64
}

// ContactSignUp records a contact joining the platform.
type ContactSignUp struct{}

// GeoProximityReached records a live-location proximity alert.
type GeoProximityReached struct {
	From     PeerID
	To       PeerID
	Distance int
}

// GroupPhoneCall records a group call start or end.
type GroupPhoneCall struct {
	Duration *int
}

// InviteToGroupCall records group call invitations.
type InviteToGroupCall struct {
	Users []PeerID
}

// AutoremoveTimeoutUpdated records a chat auto-delete timer change.
type AutoremoveTimeoutUpdated struct {
	// Period is in seconds; zero disables the timer.
	Period int
}

// ChatThemeUpdated records a chat theme change.
type ChatThemeUpdated struct {
	Emoji string
}

// GiftedPremium records a premium subscription gift.
type GiftedPremium struct {
	Currency string
	Amount   int64
	Months   int
}

// GiftCode records a premium gift code delivery.
type GiftCode struct {
	BoostPeer   *PeerID
	Months      int
	Slug        string
	ViaGiveaway bool
}

// GiveawayLaunched records a giveaway launch.
type GiveawayLaunched struct{}

// RequestedPeers records peers shared via a request-peer button.
type RequestedPeers struct {
	ButtonID int
	Peers    []PeerID
}

// MigratedTo records a legacy group upgrading into a channel.
type MigratedTo struct {
	Channel PeerID
}

// MigratedFrom records the channel side of a group migration.
type MigratedFrom struct {
	Title string
	Group PeerID
}

// Custom is a free-text service message from a bot.
type Custom struct {
	Text string
}

func (PhoneCall) isServiceAction()                {}
func (TopicCreate) isServiceAction()              {}
func (TopicEdit) isServiceAction()                {}
func (GroupCreated) isServiceAction()             {}
func (ChannelCreated) isServiceAction()           {}
func (AddedMembers) isServiceAction()             {}
func (RemovedMember) isServiceAction()            {}
func (JoinedByLink) isServiceAction()             {}
func (JoinedByRequest) isServiceAction()          {}
func (TitleUpdated) isServiceAction()             {}
func (PhotoUpdated) isServiceAction()             {}
func (PhotoDeleted) isServiceAction()             {}
func (PinnedMessage) isServiceAction()            {}
func (HistoryCleared) isServiceAction()           {}
func (ScreenshotTaken) isServiceAction()          {}
func (GameScore) isServiceAction()                {}
func (PaymentSent) isServiceAction()              {}
func (ContactSignUp) isServiceAction()            {}
func (GeoProximityReached) isServiceAction()      {}
func (GroupPhoneCall) isServiceAction()           {}
func (InviteToGroupCall) isServiceAction()        {}
func (AutoremoveTimeoutUpdated) isServiceAction() {}
func (ChatThemeUpdated) isServiceAction()         {}
func (GiftedPremium) isServiceAction()            {}
func (GiftCode) isServiceAction()                 {}
func (GiveawayLaunched) isServiceAction()         {}
func (RequestedPeers) isServiceAction()           {}
func (MigratedTo) isServiceAction()               {}
func (MigratedFrom) isServiceAction()             {}
func (Custom) isServiceAction()                   {}
