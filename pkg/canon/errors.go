package canon

import "errors"

var (
	// ErrNilRawRecord indicates a nil raw message value, which is an
	// upstream contract violation rather than an expected absence.
	ErrNilRawRecord = errors.New("canon: nil raw message record")
	// ErrMessageNotFound indicates a storage lookup miss.
	ErrMessageNotFound = errors.New("canon: message not found")
	// ErrPeerNotFound indicates a peer lookup miss.
	ErrPeerNotFound = errors.New("canon: peer not found")
)
