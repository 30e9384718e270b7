package sift

import "errors"

var (
	// ErrSessionClosed is returned by operations on a closed Session.
	ErrSessionClosed = errors.New("session is closed")

	// ErrHistoryDisabled is returned by history operations when the session
	// was created without a history repository.
	ErrHistoryDisabled = errors.New("query history is not enabled")
)
