package domain

import "errors"

var (
	// Common domain errors
	ErrStatusNotFound  = errors.New("application not found")
	ErrUpstream        = errors.New("upstream service failure")
	ErrDelivery        = errors.New("message delivery failed")
	ErrEmptyCompletion = errors.New("text generation returned no content")
	ErrChatBusy        = errors.New("chat is busy")
)
