package service

import "errors"

var (
	ErrUnknownEndpoint = errors.New("unknown endpoint")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrClearInHistory  = errors.New("clear event cannot be stored in draw history")
)
