// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package models

import (
	"errors"
	"fmt"
)

// Kind classifies controller errors.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindService
	KindNetwork
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindService:
		return "service"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against any *Error of the same kind.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrService    = errors.New("service error")
	ErrNetwork    = errors.New("network error")
)

// Error is a classified controller error. Message is user-facing.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error

	// Suggestions lists close catalog titles for not-found errors.
	Suggestions []string
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindService:
		return ErrService
	case KindNetwork:
		return ErrNetwork
	default:
		return nil
	}
}

// NewValidationError reports bad user input.
func NewValidationError(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// NewNotFoundError reports a title absent from the catalog.
func NewNotFoundError(op, message string, suggestions []string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: message, Suggestions: suggestions}
}

// NewServiceError reports a non-OK or error-payload answer from the remote service.
func NewServiceError(op, message string, err error) *Error {
	return &Error{Kind: KindService, Op: op, Message: message, Err: err}
}

// NewNetworkError reports a transport failure reaching the remote service.
func NewNetworkError(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Message: "recommender unreachable", Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// UserMessage returns the message to show for err.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
