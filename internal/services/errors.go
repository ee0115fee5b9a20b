// Package services defines the application logic that sits between the HTTP
// transport and the corpus/search packages. This file centralizes the
// service-level error values so callers can branch on them with errors.Is.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrTalkNotFound indicates that no talk with the requested identifier
	// exists in the loaded corpus.
	ErrTalkNotFound = errors.New("talk not found")

	// ErrQueryTooLong is returned when a search query exceeds the configured
	// maximum length in runes.
	ErrQueryTooLong = errors.New("query too long")

	// ErrCorpusUnavailable is returned by lookups that need the corpus when
	// it could not be loaded. Search never returns it; it degrades to an
	// empty result instead.
	ErrCorpusUnavailable = errors.New("corpus unavailable")
)
