// Package handlers defines the HTTP error codes used across API endpoints.
//
// Codes are stable, lowercase snake_case strings returned in the `code` field
// of the error envelope (see response.go). Clients branch on them instead of
// parsing messages.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "query_too_long",
//	  "message": "query must be at most 512 characters"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeQueryTooLong      = "query_too_long"
	ErrCodeCorpusUnavailable = "corpus_unavailable"
)
