package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrRunNotFound        = errors.New("verification run not found")
	ErrRunNotCompleted    = errors.New("verification run has not completed")
	ErrEmptyBatch         = errors.New("no claims supplied")
	ErrBatchTooLarge      = errors.New("too many claims in one batch")
	ErrInvalidClaims      = errors.New("stored claims do not match expected format")
	ErrArchiveUnavailable = errors.New("report archiving is not configured")
	ErrArchiveFailed      = errors.New("report upload to storage failed")
)
