// Package errors provides standardized error handling for the matching pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeProfileNotFound      ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeProfileLoadFailed    ErrorCode = "PROFILE_LOAD_FAILED"
	ErrCodeCandidateFetchFailed ErrorCode = "CANDIDATE_FETCH_FAILED"
	ErrCodeMatchPersistFailed   ErrorCode = "MATCH_PERSIST_FAILED"
	ErrCodeRefreshStampFailed   ErrorCode = "REFRESH_STAMP_FAILED"
	ErrCodeCleanupFailed        ErrorCode = "CLEANUP_FAILED"
	ErrCodeInvalidPartition     ErrorCode = "INVALID_PARTITION"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf extracts the error code from err, or "" if err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// NewProfileNotFoundError creates a non-retryable missing profile error.
func NewProfileNotFoundError(profileID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileNotFound,
		Message:   "Profile not found",
		Details:   fmt.Sprintf("profileId: %s", profileID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileLoadFailedError creates a retryable profile read error.
func NewProfileLoadFailedError(profileID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileLoadFailed,
		Message:   "Database error while loading profile",
		Details:   fmt.Sprintf("profileId: %s, error: %s", profileID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCandidateFetchFailedError creates a retryable candidate query error.
func NewCandidateFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCandidateFetchFailed,
		Message:   "Database error while fetching subsidy candidates",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMatchPersistFailedError creates a retryable match insert error. Per-chunk
// persistence failures are logged and skipped, so this surfaces only from the
// caller's decision to treat the whole write as failed.
func NewMatchPersistFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatchPersistFailed,
		Message:   "Database error while persisting matches",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRefreshStampFailedError creates a retryable refresh timestamp error.
func NewRefreshStampFailedError(profileID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRefreshStampFailed,
		Message:   "Database error while stamping refresh timestamp",
		Details:   fmt.Sprintf("profileId: %s, error: %s", profileID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCleanupFailedError creates a non-fatal cleanup error; callers log it and
// continue.
func NewCleanupFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCleanupFailed,
		Message:   "Expired match cleanup failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPartitionError creates a non-retryable partition argument error.
func NewInvalidPartitionError(value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPartition,
		Message:   "Partition must be 0..6 or \"auto\"",
		Details:   fmt.Sprintf("partition: %s", value),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
