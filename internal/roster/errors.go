package roster

// errors.go defines the ingestion error taxonomy and user-facing messages.
//
// Format errors are fatal to an ingestion attempt and reject the whole
// file: empty file, header-only file, missing required column, unsupported
// file type. Row-level skips are never errors; they are counted in the
// IngestResult. Not-found outcomes on store operations are booleans, not
// errors. Save and file-read failures are wrapped by callers and stay
// distinguishable from format errors so the operator can retry without
// re-parsing.

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyFile is returned when the input contains no rows at all.
	ErrEmptyFile = errors.New("empty file")

	// ErrNoDataRows is returned when the input has a header but no data rows.
	ErrNoDataRows = errors.New("no data rows after header")

	// ErrUnsupportedFormat is returned for file types the engine does not accept.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// MissingColumnError reports a required semantic field with no matching
// header column.
type MissingColumnError struct {
	Field string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column not found: %s", e.Field)
}

// UserMessage is a user-friendly error with a stable support code.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

// errorPatterns maps substrings of technical errors to user messages.
// First match wins. Codes are grouped: FILE for format errors, VAL for
// column detection, ROW for record lookups, SAVE for persistence.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a file with a header row and at least one participant",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no data rows",
		msg: UserMessage{
			Message: "The file contains only a header row",
			Action:  "Add participant rows below the header and upload again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "This file type is not supported",
			Action:  "Upload a .csv file, or decode spreadsheets before submitting",
			Code:    "FILE003",
		},
	},
	{
		pattern: "required column not found",
		msg: UserMessage{
			Message: "A required column is missing",
			Action:  "The file must contain name and email columns",
			Code:    "VAL001",
		},
	},
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "The participant no longer exists",
			Action:  "Refresh the roster and try again",
			Code:    "ROW001",
		},
	},
	{
		pattern: "save snapshot",
		msg: UserMessage{
			Message: "The roster could not be saved",
			Action:  "The roster is unchanged; try saving again",
			Code:    "SAVE001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "REQ002",
		},
	},
}

// defaultMessage is the fallback for errors with no known pattern.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches the known patterns case-insensitively and returns the first
// match, or the generic ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
