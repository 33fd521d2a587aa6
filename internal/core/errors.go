package core

// errors.go maps technical errors to user-friendly messages with codes for
// support reference. Mapping is by error kind via errors.As, so wrapped
// errors resolve to the same code regardless of message wording.

import (
	"errors"
	"fmt"

	"github.com/datalens-app/datalens/internal/session"
	"github.com/datalens-app/datalens/internal/transform"
)

// UserMessage provides user-friendly error information with actionable
// guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// defaultMessage is returned when no kind matches (ERR000). Support staff
// should check application logs for the original technical error when users
// report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. The
// original error's text is kept as the message where it is already written
// for users (validation and type errors); the code identifies the category.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ve *transform.ValidationError
	if errors.As(err, &ve) {
		return UserMessage{
			Message: ve.Error(),
			Action:  "Adjust the parameters and try again",
			Code:    "VAL001",
		}
	}

	var te *transform.TypeError
	if errors.As(err, &te) {
		return UserMessage{
			Message: te.Error(),
			Action:  "Convert the column in the data-types step first",
			Code:    "TYP001",
		}
	}

	var nfe *transform.NotFoundError
	if errors.As(err, &nfe) {
		return UserMessage{
			Message: nfe.Error(),
			Action:  "Check the column name against the current dataset",
			Code:    "COL001",
		}
	}

	var pe *transform.ParseError
	if errors.As(err, &pe) {
		return UserMessage{
			Message: pe.Error(),
			Action:  "Upload a UTF-8 CSV file with a header row",
			Code:    "PAR001",
		}
	}

	if errors.Is(err, session.ErrNotFound) {
		return UserMessage{
			Message: "No dataset loaded for this session",
			Action:  "Upload a CSV file to begin",
			Code:    "SES001",
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display. The format
// is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether an error maps to a specific category rather
// than the generic ERR000 fallback. Use this to decide whether to surface
// the mapped message or just log the technical error.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
