package f360

import (
	"errors"
	"fmt"
)

var (
	// ErrReportFailed means the ERP reported a terminal processing error
	// for a report handle. Retrying the same handle is pointless.
	ErrReportFailed = errors.New("f360: report processing failed")

	// ErrReportTimeout means the polling budget ran out before the report
	// became ready or failed.
	ErrReportTimeout = errors.New("f360: report not ready within polling budget")
)

// AuthenticationError is returned when the login endpoint rejects the
// shared credential.
type AuthenticationError struct {
	Status int
	Body   string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("f360: login rejected: status %d: %s", e.Status, e.Body)
}

// FormatError is returned when a downloaded report body has an
// unexpected shape.
type FormatError struct {
	Detail string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("f360: unexpected report body: %s", e.Detail)
}

// excerpt trims a response body for inclusion in error messages.
func excerpt(b []byte) string {
	const max = 200

	s := string(b)
	if len(s) > max {
		return s[:max] + "..."
	}

	return s
}
