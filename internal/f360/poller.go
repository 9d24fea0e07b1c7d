package f360

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// downloadError is a failed retrieval attempt. The ERP reports report
// status only through the text of this failure, never through a
// dedicated endpoint.
type downloadError struct {
	status  int
	message string
}

func (e *downloadError) Error() string {
	if e.status == 0 {
		return e.message
	}

	return fmt.Sprintf("status %d: %s", e.status, e.message)
}

type downloadStatus int

const (
	statusPending downloadStatus = iota
	statusFailed
	statusUnknown
)

// classifyDownloadStatus maps the ERP's error text onto a report status.
// Isolated here so a real status endpoint can replace the substring
// matching without touching AwaitReport.
func classifyDownloadStatus(msg string) downloadStatus {
	switch {
	case strings.Contains(msg, "status 'Aguardando'"),
		strings.Contains(msg, "status 'Processando'"):
		return statusPending
	case strings.Contains(msg, "status 'Erro'"):
		return statusFailed
	default:
		return statusUnknown
	}
}

// AwaitReport polls the download endpoint until the report is ready,
// the ERP reports a terminal error, or the attempt budget runs out.
// Unclassifiable failures (404s, transient network errors) are treated
// as still pending.
func (c *Client) AwaitReport(ctx context.Context, h ReportHandle) ([]RawRow, error) {
	for attempt := 1; attempt <= c.pollAttempts; attempt++ {
		rows, err := c.download(ctx, h)
		if err == nil {
			return rows, nil
		}

		var fe *FormatError
		if errors.As(err, &fe) {
			return nil, err
		}

		var de *downloadError
		if !errors.As(err, &de) {
			// Auth and request-construction failures are not
			// retryable at this layer.
			return nil, err
		}

		switch classifyDownloadStatus(de.message) {
		case statusFailed:
			return nil, fmt.Errorf("%w: %s", ErrReportFailed, de.message)
		case statusPending, statusUnknown:
		}

		if attempt == c.pollAttempts {
			break
		}

		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrReportTimeout, c.pollAttempts)
}
