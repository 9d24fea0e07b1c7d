package f360

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	defaultTokenTTL     = time.Hour
	defaultTokenMargin  = 5 * time.Minute
	defaultPollAttempts = 30
	defaultPollInterval = 5 * time.Second
)

// Config carries the client's credential and tunables. Zero-valued
// durations and counts fall back to the defaults above.
type Config struct {
	BaseURL      string
	LoginToken   string
	TokenTTL     time.Duration
	TokenMargin  time.Duration
	PollAttempts int
	PollInterval time.Duration
	HTTPClient   *http.Client
}

// Client talks to the F360 public API. The bearer token obtained from
// DoLogin is cached and refreshed before it expires; access is
// mutex-guarded so a future parallel caller cannot trigger redundant
// logins.
type Client struct {
	baseURL      string
	loginToken   string
	httpc        *http.Client
	tokenTTL     time.Duration
	tokenMargin  time.Duration
	pollAttempts int
	pollInterval time.Duration

	// Injectable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu        sync.Mutex
	bearer    string
	bearerExp time.Time
}

func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:      cfg.BaseURL,
		loginToken:   cfg.LoginToken,
		httpc:        cfg.HTTPClient,
		tokenTTL:     cfg.TokenTTL,
		tokenMargin:  cfg.TokenMargin,
		pollAttempts: cfg.PollAttempts,
		pollInterval: cfg.PollInterval,
		now:          time.Now,
		sleep:        sleepCtx,
	}

	if c.httpc == nil {
		c.httpc = &http.Client{Timeout: 30 * time.Second}
	}

	if c.tokenTTL <= 0 {
		c.tokenTTL = defaultTokenTTL
	}

	if c.tokenMargin <= 0 {
		c.tokenMargin = defaultTokenMargin
	}

	if c.pollAttempts <= 0 {
		c.pollAttempts = defaultPollAttempts
	}

	if c.pollInterval <= 0 {
		c.pollInterval = defaultPollInterval
	}

	return c
}

// Token returns a valid bearer token, logging in only when the cached
// one is missing or within the safety margin of its expiry.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bearer != "" && c.now().Add(c.tokenMargin).Before(c.bearerExp) {
		return c.bearer, nil
	}

	bearer, err := c.login(ctx)
	if err != nil {
		return "", err
	}

	c.bearer = bearer
	c.bearerExp = c.now().Add(c.tokenTTL)

	return bearer, nil
}

func (c *Client) login(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{"token": c.loginToken})
	if err != nil {
		return "", fmt.Errorf("encoding login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/PublicLoginAPI/DoLogin", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating login request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing login request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading login response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &AuthenticationError{Status: resp.StatusCode, Body: excerpt(respBody)}
	}

	var out struct {
		Token string `json:"Token"`
	}

	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decoding login response: %w", err)
	}

	if out.Token == "" {
		return "", &AuthenticationError{Status: resp.StatusCode, Body: "empty token in response"}
	}

	return out.Token, nil
}

// RequestReport asks the ERP to generate a managerial report for the
// given range. A zero handle (no error) means the ERP had nothing to
// generate and callers should treat the report as empty.
func (c *Client) RequestReport(ctx context.Context, r ReportRequest) (ReportHandle, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return ReportHandle{}, err
	}

	cnpjs := r.CNPJs
	if cnpjs == nil {
		cnpjs = []string{}
	}

	payload := map[string]any{
		"DataInicio":        r.Start.Format(time.DateOnly),
		"DataFim":           r.End.Format(time.DateOnly),
		"ModeloContabil":    accountingModel,
		"ModeloRelatorio":   reportModel,
		"Formato":           outputFormat,
		"CNPJs":             cnpjs,
		"EnviarNotificacao": false,
		"EnviarParaWebhook": false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ReportHandle{}, fmt.Errorf("encoding report request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/PublicRelatorioAPI/GerarRelatorio", bytes.NewReader(body))
	if err != nil {
		return ReportHandle{}, fmt.Errorf("creating report request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return ReportHandle{}, fmt.Errorf("executing report request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ReportHandle{}, fmt.Errorf("reading report response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ReportHandle{}, fmt.Errorf("requesting report: status %d: %s", resp.StatusCode, excerpt(respBody))
	}

	var out struct {
		Result string `json:"Result"`
	}

	if err := json.Unmarshal(respBody, &out); err != nil {
		return ReportHandle{}, fmt.Errorf("decoding report response: %w", err)
	}

	return ReportHandle{ID: out.Result}, nil
}

// download performs one retrieval attempt. A non-2xx response becomes a
// downloadError so the poller can classify the ERP's status message.
func (c *Client) download(ctx context.Context, h ReportHandle) ([]RawRow, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + "/PublicRelatorioAPI/Download?id=" + url.QueryEscape(h.ID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating download request: %w", err)
	}

	req.Header.Set("Authorization", token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &downloadError{message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &downloadError{message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &downloadError{status: resp.StatusCode, message: excerpt(respBody)}
	}

	return decodeReportBody(respBody)
}

// decodeReportBody accepts a row array or a bare row object (wrapped
// into a one-element slice). Anything else is a FormatError.
func decodeReportBody(body []byte) ([]RawRow, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &FormatError{Detail: "empty body"}
	}

	switch trimmed[0] {
	case '[':
		var rows []RawRow
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, &FormatError{Detail: err.Error()}
		}

		return rows, nil
	case '{':
		var row RawRow
		if err := json.Unmarshal(trimmed, &row); err != nil {
			return nil, &FormatError{Detail: err.Error()}
		}

		return []RawRow{row}, nil
	default:
		return nil, &FormatError{Detail: fmt.Sprintf("body starts with %q, want array or object", trimmed[0])}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
