package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.airtable.com/v0"
	maxPageSize    = 100
	maxErrorBody   = 2048
)

// Observer receives one call per upstream request. status is 0 when the
// request never produced a response.
type Observer func(op, table string, status int, elapsed time.Duration)

// ClientOptions configures the HTTP client.
type ClientOptions struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	GetRetries int
	HTTPClient *http.Client
	Observer   Observer
	Logger     *zap.Logger
}

// Client is a Store backed by the Airtable REST API.
type Client struct {
	baseURL    string
	token      string
	getRetries int
	http       *http.Client
	observe    Observer
	logger     *zap.Logger
}

// StatusError is returned when the store answers with a non-2xx status.
type StatusError struct {
	Op         string
	Table      string
	Status     int
	StatusText string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("airtable %s %s: %d %s", e.Op, e.Table, e.Status, e.StatusText)
}

// IsNotFound reports whether err is a 404 from the store.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// IsTimeout reports whether err came from a request deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// NewClient constructs a Client.
func NewClient(opts ClientOptions) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	retries := opts.GetRetries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL:    base,
		token:      opts.Token,
		getRetries: retries,
		http:       httpClient,
		observe:    opts.Observer,
		logger:     logger,
	}
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// List fetches every record matching q, following offset pagination.
func (c *Client) List(ctx context.Context, base, table string, q Query) ([]Record, error) {
	var (
		out    []Record
		offset string
	)
	for {
		params := url.Values{}
		if q.Filter != nil {
			if formula := q.Filter.Formula(); formula != "" {
				params.Set("filterByFormula", formula)
			}
		}
		for _, f := range q.Fields {
			params.Add("fields[]", f)
		}
		if q.MaxRecords > 0 {
			params.Set("maxRecords", strconv.Itoa(q.MaxRecords))
		}
		params.Set("pageSize", strconv.Itoa(maxPageSize))
		if offset != "" {
			params.Set("offset", offset)
		}

		var page listResponse
		if err := c.do(ctx, "list", http.MethodGet, c.tableURL(base, table, "")+"?"+params.Encode(), table, nil, &page); err != nil {
			return nil, err
		}
		out = append(out, page.Records...)
		if page.Offset == "" || (q.MaxRecords > 0 && len(out) >= q.MaxRecords) {
			break
		}
		offset = page.Offset
	}
	if q.MaxRecords > 0 && len(out) > q.MaxRecords {
		out = out[:q.MaxRecords]
	}
	return out, nil
}

// Create inserts a record.
func (c *Client) Create(ctx context.Context, base, table string, fields Fields) (Record, error) {
	var rec Record
	err := c.do(ctx, "create", http.MethodPost, c.tableURL(base, table, ""), table, map[string]any{"fields": fields, "typecast": true}, &rec)
	return rec, err
}

// Update patches the given fields of a record.
func (c *Client) Update(ctx context.Context, base, table, id string, fields Fields) (Record, error) {
	var rec Record
	err := c.do(ctx, "update", http.MethodPatch, c.tableURL(base, table, id), table, map[string]any{"fields": fields, "typecast": true}, &rec)
	return rec, err
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, base, table, id string) (DeleteResult, error) {
	var res DeleteResult
	err := c.do(ctx, "delete", http.MethodDelete, c.tableURL(base, table, id), table, nil, &res)
	return res, err
}

func (c *Client) tableURL(base, table, id string) string {
	u := c.baseURL + "/" + url.PathEscape(base) + "/" + url.PathEscape(table)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (c *Client) do(ctx context.Context, op, method, endpoint, table string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", op, err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.getRetries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		retry, err := c.once(ctx, op, method, endpoint, table, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || attempt == attempts || ctx.Err() != nil {
			break
		}
		c.logger.Warn("retrying record store read",
			zap.String("op", op),
			zap.String("table", table),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
		}
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, op, method, endpoint, table string, payload []byte, out any) (bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return false, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.report(op, table, 0, start)
		return ctx.Err() == nil, fmt.Errorf("airtable %s %s: %w", op, table, err)
	}
	defer resp.Body.Close()
	c.report(op, table, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retry, &StatusError{
			Op:         op,
			Table:      table,
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode %s response: %w", op, err)
	}
	return false, nil
}

func (c *Client) report(op, table string, status int, start time.Time) {
	if c.observe != nil {
		c.observe(op, table, status, time.Since(start))
	}
}
