package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/edupredict/edupredict/internal/listview"
	"github.com/edupredict/edupredict/internal/logging"
)

// DefaultTimeout bounds each request when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

const (
	headerRequestID = "X-Request-ID"
	headerTraceID   = "X-Trace-ID"
	loginPath       = "/auth/login"
)

// TokenSource supplies the Authorization header value; "" sends no header.
type TokenSource interface {
	Token() string
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Tokens may be nil for unauthenticated use (login, health).
	Tokens TokenSource
	// OnUnauthorized runs when an authenticated request gets a 401.
	OnUnauthorized func(ctx context.Context)
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client is the EduPredict REST client. It is safe for concurrent use.
type Client struct {
	rc             *resty.Client
	baseURL        string
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
}

// New creates a client for opts.BaseURL.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, ErrEmptyBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}

	c := &Client{
		rc:             rc,
		baseURL:        base,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
	}
	rc.OnBeforeRequest(c.decorate)
	rc.OnAfterResponse(logResponse)
	return c, nil
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// decorate stamps request and trace IDs and the Authorization header.
func (c *Client) decorate(_ *resty.Client, r *resty.Request) error {
	ctx := r.Context()
	r.SetHeader(headerRequestID, logging.NewTraceID())
	if traceID := logging.TraceIDFromContext(ctx); traceID != "" {
		r.SetHeader(headerTraceID, traceID)
	}
	if c.tokens != nil && r.URL != loginPath {
		if tok := c.tokens.Token(); tok != "" {
			r.SetHeader("Authorization", tok)
		}
	}
	return nil
}

func logResponse(_ *resty.Client, resp *resty.Response) error {
	ctx := resp.Request.Context()
	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("component", "api").
		Str("method", resp.Request.Method).
		Str("path", resp.Request.URL).
		Int("status", resp.StatusCode()).
		Dur("duration", resp.Time()).
		Str("request_id", resp.Request.Header.Get(headerRequestID)).
		Msg("api response")
	return nil
}

// request starts a request bound to ctx.
func (c *Client) request(ctx context.Context) *resty.Request {
	return c.rc.R().SetContext(ctx)
}

// send executes req and returns the body of a 2xx response.
func (c *Client) send(ctx context.Context, req *resty.Request, method, path string) ([]byte, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		statusErr := &StatusError{
			StatusCode: resp.StatusCode(),
			Method:     method,
			Path:       path,
			Detail:     parseDetail(resp.Body()),
		}
		if resp.StatusCode() == http.StatusUnauthorized && path != loginPath && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return nil, statusErr
	}
	return resp.Body(), nil
}

// getJSON performs a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, query map[string]string, out any) error {
	body, err := c.send(ctx, c.request(ctx).SetQueryParams(query), http.MethodGet, path)
	if err != nil {
		return err
	}
	return decodeJSON(body, out, path)
}

// sendJSON performs a request with a JSON body and decodes the reply into out
// when out is non-nil.
func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	req := c.request(ctx)
	if in != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(in)
	}
	body, err := c.send(ctx, req, method, path)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return decodeJSON(body, out, path)
}

// listPage fetches one page of a list endpoint as records.
func (c *Client) listPage(ctx context.Context, path string, req listview.PageRequest) ([]listview.Record, error) {
	query := map[string]string{
		"skip":  strconv.Itoa(req.Skip()),
		"limit": strconv.Itoa(req.Limit()),
	}
	body, err := c.send(ctx, c.request(ctx).SetQueryParams(query), http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	return decodeRecords(body, path)
}

// listAll fetches a list endpoint that returns every row in one response.
func (c *Client) listAll(ctx context.Context, path string) ([]listview.Record, error) {
	body, err := c.send(ctx, c.request(ctx), http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	return decodeRecords(body, path)
}

func decodeJSON(body []byte, out any, path string) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// listEnvelopes are the keys under which some endpoints nest their rows.
//
//nolint:gochecknoglobals // static lookup order
var listEnvelopes = []string{"items", "data", "results"}

// decodeRecords decodes a JSON array of objects, or an object wrapping one
// under a known envelope key. Numbers are kept as json.Number.
func decodeRecords(body []byte, path string) ([]listview.Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decoding %s response: invalid JSON", path)
	}
	root := gjson.ParseBytes(body)
	if root.IsObject() {
		for _, key := range listEnvelopes {
			if v := root.Get(key); v.IsArray() {
				root = v
				break
			}
		}
	}
	if !root.IsArray() {
		return nil, fmt.Errorf("decoding %s response: expected a list", path)
	}

	records := make([]listview.Record, 0, len(root.Array()))
	if err := decodeJSON([]byte(root.Raw), &records, path); err != nil {
		return nil, err
	}
	return records, nil
}
