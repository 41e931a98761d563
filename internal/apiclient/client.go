// Package apiclient is the single point of HTTP communication with the
// storefront REST backend.
//
// Every JSON endpoint answers with a {data, message} envelope. Calls decode
// data into the caller's value and hand back message. The bearer token is
// read from storage on each request, so a login or logout takes effect on
// the next call.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"ecomstore/internal/storage"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultTimeout = 30 * time.Second

type Client struct {
	baseURL        string
	httpClient     *http.Client
	store          storage.Storage
	logger         zerolog.Logger
	onUnauthorized func(ctx context.Context)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUnauthorizedHandler registers fn to run when an authenticated call is
// rejected with 401 or 403.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

func New(baseURL string, store storage.Storage, logger zerolog.Logger, opts ...Option) (*Client, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("apiclient: storage is required")
	}

	c := &Client{
		baseURL: normalized,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		store:  store,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetUnauthorizedHandler replaces the hook after construction, for wiring
// stores that themselves depend on the client.
func (c *Client) SetUnauthorizedHandler(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimRight(raw, "/")
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base url %q: scheme and host are required", raw)
	}
	return raw, nil
}

// AuthHeaders returns the headers a JSON call would carry right now.
func (c *Client) AuthHeaders(ctx context.Context) (http.Header, error) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")

	token, ok, err := c.store.Get(ctx, storage.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	if ok && token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h, nil
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) (string, error) {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) (string, error) {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) (string, error) {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) (string, error) {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

// FilePart is one file of a multipart upload.
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
}

// PostMultipart uploads parts as multipart/form-data. The multipart
// content type replaces the JSON default.
func (c *Client) PostMultipart(ctx context.Context, path string, parts []FilePart, out interface{}) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(p.FieldName), escapeQuotes(p.FileName)))
		ct := p.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		pw, err := w.CreatePart(h)
		if err != nil {
			return "", fmt.Errorf("failed to build multipart body: %w", err)
		}
		if _, err := pw.Write(p.Data); err != nil {
			return "", fmt.Errorf("failed to build multipart body: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, &buf, w.FormDataContentType())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	return decodeEnvelope(resp, out)
}

// Document is a downloaded binary such as an order PDF.
type Document struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Download fetches a binary body. The file name comes from
// Content-Disposition, else fallbackName.
func (c *Client) Download(ctx context.Context, path, fallbackName string) (*Document, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: "Network error", Err: err}
	}

	doc := &Document{
		FileName:    fallbackName,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			doc.FileName = params["filename"]
		}
	}
	return doc, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) (string, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	resp, err := c.do(ctx, method, path, reader, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	return decodeEnvelope(resp, out)
}

// do sends the request and turns transport failures and non-2xx answers
// into *APIError. On success the caller owns resp.Body.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	headers, err := c.AuthHeaders(ctx)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+ensureLeadingSlash(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = headers

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("Backend request failed")
		return nil, &APIError{Message: "Network error", Err: err}
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Backend request completed")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("Request failed with status %d", resp.StatusCode),
	}
	var payload struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	}

	if IsUnauthorized(apiErr) && headers.Get("Authorization") != "" && c.onUnauthorized != nil {
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("Backend rejected session token")
		c.onUnauthorized(ctx)
	}
	return nil, apiErr
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(resp *http.Response, out interface{}) (string, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &APIError{Message: "Network error", Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env.Message, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return env.Message, nil
}

func ensureLeadingSlash(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
