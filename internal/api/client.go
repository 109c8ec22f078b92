// Package api is the typed HTTP client for the remote quote service. Every
// endpoint decodes into an explicit result type at this boundary; nothing
// duck-typed leaks past it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ba4b0d/printquote/internal/catalog"
	"github.com/ba4b0d/printquote/internal/quote"
	"github.com/ba4b0d/printquote/internal/session"
)

// ErrUnauthorized marks an invalid or expired credential detected by the
// identity check.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx response from the service, carrying the
// server-provided message verbatim when one was present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client calls the quote service. The zero value is not usable; construct
// with New.
type Client struct {
	baseURL string
	http    *http.Client
	creds   session.Store
	log     *slog.Logger
}

// New creates a client for the service at baseURL. The credential store
// supplies the bearer token for authenticated endpoints; it may be empty
// for public calls.
func New(baseURL string, creds session.Store, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		creds:   creds,
		log:     logger,
	}
}

// do executes one request, logs it for diagnostics, and maps non-2xx
// responses to *Error. The diagnostics never affect control flow.
func (c *Client) do(req *http.Request, out any) error {
	if cred, ok := c.creds.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api call failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("api call", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: serverMessage(body)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}

// serverMessage extracts a human-readable message from an error body. The
// service wraps messages in {"detail": ...}; anything else is used as-is.
func serverMessage(body []byte) string {
	var wrapped struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Detail != "" {
		return wrapped.Detail
	}
	return strings.TrimSpace(string(body))
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// Health probes the service. Used at startup so a dead backend surfaces as
// a catalog load failure right away.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.get(ctx, "/health", &out); err != nil {
		return err
	}
	if !out.OK {
		return errors.New("service reported not ok")
	}
	return nil
}

// MaterialGroups fetches the raw material taxonomy.
func (c *Client) MaterialGroups(ctx context.Context) ([]catalog.MaterialGroup, error) {
	var out struct {
		MaterialGroups []catalog.MaterialGroup `json:"material_groups"`
	}
	if err := c.get(ctx, "/material-groups", &out); err != nil {
		return nil, err
	}
	return out.MaterialGroups, nil
}

// Machines fetches the printers offered by the shop.
func (c *Client) Machines(ctx context.Context) ([]quote.Machine, error) {
	var out []quote.Machine
	if err := c.get(ctx, "/machines", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EstimateUpload is the multipart payload of the estimate call.
type EstimateUpload struct {
	FileName   string
	File       io.Reader
	MaterialID string
	Quality    string // draft | normal | fine
}

// Estimate uploads a model file and returns per-unit mass/duration figures
// for exactly one printed object.
func (c *Client) Estimate(ctx context.Context, up EstimateUpload) (quote.Estimate, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", up.FileName)
	if err != nil {
		return quote.Estimate{}, err
	}
	if _, err := io.Copy(part, up.File); err != nil {
		return quote.Estimate{}, err
	}
	if err := w.WriteField("material_id", up.MaterialID); err != nil {
		return quote.Estimate{}, err
	}
	quality := up.Quality
	if quality == "" {
		quality = "normal"
	}
	if err := w.WriteField("quality", quality); err != nil {
		return quote.Estimate{}, err
	}
	if err := w.Close(); err != nil {
		return quote.Estimate{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/estimate", &buf)
	if err != nil {
		return quote.Estimate{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out quote.Estimate
	if err := c.do(req, &out); err != nil {
		return quote.Estimate{}, err
	}
	return out, nil
}

// Quote prices a request and returns the full cost breakdown.
func (c *Client) Quote(ctx context.Context, req quote.Request) (quote.Breakdown, error) {
	var out quote.Breakdown
	if err := c.postJSON(ctx, "/quote", req, &out); err != nil {
		return quote.Breakdown{}, err
	}
	return out, nil
}

// Login exchanges credentials for a token. A non-2xx response means the
// credentials were rejected.
func (c *Client) Login(ctx context.Context, username, password string) (session.Credential, error) {
	in := map[string]string{"username": username, "password": password}
	var cred session.Credential
	if err := c.postJSON(ctx, "/auth/login", in, &cred); err != nil {
		return session.Credential{}, err
	}
	if cred.Token == "" {
		return session.Credential{}, errors.New("login response missing access_token")
	}
	return cred, nil
}

// Me validates the stored credential. Any non-2xx response is reported as
// ErrUnauthorized so callers force a logout.
func (c *Client) Me(ctx context.Context) error {
	err := c.get(ctx, "/auth/me", nil)
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return ErrUnauthorized
	}
	return err
}

// AdminConfig fetches the remote shop configuration as opaque JSON.
func (c *Client) AdminConfig(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.get(ctx, "/admin/config", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PutAdminConfig replaces the remote shop configuration. The content is not
// interpreted client-side beyond being valid JSON.
func (c *Client) PutAdminConfig(ctx context.Context, cfg json.RawMessage) error {
	if !json.Valid(cfg) {
		return errors.New("config is not valid JSON")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/admin/config", bytes.NewReader(cfg))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}
