package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/ddhhhkj/medichain-fixed/internal/httpx"
)

// Resolution modes reported by Client.Mode.
const (
	ModeHTTP = "http"
	ModeMock = "mock"
)

// VersionInfo is the daemon's version response, used as the liveness probe.
type VersionInfo struct {
	Version string `json:"Version"`
	Commit  string `json:"Commit"`
}

// Backend is the operation surface shared by the HTTP and simulated stores.
type Backend interface {
	Add(ctx context.Context, data []byte) (string, error)
	Cat(ctx context.Context, cid string) ([]byte, error)
	Version(ctx context.Context) (*VersionInfo, error)
}

// Client is the resolved content-store handle.
type Client struct {
	backend Backend
	mode    string
}

// New constructs an HTTP-backed client for an IPFS API endpoint.
func New(apiURL string, opts ...httpx.Option) (*Client, error) {
	cl, err := httpx.NewClient(apiURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("ipfs: init HTTP client: %w", err)
	}
	return NewWithHTTPClient(cl), nil
}

// NewWithHTTPClient wraps an existing httpx.Client.
func NewWithHTTPClient(cl *httpx.Client) *Client {
	return &Client{backend: &httpBackend{client: cl}, mode: ModeHTTP}
}

// NewWithBackend wraps a custom backend; used by tests.
func NewWithBackend(b Backend, mode string) *Client {
	return &Client{backend: b, mode: mode}
}

// Mode reports which backend variant is active ("http" or "mock").
func (c *Client) Mode() string {
	if c == nil {
		return ""
	}
	return c.mode
}

func (c *Client) ready() error {
	if c == nil || c.backend == nil {
		return fmt.Errorf("ipfs: client is nil")
	}
	return nil
}

// Add stores content and returns its content identifier.
func (c *Client) Add(ctx context.Context, r io.Reader) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("ipfs: read payload: %w", err)
	}
	return c.backend.Add(ctx, data)
}

// Cat retrieves the content stored under a CID.
func (c *Client) Cat(ctx context.Context, cid string) ([]byte, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cid) == "" {
		return nil, fmt.Errorf("ipfs: cid is required")
	}
	return c.backend.Cat(ctx, cid)
}

// Version queries the daemon version. It exists for the liveness probe and
// is not part of the surface the rest of the application consumes.
func (c *Client) Version(ctx context.Context) (*VersionInfo, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.backend.Version(ctx)
}

type httpBackend struct {
	client *httpx.Client
}

func (b *httpBackend) Add(ctx context.Context, data []byte) (string, error) {
	if b == nil || b.client == nil {
		return "", fmt.Errorf("ipfs: http backend not configured")
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "blob")
	if err != nil {
		return "", fmt.Errorf("ipfs: build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("ipfs: write form: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("ipfs: close form: %w", err)
	}

	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodPost,
		Path:   "api/v0/add",
		Header: http.Header{"Content-Type": []string{form.FormDataContentType()}},
		Body:   buf.Bytes(),
	})
	if err != nil {
		return "", err
	}
	payload, err := httpx.ReadAllAndClose(resp.Body)
	if err != nil {
		return "", err
	}
	var result struct {
		Hash string `json:"Hash"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", fmt.Errorf("ipfs: decode add response: %w", err)
	}
	if strings.TrimSpace(result.Hash) == "" {
		return "", fmt.Errorf("ipfs: missing hash in add response")
	}
	return result.Hash, nil
}

func (b *httpBackend) Cat(ctx context.Context, cid string) ([]byte, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("ipfs: http backend not configured")
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodPost,
		Path:   "api/v0/cat",
		Query:  url.Values{"arg": {cid}},
	})
	if err != nil {
		return nil, err
	}
	return httpx.ReadAllAndClose(resp.Body)
}

// Version issues a single un-retried request so probe failures surface
// within the resolver's timeout bound.
func (b *httpBackend) Version(ctx context.Context) (*VersionInfo, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("ipfs: http backend not configured")
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method:       http.MethodPost,
		Path:         "api/v0/version",
		DisableRetry: true,
	})
	if err != nil {
		return nil, err
	}
	payload, err := httpx.ReadAllAndClose(resp.Body)
	if err != nil {
		return nil, err
	}
	var info VersionInfo
	if err := json.Unmarshal(payload, &info); err != nil {
		return nil, fmt.Errorf("ipfs: decode version response: %w", err)
	}
	if info.Version == "" {
		return nil, fmt.Errorf("ipfs: missing version in response")
	}
	return &info, nil
}
