// Package client is a thin client for the Figma REST API. It fetches files
// and node subtrees, simplifies them into a compact design description, and
// resolves rendered node images.
//
// Every operation performs its request(s) exactly once: there is no retry,
// no caching and no batching. A Client holds only immutable configuration and
// is safe for concurrent use.
//
// Failures talking to Figma are *figma.Error values (remote, transport or not
// found). A 2xx body that cannot be decoded, and any error returned by a
// transformer, are passed through untagged: figma.AsError reports false for
// them.
package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hyp3rd/ewrap"

	"github.com/kataras/figma-context/pkg/figma"
	"github.com/kataras/figma-context/pkg/simplify"
)

const (
	// DefaultBaseURL is the Figma REST API endpoint.
	DefaultBaseURL = "https://api.figma.com/v1"
	// DefaultDebugDir is where debug payloads are written when debug logging is on.
	DefaultDebugDir = "logs"

	tokenHeader = "X-Figma-Token"
)

// Logger receives diagnostic messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// FileTransformer converts a full file response into a simplified design.
type FileTransformer func(*figma.FileResponse) (*simplify.Design, error)

// NodesTransformer converts a nodes response into a simplified design.
type NodesTransformer func(*figma.NodesResponse) (*simplify.Design, error)

// Client is a Figma API client.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client

	debug    bool
	debugDir string
	logger   Logger

	simplifyFile  FileTransformer
	simplifyNodes NodesTransformer
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. A trailing slash is ignored.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithDebug enables writing the raw and simplified payloads of FetchFile and
// FetchNode into dir. An empty dir means DefaultDebugDir.
func WithDebug(dir string) Option {
	return func(c *Client) {
		c.debug = true
		if dir != "" {
			c.debugDir = dir
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithFileTransformer replaces the full-file simplifier.
func WithFileTransformer(fn FileTransformer) Option {
	return func(c *Client) {
		if fn != nil {
			c.simplifyFile = fn
		}
	}
}

// WithNodesTransformer replaces the node-subset simplifier.
func WithNodesTransformer(fn NodesTransformer) Option {
	return func(c *Client) {
		if fn != nil {
			c.simplifyNodes = fn
		}
	}
}

// New creates a client authenticating with the given personal access token.
func New(accessToken string, opts ...Option) *Client {
	c := &Client{
		accessToken:   accessToken,
		baseURL:       DefaultBaseURL,
		httpClient:    http.DefaultClient,
		debugDir:      DefaultDebugDir,
		simplifyFile:  simplify.File,
		simplifyNodes: simplify.Nodes,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the API endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchFile fetches /files/{fileKey} and returns its simplified design.
// A depth greater than zero limits how deep the document tree is traversed.
// Besides *figma.Error it may return an untagged error when the body is not a
// file response or when the file transformer fails.
func (c *Client) FetchFile(ctx context.Context, fileKey string, depth int) (*simplify.Design, error) {
	suffix := "/files/" + fileKey
	if depth > 0 {
		suffix += fmt.Sprintf("?depth=%d", depth)
	}

	c.infof("Retrieving Figma file: %s (depth: %s)", fileKey, depthString(depth))

	body, err := c.get(ctx, suffix)
	if err != nil {
		return nil, err
	}

	var resp figma.FileResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, ewrap.Wrap(err, "failed to parse file response")
	}

	design, err := c.simplifyFile(&resp)
	if err != nil {
		return nil, err
	}

	c.writeDebug(body, design)

	return design, nil
}

// FetchNode fetches the subtree of nodeID from /files/{fileKey}/nodes and
// returns its simplified design. Identifiers are sent as given.
// Decode and transformer failures are untagged, as for FetchFile.
func (c *Client) FetchNode(ctx context.Context, fileKey, nodeID string, depth int) (*simplify.Design, error) {
	suffix := fmt.Sprintf("/files/%s/nodes?ids=%s", fileKey, nodeID)
	if depth > 0 {
		suffix += fmt.Sprintf("&depth=%d", depth)
	}

	c.infof("Retrieving Figma node: %s from %s (depth: %s)", nodeID, fileKey, depthString(depth))

	body, err := c.get(ctx, suffix)
	if err != nil {
		return nil, err
	}

	var resp figma.NodesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, ewrap.Wrap(err, "failed to parse nodes response")
	}

	design, err := c.simplifyNodes(&resp)
	if err != nil {
		return nil, err
	}

	c.writeDebug(body, design)

	return design, nil
}

// FetchImageURL asks Figma to render nodeID as a 1x PNG and returns the image URL.
// The node id may use the hyphenated URL form; its first hyphen becomes a colon.
func (c *Client) FetchImageURL(ctx context.Context, fileKey, nodeID string) (string, error) {
	nodeID = figma.NormalizeNodeID(nodeID)

	body, err := c.get(ctx, fmt.Sprintf("/images/%s?ids=%s&scale=1&format=png", fileKey, nodeID))
	if err != nil {
		return "", err
	}

	var resp figma.ImagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", ewrap.Wrap(err, "failed to parse images response")
	}

	if resp.Err != "" {
		return "", figma.RemoteError(resp.Status, resp.Err)
	}

	imageURL := resp.Images[nodeID]
	if imageURL == nil || *imageURL == "" {
		return "", figma.NotFoundError(nodeID)
	}

	return *imageURL, nil
}

// FetchImageBase64 downloads imageURL and returns its bytes base64 encoded.
// The URL is fetched as is; the access token is not sent.
func (c *Client) FetchImageBase64(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", ewrap.Wrap(err, "failed to create image request")
	}

	data, err := c.do(req)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// get performs an authenticated GET of baseURL+suffix and returns the body.
func (c *Client) get(ctx context.Context, suffix string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+suffix, nil)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to create request")
	}

	req.Header.Set(tokenHeader, c.accessToken)

	return c.do(req)
}

// do executes req and maps failures: a non-2xx answer is a remote error
// carrying the body's err message, anything without a readable response is a
// transport error.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, figma.TransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, figma.TransportError(err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp figma.ErrorResponse
		// A body that is not JSON leaves Err empty, which becomes the unknown error message.
		_ = json.Unmarshal(body, &errResp)

		return nil, figma.RemoteError(resp.StatusCode, errResp.Err)
	}

	return body, nil
}

func (c *Client) infof(format string, args ...any) {
	if c.logger != nil {
		c.logger.Infof(format, args...)
	}
}

func depthString(depth int) string {
	if depth <= 0 {
		return "default"
	}

	return fmt.Sprintf("%d", depth)
}
