package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	perrors "github.com/matzehuels/pipsearch/pkg/errors"
)

// Client provides shared HTTP functionality for the index and repository-host
// clients. It applies default headers and maps response status codes to
// [ErrNotFound] and [ErrStatus].
type Client struct {
	http    *http.Client
	headers map[string]string
	exactOK bool
}

// NewClient creates a Client on top of httpClient with the given default headers.
// Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed; a nil httpClient
// uses [NewHTTPClient].
func NewClient(httpClient *http.Client, headers map[string]string) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &Client{
		http:    httpClient,
		headers: headers,
	}
}

// RequireOK makes the client treat every status other than 200 as [ErrStatus],
// including the other 2xx codes. It returns c and must be called before use.
func (c *Client) RequireOK() *Client {
	c.exactOK = true
	return c
}

// HTTP returns the underlying HTTP client.
func (c *Client) HTTP() *http.Client {
	return c.http
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// GetText performs an HTTP GET request and returns the response body as a string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	return string(data), err
}

// GetDocument performs an HTTP GET request and parses the response as HTML.
func (c *Client) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return goquery.NewDocumentFromReader(body)
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	if err := checkStatus(resp.StatusCode, url, c.exactOK); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int, url string, exactOK bool) error {
	se := &perrors.StatusError{StatusCode: code, URL: url}
	switch {
	case code == http.StatusOK:
		return nil
	case code >= 200 && code <= 299 && !exactOK:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, se)
	default:
		return fmt.Errorf("%w: %w", ErrStatus, se)
	}
}
