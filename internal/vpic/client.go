package vpic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vindecoder/internal/models"
	"vindecoder/pkg/log"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://vpic.nhtsa.dot.gov/api/vehicles"
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodyBytes caps the response body. A full decode is about 20 KiB.
	DefaultMaxBodyBytes = 4 << 20
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the vPIC DecodeVin endpoint. It never retries.
type Client struct {
	baseURL string
	http    HTTPDoer
	maxBody int64
}

type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithHTTPClient swaps the transport. The timeout passed to New is then ignored.
func WithHTTPClient(d HTTPDoer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// New creates a Client. A non-positive timeout falls back to DefaultTimeout.
func New(timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: timeout},
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type decodeResponse struct {
	Message string             `json:"Message"`
	Results *[]models.VinField `json:"Results"`
}

// DecodeVin takes the model year as free text the way a form delivers it.
// An empty or unparsable year is sent as given so that vPIC decides.
func (c *Client) DecodeVin(ctx context.Context, vin, modelYear string) (models.DecodeResult, error) {
	return c.decode(ctx, vin, strings.TrimSpace(modelYear))
}

func (c *Client) Decode(ctx context.Context, req models.DecodeRequest) (models.DecodeResult, error) {
	year := ""
	if req.ModelYear > 0 {
		year = strconv.Itoa(req.ModelYear)
	}
	return c.decode(ctx, req.VIN, year)
}

// RequestURL builds the DecodeVin URL for a VIN and optional model year.
func (c *Client) RequestURL(vin, modelYear string) string {
	q := url.Values{}
	q.Set("format", "json")
	if modelYear != "" {
		q.Set("modelyear", modelYear)
	}
	return fmt.Sprintf("%s/DecodeVin/%s?%s", c.baseURL, url.PathEscape(vin), q.Encode())
}

func (c *Client) decode(ctx context.Context, vin, modelYear string) (models.DecodeResult, error) {
	target := c.RequestURL(vin, modelYear)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{URL: c.baseURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("requesting vPIC decode", zap.String("vin", vin), zap.String("model_year", modelYear))
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	log.Debug("vPIC responded", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &RemoteServiceError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &TransportError{URL: c.baseURL, Err: fmt.Errorf("reading body: %w", err)}
	}
	if int64(len(body)) > c.maxBody {
		return nil, &ParseError{Err: fmt.Errorf("response larger than %d bytes", c.maxBody)}
	}

	var payload decodeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ParseError{Err: err}
	}
	if payload.Results == nil {
		return nil, &ParseError{Err: errors.New("response has no Results array")}
	}

	results := models.DecodeResult(*payload.Results)
	log.Info("decoded VIN", zap.Int("fields", len(results)), zap.String("message", payload.Message))
	return results, nil
}
