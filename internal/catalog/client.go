// Package catalog is the client for the upstream recording/artist catalog
// service. It speaks the catalog's search query language and decodes its
// loosely shaped records into typed structs.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sydlexius/tonearm/internal/version"
)

const defaultBaseURL = "https://musicbrainz.org/ws/2"

// maxBodyBytes caps response reads; tracklist-laden release browses can get
// large but anything past this is a malfunctioning upstream.
const maxBodyBytes = 2 << 20

// ErrUnavailable indicates a transient catalog failure (rate-limited,
// timeout, server error).
type ErrUnavailable struct {
	Cause      error
	RetryAfter time.Duration
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("catalog unavailable: %v", e.Cause)
}

func (e *ErrUnavailable) Unwrap() error { return e.Cause }

// ErrNotFound indicates the catalog has no record for the requested ID.
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("catalog: %s %s not found", e.Kind, e.ID)
}

// SearchOptions bound a search call.
type SearchOptions struct {
	Limit  int
	Offset int
}

// Client talks to the catalog's HTTP API with rate limiting and
// defensive response decoding.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	baseURL string
}

// New creates a catalog client with the default base URL and the given
// requests-per-second budget.
func New(rps float64, logger *slog.Logger) *Client {
	return NewWithBaseURL(rps, logger, defaultBaseURL)
}

// NewWithBaseURL creates a catalog client with a custom base URL (for testing).
func NewWithBaseURL(rps float64, logger *slog.Logger, baseURL string) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger.With(slog.String("component", "catalog")),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SearchRecordings runs a recording search with the given query expression.
func (c *Client) SearchRecordings(ctx context.Context, query string, opts SearchOptions) ([]Recording, error) {
	body, err := c.doRequest(ctx, c.searchURL("recording", query, opts))
	if err != nil {
		return nil, err
	}

	var resp RecordingSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing recording search response: %w", err)
	}
	return resp.Recordings, nil
}

// SearchArtists runs an artist search with the given query expression.
func (c *Client) SearchArtists(ctx context.Context, query string, opts SearchOptions) ([]Artist, error) {
	body, err := c.doRequest(ctx, c.searchURL("artist", query, opts))
	if err != nil {
		return nil, err
	}

	var resp ArtistSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing artist search response: %w", err)
	}
	return resp.Artists, nil
}

// LookupArtist fetches a single artist with the given includes
// (e.g. "work-rels" for composition credits).
func (c *Client) LookupArtist(ctx context.Context, id string, includes []string) (*Artist, error) {
	params := url.Values{"fmt": {"json"}}
	if len(includes) > 0 {
		params.Set("inc", strings.Join(includes, "+"))
	}
	reqURL := c.baseURL + "/artist/" + url.PathEscape(id) + "?" + params.Encode()

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var artist Artist
	if err := json.Unmarshal(body, &artist); err != nil {
		return nil, fmt.Errorf("parsing artist response: %w", err)
	}
	return &artist, nil
}

// ArtistReleases browses an artist's releases including release groups and
// tracklist media, for surfacing tracks not indexed as recordings.
func (c *Client) ArtistReleases(ctx context.Context, artistID string, limit int) ([]Release, error) {
	if limit <= 0 {
		limit = 25
	}
	params := url.Values{
		"artist": {artistID},
		"inc":    {"release-groups+media+recordings"},
		"fmt":    {"json"},
		"limit":  {strconv.Itoa(limit)},
	}
	reqURL := c.baseURL + "/release?" + params.Encode()

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var resp ReleaseBrowseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing release browse response: %w", err)
	}
	return resp.Releases, nil
}

// TestConnection verifies connectivity to the catalog API.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.SearchArtists(ctx, NewQuery().Term("artist", "test").String(), SearchOptions{Limit: 1})
	return err
}

func (c *Client) searchURL(entity, query string, opts SearchOptions) string {
	limit := opts.Limit
	if limit <= 0 {
		limit = 25
	}
	params := url.Values{
		"query": {query},
		"fmt":   {"json"},
		"limit": {strconv.Itoa(limit)},
	}
	if opts.Offset > 0 {
		params.Set("offset", strconv.Itoa(opts.Offset))
	}
	return c.baseURL + "/" + entity + "?" + params.Encode()
}

// doRequest executes an HTTP GET with rate limiting and standard headers.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ErrUnavailable{Cause: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent())
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting", slog.String("url", reqURL))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ErrUnavailable{Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &ErrNotFound{Kind: "resource", ID: reqURL}
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &ErrUnavailable{
			Cause:      fmt.Errorf("HTTP %d", resp.StatusCode),
			RetryAfter: 2 * time.Second,
		}
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &ErrUnavailable{Cause: fmt.Errorf("unexpected HTTP %d", resp.StatusCode)}
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

func userAgent() string {
	return fmt.Sprintf("Tonearm/%s (https://github.com/sydlexius/tonearm)", version.Version)
}
