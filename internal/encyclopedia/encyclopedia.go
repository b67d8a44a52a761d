// Package encyclopedia is a thin client for the public encyclopedia API.
// It is used only to validate or annotate candidates, never as a primary
// discovery source, so every operation degrades to nil on failure.
package encyclopedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sydlexius/tonearm/internal/version"
)

const defaultBaseURL = "https://en.wikipedia.org"

const maxBodyBytes = 1 << 20

// Page is a search hit.
type Page struct {
	Title  string `json:"title"`
	PageID int    `json:"pageid"`
}

// Summary is the lead extract of a page, with a release year when one
// could be pulled out of the extract.
type Summary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	Year    int    `json:"year,omitempty"` // 0 = unknown
}

// Client queries the encyclopedia's search and page APIs.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	baseURL string
}

// New creates an encyclopedia client with the default base URL.
func New(logger *slog.Logger) *Client {
	return NewWithBaseURL(logger, defaultBaseURL)
}

// NewWithBaseURL creates an encyclopedia client with a custom base URL (for testing).
func NewWithBaseURL(logger *slog.Logger, baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
		limiter: rate.NewLimiter(5, 1),
		logger:  logger.With(slog.String("component", "encyclopedia")),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SearchPage finds the best-matching page for a query. Returns nil when no
// page matches or the service is unreachable.
func (c *Client) SearchPage(ctx context.Context, query string) (*Page, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {"1"},
		"format":   {"json"},
	}
	body, err := c.doRequest(ctx, c.baseURL+"/w/api.php?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}
	if len(resp.Query.Search) == 0 {
		return nil, nil
	}
	hit := resp.Query.Search[0]
	return &Page{Title: hit.Title, PageID: hit.PageID}, nil
}

// PageSummary fetches the lead extract for a page title. Returns nil when
// the page does not exist.
func (c *Client) PageSummary(ctx context.Context, title string) (*Summary, error) {
	reqURL := c.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(title)
	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var resp summaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing summary response: %w", err)
	}

	return &Summary{
		Title:   resp.Title,
		Extract: resp.Extract,
		Year:    extractYear(resp.Extract),
	}, nil
}

// PageHTML fetches the rendered HTML of a page. Returns "" when the page
// does not exist.
func (c *Client) PageHTML(ctx context.Context, title string) (string, error) {
	reqURL := c.baseURL + "/api/rest_v1/page/html/" + url.PathEscape(title)
	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return string(body), nil
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title  string `json:"title"`
			PageID int    `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
}

type summaryResponse struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

type notFoundError struct{ url string }

func (e *notFoundError) Error() string { return "encyclopedia: not found: " + e.url }

func isNotFound(err error) bool {
	_, ok := err.(*notFoundError)
	return ok
}

// yearPattern matches a plausible release year inside prose.
var yearPattern = regexp.MustCompile(`\b(19[2-9]\d|20[0-4]\d)\b`)

// extractYear pulls the first plausible year out of a summary extract.
func extractYear(extract string) int {
	m := yearPattern.FindString(extract)
	if m == "" {
		return 0
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return y
}

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("Tonearm/%s (https://github.com/sydlexius/tonearm)", version.Version))

	c.logger.Debug("requesting", slog.String("url", reqURL))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &notFoundError{url: reqURL}
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected HTTP %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}
