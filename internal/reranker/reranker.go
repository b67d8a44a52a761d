// Package reranker asks an external judgment model to order a small set of
// near-tied candidates. It is strictly best-effort: callers treat an empty
// ranking the same as no ranking at all.
package reranker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

// maxCandidates bounds what we are willing to send; anything larger should
// have been narrowed by scoring first.
const maxCandidates = 5

// Candidate is one entry submitted for judgment.
type Candidate struct {
	ID     string
	Title  string
	Artist string
	Year   int
}

// Client invokes the judgment model.
type Client struct {
	model  string
	logger *slog.Logger
}

// New creates a reranker client for the given model name. An empty model
// selects the default.
func New(model string, logger *slog.Logger) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		model:  model,
		logger: logger.With(slog.String("component", "reranker")),
	}
}

// Rerank submits up to five candidates with the original query and returns
// candidate IDs in the model's preferred order. Unknown IDs in the reply are
// dropped; an unusable reply yields an empty slice, not an error.
func (c *Client) Rerank(ctx context.Context, query string, candidates []Candidate) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating judgment client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	model := client.GenerativeModel(c.model)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(query, candidates)))
	if err != nil {
		return nil, fmt.Errorf("generating ranking: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, nil
	}

	txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, nil
	}

	ranking := parseRanking(string(txt), candidates)
	c.logger.Debug("reranked candidates",
		slog.String("query", query),
		slog.Int("submitted", len(candidates)),
		slog.Int("returned", len(ranking)))
	return ranking, nil
}

// buildPrompt renders the judgment request. One candidate per line keeps
// the reply parseable without a structured output mode.
func buildPrompt(query string, candidates []Candidate) string {
	var b strings.Builder
	b.WriteString("A listener searched for: ")
	b.WriteString(quote(query))
	b.WriteString("\n\nWhich of these recordings is the listener most likely looking for?\n")
	for _, cand := range candidates {
		fmt.Fprintf(&b, "- %s: %q by %s", cand.ID, cand.Title, cand.Artist)
		if cand.Year > 0 {
			fmt.Fprintf(&b, " (%d)", cand.Year)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nReply with the candidate IDs only, one per line, best first.\n")
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `'`) + `"`
}

// parseRanking extracts known candidate IDs from a free-text reply, in
// order of first appearance, each at most once.
func parseRanking(reply string, candidates []Candidate) []string {
	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c.ID] = true
	}

	var out []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(reply, "\n") {
		for _, tok := range strings.Fields(line) {
			tok = strings.Trim(tok, "-*.,:;\"'`")
			if known[tok] && !seen[tok] {
				seen[tok] = true
				out = append(out, tok)
			}
		}
	}
	return out
}
