package resolve

import (
	"context"
	"log/slog"

	"github.com/sydlexius/tonearm/internal/reranker"
)

// songDecision is the song branch outcome before top-level composition.
type songDecision struct {
	Canonical *CanonicalResult
	Results   []CanonicalResult
}

// decide slices the collapsed candidates to the result budget, picks
// canonical or ambiguous mode, and applies the low-confidence refinements.
// Title-only queries never go canonical: an unscoped title alone does not
// carry enough identity no matter how lopsided the scores are.
func (r *Resolver) decide(ctx context.Context, cands []Candidate, q ParsedQuery) songDecision {
	limit := r.cfg.MaxResults
	if q.TitleOnly() && !q.SingleWord() {
		limit = r.cfg.MaxResultsUnanchored
	}
	cands = sliceProtected(cands, limit)

	if q.Artist != "" {
		if winner := soleWinner(cands); winner != nil {
			result := r.refineCanonical(ctx, *winner, q, cands)
			return songDecision{Canonical: &result}
		}
	}

	results := make([]CanonicalResult, 0, len(cands))
	for i := range cands {
		results = append(results, toResult(&cands[i]))
	}
	return songDecision{Results: results}
}

// sliceProtected keeps the top limit candidates by order, except that
// must-include candidates are never evicted. When protected candidates
// overflow the budget, the budget loses.
func sliceProtected(cands []Candidate, limit int) []Candidate {
	if len(cands) <= limit {
		return cands
	}
	out := make([]Candidate, 0, limit)
	var overflow []Candidate
	for _, c := range cands {
		if len(out) < limit {
			out = append(out, c)
			continue
		}
		if c.MustInclude {
			overflow = append(overflow, c)
		}
	}
	return append(out, overflow...)
}

// soleWinner returns the single candidate when exactly one protected work
// or exactly one result survives, else nil.
func soleWinner(cands []Candidate) *Candidate {
	if len(cands) == 1 {
		return &cands[0]
	}
	var protected *Candidate
	count := 0
	for i := range cands {
		if cands[i].MustInclude {
			protected = &cands[i]
			count++
		}
	}
	if count == 1 {
		return protected
	}
	return nil
}

// refineCanonical applies the low-confidence refinements: an encyclopedia
// cross-check that can upgrade provenance when the page title aligns, then
// a bounded external re-rank when the top two scores are close. Both are
// optional; failures leave the original winner standing.
func (r *Resolver) refineCanonical(ctx context.Context, winner Candidate, q ParsedQuery, cands []Candidate) CanonicalResult {
	result := toResult(&winner)
	if winner.Score >= r.cfg.CanonicalThreshold {
		return result
	}

	if page := r.encyclopediaCrossCheck(ctx, q); page != "" {
		// The encyclopedia vouches for the work, so it becomes the
		// provenance of record and drives entity-type resolution.
		winner.Source = SourceEncyclopedia
		result = toResult(&winner)
		result.Explanation += "; corroborated by encyclopedia page " + quoteTitle(page)
	}

	if len(cands) >= 2 && cands[0].Score-cands[1].Score <= r.cfg.RerankGap {
		if picked := r.rerankTop(ctx, q, cands); picked != nil {
			result = toResult(picked)
		}
	}
	return result
}

// encyclopediaCrossCheck looks up the query as a page and returns the page
// title when it aligns with the query title, else "".
func (r *Resolver) encyclopediaCrossCheck(ctx context.Context, q ParsedQuery) string {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.BranchTimeout)
	defer cancel()

	probe := q.Title
	if q.Artist != "" {
		probe += " " + q.Artist
	}
	page, err := r.enc.SearchPage(ctx, probe)
	if err != nil {
		r.logger.Warn("encyclopedia cross-check failed", slog.Any("error", err))
		return ""
	}
	if page == nil || !titleMatches(page.Title, q.Title) {
		return ""
	}
	return page.Title
}

// rerankTop asks the external judgment service to order the top candidates
// and returns its top pick, or nil when the service fails or returns
// nothing usable.
func (r *Resolver) rerankTop(ctx context.Context, q ParsedQuery, cands []Candidate) *Candidate {
	n := len(cands)
	if n > rerankWindow {
		n = rerankWindow
	}
	input := make([]reranker.Candidate, 0, n)
	for i := 0; i < n; i++ {
		input = append(input, reranker.Candidate{
			ID:     cands[i].ID,
			Title:  cands[i].Title,
			Artist: cands[i].Artist,
			Year:   cands[i].EarliestYear(),
		})
	}

	ranked, err := r.rer.Rerank(ctx, q.Raw, input)
	if err != nil {
		r.logger.Warn("re-rank failed", slog.Any("error", err))
		return nil
	}
	if len(ranked) == 0 {
		return nil
	}
	for i := range cands {
		if cands[i].ID == ranked[0] {
			return &cands[i]
		}
	}
	return nil
}

const rerankWindow = 5

// toResult finalizes a candidate into output form, resolving the entity
// type: catalog results stay recordings unless already album tracks;
// encyclopedia-sourced results become album tracks when a release title
// matched, otherwise inferred songs.
func toResult(c *Candidate) CanonicalResult {
	result := CanonicalResult{
		ID:           c.ID,
		Title:        c.Title,
		Artist:       c.Artist,
		Year:         c.EarliestYear(),
		ReleaseTitle: c.ReleaseTitle,
		EntityType:   c.EntityType,
		Confidence:   c.Score,
		Source:       c.Source,
	}
	if c.Source == SourceEncyclopedia {
		if c.ReleaseTitle != "" && titleMatches(c.ReleaseTitle, c.Title) {
			result.EntityType = EntityAlbumTrack
			result.Explanation = "matched an encyclopedia-documented release tracklist"
		} else {
			result.EntityType = EntitySongInferred
			result.Explanation = "culturally canonical song without a clean catalog recording"
		}
	}
	return result
}

func quoteTitle(s string) string { return "\"" + s + "\"" }
