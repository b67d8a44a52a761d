package resolve

import (
	"context"
	"log/slog"
	"time"

	"github.com/sydlexius/tonearm/internal/cache"
)

// encPresenceTTL bounds how long a cached artist encyclopedia-presence
// verdict is trusted.
const encPresenceTTL = 24 * time.Hour

// markMustInclude marks candidates that belong to a protected canonical
// work and returns the protected key set. Protected works survive filtering
// and eviction regardless of score; this is a recall guarantee layered on
// top of the scorer, not a replacement for it.
//
// Single-word title-only queries skip protection entirely: too many generic
// exact matches would be protected and crowd out the intended answer.
//
// The criteria are acknowledged heuristics, possibly over- or
// under-inclusive. Tune them against real traffic rather than reasoning
// from first principles.
func (r *Resolver) markMustInclude(ctx context.Context, cands []Candidate, q ParsedQuery) map[CanonicalWorkKey]bool {
	protected := make(map[CanonicalWorkKey]bool)
	if q.TitleOnly() && q.SingleWord() {
		return protected
	}

	popular := make(map[string]bool, len(r.cfg.PopularArtists))
	for _, name := range r.cfg.PopularArtists {
		popular[NormalizeTitle(name)] = true
	}
	queryArtist := NormalizeTitle(q.Artist)

	// One presence probe per artist per run, with a cross-run cache on top.
	presence := make(map[string]bool)

	for i := range cands {
		c := &cands[i]
		if !titleMatches(c.Title, q.Title) {
			continue
		}

		// An explicit query artist narrows protection to that artist.
		// Without this, every popular artist's version of the title would
		// be protected and an anchored query could never resolve down to
		// one work.
		artist := NormalizeTitle(c.Artist)
		if queryArtist != "" && artist != queryArtist {
			continue
		}

		qualifies := popular[artist] ||
			(c.Source == SourceArtistScoped && c.ScopedExact)

		if !qualifies && c.EntityType == EntityAlbumTrack &&
			NormalizeTitle(c.ReleaseTitle) == NormalizeTitle(q.Title) {
			qualifies = true
		}

		if !qualifies && c.EarliestYear() >= r.cfg.ModernYearFloor {
			qualifies = r.artistHasEncyclopediaPage(ctx, c.Artist, presence)
		}

		if qualifies {
			c.MustInclude = true
			protected[c.Key()] = true
		}
	}

	if len(protected) > 0 {
		r.logger.Debug("protected canonical works", slog.Int("count", len(protected)))
	}
	return protected
}

// artistHasEncyclopediaPage reports whether the artist resolves to an
// encyclopedia page. Verdicts are memoized per run and cached across runs;
// probe failures count as absence.
func (r *Resolver) artistHasEncyclopediaPage(ctx context.Context, artist string, memo map[string]bool) bool {
	name := NormalizeTitle(artist)
	if name == "" {
		return false
	}
	if verdict, ok := memo[name]; ok {
		return verdict
	}

	key := cache.Key("v1", "encpresence", name)
	if v, ok := r.cache.Get(ctx, key); ok {
		verdict := v == "1"
		memo[name] = verdict
		return verdict
	}

	probeCtx, cancel := context.WithTimeout(ctx, r.cfg.BranchTimeout)
	defer cancel()
	page, err := r.enc.SearchPage(probeCtx, artist)
	if err != nil {
		r.logger.Warn("encyclopedia presence probe failed",
			slog.String("artist", artist), slog.Any("error", err))
		memo[name] = false
		return false
	}

	verdict := page != nil
	memo[name] = verdict
	value := "0"
	if verdict {
		value = "1"
	}
	r.cache.Set(ctx, key, value, encPresenceTTL)
	return verdict
}
