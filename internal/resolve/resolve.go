// Package resolve turns free-text music queries into canonical recordings,
// contributors, or a bounded ambiguous candidate list. The pipeline is
// parse, discover, filter, score, protect, collapse, decide, with a
// contributor intent classifier racing the song branch.
package resolve

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sydlexius/tonearm/internal/cache"
	"github.com/sydlexius/tonearm/internal/catalog"
	"github.com/sydlexius/tonearm/internal/encyclopedia"
	"github.com/sydlexius/tonearm/internal/reranker"
)

// Catalog is the recording/artist search surface the pipeline consumes.
type Catalog interface {
	SearchRecordings(ctx context.Context, query string, opts catalog.SearchOptions) ([]catalog.Recording, error)
	SearchArtists(ctx context.Context, query string, opts catalog.SearchOptions) ([]catalog.Artist, error)
	LookupArtist(ctx context.Context, id string, includes []string) (*catalog.Artist, error)
	ArtistReleases(ctx context.Context, artistID string, limit int) ([]catalog.Release, error)
}

// Encyclopedia answers page-existence probes and cross-checks.
type Encyclopedia interface {
	SearchPage(ctx context.Context, query string) (*encyclopedia.Page, error)
}

// Reranker is the external judgment service used as a bounded tie-breaker.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []reranker.Candidate) ([]string, error)
}

// Intent labels the top-level reading of a query.
type Intent string

// Query intents.
const (
	IntentSong        Intent = "song"
	IntentContributor Intent = "contributor"
	IntentMixed       Intent = "mixed"
)

// Mode labels the answer shape.
type Mode string

// Answer modes.
const (
	ModeCanonical Mode = "canonical"
	ModeAmbiguous Mode = "ambiguous"
)

// Resolution is the complete answer for one query.
type Resolution struct {
	Query        string                 `json:"query"`
	Intent       Intent                 `json:"intent"`
	Mode         Mode                   `json:"mode"`
	Result       *CanonicalResult       `json:"result,omitempty"`
	Results      []CanonicalResult      `json:"results,omitempty"`
	Contributors []ContributorCandidate `json:"contributors,omitempty"`
	Trace        *Trace                 `json:"trace,omitempty"`
}

// Trace is the optional per-stage debug record.
type Trace struct {
	ID     string       `json:"id"`
	Stages []TraceStage `json:"stages,omitempty"`
}

// TraceStage records one pipeline stage's output size and elapsed time.
type TraceStage struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	DurationMS int64  `json:"duration_ms"`
}

// Resolver runs the resolution pipeline. Safe for concurrent use; per-query
// state is local, and the shared prominence and presence caches are
// advisory.
type Resolver struct {
	catalog     Catalog
	enc         Encyclopedia
	rer         Reranker
	cache       cache.Cache
	cfg         Config
	logger      *slog.Logger
	prominences *Prominences
	nowYear     func() int
}

// New builds a Resolver. A nil store disables cross-run caching.
func New(cat Catalog, enc Encyclopedia, rer Reranker, store cache.Cache, cfg Config, logger *slog.Logger) *Resolver {
	if store == nil {
		store = cache.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		catalog:     cat,
		enc:         enc,
		rer:         rer,
		cache:       store,
		cfg:         cfg.withDefaults(),
		logger:      logger.With(slog.String("component", "resolver")),
		prominences: NewProminences(store),
		nowYear:     func() int { return time.Now().Year() },
	}
}

// Resolve answers a free-text query. It never returns an error for
// upstream failures; a query nothing could be found for yields an empty
// ambiguous resolution. The only error is a caller-cancelled context.
func (r *Resolver) Resolve(ctx context.Context, raw string, debug bool) (*Resolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trace := &Trace{ID: uuid.NewString()}
	logger := r.logger.With(slog.String("trace_id", trace.ID))
	logger.Info("resolving", slog.String("query", raw))

	q := ParseQuery(raw, r.cfg.PopularArtists)

	// The song branch and the intent classifier run in parallel. The song
	// branch carries its own overall deadline so a slow catalog cannot
	// stall intent resolution indefinitely.
	var (
		song    songDecision
		verdict contributorVerdict
		wg      sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		songCtx, cancel := context.WithTimeout(ctx, r.cfg.SongTimeout)
		defer cancel()
		song = r.resolveSong(songCtx, q, trace, debug)
	}()
	go func() {
		defer wg.Done()
		verdict = r.classifyIntent(ctx, q)
	}()
	wg.Wait()

	res := r.compose(q, song, verdict)
	res.Query = raw
	if debug {
		res.Trace = trace
	}
	logger.Info("resolved",
		slog.String("intent", string(res.Intent)),
		slog.String("mode", string(res.Mode)),
		slog.Int("results", len(res.Results)+len(res.Contributors)))
	return res, nil
}

// resolveSong runs the song pipeline end to end.
func (r *Resolver) resolveSong(ctx context.Context, q ParsedQuery, trace *Trace, debug bool) songDecision {
	stage := stageTimer(trace, debug)

	cands := r.discover(ctx, q)
	stage("discover", len(cands))

	protected := r.markMustInclude(ctx, cands, q)
	cands = filterCandidates(cands, q)
	stage("filter", len(cands))

	for i := range cands {
		cands[i].Score = scoreCandidate(&cands[i], q, r.cfg.Weights, r.nowYear())
	}
	cands = filterWordCount(cands, q, protected)
	stage("score", len(cands))

	cands = collapseBySong(cands)
	stage("collapse", len(cands))

	return r.decide(ctx, cands, q)
}

// compose merges the song decision and the contributor verdict into the
// top-level answer. Order of preference: a high-confidence canonical song,
// then a clear contributor winner over a weak song signal, then whatever
// ambiguity remains.
func (r *Resolver) compose(q ParsedQuery, song songDecision, verdict contributorVerdict) *Resolution {
	exact := exactContributors(q.Raw, verdict.Candidates)

	if song.Canonical != nil && song.Canonical.Confidence >= r.cfg.CanonicalThreshold {
		return &Resolution{Intent: IntentSong, Mode: ModeCanonical, Result: song.Canonical}
	}

	// A clear contributor winner still reports ambiguous mode: canonical
	// asserts a single work, and a bare name query carries no explicit
	// artist to anchor that assertion on.
	songWeak := song.Canonical == nil
	if verdict.Strong && len(exact) == 1 && songWeak && strongResultCount(song.Results, float64(r.cfg.HighScoreCutoff)) < 3 {
		return &Resolution{Intent: IntentContributor, Mode: ModeAmbiguous, Contributors: exact}
	}

	if song.Canonical != nil {
		return &Resolution{Intent: IntentSong, Mode: ModeCanonical, Result: song.Canonical}
	}

	if verdict.Strong && len(exact) > 1 && !verdict.RecordingsDominate {
		return &Resolution{Intent: IntentContributor, Mode: ModeAmbiguous, Contributors: exact}
	}

	if len(song.Results) > 0 && len(verdict.Candidates) > 0 && !verdict.RecordingsDominate && verdict.Strong {
		return &Resolution{
			Intent:       IntentMixed,
			Mode:         ModeAmbiguous,
			Results:      song.Results,
			Contributors: verdict.Candidates,
		}
	}

	if len(song.Results) > 0 {
		return &Resolution{Intent: IntentSong, Mode: ModeAmbiguous, Results: song.Results}
	}
	if len(verdict.Candidates) > 0 && !verdict.RecordingsDominate {
		return &Resolution{Intent: IntentContributor, Mode: ModeAmbiguous, Contributors: verdict.Candidates}
	}

	// Nothing anywhere. Still not an error: the caller asked a question
	// the world has no answer for.
	return &Resolution{Intent: IntentSong, Mode: ModeAmbiguous}
}

// exactContributors keeps candidates whose normalized name equals the raw
// query.
func exactContributors(raw string, cands []ContributorCandidate) []ContributorCandidate {
	want := NormalizeTitle(raw)
	var out []ContributorCandidate
	for _, c := range cands {
		if NormalizeTitle(c.Name) == want {
			out = append(out, c)
		}
	}
	return out
}

// strongResultCount counts song results at or above the cutoff.
func strongResultCount(results []CanonicalResult, cutoff float64) int {
	n := 0
	for _, res := range results {
		if res.Confidence >= cutoff {
			n++
		}
	}
	return n
}

// stageTimer returns a closure that appends a stage record per call when
// debugging, and is a no-op otherwise.
func stageTimer(trace *Trace, debug bool) func(name string, count int) {
	if !debug {
		return func(string, int) {}
	}
	last := time.Now()
	var mu sync.Mutex
	return func(name string, count int) {
		mu.Lock()
		defer mu.Unlock()
		now := time.Now()
		trace.Stages = append(trace.Stages, TraceStage{
			Name:       name,
			Count:      count,
			DurationMS: now.Sub(last).Milliseconds(),
		})
		last = now
	}
}
