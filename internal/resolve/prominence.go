package resolve

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sydlexius/tonearm/internal/cache"
)

// ProminenceMeta are the discography signals prominence is computed from.
// Missing fields are zero and contribute nothing.
type ProminenceMeta struct {
	ReleaseCount     int `json:"release_count"`
	AlbumCount       int `json:"album_count"`
	FirstReleaseYear int `json:"first_release_year"`
	LastReleaseYear  int `json:"last_release_year"`
	USReleaseCount   int `json:"us_release_count"`
}

// ProminenceScore is a fame estimate with the reasons that fired.
type ProminenceScore struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Prominence reasons and their additive contributions.
const (
	reasonLargeDiscography = "large_discography"      // +20: releaseCount >= 10
	reasonMultipleAlbums   = "multiple_studio_albums" // +15: albumCount >= 5
	reasonPre1990          = "pre_1990_artist"        // +20: firstReleaseYear <= 1990
	reasonUSPresence       = "us_market_presence"     // +10: usReleaseCount >= 1
)

// ScoreProminence is the pure scoring function: identical meta always
// yields an identical score and reason list.
func ScoreProminence(meta ProminenceMeta) ProminenceScore {
	var p ProminenceScore
	if meta.ReleaseCount >= 10 {
		p.Score += 20
		p.Reasons = append(p.Reasons, reasonLargeDiscography)
	}
	if meta.AlbumCount >= 5 {
		p.Score += 15
		p.Reasons = append(p.Reasons, reasonMultipleAlbums)
	}
	if meta.FirstReleaseYear > 0 && meta.FirstReleaseYear <= 1990 {
		p.Score += 20
		p.Reasons = append(p.Reasons, reasonPre1990)
	}
	if meta.USReleaseCount >= 1 {
		p.Score += 10
		p.Reasons = append(p.Reasons, reasonUSPresence)
	}
	return p
}

// prominenceTTL bounds how long a stored score smooths over run-to-run
// variation in the observed discography slice.
const prominenceTTL = 24 * time.Hour

// Prominences memoizes prominence per artist identity, backed by the
// shared cache for cross-run stability. The memo key is the artist's
// catalog ID when known, else a stable structural key (normalized name).
// Repeat calls return the identical pointer, so callers can detect a memo
// hit by reference equality.
type Prominences struct {
	mu       sync.Mutex
	byArtist map[string]*ProminenceScore
	store    cache.Cache
}

// NewProminences creates an empty memo. A nil store disables cross-run
// persistence.
func NewProminences(store cache.Cache) *Prominences {
	if store == nil {
		store = cache.Nop{}
	}
	return &Prominences{byArtist: make(map[string]*ProminenceScore), store: store}
}

// For returns the memoized prominence for the artist key, consulting the
// store and computing from meta on first call. Later calls ignore meta.
func (p *Prominences) For(ctx context.Context, artistKey string, meta ProminenceMeta) *ProminenceScore {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.byArtist[artistKey]; ok {
		return s
	}

	key := cache.Key("v1", "prominence", artistKey)
	if raw, ok := p.store.Get(ctx, key); ok {
		var s ProminenceScore
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			p.byArtist[artistKey] = &s
			return &s
		}
	}

	s := ScoreProminence(meta)
	if raw, err := json.Marshal(s); err == nil {
		p.store.Set(ctx, key, string(raw), prominenceTTL)
	}
	p.byArtist[artistKey] = &s
	return &s
}
