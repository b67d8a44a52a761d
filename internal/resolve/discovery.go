package resolve

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sydlexius/tonearm/internal/catalog"
)

// discoveryPool accumulates candidates across strategies, deduplicated by
// catalog ID, and tracks per-artist signals for the in-query artist set.
type discoveryPool struct {
	mu         sync.Mutex
	byID       map[string]int
	candidates []Candidate
	artistFreq map[string]int
	artistIDs  map[string]string
	artistMeta map[string]ProminenceMeta
	artistName map[string]string // normalized -> display
}

func newDiscoveryPool() *discoveryPool {
	return &discoveryPool{
		byID:       make(map[string]int),
		artistFreq: make(map[string]int),
		artistIDs:  make(map[string]string),
		artistMeta: make(map[string]ProminenceMeta),
		artistName: make(map[string]string),
	}
}

// add merges candidates into the pool. A duplicate ID keeps the first
// occurrence but inherits a ScopedExact mark from any later sighting.
func (d *discoveryPool) add(cands ...Candidate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range cands {
		if c.ID == "" {
			continue
		}
		if idx, ok := d.byID[c.ID]; ok {
			if c.ScopedExact {
				d.candidates[idx].ScopedExact = true
			}
			continue
		}
		d.byID[c.ID] = len(d.candidates)
		d.candidates = append(d.candidates, c)
		d.observeArtist(c)
	}
}

// observeArtist folds a candidate's release signals into the per-artist
// aggregate used to rank in-query artists. Caller holds the lock.
func (d *discoveryPool) observeArtist(c Candidate) {
	if c.Artist == "" {
		return
	}
	key := NormalizeTitle(c.Artist)
	d.artistFreq[key]++
	d.artistName[key] = c.Artist
	if c.ArtistID != "" {
		d.artistIDs[key] = c.ArtistID
	}
	meta := d.artistMeta[key]
	meta.ReleaseCount += len(c.Releases)
	for _, rel := range c.Releases {
		if rel.PrimaryType == "Album" && len(rel.SecondaryTypes) == 0 {
			meta.AlbumCount++
		}
		if rel.Country == "US" {
			meta.USReleaseCount++
		}
		if rel.Year > 0 && (meta.FirstReleaseYear == 0 || rel.Year < meta.FirstReleaseYear) {
			meta.FirstReleaseYear = rel.Year
		}
		if rel.Year > meta.LastReleaseYear {
			meta.LastReleaseYear = rel.Year
		}
	}
	d.artistMeta[key] = meta
}

func (d *discoveryPool) size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.candidates)
}

func (d *discoveryPool) list() []Candidate {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Candidate, len(d.candidates))
	copy(out, d.candidates)
	return out
}

// inQueryArtist is one artist observed in the broad results, ranked by
// frequency and then prominence.
type inQueryArtist struct {
	name       string
	id         string
	freq       int
	prominence int
}

// topArtists returns up to n in-query artists, most frequent first, with
// prominence breaking frequency ties.
func (d *discoveryPool) topArtists(ctx context.Context, n int, prominences *Prominences) []inQueryArtist {
	d.mu.Lock()
	var artists []inQueryArtist
	for key, freq := range d.artistFreq {
		artists = append(artists, inQueryArtist{
			name:       d.artistName[key],
			id:         d.artistIDs[key],
			freq:       freq,
			prominence: prominences.For(ctx, artistMemoKey(d.artistIDs[key], key), d.artistMeta[key]).Score,
		})
	}
	d.mu.Unlock()

	sort.Slice(artists, func(i, j int) bool {
		if artists[i].freq != artists[j].freq {
			return artists[i].freq > artists[j].freq
		}
		if artists[i].prominence != artists[j].prominence {
			return artists[i].prominence > artists[j].prominence
		}
		return artists[i].name < artists[j].name
	})
	if len(artists) > n {
		artists = artists[:n]
	}
	return artists
}

// artistMemoKey prefers the catalog ID as the prominence memo key, falling
// back to the structural (normalized-name) key.
func artistMemoKey(id, normalizedName string) string {
	if id != "" {
		return "id:" + id
	}
	return "name:" + normalizedName
}

// discover fans out the discovery strategies and returns a deduplicated
// candidate pool. Every branch is individually time-bounded and failure
// tolerant: a failing strategy contributes nothing and never aborts the
// others.
func (r *Resolver) discover(ctx context.Context, q ParsedQuery) []Candidate {
	pool := newDiscoveryPool()

	// Title strategies first: they seed the in-query artist set the later
	// strategies draw from.
	if q.SingleWord() {
		recs := r.searchRecordings(ctx, catalog.NewQuery().Phrase("recording", q.Title))
		pool.add(normalizeAll(recs, SourceExactTitle)...)
		if pool.size() == 0 {
			// Slang titles ("luv", "u") hide behind spelled-out catalog
			// entries, so the fallback widens across the variants too.
			g, gctx := errgroup.WithContext(ctx)
			for _, variant := range TitleVariants(q.Title) {
				g.Go(func() error {
					recs := r.searchRecordings(gctx, catalog.NewQuery().Term("recording", variant))
					pool.add(normalizeAll(recs, SourceBroadTitle)...)
					return nil
				})
			}
			_ = g.Wait()
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for _, variant := range TitleVariants(q.Title) {
			g.Go(func() error {
				recs := r.searchRecordings(gctx, catalog.NewQuery().Term("recording", variant))
				pool.add(normalizeAll(recs, SourceBroadTitle)...)
				return nil
			})
		}
		_ = g.Wait() // branches never return errors
	}

	// Second wave: artist-scoped searches and the album-track fallback.
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range r.scopedArtistNames(ctx, q, pool) {
		g.Go(func() error {
			query := catalog.NewQuery().
				Phrase("recording", q.Title).
				Phrase("artist", name)
			for _, rec := range r.searchRecordings(gctx, query) {
				c := normalizeRecording(rec, SourceArtistScoped)
				c.ScopedExact = exactTitleMatch(c.Title, q.Title)
				pool.add(c)
			}
			return nil
		})
	}
	if !q.SingleWord() {
		g.Go(func() error {
			r.albumTrackFallback(gctx, q, pool)
			return nil
		})
	}
	_ = g.Wait()

	// Prominent-artist expansion: single-word queries with a small pool
	// risk crowding out a globally famous recording behind generic exact
	// matches, so probe a fixed cross-genre roster.
	if q.SingleWord() && pool.size() <= r.cfg.ExpansionPoolMax {
		g, gctx := errgroup.WithContext(ctx)
		for _, name := range r.cfg.ProminentRoster {
			g.Go(func() error {
				query := catalog.NewQuery().
					Phrase("recording", q.Title).
					Phrase("artist", name)
				pool.add(normalizeAll(r.searchRecordings(gctx, query), SourceProminent)...)
				return nil
			})
		}
		_ = g.Wait()
	}

	candidates := pool.list()
	r.logger.Debug("discovery complete",
		slog.String("title", q.Title),
		slog.Int("candidates", len(candidates)))
	return candidates
}

// scopedArtistNames assembles the bounded artist list for the artist-scoped
// strategy: the explicit query artist first, then in-query discovered
// artists, then the globally popular roster.
func (r *Resolver) scopedArtistNames(ctx context.Context, q ParsedQuery, pool *discoveryPool) []string {
	seen := make(map[string]bool)
	var names []string
	push := func(name string) {
		key := NormalizeTitle(name)
		if key == "" || seen[key] || len(names) >= r.cfg.ArtistScopedLimit {
			return
		}
		seen[key] = true
		names = append(names, name)
	}

	if q.Artist != "" {
		push(q.Artist)
	}
	for _, a := range pool.topArtists(ctx, r.cfg.TrackScanArtists, r.prominences) {
		push(a.name)
	}
	for _, name := range r.cfg.PopularArtists {
		push(name)
	}
	return names
}

// albumTrackFallback scans release tracklists of the most promising
// in-query artists to surface tracks not independently indexed as
// recordings. Multi-word queries only; the caller enforces that.
func (r *Resolver) albumTrackFallback(ctx context.Context, q ParsedQuery, pool *discoveryPool) {
	artists := pool.topArtists(ctx, r.cfg.TrackScanArtists, r.prominences)
	if q.Artist != "" {
		artists = append([]inQueryArtist{{name: q.Artist}}, artists...)
	}

	for _, artist := range artists {
		id := artist.id
		if id == "" {
			id = r.lookupArtistID(ctx, artist.name)
		}
		if id == "" {
			continue
		}

		releases, err := r.fetchReleases(ctx, id)
		if err != nil {
			r.logger.Warn("album-track scan failed",
				slog.String("artist", artist.name), slog.Any("error", err))
			continue
		}

		for _, rel := range releases {
			for _, medium := range rel.Media {
				for _, track := range medium.Tracks {
					if !exactTitleMatch(track.Title, q.Title) {
						continue
					}
					pool.add(trackCandidate(track, rel, artist.name))
				}
			}
		}
	}
}

// trackCandidate builds an album-track candidate from a tracklist entry.
// These stay a distinct entity kind; they are never silently merged into
// first-class recordings.
func trackCandidate(track catalog.Track, rel catalog.Release, artistName string) Candidate {
	artist := rel.ArtistCredit.First()
	if artist == "" {
		artist = artistName
	}
	id := track.ID
	if id == "" {
		id = rel.ID + "#" + track.Title
	}
	return Candidate{
		ID:           "track:" + id,
		Title:        track.Title,
		Artist:       artist,
		ArtistID:     rel.ArtistCredit.FirstID(),
		Releases:     []ReleaseInfo{normalizeRelease(rel)},
		DurationMS:   track.Length,
		Source:       SourceAlbumTrack,
		EntityType:   EntityAlbumTrack,
		ReleaseTitle: rel.Title,
		ReleaseID:    rel.ID,
	}
}

// searchRecordings runs one time-bounded recording search; failures are
// logged and yield an empty slice. Queries with no clauses (blank titles
// after normalization) are never sent upstream.
func (r *Resolver) searchRecordings(ctx context.Context, query *catalog.Query) []catalog.Recording {
	if query.Empty() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.cfg.BranchTimeout)
	defer cancel()
	recs, err := r.catalog.SearchRecordings(ctx, query.String(), catalog.SearchOptions{Limit: r.cfg.SearchLimit})
	if err != nil {
		r.logger.Warn("recording search failed", slog.String("query", query.String()), slog.Any("error", err))
		return nil
	}
	return recs
}

// lookupArtistID resolves an artist name to its catalog ID, or "".
func (r *Resolver) lookupArtistID(ctx context.Context, name string) string {
	query := catalog.NewQuery().Phrase("artist", name)
	if query.Empty() {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, r.cfg.BranchTimeout)
	defer cancel()
	artists, err := r.catalog.SearchArtists(ctx, query.String(), catalog.SearchOptions{Limit: 1})
	if err != nil || len(artists) == 0 {
		return ""
	}
	return artists[0].ID
}

// fetchReleases browses an artist's releases under a branch timeout.
func (r *Resolver) fetchReleases(ctx context.Context, artistID string) ([]catalog.Release, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.BranchTimeout)
	defer cancel()
	return r.catalog.ArtistReleases(ctx, artistID, r.cfg.TrackScanReleases)
}

// normalizeAll maps raw recordings to candidates with the given source tag.
func normalizeAll(recs []catalog.Recording, src Source) []Candidate {
	out := make([]Candidate, 0, len(recs))
	for _, rec := range recs {
		out = append(out, normalizeRecording(rec, src))
	}
	return out
}
