package resolve

import "time"

// Config gathers every tunable heuristic in one place so tuning never
// touches control flow. All values are empirically chosen, not derived;
// treat them as configuration, not as a correctness contract.
type Config struct {
	// CanonicalThreshold is the confidence below which a canonical answer
	// triggers the optional refinement steps (encyclopedia cross-check,
	// re-rank tie-break).
	CanonicalThreshold float64 `yaml:"canonical_threshold"`

	// RerankGap: when the top two scores are within this gap, the external
	// judgment service breaks the tie.
	RerankGap float64 `yaml:"rerank_gap"`

	// MaxResults bounds ambiguous output for anchored queries;
	// MaxResultsUnanchored applies to multi-word queries with no artist,
	// which deserve a wider net.
	MaxResults           int `yaml:"max_results"`
	MaxResultsUnanchored int `yaml:"max_results_unanchored"`

	// BranchTimeout bounds each discovery strategy request. SongTimeout
	// bounds the whole song branch when it races the intent classifier.
	BranchTimeout time.Duration `yaml:"branch_timeout"`
	SongTimeout   time.Duration `yaml:"song_timeout"`

	// SearchLimit is the per-search result page size.
	SearchLimit int `yaml:"search_limit"`

	// ArtistScopedLimit caps how many artist-scoped searches run per query.
	ArtistScopedLimit int `yaml:"artist_scoped_limit"`

	// TrackScanArtists caps how many candidate artists get their release
	// tracklists scanned by the album-track fallback; TrackScanReleases
	// caps releases fetched per artist.
	TrackScanArtists  int `yaml:"track_scan_artists"`
	TrackScanReleases int `yaml:"track_scan_releases"`

	// ExpansionPoolMax: the prominent-artist expansion only fires for
	// single-word queries whose candidate pool is at most this small.
	ExpansionPoolMax int `yaml:"expansion_pool_max"`

	// HighScoreCutoff is the catalog relevance floor used by the intent
	// dominance probe. DominanceRatio and DominantRecordings shape when
	// recordings are considered to dominate artists. Both are undocumented
	// empirically tuned constants.
	HighScoreCutoff    int     `yaml:"high_score_cutoff"`
	DominanceRatio     float64 `yaml:"dominance_ratio"`
	DominantRecordings int     `yaml:"dominant_recordings"`

	// ModernYearFloor: recordings first released at or after this year
	// with an encyclopedia-resolvable artist qualify for must-include.
	// Acknowledged as a possibly over/under-inclusive heuristic.
	ModernYearFloor int `yaml:"modern_year_floor"`

	// PopularArtists is the externally supplied globally-popular roster:
	// candidates by these artists are must-include, and the query parser
	// recognizes these names as trailing artist hints.
	PopularArtists []string `yaml:"popular_artists"`

	// ProminentRoster is the small fixed roster of culturally dominant
	// artists spanning genres probed by the prominent-artist expansion.
	ProminentRoster []string `yaml:"prominent_roster"`

	// Weights hold the scorer's additive bonuses and penalties.
	Weights ScoreWeights `yaml:"weights"`
}

// ScoreWeights are the scorer's additive components. Title bonuses are
// strictly descending: exact > prefix > substring > token overlap.
type ScoreWeights struct {
	TitleExact     float64 `yaml:"title_exact"`
	TitlePrefix    float64 `yaml:"title_prefix"`
	TitleSubstring float64 `yaml:"title_substring"`
	TitleOverlap   float64 `yaml:"title_overlap"`

	ArtistMatch    float64 `yaml:"artist_match"`
	ArtistMismatch float64 `yaml:"artist_mismatch"` // negative

	Studio    float64 `yaml:"studio"`
	NonStudio float64 `yaml:"non_studio"` // negative, larger than Studio

	USRelease float64 `yaml:"us_release"`

	AlbumRelease   float64 `yaml:"album_release"`
	NoAlbumRelease float64 `yaml:"no_album_release"` // negative

	AgePerDecade float64 `yaml:"age_per_decade"`
	AgeCap       float64 `yaml:"age_cap"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		CanonicalThreshold:   92,
		RerankGap:            6,
		MaxResults:           5,
		MaxResultsUnanchored: 10,
		BranchTimeout:        5 * time.Second,
		SongTimeout:          6 * time.Second,
		SearchLimit:          25,
		ArtistScopedLimit:    10,
		TrackScanArtists:     3,
		TrackScanReleases:    20,
		ExpansionPoolMax:     3,
		HighScoreCutoff:      90,
		DominanceRatio:       1.5,
		DominantRecordings:   3,
		ModernYearFloor:      2000,
		PopularArtists: []string{
			"van halen",
			"madonna",
			"michael jackson",
			"quincy jones",
			"prince",
			"whitney houston",
			"bruce springsteen",
			"taylor swift",
			"beyoncé",
			"aretha franklin",
		},
		ProminentRoster: []string{
			"van halen",
			"madonna",
			"michael jackson",
			"kris kross",
			"johnny cash",
			"dolly parton",
			"stevie wonder",
			"nirvana",
		},
		Weights: ScoreWeights{
			TitleExact:     30,
			TitlePrefix:    18,
			TitleSubstring: 10,
			TitleOverlap:   4,
			ArtistMatch:    25,
			ArtistMismatch: -15,
			Studio:         10,
			NonStudio:      -25,
			USRelease:      5,
			AlbumRelease:   10,
			NoAlbumRelease: -5,
			AgePerDecade:   2,
			AgeCap:         10,
		},
	}
}

// withDefaults fills zero-valued fields so a partially specified Config
// still behaves. Rosters are left as given: an explicitly empty roster is
// a valid (if unusual) configuration.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CanonicalThreshold == 0 {
		c.CanonicalThreshold = d.CanonicalThreshold
	}
	if c.RerankGap == 0 {
		c.RerankGap = d.RerankGap
	}
	if c.MaxResults == 0 {
		c.MaxResults = d.MaxResults
	}
	if c.MaxResultsUnanchored == 0 {
		c.MaxResultsUnanchored = d.MaxResultsUnanchored
	}
	if c.BranchTimeout == 0 {
		c.BranchTimeout = d.BranchTimeout
	}
	if c.SongTimeout == 0 {
		c.SongTimeout = d.SongTimeout
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = d.SearchLimit
	}
	if c.ArtistScopedLimit == 0 {
		c.ArtistScopedLimit = d.ArtistScopedLimit
	}
	if c.TrackScanArtists == 0 {
		c.TrackScanArtists = d.TrackScanArtists
	}
	if c.TrackScanReleases == 0 {
		c.TrackScanReleases = d.TrackScanReleases
	}
	if c.ExpansionPoolMax == 0 {
		c.ExpansionPoolMax = d.ExpansionPoolMax
	}
	if c.HighScoreCutoff == 0 {
		c.HighScoreCutoff = d.HighScoreCutoff
	}
	if c.DominanceRatio == 0 {
		c.DominanceRatio = d.DominanceRatio
	}
	if c.DominantRecordings == 0 {
		c.DominantRecordings = d.DominantRecordings
	}
	if c.ModernYearFloor == 0 {
		c.ModernYearFloor = d.ModernYearFloor
	}
	if c.Weights == (ScoreWeights{}) {
		c.Weights = d.Weights
	}
	return c
}
