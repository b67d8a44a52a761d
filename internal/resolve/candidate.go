package resolve

import (
	"strconv"
	"strings"

	"github.com/sydlexius/tonearm/internal/catalog"
)

// Source tags the discovery strategy that surfaced a candidate.
type Source string

// Known candidate sources.
const (
	SourceExactTitle   Source = "exact_title"
	SourceBroadTitle   Source = "broad_title"
	SourceAlbumTrack   Source = "album_track"
	SourceArtistScoped Source = "artist_scoped"
	SourceProminent    Source = "prominent_expansion"
	SourceEncyclopedia Source = "encyclopedia"
)

// EntityType classifies what kind of thing a result is.
type EntityType string

// Known entity types.
const (
	// EntityRecording is an independently catalogued recording.
	EntityRecording EntityType = "recording"
	// EntityAlbumTrack is a track inferred from a release tracklist, not a
	// first-class catalog recording.
	EntityAlbumTrack EntityType = "album_track"
	// EntitySongInferred is a culturally canonical song that is not cleanly
	// modeled as a catalog recording.
	EntitySongInferred EntityType = "song_inferred"
)

// ReleaseInfo is the normalized view of one release carrying a candidate.
type ReleaseInfo struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Year           int      `json:"year,omitempty"` // 0 = unknown
	Country        string   `json:"country,omitempty"`
	PrimaryType    string   `json:"primary_type,omitempty"`
	SecondaryTypes []string `json:"secondary_types,omitempty"`
	Status         string   `json:"status,omitempty"`
}

// Candidate is a discovered recording or album track under evaluation.
// IDs are unique within a discovery run.
type Candidate struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Artist         string        `json:"artist"`
	ArtistID       string        `json:"artist_id,omitempty"`
	Disambiguation string        `json:"disambiguation,omitempty"`
	Releases       []ReleaseInfo `json:"releases,omitempty"`
	CatalogScore   int           `json:"catalog_score"`
	DurationMS     int           `json:"duration_ms,omitempty"`
	Source         Source        `json:"source"`
	EntityType     EntityType    `json:"entity_type"`

	// Album-track provenance: the release the track was found on.
	ReleaseTitle string `json:"release_title,omitempty"`
	ReleaseID    string `json:"release_id,omitempty"`

	// ScopedExact is set when the artist-scoped strategy found this
	// candidate with an exact title match.
	ScopedExact bool `json:"scoped_exact,omitempty"`

	// MustInclude marks membership in a protected canonical work.
	MustInclude bool `json:"must_include,omitempty"`

	// Score is the heuristic match score, filled by the scorer.
	Score float64 `json:"score"`
}

// EarliestYear returns the earliest known release year, or 0.
func (c *Candidate) EarliestYear() int {
	year := 0
	for _, r := range c.Releases {
		if r.Year > 0 && (year == 0 || r.Year < year) {
			year = r.Year
		}
	}
	return year
}

// CanonicalResult is the output unit returned to callers.
type CanonicalResult struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Artist       string     `json:"artist"`
	Year         int        `json:"year,omitempty"`
	ReleaseTitle string     `json:"release_title,omitempty"`
	EntityType   EntityType `json:"entity_type"`
	Confidence   float64    `json:"confidence"`
	Source       Source     `json:"source"`
	Explanation  string     `json:"explanation,omitempty"`
}

// SongKey identifies a real-world song: normalized title crossed with
// normalized primary artist. It is both the unit the must-include guarantee
// protects and the unit the collapse stage deduplicates on.
type SongKey struct {
	Title  string
	Artist string
}

// CanonicalWorkKey is the identity of a protected canonical work. Same
// shape as SongKey; the distinct name marks the recall-guarantee role.
type CanonicalWorkKey = SongKey

// SongKeyFor builds the key for a title/artist pair.
func SongKeyFor(title, artist string) SongKey {
	return SongKey{Title: NormalizeTitle(title), Artist: NormalizeTitle(artist)}
}

// Key returns the song key of a candidate.
func (c *Candidate) Key() SongKey {
	return SongKeyFor(c.Title, c.Artist)
}

// ContributorCandidate is a candidate person or act for intent resolution.
// Contributor IDs live in a different namespace than recording IDs.
type ContributorCandidate struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Disambiguation string   `json:"disambiguation,omitempty"`
	Roles          []string `json:"roles,omitempty"`
	KnownFor       []string `json:"known_for,omitempty"`
	Score          int      `json:"score"`
}

// normalizeRecording maps a raw catalog record into a Candidate. Missing or
// malformed fields degrade to zero values, never an error.
func normalizeRecording(rec catalog.Recording, src Source) Candidate {
	c := Candidate{
		ID:             rec.ID,
		Title:          rec.Title,
		Artist:         rec.ArtistCredit.First(),
		ArtistID:       rec.ArtistCredit.FirstID(),
		Disambiguation: rec.Disambiguation,
		CatalogScore:   rec.Score,
		DurationMS:     rec.Length,
		Source:         src,
		EntityType:     EntityRecording,
	}
	for _, rel := range rec.Releases {
		c.Releases = append(c.Releases, normalizeRelease(rel))
	}
	return c
}

// normalizeRelease flattens one release with its group classification.
func normalizeRelease(rel catalog.Release) ReleaseInfo {
	info := ReleaseInfo{
		ID:      rel.ID,
		Title:   rel.Title,
		Year:    parseYear(rel.Date),
		Country: rel.Country,
		Status:  rel.Status,
	}
	if rel.ReleaseGroup != nil {
		info.PrimaryType = rel.ReleaseGroup.PrimaryType
		info.SecondaryTypes = rel.ReleaseGroup.SecondaryTypes
	}
	return info
}

// parseYear extracts the year from a catalog date ("1984-01-09", "1984-01",
// or "1984"). Returns 0 when the date is absent or malformed.
func parseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil || y < 1000 {
		return 0
	}
	return y
}

// wordCount counts whitespace-separated words.
func wordCount(s string) int {
	return len(strings.Fields(s))
}
