package catalog

import (
	"encoding/json"
	"strings"
)

// Catalog API wire types.

// RecordingSearchResponse is the top-level response from the recording
// search endpoint.
type RecordingSearchResponse struct {
	Created    string      `json:"created"`
	Count      int         `json:"count"`
	Offset     int         `json:"offset"`
	Recordings []Recording `json:"recordings"`
}

// ArtistSearchResponse is the top-level response from the artist search
// endpoint.
type ArtistSearchResponse struct {
	Created string   `json:"created"`
	Count   int      `json:"count"`
	Offset  int      `json:"offset"`
	Artists []Artist `json:"artists"`
}

// ReleaseBrowseResponse is the top-level response from the release browse
// endpoint.
type ReleaseBrowseResponse struct {
	ReleaseCount  int       `json:"release-count"`
	ReleaseOffset int       `json:"release-offset"`
	Releases      []Release `json:"releases"`
}

// Recording represents a catalog recording entity.
type Recording struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Length         int          `json:"length"` // milliseconds
	Disambiguation string       `json:"disambiguation"`
	Score          int          `json:"score"`
	Video          bool         `json:"video"`
	ArtistCredit   ArtistCredit `json:"artist-credit"`
	Releases       []Release    `json:"releases"`
}

// Artist represents a catalog artist entity.
type Artist struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	SortName       string       `json:"sort-name"`
	Type           string       `json:"type"`
	Disambiguation string       `json:"disambiguation"`
	Country        string       `json:"country"`
	Score          int          `json:"score"`
	LifeSpan       LifeSpan     `json:"life-span"`
	Tags           []Tag        `json:"tags"`
	Relations      []Relation   `json:"relations"`
	Aliases        []Alias      `json:"aliases"`
	ArtistCredit   ArtistCredit `json:"artist-credit"` // present on credited sub-records only
}

// Release represents a catalog release entity, optionally carrying its
// release group and tracklist media when requested via includes.
type Release struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Status       string        `json:"status"`
	Date         string        `json:"date"`
	Country      string        `json:"country"`
	ArtistCredit ArtistCredit  `json:"artist-credit"`
	ReleaseGroup *ReleaseGroup `json:"release-group,omitempty"`
	Media        []Medium      `json:"media,omitempty"`
}

// ReleaseGroup carries the release-level type classification.
type ReleaseGroup struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	PrimaryType      string   `json:"primary-type"`
	SecondaryTypes   []string `json:"secondary-types"`
	FirstReleaseDate string   `json:"first-release-date"`
}

// Medium is one disc/side of a release with its tracklist.
type Medium struct {
	Format     string  `json:"format"`
	Position   int     `json:"position"`
	TrackCount int     `json:"track-count"`
	Tracks     []Track `json:"tracks"`
}

// Track is a single tracklist entry.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
	Length   int    `json:"length"`
}

// LifeSpan represents the begin/end dates of an artist.
type LifeSpan struct {
	Begin string `json:"begin"`
	End   string `json:"end"`
	Ended bool   `json:"ended"`
}

// Tag represents a user-submitted tag with a vote count.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Alias represents an alternative name for an artist.
type Alias struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Primary bool   `json:"primary"`
}

// Relation represents a relationship from an artist to another entity,
// used here for work/recording credits ("known for").
type Relation struct {
	Type       string `json:"type"`
	TargetType string `json:"target-type"`
	Work       *Work  `json:"work,omitempty"`
}

// Work is a composed work referenced from a relation.
type Work struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// CreditName is one entry of a structured artist credit.
type CreditName struct {
	Name       string       `json:"name"`
	JoinPhrase string       `json:"joinphrase"`
	Artist     *CreditedRef `json:"artist,omitempty"`
}

// CreditedRef is the artist reference inside a structured credit entry.
type CreditedRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SortName string `json:"sort-name"`
}

// ArtistCredit decodes the two wire shapes the catalog emits for a credit:
// a flat display string, or a structured array of credit entries. Both are
// preserved so consumers can ask for the first credited artist without
// caring which shape arrived.
type ArtistCredit struct {
	Display string
	Names   []CreditName
}

// UnmarshalJSON accepts either `"Artist feat. Other"` or
// `[{"name": ..., "artist": {...}}, ...]`. Anything else decodes to the
// zero credit rather than failing the whole record.
func (c *ArtistCredit) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	switch trimmed[0] {
	case '"':
		return json.Unmarshal(data, &c.Display)
	case '[':
		if err := json.Unmarshal(data, &c.Names); err != nil {
			return err
		}
		var b strings.Builder
		for _, n := range c.Names {
			b.WriteString(n.Name)
			b.WriteString(n.JoinPhrase)
		}
		c.Display = b.String()
		return nil
	}
	// Unknown shape: tolerate rather than poison the record.
	return nil
}

// MarshalJSON emits the structured shape when present, else the flat string.
func (c ArtistCredit) MarshalJSON() ([]byte, error) {
	if len(c.Names) > 0 {
		return json.Marshal(c.Names)
	}
	return json.Marshal(c.Display)
}

// First returns the first credited artist name, or the flat display string
// when no structured credit is present.
func (c ArtistCredit) First() string {
	if len(c.Names) > 0 {
		if c.Names[0].Artist != nil && c.Names[0].Artist.Name != "" {
			return c.Names[0].Artist.Name
		}
		return c.Names[0].Name
	}
	return c.Display
}

// FirstID returns the catalog ID of the first credited artist, if the
// structured shape carried one.
func (c ArtistCredit) FirstID() string {
	if len(c.Names) > 0 && c.Names[0].Artist != nil {
		return c.Names[0].Artist.ID
	}
	return ""
}
