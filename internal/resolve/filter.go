package resolve

import "strings"

// nonStudioMarkers are disambiguation/release-title signals that a
// candidate is not the studio recording of the work.
var nonStudioMarkers = []string{"live", "remix", "dj mix", "dj-mix", "karaoke", "demo", "instrumental", "acoustic version"}

// nonStudioSecondaryTypes are release-group secondary types that disqualify
// a release from counting as a studio signal.
var nonStudioSecondaryTypes = map[string]bool{
	"Live":        true,
	"Remix":       true,
	"DJ-mix":      true,
	"Compilation": true,
	"Interview":   true,
	"Spokenword":  true,
}

// filterCandidates applies the eligibility filters with the recall
// relaxation ladder: full predicate, then title-match only, then bypass.
// Must-include candidates pass every rung. Filtering never produces a hard
// empty result while raw candidates exist.
func filterCandidates(cands []Candidate, q ParsedQuery) []Candidate {
	full := keep(cands, func(c *Candidate) bool {
		return c.MustInclude || (titleMatches(c.Title, q.Title) && studioEligible(c))
	})
	if len(full) > 0 {
		return full
	}

	titleOnly := keep(cands, func(c *Candidate) bool {
		return c.MustInclude || titleMatches(c.Title, q.Title)
	})
	if len(titleOnly) > 0 {
		return titleOnly
	}

	// Let scoring alone decide.
	return cands
}

// studioEligible reports whether a candidate looks like a studio recording
// with at least one album- or single-type release. Weaker-metadata sources
// (album tracks) are exempt: they carry too little signal to fail them.
func studioEligible(c *Candidate) bool {
	if c.EntityType == EntityAlbumTrack || c.Source == SourceAlbumTrack {
		return true
	}
	if hasNonStudioSignal(c) {
		return false
	}
	for _, rel := range c.Releases {
		if rel.PrimaryType == "Album" || rel.PrimaryType == "Single" || rel.PrimaryType == "EP" {
			return true
		}
	}
	return false
}

// hasNonStudioSignal checks disambiguation text, release titles, and
// secondary types for live/remix/karaoke/compilation markers.
func hasNonStudioSignal(c *Candidate) bool {
	if containsMarker(c.Disambiguation) {
		return true
	}
	for _, rel := range c.Releases {
		if containsMarker(rel.Title) {
			return true
		}
		for _, st := range rel.SecondaryTypes {
			if nonStudioSecondaryTypes[st] {
				return true
			}
		}
	}
	return false
}

// containsMarker does a word-bounded search so "Alive" does not read as
// "live".
func containsMarker(s string) bool {
	if s == "" {
		return false
	}
	norm := " " + NormalizeTitle(s) + " "
	for _, marker := range nonStudioMarkers {
		if strings.Contains(norm, " "+marker+" ") {
			return true
		}
	}
	return false
}

// filterWordCount is the secondary filter for multi-word queries: the
// candidate title word count must equal the query's, except candidates in
// a protected work or carrying a strong US-album-release signal. Skipped
// entirely when it would eliminate everything.
func filterWordCount(cands []Candidate, q ParsedQuery, protected map[CanonicalWorkKey]bool) []Candidate {
	if wordCount(q.Title) < 2 {
		return cands
	}
	want := wordCount(NormalizeTitle(q.Title))
	out := keep(cands, func(c *Candidate) bool {
		if protected[c.Key()] || c.MustInclude {
			return true
		}
		if hasUSAlbumRelease(c) {
			return true
		}
		return wordCount(NormalizeTitle(c.Title)) == want
	})
	if len(out) == 0 {
		return cands
	}
	return out
}

// hasUSAlbumRelease reports a non-compilation US album release.
func hasUSAlbumRelease(c *Candidate) bool {
	for _, rel := range c.Releases {
		if rel.Country == "US" && rel.PrimaryType == "Album" && len(rel.SecondaryTypes) == 0 {
			return true
		}
	}
	return false
}

// keep filters a candidate slice without mutating the input.
func keep(cands []Candidate, pred func(*Candidate) bool) []Candidate {
	var out []Candidate
	for i := range cands {
		if pred(&cands[i]) {
			out = append(out, cands[i])
		}
	}
	return out
}
