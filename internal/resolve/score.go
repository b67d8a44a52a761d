package resolve

import "strings"

// scoreCandidate computes the heuristic match score. Everything here is a
// simple additive bonus or penalty; given identical inputs the result is
// identical. nowYear feeds the age bonus and is injected so tests can pin
// it.
func scoreCandidate(c *Candidate, q ParsedQuery, w ScoreWeights, nowYear int) float64 {
	score := float64(c.CatalogScore)
	if c.EntityType == EntityAlbumTrack {
		// Album tracks carry no catalog relevance score; start them from
		// a neutral baseline instead of zero.
		score = albumTrackBaseline
	}

	score += titleBonus(c.Title, q.Title, w)

	if q.Artist != "" {
		if NormalizeTitle(c.Artist) == NormalizeTitle(q.Artist) {
			score += w.ArtistMatch
		} else {
			score += w.ArtistMismatch
		}
	}

	if studioEligible(c) && !hasNonStudioSignal(c) {
		score += w.Studio
	} else {
		score += w.NonStudio
	}

	if hasUSRelease(c) {
		score += w.USRelease
	}

	if hasOriginalAlbumRelease(c) {
		score += w.AlbumRelease
	} else if !hasNonCompilationRelease(c) {
		score += w.NoAlbumRelease
	}

	if year := c.EarliestYear(); year > 0 && year < nowYear {
		age := w.AgePerDecade * float64(nowYear-year) / 10
		if age > w.AgeCap {
			age = w.AgeCap
		}
		score += age
	}

	return score
}

// albumTrackBaseline substitutes for the missing catalog relevance score
// on tracklist-derived candidates.
const albumTrackBaseline = 50

// titleBonus ranks match quality: exact > prefix > substring > overlap.
func titleBonus(candidateTitle, queryTitle string, w ScoreWeights) float64 {
	cand := NormalizeTitle(candidateTitle)
	query := NormalizeTitle(queryTitle)
	switch {
	case cand == query:
		return w.TitleExact
	case strings.HasPrefix(cand, query+" "):
		return w.TitlePrefix
	case strings.Contains(cand, query):
		return w.TitleSubstring
	case tokenOverlap(cand, query):
		return w.TitleOverlap
	}
	return 0
}

// tokenOverlap reports whether any token is shared between the titles.
func tokenOverlap(a, b string) bool {
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(a) {
		tokens[t] = true
	}
	for _, t := range strings.Fields(b) {
		if tokens[t] {
			return true
		}
	}
	return false
}

func hasUSRelease(c *Candidate) bool {
	for _, rel := range c.Releases {
		if rel.Country == "US" {
			return true
		}
	}
	return false
}

// hasOriginalAlbumRelease reports a non-compilation album-type release.
func hasOriginalAlbumRelease(c *Candidate) bool {
	for _, rel := range c.Releases {
		if rel.PrimaryType == "Album" && len(rel.SecondaryTypes) == 0 {
			return true
		}
	}
	return false
}

// hasNonCompilationRelease reports any release that is not a compilation.
func hasNonCompilationRelease(c *Candidate) bool {
	for _, rel := range c.Releases {
		compilation := false
		for _, st := range rel.SecondaryTypes {
			if st == "Compilation" {
				compilation = true
				break
			}
		}
		if !compilation {
			return true
		}
	}
	return false
}
