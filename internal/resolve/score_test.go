package resolve

import "testing"

const testYear = 2026

func studioRelease(year int) ReleaseInfo {
	return ReleaseInfo{ID: "rel", Title: "Album", Year: year, PrimaryType: "Album"}
}

func TestTitleBonusOrdering(t *testing.T) {
	w := DefaultConfig().Weights

	exact := titleBonus("Jump", "jump", w)
	prefix := titleBonus("Jump Around", "jump", w)
	substring := titleBonus("Megajump", "jump", w)
	overlap := titleBonus("Jump the Gun", "jump around", w)
	none := titleBonus("Thunderstruck", "jump", w)

	if !(exact > prefix && prefix > substring && substring > overlap && overlap > none) {
		t.Errorf("title bonuses not strictly descending: exact=%v prefix=%v substring=%v overlap=%v none=%v",
			exact, prefix, substring, overlap, none)
	}
	if none != 0 {
		t.Errorf("no-match bonus = %v, want 0", none)
	}
}

func TestScoreArtistMatch(t *testing.T) {
	w := DefaultConfig().Weights
	c := Candidate{Title: "Jump", Artist: "Van Halen", Releases: []ReleaseInfo{studioRelease(2020)}}

	anchored := scoreCandidate(&c, ParsedQuery{Title: "jump", Artist: "van halen"}, w, testYear)
	mismatched := scoreCandidate(&c, ParsedQuery{Title: "jump", Artist: "madonna"}, w, testYear)
	unanchored := scoreCandidate(&c, ParsedQuery{Title: "jump"}, w, testYear)

	if anchored-unanchored != w.ArtistMatch {
		t.Errorf("artist match bonus = %v, want %v", anchored-unanchored, w.ArtistMatch)
	}
	if mismatched-unanchored != w.ArtistMismatch {
		t.Errorf("artist mismatch penalty = %v, want %v", mismatched-unanchored, w.ArtistMismatch)
	}
}

func TestScoreStudioSignal(t *testing.T) {
	w := DefaultConfig().Weights
	q := ParsedQuery{Title: "jump"}

	studio := Candidate{Title: "Jump", Releases: []ReleaseInfo{studioRelease(2020)}}
	live := Candidate{Title: "Jump", Disambiguation: "live", Releases: []ReleaseInfo{studioRelease(2020)}}

	diff := scoreCandidate(&studio, q, w, testYear) - scoreCandidate(&live, q, w, testYear)
	if diff != w.Studio-w.NonStudio {
		t.Errorf("studio vs live gap = %v, want %v", diff, w.Studio-w.NonStudio)
	}
}

func TestScoreReleaseSignals(t *testing.T) {
	w := DefaultConfig().Weights
	q := ParsedQuery{Title: "jump"}

	us := Candidate{Title: "Jump", Releases: []ReleaseInfo{{Title: "A", Year: 2020, Country: "US", PrimaryType: "Album"}}}
	eu := Candidate{Title: "Jump", Releases: []ReleaseInfo{{Title: "A", Year: 2020, Country: "DE", PrimaryType: "Album"}}}
	if got := scoreCandidate(&us, q, w, testYear) - scoreCandidate(&eu, q, w, testYear); got != w.USRelease {
		t.Errorf("US release bonus = %v, want %v", got, w.USRelease)
	}

	album := Candidate{Title: "Jump", Releases: []ReleaseInfo{{Title: "A", Year: 2020, PrimaryType: "Album"}}}
	single := Candidate{Title: "Jump", Releases: []ReleaseInfo{{Title: "A", Year: 2020, PrimaryType: "Single"}}}
	if got := scoreCandidate(&album, q, w, testYear) - scoreCandidate(&single, q, w, testYear); got != w.AlbumRelease {
		t.Errorf("album release bonus = %v, want %v", got, w.AlbumRelease)
	}
}

func TestReleaseSignalHelpers(t *testing.T) {
	compOnly := Candidate{Releases: []ReleaseInfo{
		{Title: "Greatest Hits", PrimaryType: "Album", SecondaryTypes: []string{"Compilation"}},
	}}
	if hasOriginalAlbumRelease(&compOnly) {
		t.Error("compilation must not count as an original album")
	}
	if hasNonCompilationRelease(&compOnly) {
		t.Error("compilation-only candidate has no non-compilation release")
	}

	single := Candidate{Releases: []ReleaseInfo{{Title: "Jump", PrimaryType: "Single"}}}
	if hasOriginalAlbumRelease(&single) {
		t.Error("single must not count as an album")
	}
	if !hasNonCompilationRelease(&single) {
		t.Error("single is a non-compilation release")
	}
}

func TestScoreAgeBonusCapped(t *testing.T) {
	w := DefaultConfig().Weights
	q := ParsedQuery{Title: "jump"}

	old := Candidate{Title: "Jump", Releases: []ReleaseInfo{studioRelease(1930)}}
	ancient := Candidate{Title: "Jump", Releases: []ReleaseInfo{studioRelease(1925)}}
	if scoreCandidate(&old, q, w, testYear) != scoreCandidate(&ancient, q, w, testYear) {
		t.Error("age bonus must cap out for very old recordings")
	}

	recent := Candidate{Title: "Jump", Releases: []ReleaseInfo{studioRelease(testYear - 10)}}
	newer := Candidate{Title: "Jump", Releases: []ReleaseInfo{studioRelease(testYear - 5)}}
	if scoreCandidate(&recent, q, w, testYear) <= scoreCandidate(&newer, q, w, testYear) {
		t.Error("older recording should outscore a newer one, other signals equal")
	}
}

func TestScoreAlbumTrackBaseline(t *testing.T) {
	w := DefaultConfig().Weights
	q := ParsedQuery{Title: "jump"}
	c := Candidate{
		Title:      "Jump",
		EntityType: EntityAlbumTrack,
		Source:     SourceAlbumTrack,
		Releases:   []ReleaseInfo{studioRelease(2020)},
	}
	got := scoreCandidate(&c, q, w, testYear)
	want := albumTrackBaseline + w.TitleExact + w.Studio + w.AlbumRelease + w.AgePerDecade*float64(testYear-2020)/10
	if got != want {
		t.Errorf("album track score = %v, want %v", got, want)
	}
}

func TestScoreDeterministic(t *testing.T) {
	w := DefaultConfig().Weights
	q := ParsedQuery{Title: "jump", Artist: "van halen"}
	c := Candidate{Title: "Jump", Artist: "Van Halen", CatalogScore: 97,
		Releases: []ReleaseInfo{{Title: "1984", Year: 1984, Country: "US", PrimaryType: "Album"}}}
	if scoreCandidate(&c, q, w, testYear) != scoreCandidate(&c, q, w, testYear) {
		t.Error("score must be deterministic for identical inputs")
	}
}
