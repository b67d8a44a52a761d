package resolve

import "testing"

func TestCollapsePrefersRecordingOverTrack(t *testing.T) {
	cands := []Candidate{
		{ID: "track:1", Title: "Panama", Artist: "Van Halen", EntityType: EntityAlbumTrack, Score: 80},
		{ID: "rec-1", Title: "Panama", Artist: "Van Halen", EntityType: EntityRecording, Score: 60},
	}
	got := collapseBySong(cands)
	if len(got) != 1 {
		t.Fatalf("expected one survivor, got %d", len(got))
	}
	// A recording discovered this run wins even against a higher-scored
	// track for the same song.
	if got[0].ID != "rec-1" {
		t.Errorf("survivor = %q, want rec-1", got[0].ID)
	}
}

func TestCollapseKeepsTrackWithoutRecording(t *testing.T) {
	cands := []Candidate{
		{ID: "track:1", Title: "Panama", Artist: "Van Halen", EntityType: EntityAlbumTrack, Score: 80},
		{ID: "rec-2", Title: "Jump", Artist: "Van Halen", EntityType: EntityRecording, Score: 95},
	}
	got := collapseBySong(cands)
	if len(got) != 2 {
		t.Fatalf("expected two songs, got %d", len(got))
	}
	if got[0].ID != "rec-2" || got[1].ID != "track:1" {
		t.Errorf("unexpected order: %q, %q", got[0].ID, got[1].ID)
	}
}

func TestCollapseSameKindTiesByScore(t *testing.T) {
	cands := []Candidate{
		{ID: "low", Title: "Jump", Artist: "Van Halen", EntityType: EntityRecording, Score: 70},
		{ID: "high", Title: "Jump", Artist: "Van Halen", EntityType: EntityRecording, Score: 90},
	}
	got := collapseBySong(cands)
	if len(got) != 1 || got[0].ID != "high" {
		t.Fatalf("expected the higher-scored recording, got %+v", got)
	}
}

func TestCollapseDistinctArtistsStaySeparate(t *testing.T) {
	cands := []Candidate{
		{ID: "vh", Title: "Jump", Artist: "Van Halen", EntityType: EntityRecording, Score: 95},
		{ID: "mad", Title: "Jump", Artist: "Madonna", EntityType: EntityRecording, Score: 88},
	}
	got := collapseBySong(cands)
	if len(got) != 2 {
		t.Fatalf("same title by different artists must not merge, got %+v", got)
	}
}

func TestCollapsePropagatesMustInclude(t *testing.T) {
	cands := []Candidate{
		{ID: "a", Title: "Jump", Artist: "Van Halen", EntityType: EntityRecording, Score: 95},
		{ID: "b", Title: "Jump", Artist: "Van Halen", EntityType: EntityRecording, Score: 80, MustInclude: true},
	}
	got := collapseBySong(cands)
	if len(got) != 1 || !got[0].MustInclude {
		t.Fatalf("must-include mark lost in collapse: %+v", got)
	}
}

func TestCollapseIdempotent(t *testing.T) {
	cands := []Candidate{
		{ID: "vh", Title: "Jump", Artist: "Van Halen", EntityType: EntityRecording, Score: 95},
		{ID: "vh2", Title: "Jump (Remaster)", Artist: "Van Halen", EntityType: EntityRecording, Score: 90},
		{ID: "mad", Title: "Jump", Artist: "Madonna", EntityType: EntityRecording, Score: 88},
	}
	once := collapseBySong(cands)
	twice := collapseBySong(once)
	if len(once) != len(twice) {
		t.Fatalf("collapse not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("order changed on re-collapse at %d: %q vs %q", i, once[i].ID, twice[i].ID)
		}
	}
}
