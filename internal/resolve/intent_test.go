package resolve

import (
	"context"
	"strings"
	"testing"

	"github.com/sydlexius/tonearm/internal/catalog"
)

func producerArtist(id, name string) catalog.Artist {
	return catalog.Artist{
		ID:    id,
		Name:  name,
		Type:  "Person",
		Score: 100,
		Tags:  []catalog.Tag{{Name: "producer", Count: 12}},
	}
}

func TestClassifyIntentStrongContributor(t *testing.T) {
	cat := &fakeCatalog{
		searchArtists: func(_ context.Context, query string, _ catalog.SearchOptions) ([]catalog.Artist, error) {
			if strings.Contains(query, "max martin") && !strings.Contains(query, "score:") {
				return []catalog.Artist{producerArtist("max-martin", "Max Martin")}, nil
			}
			return nil, nil
		},
		lookupArtist: func(_ context.Context, id string, includes []string) (*catalog.Artist, error) {
			a := producerArtist(id, "Max Martin")
			a.Relations = []catalog.Relation{
				{Type: "producer", TargetType: "work", Work: &catalog.Work{ID: "w1", Title: "...Baby One More Time"}},
				{Type: "producer", TargetType: "work", Work: &catalog.Work{ID: "w2", Title: "Blinding Lights"}},
			}
			return &a, nil
		},
	}
	r := newTestResolver(t, cat, nil, nil)

	verdict := r.classifyIntent(context.Background(), ParseQuery("max martin", nil))
	if !verdict.Strong {
		t.Fatal("exact producer match should be strong contributor intent")
	}
	if len(verdict.Candidates) != 1 || verdict.Candidates[0].ID != "max-martin" {
		t.Fatalf("unexpected candidates: %+v", verdict.Candidates)
	}
	if len(verdict.Candidates[0].KnownFor) != 2 {
		t.Errorf("known-for = %v", verdict.Candidates[0].KnownFor)
	}
}

func TestClassifyIntentBandLikeDisambiguationNotStrong(t *testing.T) {
	cat := &fakeCatalog{
		searchArtists: func(_ context.Context, query string, _ catalog.SearchOptions) ([]catalog.Artist, error) {
			if strings.Contains(query, "score:") {
				return nil, nil
			}
			a := producerArtist("x", "Jump")
			a.Disambiguation = "Belgian pop band"
			return []catalog.Artist{a}, nil
		},
	}
	r := newTestResolver(t, cat, nil, nil)
	verdict := r.classifyIntent(context.Background(), ParseQuery("jump", nil))
	if verdict.Strong {
		t.Error("band-like disambiguation must block strong contributor intent")
	}
}

func TestClassifyIntentGenericIdentityNotStrong(t *testing.T) {
	cat := &fakeCatalog{
		searchArtists: func(_ context.Context, query string, _ catalog.SearchOptions) ([]catalog.Artist, error) {
			if strings.Contains(query, "score:") {
				return nil, nil
			}
			// Exact name match but nothing beyond a generic "Person" label.
			return []catalog.Artist{{ID: "n", Name: "Nobody Special", Type: "Person", Score: 100}}, nil
		},
	}
	r := newTestResolver(t, cat, nil, nil)
	verdict := r.classifyIntent(context.Background(), ParseQuery("nobody special", nil))
	if verdict.Strong {
		t.Error("a bare name match with no substantive metadata is not strong")
	}
}

func TestProbeDominance(t *testing.T) {
	makeRecs := func(n int) []catalog.Recording {
		out := make([]catalog.Recording, n)
		for i := range out {
			out[i] = recordingFixture("r", "Jump", "A", "a", 95, 1990)
		}
		return out
	}
	makeArtists := func(n int) []catalog.Artist {
		out := make([]catalog.Artist, n)
		for i := range out {
			out[i] = producerArtist("a", "Jump")
		}
		return out
	}

	tests := []struct {
		name     string
		recs     int
		artists  int
		dominate bool
	}{
		{"many recordings one artist", 5, 1, true},
		{"recordings exist artists none", 2, 0, true},
		{"ratio dominance", 6, 4, true},
		{"artists hold their own", 3, 3, false},
		{"nothing anywhere", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := &fakeCatalog{
				searchRecordings: func(_ context.Context, query string, _ catalog.SearchOptions) ([]catalog.Recording, error) {
					if !strings.Contains(query, "score:[90 TO 100]") {
						t.Errorf("recording probe missing score filter: %q", query)
					}
					return makeRecs(tt.recs), nil
				},
				searchArtists: func(_ context.Context, query string, _ catalog.SearchOptions) ([]catalog.Artist, error) {
					if !strings.Contains(query, "score:[90 TO 100]") {
						t.Errorf("artist probe missing score filter: %q", query)
					}
					return makeArtists(tt.artists), nil
				},
			}
			r := newTestResolver(t, cat, nil, nil)
			if got := r.probeDominance(context.Background(), "jump"); got != tt.dominate {
				t.Errorf("dominance = %v, want %v", got, tt.dominate)
			}
		})
	}
}

func TestContributorRoles(t *testing.T) {
	a := catalog.Artist{
		Type: "Person",
		Tags: []catalog.Tag{
			{Name: "producer", Count: 9},
			{Name: "songwriter", Count: 4},
			{Name: "zero-votes", Count: 0},
		},
	}
	roles := contributorRoles(a)
	want := []string{"producer", "songwriter"}
	if len(roles) != len(want) {
		t.Fatalf("roles = %v, want %v", roles, want)
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Errorf("roles[%d] = %q, want %q", i, roles[i], want[i])
		}
	}
}
