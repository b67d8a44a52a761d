package resolve

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/sydlexius/tonearm/internal/catalog"
	"github.com/sydlexius/tonearm/internal/encyclopedia"
	"github.com/sydlexius/tonearm/internal/reranker"
)

// fakeCatalog routes each call through an optional function field; nil
// fields answer empty.
type fakeCatalog struct {
	searchRecordings func(ctx context.Context, query string, opts catalog.SearchOptions) ([]catalog.Recording, error)
	searchArtists    func(ctx context.Context, query string, opts catalog.SearchOptions) ([]catalog.Artist, error)
	lookupArtist     func(ctx context.Context, id string, includes []string) (*catalog.Artist, error)
	artistReleases   func(ctx context.Context, artistID string, limit int) ([]catalog.Release, error)
}

func (f *fakeCatalog) SearchRecordings(ctx context.Context, query string, opts catalog.SearchOptions) ([]catalog.Recording, error) {
	if f.searchRecordings == nil {
		return nil, nil
	}
	return f.searchRecordings(ctx, query, opts)
}

func (f *fakeCatalog) SearchArtists(ctx context.Context, query string, opts catalog.SearchOptions) ([]catalog.Artist, error) {
	if f.searchArtists == nil {
		return nil, nil
	}
	return f.searchArtists(ctx, query, opts)
}

func (f *fakeCatalog) LookupArtist(ctx context.Context, id string, includes []string) (*catalog.Artist, error) {
	if f.lookupArtist == nil {
		return nil, &catalog.ErrNotFound{Kind: "artist", ID: id}
	}
	return f.lookupArtist(ctx, id, includes)
}

func (f *fakeCatalog) ArtistReleases(ctx context.Context, artistID string, limit int) ([]catalog.Release, error) {
	if f.artistReleases == nil {
		return nil, nil
	}
	return f.artistReleases(ctx, artistID, limit)
}

type fakeEncyclopedia struct {
	searchPage func(ctx context.Context, query string) (*encyclopedia.Page, error)
}

func (f *fakeEncyclopedia) SearchPage(ctx context.Context, query string) (*encyclopedia.Page, error) {
	if f.searchPage == nil {
		return nil, nil
	}
	return f.searchPage(ctx, query)
}

type fakeReranker struct {
	rerank func(ctx context.Context, query string, candidates []reranker.Candidate) ([]string, error)
}

func (f *fakeReranker) Rerank(ctx context.Context, query string, candidates []reranker.Candidate) ([]string, error) {
	if f.rerank == nil {
		return nil, nil
	}
	return f.rerank(ctx, query, candidates)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestResolver(t *testing.T, cat Catalog, enc Encyclopedia, rer Reranker) *Resolver {
	t.Helper()
	if cat == nil {
		cat = &fakeCatalog{}
	}
	if enc == nil {
		enc = &fakeEncyclopedia{}
	}
	if rer == nil {
		rer = &fakeReranker{}
	}
	r := New(cat, enc, rer, nil, DefaultConfig(), testLogger())
	r.nowYear = func() int { return testYear }
	return r
}

// recordingFixture builds a studio recording search hit.
func recordingFixture(id, title, artist, artistID string, score, year int) catalog.Recording {
	return catalog.Recording{
		ID:    id,
		Title: title,
		Score: score,
		ArtistCredit: catalog.ArtistCredit{
			Display: artist,
			Names: []catalog.CreditName{{
				Name:   artist,
				Artist: &catalog.CreditedRef{ID: artistID, Name: artist},
			}},
		},
		Releases: []catalog.Release{{
			ID:           "rel-" + id,
			Title:        title,
			Date:         yearDate(year),
			Country:      "US",
			Status:       "Official",
			ReleaseGroup: &catalog.ReleaseGroup{PrimaryType: "Album"},
		}},
	}
}

func yearDate(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year) + "-01-01"
}
