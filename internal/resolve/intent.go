package resolve

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sydlexius/tonearm/internal/catalog"
)

// contributorVerdict is the intent classifier's output.
type contributorVerdict struct {
	// Candidates are the contributor matches, best first.
	Candidates []ContributorCandidate
	// Strong means an exact name match with substantive identity metadata
	// judged high-confidence contributor intent outright.
	Strong bool
	// RecordingsDominate reports the dominance probe verdict: the query
	// reads like a song title, not a person.
	RecordingsDominate bool
}

// genericArtistTypes are type labels that carry no identity signal on
// their own.
var genericArtistTypes = map[string]bool{"group": true, "person": true, "other": true, "": true}

// classifyIntent runs the contributor search and the dominance probe in
// parallel. It never fails; a broken branch degrades to an empty or
// undominated verdict.
func (r *Resolver) classifyIntent(ctx context.Context, q ParsedQuery) contributorVerdict {
	var verdict contributorVerdict

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		verdict.Candidates, verdict.Strong = r.searchContributors(gctx, q.Raw)
		return nil
	})
	g.Go(func() error {
		verdict.RecordingsDominate = r.probeDominance(gctx, q.Raw)
		return nil
	})
	_ = g.Wait()
	return verdict
}

// searchContributors looks the raw query up as a contributor identity. The
// strong flag requires an exact normalized name match, a substantive role
// or known-for list, and no band-like disambiguation.
func (r *Resolver) searchContributors(ctx context.Context, raw string) ([]ContributorCandidate, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.BranchTimeout)
	defer cancel()

	artists, err := r.catalog.SearchArtists(ctx,
		catalog.NewQuery().Phrase("artist", raw).String(),
		catalog.SearchOptions{Limit: r.cfg.MaxResults})
	if err != nil {
		r.logger.Warn("contributor search failed", slog.Any("error", err))
		return nil, false
	}

	var out []ContributorCandidate
	strong := false
	for _, a := range artists {
		cand := ContributorCandidate{
			ID:             a.ID,
			Name:           a.Name,
			Disambiguation: a.Disambiguation,
			Roles:          contributorRoles(a),
			Score:          a.Score,
		}
		if NormalizeTitle(a.Name) == NormalizeTitle(raw) {
			cand.KnownFor = r.knownFor(ctx, a.ID)
			if substantiveIdentity(cand) && !bandLikeDisambiguation(a.Disambiguation) {
				strong = true
			}
		}
		out = append(out, cand)
	}
	return out, strong
}

// contributorRoles derives role labels from the artist type and strongest
// tags. Generic type labels are dropped.
func contributorRoles(a catalog.Artist) []string {
	var roles []string
	if t := strings.ToLower(a.Type); !genericArtistTypes[t] {
		roles = append(roles, t)
	}
	for _, tag := range a.Tags {
		if len(roles) >= 4 {
			break
		}
		name := strings.ToLower(tag.Name)
		if tag.Count > 0 && !genericArtistTypes[name] {
			roles = append(roles, name)
		}
	}
	return roles
}

// knownFor fetches a bounded list of works the contributor is credited on.
// Best effort; an empty list is a valid answer.
func (r *Resolver) knownFor(ctx context.Context, artistID string) []string {
	artist, err := r.catalog.LookupArtist(ctx, artistID, []string{"work-rels"})
	if err != nil {
		r.logger.Debug("known-for lookup failed",
			slog.String("artist_id", artistID), slog.Any("error", err))
		return nil
	}
	var works []string
	for _, rel := range artist.Relations {
		if rel.Work == nil || rel.Work.Title == "" {
			continue
		}
		works = append(works, rel.Work.Title)
		if len(works) >= 5 {
			break
		}
	}
	return works
}

// substantiveIdentity requires at least one non-generic role or a known-for
// credit; a bare name match proves nothing.
func substantiveIdentity(c ContributorCandidate) bool {
	return len(c.Roles) > 0 || len(c.KnownFor) > 0
}

// bandLikeDisambiguation catches disambiguations that mark the match as an
// act rather than an individual contributor identity.
func bandLikeDisambiguation(d string) bool {
	d = strings.ToLower(d)
	for _, marker := range []string{"band", "duo", "group", "orchestra", "ensemble"} {
		if strings.Contains(d, marker) {
			return true
		}
	}
	return false
}

// probeDominance compares high-relevance recording hits against
// high-relevance artist hits for the raw query. Recordings dominate when
// several strong recordings face at most one strong artist, when no strong
// artist exists at all, or when recordings outnumber artists by the
// configured ratio.
func (r *Resolver) probeDominance(ctx context.Context, raw string) bool {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.BranchTimeout)
	defer cancel()

	var recCount, artCount int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := catalog.NewQuery().Phrase("recording", raw).MinScore(r.cfg.HighScoreCutoff).String()
		recs, err := r.catalog.SearchRecordings(gctx, query, catalog.SearchOptions{Limit: r.cfg.SearchLimit})
		if err != nil {
			return nil
		}
		recCount = len(recs)
		return nil
	})
	g.Go(func() error {
		query := catalog.NewQuery().Phrase("artist", raw).MinScore(r.cfg.HighScoreCutoff).String()
		artists, err := r.catalog.SearchArtists(gctx, query, catalog.SearchOptions{Limit: r.cfg.SearchLimit})
		if err != nil {
			return nil
		}
		artCount = len(artists)
		return nil
	})
	_ = g.Wait()

	switch {
	case recCount >= r.cfg.DominantRecordings && artCount <= 1:
		return true
	case artCount == 0 && recCount > 0:
		return true
	case float64(recCount) >= r.cfg.DominanceRatio*float64(artCount) && artCount > 0:
		return true
	}
	return false
}
