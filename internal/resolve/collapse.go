package resolve

import "sort"

// collapseBySong keeps exactly one result per song key. Recordings beat
// album tracks, but only when a recording for that key was actually
// discovered this run; a cached or stale recording from a prior query must
// never displace a freshly observed track. Ties within the same entity kind
// go to the higher score, then the lexically smaller ID so the collapse is
// stable and idempotent.
func collapseBySong(cands []Candidate) []Candidate {
	groups := make(map[SongKey]*Candidate)
	var order []SongKey

	for i := range cands {
		c := &cands[i]
		key := c.Key()
		best, ok := groups[key]
		if !ok {
			groups[key] = c
			order = append(order, key)
			continue
		}
		if c.MustInclude {
			best.MustInclude = true
		}
		if best.MustInclude {
			c.MustInclude = true
		}
		if prefer(c, best) {
			groups[key] = c
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// prefer reports whether a should replace b as a group's representative.
func prefer(a, b *Candidate) bool {
	aRec := a.EntityType != EntityAlbumTrack
	bRec := b.EntityType != EntityAlbumTrack
	if aRec != bRec {
		return aRec
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ID < b.ID
}
