package resolve

import "strings"

// ParsedQuery is the split of a raw query into a title and an optional
// explicit artist. Artist == "" means the query carries no artist identity.
type ParsedQuery struct {
	Raw    string `json:"raw"`
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
}

// TitleOnly reports whether no explicit artist was supplied.
func (q ParsedQuery) TitleOnly() bool { return q.Artist == "" }

// SingleWord reports whether the title is a single word.
func (q ParsedQuery) SingleWord() bool { return wordCount(q.Title) == 1 }

// ParseQuery splits a raw query into {title, artist|""}. It recognizes, in
// order: a quoted trailing artist hint (`jump "van halen"`), an explicit
// separator ("by", "-", "—"), and a trailing artist name from the
// globally-popular roster. Apostrophes are word-internal punctuation and
// never split anything: an ambiguous contraction-vs-name apostrophe
// defaults to not inferring an artist. ParseQuery never fails; the worst
// case is the whole input as title with no artist.
func ParseQuery(raw string, roster []string) ParsedQuery {
	q := ParsedQuery{Raw: raw}
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return q
	}

	// Quoted trailing artist hint.
	if strings.HasSuffix(text, `"`) {
		if open := strings.LastIndex(text[:len(text)-1], `"`); open > 0 {
			artist := strings.TrimSpace(text[open+1 : len(text)-1])
			title := strings.TrimSpace(text[:open])
			if artist != "" && title != "" {
				q.Title, q.Artist = title, artist
				return q
			}
		}
	}

	// Explicit separators, first occurrence wins.
	for _, sep := range []string{" — ", " - ", " by "} {
		if idx := indexFold(text, sep); idx > 0 {
			title := strings.TrimSpace(text[:idx])
			artist := strings.TrimSpace(text[idx+len(sep):])
			if title != "" && artist != "" {
				q.Title, q.Artist = title, artist
				return q
			}
		}
	}

	// Trailing roster-artist split: "jump van halen" -> {"jump", "van halen"}.
	lower := strings.ToLower(text)
	for _, name := range roster {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if strings.HasSuffix(lower, " "+name) {
			title := strings.TrimSpace(text[:len(text)-len(name)])
			if title != "" {
				q.Title, q.Artist = title, text[len(text)-len(name):]
				return q
			}
		}
	}

	q.Title = text
	return q
}

// indexFold finds the first case-insensitive occurrence of sep in s.
func indexFold(s, sep string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(sep))
}
