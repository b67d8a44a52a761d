package catalog

import (
	"strconv"
	"strings"
)

// Query builds search expressions in the catalog's query language:
// field:value terms, quoted phrases for exact matching, joined with AND.
type Query struct {
	clauses []string
}

// NewQuery creates an empty query.
func NewQuery() *Query {
	return &Query{}
}

// Term adds an unquoted field:value clause. Multi-word values are grouped
// in parentheses so the AND join cannot split them.
func (q *Query) Term(field, value string) *Query {
	value = strings.TrimSpace(value)
	if value == "" {
		return q
	}
	if strings.ContainsRune(value, ' ') {
		q.clauses = append(q.clauses, field+":("+escapeQuery(value)+")")
	} else {
		q.clauses = append(q.clauses, field+":"+escapeQuery(value))
	}
	return q
}

// Phrase adds a quoted field:"value" clause for exact matching.
func (q *Query) Phrase(field, value string) *Query {
	value = strings.TrimSpace(value)
	if value == "" {
		return q
	}
	q.clauses = append(q.clauses, field+`:"`+escapePhrase(value)+`"`)
	return q
}

// MinScore restricts results to entries at or above the given relevance
// score. Scores are the catalog's own 0-100 relevance measure.
func (q *Query) MinScore(score int) *Query {
	// The catalog applies score filtering server-side via a range term.
	q.clauses = append(q.clauses, "score:["+strconv.Itoa(score)+" TO 100]")
	return q
}

// String renders the query, joining clauses with AND.
func (q *Query) String() string {
	return strings.Join(q.clauses, " AND ")
}

// Empty reports whether no clauses were added.
func (q *Query) Empty() bool {
	return len(q.clauses) == 0
}

// escapeQuery backslash-escapes the query language's operator characters.
func escapeQuery(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '+', '-', '&', '|', '!', '(', ')', '{', '}', '[', ']', '^', '"', '~', '*', '?', ':', '\\', '/':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// escapePhrase escapes only what can break out of a quoted phrase.
func escapePhrase(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
