package resolve

import "strings"

// slangTokens maps texting-style title tokens to their spelled-out forms.
// The set is deliberately small and fixed: these are the substitutions that
// actually appear in catalogued titles ("U Got the Look", "Luv U Better").
var slangTokens = map[string]string{
	"u":   "you",
	"ur":  "your",
	"n":   "and",
	"luv": "love",
}

// spelledTokens is the inverse mapping, used only to widen discovery.
var spelledTokens = map[string]string{
	"you":  "u",
	"your": "ur",
	"and":  "n",
	"love": "luv",
}

// NormalizeTitle produces the canonical comparison key for a title: case
// folded, punctuation stripped, slang tokens mapped to their spelled-out
// equivalence class, and immediately repeated tokens collapsed.
func NormalizeTitle(s string) string {
	tokens := tokenizeTitle(s)
	out := tokens[:0]
	prev := ""
	for _, tok := range tokens {
		if canonical, ok := slangTokens[tok]; ok {
			tok = canonical
		}
		if tok == prev {
			continue
		}
		out = append(out, tok)
		prev = tok
	}
	return strings.Join(out, " ")
}

// TitleVariants returns literal title variants (slang-leaning and
// spelled-out-leaning) used only to widen discovery recall. Variants never
// feed filtering decisions. The original title is always first.
func TitleVariants(s string) []string {
	variants := []string{s}
	seen := map[string]bool{strings.ToLower(s): true}

	for _, mapping := range []map[string]string{slangTokens, spelledTokens} {
		tokens := tokenizeTitle(s)
		changed := false
		for i, tok := range tokens {
			if repl, ok := mapping[tok]; ok {
				tokens[i] = repl
				changed = true
			}
		}
		if !changed {
			continue
		}
		v := strings.Join(tokens, " ")
		if !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}
	return variants
}

// tokenizeTitle lowercases and splits a title into alphanumeric tokens.
// Apostrophes and all other punctuation vanish in place ("don't" -> "dont").
func tokenizeTitle(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteByte(' ')
		case r == '\'' || r == '’':
			// word-internal, dropped without splitting
		case r > 127:
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}

// titleMatches implements the filter stage title rule: the candidate title
// must equal the query title, or extend it with extra trailing words
// (disambiguation like "(Remaster)"). Extra leading words never match.
func titleMatches(candidateTitle, queryTitle string) bool {
	cand := NormalizeTitle(candidateTitle)
	query := NormalizeTitle(queryTitle)
	if query == "" {
		return false
	}
	return cand == query || strings.HasPrefix(cand, query+" ")
}

// exactTitleMatch reports whether the normalized titles are identical.
func exactTitleMatch(candidateTitle, queryTitle string) bool {
	return NormalizeTitle(candidateTitle) == NormalizeTitle(queryTitle)
}
