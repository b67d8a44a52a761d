package resolve

import "testing"

func TestParseQuery(t *testing.T) {
	roster := []string{"Van Halen", "Madonna", "Quincy Jones"}

	tests := []struct {
		name   string
		raw    string
		title  string
		artist string
	}{
		{"single word", "jump", "jump", ""},
		{"multi word title", "smells like teen spirit", "smells like teen spirit", ""},
		{"by separator", "jump by van halen", "jump", "van halen"},
		{"by separator mixed case", "Jump BY Van Halen", "Jump", "Van Halen"},
		{"dash separator", "jump - van halen", "jump", "van halen"},
		{"em dash separator", "jump — van halen", "jump", "van halen"},
		{"quoted artist hint", `jump "van halen"`, "jump", "van halen"},
		{"roster suffix", "jump van halen", "jump", "van halen"},
		{"roster suffix multi word title", "the dude quincy jones", "the dude", "quincy jones"},
		{"roster name alone stays title", "van halen", "van halen", ""},
		{"non-roster trailing name stays title", "jump tiny garage band", "jump tiny garage band", ""},
		{"apostrophe never splits", "don't stop believin'", "don't stop believin'", ""},
		{"whitespace collapsed", "  jump   by   van    halen ", "jump", "van halen"},
		{"empty", "   ", "", ""},
		{"dangling by keeps title", "stand by", "stand by", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ParseQuery(tt.raw, roster)
			if q.Title != tt.title {
				t.Errorf("title = %q, want %q", q.Title, tt.title)
			}
			if q.Artist != tt.artist {
				t.Errorf("artist = %q, want %q", q.Artist, tt.artist)
			}
			if q.Raw != tt.raw {
				t.Errorf("raw = %q, want %q", q.Raw, tt.raw)
			}
		})
	}
}

func TestParsedQueryHelpers(t *testing.T) {
	q := ParseQuery("jump van halen", []string{"van halen"})
	if q.TitleOnly() {
		t.Error("expected explicit artist")
	}
	if !q.SingleWord() {
		t.Error("expected single-word title")
	}

	q = ParseQuery("smells like teen spirit", nil)
	if !q.TitleOnly() {
		t.Error("expected title-only")
	}
	if q.SingleWord() {
		t.Error("expected multi-word title")
	}
}
