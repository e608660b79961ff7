package fuzzy

import "testing"

func TestNormalizeTitle(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "featuring credit stripped",
			input: "Song Title (feat. Someone)",
			want:  "song title",
		},
		{
			name:  "remaster suffix stripped",
			input: "Old Song (2011 Remaster)",
			want:  "old song",
		},
		{
			name:  "diacritics folded",
			input: "Beyoncé",
			want:  "beyonce",
		},
		{
			name:  "punctuation collapsed",
			input: "What's  Going   On?",
			want:  "what s going on",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.NormalizeTitle(tt.input); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	n := NewNormalizer()

	if got := n.Similarity("thriller", "thriller"); got != 1.0 {
		t.Errorf("identical strings: got %v, want 1.0", got)
	}
	if got := n.Similarity("", "thriller"); got != 0.0 {
		t.Errorf("empty string: got %v, want 0.0", got)
	}

	closeScore := n.Similarity("thriller", "thriller deluxe")
	farScore := n.Similarity("thriller", "abbey road")
	if closeScore <= farScore {
		t.Errorf("expected near match (%v) to outscore far match (%v)", closeScore, farScore)
	}
}
