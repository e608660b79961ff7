// Package fuzzy provides text normalization and similarity scoring used to
// rank streaming-catalog search results.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	featRegex       = regexp.MustCompile(`(?i)\s*[\(\[]?\s*(?:feat\.?|ft\.?|featuring)\s+[^\)\]]*[\)\]]?\s*`)
	// Edition keywords may be preceded by a year or other tokens inside the
	// bracket, as in "(2011 Remaster)".
	versionRegex    = regexp.MustCompile(`(?i)\s*[\(\[][^\)\]]*\b(remaster|remastered|deluxe|extended|radio edit|mono|stereo)\b[^\)\]]*[\)\]]\s*`)
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeTitle strips featuring credits and edition suffixes so that
// catalog titles and user queries compare cleanly. The bracket patterns run
// before fold, which would otherwise erase the brackets they anchor on.
func (n *Normalizer) NormalizeTitle(title string) string {
	title = featRegex.ReplaceAllString(title, " ")
	title = versionRegex.ReplaceAllString(title, " ")
	return n.fold(title)
}

func (n *Normalizer) NormalizeArtist(artist string) string {
	artist = n.fold(artist)
	artist = strings.ReplaceAll(artist, " and ", " & ")
	return artist
}

// fold lowercases, strips diacritics and collapses punctuation.
func (n *Normalizer) fold(text string) string {
	text = norm.NFKD.String(text)

	var b strings.Builder
	for _, r := range text {
		if !unicode.IsMark(r) {
			b.WriteRune(r)
		}
	}
	text = punctRegex.ReplaceAllString(b.String(), " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")

	return strings.TrimSpace(strings.ToLower(text))
}

// Similarity scores two normalized strings in [0, 1] using the length of
// their longest common subsequence relative to the longer string.
func (n *Normalizer) Similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	longer := len(s1)
	if len(s2) > longer {
		longer = len(s2)
	}
	return float64(lcs(s1, s2)) / float64(longer)
}

func lcs(s1, s2 string) int {
	// Two-row DP keeps memory linear in the shorter string.
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			if s1[i-1] == s2[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
