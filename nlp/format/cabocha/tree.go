package cabocha

import (
	nlp "kintoki/nlp/types"

	"strings"

	"golang.org/x/text/width"
)

const (
	ARROW_HEAD     = "-D"
	ARROW_BAR      = " |"
	ARROW_LINE     = "--"
	ARROW_NONE     = "  "
	ARROW_ROW_STEP = 2
)

// RuneWidth is 2 for East-Asian wide and fullwidth runes, 1 otherwise
func RuneWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// DisplayWidth is the number of terminal columns the string occupies
func DisplayWidth(s string) int {
	var w int
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}

// writeTree draws one row per chunk; row i is shifted so that its surface
// ends in the column where arrows pointing at chunk i terminate
func writeTree(b *strings.Builder, tree *nlp.Tree) {
	size := tree.ChunkSize()
	if size == 0 {
		b.WriteString(EOS_NL)
		return
	}
	surfaces := make([]string, size)
	widths := make([]int, size)
	var maxLen int
	for i, chunk := range tree.Chunks {
		surfaces[i] = chunk.Surface()
		widths[i] = DisplayWidth(surfaces[i])
		if widths[i] > maxLen {
			maxLen = widths[i]
		}
	}
	// terminated[j] is set once an arrow ends at chunk j
	terminated := make([]bool, size)
	for i, chunk := range tree.Chunks {
		isDep := false
		b.WriteString(strings.Repeat(" ", maxLen-widths[i]+i*ARROW_ROW_STEP))
		b.WriteString(surfaces[i])
		for j := i + 1; j < size; j++ {
			switch {
			case chunk.Link == j:
				b.WriteString(ARROW_HEAD)
				isDep = true
				terminated[j] = true
			case terminated[j]:
				b.WriteString(ARROW_BAR)
			case isDep:
				b.WriteString(ARROW_NONE)
			default:
				b.WriteString(ARROW_LINE)
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(EOS_NL)
}
