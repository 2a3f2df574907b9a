// Package extract implements the diagnostic extraction engine: it
// splits raw compiler output into blocks, pulls structured fields out
// of each block, classifies severity, and maps reported line numbers
// onto concrete document ranges.
package extract

import "regexp"

// SplitBlocks partitions raw compiler output into delimiter-bounded
// blocks, in document order.
//
// The split is zero-width: every delimiter match starts a new block
// and the matched text remains the prefix of that block rather than
// being discarded. Text before the first match (an invocation banner,
// for example) is returned as its own block; it will typically fail
// record extraction downstream, which is handled there, not
// suppressed here. Empty input yields no blocks.
func SplitBlocks(text string, delimiter *regexp.Regexp) []string {
	if text == "" {
		return nil
	}

	locs := delimiter.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	var blocks []string
	if locs[0][0] > 0 {
		blocks = append(blocks, text[:locs[0][0]])
	}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, text[loc[0]:end])
	}
	return blocks
}
