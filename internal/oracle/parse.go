// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oracle

import (
	"strconv"
	"strings"
)

// separatorTrim is stripped from the end of a token. A trailing "." is not
// in the set: "1." is a list marker, not an id.
const separatorTrim = ",;"

// wrapPairs are opening/closing runes removed when they enclose a token.
var wrapPairs = map[byte]byte{
	'(': ')', '[': ']', '{': '}', '"': '"', '\'': '\'', '`': '`', '*': '*',
}

// ParseIDs extracts integer ids from free-text oracle output in the order
// they appear. Tokens are split on any whitespace; tokens that do not parse
// are dropped, including numbered-list markers such as "1." and "2)".
// Duplicates are kept. It never fails: unusable output yields an empty slice.
func ParseIDs(text string) []int64 {
	ids := []int64{}
	for _, tok := range strings.Fields(text) {
		tok = unwrap(strings.TrimRight(tok, separatorTrim))
		if tok == "" {
			continue
		}
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// unwrap removes matching enclosing brackets, quotes or emphasis markers,
// then any separator left inside them: `("12",)` becomes 12.
func unwrap(tok string) string {
	for len(tok) >= 2 {
		closer, ok := wrapPairs[tok[0]]
		if !ok || tok[len(tok)-1] != closer {
			break
		}
		tok = strings.TrimRight(tok[1:len(tok)-1], separatorTrim)
	}
	return tok
}
