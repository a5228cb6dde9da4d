// Package tokens splits whitespace-delimited text lines without allocating.
package tokens

// Get identifies up to the first len(tokens) tokens from curLine, returning
// the number of tokens saved.  Any (group of) characters <= ' ' is treated as
// a delimiter.  The saved tokens alias curLine.
func Get(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// GetSep is like Get, but splits on any byte for which isSep returns true.
// Empty tokens are skipped.
func GetSep(tokens [][]byte, curLine []byte, isSep func(byte) bool) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if !isSep(curLine[pos]) {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if isSep(curLine[posEnd]) {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}
