package converter

import (
	"bufio"
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/logic-fault/arabidopsis-project/internal/tokens"
)

func isListSep(c byte) bool {
	return c == ',' || c == ' ' || c == '\t'
}

// JoinMethylationExpression pairs each gene's expression level with the
// methylation score of its island.
//
// genes has one gene per line, with the expression level in the first
// column and the island name in the third; islands has "name score" lines.
// Columns are separated by any run of commas, spaces and tabs. For every gene
// whose island is listed, a "score<TAB>expression" line is written. Returns
// the number of lines written.
func JoinMethylationExpression(genes, islands io.Reader, w io.Writer) (int, error) {
	scores := map[string]string{}
	sc := bufio.NewScanner(islands)
	var toks [3][]byte
	for sc.Scan() {
		if tokens.GetSep(toks[:2], sc.Bytes(), isListSep) < 2 {
			continue
		}
		name := string(toks[0])
		if _, ok := scores[name]; !ok {
			scores[name] = string(toks[1])
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}

	out := tsv.NewWriter(w)
	n, missing := 0, 0
	sc = bufio.NewScanner(genes)
	for sc.Scan() {
		if tokens.GetSep(toks[:], sc.Bytes(), isListSep) < 3 {
			continue
		}
		score, ok := scores[gunsafe.BytesToString(toks[2])]
		if !ok {
			missing++
			continue
		}
		out.WriteString(score)
		out.WriteString(string(toks[0]))
		if err := out.EndLine(); err != nil {
			return n, err
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, err
	}
	log.Debug.Printf("converter: joined %d genes, %d without a scored island", n, missing)
	return n, out.Flush()
}
