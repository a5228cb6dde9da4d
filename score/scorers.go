package score

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/logic-fault/arabidopsis-project/feature"
	"github.com/logic-fault/arabidopsis-project/internal/tokens"
)

// NucDensityAttr is the attribute set by the nucleosome scorer.
const NucDensityAttr = "nuc_density"

// density returns the per-base sum of acc over f.
func density(acc *Accumulator, f *feature.Feature) float64 {
	return acc.Sum(f.SeqName, f.FeatStart, f.FeatEnd) / float64(f.FeatEnd-f.FeatStart+1)
}

func intervalFeature(n feature.Node, cl feature.Classifier) *feature.Feature {
	if f, ok := n.(*feature.Feature); ok && cl.Classify(f) == feature.Interval {
		return f
	}
	return nil
}

// NewMethylationScorer returns a stream that sets the score of every
// Interval feature to its methylation density: the sum of the methylome
// values within the feature divided by its length.
func NewMethylationScorer(in feature.Stream, acc *Accumulator, cl feature.Classifier) *feature.Filter {
	return feature.NewFilter(in, func(n feature.Node) {
		if f := intervalFeature(n, cl); f != nil {
			f.SetScore(density(acc, f))
		}
	})
}

// NewNucleosomeScorer returns a stream that sets the nuc_density attribute
// of every Interval feature to the per-base nucleosome read count.
func NewNucleosomeScorer(in feature.Stream, acc *Accumulator, cl feature.Classifier) *feature.Filter {
	return feature.NewFilter(in, func(n feature.Node) {
		if f := intervalFeature(n, cl); f != nil {
			f.FeatAttributes.Set(NucDensityAttr, fmt.Sprintf("%f", density(acc, f)))
		}
	})
}

// ExpressionTable maps a gene name to its total expression.
type ExpressionTable map[string]float64

// ReadExpressionTable reads "name sample value" rows, separated by any
// whitespace, and sums the values per name. Lines starting with '#' are
// comments. Rows with fewer than three columns or an unparsable value are
// logged and skipped; extra columns are ignored.
func ReadExpressionTable(r io.Reader) (ExpressionTable, error) {
	var (
		sc   = bufio.NewScanner(r)
		toks [3][]byte
	)
	table := ExpressionTable{}
	for line := 1; sc.Scan(); line++ {
		n := tokens.Get(toks[:], sc.Bytes())
		if n == 0 || toks[0][0] == '#' {
			continue
		}
		if n < len(toks) {
			log.Error.Printf("score: expression row %d: expected 3 columns, found %d", line, n)
			continue
		}
		v, err := strconv.ParseFloat(gunsafe.BytesToString(toks[2]), 64)
		if err != nil {
			log.Error.Printf("score: expression row %d: %v", line, err)
			continue
		}
		table[string(toks[0])] += v
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// NewExpressionScorer returns a stream that sets the score of every Point
// feature, bare or the Point child of a composite, to the expression of its
// Name attribute. A name absent from the table scores 0; Points without a
// Name are left unscored.
func NewExpressionScorer(in feature.Stream, table ExpressionTable, cl feature.Classifier) *feature.Filter {
	return feature.NewFilter(in, func(n feature.Node) {
		f := feature.Unwrap(n, feature.Point, cl)
		if f == nil || cl.Classify(f) != feature.Point {
			return
		}
		name, ok := f.FeatAttributes.Get("Name")
		if !ok {
			return
		}
		f.SetScore(table[name])
	})
}
