// Package score attaches numeric scores to features from sorted per-position
// databases (methylome, nucleosome reads) and from expression tables.
package score

import (
	"bufio"
	"context"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
	"github.com/logic-fault/arabidopsis-project/feature"
	"github.com/logic-fault/arabidopsis-project/internal/tokens"
)

// entry is one "chromosome position value" line.
type entry struct {
	chrom string
	pos   feature.PosType
	value float64
}

// Accumulator sums the values of a sorted per-position database over a
// sequence of sorted ranges, reading the database once.
type Accumulator struct {
	sc      *bufio.Scanner
	lineIdx int
	tokens  [3][]byte
	err     error

	// pending is the entry read past the end of the previous range. It has
	// not been consumed and is considered first by the next Sum call.
	pending    entry
	hasPending bool

	closeFn func(ctx context.Context) error
}

// NewAccumulator creates an Accumulator reading from r.
func NewAccumulator(r io.Reader) *Accumulator {
	return &Accumulator{sc: bufio.NewScanner(r)}
}

// OpenAccumulator opens the database at path, which may be gzipped. The
// caller must Close it.
func OpenAccumulator(ctx context.Context, path string) (*Accumulator, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "score.OpenAccumulator:", path)
	}
	reader := io.Reader(f.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			_ = f.Close(ctx)
			return nil, errors.E(err, "score.OpenAccumulator:", path)
		}
	}
	a := NewAccumulator(reader)
	a.closeFn = f.Close
	return a, nil
}

// Sum returns the sum of the values of the entries on chrom with position in
// [start, end]. Ranges must be passed in sorted order; entries before the
// range are discarded.
func (a *Accumulator) Sum(chrom string, start, end feature.PosType) float64 {
	var sum float64
	for {
		if !a.hasPending && !a.next() {
			break
		}
		e := &a.pending
		cmp := feature.CompareChrom(e.chrom, chrom)
		if cmp > 0 || (cmp == 0 && e.pos > end) {
			break
		}
		a.hasPending = false
		if cmp == 0 && e.pos >= start {
			sum += e.value
		}
	}
	return sum
}

// next reads the next well-formed entry into a.pending.
func (a *Accumulator) next() bool {
	for a.sc.Scan() {
		a.lineIdx++
		line := a.sc.Bytes()
		n := tokens.Get(a.tokens[:], line)
		if n == 0 {
			continue
		}
		if n < len(a.tokens) {
			log.Error.Printf("score: line %d: expected 3 tokens, found %d", a.lineIdx, n)
			continue
		}
		pos, err := strconv.ParseUint(gunsafe.BytesToString(a.tokens[1]), 10, 32)
		if err != nil {
			log.Error.Printf("score: line %d: %v", a.lineIdx, err)
			continue
		}
		value, err := strconv.ParseFloat(gunsafe.BytesToString(a.tokens[2]), 64)
		if err != nil {
			log.Error.Printf("score: line %d: %v", a.lineIdx, err)
			continue
		}
		a.pending = entry{chrom: string(a.tokens[0]), pos: feature.PosType(pos), value: value}
		a.hasPending = true
		return true
	}
	a.err = a.sc.Err()
	return false
}

// Err returns the read error that ended the database, if any.
func (a *Accumulator) Err() error { return a.err }

// Close closes the database file, if the Accumulator opened it.
func (a *Accumulator) Close(ctx context.Context) error {
	if a.closeFn == nil {
		return nil
	}
	return a.closeFn(ctx)
}
