package interval

import (
	"io"

	"github.com/grailbio/base/log"
	"github.com/logic-fault/arabidopsis-project/feature"
)

// Search finds the database record containing a position. Queries are
// expected in (mostly) non-decreasing order; each query resumes the forward
// scan where the previous one stopped and steps backward over lines it has
// already passed, so a sorted query stream reads the database about once.
//
// A Search owns its Cursor and is not thread safe.
type Search struct {
	c *Cursor

	queries, hits, malformed int
}

// NewSearch creates a Search over c.
func NewSearch(c *Cursor) *Search {
	return &Search{c: c}
}

// Find returns the record containing pos on chrom.
//
// The forward phase reads from the current cursor position, skipping
// records on lower chromosomes or ending before pos, and stops at the first
// record past pos, at EOF, or at a malformed line. The backward phase then
// steps line by line toward the beginning of the file, starting just before
// the offset the forward phase started at, and stops at the first record on
// a lower chromosome or starting before pos without containing it.
//
// On return the cursor is left where the forward phase stopped: after the
// matched line when it matched, otherwise at the start of the record that
// ended it.
func (s *Search) Find(chrom string, pos feature.PosType) (Record, bool) {
	s.queries++
	startPos := s.c.Pos()
	for {
		rec, err := s.c.ReadForward()
		if err != nil {
			if err != io.EOF {
				s.malformed++
				log.Error.Printf("interval: forward scan for %s:%d stopped: %v", chrom, pos, err)
			}
			break
		}
		if rec.Contains(chrom, pos) {
			s.hits++
			return rec, true
		}
		cmp := feature.CompareChrom(rec.Chrom, chrom)
		if cmp < 0 || (cmp == 0 && rec.End < pos) {
			continue
		}
		if err := s.c.SetPos(s.c.lineStart); err != nil {
			log.Error.Printf("interval: seek to %d: %v", s.c.lineStart, err)
		}
		break
	}
	stopPos := s.c.Pos()
	rec, ok := s.backward(startPos, chrom, pos)
	if err := s.c.SetPos(stopPos); err != nil {
		log.Error.Printf("interval: seek to %d: %v", stopPos, err)
	}
	if ok {
		s.hits++
	}
	return rec, ok
}

func (s *Search) backward(from int64, chrom string, pos feature.PosType) (Record, bool) {
	cur := from
	for {
		prev, err := s.c.SeekToPreviousLine(cur)
		if err == ErrBeginningOfFile {
			return Record{}, false
		}
		if err != nil {
			log.Error.Printf("interval: backward scan for %s:%d stopped: %v", chrom, pos, err)
			return Record{}, false
		}
		rec, err := s.c.ReadForward()
		switch {
		case err == io.EOF:
			cur = prev
			continue
		case err != nil:
			s.malformed++
			log.Error.Printf("interval: skipping %v", err)
			cur = prev
			continue
		case s.c.lineStart != prev:
			// Blank line; ReadForward went on to a line already examined.
			cur = prev
			continue
		}
		if rec.Contains(chrom, pos) {
			return rec, true
		}
		cmp := feature.CompareChrom(rec.Chrom, chrom)
		if cmp < 0 || (cmp == 0 && rec.Start < pos) {
			return Record{}, false
		}
		log.Debug.Printf("interval: %s:%d stepping back past %s %s:%d-%d", chrom, pos, rec.Name, rec.Chrom, rec.Start, rec.End)
		cur = prev
	}
}

// Stats returns the number of queries, the number of hits, and the number of
// malformed lines encountered so far.
func (s *Search) Stats() (queries, hits, malformed int) {
	return s.queries, s.hits, s.malformed
}
