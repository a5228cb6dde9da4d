// Package gff3 reads and writes GFF3 feature files as feature.Node streams.
//
// The scanner groups a top-level feature with the features that follow it
// and name it (directly or transitively) as Parent, and consecutive lines of
// a multi-line feature (same ID), into a single feature.Composite, so that
// downstream stages handle the group as one unit.
package gff3

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/logic-fault/arabidopsis-project/feature"
	"github.com/pkg/errors"
)

const maxLineLen = 16 << 20

// Scanner reads GFF3 text and implements feature.Stream. Malformed feature
// lines are logged and skipped. Scanners are not thread safe.
type Scanner struct {
	b       *bufio.Scanner
	lineIdx int
	err     error
	eof     bool
	fasta   bool

	// group is the open feature group, ids the IDs declared in it.
	group []*feature.Feature
	ids   map[string]bool

	// ready holds nodes completed but not yet returned.
	ready   []feature.Node
	node    feature.Node
	skipped int
}

// NewScanner creates a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, maxLineLen)
	return &Scanner{b: b, ids: map[string]bool{}}
}

// Scan implements feature.Stream.
func (s *Scanner) Scan() bool {
	for len(s.ready) == 0 {
		if s.eof {
			s.node = nil
			return false
		}
		s.readLine()
	}
	s.node = s.ready[0]
	s.ready[0] = nil
	s.ready = s.ready[1:]
	return true
}

// Node implements feature.Stream.
func (s *Scanner) Node() feature.Node { return s.node }

// Err implements feature.Stream.
func (s *Scanner) Err() error { return s.err }

// Skipped returns the number of malformed lines dropped so far.
func (s *Scanner) Skipped() int { return s.skipped }

// readLine consumes one input line, appending to s.ready whatever it
// completes.
func (s *Scanner) readLine() {
	if !s.b.Scan() {
		s.err = s.b.Err()
		s.eof = true
		s.closeGroup()
		return
	}
	s.lineIdx++
	line := s.b.Text()
	if s.fasta {
		s.ready = append(s.ready, &feature.Directive{Line: line})
		return
	}
	if len(strings.TrimSpace(line)) == 0 {
		return
	}
	if line[0] == '#' || line[0] == '>' {
		s.closeGroup()
		if strings.HasPrefix(line, "##FASTA") || line[0] == '>' {
			s.fasta = true
		}
		s.ready = append(s.ready, &feature.Directive{Line: line})
		return
	}
	f, err := ParseLine(line)
	if err != nil {
		s.skipped++
		log.Error.Printf("gff3: skipping line %d: %v", s.lineIdx, err)
		return
	}
	if !s.joinsGroup(f) {
		s.closeGroup()
	}
	s.group = append(s.group, f)
	if id, ok := f.FeatAttributes.Get("ID"); ok {
		s.ids[id] = true
	}
}

func (s *Scanner) joinsGroup(f *feature.Feature) bool {
	if len(s.group) == 0 {
		return false
	}
	if id, ok := f.FeatAttributes.Get("ID"); ok && s.ids[id] {
		return true
	}
	parents, ok := f.FeatAttributes.Get("Parent")
	if !ok {
		return false
	}
	for _, p := range strings.Split(parents, ",") {
		if s.ids[p] {
			return true
		}
	}
	return false
}

func (s *Scanner) closeGroup() {
	switch len(s.group) {
	case 0:
		return
	case 1:
		s.ready = append(s.ready, s.group[0])
	default:
		s.ready = append(s.ready, &feature.Composite{Children: s.group})
	}
	s.group = nil
	for k := range s.ids {
		delete(s.ids, k)
	}
}

// ParseLine parses one tab-separated GFF3 feature line.
func ParseLine(line string) (*feature.Feature, error) {
	cols := strings.Split(line, "\t")
	if len(cols) != 9 {
		return nil, errors.Errorf("expected 9 tab-separated columns, found %d", len(cols))
	}
	start, err := strconv.ParseUint(cols[3], 10, 32)
	if err != nil {
		return nil, errors.Wrapf(err, "bad start %q", cols[3])
	}
	end, err := strconv.ParseUint(cols[4], 10, 32)
	if err != nil {
		return nil, errors.Wrapf(err, "bad end %q", cols[4])
	}
	if start > end {
		return nil, errors.Errorf("start %d > end %d", start, end)
	}
	f := &feature.Feature{
		SeqName:        cols[0],
		Source:         cols[1],
		Type:           cols[2],
		FeatStart:      feature.PosType(start),
		FeatEnd:        feature.PosType(end),
		FeatStrand:     feature.ParseStrand(cols[6]),
		StrandUnknown:  cols[6] == "?",
		FeatPhase:      cols[7],
		FeatAttributes: feature.ParseAttributes(cols[8]),
	}
	if cols[5] != "." {
		score, err := strconv.ParseFloat(cols[5], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad score %q", cols[5])
		}
		f.FeatScore = &score
	}
	return f, nil
}
