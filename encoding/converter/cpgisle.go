package converter

// Utilities for converting island lists to GFF3.

import (
	"bufio"
	"io"
	"strconv"
	"unicode"

	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/logic-fault/arabidopsis-project/encoding/gff3"
	"github.com/logic-fault/arabidopsis-project/feature"
	"github.com/logic-fault/arabidopsis-project/internal/tokens"
	"github.com/pkg/errors"
)

// IslandType is the GFF3 type written for converted islands.
const IslandType = "CpGI"

// SumCGAttr holds the C+G count of a converted CpGIsle island.
const SumCGAttr = "sumcg"

func isNotAlnum(c byte) bool {
	return c >= 0x80 || !(unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)))
}

// CpGIsleToGFF3 converts a CpGIsle report to GFF3 CpGI features.
//
// The report is read as runs of letters and digits; other characters only
// separate them. "ID <seqid>" sets the sequence of the islands that follow,
// "FT CpG island <start> <end>" starts an island and a following
// "FT Sum C G <n>" sets its sumcg attribute. Returns the number of islands
// written.
func CpGIsleToGFF3(r io.Reader, w *gff3.Writer) (int, error) {
	var (
		sc      = bufio.NewScanner(r)
		toks    [5][]byte
		seqid   string
		pending *feature.Feature
		n       int
		lineIdx int
	)
	emit := func() error {
		if pending == nil {
			return nil
		}
		f := pending
		pending = nil
		n++
		return w.Write(f)
	}
	for sc.Scan() {
		lineIdx++
		nTok := tokens.GetSep(toks[:], sc.Bytes(), isNotAlnum)
		if nTok < 2 {
			continue
		}
		switch gunsafe.BytesToString(toks[0]) {
		case "ID":
			seqid = string(toks[1])
		case "FT":
			switch gunsafe.BytesToString(toks[1]) {
			case "CpG":
				if nTok < 5 {
					log.Error.Printf("converter: CpGIsle line %d: missing coordinates", lineIdx)
					continue
				}
				start, err := strconv.ParseUint(gunsafe.BytesToString(toks[3]), 10, 32)
				if err != nil {
					return n, errors.Wrapf(err, "CpGIsle line %d", lineIdx)
				}
				end, err := strconv.ParseUint(gunsafe.BytesToString(toks[4]), 10, 32)
				if err != nil {
					return n, errors.Wrapf(err, "CpGIsle line %d", lineIdx)
				}
				if err := emit(); err != nil {
					return n, err
				}
				pending = &feature.Feature{
					SeqName:   seqid,
					Type:      IslandType,
					FeatStart: feature.PosType(start),
					FeatEnd:   feature.PosType(end),
				}
			case "Sum":
				if pending == nil || nTok < 5 {
					continue
				}
				pending.FeatAttributes.Set(SumCGAttr, string(toks[4]))
				if err := emit(); err != nil {
					return n, err
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return n, err
	}
	return n, emit()
}

// IslandsToGFF3 converts an island database ("name chromosome start end"
// lines) to GFF3 CpGI features named after the first column. seqPrefix is
// prepended to the chromosome column, e.g. "Chr" for numeric chromosomes.
// Malformed lines are logged and skipped. Returns the number of islands
// written.
func IslandsToGFF3(r io.Reader, w *gff3.Writer, seqPrefix string) (int, error) {
	sc := bufio.NewScanner(r)
	var toks [4][]byte
	n, lineIdx := 0, 0
	for sc.Scan() {
		lineIdx++
		nTok := tokens.Get(toks[:], sc.Bytes())
		if nTok == 0 {
			continue
		}
		if nTok < len(toks) {
			log.Error.Printf("converter: island line %d: expected 4 tokens, found %d", lineIdx, nTok)
			continue
		}
		start, err := strconv.ParseUint(gunsafe.BytesToString(toks[2]), 10, 32)
		if err != nil {
			log.Error.Printf("converter: island line %d: %v", lineIdx, err)
			continue
		}
		end, err := strconv.ParseUint(gunsafe.BytesToString(toks[3]), 10, 32)
		if err != nil || start > end {
			log.Error.Printf("converter: island line %d: bad end %q", lineIdx, toks[3])
			continue
		}
		f := &feature.Feature{
			SeqName:   seqPrefix + string(toks[1]),
			Type:      IslandType,
			FeatStart: feature.PosType(start),
			FeatEnd:   feature.PosType(end),
		}
		f.FeatAttributes.Set("Name", string(toks[0]))
		if err := w.Write(f); err != nil {
			return n, err
		}
		n++
	}
	return n, sc.Err()
}
