package gff3

import (
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/tsv"
	"github.com/logic-fault/arabidopsis-project/feature"
)

// Header is the first line of every GFF3 file.
const Header = "##gff-version 3"

// Writer writes feature.Nodes as GFF3 text. Errors are latched: once a write
// fails, subsequent calls are no-ops and return the same error.
type Writer struct {
	w      *tsv.Writer
	header bool
	err    error
}

// NewWriter creates a Writer. If header is true, the "##gff-version 3" line
// is written before the first node.
func NewWriter(w io.Writer, header bool) *Writer {
	return &Writer{w: tsv.NewWriter(w), header: header}
}

// Write writes one node. A composite is written child by child.
func (w *Writer) Write(n feature.Node) error {
	if w.err != nil {
		return w.err
	}
	if w.header {
		w.header = false
		w.w.WriteString(Header)
		if w.err = w.w.EndLine(); w.err != nil {
			return w.err
		}
	}
	switch v := n.(type) {
	case *feature.Feature:
		w.err = w.writeFeature(v)
	case *feature.Composite:
		for _, child := range v.Children {
			if w.err = w.writeFeature(child); w.err != nil {
				break
			}
		}
	case *feature.Directive:
		w.w.WriteString(v.Line)
		w.err = w.w.EndLine()
	default:
		w.err = fmt.Errorf("gff3: unsupported node %T", n)
	}
	return w.err
}

func (w *Writer) writeFeature(f *feature.Feature) error {
	w.w.WriteString(f.SeqName)
	w.w.WriteString(orDot(f.Source))
	w.w.WriteString(f.Type)
	w.w.WriteUint32(uint32(f.FeatStart))
	w.w.WriteUint32(uint32(f.FeatEnd))
	if f.FeatScore == nil {
		w.w.WriteByte('.')
	} else {
		w.w.WriteString(strconv.FormatFloat(*f.FeatScore, 'g', -1, 64))
	}
	w.w.WriteString(f.StrandColumn())
	w.w.WriteString(orDot(f.FeatPhase))
	w.w.WriteString(f.FeatAttributes.String())
	return w.w.EndLine()
}

// Flush flushes buffered output.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
