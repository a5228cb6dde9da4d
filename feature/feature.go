package feature

import (
	"strconv"
	"strings"

	"github.com/biogo/biogo/feat"
)

// PosType is the coordinate type of features and database records.
type PosType uint32

// Kind classifies a feature for overlap purposes.
type Kind int

const (
	// Other features are never matched; they travel with their neighbours.
	Other Kind = iota
	// Point features (genes) are anchored at their TSS.
	Point
	// Interval features (CpG islands) are tested for containment of anchors.
	Interval
)

func (k Kind) String() string {
	switch k {
	case Point:
		return "point"
	case Interval:
		return "interval"
	}
	return "other"
}

// Classifier maps GFF3 type columns to a Kind.
type Classifier struct {
	PointType    string
	IntervalType string
}

// DefaultClassifier treats "gene" as Point and "CpGI" as Interval.
var DefaultClassifier = Classifier{PointType: "gene", IntervalType: "CpGI"}

// Classify returns the Kind of f.
func (c Classifier) Classify(f *Feature) Kind {
	switch f.Type {
	case c.PointType:
		return Point
	case c.IntervalType:
		return Interval
	}
	return Other
}

// Feature is one GFF3 feature line.
type Feature struct {
	// SeqName is the seqid column, e.g. "Chr1".
	SeqName string
	Source  string
	// Type is the type column, e.g. "gene" or "CpGI".
	Type string
	// FeatStart and FeatEnd are 1-based, closed.
	FeatStart PosType
	FeatEnd   PosType
	// FeatScore is nil when the score column is ".".
	FeatScore *float64
	// FeatStrand is feat.Forward for "+", feat.Reverse for "-" and
	// feat.NotOriented otherwise.
	FeatStrand feat.Orientation
	// StrandUnknown is set when the strand column was "?" (relevant but
	// unknown), which FeatStrand cannot tell apart from ".".
	StrandUnknown bool
	// FeatPhase is kept verbatim.
	FeatPhase      string
	FeatAttributes Attributes
}

var (
	_ feat.Feature  = (*Feature)(nil)
	_ feat.Orienter = (*Feature)(nil)
)

// TSS returns the anchor coordinate: FeatStart on the forward strand,
// FeatEnd otherwise.
func (f *Feature) TSS() PosType {
	if f.FeatStrand == feat.Forward {
		return f.FeatStart
	}
	return f.FeatEnd
}

// Contains reports whether pos on chrom lies within [FeatStart, FeatEnd].
func (f *Feature) Contains(chrom string, pos PosType) bool {
	return CompareChrom(f.SeqName, chrom) == 0 && f.FeatStart <= pos && pos <= f.FeatEnd
}

// SetScore sets the score column.
func (f *Feature) SetScore(v float64) { f.FeatScore = &v }

// Start returns the 0-based start of the feature.
func (f *Feature) Start() int { return int(f.FeatStart) - 1 }

// End returns the 0-based, exclusive end of the feature.
func (f *Feature) End() int { return int(f.FeatEnd) }

// Len returns the number of bases covered by the feature.
func (f *Feature) Len() int { return f.End() - f.Start() }

// Name returns the Name attribute, falling back to ID.
func (f *Feature) Name() string {
	if v, ok := f.FeatAttributes.Get("Name"); ok {
		return v
	}
	v, _ := f.FeatAttributes.Get("ID")
	return v
}

// Description returns the type column.
func (f *Feature) Description() string { return f.Type }

// Location returns nil; sequences are identified by SeqName only.
func (f *Feature) Location() feat.Feature { return nil }

// Orientation returns the strand.
func (f *Feature) Orientation() feat.Orientation { return f.FeatStrand }

// ParseStrand converts a GFF3 strand column.
func ParseStrand(s string) feat.Orientation {
	switch s {
	case "+":
		return feat.Forward
	case "-":
		return feat.Reverse
	}
	return feat.NotOriented
}

// StrandColumn returns the GFF3 strand column of f.
func (f *Feature) StrandColumn() string {
	if f.StrandUnknown && f.FeatStrand == feat.NotOriented {
		return "?"
	}
	return StrandString(f.FeatStrand)
}

// StrandString is the inverse of ParseStrand.
func StrandString(o feat.Orientation) string {
	switch o {
	case feat.Forward:
		return "+"
	case feat.Reverse:
		return "-"
	}
	return "."
}

// CompareChrom orders chromosome names. A leading "chr" (any case) is
// ignored, so "Chr2" and "2" compare equal, and numeric names compare
// numerically ("Chr2" < "Chr10"). Non-numeric names compare lexically and
// sort after numeric ones.
func CompareChrom(a, b string) int {
	a, b = stripChr(a), stripChr(b)
	if a == b {
		return 0
	}
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		if na < nb {
			return -1
		}
		if na > nb {
			return 1
		}
		return strings.Compare(a, b) // "01" vs "1"
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

func stripChr(c string) string {
	if len(c) > 3 && strings.EqualFold(c[:3], "chr") {
		return c[3:]
	}
	return c
}
