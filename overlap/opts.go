package overlap

import "github.com/logic-fault/arabidopsis-project/feature"

// Opts configures the annotators.
type Opts struct {
	// PointType is the GFF3 type of the features anchored at their TSS.
	PointType string
	// IntervalType is the GFF3 type of the islands.
	IntervalType string
	// AttrKey is the attribute set on a Point to the name of the island
	// containing its TSS.
	AttrKey string
	// NamePrefix is prepended to the sequence number of an island without a
	// Name attribute.
	NamePrefix string
}

// DefaultOpts annotates genes with the CpG island at their TSS.
var DefaultOpts = Opts{
	PointType:    "gene",
	IntervalType: "CpGI",
	AttrKey:      "cpgi_at_tss",
	NamePrefix:   "CpGI_",
}

func (o Opts) classifier() feature.Classifier {
	return feature.Classifier{PointType: o.PointType, IntervalType: o.IntervalType}
}

// classify returns the kind of n and the feature that carries it. A
// composite is a Point when one of its children is; its other children are
// passengers.
func classify(n feature.Node, cl feature.Classifier) (feature.Kind, *feature.Feature) {
	switch v := n.(type) {
	case *feature.Feature:
		return cl.Classify(v), v
	case *feature.Composite:
		if f := v.Find(feature.Point, cl); f != nil {
			return feature.Point, f
		}
	}
	return feature.Other, nil
}
