package feature

// Node is one record of a feature stream: a *Feature, a *Composite or a
// *Directive.
type Node interface {
	node()
}

func (*Feature) node()   {}
func (*Composite) node() {}
func (*Directive) node() {}

// Composite is a pseudo record wrapping a group of features that must be
// emitted together, e.g. a gene followed by its mRNAs and exons, or the
// lines of a multi-line feature. The wrapper, never a child, is what a stage
// buffers and emits.
type Composite struct {
	Children []*Feature
}

// Find returns the first child of kind k, or nil.
func (c *Composite) Find(k Kind, cl Classifier) *Feature {
	for _, child := range c.Children {
		if cl.Classify(child) == k {
			return child
		}
	}
	return nil
}

// Directive is a comment, pragma or embedded-sequence line, kept verbatim
// without the trailing newline.
type Directive struct {
	Line string
}

// Unwrap returns the feature a stage should classify for n: n itself for a
// *Feature, the first child of kind want for a *Composite, nil otherwise.
func Unwrap(n Node, want Kind, cl Classifier) *Feature {
	switch v := n.(type) {
	case *Feature:
		return v
	case *Composite:
		return v.Find(want, cl)
	}
	return nil
}
