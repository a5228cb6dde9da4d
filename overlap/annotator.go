// Package overlap annotates Point features (genes) with the name of the
// Interval feature (CpG island) containing their TSS.
//
// Annotator works on a single sorted stream carrying both kinds of feature.
// DBAnnotator looks the islands up in a separate sorted database file.
package overlap

import (
	"strconv"

	"github.com/grailbio/base/log"
	"github.com/logic-fault/arabidopsis-project/feature"
)

type state int

const (
	idle state = iota
	// building: a Point is buffered, waiting for an island.
	building
	// emptying: the buffer is being drained in arrival order.
	emptying
	done
)

// Annotator is a feature.Stream that annotates each Point whose TSS lies
// in the most recent island, whether the island arrived before the Point or
// is the next island after it. Nodes are emitted in arrival order.
//
// A Point is held until the next island, the next Point, or the end of the
// stream, together with the nodes that arrived after it.
type Annotator struct {
	in   feature.Stream
	opts Opts
	cl   feature.Classifier

	state state
	// buf holds nodes in arrival order while building. flush reverses it
	// and emptying pops from the end.
	buf []feature.Node
	// pending is the buffered Point.
	pending *feature.Feature
	// island is the most recent island.
	island *feature.Feature
	// deferred is a Point that arrived while another was buffered. It
	// starts the next buffer once the current one is drained.
	deferred      feature.Node
	deferredPoint *feature.Feature

	eof  bool
	err  error
	node feature.Node

	islands, points, annotated int
}

// NewAnnotator creates an Annotator reading from in.
func NewAnnotator(in feature.Stream, opts Opts) *Annotator {
	return &Annotator{in: in, opts: opts, cl: opts.classifier()}
}

// Scan implements feature.Stream.
func (a *Annotator) Scan() bool {
	for {
		switch a.state {
		case done:
			a.node = nil
			return false
		case emptying:
			if n := len(a.buf); n > 0 {
				a.node = a.buf[n-1]
				a.buf[n-1] = nil
				a.buf = a.buf[:n-1]
				return true
			}
			switch {
			case a.eof:
				a.state = done
				log.Printf("overlap: %d islands, %d of %d %s features annotated",
					a.islands, a.annotated, a.points, a.opts.PointType)
			case a.deferred != nil:
				a.buf = append(a.buf, a.deferred)
				a.pending = a.deferredPoint
				a.deferred, a.deferredPoint = nil, nil
				a.state = building
			default:
				a.state = idle
			}
			continue
		}
		if !a.in.Scan() {
			a.err = a.in.Err()
			a.eof = true
			a.flush()
			continue
		}
		if n := a.in.Node(); a.add(n) {
			a.node = n
			return true
		}
	}
}

// add consumes one upstream node. It returns true if n passes straight
// through.
func (a *Annotator) add(n feature.Node) bool {
	kind, f := classify(n, a.cl)
	switch kind {
	case feature.Point:
		a.points++
		if a.island != nil && a.island.Contains(f.SeqName, f.TSS()) {
			a.annotate(f)
			a.buf = append(a.buf, n)
			a.flush()
			return false
		}
		if a.state == building {
			a.deferred, a.deferredPoint = n, f
			a.flush()
			return false
		}
		a.buf = append(a.buf, n)
		a.pending = f
		a.state = building
	case feature.Interval:
		a.islands++
		if _, ok := f.FeatAttributes.Get("Name"); !ok {
			f.FeatAttributes.Set("Name", a.opts.NamePrefix+strconv.Itoa(a.islands))
		}
		a.island = f
		if a.pending != nil && f.Contains(a.pending.SeqName, a.pending.TSS()) {
			a.annotate(a.pending)
		}
		a.buf = append(a.buf, n)
		a.flush()
	default:
		if a.state != building {
			return true
		}
		a.buf = append(a.buf, n)
	}
	return false
}

func (a *Annotator) annotate(f *feature.Feature) {
	name, _ := a.island.FeatAttributes.Get("Name")
	f.FeatAttributes.Set(a.opts.AttrKey, name)
	a.annotated++
	log.Debug.Printf("overlap: %s %s:%d in %s", f.Name(), f.SeqName, f.TSS(), name)
}

func (a *Annotator) flush() {
	for i, j := 0, len(a.buf)-1; i < j; i, j = i+1, j-1 {
		a.buf[i], a.buf[j] = a.buf[j], a.buf[i]
	}
	a.pending = nil
	a.state = emptying
}

// Node implements feature.Stream.
func (a *Annotator) Node() feature.Node { return a.node }

// Err implements feature.Stream.
func (a *Annotator) Err() error { return a.err }

// Islands returns the number of islands seen so far.
func (a *Annotator) Islands() int { return a.islands }
