package feature

// Stream is a pull-driven source of nodes. Scan advances to the next node
// and reports whether there is one. Once Scan returns false it never returns
// true again, and Err reports whether the stream stopped because of an error.
// Node returns the current node and may only be called after Scan returned
// true.
//
// Streams are not thread safe.
type Stream interface {
	Scan() bool
	Node() Node
	Err() error
}

// Filter is a one-to-one Stream stage: every upstream node is passed to fn,
// which may modify it in place, and then emitted.
type Filter struct {
	in   Stream
	fn   func(Node)
	node Node
}

// NewFilter creates a Filter reading from in.
func NewFilter(in Stream, fn func(Node)) *Filter {
	return &Filter{in: in, fn: fn}
}

// Scan implements Stream.
func (f *Filter) Scan() bool {
	if !f.in.Scan() {
		f.node = nil
		return false
	}
	f.node = f.in.Node()
	f.fn(f.node)
	return true
}

// Node implements Stream.
func (f *Filter) Node() Node { return f.node }

// Err implements Stream.
func (f *Filter) Err() error { return f.in.Err() }

// SliceStream is a Stream over an in-memory slice of nodes.
type SliceStream struct {
	nodes []Node
	i     int
}

// NewSliceStream creates a Stream yielding nodes in order.
func NewSliceStream(nodes []Node) *SliceStream {
	return &SliceStream{nodes: nodes, i: -1}
}

// Scan implements Stream.
func (s *SliceStream) Scan() bool {
	if s.i+1 >= len(s.nodes) {
		s.i = len(s.nodes)
		return false
	}
	s.i++
	return true
}

// Node implements Stream.
func (s *SliceStream) Node() Node { return s.nodes[s.i] }

// Err implements Stream.
func (s *SliceStream) Err() error { return nil }

// Collect drains s and returns every node it yields.
func Collect(s Stream) ([]Node, error) {
	var nodes []Node
	for s.Scan() {
		nodes = append(nodes, s.Node())
	}
	return nodes, s.Err()
}
