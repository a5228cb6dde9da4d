package overlap

import (
	"context"

	"github.com/grailbio/base/log"
	"github.com/logic-fault/arabidopsis-project/feature"
	"github.com/logic-fault/arabidopsis-project/interval"
)

// DBAnnotator is a feature.Stream that looks up the TSS of each Point in an
// island database. Every node passes through unbuffered.
type DBAnnotator struct {
	*feature.Filter
	opts Opts
	cl   feature.Classifier
	s    *interval.Search
	db   *interval.DB

	points, annotated int
}

// NewDBAnnotator creates a DBAnnotator reading from in and querying s.
func NewDBAnnotator(in feature.Stream, s *interval.Search, opts Opts) *DBAnnotator {
	a := &DBAnnotator{opts: opts, cl: opts.classifier(), s: s}
	a.Filter = feature.NewFilter(in, a.annotate)
	return a
}

// OpenDBAnnotator opens the island database at path and creates a
// DBAnnotator over it. The caller must Close it.
func OpenDBAnnotator(ctx context.Context, in feature.Stream, path string, opts Opts) (*DBAnnotator, error) {
	db, err := interval.OpenDB(ctx, path)
	if err != nil {
		return nil, err
	}
	a := NewDBAnnotator(in, db.Search, opts)
	a.db = db
	return a, nil
}

func (a *DBAnnotator) annotate(n feature.Node) {
	kind, f := classify(n, a.cl)
	if kind != feature.Point {
		return
	}
	a.points++
	rec, ok := a.s.Find(f.SeqName, f.TSS())
	if !ok {
		return
	}
	f.FeatAttributes.Set(a.opts.AttrKey, rec.Name)
	a.annotated++
}

// Close closes the database, if the annotator opened it.
func (a *DBAnnotator) Close(ctx context.Context) error {
	log.Printf("overlap: %d of %d %s features annotated", a.annotated, a.points, a.opts.PointType)
	if a.db == nil {
		return nil
	}
	return a.db.Close(ctx)
}
