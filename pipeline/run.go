package pipeline

import (
	"context"
	"io"
	"os"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/logic-fault/arabidopsis-project/encoding/gff3"
	"github.com/logic-fault/arabidopsis-project/feature"
	"github.com/logic-fault/arabidopsis-project/overlap"
	"github.com/logic-fault/arabidopsis-project/score"
)

type closeFunc func(ctx context.Context) error

// Run executes the pipeline described by cfg. Every file opened is closed
// before Run returns; the first error encountered is returned.
func Run(ctx context.Context, cfg Config) (err error) {
	if err = cfg.Validate(); err != nil {
		return err
	}
	var closers []closeFunc
	defer func() {
		e := errors.Once{}
		e.Set(err)
		for i := len(closers) - 1; i >= 0; i-- {
			e.Set(closers[i](ctx))
		}
		err = e.Err()
	}()

	in, err := file.Open(ctx, cfg.Input)
	if err != nil {
		return errors.E(err, "pipeline: open input", cfg.Input)
	}
	closers = append(closers, in.Close)
	var inr io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(inr, in.Name()); u != nil {
		inr = u
	}
	sc := gff3.NewScanner(inr)

	var s feature.Stream = sc
	for _, stage := range cfg.Stages {
		var closeFn closeFunc
		if s, closeFn, err = stage.build(ctx, s); err != nil {
			return err
		}
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	var w io.Writer = os.Stdout
	if cfg.Output != "" {
		out, err := file.Create(ctx, cfg.Output)
		if err != nil {
			return errors.E(err, "pipeline: create output", cfg.Output)
		}
		closers = append(closers, out.Close)
		w = out.Writer(ctx)
	}
	gw := gff3.NewWriter(w, cfg.Header)
	nodes := 0
	for s.Scan() {
		if err = gw.Write(s.Node()); err != nil {
			return err
		}
		nodes++
	}
	if err = s.Err(); err != nil {
		return errors.E(err, "pipeline: read", cfg.Input)
	}
	if err = gw.Flush(); err != nil {
		return err
	}
	log.Printf("pipeline: %s: %d records written, %d malformed lines skipped", cfg.Input, nodes, sc.Skipped())
	return nil
}

// build wraps in with the stream of stage s. The returned closeFunc, if
// non-nil, releases the files the stage opened.
func (s Stage) build(ctx context.Context, in feature.Stream) (feature.Stream, closeFunc, error) {
	switch s.Kind {
	case KindOverlap:
		return overlap.NewAnnotator(in, s.opts()), nil, nil
	case KindOverlapDB:
		a, err := overlap.OpenDBAnnotator(ctx, in, s.DB, s.opts())
		if err != nil {
			return nil, nil, err
		}
		return a, a.Close, nil
	case KindMethylation, KindNucleosome:
		acc, err := score.OpenAccumulator(ctx, s.DB)
		if err != nil {
			return nil, nil, err
		}
		closeAcc := func(ctx context.Context) error {
			err := acc.Close(ctx)
			if e := acc.Err(); e != nil {
				return errors.E(e, "pipeline: read", s.DB)
			}
			return err
		}
		if s.Kind == KindMethylation {
			return score.NewMethylationScorer(in, acc, s.classifier()), closeAcc, nil
		}
		return score.NewNucleosomeScorer(in, acc, s.classifier()), closeAcc, nil
	case KindExpression:
		table, err := readExpressionTable(ctx, s.DB)
		if err != nil {
			return nil, nil, err
		}
		return score.NewExpressionScorer(in, table, s.classifier()), nil, nil
	}
	return nil, nil, errors.E("pipeline: unknown stage kind", s.Kind)
}

func readExpressionTable(ctx context.Context, path string) (table score.ExpressionTable, err error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "pipeline: open expression table", path)
	}
	defer file.CloseAndReport(ctx, f, &err)
	var r io.Reader = f.Reader(ctx)
	if u := compress.NewReaderPath(r, f.Name()); u != nil {
		r = u
	}
	return score.ReadExpressionTable(r)
}
