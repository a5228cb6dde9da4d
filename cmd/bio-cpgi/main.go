package main

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/logic-fault/arabidopsis-project/encoding/converter"
	"github.com/logic-fault/arabidopsis-project/encoding/gff3"
	"github.com/logic-fault/arabidopsis-project/overlap"
	"github.com/logic-fault/arabidopsis-project/pipeline"
	"v.io/x/lib/cmdline"
)

// addTypeFlags registers the feature type flags shared by overlap and score.
func addTypeFlags(cmd *cmdline.Command, stage *pipeline.Stage) {
	cmd.Flags.StringVar(&stage.PointType, "point-type", overlap.DefaultOpts.PointType, "GFF3 type of the features anchored at their TSS")
	cmd.Flags.StringVar(&stage.IntervalType, "interval-type", overlap.DefaultOpts.IntervalType, "GFF3 type of the islands")
}

func newCmdOverlap() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "overlap",
		Short:    "Annotate genes with the CpG island at their TSS",
		ArgsName: "input.gff3",
		Long: `
Without -db, the input must carry the islands as features of type
-interval-type, sorted together with the genes. A gene is annotated with the
most recent island if it contains the gene's TSS, otherwise with the next
island if that does. Unnamed islands are named <-name-prefix><n> in order of
appearance.

With -db, islands are looked up in a sorted "name chromosome start end"
database, which must not be compressed.`,
	}
	var stage pipeline.Stage
	cfg := pipeline.Config{}
	cmd.Flags.StringVar(&stage.DB, "db", "", "Island database; if empty, islands are read from the input")
	cmd.Flags.StringVar(&stage.Attr, "attr", overlap.DefaultOpts.AttrKey, "Attribute set to the island name")
	cmd.Flags.StringVar(&stage.NamePrefix, "name-prefix", overlap.DefaultOpts.NamePrefix, "Prefix of synthesized island names")
	addTypeFlags(cmd, &stage)
	cmd.Flags.StringVar(&cfg.Output, "o", "", "Output GFF3 path; standard output if empty")
	cmd.Flags.BoolVar(&cfg.Header, "header", false, "Write a ##gff-version 3 line first")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("overlap takes one input path, but got %v", argv)
		}
		cfg.Input = argv[0]
		stage.Kind = pipeline.KindOverlap
		if stage.DB != "" {
			stage.Kind = pipeline.KindOverlapDB
		}
		cfg.Stages = []pipeline.Stage{stage}
		return pipeline.Run(vcontext.Background(), cfg)
	})
	return cmd
}

func newCmdScore() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "score",
		Short:    "Score islands and genes",
		ArgsName: "input.gff3",
		Long: `
-methylation sets the score of every island to the sum of the methylome
values within it divided by its length. -nucleosome sets the nuc_density
attribute of every island the same way. Both databases hold sorted
"chromosome position value" lines and may be gzipped. -expression sets the
score of every gene to the sum of the values listed for its Name in a
"name<TAB>sample<TAB>value" table.`,
	}
	var stage pipeline.Stage
	var methylation, nucleosome, expression string
	cfg := pipeline.Config{}
	cmd.Flags.StringVar(&methylation, "methylation", "", "Methylome database")
	cmd.Flags.StringVar(&nucleosome, "nucleosome", "", "Nucleosome read database")
	cmd.Flags.StringVar(&expression, "expression", "", "Expression table")
	addTypeFlags(cmd, &stage)
	cmd.Flags.StringVar(&cfg.Output, "o", "", "Output GFF3 path; standard output if empty")
	cmd.Flags.BoolVar(&cfg.Header, "header", false, "Write a ##gff-version 3 line first")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("score takes one input path, but got %v", argv)
		}
		cfg.Input = argv[0]
		for _, s := range []struct{ kind, db string }{
			{pipeline.KindMethylation, methylation},
			{pipeline.KindNucleosome, nucleosome},
			{pipeline.KindExpression, expression},
		} {
			if s.db == "" {
				continue
			}
			st := stage
			st.Kind, st.DB = s.kind, s.db
			cfg.Stages = append(cfg.Stages, st)
		}
		if len(cfg.Stages) == 0 {
			return fmt.Errorf("score: one of -methylation, -nucleosome or -expression is required")
		}
		return pipeline.Run(vcontext.Background(), cfg)
	})
	return cmd
}

func newCmdCpGIsleToGFF3() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "cpgisle-to-gff3",
		Short:    "Convert a CpGIsle report to GFF3",
		ArgsName: "input [output]",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) < 1 || len(argv) > 2 {
			return fmt.Errorf("cpgisle-to-gff3 takes input [output], but got %v", argv)
		}
		return convert(env, argv, func(r io.Reader, w io.Writer) error {
			gw := gff3.NewWriter(w, true)
			if _, err := converter.CpGIsleToGFF3(r, gw); err != nil {
				return err
			}
			return gw.Flush()
		})
	})
	return cmd
}

func newCmdIslandsToGFF3() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "islands-to-gff3",
		Short:    "Convert a \"name chromosome start end\" island list to GFF3",
		ArgsName: "input [output]",
	}
	seqPrefix := cmd.Flags.String("seq-prefix", "", "Prefix added to the chromosome column, e.g. Chr")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) < 1 || len(argv) > 2 {
			return fmt.Errorf("islands-to-gff3 takes input [output], but got %v", argv)
		}
		return convert(env, argv, func(r io.Reader, w io.Writer) error {
			gw := gff3.NewWriter(w, true)
			if _, err := converter.IslandsToGFF3(r, gw, *seqPrefix); err != nil {
				return err
			}
			return gw.Flush()
		})
	})
	return cmd
}

func newCmdMethylExpress() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "methyl-express",
		Short:    "Pair gene expression levels with the methylation score of their island",
		ArgsName: "genes islands [output]",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) (err error) {
		if len(argv) < 2 || len(argv) > 3 {
			return fmt.Errorf("methyl-express takes genes islands [output], but got %v", argv)
		}
		ctx := vcontext.Background()
		islands, err := openInput(ctx, argv[1])
		if err != nil {
			return err
		}
		defer func() {
			if e := islands.Close(ctx); e != nil && err == nil {
				err = e
			}
		}()
		return convert(env, append(argv[:1], argv[2:]...), func(r io.Reader, w io.Writer) error {
			_, err := converter.JoinMethylationExpression(r, islands.r, w)
			return err
		})
	})
	return cmd
}

func newCmdRun() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "run",
		Short:    "Run a pipeline described in TOML",
		ArgsName: "config.toml",
		Long:     pipeline.ConfigHelp,
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("run takes one configuration path, but got %v", argv)
		}
		ctx := vcontext.Background()
		cfg, err := pipeline.LoadConfig(ctx, argv[0])
		if err != nil {
			return err
		}
		return pipeline.Run(ctx, cfg)
	})
	return cmd
}

type input struct {
	f file.File
	r io.Reader
}

func (in input) Close(ctx context.Context) error { return in.f.Close(ctx) }

// openInput opens path, decompressing it if its name says so.
func openInput(ctx context.Context, path string) (input, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return input{}, errors.E(err, "open", path)
	}
	var r io.Reader = f.Reader(ctx)
	if u := compress.NewReaderPath(r, f.Name()); u != nil {
		r = u
	}
	return input{f: f, r: r}, nil
}

// convert runs fn from argv[0] to argv[1], or to env.Stdout if argv has no
// second element.
func convert(env *cmdline.Env, argv []string, fn func(r io.Reader, w io.Writer) error) (err error) {
	ctx := vcontext.Background()
	in, err := openInput(ctx, argv[0])
	if err != nil {
		return err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	if len(argv) < 2 {
		return fn(in.r, env.Stdout)
	}
	out, err := file.Create(ctx, argv[1])
	if err != nil {
		return errors.E(err, "create", argv[1])
	}
	defer file.CloseAndReport(ctx, out, &err)
	return fn(in.r, out.Writer(ctx))
}

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-cpgi",
		Short:    "CpG island annotation of GFF3 gene models",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdOverlap(),
			newCmdScore(),
			newCmdCpGIsleToGFF3(),
			newCmdIslandsToGFF3(),
			newCmdMethylExpress(),
			newCmdRun(),
		},
	}
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdRoot())
}
