// Package pipeline assembles GFF3 annotation pipelines from a TOML
// description: a GFF3 input, a chain of stages, and a GFF3 output.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/logic-fault/arabidopsis-project/feature"
	"github.com/logic-fault/arabidopsis-project/overlap"
)

const ConfigHelp = `
The pipeline configuration format is TOML. The top-level fields are:
     input: path of the GFF3 input, optionally compressed (required)
    output: path of the GFF3 output; standard output if empty (optional)
    header: write a "##gff-version 3" line first (optional)
and an array field called 'stage', applied in order. Each stage has:
          kind: one of overlap, overlap-db, methylation, nucleosome,
                expression (required)
            db: the island database (overlap-db), the per-position
                database (methylation, nucleosome) or the expression table
                (expression); required except for overlap
    point_type: GFF3 type of the TSS-anchored features, default "gene"
 interval_type: GFF3 type of the islands, default "CpGI"
          attr: attribute set by the overlap stages, default "cpgi_at_tss"
   name_prefix: prefix of synthesized island names, default "CpGI_"

For example:

input = "TAIR10_genes_and_islands.gff3.gz"
output = "annotated.gff3"

[[stage]]
  kind = "overlap"

[[stage]]
  kind = "methylation"
  db = "methylome.txt.gz"
`

// Stage kinds.
const (
	KindOverlap     = "overlap"
	KindOverlapDB   = "overlap-db"
	KindMethylation = "methylation"
	KindNucleosome  = "nucleosome"
	KindExpression  = "expression"
)

// Config describes a pipeline.
type Config struct {
	Input  string  `toml:"input"`
	Output string  `toml:"output"`
	Header bool    `toml:"header"`
	Stages []Stage `toml:"stage"`
}

// Stage describes one pipeline stage.
type Stage struct {
	Kind         string `toml:"kind"`
	DB           string `toml:"db"`
	PointType    string `toml:"point_type"`
	IntervalType string `toml:"interval_type"`
	Attr         string `toml:"attr"`
	NamePrefix   string `toml:"name_prefix"`
}

// ParseConfig parses a TOML pipeline description. Unknown keys are an
// error.
func ParseConfig(data string) (Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown configuration keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// LoadConfig reads and parses the pipeline description at path.
func LoadConfig(ctx context.Context, path string) (Config, error) {
	data, err := file.ReadFile(ctx, path)
	if err != nil {
		return Config{}, errors.E(err, "pipeline.LoadConfig:", path)
	}
	cfg, err := ParseConfig(string(data))
	if err != nil {
		return Config{}, errors.E(err, "pipeline.LoadConfig:", path)
	}
	return cfg, nil
}

// Validate reports the first problem found in cfg.
func (cfg Config) Validate() error {
	if cfg.Input == "" {
		return fmt.Errorf("pipeline: no input")
	}
	for i, s := range cfg.Stages {
		switch s.Kind {
		case KindOverlap:
		case KindOverlapDB, KindMethylation, KindNucleosome, KindExpression:
			if s.DB == "" {
				return fmt.Errorf("pipeline: stage %d (%s): no db", i, s.Kind)
			}
		default:
			return fmt.Errorf("pipeline: stage %d: unknown kind %q", i, s.Kind)
		}
	}
	return nil
}

// opts returns the overlap options of s, defaulted from overlap.DefaultOpts.
func (s Stage) opts() overlap.Opts {
	opts := overlap.DefaultOpts
	if s.PointType != "" {
		opts.PointType = s.PointType
	}
	if s.IntervalType != "" {
		opts.IntervalType = s.IntervalType
	}
	if s.Attr != "" {
		opts.AttrKey = s.Attr
	}
	if s.NamePrefix != "" {
		opts.NamePrefix = s.NamePrefix
	}
	return opts
}

func (s Stage) classifier() feature.Classifier {
	opts := s.opts()
	return feature.Classifier{PointType: opts.PointType, IntervalType: opts.IntervalType}
}
