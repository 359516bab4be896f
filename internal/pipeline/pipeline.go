// Package pipeline runs the full motif marking workflow: read records and
// motifs, scan, lay out and write the diagram and hit tables.
package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/motif-mark/internal/fasta"
	"github.com/inodb/motif-mark/internal/gene"
	"github.com/inodb/motif-mark/internal/layout"
	"github.com/inodb/motif-mark/internal/motif"
	"github.com/inodb/motif-mark/internal/scan"
)

// Options control scanning and layout.
type Options struct {
	Geometry layout.Geometry
	Palette  layout.Palette
	Workers  int  // 0 uses runtime.NumCPU()
	Strict   bool // reject records with more than one uppercase run
	Lenient  bool // skip records that fail exon validation instead of failing
}

// DefaultOptions returns the standard geometry and palette.
func DefaultOptions() Options {
	return Options{
		Geometry: layout.DefaultGeometry,
		Palette:  layout.DefaultPalette,
	}
}

// Diagram is the outcome of marking a set of records.
type Diagram struct {
	Motifs     []motif.Motif
	Results    []scan.Result
	Primitives []layout.Primitive
	Skipped    []string // IDs of records dropped in lenient mode
}

// Pipeline turns FASTA entries and motif strings into a diagram.
type Pipeline struct {
	opts   Options
	logger *zap.Logger
}

// New creates a pipeline with the given options.
func New(opts Options) *Pipeline {
	if opts.Geometry.Scale == 0 {
		opts.Geometry = layout.DefaultGeometry
	}
	if len(opts.Palette) == 0 {
		opts.Palette = layout.DefaultPalette
	}
	return &Pipeline{opts: opts, logger: zap.NewNop()}
}

// SetLogger sets the logger for warning and info messages.
func (p *Pipeline) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Mark validates and compiles the motifs, builds records, scans them and
// lays out the diagram. The motif count is checked before anything else;
// any error aborts the whole run.
func (p *Pipeline) Mark(entries []fasta.Entry, rawMotifs []string) (*Diagram, error) {
	motifs := motif.Normalize(rawMotifs)
	patterns, err := motif.CompileAll(motifs)
	if err != nil {
		return nil, fmt.Errorf("compile motifs: %w", err)
	}

	records, skipped, err := p.records(entries)
	if err != nil {
		return nil, err
	}

	sc := scan.NewScanner(patterns)
	sc.SetLogger(p.logger)
	results := sc.ScanAll(records, p.opts.Workers)

	p.logger.Info("scanned records",
		zap.Int("records", len(results)),
		zap.Int("motifs", len(motifs)),
		zap.Int("skipped", len(skipped)))

	return &Diagram{
		Motifs:     motifs,
		Results:    results,
		Primitives: layout.Layout(results, motifs, p.opts.Palette, p.opts.Geometry),
		Skipped:    skipped,
	}, nil
}

func (p *Pipeline) records(entries []fasta.Entry) ([]*gene.Record, []string, error) {
	var skipped []string
	var skip fasta.SkipFunc
	if p.opts.Lenient {
		skip = func(e fasta.Entry, err error) bool {
			var nerr *gene.NoExonFoundError
			if !errors.As(err, &nerr) {
				return false
			}
			p.logger.Warn("skipping record", zap.String("id", e.ID), zap.Error(err))
			skipped = append(skipped, e.ID)
			return true
		}
	}
	records, err := fasta.Records(entries, p.opts.Strict, skip)
	if err != nil {
		return nil, nil, err
	}
	return records, skipped, nil
}
