package pipeline

import (
	"bytes"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/inodb/motif-mark/internal/duckdb"
	"github.com/inodb/motif-mark/internal/fasta"
	"github.com/inodb/motif-mark/internal/layout"
	"github.com/inodb/motif-mark/internal/output"
	"github.com/inodb/motif-mark/internal/render"
)

// RunConfig names the inputs and outputs of a run.
type RunConfig struct {
	FastaPath string
	MotifPath string
	Output    string // image path
	Format    string // svg or png; guessed from Output when empty
	Canvas    render.Canvas
	HitsPath  string // optional TSV of motif hits
	DBPath    string // optional DuckDB hit store
}

// Run reads the inputs, marks them and writes every requested output.
// Nothing is written unless marking succeeds.
func (p *Pipeline) Run(cfg RunConfig) (*Diagram, error) {
	rawMotifs, err := fasta.ReadMotifFile(cfg.MotifPath)
	if err != nil {
		return nil, err
	}
	entries, err := fasta.ReadFile(cfg.FastaPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("loaded inputs",
		zap.String("fasta", cfg.FastaPath),
		zap.Int("records", len(entries)),
		zap.String("motifs", cfg.MotifPath))

	d, err := p.Mark(entries, rawMotifs)
	if err != nil {
		return nil, err
	}

	format := cfg.Format
	if format == "" {
		format = render.FormatFromPath(cfg.Output)
	}
	canvas := cfg.Canvas
	if canvas.Width == 0 || canvas.Height == 0 || canvas.Unit == 0 {
		canvas = render.DefaultCanvas
	}
	r, err := render.New(format, canvas)
	if err != nil {
		return nil, err
	}

	if maxX, maxY := layout.Bounds(d.Primitives); !canvas.Fits(maxX, maxY) {
		p.logger.Warn("diagram extends past the canvas",
			zap.Float64("max_x_px", maxX*canvas.Unit),
			zap.Float64("max_y_px", maxY*canvas.Unit),
			zap.Int("width", canvas.Width),
			zap.Int("height", canvas.Height))
	}

	var img bytes.Buffer
	if err := r.Render(&img, d.Primitives); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	if err := os.WriteFile(cfg.Output, img.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("write image: %w", err)
	}
	p.logger.Info("wrote diagram", zap.String("path", cfg.Output), zap.String("format", format))

	if cfg.HitsPath != "" {
		if err := writeHits(cfg.HitsPath, d); err != nil {
			return nil, err
		}
	}

	if cfg.DBPath != "" {
		runID, err := storeRun(cfg.DBPath, cfg.FastaPath, d)
		if err != nil {
			return nil, err
		}
		p.logger.Info("stored hits", zap.String("db", cfg.DBPath), zap.Int64("run_id", runID))
	}

	return d, nil
}

func writeHits(path string, d *Diagram) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create hits file: %w", err)
	}
	defer f.Close()

	var w output.HitWriter = output.NewTabWriter(f)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("write hits header: %w", err)
	}
	for _, res := range d.Results {
		if err := w.Write(res); err != nil {
			return fmt.Errorf("write hits: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush hits: %w", err)
	}
	return f.Close()
}

func storeRun(dbPath, fastaPath string, d *Diagram) (int64, error) {
	src, err := duckdb.StatFile(fastaPath)
	if err != nil {
		return 0, fmt.Errorf("stat FASTA file: %w", err)
	}
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	runID, err := store.WriteRun(src, d.Motifs, d.Results)
	if err != nil {
		return 0, fmt.Errorf("store hits: %w", err)
	}
	return runID, nil
}
