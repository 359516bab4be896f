package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inodb/motif-mark/internal/duckdb"
	"github.com/inodb/motif-mark/internal/fasta"
	"github.com/inodb/motif-mark/internal/gene"
	"github.com/inodb/motif-mark/internal/iupac"
	"github.com/inodb/motif-mark/internal/layout"
	"github.com/inodb/motif-mark/internal/motif"
	"github.com/inodb/motif-mark/internal/render"
)

func TestMark_GeneA(t *testing.T) {
	p := New(DefaultOptions())
	d, err := p.Mark([]fasta.Entry{{ID: "geneA", Sequence: "acgtACGTacgtAAGT"}}, []string{"AA"})
	require.NoError(t, err)

	require.Len(t, d.Results, 1)
	assert.Equal(t, []int{12}, d.Results[0].Hits[0].Offsets)

	var legend, marks []layout.Primitive
	var exon *layout.Primitive
	for i, prim := range d.Primitives {
		switch {
		case prim.Row == layout.LegendRow:
			legend = append(legend, prim)
		case prim.Kind == layout.KindRect && prim.Color == layout.Black:
			exon = &d.Primitives[i]
		case prim.Kind == layout.KindRect:
			marks = append(marks, prim)
		}
	}
	require.Len(t, legend, 1)
	assert.Equal(t, "AA", legend[0].Content)

	require.NotNil(t, exon)
	assert.InDelta(t, 0.1+4.0/1000, exon.X0, 1e-9)
	assert.InDelta(t, 4.0/1000, exon.Width, 1e-9)

	require.Len(t, marks, 1)
	assert.InDelta(t, 0.1+12.0/1000, marks[0].X0, 1e-9)
	assert.Equal(t, 0, marks[0].Row)
}

func TestMark_TooManyMotifs(t *testing.T) {
	p := New(DefaultOptions())
	d, err := p.Mark([]fasta.Entry{{ID: "g", Sequence: "acGT"}},
		[]string{"A", "C", "G", "T", "N", "QQ"})
	assert.Nil(t, d)

	var terr *motif.TooManyMotifsError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, 6, terr.Count)
}

func TestMark_FiveMotifsDistinctLegend(t *testing.T) {
	p := New(DefaultOptions())
	d, err := p.Mark([]fasta.Entry{{ID: "g", Sequence: "acGTuu"}},
		[]string{"A", "C", "G", "T", "N"})
	require.NoError(t, err)

	xs := map[float64]bool{}
	colors := map[layout.Color]bool{}
	for _, prim := range d.Primitives {
		if prim.Row == layout.LegendRow {
			xs[prim.X0] = true
			colors[prim.Color] = true
		}
	}
	assert.Len(t, xs, 5)
	assert.Len(t, colors, 5)
}

func TestMark_DuplicateMotifsCollapse(t *testing.T) {
	p := New(DefaultOptions())
	d, err := p.Mark([]fasta.Entry{{ID: "g", Sequence: "acGT"}},
		[]string{"A", "A", "C", "", "G", "T", "N", "C"})
	require.NoError(t, err)
	assert.Equal(t, []motif.Motif{"A", "C", "G", "T", "N"}, d.Motifs)
}

func TestMark_UnknownCode(t *testing.T) {
	p := New(DefaultOptions())
	_, err := p.Mark([]fasta.Entry{{ID: "g", Sequence: "acGT"}}, []string{"ACGT", "AXG"})
	var uerr *iupac.UnknownCodeError
	require.True(t, errors.As(err, &uerr))
	assert.Contains(t, err.Error(), "AXG")
}

func TestMark_NoExonIsFatal(t *testing.T) {
	p := New(DefaultOptions())
	_, err := p.Mark([]fasta.Entry{
		{ID: "ok", Sequence: "acGT"},
		{ID: "bad", Sequence: "acgt"},
	}, []string{"A"})
	var nerr *gene.NoExonFoundError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "bad", nerr.ID)
}

func TestMark_MultipleRunsUseFirstUnlessStrict(t *testing.T) {
	entries := []fasta.Entry{{ID: "two", Sequence: "AcGt"}}

	d, err := New(DefaultOptions()).Mark(entries, []string{"A"})
	require.NoError(t, err)
	require.Len(t, d.Results, 1)
	assert.Equal(t, 0, d.Results[0].Record.ExonStart)
	assert.Equal(t, 1, d.Results[0].Record.ExonLength)

	opts := DefaultOptions()
	opts.Strict = true
	_, err = New(opts).Mark(entries, []string{"A"})
	var nerr *gene.NoExonFoundError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, 2, nerr.Runs)
}

func TestMark_LenientSkips(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	opts := DefaultOptions()
	opts.Strict = true
	opts.Lenient = true
	p := New(opts)
	p.SetLogger(zap.New(core))

	d, err := p.Mark([]fasta.Entry{
		{ID: "ok", Sequence: "acGT"},
		{ID: "none", Sequence: "acgt"},
		{ID: "two", Sequence: "AcGt"},
	}, []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"none", "two"}, d.Skipped)
	require.Len(t, d.Results, 1)
	assert.Equal(t, "ok", d.Results[0].Record.ID)
	assert.Equal(t, 2, logs.FilterMessage("skipping record").Len())
}

func TestMark_Idempotent(t *testing.T) {
	entries, err := fasta.ReadFile("../../testdata/genes.fa")
	require.NoError(t, err)
	motifs, err := fasta.ReadMotifFile("../../testdata/motifs.txt")
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Workers = 4
	first, err := New(opts).Mark(entries, motifs)
	require.NoError(t, err)
	second, err := New(opts).Mark(entries, motifs)
	require.NoError(t, err)
	assert.Equal(t, first.Primitives, second.Primitives)

	var a, b bytes.Buffer
	r := &render.SVG{Canvas: render.DefaultCanvas}
	require.NoError(t, r.Render(&a, first.Primitives))
	require.NoError(t, r.Render(&b, second.Primitives))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestMark_RowOrderFollowsInput(t *testing.T) {
	var entries []fasta.Entry
	for i := 0; i < 12; i++ {
		entries = append(entries, fasta.Entry{ID: fmt.Sprintf("g%02d", i), Sequence: "ttgcTTGCTtgc"})
	}
	opts := DefaultOptions()
	opts.Workers = 6
	d, err := New(opts).Mark(entries, []string{"YGCY"})
	require.NoError(t, err)

	rowMin := map[int]float64{}
	rowMax := map[int]float64{}
	for _, prim := range d.Primitives {
		if prim.Kind == layout.KindText && prim.Row >= 0 {
			assert.Equal(t, fmt.Sprintf("g%02d", prim.Row), prim.Content)
		}
		if _, ok := rowMin[prim.Row]; !ok {
			rowMin[prim.Row], rowMax[prim.Row] = prim.MinY(), prim.MaxY()
		}
		rowMin[prim.Row] = min(rowMin[prim.Row], prim.MinY())
		rowMax[prim.Row] = max(rowMax[prim.Row], prim.MaxY())
	}
	for i := 1; i < 12; i++ {
		assert.Less(t, rowMax[i-1], rowMin[i])
	}
}

func TestRun_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := RunConfig{
		FastaPath: "../../testdata/genes.fa",
		MotifPath: "../../testdata/motifs.txt",
		Output:    filepath.Join(dir, "motif_marked.svg"),
		HitsPath:  filepath.Join(dir, "hits.tsv"),
		DBPath:    filepath.Join(dir, "hits.duckdb"),
	}

	d, err := New(DefaultOptions()).Run(cfg)
	require.NoError(t, err)
	require.Len(t, d.Results, 2)

	svg, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(svg), "<?xml"))
	assert.Contains(t, string(svg), "<svg width=")
	assert.Contains(t, string(svg), ">INSR</text>")
	assert.Contains(t, string(svg), ">GCAUG</text>")

	hits, err := os.ReadFile(cfg.HitsPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(hits)), "\n")
	total := 0
	for _, res := range d.Results {
		total += res.HitCount()
	}
	assert.Len(t, lines, total+1)

	store, err := duckdb.Open(cfg.DBPath)
	require.NoError(t, err)
	defer store.Close()
	runID, err := store.LatestRun()
	require.NoError(t, err)
	recs, err := store.Records(runID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "INSR", recs[0].RecordID)
	assert.Equal(t, int64(d.Results[0].HitCount()), recs[0].Hits)
}

func TestRun_PNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "motif_marked.png")
	_, err := New(DefaultOptions()).Run(RunConfig{
		FastaPath: "../../testdata/genes.fa",
		MotifPath: "../../testdata/motifs.txt",
		Output:    out,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRun_FailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	motifs := filepath.Join(dir, "motifs.txt")
	require.NoError(t, os.WriteFile(motifs, []byte("A\nC\nG\nT\nN\nR\n"), 0644))
	out := filepath.Join(dir, "out.svg")

	_, err := New(DefaultOptions()).Run(RunConfig{
		FastaPath: "../../testdata/genes.fa",
		MotifPath: motifs,
		Output:    out,
	})
	var terr *motif.TooManyMotifsError
	require.True(t, errors.As(err, &terr))

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}
