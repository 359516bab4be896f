package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/motif-mark/internal/gene"
	"github.com/inodb/motif-mark/internal/motif"
	"github.com/inodb/motif-mark/internal/scan"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResults(t *testing.T) ([]motif.Motif, []scan.Result) {
	t.Helper()
	motifs := []motif.Motif{"AA", "cgt"}
	patterns, err := motif.CompileAll(motifs)
	require.NoError(t, err)
	sc := scan.NewScanner(patterns)

	var results []scan.Result
	for _, r := range [][2]string{
		{"geneA", "acgtACGTacgtAAGT"},
		{"geneB", "ggggCCCCgggg"},
	} {
		rec, err := gene.NewRecord(r[0], r[1])
		require.NoError(t, err)
		results = append(results, sc.Scan(rec))
	}
	return motifs, results
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.db)

	runID, err := s.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, int64(0), runID)
}

func TestWriteRunAndLookupHits(t *testing.T) {
	s := openInMemory(t)
	motifs, results := sampleResults(t)

	src := FileFingerprint{Path: "genes.fa", Size: 42, ModTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	runID, err := s.WriteRun(src, motifs, results)
	require.NoError(t, err)
	assert.Equal(t, int64(1), runID)

	hits, err := s.LookupHits(runID, "geneA")
	require.NoError(t, err)
	require.Len(t, hits, 4)
	assert.Equal(t, Hit{RunID: 1, RecordID: "geneA", Motif: "AA", MotifIndex: 0, Start: 12, Length: 2}, hits[0])
	assert.Equal(t, int64(1), hits[1].Start)
	assert.Equal(t, int64(5), hits[2].Start)
	assert.Equal(t, int64(9), hits[3].Start)

	hits, err = s.LookupHits(runID, "geneB")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRecords(t *testing.T) {
	s := openInMemory(t)
	motifs, results := sampleResults(t)
	runID, err := s.WriteRun(FileFingerprint{Path: "-"}, motifs, results)
	require.NoError(t, err)

	recs, err := s.Records(runID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, RecordSummary{RecordID: "geneA", SeqLength: 16, ExonStart: 4, ExonLength: 4, Hits: 4}, recs[0])
	assert.Equal(t, RecordSummary{RecordID: "geneB", SeqLength: 12, ExonStart: 4, ExonLength: 4, Hits: 0}, recs[1])
}

func TestCountByMotif(t *testing.T) {
	s := openInMemory(t)
	motifs, results := sampleResults(t)
	runID, err := s.WriteRun(FileFingerprint{Path: "genes.fa"}, motifs, results)
	require.NoError(t, err)

	counts, err := s.CountByMotif(runID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"AA": 1, "cgt": 3}, counts)
}

func TestRunsAreSeparate(t *testing.T) {
	s := openInMemory(t)
	motifs, results := sampleResults(t)

	first, err := s.WriteRun(FileFingerprint{Path: "a.fa"}, motifs, results)
	require.NoError(t, err)
	second, err := s.WriteRun(FileFingerprint{Path: "b.fa"}, motifs, results[:1])
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	latest, err := s.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, second, latest)

	recs, err := s.Records(second)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestClearRuns(t *testing.T) {
	s := openInMemory(t)
	motifs, results := sampleResults(t)
	runID, err := s.WriteRun(FileFingerprint{Path: "a.fa"}, motifs, results)
	require.NoError(t, err)

	require.NoError(t, s.ClearRuns())

	hits, err := s.LookupHits(runID, "geneA")
	require.NoError(t, err)
	assert.Empty(t, hits)
	latest, err := s.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, int64(0), latest)
}

func TestWriteRun_FailedAppendLeavesNoRun(t *testing.T) {
	s := openInMemory(t)
	motifs, results := sampleResults(t)
	first, err := s.WriteRun(FileFingerprint{Path: "a.fa"}, motifs, results)
	require.NoError(t, err)

	_, err = s.db.Exec("DROP TABLE motif_hits")
	require.NoError(t, err)

	_, err = s.WriteRun(FileFingerprint{Path: "b.fa"}, motifs, results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "motif_hits")

	latest, err := s.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, first, latest)

	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM records WHERE run_id > ?", first).Scan(&n))
	assert.Zero(t, n)
}

func TestOpenOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hits.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genes.fa")
	require.NoError(t, os.WriteFile(path, []byte(">g\nA\n"), 0644))

	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, fp.Path)
	assert.Equal(t, int64(5), fp.Size)
	assert.False(t, fp.ModTime.IsZero())

	fp, err = StatFile("-")
	require.NoError(t, err)
	assert.Equal(t, "-", fp.Path)

	_, err = StatFile(filepath.Join(t.TempDir(), "missing.fa"))
	assert.Error(t, err)
}
