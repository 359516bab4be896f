package duckdb

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/motif-mark/internal/motif"
	"github.com/inodb/motif-mark/internal/scan"
)

// Hit is one stored motif occurrence.
type Hit struct {
	RunID      int64
	RecordID   string
	Motif      string
	MotifIndex int64
	Start      int64
	Length     int64
}

// RecordSummary is one stored record with its hit count.
type RecordSummary struct {
	RecordID   string
	SeqLength  int64
	ExonStart  int64
	ExonLength int64
	Hits       int64
}

// WriteRun stores the records and hits of one run and returns its run ID.
// Run IDs increase monotonically within a database.
func (s *Store) WriteRun(src FileFingerprint, motifs []motif.Motif, results []scan.Result) (int64, error) {
	var runID int64
	if err := s.db.QueryRow("SELECT COALESCE(MAX(run_id), 0) + 1 FROM runs").Scan(&runID); err != nil {
		return 0, fmt.Errorf("next run id: %w", err)
	}

	names := make([]string, len(motifs))
	for i, m := range motifs {
		names[i] = string(m)
	}
	var modTime any
	if !src.ModTime.IsZero() {
		modTime = src.ModTime.UTC()
	}
	if _, err := s.db.Exec(`INSERT INTO runs VALUES (?, ?, ?, ?, ?)`,
		runID, src.Path, src.Size, modTime, strings.Join(names, ",")); err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	err = conn.Raw(func(driverConn any) error {
		dc := driverConn.(driver.Conn)
		if err := appendTo(dc, "records", func(a *goduckdb.Appender) error {
			for _, res := range results {
				rec := res.Record
				if err := a.AppendRow(runID, rec.ID, int64(rec.Len()),
					int64(rec.ExonStart), int64(rec.ExonLength)); err != nil {
					return fmt.Errorf("append record: %w", err)
				}
			}
			return nil
		}); err != nil {
			return err
		}
		return appendTo(dc, "motif_hits", func(a *goduckdb.Appender) error {
			for _, res := range results {
				for _, h := range res.Hits {
					for _, off := range h.Offsets {
						if err := a.AppendRow(runID, res.Record.ID, string(h.Motif),
							int64(h.Index), int64(off), int64(len(h.Motif))); err != nil {
							return fmt.Errorf("append hit: %w", err)
						}
					}
				}
			}
			return nil
		})
	})
	if err != nil {
		if derr := s.deleteRun(runID); derr != nil {
			return 0, fmt.Errorf("%w (rollback: %v)", err, derr)
		}
		return 0, err
	}
	return runID, nil
}

// deleteRun removes every row of one run. Each table is attempted even
// when an earlier delete fails.
func (s *Store) deleteRun(runID int64) error {
	var errs []error
	for _, table := range []string{"motif_hits", "records", "runs"} {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE run_id = ?", runID); err != nil {
			errs = append(errs, fmt.Errorf("delete run %d from %s: %w", runID, table, err))
		}
	}
	return errors.Join(errs...)
}

// appendTo runs fill against an appender for table and flushes it.
func appendTo(dc driver.Conn, table string, fill func(*goduckdb.Appender) error) error {
	appender, err := goduckdb.NewAppenderFromConn(dc, "", table)
	if err != nil {
		return fmt.Errorf("create %s appender: %w", table, err)
	}
	defer appender.Close()

	if err := fill(appender); err != nil {
		return err
	}
	if err := appender.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", table, err)
	}
	return nil
}

// LatestRun returns the most recent run ID, or 0 if the store is empty.
func (s *Store) LatestRun() (int64, error) {
	var runID int64
	if err := s.db.QueryRow("SELECT COALESCE(MAX(run_id), 0) FROM runs").Scan(&runID); err != nil {
		return 0, fmt.Errorf("latest run: %w", err)
	}
	return runID, nil
}

// LookupHits returns the hits of a record in the given run, ordered by
// motif declaration and start offset.
func (s *Store) LookupHits(runID int64, recordID string) ([]Hit, error) {
	rows, err := s.db.Query(`SELECT run_id, record_id, motif, motif_index, start, length
		FROM motif_hits
		WHERE run_id=? AND record_id=?
		ORDER BY motif_index, start`, runID, recordID)
	if err != nil {
		return nil, fmt.Errorf("query hits: %w", err)
	}
	defer rows.Close()

	var out []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.RunID, &h.RecordID, &h.Motif, &h.MotifIndex, &h.Start, &h.Length); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hits: %w", err)
	}
	return out, nil
}

// Records lists the records of a run in insertion order with their hit
// counts.
func (s *Store) Records(runID int64) ([]RecordSummary, error) {
	rows, err := s.db.Query(`SELECT r.record_id, r.seq_length, r.exon_start, r.exon_length,
			(SELECT COUNT(*) FROM motif_hits h WHERE h.run_id = r.run_id AND h.record_id = r.record_id)
		FROM records r
		WHERE r.run_id=?
		ORDER BY r.rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []RecordSummary
	for rows.Next() {
		var r RecordSummary
		if err := rows.Scan(&r.RecordID, &r.SeqLength, &r.ExonStart, &r.ExonLength, &r.Hits); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// CountByMotif returns the number of hits per motif in a run.
func (s *Store) CountByMotif(runID int64) (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT motif, COUNT(*) FROM motif_hits
		WHERE run_id=? GROUP BY motif`, runID)
	if err != nil {
		return nil, fmt.Errorf("count hits: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var m string
		var n int64
		if err := rows.Scan(&m, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[m] = n
	}
	return counts, rows.Err()
}

// ClearRuns removes every stored run.
func (s *Store) ClearRuns() error {
	for _, table := range []string{"motif_hits", "records", "runs"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
