package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/homedash/home-dash/services/dashboard/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("storage")

// ErrNilSample signals that a nil sample was provided for appending
var ErrNilSample = errors.New("nil sample")

// sqliteStore is the sqlite implementation for the samples history store
type sqliteStore struct {
	db                *sql.DB
	maxAgeSeconds     int
	maxCountPerMetric int
	cancelFunc        context.CancelFunc
	wg                sync.WaitGroup
}

// NewSQLiteStore creates the database, schema, and starts the age retention cleaner.
// The ":memory:" path yields a non-durable store whose history resets on restart.
func NewSQLiteStore(dbPath string, maxAgeSeconds int, maxCountPerMetric int) (*sqliteStore, error) {
	err := prepareDirectories(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial empty DB file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single connection keeps in-memory databases coherent across queries
	db.SetMaxOpenConns(1)

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &sqliteStore{
		db:                db,
		maxAgeSeconds:     maxAgeSeconds,
		maxCountPerMetric: maxCountPerMetric,
		cancelFunc:        cancel,
	}

	s.startRetentionCleaner(ctx)

	return s, nil
}

func prepareDirectories(dbPath string) error {
	if dbPath == ":memory:" {
		return nil
	}

	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS samples (
		metric_id TEXT    NOT NULL,
		timestamp INTEGER NOT NULL,
		data      TEXT    NOT NULL,
		PRIMARY KEY (metric_id, timestamp)
	);

	CREATE INDEX IF NOT EXISTS idx_samples_timestamp ON samples(timestamp);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Append persists a new sample and trims the metric's history beyond the configured max
// count, oldest first, in the same transaction
func (s *sqliteStore) Append(ctx context.Context, sample *common.Sample) error {
	if sample == nil {
		return ErrNilSample
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO samples (metric_id, timestamp, data)
		VALUES (?, ?, ?)
	`, sample.MetricID, sample.Timestamp.UnixNano(), string(sample.Data))
	if err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}

	if s.maxCountPerMetric > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM samples
			WHERE metric_id = ?
			  AND rowid NOT IN (
				  SELECT rowid FROM samples
				  WHERE metric_id = ?
				  ORDER BY timestamp DESC
				  LIMIT ?
			  )
		`, sample.MetricID, sample.MetricID, s.maxCountPerMetric)
		if err != nil {
			return fmt.Errorf("failed to trim samples history: %w", err)
		}
	}

	return tx.Commit()
}

// Latest returns the most recent sample for the metric, or nil if none was ever stored
func (s *sqliteStore) Latest(ctx context.Context, metricID string) (*common.Sample, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT timestamp, data
		FROM samples
		WHERE metric_id = ?
		ORDER BY timestamp DESC
		LIMIT 1
	`, metricID)

	var timestamp int64
	var data string
	err := row.Scan(&timestamp, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &common.Sample{
		MetricID:  metricID,
		Timestamp: time.Unix(0, timestamp).UTC(),
		Data:      json.RawMessage(data),
	}, nil
}

// History returns up to limit most recent samples in ascending timestamp order. A limit
// of zero or less means latest-only mode and yields no history.
func (s *sqliteStore) History(ctx context.Context, metricID string, limit int) ([]common.Sample, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, data FROM (
			SELECT timestamp, data
			FROM samples
			WHERE metric_id = ?
			ORDER BY timestamp DESC
			LIMIT ?
		)
		ORDER BY timestamp ASC
	`, metricID, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	samples := make([]common.Sample, 0, limit)
	for rows.Next() {
		var timestamp int64
		var data string
		err = rows.Scan(&timestamp, &data)
		if err != nil {
			return nil, err
		}

		samples = append(samples, common.Sample{
			MetricID:  metricID,
			Timestamp: time.Unix(0, timestamp).UTC(),
			Data:      json.RawMessage(data),
		})
	}

	return samples, rows.Err()
}

func (s *sqliteStore) cleanRetainedSamples(ctx context.Context) error {
	if s.maxAgeSeconds <= 0 {
		return nil
	}

	cutoff := time.Now().Add(-time.Duration(s.maxAgeSeconds) * time.Second).UnixNano()
	_, err := s.db.ExecContext(ctx, "DELETE FROM samples WHERE timestamp < ?", cutoff)
	return err
}

func (s *sqliteStore) startRetentionCleaner(ctx context.Context) {
	if s.maxAgeSeconds <= 0 {
		return
	}

	s.wg.Add(1)

	// max(MaxAgeSeconds/10, 60)
	intervalSec := s.maxAgeSeconds / 10
	if intervalSec < 60 {
		intervalSec = 60
	}

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)

	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Debug("running retention cleanup")

				err := s.cleanRetainedSamples(ctx)
				if err != nil {
					log.Warn("failed to cleanup retained samples", "error", err)
				}
			}
		}
	}()
}

// Close closes the database and stops background routines
func (s *sqliteStore) Close() error {
	s.cancelFunc()
	s.wg.Wait()
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqliteStore) IsInterfaceNil() bool {
	return s == nil
}
