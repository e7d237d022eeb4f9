package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Prithvi-2410/weatherforcast/internal/weather"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a weather.Store backed by a SQLite file, for deployments
// that want history to survive restarts.
type SQLiteStore struct {
	db     *sql.DB
	maxAge time.Duration
}

// NewSQLite opens (or creates) the database at path and prepares the
// samples table. maxAge <= 0 disables age-based pruning.
func NewSQLite(path string, maxAge time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		city TEXT NOT NULL,
		ts TEXT NOT NULL,
		temperature_c REAL NOT NULL,
		humidity_pct REAL NOT NULL,
		pressure_hpa REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_samples_city_ts ON samples(city, ts);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db, maxAge: maxAge}, nil
}

// SaveSample inserts a sample and prunes rows older than maxAge.
func (s *SQLiteStore) SaveSample(sample weather.Sample) error {
	_, err := s.db.Exec(
		`INSERT INTO samples(city, ts, temperature_c, humidity_pct, pressure_hpa) VALUES(?,?,?,?,?)`,
		sample.City,
		sample.Timestamp.UTC().Format(time.RFC3339),
		sample.TemperatureC,
		sample.HumidityPct,
		sample.PressureHpa,
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}

	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge).UTC().Format(time.RFC3339)
		if _, err := s.db.Exec(`DELETE FROM samples WHERE ts < ?`, cutoff); err != nil {
			return fmt.Errorf("prune samples: %w", err)
		}
	}

	return nil
}

// Latest returns the most recent sample for a city.
func (s *SQLiteStore) Latest(city string) (weather.Sample, error) {
	row := s.db.QueryRow(
		`SELECT city, ts, temperature_c, humidity_pct, pressure_hpa
		 FROM samples WHERE city = ? ORDER BY ts DESC LIMIT 1`, city)

	sample, err := scanSample(row)
	if err == sql.ErrNoRows {
		return weather.Sample{}, ErrNotFound
	}
	return sample, err
}

// Range returns all samples for a city between from and to (inclusive),
// oldest first.
func (s *SQLiteStore) Range(city string, from, to time.Time) ([]weather.Sample, error) {
	rows, err := s.db.Query(
		`SELECT city, ts, temperature_c, humidity_pct, pressure_hpa
		 FROM samples WHERE city = ? AND ts >= ? AND ts <= ? ORDER BY ts`,
		city,
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []weather.Sample
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (weather.Sample, error) {
	var (
		sample weather.Sample
		ts     string
	)
	if err := row.Scan(&sample.City, &ts, &sample.TemperatureC, &sample.HumidityPct, &sample.PressureHpa); err != nil {
		return weather.Sample{}, err
	}

	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return weather.Sample{}, fmt.Errorf("parse sample timestamp %q: %w", ts, err)
	}
	sample.Timestamp = parsed.UTC()
	return sample, nil
}
