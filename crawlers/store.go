package crawlers

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const tsLayout = "2006-01-02 15:04:05"

// Store persists crawler visits in SQLite.
type Store struct {
	db   *sql.DB
	salt string
}

// NewStore opens (or creates) the crawl log at path and prepares the schema
// and the IP hashing salt.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create crawl log dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open crawl log: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if err := s.initSalt(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// dsn applies the pragmas to every pooled connection. WAL lets the stats
// endpoint read while the middleware writes; the busy timeout makes
// concurrent writers wait instead of failing with SQLITE_BUSY.
func dsn(path string) string {
	return "file:" + path +
		"?_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)"
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS crawler_visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			ip_hash TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			path TEXT NOT NULL,
			timestamp TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_crawler_visits_timestamp ON crawler_visits(timestamp);
		CREATE INDEX IF NOT EXISTS idx_crawler_visits_name ON crawler_visits(name);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// initSalt loads the per-installation salt, generating it on first run.
func (s *Store) initSalt(ctx context.Context) error {
	v, err := s.GetSetting(ctx, "hash_salt")
	if err != nil {
		return fmt.Errorf("read hash salt: %w", err)
	}
	if v == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}
		v = hex.EncodeToString(b)
		if err := s.SetSetting(ctx, "hash_salt", v); err != nil {
			return fmt.Errorf("store hash salt: %w", err)
		}
	}
	s.salt = v
	return nil
}

// HashIP returns the salted hash stored in place of the client IP.
func (s *Store) HashIP(ip string) string {
	return hashIP(s.salt, ip)
}

// GetSetting returns the value for key, or "" when unset.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

// SetSetting upserts key.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// Save records v.
func (s *Store) Save(ctx context.Context, v Visit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO crawler_visits (name, ip_hash, user_agent, path, timestamp) VALUES (?, ?, ?, ?, ?)`,
		v.Name, v.IPHash, v.UserAgent, v.Path, v.Timestamp.UTC().Format(tsLayout))
	if err != nil {
		return fmt.Errorf("save crawler visit: %w", err)
	}
	return nil
}

// Stats aggregates visits in [from, to).
func (s *Store) Stats(ctx context.Context, from, to time.Time) (*Stats, error) {
	lo, hi := from.UTC().Format(tsLayout), to.UTC().Format(tsLayout)
	stats := &Stats{
		Period:   from.UTC().Format("2006-01-02") + " to " + to.UTC().Format("2006-01-02"),
		TopBots:  []DimensionStat{},
		TopPages: []PageStat{},
		Daily:    []DailyCount{},
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM crawler_visits WHERE timestamp >= ? AND timestamp < ?`, lo, hi).
		Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("count crawler visits: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, COUNT(*) AS n FROM crawler_visits WHERE timestamp >= ? AND timestamp < ?
		 GROUP BY name ORDER BY n DESC, name LIMIT 20`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("top crawlers: %w", err)
	}
	for rows.Next() {
		var d DimensionStat
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.TopBots = append(stats.TopBots, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT path, COUNT(*) AS n FROM crawler_visits WHERE timestamp >= ? AND timestamp < ?
		 GROUP BY path ORDER BY n DESC, path LIMIT 20`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("top crawled pages: %w", err)
	}
	for rows.Next() {
		var p PageStat
		if err := rows.Scan(&p.Path, &p.Count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.TopPages = append(stats.TopPages, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT substr(timestamp, 1, 10) AS day, COUNT(*) FROM crawler_visits WHERE timestamp >= ? AND timestamp < ?
		 GROUP BY day ORDER BY day`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("daily crawler visits: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d DailyCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, err
		}
		stats.Daily = append(stats.Daily, d)
	}
	return stats, rows.Err()
}

// Cleanup removes visits older than retentionDays.
func (s *Store) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(tsLayout)
	res, err := s.db.ExecContext(ctx, `DELETE FROM crawler_visits WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup crawler visits: %w", err)
	}
	return res.RowsAffected()
}

// StartCleanupScheduler runs Cleanup every interval until the returned stop
// function is called. Failures go to onErr.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration, onErr func(error)) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if _, err := s.Cleanup(context.Background(), retentionDays); err != nil && onErr != nil {
					onErr(err)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
