package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/freqdict/internal/model"
)

// FileName is the database file created inside the database directory.
const FileName = "freqdict.db"

// timestampLayout is how build timestamps are stored.
const timestampLayout = "2006-01-02 15:04:05"

// HistoryDB provides SQLite-based storage for build history.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, ErrNotFound)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; batch builds share this handle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// ErrNotFound is returned when the database file does not exist and
// creation was not requested.
var ErrNotFound = errors.New("history database not found")

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		frequency_path TEXT NOT NULL,
		spellchecking_path TEXT,
		intermediate_path TEXT NOT NULL,
		output_path TEXT NOT NULL,
		entries INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL DEFAULT 0,
		min_score INTEGER NOT NULL DEFAULT 0,
		max_score INTEGER NOT NULL DEFAULT 0,
		clamped INTEGER NOT NULL DEFAULT 0,
		checksum TEXT,
		compiled INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		build_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_builds_name ON builds(name);
	CREATE INDEX IF NOT EXISTS idx_builds_timestamp ON builds(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveBuild records build and returns its database ID.
func (hdb *HistoryDB) SaveBuild(ctx context.Context, build *model.Build) (int64, error) {
	buildJSON, err := json.Marshal(build)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize build: %w", err)
	}

	query := `
	INSERT INTO builds (
		name, timestamp, frequency_path, spellchecking_path, intermediate_path,
		output_path, entries, total, min_score, max_score, clamped, checksum,
		compiled, error, build_json
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		build.Name,
		build.DateBuilt.UTC().Format(timestampLayout),
		build.FrequencyPath,
		build.SpellcheckingPath,
		build.IntermediatePath,
		build.OutputPath,
		build.EntryCount(),
		// SQLite integers are signed; totals beyond MaxInt64 are
		// rejected by the scaler long before this point.
		int64(build.Total), //nolint:gosec // bounded by freq.Total
		build.MinScore,
		build.MaxScore,
		build.Clamped,
		build.Checksum,
		build.Compiled,
		build.ErrorMessage,
		string(buildJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save build: %w", err)
	}

	return result.LastInsertId()
}

// LatestBuild retrieves the most recent build of a dictionary.
// It returns nil without error when the dictionary was never built.
func (hdb *HistoryDB) LatestBuild(ctx context.Context, name string) (*model.Build, error) {
	query := `
	SELECT build_json FROM builds
	WHERE name = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	return hdb.queryBuild(ctx, query, name)
}

// GetBuildByID retrieves a build by its database ID.
// It returns nil without error when no such build exists.
func (hdb *HistoryDB) GetBuildByID(ctx context.Context, id int64) (*model.Build, error) {
	query := `
	SELECT build_json FROM builds
	WHERE id = ?
	`

	return hdb.queryBuild(ctx, query, id)
}

func (hdb *HistoryDB) queryBuild(ctx context.Context, query string, arg any) (*model.Build, error) {
	var buildJSON string
	err := hdb.db.QueryRowContext(ctx, query, arg).Scan(&buildJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get build: %w", err)
	}

	var build model.Build
	if err := json.Unmarshal([]byte(buildJSON), &build); err != nil {
		return nil, fmt.Errorf("failed to parse build: %w", err)
	}

	return &build, nil
}

// ListDictionaries returns the names of all dictionaries with at least
// one recorded build, sorted by name.
func (hdb *HistoryDB) ListDictionaries(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT name FROM builds
	ORDER BY name
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list dictionaries: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan dictionary name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// BuildRecord contains summary information about a recorded build.
// It is used for listing history without decoding the full build.
type BuildRecord struct {
	// ID is the unique identifier of the build in the database.
	ID int64 `json:"id"`

	// Name is the dictionary name.
	Name string `json:"name"`

	// Timestamp is when the build started, in UTC.
	Timestamp time.Time `json:"timestamp"`

	// OutputPath is the compiled dictionary path.
	OutputPath string `json:"output_path"`

	// Entries is the number of words written.
	Entries int `json:"entries"`

	// Total is the sum of all kept counts.
	Total uint64 `json:"total"`

	// MinScore and MaxScore are the score extremes.
	MinScore int `json:"min_score"`
	MaxScore int `json:"max_score"`

	// Clamped counts scores forced into range.
	Clamped int `json:"clamped"`

	// Checksum is the SHA3-256 digest of the intermediate document.
	Checksum string `json:"checksum,omitempty"`

	// Compiled reports whether the compiler ran successfully.
	Compiled bool `json:"compiled"`

	// Error is the failure message, empty for successful builds.
	Error string `json:"error,omitempty"`
}

// History returns build records, newest first. An empty name returns
// the history of every dictionary.
func (hdb *HistoryDB) History(ctx context.Context, name string) ([]BuildRecord, error) {
	query := `
	SELECT id, name, timestamp, output_path, entries, total, min_score, max_score,
		clamped, checksum, compiled, error
	FROM builds
	`
	args := make([]any, 0, 1)
	if name != "" {
		query += " WHERE name = ?"
		args = append(args, name)
	}
	query += " ORDER BY timestamp DESC, id DESC"

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get build history: %w", err)
	}
	defer rows.Close()

	var records []BuildRecord
	for rows.Next() {
		var (
			rec       BuildRecord
			timestamp string
			total     int64
			checksum  sql.NullString
			errMsg    sql.NullString
		)

		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&timestamp,
			&rec.OutputPath,
			&rec.Entries,
			&total,
			&rec.MinScore,
			&rec.MaxScore,
			&rec.Clamped,
			&checksum,
			&rec.Compiled,
			&errMsg,
		); err != nil {
			return nil, fmt.Errorf("failed to scan build record: %w", err)
		}

		rec.Timestamp = parseTimestamp(timestamp)
		rec.Total = uint64(total) //nolint:gosec // stored from a uint64
		rec.Checksum = checksum.String
		rec.Error = errMsg.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. It returns the zero time if no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
