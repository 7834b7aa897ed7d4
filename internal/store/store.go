package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/study-productivity/internal/productivity"
)

// #region schema
// TimeLayout is a fixed-width UTC layout so that stored timestamps sort
// lexicographically in both dialects.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS evaluations (
	id                 TEXT PRIMARY KEY,
	duration           REAL NOT NULL,
	interruptions      TEXT NOT NULL,
	target             TEXT NOT NULL,
	tasks_completed    INTEGER NOT NULL,
	study_time_of_day  TEXT NOT NULL,
	score              INTEGER NOT NULL,
	category           TEXT NOT NULL,
	recommendation     TEXT NOT NULL,
	created_at         TEXT NOT NULL,
	updated_at         TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_evaluations_created ON evaluations(created_at)`,
	`CREATE TABLE IF NOT EXISTS evaluation_trace (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	evaluation_id  TEXT,
	trigger_type   TEXT NOT NULL,
	trace_json     TEXT NOT NULL,
	score          INTEGER NOT NULL,
	category       TEXT NOT NULL,
	created_at     TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_trace_evaluation ON evaluation_trace(evaluation_id)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS evaluations (
	id                 VARCHAR(36)  NOT NULL,
	duration           DOUBLE       NOT NULL,
	interruptions      VARCHAR(32)  NOT NULL,
	target             VARCHAR(32)  NOT NULL,
	tasks_completed    INT          NOT NULL,
	study_time_of_day  VARCHAR(32)  NOT NULL,
	score              INT          NOT NULL,
	category           VARCHAR(32)  NOT NULL,
	recommendation     TEXT         NOT NULL,
	created_at         VARCHAR(40)  NOT NULL,
	updated_at         VARCHAR(40)  NOT NULL,
	PRIMARY KEY (id),
	INDEX idx_evaluations_created (created_at)
)`,
	`CREATE TABLE IF NOT EXISTS evaluation_trace (
	id             BIGINT       NOT NULL AUTO_INCREMENT,
	evaluation_id  VARCHAR(36),
	trigger_type   VARCHAR(32)  NOT NULL,
	trace_json     MEDIUMTEXT   NOT NULL,
	score          INT          NOT NULL,
	category       VARCHAR(32)  NOT NULL,
	created_at     VARCHAR(40)  NOT NULL,
	PRIMARY KEY (id),
	INDEX idx_trace_evaluation (evaluation_id)
)`,
}

// #endregion schema

// #region store-struct
// Store persists evaluation records over database/sql.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// #endregion store-struct

// #region constructor
// NewStore opens a database with the given driver and runs migrations.
func NewStore(driver, dsn string) (*Store, error) {
	var schema []string
	switch driver {
	case DriverSQLite:
		schema = sqliteSchema
	case DriverMySQL:
		schema = mysqlSchema
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if driver == DriverSQLite {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma: %w", err)
		}
		if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma busy_timeout: %w", err)
		}
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping: %w", err)
		}
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &Store{db: db, driver: driver, now: time.Now}, nil
}

// NewSQLiteStore opens (or creates) a SQLite database file.
func NewSQLiteStore(path string) (*Store, error) {
	return NewStore(DriverSQLite, path)
}

// MySQLConfig holds connection settings for the MySQL dialect.
type MySQLConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// DSN formats the connection string for the go-sql-driver.
func (c MySQLConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.Username
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Host + ":" + c.Port
	cfg.DBName = c.Database
	return cfg.FormatDSN()
}

// NewMySQLStore connects to MySQL and runs migrations.
func NewMySQLStore(c MySQLConfig) (*Store, error) {
	return NewStore(DriverMySQL, c.DSN())
}

// #endregion constructor

// #region accessors
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the dialect the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// #endregion accessors

// #region insert
// Insert stores a new record, assigning its id and timestamps.
func (s *Store) Insert(ctx context.Context, rec Record) (Record, error) {
	now := s.now().UTC()
	rec.ID = uuid.New().String()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluations (id, duration, interruptions, target, tasks_completed, study_time_of_day,
		 score, category, recommendation, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Duration, string(rec.Interruptions), string(rec.Target), rec.TasksCompleted,
		string(rec.StudyTimeOfDay), rec.Score, string(rec.Category), rec.Recommendation,
		now.Format(TimeLayout), now.Format(TimeLayout),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert evaluation: %w", err)
	}
	return rec, nil
}

// #endregion insert

// #region get
const selectColumns = `SELECT id, duration, interruptions, target, tasks_completed, study_time_of_day,
	score, category, recommendation, created_at, updated_at FROM evaluations`

// Get retrieves a record by id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("get evaluation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get evaluation %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get

// #region list
// List returns up to limit records, newest first. A non-positive limit
// returns every record.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := selectColumns + ` ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list

// #region update
// Update replaces the input and result of an existing record.
func (s *Store) Update(ctx context.Context, id string, rec Record) (Record, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}

	now := s.now().UTC()
	_, err = s.db.ExecContext(ctx,
		`UPDATE evaluations SET duration = ?, interruptions = ?, target = ?, tasks_completed = ?,
		 study_time_of_day = ?, score = ?, category = ?, recommendation = ?, updated_at = ?
		 WHERE id = ?`,
		rec.Duration, string(rec.Interruptions), string(rec.Target), rec.TasksCompleted,
		string(rec.StudyTimeOfDay), rec.Score, string(rec.Category), rec.Recommendation,
		now.Format(TimeLayout), id,
	)
	if err != nil {
		return Record{}, fmt.Errorf("update evaluation %s: %w", id, err)
	}

	rec.ID = id
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = now
	return rec, nil
}

// #endregion update

// #region delete
// Delete removes a record by id together with its trace rows.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete evaluation %s: %w", id, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM evaluations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete evaluation %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete evaluation %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete evaluation %s: %w", id, ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM evaluation_trace WHERE evaluation_id = ?`, id); err != nil {
		return fmt.Errorf("delete traces %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete evaluation %s: %w", id, err)
	}
	return nil
}

// #endregion delete

// #region dashboard
// WeeklyWindow is the number of recent records shown in the trend chart.
const WeeklyWindow = 7

// Dashboard reports the latest record created since local midnight of now
// and the last WeeklyWindow records in chronological order.
func (s *Store) Dashboard(ctx context.Context, now time.Time) (DashboardStats, error) {
	stats := DashboardStats{TodayCategory: "-", WeeklyData: []WeeklyPoint{}}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	row := s.db.QueryRowContext(ctx,
		selectColumns+` WHERE created_at >= ? ORDER BY created_at DESC LIMIT 1`,
		startOfDay.UTC().Format(TimeLayout),
	)
	today, err := scanRecord(row)
	switch {
	case err == nil:
		stats.TodayScore = today.Score
		stats.TodayCategory = string(today.Category)
	case !errors.Is(err, sql.ErrNoRows):
		return DashboardStats{}, fmt.Errorf("today's evaluation: %w", err)
	}

	recent, err := s.List(ctx, WeeklyWindow)
	if err != nil {
		return DashboardStats{}, err
	}
	for i := len(recent) - 1; i >= 0; i-- {
		stats.WeeklyData = append(stats.WeeklyData, WeeklyPoint{
			Name:  recent[i].CreatedAt.In(now.Location()).Weekday().String()[:3],
			Score: recent[i].Score,
		})
	}
	return stats, nil
}

// #endregion dashboard

// #region scan
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(r rowScanner) (Record, error) {
	var rec Record
	var interruptions, target, tod, category string
	var createdStr, updatedStr string

	err := r.Scan(&rec.ID, &rec.Duration, &interruptions, &target, &rec.TasksCompleted, &tod,
		&rec.Score, &category, &rec.Recommendation, &createdStr, &updatedStr)
	if err != nil {
		return Record{}, err
	}
	rec.Interruptions = productivity.Interruptions(interruptions)
	rec.Target = productivity.Target(target)
	rec.StudyTimeOfDay = productivity.TimeOfDay(tod)
	rec.Category = productivity.Category(category)
	rec.CreatedAt, _ = time.Parse(TimeLayout, createdStr)
	rec.UpdatedAt, _ = time.Parse(TimeLayout, updatedStr)
	return rec, nil
}

// #endregion scan
