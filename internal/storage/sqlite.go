package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"brandpulse/internal"
)

// SQLiteStore keeps the warehouse tables in a local sqlite database. One
// sqlite table is created per qualified table id, with dots flattened.
type SQLiteStore struct {
	conn *sql.DB

	mu      sync.Mutex
	created map[string]struct{}
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &SQLiteStore{conn: conn, created: map[string]struct{}{}}, nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func flatten(tableID string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(tableID)
}

func (s *SQLiteStore) ensure(ctx context.Context, name, schema string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.created[name]; ok {
		return nil
	}
	if _, err := s.conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+name+` `+schema); err != nil {
		return err
	}
	s.created[name] = struct{}{}
	return nil
}

const responsesSchema = `(
  age TEXT,
  gender TEXT,
  geo TEXT,
  client_type TEXT,
  recorded_timestamp TEXT,
  session_weight REAL,
  survey_date TEXT,
  processed_date TEXT,
  q1_answer TEXT,
  q2_answer TEXT,
  q3_answer TEXT,
  q1_cleaned TEXT,
  q2_cleaned TEXT,
  study_number TEXT,
  group_type TEXT,
  group_number TEXT
)`

const aggregatesSchema = `(
  age TEXT,
  gender TEXT,
  geo TEXT,
  client_type TEXT,
  session_weight REAL,
  survey_dates TEXT,
  survey_date TEXT,
  processed_date TEXT,
  study_number TEXT,
  answer TEXT,
  group_type TEXT,
  group_number TEXT,
  count_response INTEGER,
  weighted_response REAL
)`

const processedSchema = `(
  filename TEXT PRIMARY KEY,
  survey_type TEXT,
  group_type TEXT,
  group_number TEXT,
  q1_response_count INTEGER,
  q2_response_count INTEGER,
  q3_response_count INTEGER,
  processed_at TEXT
)`

func (s *SQLiteStore) AppendResponses(ctx context.Context, tableID string, rows []internal.ResponseRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	name := flatten(tableID)
	if err := s.ensure(ctx, name, responsesSchema); err != nil {
		return 0, err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO `+name+` (
  age, gender, geo, client_type, recorded_timestamp, session_weight,
  survey_date, processed_date, q1_answer, q2_answer, q3_answer,
  q1_cleaned, q2_cleaned, study_number, group_type, group_number
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.Age, r.Gender, r.Geo, r.ClientType, r.RecordedTimestamp, r.SessionWeight,
			r.SurveyDate, r.ProcessedDate, r.Q1Answer, r.Q2Answer, r.Q3Answer,
			r.Q1Cleaned, r.Q2Cleaned, r.StudyNumber, r.GroupType, r.GroupNumber,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *SQLiteStore) AppendAggregates(ctx context.Context, tableID string, rows []internal.AggregatedRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	name := flatten(tableID)
	if err := s.ensure(ctx, name, aggregatesSchema); err != nil {
		return 0, err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO `+name+` (
  age, gender, geo, client_type, session_weight, survey_dates, survey_date,
  processed_date, study_number, answer, group_type, group_number,
  count_response, weighted_response
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.Age, r.Gender, r.Geo, r.ClientType, r.SessionWeight, r.SurveyDates,
			r.SurveyDate, r.ProcessedDate, r.StudyNumber, r.Answer, r.GroupType,
			r.GroupNumber, r.CountResponse, r.WeightedResponse,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *SQLiteStore) AppendProcessedFile(ctx context.Context, tableID string, rec internal.ProcessedFileRecord) error {
	name := flatten(tableID)
	if err := s.ensure(ctx, name, processedSchema); err != nil {
		return err
	}

	_, err := s.conn.ExecContext(ctx, `
INSERT INTO `+name+` (
  filename, survey_type, group_type, group_number,
  q1_response_count, q2_response_count, q3_response_count, processed_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(filename) DO NOTHING`,
		rec.Filename, string(rec.SurveyType), rec.GroupType, rec.GroupNumber,
		rec.Q1ResponseCount, rec.Q2ResponseCount, rec.Q3ResponseCount, rec.ProcessedAt)
	return err
}

func (s *SQLiteStore) HasProcessedFile(ctx context.Context, tableID, filename string) (bool, error) {
	name := flatten(tableID)
	if err := s.ensure(ctx, name, processedSchema); err != nil {
		return false, err
	}

	var found string
	err := s.conn.QueryRowContext(ctx, `SELECT filename FROM `+name+` WHERE filename = ?`, filename).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountRows reports how many rows a table holds. A missing table counts
// as zero.
func (s *SQLiteStore) CountRows(ctx context.Context, tableID string) (int, error) {
	name := flatten(tableID)
	var count int
	err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+name).Scan(&count)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}
