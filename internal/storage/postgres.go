package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"brandpulse/internal"
)

// PostgresStore is the warehouse backend for shared deployments.
type PostgresStore struct {
	db *sql.DB

	mu      sync.Mutex
	created map[string]struct{}
}

func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	return &PostgresStore{db: db, created: map[string]struct{}{}}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) ensure(ctx context.Context, name, schema string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.created[name]; ok {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+name+` `+schema); err != nil {
		return fmt.Errorf("postgres: create %s: %w", name, err)
	}
	s.created[name] = struct{}{}
	return nil
}

const pgResponsesSchema = `(
  age TEXT, gender TEXT, geo TEXT, client_type TEXT, recorded_timestamp TEXT,
  session_weight DOUBLE PRECISION, survey_date TEXT, processed_date TEXT,
  q1_answer TEXT, q2_answer TEXT, q3_answer TEXT, q1_cleaned TEXT,
  q2_cleaned TEXT, study_number TEXT, group_type TEXT, group_number TEXT
)`

const pgAggregatesSchema = `(
  age TEXT, gender TEXT, geo TEXT, client_type TEXT,
  session_weight DOUBLE PRECISION, survey_dates TEXT, survey_date TEXT,
  processed_date TEXT, study_number TEXT, answer TEXT, group_type TEXT,
  group_number TEXT, count_response INTEGER,
  weighted_response DOUBLE PRECISION
)`

const pgProcessedSchema = `(
  filename TEXT PRIMARY KEY, survey_type TEXT, group_type TEXT,
  group_number TEXT, q1_response_count INTEGER, q2_response_count INTEGER,
  q3_response_count INTEGER, processed_at TEXT
)`

const insertBatchSize = 50

func (s *PostgresStore) AppendResponses(ctx context.Context, tableID string, rows []internal.ResponseRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	name := flatten(tableID)
	if err := s.ensure(ctx, name, pgResponsesSchema); err != nil {
		return 0, err
	}

	columns := `age, gender, geo, client_type, recorded_timestamp, session_weight,
  survey_date, processed_date, q1_answer, q2_answer, q3_answer, q1_cleaned,
  q2_cleaned, study_number, group_type, group_number`

	for start := 0; start < len(rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		placeholders := make([]string, 0, len(batch))
		args := make([]any, 0, len(batch)*16)
		for i, r := range batch {
			placeholders = append(placeholders, numberedPlaceholders(i*16, 16))
			args = append(args,
				r.Age, r.Gender, r.Geo, r.ClientType, r.RecordedTimestamp, r.SessionWeight,
				r.SurveyDate, r.ProcessedDate, r.Q1Answer, r.Q2Answer, r.Q3Answer,
				r.Q1Cleaned, r.Q2Cleaned, r.StudyNumber, r.GroupType, r.GroupNumber)
		}

		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s`, name, columns, strings.Join(placeholders, ","))
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("postgres: insert %s: %w", name, err)
		}
	}
	return len(rows), nil
}

func (s *PostgresStore) AppendAggregates(ctx context.Context, tableID string, rows []internal.AggregatedRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	name := flatten(tableID)
	if err := s.ensure(ctx, name, pgAggregatesSchema); err != nil {
		return 0, err
	}

	columns := `age, gender, geo, client_type, session_weight, survey_dates,
  survey_date, processed_date, study_number, answer, group_type, group_number,
  count_response, weighted_response`

	for start := 0; start < len(rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		placeholders := make([]string, 0, len(batch))
		args := make([]any, 0, len(batch)*14)
		for i, r := range batch {
			placeholders = append(placeholders, numberedPlaceholders(i*14, 14))
			args = append(args,
				r.Age, r.Gender, r.Geo, r.ClientType, r.SessionWeight, r.SurveyDates,
				r.SurveyDate, r.ProcessedDate, r.StudyNumber, r.Answer, r.GroupType,
				r.GroupNumber, r.CountResponse, r.WeightedResponse)
		}

		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s`, name, columns, strings.Join(placeholders, ","))
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("postgres: insert %s: %w", name, err)
		}
	}
	return len(rows), nil
}

func (s *PostgresStore) AppendProcessedFile(ctx context.Context, tableID string, rec internal.ProcessedFileRecord) error {
	name := flatten(tableID)
	if err := s.ensure(ctx, name, pgProcessedSchema); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO `+name+` (
  filename, survey_type, group_type, group_number,
  q1_response_count, q2_response_count, q3_response_count, processed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (filename) DO NOTHING`,
		rec.Filename, string(rec.SurveyType), rec.GroupType, rec.GroupNumber,
		rec.Q1ResponseCount, rec.Q2ResponseCount, rec.Q3ResponseCount, rec.ProcessedAt)
	return err
}

func (s *PostgresStore) HasProcessedFile(ctx context.Context, tableID, filename string) (bool, error) {
	name := flatten(tableID)
	if err := s.ensure(ctx, name, pgProcessedSchema); err != nil {
		return false, err
	}

	var found string
	err := s.db.QueryRowContext(ctx, `SELECT filename FROM `+name+` WHERE filename = $1`, filename).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func numberedPlaceholders(offset, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("$%d", offset+i+1)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
