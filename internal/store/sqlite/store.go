package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/store"
)

// schema は単一テーブルのため起動時に直接適用します。
const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	job_id          TEXT PRIMARY KEY,
	game_id         TEXT NOT NULL,
	municipality_id TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL,
	progress        INTEGER NOT NULL,
	message         TEXT NOT NULL DEFAULT '',
	start_time      INTEGER NOT NULL,
	end_time        INTEGER,
	deployment_urls TEXT NOT NULL DEFAULT '',
	errors          TEXT NOT NULL DEFAULT ''
);
`

const jobColumns = `
	job_id,
	game_id,
	municipality_id,
	status,
	progress,
	message,
	start_time,
	end_time,
	deployment_urls,
	errors
`

// Store は SQLite ファイルにジョブレコードを永続化します。
// 再起動をまたいでもジョブの履歴参照に応答できます。
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open は SQLite のジョブストアを開き、スキーマを適用します。
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close は SQLite 接続を解放します。
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Create は初期レコードを保存します。同じ ID が存在する場合はエラーです。
func (s *Store) Create(ctx context.Context, job domain.ProcessingJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("job storage is not configured")
	}
	if strings.TrimSpace(job.JobID) == "" {
		return fmt.Errorf("job id is required")
	}

	urlsJSON, err := encodeURLs(job.DeploymentURLs)
	if err != nil {
		return err
	}
	errsJSON, err := encodeErrors(job.Errors)
	if err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs (
`+jobColumns+`
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		job.JobID,
		job.GameID,
		job.MunicipalityID,
		string(job.Status),
		job.Progress,
		job.Message,
		job.StartTime.UTC().UnixMilli(),
		nullableMillis(job.EndTime),
		urlsJSON,
		errsJSON,
	)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", store.ErrDuplicateJob, job.JobID)
	}
	return nil
}

// Get はレコードを1件取得します。
func (s *Store) Get(ctx context.Context, jobID string) (domain.ProcessingJob, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProcessingJob{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.ProcessingJob{}, fmt.Errorf("job storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT
`+jobColumns+`
FROM jobs
WHERE job_id = ?
`, jobID)
	job, err := scanJob(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ProcessingJob{}, fmt.Errorf("%w: %s", store.ErrNotFound, jobID)
	}
	if err != nil {
		return domain.ProcessingJob{}, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// List は登録の新しい順にレコードを返します。
func (s *Store) List(ctx context.Context, limit, offset int) ([]domain.ProcessingJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("job storage is not configured")
	}
	limit, offset = store.ClampListRange(limit, offset)

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
`+jobColumns+`
FROM jobs
ORDER BY rowid DESC
LIMIT ? OFFSET ?
`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.ProcessingJob, 0, limit)
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

// Update はトランザクション内で現行レコードを読み、前進則を検査してから書き込みます。
func (s *Store) Update(ctx context.Context, jobID string, m store.Mutation) (domain.ProcessingJob, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProcessingJob{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.ProcessingJob{}, fmt.Errorf("job storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return domain.ProcessingJob{}, fmt.Errorf("begin job update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
SELECT
`+jobColumns+`
FROM jobs
WHERE job_id = ?
`, jobID)
	current, err := scanJob(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ProcessingJob{}, fmt.Errorf("%w: %s", store.ErrNotFound, jobID)
	}
	if err != nil {
		return domain.ProcessingJob{}, fmt.Errorf("load job: %w", err)
	}

	updated, err := store.Apply(current, m, s.now())
	if err != nil {
		return domain.ProcessingJob{}, err
	}

	urlsJSON, err := encodeURLs(updated.DeploymentURLs)
	if err != nil {
		return domain.ProcessingJob{}, err
	}
	errsJSON, err := encodeErrors(updated.Errors)
	if err != nil {
		return domain.ProcessingJob{}, err
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE jobs
SET status = ?,
	progress = ?,
	message = ?,
	end_time = ?,
	deployment_urls = ?,
	errors = ?
WHERE job_id = ?
`,
		string(updated.Status),
		updated.Progress,
		updated.Message,
		nullableMillis(updated.EndTime),
		urlsJSON,
		errsJSON,
		jobID,
	); err != nil {
		return domain.ProcessingJob{}, fmt.Errorf("update job: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.ProcessingJob{}, fmt.Errorf("commit job update: %w", err)
	}
	return updated, nil
}

func scanJob(scan func(dest ...any) error) (domain.ProcessingJob, error) {
	var (
		job      domain.ProcessingJob
		status   string
		startMS  int64
		endMS    sql.NullInt64
		urlsJSON string
		errsJSON string
	)
	if err := scan(
		&job.JobID,
		&job.GameID,
		&job.MunicipalityID,
		&status,
		&job.Progress,
		&job.Message,
		&startMS,
		&endMS,
		&urlsJSON,
		&errsJSON,
	); err != nil {
		return domain.ProcessingJob{}, err
	}
	job.Status = domain.JobStatus(status)
	job.StartTime = time.UnixMilli(startMS).UTC()
	if endMS.Valid {
		t := time.UnixMilli(endMS.Int64).UTC()
		job.EndTime = &t
	}
	if urlsJSON != "" {
		if err := json.Unmarshal([]byte(urlsJSON), &job.DeploymentURLs); err != nil {
			return domain.ProcessingJob{}, fmt.Errorf("decode deployment urls: %w", err)
		}
	}
	if errsJSON != "" {
		if err := json.Unmarshal([]byte(errsJSON), &job.Errors); err != nil {
			return domain.ProcessingJob{}, fmt.Errorf("decode job errors: %w", err)
		}
	}
	return job, nil
}

func encodeURLs(urls map[domain.DeploymentFormat]string) (string, error) {
	if len(urls) == 0 {
		return "", nil
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "", fmt.Errorf("encode deployment urls: %w", err)
	}
	return string(b), nil
}

func encodeErrors(errs []string) (string, error) {
	if len(errs) == 0 {
		return "", nil
	}
	b, err := json.Marshal(errs)
	if err != nil {
		return "", fmt.Errorf("encode job errors: %w", err)
	}
	return string(b), nil
}

func nullableMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().UnixMilli()
}

var _ store.JobStore = (*Store)(nil)
