package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"fabric-sort/internal/domain/entity"
	"fabric-sort/internal/domain/port"
)

const inspectionsSchema = `
CREATE TABLE IF NOT EXISTS inspections (
	id          TEXT PRIMARY KEY,
	frame_seq   INTEGER NOT NULL,
	captured_at TEXT NOT NULL,
	verdict     TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	confidence  REAL NOT NULL DEFAULT 0,
	region_x    REAL NOT NULL DEFAULT 0,
	region_y    REAL NOT NULL DEFAULT 0,
	region_w    REAL NOT NULL DEFAULT 0,
	region_h    REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_inspections_captured_at ON inspections (captured_at DESC);
`

// SQLiteInspectionRepository журнал инспекций в SQLite
type SQLiteInspectionRepository struct {
	db *sql.DB
}

// Проверка реализации интерфейса
var _ port.InspectionRepository = (*SQLiteInspectionRepository)(nil)

// NewSQLiteInspectionRepository открывает базу и создаёт схему.
func NewSQLiteInspectionRepository(path string) (*SQLiteInspectionRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", path)
	}

	if _, err := db.Exec(inspectionsSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}

	return &SQLiteInspectionRepository{db: db}, nil
}

// Save сохраняет запись о проверенном кадре
func (r *SQLiteInspectionRepository) Save(ctx context.Context, record *entity.InspectionRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inspections
		 (id, frame_seq, captured_at, verdict, category, confidence, region_x, region_y, region_w, region_h)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.FrameSeq,
		record.CapturedAt.UTC().Format(time.RFC3339Nano),
		string(record.Verdict),
		string(record.Category),
		record.Confidence,
		record.Region.X,
		record.Region.Y,
		record.Region.Width,
		record.Region.Height,
	)
	return errors.Wrap(err, "insert inspection")
}

// Recent возвращает последние записи, новые первыми
func (r *SQLiteInspectionRepository) Recent(ctx context.Context, limit int) ([]entity.InspectionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, frame_seq, captured_at, verdict, category, confidence, region_x, region_y, region_w, region_h
		 FROM inspections ORDER BY captured_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query inspections")
	}
	defer rows.Close()

	var records []entity.InspectionRecord
	for rows.Next() {
		var record entity.InspectionRecord
		var capturedAt, verdict, category string
		if err := rows.Scan(
			&record.ID,
			&record.FrameSeq,
			&capturedAt,
			&verdict,
			&category,
			&record.Confidence,
			&record.Region.X,
			&record.Region.Y,
			&record.Region.Width,
			&record.Region.Height,
		); err != nil {
			return nil, errors.Wrap(err, "scan inspection")
		}

		record.Verdict = entity.Verdict(verdict)
		record.Category = entity.DefectCategory(category)
		record.CapturedAt, err = time.Parse(time.RFC3339Nano, capturedAt)
		if err != nil {
			return nil, errors.Wrap(err, "parse captured_at")
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// CountByVerdict возвращает количество записей по каждому решению
func (r *SQLiteInspectionRepository) CountByVerdict(ctx context.Context) (map[entity.Verdict]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT verdict, COUNT(*) FROM inspections GROUP BY verdict`)
	if err != nil {
		return nil, errors.Wrap(err, "count inspections")
	}
	defer rows.Close()

	counts := make(map[entity.Verdict]int)
	for rows.Next() {
		var verdict string
		var count int
		if err := rows.Scan(&verdict, &count); err != nil {
			return nil, errors.Wrap(err, "scan count")
		}
		counts[entity.Verdict(verdict)] = count
	}

	return counts, rows.Err()
}

// Close закрывает базу.
func (r *SQLiteInspectionRepository) Close() error {
	return r.db.Close()
}
