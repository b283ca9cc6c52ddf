package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/match"
)

const matchColumns = `id, teacher_id, school_id, job_id, score, reasons, is_submitted, matched_at, updated_at`

// MatchRepository maps the tagged target onto the school_id/job_id pair
// of columns; the table carries a check constraint keeping exactly one of
// them set and unique indexes per (teacher, target) pair.
type MatchRepository struct {
	db *sql.DB
}

func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) (*match.Match, error) {
	if err := m.Target.Validate(); err != nil {
		return nil, err
	}
	m.ID = common.NewUUID()
	now := time.Now().UTC()
	m.MatchedAt = now
	m.UpdatedAt = now
	schoolID, jobID := targetColumns(m.Target)
	_, err := r.db.ExecContext(ctx, `INSERT INTO matches (`+matchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.TeacherID, schoolID, jobID, m.Score, pq.Array(m.Reasons), m.IsSubmitted, m.MatchedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "match already exists for this pair", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create match", err)
	}
	return &m, nil
}

func (r *MatchRepository) UpdateScore(ctx context.Context, id common.UUID, score float64, reasons []string) (*match.Match, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE matches SET score = $1, reasons = $2, updated_at = $3 WHERE id = $4`,
		score, pq.Array(reasons), time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update match", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "match not found", nil)
	}
	return r.GetByID(ctx, id)
}

func (r *MatchRepository) GetByID(ctx context.Context, id common.UUID) (*match.Match, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	return scanMatch(row)
}

func (r *MatchRepository) GetByPair(ctx context.Context, teacherID common.UUID, target match.Target) (*match.Match, error) {
	var row *sql.Row
	switch target.Kind {
	case match.TargetSchool:
		row = r.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE teacher_id = $1 AND school_id = $2`, teacherID, target.ID)
	case match.TargetJob:
		row = r.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE teacher_id = $1 AND job_id = $2`, teacherID, target.ID)
	default:
		return nil, common.NewError(common.CodeValidation, "invalid match target", nil)
	}
	return scanMatch(row)
}

func (r *MatchRepository) ListByTeacher(ctx context.Context, teacherID common.UUID) ([]match.Match, error) {
	return r.list(ctx, `SELECT `+matchColumns+` FROM matches WHERE teacher_id = $1 ORDER BY score DESC`, teacherID)
}

func (r *MatchRepository) ListByTarget(ctx context.Context, target match.Target) ([]match.Match, error) {
	switch target.Kind {
	case match.TargetSchool:
		return r.list(ctx, `SELECT `+matchColumns+` FROM matches WHERE school_id = $1 ORDER BY score DESC`, target.ID)
	case match.TargetJob:
		return r.list(ctx, `SELECT `+matchColumns+` FROM matches WHERE job_id = $1 ORDER BY score DESC`, target.ID)
	default:
		return nil, common.NewError(common.CodeValidation, "invalid match target", nil)
	}
}

func (r *MatchRepository) MarkSubmitted(ctx context.Context, id common.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE matches SET is_submitted = TRUE, updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to flag match", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return common.NewError(common.CodeNotFound, "match not found", nil)
	}
	return nil
}

func (r *MatchRepository) list(ctx context.Context, query string, args ...interface{}) ([]match.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list matches", err)
	}
	defer rows.Close()
	var items []match.Match
	for rows.Next() {
		var m match.Match
		var schoolID, jobID sql.NullString
		if err := rows.Scan(&m.ID, &m.TeacherID, &schoolID, &jobID, &m.Score, pq.Array(&m.Reasons), &m.IsSubmitted, &m.MatchedAt, &m.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan match", err)
		}
		m.Target = targetFromColumns(schoolID, jobID)
		items = append(items, m)
	}
	return items, rows.Err()
}

func scanMatch(row *sql.Row) (*match.Match, error) {
	var m match.Match
	var schoolID, jobID sql.NullString
	err := row.Scan(&m.ID, &m.TeacherID, &schoolID, &jobID, &m.Score, pq.Array(&m.Reasons), &m.IsSubmitted, &m.MatchedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "match not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load match", err)
	}
	m.Target = targetFromColumns(schoolID, jobID)
	return &m, nil
}

func targetColumns(target match.Target) (interface{}, interface{}) {
	switch target.Kind {
	case match.TargetSchool:
		return target.ID.String(), nil
	case match.TargetJob:
		return nil, target.ID.String()
	default:
		return nil, nil
	}
}

func targetFromColumns(schoolID, jobID sql.NullString) match.Target {
	if schoolID.Valid {
		return match.SchoolTarget(common.UUID(schoolID.String))
	}
	return match.JobTarget(common.UUID(jobID.String))
}
