package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/interview"
)

const selectionColumns = `id, school_account_id, teacher_id, job_id, status, notes, selected_at, status_updated_at`

type InterviewRepository struct {
	db *sql.DB
}

func NewInterviewRepository(db *sql.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

func (r *InterviewRepository) Create(ctx context.Context, s interview.Selection) (*interview.Selection, error) {
	s.ID = common.NewUUID()
	now := time.Now().UTC()
	s.SelectedAt = now
	s.StatusUpdatedAt = now

	var jobID interface{}
	if s.JobID != nil {
		jobID = s.JobID.String()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO interview_selections (`+selectionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.SchoolAccountID, s.TeacherID, jobID, s.Status, s.Notes, s.SelectedAt, s.StatusUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "teacher already selected", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create interview selection", err)
	}
	return &s, nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id common.UUID) (*interview.Selection, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectionColumns+` FROM interview_selections WHERE id = $1`, id)
	return scanSelection(row)
}

func (r *InterviewRepository) FindByAccountAndTeacher(ctx context.Context, accountID, teacherID common.UUID, jobID *common.UUID) (*interview.Selection, error) {
	var row *sql.Row
	if jobID != nil {
		row = r.db.QueryRowContext(ctx, `SELECT `+selectionColumns+` FROM interview_selections
			WHERE school_account_id = $1 AND teacher_id = $2 AND job_id = $3`, accountID, teacherID, jobID)
	} else {
		row = r.db.QueryRowContext(ctx, `SELECT `+selectionColumns+` FROM interview_selections
			WHERE school_account_id = $1 AND teacher_id = $2 AND job_id IS NULL`, accountID, teacherID)
	}
	return scanSelection(row)
}

func (r *InterviewRepository) ListBySchoolAccount(ctx context.Context, accountID common.UUID) ([]interview.Selection, error) {
	return r.list(ctx, `SELECT `+selectionColumns+` FROM interview_selections
		WHERE school_account_id = $1 ORDER BY selected_at DESC`, accountID)
}

func (r *InterviewRepository) ListByTeacher(ctx context.Context, teacherID common.UUID) ([]interview.Selection, error) {
	return r.list(ctx, `SELECT `+selectionColumns+` FROM interview_selections
		WHERE teacher_id = $1 ORDER BY selected_at DESC`, teacherID)
}

func (r *InterviewRepository) UpdateStatus(ctx context.Context, id common.UUID, status interview.Status, notes string) (*interview.Selection, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE interview_selections
		SET status = $1, notes = $2, status_updated_at = $3 WHERE id = $4`,
		status, notes, time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update interview status", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "interview selection not found", nil)
	}
	return r.GetByID(ctx, id)
}

func (r *InterviewRepository) list(ctx context.Context, query string, args ...interface{}) ([]interview.Selection, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list interview selections", err)
	}
	defer rows.Close()
	var items []interview.Selection
	for rows.Next() {
		var s interview.Selection
		var jobID sql.NullString
		if err := rows.Scan(&s.ID, &s.SchoolAccountID, &s.TeacherID, &jobID, &s.Status, &s.Notes,
			&s.SelectedAt, &s.StatusUpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan interview selection", err)
		}
		if jobID.Valid {
			id := common.UUID(jobID.String)
			s.JobID = &id
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func scanSelection(row *sql.Row) (*interview.Selection, error) {
	var s interview.Selection
	var jobID sql.NullString
	err := row.Scan(&s.ID, &s.SchoolAccountID, &s.TeacherID, &jobID, &s.Status, &s.Notes, &s.SelectedAt, &s.StatusUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "interview selection not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load interview selection", err)
	}
	if jobID.Valid {
		id := common.UUID(jobID.String)
		s.JobID = &id
	}
	return &s, nil
}
