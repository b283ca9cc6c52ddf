package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/application"
	"github.com/JoeYatesss/educonnect-api/internal/domain/match"
	"github.com/JoeYatesss/educonnect-api/internal/domain/workflow"
)

const applicationColumns = `id, teacher_id, school_id, job_id, match_id, status, submitted_by, notes, submitted_at,
	created_at, updated_at`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts the application together with its initial history row
// (from NULL to the starting status) in one transaction.
func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	if err := app.Target.Validate(); err != nil {
		return nil, err
	}
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = now
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	schoolID, jobID := targetColumns(app.Target)
	var matchID interface{}
	if app.MatchID != nil {
		matchID = app.MatchID.String()
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		app.ID, app.TeacherID, schoolID, jobID, matchID, app.Status, app.SubmittedBy, app.Notes, app.SubmittedAt,
		app.CreatedAt, app.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "application already exists for this pair", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO application_status_history (id, application_id, from_status, to_status, changed_by, notes, created_at)
		VALUES ($1, $2, NULL, $3, $4, $5, $6)`,
		common.NewUUID(), app.ID, app.Status, app.SubmittedBy, app.Notes, now)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to record initial status", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *ApplicationRepository) FindOpenByPair(ctx context.Context, teacherID common.UUID, target match.Target) (*application.Application, error) {
	var row *sql.Row
	switch target.Kind {
	case match.TargetSchool:
		row = r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications
			WHERE teacher_id = $1 AND school_id = $2 AND status <> $3
			ORDER BY created_at DESC LIMIT 1`, teacherID, target.ID, workflow.StatusDeclined)
	case match.TargetJob:
		row = r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications
			WHERE teacher_id = $1 AND job_id = $2 AND status <> $3
			ORDER BY created_at DESC LIMIT 1`, teacherID, target.ID, workflow.StatusDeclined)
	default:
		return nil, common.NewError(common.CodeValidation, "invalid application target", nil)
	}
	return scanApplication(row)
}

func (r *ApplicationRepository) ListByTeacher(ctx context.Context, teacherID common.UUID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE teacher_id = $1 ORDER BY created_at DESC`, teacherID)
}

func (r *ApplicationRepository) ListByTarget(ctx context.Context, target match.Target) ([]application.Application, error) {
	switch target.Kind {
	case match.TargetSchool:
		return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE school_id = $1 ORDER BY created_at DESC`, target.ID)
	case match.TargetJob:
		return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY created_at DESC`, target.ID)
	default:
		return nil, common.NewError(common.CodeValidation, "invalid application target", nil)
	}
}

// UpdateStatusWithHistory is the transactional boundary for transitions:
// the status change and its history row commit together or not at all.
func (r *ApplicationRepository) UpdateStatusWithHistory(ctx context.Context, id common.UUID, status workflow.Status, history application.StatusHistory) (*application.Application, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`, status, now, id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application status", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}

	history.ID = common.NewUUID()
	history.ApplicationID = id
	history.CreatedAt = now
	_, err = tx.ExecContext(ctx, `INSERT INTO application_status_history (id, application_id, from_status, to_status, changed_by, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		history.ID, history.ApplicationID, statusPtr(history.FromStatus), history.ToStatus, history.ChangedBy, history.Notes, history.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to record status history", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit status change", err)
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) ListHistory(ctx context.Context, applicationID common.UUID) ([]application.StatusHistory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, application_id, from_status, to_status, changed_by, notes, created_at
		FROM application_status_history WHERE application_id = $1 ORDER BY created_at`, applicationID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list status history", err)
	}
	defer rows.Close()
	var items []application.StatusHistory
	for rows.Next() {
		var h application.StatusHistory
		var from sql.NullString
		if err := rows.Scan(&h.ID, &h.ApplicationID, &from, &h.ToStatus, &h.ChangedBy, &h.Notes, &h.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan status history", err)
		}
		if from.Valid {
			status := workflow.Status(from.String)
			h.FromStatus = &status
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

func (r *ApplicationRepository) list(ctx context.Context, query string, args ...interface{}) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	var items []application.Application
	for rows.Next() {
		var app application.Application
		var schoolID, jobID, matchID sql.NullString
		if err := rows.Scan(&app.ID, &app.TeacherID, &schoolID, &jobID, &matchID, &app.Status, &app.SubmittedBy,
			&app.Notes, &app.SubmittedAt, &app.CreatedAt, &app.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		app.Target = targetFromColumns(schoolID, jobID)
		if matchID.Valid {
			id := common.UUID(matchID.String)
			app.MatchID = &id
		}
		items = append(items, app)
	}
	return items, rows.Err()
}

func scanApplication(row *sql.Row) (*application.Application, error) {
	var app application.Application
	var schoolID, jobID, matchID sql.NullString
	err := row.Scan(&app.ID, &app.TeacherID, &schoolID, &jobID, &matchID, &app.Status, &app.SubmittedBy,
		&app.Notes, &app.SubmittedAt, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	app.Target = targetFromColumns(schoolID, jobID)
	if matchID.Valid {
		id := common.UUID(matchID.String)
		app.MatchID = &id
	}
	return &app, nil
}
