package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/teacher"
	"github.com/JoeYatesss/educonnect-api/internal/domain/workflow"
)

const teacherColumns = `id, account_id, first_name, last_name, email, phone, nationality, years_experience,
	education, subject_specialty, preferred_location, preferred_age_group, has_chinese, linkedin, wechat_id,
	additional_info, status, has_paid, currency, customer_ref, is_active, created_at, updated_at`

type TeacherRepository struct {
	db *sql.DB
}

func NewTeacherRepository(db *sql.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func (r *TeacherRepository) Create(ctx context.Context, t teacher.Teacher) (*teacher.Teacher, error) {
	t.ID = common.NewUUID()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO teachers (`+teacherColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		t.ID, nullableUUID(t.AccountID), t.FirstName, t.LastName, t.Email, t.Phone, t.Nationality, t.YearsExperience,
		t.Education, pq.Array(t.SubjectSpecialty), pq.Array(t.PreferredLocations), pq.Array(t.PreferredAgeGroups),
		t.HasChinese, t.LinkedIn, t.WeChatID, t.AdditionalInfo, t.Status, t.HasPaid, t.Currency, t.CustomerRef,
		t.IsActive, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "teacher already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create teacher", err)
	}
	return &t, nil
}

func (r *TeacherRepository) Update(ctx context.Context, t teacher.Teacher) (*teacher.Teacher, error) {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE teachers SET phone = $1, nationality = $2, years_experience = $3,
		education = $4, subject_specialty = $5, preferred_location = $6, preferred_age_group = $7, has_chinese = $8,
		linkedin = $9, wechat_id = $10, additional_info = $11, currency = $12, updated_at = $13
		WHERE id = $14`,
		t.Phone, t.Nationality, t.YearsExperience, t.Education, pq.Array(t.SubjectSpecialty),
		pq.Array(t.PreferredLocations), pq.Array(t.PreferredAgeGroups), t.HasChinese, t.LinkedIn, t.WeChatID,
		t.AdditionalInfo, t.Currency, t.UpdatedAt, t.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update teacher", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "teacher not found", nil)
	}
	return r.GetByID(ctx, t.ID)
}

func (r *TeacherRepository) GetByID(ctx context.Context, id common.UUID) (*teacher.Teacher, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, id)
	return scanTeacher(row)
}

func (r *TeacherRepository) GetByAccountID(ctx context.Context, accountID common.UUID) (*teacher.Teacher, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE account_id = $1`, accountID)
	return scanTeacher(row)
}

func (r *TeacherRepository) ListActive(ctx context.Context) ([]teacher.Teacher, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE is_active = TRUE ORDER BY created_at`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list teachers", err)
	}
	return collectTeachers(rows)
}

func (r *TeacherRepository) ListByIDs(ctx context.Context, ids []common.UUID) ([]teacher.Teacher, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id = ANY($1) ORDER BY created_at`, pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list teachers", err)
	}
	return collectTeachers(rows)
}

// UpdateStatusWithHistory runs the status update and the history insert
// in one transaction, so no status change exists without its audit row.
func (r *TeacherRepository) UpdateStatusWithHistory(ctx context.Context, id common.UUID, status workflow.Status, history teacher.StatusHistory) (*teacher.Teacher, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `UPDATE teachers SET status = $1, updated_at = $2 WHERE id = $3`, status, now, id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update teacher status", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "teacher not found", nil)
	}

	history.ID = common.NewUUID()
	history.TeacherID = id
	history.CreatedAt = now
	_, err = tx.ExecContext(ctx, `INSERT INTO teacher_status_history (id, teacher_id, from_status, to_status, changed_by, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		history.ID, history.TeacherID, statusPtr(history.FromStatus), history.ToStatus, history.ChangedBy, history.Notes, history.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to record status history", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit status change", err)
	}
	return r.GetByID(ctx, id)
}

func (r *TeacherRepository) ListHistory(ctx context.Context, teacherID common.UUID) ([]teacher.StatusHistory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, teacher_id, from_status, to_status, changed_by, notes, created_at
		FROM teacher_status_history WHERE teacher_id = $1 ORDER BY created_at`, teacherID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list teacher status history", err)
	}
	defer rows.Close()
	var items []teacher.StatusHistory
	for rows.Next() {
		var h teacher.StatusHistory
		var from sql.NullString
		if err := rows.Scan(&h.ID, &h.TeacherID, &from, &h.ToStatus, &h.ChangedBy, &h.Notes, &h.CreatedAt); err != nil {
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

func (r *TeacherRepository) SetPaid(ctx context.Context, id common.UUID, paid bool, paymentRef string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE teachers SET has_paid = $1, customer_ref = $2, updated_at = $3 WHERE id = $4`,
		paid, paymentRef, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to set paid flag", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return common.NewError(common.CodeNotFound, "teacher not found", nil)
	}
	return nil
}

func scanTeacher(row *sql.Row) (*teacher.Teacher, error) {
	var t teacher.Teacher
	var accountID sql.NullString
	err := row.Scan(&t.ID, &accountID, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.Nationality,
		&t.YearsExperience, &t.Education, pq.Array(&t.SubjectSpecialty), pq.Array(&t.PreferredLocations),
		pq.Array(&t.PreferredAgeGroups), &t.HasChinese, &t.LinkedIn, &t.WeChatID, &t.AdditionalInfo, &t.Status,
		&t.HasPaid, &t.Currency, &t.CustomerRef, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "teacher not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load teacher", err)
	}
	t.AccountID = common.UUID(accountID.String)
	return &t, nil
}

func collectTeachers(rows *sql.Rows) ([]teacher.Teacher, error) {
	defer rows.Close()
	var items []teacher.Teacher
	for rows.Next() {
		var t teacher.Teacher
		var accountID sql.NullString
		err := rows.Scan(&t.ID, &accountID, &t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.Nationality,
			&t.YearsExperience, &t.Education, pq.Array(&t.SubjectSpecialty), pq.Array(&t.PreferredLocations),
			pq.Array(&t.PreferredAgeGroups), &t.HasChinese, &t.LinkedIn, &t.WeChatID, &t.AdditionalInfo, &t.Status,
			&t.HasPaid, &t.Currency, &t.CustomerRef, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan teacher", err)
		}
		t.AccountID = common.UUID(accountID.String)
		items = append(items, t)
	}
	return items, rows.Err()
}

func statusPtr(status *workflow.Status) interface{} {
	if status == nil {
		return nil
	}
	return string(*status)
}

func uuidStrings(ids []common.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
