package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/school"
)

const schoolColumns = `id, name, city, province, school_type, age_groups, subjects_needed, experience_required,
	chinese_required, salary_range, benefits, description, contact_name, contact_email, contact_phone, is_active,
	created_at, updated_at`

type SchoolRepository struct {
	db *sql.DB
}

func NewSchoolRepository(db *sql.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

func (r *SchoolRepository) Create(ctx context.Context, s school.School) (*school.School, error) {
	s.ID = common.NewUUID()
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO schools (`+schoolColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		s.ID, s.Name, s.City, s.Province, s.SchoolType, pq.Array(s.AgeGroups), pq.Array(s.SubjectsNeeded),
		s.ExperienceRequired, s.ChineseRequired, s.SalaryRange, s.Benefits, s.Description, s.ContactName,
		s.ContactEmail, s.ContactPhone, s.IsActive, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create school", err)
	}
	return &s, nil
}

func (r *SchoolRepository) Update(ctx context.Context, s school.School) (*school.School, error) {
	s.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE schools SET name = $1, city = $2, province = $3, school_type = $4,
		age_groups = $5, subjects_needed = $6, experience_required = $7, chinese_required = $8, salary_range = $9,
		benefits = $10, description = $11, contact_name = $12, contact_email = $13, contact_phone = $14, updated_at = $15
		WHERE id = $16`,
		s.Name, s.City, s.Province, s.SchoolType, pq.Array(s.AgeGroups), pq.Array(s.SubjectsNeeded),
		s.ExperienceRequired, s.ChineseRequired, s.SalaryRange, s.Benefits, s.Description, s.ContactName,
		s.ContactEmail, s.ContactPhone, s.UpdatedAt, s.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update school", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "school not found", nil)
	}
	return r.GetByID(ctx, s.ID)
}

func (r *SchoolRepository) GetByID(ctx context.Context, id common.UUID) (*school.School, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+schoolColumns+` FROM schools WHERE id = $1`, id)
	var s school.School
	err := row.Scan(&s.ID, &s.Name, &s.City, &s.Province, &s.SchoolType, pq.Array(&s.AgeGroups),
		pq.Array(&s.SubjectsNeeded), &s.ExperienceRequired, &s.ChineseRequired, &s.SalaryRange, &s.Benefits,
		&s.Description, &s.ContactName, &s.ContactEmail, &s.ContactPhone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "school not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load school", err)
	}
	return &s, nil
}

func (r *SchoolRepository) ListActive(ctx context.Context) ([]school.School, error) {
	return r.list(ctx, `SELECT `+schoolColumns+` FROM schools WHERE is_active = TRUE ORDER BY created_at`)
}

func (r *SchoolRepository) ListByIDs(ctx context.Context, ids []common.UUID) ([]school.School, error) {
	return r.list(ctx, `SELECT `+schoolColumns+` FROM schools WHERE id = ANY($1) ORDER BY created_at`, pq.Array(uuidStrings(ids)))
}

func (r *SchoolRepository) SetActive(ctx context.Context, id common.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE schools SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update school", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return common.NewError(common.CodeNotFound, "school not found", nil)
	}
	return nil
}

func (r *SchoolRepository) list(ctx context.Context, query string, args ...interface{}) ([]school.School, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list schools", err)
	}
	defer rows.Close()
	var items []school.School
	for rows.Next() {
		var s school.School
		err := rows.Scan(&s.ID, &s.Name, &s.City, &s.Province, &s.SchoolType, pq.Array(&s.AgeGroups),
			pq.Array(&s.SubjectsNeeded), &s.ExperienceRequired, &s.ChineseRequired, &s.SalaryRange, &s.Benefits,
			&s.Description, &s.ContactName, &s.ContactEmail, &s.ContactPhone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan school", err)
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const accountColumns = `id, school_name, email, contact_name, city, province, has_paid, currency, customer_ref,
	is_active, created_at, updated_at`

type SchoolAccountRepository struct {
	db *sql.DB
}

func NewSchoolAccountRepository(db *sql.DB) *SchoolAccountRepository {
	return &SchoolAccountRepository{db: db}
}

func (r *SchoolAccountRepository) Create(ctx context.Context, a school.Account) (*school.Account, error) {
	a.ID = common.NewUUID()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO school_accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.SchoolName, a.Email, a.ContactName, a.City, a.Province, a.HasPaid, a.Currency, a.CustomerRef,
		a.IsActive, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "school account already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create school account", err)
	}
	return &a, nil
}

func (r *SchoolAccountRepository) Update(ctx context.Context, a school.Account) (*school.Account, error) {
	a.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE school_accounts SET school_name = $1, contact_name = $2, city = $3,
		province = $4, currency = $5, updated_at = $6 WHERE id = $7`,
		a.SchoolName, a.ContactName, a.City, a.Province, a.Currency, a.UpdatedAt, a.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update school account", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "school account not found", nil)
	}
	return r.GetByID(ctx, a.ID)
}

func (r *SchoolAccountRepository) GetByID(ctx context.Context, id common.UUID) (*school.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM school_accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *SchoolAccountRepository) GetByEmail(ctx context.Context, email string) (*school.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM school_accounts WHERE email = $1`, email)
	return scanAccount(row)
}

func (r *SchoolAccountRepository) SetPaid(ctx context.Context, id common.UUID, paid bool, paymentRef string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE school_accounts SET has_paid = $1, customer_ref = $2, updated_at = $3 WHERE id = $4`,
		paid, paymentRef, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to set paid flag", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return common.NewError(common.CodeNotFound, "school account not found", nil)
	}
	return nil
}

func scanAccount(row *sql.Row) (*school.Account, error) {
	var a school.Account
	err := row.Scan(&a.ID, &a.SchoolName, &a.Email, &a.ContactName, &a.City, &a.Province, &a.HasPaid,
		&a.Currency, &a.CustomerRef, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "school account not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load school account", err)
	}
	return &a, nil
}
