package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/job"
)

const jobColumns = `id, school_account_id, title, role_type, city, province, school_info, subjects, age_groups,
	experience_required, chinese_required, qualification, salary_min, salary_max, salary_display, description,
	requirements, benefits, source, external_id, is_active, created_at, updated_at`

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	j.ID = common.NewUUID()
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	if j.Source == "" {
		j.Source = job.SourceManual
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO jobs (`+jobColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		j.ID, nullableUUID(j.SchoolAccountID), j.Title, j.RoleType, j.City, j.Province, j.SchoolInfo,
		pq.Array(j.Subjects), pq.Array(j.AgeGroups), j.ExperienceRequired, j.ChineseRequired, j.Qualification,
		j.SalaryMin, j.SalaryMax, j.SalaryDisplay, j.Description, j.Requirements, j.Benefits, j.Source,
		nullableString(j.ExternalID), j.IsActive, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "job already exists for this source", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create job", err)
	}
	return &j, nil
}

func (r *JobRepository) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	j.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE jobs SET title = $1, role_type = $2, city = $3, province = $4,
		school_info = $5, subjects = $6, age_groups = $7, experience_required = $8, chinese_required = $9,
		qualification = $10, salary_min = $11, salary_max = $12, salary_display = $13, description = $14,
		requirements = $15, benefits = $16, is_active = $17, updated_at = $18 WHERE id = $19`,
		j.Title, j.RoleType, j.City, j.Province, j.SchoolInfo, pq.Array(j.Subjects), pq.Array(j.AgeGroups),
		j.ExperienceRequired, j.ChineseRequired, j.Qualification, j.SalaryMin, j.SalaryMax, j.SalaryDisplay,
		j.Description, j.Requirements, j.Benefits, j.IsActive, j.UpdatedAt, j.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	return r.GetByID(ctx, j.ID)
}

func (r *JobRepository) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (r *JobRepository) GetBySourceExternalID(ctx context.Context, source, externalID string) (*job.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE source = $1 AND external_id = $2`, source, externalID)
	return scanJob(row)
}

func (r *JobRepository) ListActive(ctx context.Context) ([]job.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs WHERE is_active = TRUE ORDER BY created_at DESC`)
}

func (r *JobRepository) ListByIDs(ctx context.Context, ids []common.UUID) ([]job.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ANY($1) ORDER BY created_at DESC`, pq.Array(uuidStrings(ids)))
}

func (r *JobRepository) ListBySchoolAccount(ctx context.Context, accountID common.UUID) ([]job.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs WHERE school_account_id = $1 ORDER BY created_at DESC`, accountID)
}

func (r *JobRepository) SetActive(ctx context.Context, id common.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE jobs SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update job", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	return nil
}

func (r *JobRepository) list(ctx context.Context, query string, args ...interface{}) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list jobs", err)
	}
	defer rows.Close()
	var items []job.Job
	for rows.Next() {
		j, err := scanJobRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *j)
	}
	return items, rows.Err()
}

func scanJob(row *sql.Row) (*job.Job, error) {
	var j job.Job
	var accountID, externalID sql.NullString
	err := row.Scan(&j.ID, &accountID, &j.Title, &j.RoleType, &j.City, &j.Province, &j.SchoolInfo,
		pq.Array(&j.Subjects), pq.Array(&j.AgeGroups), &j.ExperienceRequired, &j.ChineseRequired, &j.Qualification,
		&j.SalaryMin, &j.SalaryMax, &j.SalaryDisplay, &j.Description, &j.Requirements, &j.Benefits, &j.Source,
		&externalID, &j.IsActive, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job", err)
	}
	j.SchoolAccountID = common.UUID(accountID.String)
	j.ExternalID = externalID.String
	return &j, nil
}

func scanJobRow(rows *sql.Rows) (*job.Job, error) {
	var j job.Job
	var accountID, externalID sql.NullString
	err := rows.Scan(&j.ID, &accountID, &j.Title, &j.RoleType, &j.City, &j.Province, &j.SchoolInfo,
		pq.Array(&j.Subjects), pq.Array(&j.AgeGroups), &j.ExperienceRequired, &j.ChineseRequired, &j.Qualification,
		&j.SalaryMin, &j.SalaryMax, &j.SalaryDisplay, &j.Description, &j.Requirements, &j.Benefits, &j.Source,
		&externalID, &j.IsActive, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to scan job", err)
	}
	j.SchoolAccountID = common.UUID(accountID.String)
	j.ExternalID = externalID.String
	return &j, nil
}

func nullableUUID(id common.UUID) interface{} {
	if id.IsZero() {
		return nil
	}
	return id.String()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

type JobInterestRepository struct {
	db *sql.DB
}

func NewJobInterestRepository(db *sql.DB) *JobInterestRepository {
	return &JobInterestRepository{db: db}
}

func (r *JobInterestRepository) Create(ctx context.Context, i job.Interest) (*job.Interest, error) {
	i.ID = common.NewUUID()
	i.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO job_interests (id, job_id, name, email, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		i.ID, i.JobID, i.Name, i.Email, i.Message, i.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to record job interest", err)
	}
	return &i, nil
}

func (r *JobInterestRepository) ListByJob(ctx context.Context, jobID common.UUID) ([]job.Interest, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, job_id, name, email, message, created_at
		FROM job_interests WHERE job_id = $1 ORDER BY created_at DESC`, jobID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list job interests", err)
	}
	defer rows.Close()
	var items []job.Interest
	for rows.Next() {
		var i job.Interest
		if err := rows.Scan(&i.ID, &i.JobID, &i.Name, &i.Email, &i.Message, &i.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan job interest", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
