package job

import (
	"time"

	"github.com/JoeYatesss/educonnect-api/internal/common"
)

// SourceManual marks postings authored inside the platform. Imported
// postings carry the importer's source name plus its external id; the
// (source, external_id) pair is unique.
const SourceManual = "manual"

type Job struct {
	ID                 common.UUID `json:"id"`
	SchoolAccountID    common.UUID `json:"school_account_id,omitempty"`
	Title              string      `json:"title"`
	RoleType           string      `json:"role_type,omitempty"`
	City               string      `json:"city,omitempty"`
	Province           string      `json:"province,omitempty"`
	SchoolInfo         string      `json:"school_info,omitempty"`
	Subjects           []string    `json:"subjects"`
	AgeGroups          []string    `json:"age_groups"`
	ExperienceRequired string      `json:"experience_required,omitempty"`
	ChineseRequired    bool        `json:"chinese_required"`
	Qualification      string      `json:"qualification,omitempty"`
	SalaryMin          int64       `json:"salary_min,omitempty"`
	SalaryMax          int64       `json:"salary_max,omitempty"`
	SalaryDisplay      string      `json:"salary_display,omitempty"`
	Description        string      `json:"description,omitempty"`
	Requirements       string      `json:"requirements,omitempty"`
	Benefits           string      `json:"benefits,omitempty"`
	Source             string      `json:"source"`
	ExternalID         string      `json:"external_id,omitempty"`
	IsActive           bool        `json:"is_active"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (j Job) IsImported() bool {
	return j.Source != "" && j.Source != SourceManual
}
