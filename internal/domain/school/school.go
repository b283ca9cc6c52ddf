package school

import (
	"time"

	"github.com/JoeYatesss/educonnect-api/internal/common"
)

type Type string

const (
	TypeInternational Type = "international"
	TypeBilingual     Type = "bilingual"
	TypePublic        Type = "public"
	TypePrivate       Type = "private"
	TypeKindergarten  Type = "kindergarten"
)

// School is an admin-curated hiring record. Deactivated, never deleted,
// so existing matches and applications keep their references.
type School struct {
	ID                 common.UUID `json:"id"`
	Name               string      `json:"name"`
	City               string      `json:"city"`
	Province           string      `json:"province,omitempty"`
	SchoolType         Type        `json:"school_type,omitempty"`
	AgeGroups          []string    `json:"age_groups"`
	SubjectsNeeded     []string    `json:"subjects_needed"`
	ExperienceRequired string      `json:"experience_required,omitempty"`
	ChineseRequired    bool        `json:"chinese_required"`
	SalaryRange        string      `json:"salary_range,omitempty"`
	Benefits           string      `json:"benefits,omitempty"`
	Description        string      `json:"description,omitempty"`
	ContactName        string      `json:"contact_name,omitempty"`
	ContactEmail       string      `json:"contact_email,omitempty"`
	ContactPhone       string      `json:"contact_phone,omitempty"`
	IsActive           bool        `json:"is_active"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// Account is a self-service school login that owns job postings and
// interview selections. Browsing teacher profiles is payment-gated.
type Account struct {
	ID          common.UUID `json:"id"`
	SchoolName  string      `json:"school_name"`
	Email       string      `json:"email"`
	ContactName string      `json:"contact_name,omitempty"`
	City        string      `json:"city,omitempty"`
	Province    string      `json:"province,omitempty"`
	HasPaid     bool        `json:"has_paid"`
	Currency    string      `json:"currency"`
	CustomerRef string      `json:"customer_ref,omitempty"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
