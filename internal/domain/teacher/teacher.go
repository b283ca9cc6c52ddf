package teacher

import (
	"time"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/workflow"
)

type Teacher struct {
	ID                 common.UUID     `json:"id"`
	AccountID          common.UUID     `json:"account_id"`
	FirstName          string          `json:"first_name"`
	LastName           string          `json:"last_name"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone,omitempty"`
	Nationality        string          `json:"nationality,omitempty"`
	YearsExperience    int             `json:"years_experience"`
	Education          string          `json:"education,omitempty"`
	SubjectSpecialty   []string        `json:"subject_specialty"`
	PreferredLocations []string        `json:"preferred_location"`
	PreferredAgeGroups []string        `json:"preferred_age_group"`
	HasChinese         bool            `json:"has_chinese"`
	LinkedIn           string          `json:"linkedin,omitempty"`
	WeChatID           string          `json:"wechat_id,omitempty"`
	AdditionalInfo     string          `json:"additional_info,omitempty"`
	Status             workflow.Status `json:"status"`
	HasPaid            bool            `json:"has_paid"`
	Currency           string          `json:"currency"`
	CustomerRef        string          `json:"customer_ref,omitempty"`
	IsActive           bool            `json:"is_active"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// StatusHistory is the teacher-level audit record. Rows are append-only;
// the repository exposes no update or delete for them.
type StatusHistory struct {
	ID         common.UUID      `json:"id"`
	TeacherID  common.UUID      `json:"teacher_id"`
	FromStatus *workflow.Status `json:"from_status,omitempty"`
	ToStatus   workflow.Status  `json:"to_status"`
	ChangedBy  common.UUID      `json:"changed_by"`
	Notes      string           `json:"notes,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
