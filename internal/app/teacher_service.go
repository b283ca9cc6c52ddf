package app

import (
	"context"
	"strings"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/teacher"
	"github.com/JoeYatesss/educonnect-api/internal/domain/workflow"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

type TeacherService struct {
	teachers teacher.Repository
	engine   *policy.Engine
}

func NewTeacherService(teachers teacher.Repository, engine *policy.Engine) *TeacherService {
	return &TeacherService{teachers: teachers, engine: engine}
}

type RegisterTeacherInput struct {
	AccountID common.UUID
	FirstName string
	LastName  string
	Email     string
	Currency  string
}

func (s *TeacherService) Register(ctx context.Context, in RegisterTeacherInput) (*teacher.Teacher, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FirstName == "" || in.LastName == "" {
		return nil, common.NewValidationError("first and last name are required", nil)
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, common.NewValidationError("a valid email is required", map[string]string{"email": "invalid"})
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	if !supportedCurrencies[currency] {
		return nil, common.NewValidationError("unsupported currency", map[string]string{"currency": currency})
	}

	return s.teachers.Create(ctx, teacher.Teacher{
		AccountID: in.AccountID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Status:    workflow.StatusPending,
		Currency:  currency,
		IsActive:  true,
	})
}

func (s *TeacherService) Get(ctx context.Context, actor policy.Actor, id common.UUID) (*teacher.Teacher, error) {
	t, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceTeacher, OwnerTeacherID: t.ID}, policy.ActionRead); err != nil {
		return nil, err
	}
	return t, nil
}

type UpdateTeacherProfileInput struct {
	Phone              *string
	Nationality        *string
	YearsExperience    *int
	Education          *string
	SubjectSpecialty   []string
	PreferredLocations []string
	PreferredAgeGroups []string
	HasChinese         *bool
	LinkedIn           *string
	WeChatID           *string
	AdditionalInfo     *string
}

// UpdateProfile applies a partial profile edit. Status, payment state and
// the active flag are not reachable from here.
func (s *TeacherService) UpdateProfile(ctx context.Context, actor policy.Actor, id common.UUID, in UpdateTeacherProfileInput) (*teacher.Teacher, error) {
	t, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceTeacher, OwnerTeacherID: t.ID}, policy.ActionWrite); err != nil {
		return nil, err
	}

	if in.Phone != nil {
		t.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Nationality != nil {
		t.Nationality = strings.TrimSpace(*in.Nationality)
	}
	if in.YearsExperience != nil {
		if *in.YearsExperience < 0 {
			return nil, common.NewValidationError("years of experience cannot be negative", map[string]string{"years_experience": "negative"})
		}
		t.YearsExperience = *in.YearsExperience
	}
	if in.Education != nil {
		t.Education = strings.TrimSpace(*in.Education)
	}
	if in.SubjectSpecialty != nil {
		t.SubjectSpecialty = trimAll(in.SubjectSpecialty)
	}
	if in.PreferredLocations != nil {
		t.PreferredLocations = trimAll(in.PreferredLocations)
	}
	if in.PreferredAgeGroups != nil {
		t.PreferredAgeGroups = trimAll(in.PreferredAgeGroups)
	}
	if in.HasChinese != nil {
		t.HasChinese = *in.HasChinese
	}
	if in.LinkedIn != nil {
		t.LinkedIn = strings.TrimSpace(*in.LinkedIn)
	}
	if in.WeChatID != nil {
		t.WeChatID = strings.TrimSpace(*in.WeChatID)
	}
	if in.AdditionalInfo != nil {
		t.AdditionalInfo = strings.TrimSpace(*in.AdditionalInfo)
	}

	return s.teachers.Update(ctx, *t)
}

// Browse lists active teacher profiles for paid school accounts and admins.
func (s *TeacherService) Browse(ctx context.Context, actor policy.Actor) ([]teacher.Teacher, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceTeacher}, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.teachers.ListActive(ctx)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
