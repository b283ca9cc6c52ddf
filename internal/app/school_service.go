package app

import (
	"context"
	"strings"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/school"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

type SchoolService struct {
	schools  school.Repository
	accounts school.AccountRepository
	engine   *policy.Engine
}

func NewSchoolService(schools school.Repository, accounts school.AccountRepository, engine *policy.Engine) *SchoolService {
	return &SchoolService{schools: schools, accounts: accounts, engine: engine}
}

// CreateSchool adds an admin-curated school record.
func (s *SchoolService) CreateSchool(ctx context.Context, actor policy.Actor, sc school.School) (*school.School, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceSchool}, policy.ActionWrite); err != nil {
		return nil, err
	}
	sc.Name = strings.TrimSpace(sc.Name)
	sc.City = strings.TrimSpace(sc.City)
	if sc.Name == "" {
		return nil, common.NewValidationError("school name is required", map[string]string{"name": "required"})
	}
	if sc.City == "" {
		return nil, common.NewValidationError("city is required", map[string]string{"city": "required"})
	}
	sc.IsActive = true
	return s.schools.Create(ctx, sc)
}

func (s *SchoolService) UpdateSchool(ctx context.Context, actor policy.Actor, sc school.School) (*school.School, error) {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceSchool}, policy.ActionWrite); err != nil {
		return nil, err
	}
	return s.schools.Update(ctx, sc)
}

// DeactivateSchool hides a school from matching while preserving history.
func (s *SchoolService) DeactivateSchool(ctx context.Context, actor policy.Actor, id common.UUID) error {
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceSchool}, policy.ActionWrite); err != nil {
		return err
	}
	return s.schools.SetActive(ctx, id, false)
}

func (s *SchoolService) GetSchool(ctx context.Context, actor policy.Actor, id common.UUID) (*school.School, error) {
	sc, err := s.schools.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceSchool}, policy.ActionRead); err != nil {
		return nil, err
	}
	return sc, nil
}

type RegisterAccountInput struct {
	SchoolName  string
	Email       string
	ContactName string
	City        string
	Province    string
	Currency    string
}

func (s *SchoolService) RegisterAccount(ctx context.Context, in RegisterAccountInput) (*school.Account, error) {
	in.SchoolName = strings.TrimSpace(in.SchoolName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.SchoolName == "" {
		return nil, common.NewValidationError("school name is required", map[string]string{"school_name": "required"})
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

	if _, err := s.accounts.GetByEmail(ctx, in.Email); err == nil {
		return nil, common.NewError(common.CodeConflict, "an account with this email already exists", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	return s.accounts.Create(ctx, school.Account{
		SchoolName:  in.SchoolName,
		Email:       in.Email,
		ContactName: strings.TrimSpace(in.ContactName),
		City:        strings.TrimSpace(in.City),
		Province:    strings.TrimSpace(in.Province),
		Currency:    currency,
		IsActive:    true,
	})
}

func (s *SchoolService) GetAccount(ctx context.Context, actor policy.Actor, id common.UUID) (*school.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(actor, policy.Resource{Kind: policy.ResourceSchool, OwnerAccountID: account.ID}, policy.ActionRead); err != nil {
		return nil, err
	}
	return account, nil
}
