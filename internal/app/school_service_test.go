package app

import (
	"context"
	"testing"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/school"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

func newSchoolFixture() (*SchoolService, *fakeSchoolRepo, *fakeAccountRepo) {
	schools := newFakeSchoolRepo()
	accounts := newFakeAccountRepo()
	return NewSchoolService(schools, accounts, policy.NewEngine()), schools, accounts
}

func TestRegisterAccountNormalizesInput(t *testing.T) {
	service, _, _ := newSchoolFixture()

	created, err := service.RegisterAccount(context.Background(), RegisterAccountInput{
		SchoolName: " Harbour International ",
		Email:      " Admin@Harbour.Example ",
		City:       "Shanghai",
		Currency:   "gbp",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.SchoolName != "Harbour International" {
		t.Fatalf("expected trimmed name, got %q", created.SchoolName)
	}
	if created.Email != "admin@harbour.example" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.Currency != "GBP" {
		t.Fatalf("expected GBP, got %q", created.Currency)
	}
	if !created.IsActive {
		t.Fatal("expected new account to be active")
	}
}

func TestRegisterAccountDuplicateEmailConflicts(t *testing.T) {
	service, _, _ := newSchoolFixture()
	in := RegisterAccountInput{SchoolName: "Harbour International", Email: "admin@harbour.example"}

	if _, err := service.RegisterAccount(context.Background(), in); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	_, err := service.RegisterAccount(context.Background(), in)
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateSchoolAdminOnly(t *testing.T) {
	service, _, _ := newSchoolFixture()
	record := school.School{Name: "Harbour International", City: "Shanghai"}

	created, err := service.CreateSchool(context.Background(), policy.Actor{Role: policy.RoleAdmin}, record)
	if err != nil {
		t.Fatalf("expected admin create to pass, got %v", err)
	}
	if !created.IsActive {
		t.Fatal("expected new school to be active")
	}

	_, err = service.CreateSchool(context.Background(), policy.Actor{Role: policy.RoleTeacher, ID: common.NewUUID()}, record)
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestCreateSchoolValidatesFields(t *testing.T) {
	service, _, _ := newSchoolFixture()
	admin := policy.Actor{Role: policy.RoleAdmin}

	if _, err := service.CreateSchool(context.Background(), admin, school.School{City: "Shanghai"}); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}
	if _, err := service.CreateSchool(context.Background(), admin, school.School{Name: "Harbour"}); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for missing city, got %v", err)
	}
}

func TestGetAccountOwnRowOnly(t *testing.T) {
	service, _, _ := newSchoolFixture()
	created, err := service.RegisterAccount(context.Background(), RegisterAccountInput{
		SchoolName: "Harbour International",
		Email:      "admin@harbour.example",
	})
	if err != nil {
		t.Fatalf("registration: %v", err)
	}

	owner := policy.Actor{Role: policy.RoleSchool, ID: created.ID}
	if _, err := service.GetAccount(context.Background(), owner, created.ID); err != nil {
		t.Fatalf("expected owner read to pass, got %v", err)
	}

	other := policy.Actor{Role: policy.RoleSchool, ID: common.NewUUID()}
	if _, err := service.GetAccount(context.Background(), other, created.ID); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestDeactivateSchoolExcludesFromMatching(t *testing.T) {
	service, schools, _ := newSchoolFixture()
	admin := policy.Actor{Role: policy.RoleAdmin}
	created, err := service.CreateSchool(context.Background(), admin, school.School{Name: "Harbour International", City: "Shanghai"})
	if err != nil {
		t.Fatalf("creating school: %v", err)
	}

	if err := service.DeactivateSchool(context.Background(), admin, created.ID); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	active, err := schools.ListActive(context.Background())
	if err != nil {
		t.Fatalf("listing schools: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active schools, got %d", len(active))
	}
}
