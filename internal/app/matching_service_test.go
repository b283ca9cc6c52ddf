package app

import (
	"context"
	"testing"

	"github.com/JoeYatesss/educonnect-api/internal/common"
	"github.com/JoeYatesss/educonnect-api/internal/domain/event"
	"github.com/JoeYatesss/educonnect-api/internal/domain/job"
	"github.com/JoeYatesss/educonnect-api/internal/domain/match"
	"github.com/JoeYatesss/educonnect-api/internal/domain/school"
	"github.com/JoeYatesss/educonnect-api/internal/domain/teacher"
	"github.com/JoeYatesss/educonnect-api/internal/domain/workflow"
	"github.com/JoeYatesss/educonnect-api/internal/policy"
)

func newMatchingFixture() (*MatchingService, *fakeTeacherRepo, *fakeSchoolRepo, *fakeJobRepo, *fakeMatchRepo, *capturePublisher) {
	teachers := newFakeTeacherRepo()
	schools := newFakeSchoolRepo()
	jobs := newFakeJobRepo()
	matches := newFakeMatchRepo()
	events := &capturePublisher{}
	service := NewMatchingService(teachers, schools, jobs, matches, policy.NewEngine(), events, nil)
	return service, teachers, schools, jobs, matches, events
}

func seedTeacher(t *testing.T, repo *fakeTeacherRepo, city string) *teacher.Teacher {
	t.Helper()
	created, err := repo.Create(context.Background(), teacher.Teacher{
		FirstName:          "Alice",
		LastName:           "Ng",
		Email:              "alice@example.com",
		PreferredLocations: []string{city},
		SubjectSpecialty:   []string{"English"},
		PreferredAgeGroups: []string{"Primary"},
		YearsExperience:    5,
		Status:             workflow.StatusPending,
		IsActive:           true,
	})
	if err != nil {
		t.Fatalf("seeding teacher: %v", err)
	}
	return created
}

func seedSchool(t *testing.T, repo *fakeSchoolRepo, city string) *school.School {
	t.Helper()
	created, err := repo.Create(context.Background(), school.School{
		Name:               city + " International",
		City:               city,
		SubjectsNeeded:     []string{"English"},
		AgeGroups:          []string{"Primary"},
		ExperienceRequired: "3-5 years",
		IsActive:           true,
	})
	if err != nil {
		t.Fatalf("seeding school: %v", err)
	}
	return created
}

func TestMatchingRunCreatesMatches(t *testing.T) {
	service, teachers, schools, jobs, matches, events := newMatchingFixture()
	candidate := seedTeacher(t, teachers, "Shanghai")
	target := seedSchool(t, schools, "Shanghai")
	if _, err := jobs.Create(context.Background(), job.Job{
		Title:    "English Teacher",
		City:     "Shanghai",
		Subjects: []string{"English"},
		Source:   job.SourceManual,
		IsActive: true,
	}); err != nil {
		t.Fatalf("seeding job: %v", err)
	}

	summary, err := service.Run(context.Background(), policy.Service(), Scope{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if summary.PairsScanned != 2 {
		t.Fatalf("expected 2 pairs scanned, got %d", summary.PairsScanned)
	}
	if summary.Created != 2 {
		t.Fatalf("expected 2 created, got %d", summary.Created)
	}

	saved, err := matches.GetByPair(context.Background(), candidate.ID, match.SchoolTarget(target.ID))
	if err != nil {
		t.Fatalf("expected saved match, got %v", err)
	}
	if saved.Score != 100 {
		t.Fatalf("expected score 100, got %v", saved.Score)
	}
	if len(events.named(event.NameMatchCreated)) != 2 {
		t.Fatalf("expected 2 match.created events, got %d", len(events.named(event.NameMatchCreated)))
	}
}

func TestMatchingRunIdempotent(t *testing.T) {
	service, teachers, schools, _, matches, _ := newMatchingFixture()
	seedTeacher(t, teachers, "Shanghai")
	seedSchool(t, schools, "Shanghai")

	first, err := service.Run(context.Background(), policy.Service(), Scope{})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Created != 1 {
		t.Fatalf("expected 1 created, got %d", first.Created)
	}

	second, err := service.Run(context.Background(), policy.Service(), Scope{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Created != 0 {
		t.Fatalf("expected no new rows on replay, got %d", second.Created)
	}
	if second.Unchanged != 1 {
		t.Fatalf("expected 1 unchanged, got %d", second.Unchanged)
	}
	if matches.updateCalls != 0 {
		t.Fatalf("expected no score rewrites for identical data, got %d", matches.updateCalls)
	}
}

func TestMatchingRunUpdatesChangedProfile(t *testing.T) {
	service, teachers, schools, _, _, _ := newMatchingFixture()
	candidate := seedTeacher(t, teachers, "Shanghai")
	target := seedSchool(t, schools, "Shanghai")

	if _, err := service.Run(context.Background(), policy.Service(), Scope{}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	candidate.PreferredLocations = []string{"Beijing"}
	if _, err := teachers.Update(context.Background(), *candidate); err != nil {
		t.Fatalf("updating teacher: %v", err)
	}

	summary, err := service.Run(context.Background(), policy.Service(), Scope{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Updated != 1 {
		t.Fatalf("expected 1 updated, got %d", summary.Updated)
	}

	saved, err := service.matches.GetByPair(context.Background(), candidate.ID, match.SchoolTarget(target.ID))
	if err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if saved.Score == 100 {
		t.Fatal("expected score to drop after location change")
	}
}

func TestMatchingRunSkipsInactive(t *testing.T) {
	service, teachers, schools, _, matches, _ := newMatchingFixture()
	seedTeacher(t, teachers, "Shanghai")
	inactive := seedSchool(t, schools, "Shanghai")
	if err := schools.SetActive(context.Background(), inactive.ID, false); err != nil {
		t.Fatalf("deactivating school: %v", err)
	}

	// The default scope lists active rows only, so the school never
	// enters the run.
	summary, err := service.Run(context.Background(), policy.Service(), Scope{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if summary.PairsScanned != 0 || summary.Created != 0 {
		t.Fatalf("expected empty run, got %d scanned %d created", summary.PairsScanned, summary.Created)
	}

	// Naming the inactive school explicitly reports it as skipped.
	summary, err = service.Run(context.Background(), policy.Service(), Scope{SchoolIDs: []common.UUID{inactive.ID}})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("expected 1 skipped, got %d", summary.Skipped)
	}
	if summary.Created != 0 {
		t.Fatalf("expected no matches against inactive school, got %d", summary.Created)
	}
	if matches.createCalls != 0 {
		t.Fatalf("expected no create attempts, got %d", matches.createCalls)
	}
}

func TestMatchingRunMinScoreFilter(t *testing.T) {
	service, teachers, schools, _, matches, _ := newMatchingFixture()
	seedTeacher(t, teachers, "Beijing")
	seedSchool(t, schools, "Shanghai")
	service.WithMinScore(70)

	summary, err := service.Run(context.Background(), policy.Service(), Scope{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if summary.Created != 0 {
		t.Fatalf("expected below-threshold pair not persisted, got %d created", summary.Created)
	}
	if summary.Skipped != 1 {
		t.Fatalf("expected 1 skipped, got %d", summary.Skipped)
	}
	if matches.createCalls != 0 {
		t.Fatalf("expected no create attempts, got %d", matches.createCalls)
	}
}

func TestMatchingRunPreservesSubmittedFlag(t *testing.T) {
	service, teachers, schools, _, matches, _ := newMatchingFixture()
	candidate := seedTeacher(t, teachers, "Shanghai")
	target := seedSchool(t, schools, "Shanghai")

	if _, err := service.Run(context.Background(), policy.Service(), Scope{}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	saved, err := matches.GetByPair(context.Background(), candidate.ID, match.SchoolTarget(target.ID))
	if err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := matches.MarkSubmitted(context.Background(), saved.ID); err != nil {
		t.Fatalf("marking submitted: %v", err)
	}

	candidate.YearsExperience = 1
	if _, err := teachers.Update(context.Background(), *candidate); err != nil {
		t.Fatalf("updating teacher: %v", err)
	}
	if _, err := service.Run(context.Background(), policy.Service(), Scope{}); err != nil {
		t.Fatalf("second run: %v", err)
	}

	after, err := matches.GetByID(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("expected match to survive rescoring, got %v", err)
	}
	if !after.IsSubmitted {
		t.Fatal("expected submitted flag to survive rescoring")
	}
	if after.Score == saved.Score {
		t.Fatal("expected score to change after profile update")
	}
}

func TestMatchingRunScopedToTeachers(t *testing.T) {
	service, teachers, schools, _, _, _ := newMatchingFixture()
	inScope := seedTeacher(t, teachers, "Shanghai")
	if _, err := teachers.Create(context.Background(), teacher.Teacher{
		FirstName:          "Bob",
		LastName:           "Li",
		Email:              "bob@example.com",
		PreferredLocations: []string{"Shanghai"},
		IsActive:           true,
	}); err != nil {
		t.Fatalf("seeding second teacher: %v", err)
	}
	seedSchool(t, schools, "Shanghai")

	summary, err := service.Run(context.Background(), policy.Service(), Scope{TeacherIDs: []common.UUID{inScope.ID}})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if summary.PairsScanned != 1 {
		t.Fatalf("expected 1 pair scanned with scoped run, got %d", summary.PairsScanned)
	}
}

func TestMatchingRunForbiddenForSchools(t *testing.T) {
	service, _, _, _, _, _ := newMatchingFixture()
	actor := policy.Actor{Role: policy.RoleSchool, ID: common.NewUUID()}

	_, err := service.Run(context.Background(), actor, Scope{})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}
