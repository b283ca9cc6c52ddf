package app

import (
	"strings"
	"testing"

	"github.com/JoeYatesss/educonnect-api/internal/domain/teacher"
)

func TestScoreFullMatch(t *testing.T) {
	candidate := teacher.Teacher{
		PreferredLocations: []string{"Shanghai"},
		SubjectSpecialty:   []string{"English"},
		PreferredAgeGroups: []string{"Primary"},
		YearsExperience:    5,
		HasChinese:         false,
	}
	target := TargetProfile{
		City:               "Shanghai",
		Subjects:           []string{"English"},
		AgeGroups:          []string{"Primary"},
		ExperienceRequired: "3-5 years",
		ChineseRequired:    false,
	}

	score, reasons := Score(candidate, target)
	if score != 100 {
		t.Fatalf("expected score 100, got %v", score)
	}
	if len(reasons) != 5 {
		t.Fatalf("expected 5 reasons, got %d: %v", len(reasons), reasons)
	}
	if !strings.HasPrefix(reasons[0], "Location match") {
		t.Fatalf("expected location reason first, got %q", reasons[0])
	}
	if reasons[4] != "No Chinese language requirement" {
		t.Fatalf("expected chinese reason last, got %q", reasons[4])
	}
}

func TestScoreNoOverlap(t *testing.T) {
	candidate := teacher.Teacher{
		PreferredLocations: []string{"Beijing"},
		SubjectSpecialty:   []string{"Art"},
		PreferredAgeGroups: []string{"Primary"},
		YearsExperience:    3,
		HasChinese:         false,
	}
	target := TargetProfile{
		City:               "Shenzhen",
		Province:           "Guangdong",
		Subjects:           []string{"Music"},
		AgeGroups:          []string{"High School"},
		ExperienceRequired: "5+ years",
		ChineseRequired:    true,
	}

	score, reasons := Score(candidate, target)
	if score != 0 {
		t.Fatalf("expected score 0, got %v", score)
	}
	if len(reasons) != 0 {
		t.Fatalf("expected no reasons, got %v", reasons)
	}
}

func TestScoreProvincePartialCredit(t *testing.T) {
	candidate := teacher.Teacher{
		PreferredLocations: []string{"Guangdong"},
	}
	target := TargetProfile{
		City:            "Shenzhen",
		Province:        "Guangdong",
		ChineseRequired: true,
	}

	score, reasons := Score(candidate, target)
	if score != provinceCredit {
		t.Fatalf("expected province credit %v, got %v", provinceCredit, score)
	}
	if len(reasons) != 1 || !strings.HasPrefix(reasons[0], "Same province") {
		t.Fatalf("expected province reason, got %v", reasons)
	}
}

func TestScoreSubjectSynonym(t *testing.T) {
	candidate := teacher.Teacher{
		SubjectSpecialty: []string{"PE"},
	}
	target := TargetProfile{
		Subjects:        []string{"Physical Education"},
		ChineseRequired: true,
	}

	score, reasons := Score(candidate, target)
	if score != subjectSynonymCredit {
		t.Fatalf("expected synonym credit %v, got %v", subjectSynonymCredit, score)
	}
	if len(reasons) != 1 || !strings.HasPrefix(reasons[0], "Related subject") {
		t.Fatalf("expected related subject reason, got %v", reasons)
	}
}

func TestScoreExperienceNearMiss(t *testing.T) {
	candidate := teacher.Teacher{
		YearsExperience: 4,
	}
	target := TargetProfile{
		ExperienceRequired: "5+ years",
		ChineseRequired:    true,
	}

	score, reasons := Score(candidate, target)
	if score != experienceNearMiss {
		t.Fatalf("expected near-miss credit %v, got %v", experienceNearMiss, score)
	}
	if len(reasons) != 1 || !strings.Contains(reasons[0], "close to") {
		t.Fatalf("expected near-miss reason, got %v", reasons)
	}
}

func TestScoreMissingRequirementEarnsNothing(t *testing.T) {
	candidate := teacher.Teacher{
		YearsExperience: 10,
	}
	target := TargetProfile{
		ExperienceRequired: "",
		ChineseRequired:    true,
	}

	score, _ := Score(candidate, target)
	if score != 0 {
		t.Fatalf("expected 0 for missing requirement, got %v", score)
	}
}

func TestScoreChineseProficiency(t *testing.T) {
	candidate := teacher.Teacher{HasChinese: true}
	target := TargetProfile{ChineseRequired: true}

	score, reasons := Score(candidate, target)
	if score != weightChinese {
		t.Fatalf("expected chinese weight %v, got %v", weightChinese, score)
	}
	if len(reasons) != 1 || reasons[0] != "Chinese language proficiency" {
		t.Fatalf("expected proficiency reason, got %v", reasons)
	}
}

func TestScoreOrderInvariant(t *testing.T) {
	candidate := teacher.Teacher{
		PreferredLocations: []string{"Chengdu", "Shanghai", "Beijing"},
		SubjectSpecialty:   []string{"Science", "Math", "English"},
		PreferredAgeGroups: []string{"Middle School", "Primary"},
		YearsExperience:    6,
		HasChinese:         true,
	}
	shuffled := candidate
	shuffled.PreferredLocations = []string{"Beijing", "Chengdu", "Shanghai"}
	shuffled.SubjectSpecialty = []string{"English", "Science", "Math"}
	shuffled.PreferredAgeGroups = []string{"Primary", "Middle School"}

	target := TargetProfile{
		City:               "Shanghai",
		Subjects:           []string{"Math", "English"},
		AgeGroups:          []string{"Primary"},
		ExperienceRequired: "5+ years",
		ChineseRequired:    true,
	}

	score1, reasons1 := Score(candidate, target)
	score2, reasons2 := Score(shuffled, target)
	if score1 != score2 {
		t.Fatalf("expected identical scores, got %v and %v", score1, score2)
	}
	if !equalStrings(reasons1, reasons2) {
		t.Fatalf("expected identical reasons, got %v and %v", reasons1, reasons2)
	}
}

func TestScoreDeterministic(t *testing.T) {
	candidate := teacher.Teacher{
		PreferredLocations: []string{"Hangzhou"},
		SubjectSpecialty:   []string{"ESL", "Homeroom"},
		PreferredAgeGroups: []string{"Primary", "Kindergarten"},
		YearsExperience:    2,
		HasChinese:         false,
	}
	target := TargetProfile{
		City:               "Hangzhou",
		Subjects:           []string{"English Literature", "Elementary"},
		AgeGroups:          []string{"Primary"},
		ExperienceRequired: "0-2 years",
		ChineseRequired:    false,
	}

	firstScore, firstReasons := Score(candidate, target)
	for i := 0; i < 50; i++ {
		score, reasons := Score(candidate, target)
		if score != firstScore || !equalStrings(reasons, firstReasons) {
			t.Fatalf("run %d diverged: %v %v vs %v %v", i, score, reasons, firstScore, firstReasons)
		}
	}
}

func TestParseExperienceMin(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0-2 years", 0, true},
		{"3-5 years", 3, true},
		{"5+ years", 5, true},
		{"2 years", 2, true},
		{"", 0, false},
		{"senior", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseExperienceMin(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseExperienceMin(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
