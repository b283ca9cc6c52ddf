package app

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/JoeYatesss/educonnect-api/internal/domain/job"
	"github.com/JoeYatesss/educonnect-api/internal/domain/school"
	"github.com/JoeYatesss/educonnect-api/internal/domain/teacher"
)

// Factor weights. Sub-scores contribute at most their weight; the total
// is clamped to [0, 100].
const (
	weightLocation   = 35.0
	weightSubject    = 25.0
	weightAgeGroup   = 20.0
	weightExperience = 15.0
	weightChinese    = 5.0

	provinceCredit       = 24.0 // partial credit for same province, different city
	subjectSynonymCredit = 15.0
	experienceNearMiss   = 8.0 // one year short of the required bracket
)

// TargetProfile is the scoring view of a hiring target. Schools and job
// postings both reduce to it, so the scorer stays a single pure function.
type TargetProfile struct {
	City               string
	Province           string
	Subjects           []string
	AgeGroups          []string
	ExperienceRequired string
	ChineseRequired    bool
}

func SchoolProfile(s school.School) TargetProfile {
	return TargetProfile{
		City:               s.City,
		Province:           s.Province,
		Subjects:           s.SubjectsNeeded,
		AgeGroups:          s.AgeGroups,
		ExperienceRequired: s.ExperienceRequired,
		ChineseRequired:    s.ChineseRequired,
	}
}

func JobProfile(j job.Job) TargetProfile {
	return TargetProfile{
		City:               j.City,
		Province:           j.Province,
		Subjects:           j.Subjects,
		AgeGroups:          j.AgeGroups,
		ExperienceRequired: j.ExperienceRequired,
		ChineseRequired:    j.ChineseRequired,
	}
}

// subjectGroups maps curated synonym/category variants onto a canonical
// subject, so "PE" still earns partial credit against "Physical Education".
var subjectGroups = map[string]string{
	"pe":                 "physical education",
	"sports":             "physical education",
	"physical education": "physical education",
	"math":               "mathematics",
	"maths":              "mathematics",
	"mathematics":        "mathematics",
	"esl":                "english",
	"efl":                "english",
	"english":            "english",
	"english literature": "english",
	"science":            "science",
	"physics":            "science",
	"chemistry":          "science",
	"biology":            "science",
	"homeroom":           "primary",
	"elementary":         "primary",
	"primary":            "primary",
	"chinese":            "chinese",
	"mandarin":           "chinese",
	"ict":                "computing",
	"computing":          "computing",
	"computer science":   "computing",
}

// Score computes the weighted compatibility score for a teacher/target
// pair together with one reason per factor that earned credit, ordered by
// factor weight. Deterministic: no randomness, no I/O, and invariant
// under re-ordering of the slice-valued fields.
func Score(t teacher.Teacher, target TargetProfile) (float64, []string) {
	var total float64
	var reasons []string

	if credit, reason := locationScore(t.PreferredLocations, target.City, target.Province); credit > 0 {
		total += credit
		reasons = append(reasons, reason)
	}
	if credit, reason := subjectScore(t.SubjectSpecialty, target.Subjects); credit > 0 {
		total += credit
		reasons = append(reasons, reason)
	}
	if credit, reason := ageGroupScore(t.PreferredAgeGroups, target.AgeGroups); credit > 0 {
		total += credit
		reasons = append(reasons, reason)
	}
	if credit, reason := experienceScore(t.YearsExperience, target.ExperienceRequired); credit > 0 {
		total += credit
		reasons = append(reasons, reason)
	}
	if credit, reason := chineseScore(t.HasChinese, target.ChineseRequired); credit > 0 {
		total += credit
		reasons = append(reasons, reason)
	}

	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	return total, reasons
}

func locationScore(preferred []string, city, province string) (float64, string) {
	normalizedCity := normalizeTerm(city)
	normalizedProvince := normalizeTerm(province)
	if len(preferred) == 0 || normalizedCity == "" {
		return 0, ""
	}
	for _, loc := range preferred {
		if normalizeTerm(loc) == normalizedCity {
			return weightLocation, "Location match: " + strings.TrimSpace(city)
		}
	}
	if normalizedProvince == "" {
		return 0, ""
	}
	for _, loc := range preferred {
		normalized := normalizeTerm(loc)
		if normalized == "" {
			continue
		}
		if strings.Contains(normalizedProvince, normalized) || strings.Contains(normalized, normalizedProvince) {
			return provinceCredit, "Same province: " + strings.TrimSpace(province)
		}
	}
	return 0, ""
}

func subjectScore(teacherSubjects, required []string) (float64, string) {
	teacherSet := normalizeSet(teacherSubjects)
	requiredSet := normalizeSet(required)
	if len(teacherSet) == 0 || len(requiredSet) == 0 {
		return 0, ""
	}
	if overlap := intersect(teacherSet, requiredSet); len(overlap) > 0 {
		return weightSubject, "Subject match: " + strings.Join(overlap, ", ")
	}
	for _, ts := range sortedKeys(teacherSet) {
		canonical, ok := subjectGroups[ts]
		if !ok {
			continue
		}
		for _, rs := range sortedKeys(requiredSet) {
			if subjectGroups[rs] == canonical {
				return subjectSynonymCredit, "Related subject: " + ts + " ~ " + rs
			}
		}
	}
	return 0, ""
}

func ageGroupScore(preferred, required []string) (float64, string) {
	preferredSet := normalizeSet(preferred)
	requiredSet := normalizeSet(required)
	if len(preferredSet) == 0 || len(requiredSet) == 0 {
		return 0, ""
	}
	if overlap := intersect(preferredSet, requiredSet); len(overlap) > 0 {
		return weightAgeGroup, "Age group match: " + strings.Join(overlap, ", ")
	}
	return 0, ""
}

// experienceScore parses bracket strings of the "0-2 years" / "3-5 years" /
// "5+ years" shape. Meeting the bracket minimum earns full weight, one
// year short earns partial credit, anything further below earns nothing.
// A missing or unparseable requirement contributes zero.
func experienceScore(years int, required string) (float64, string) {
	minYears, ok := parseExperienceMin(required)
	if !ok {
		return 0, ""
	}
	if years >= minYears {
		return weightExperience, fmt.Sprintf("Experience: %d years meets %s", years, strings.TrimSpace(required))
	}
	if minYears-years == 1 {
		return experienceNearMiss, fmt.Sprintf("Experience: %d years close to %s", years, strings.TrimSpace(required))
	}
	return 0, ""
}

func parseExperienceMin(required string) (int, bool) {
	required = normalizeTerm(required)
	if required == "" {
		return 0, false
	}
	if strings.Contains(required, "+") {
		head := strings.TrimSpace(strings.SplitN(required, "+", 2)[0])
		if n, err := strconv.Atoi(head); err == nil {
			return n, true
		}
		return 0, false
	}
	if strings.Contains(required, "-") {
		head := strings.TrimSpace(strings.SplitN(required, "-", 2)[0])
		if n, err := strconv.Atoi(head); err == nil {
			return n, true
		}
		return 0, false
	}
	head := strings.Fields(required)
	if len(head) > 0 {
		if n, err := strconv.Atoi(head[0]); err == nil {
			return n, true
		}
	}
	return 0, false
}

func chineseScore(hasChinese, required bool) (float64, string) {
	if !required {
		return weightChinese, "No Chinese language requirement"
	}
	if hasChinese {
		return weightChinese, "Chinese language proficiency"
	}
	return 0, ""
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		normalized := normalizeTerm(v)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func intersect(a, b map[string]struct{}) []string {
	var out []string
	for v := range a {
		if _, ok := b[v]; ok {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
