package headhunter

import (
	"testing"

	"github.com/spigell/hh-matcher/internal/records"
)

func TestVacancyRecord(t *testing.T) {
	t.Parallel()

	v := &Vacancy{
		ID:          "42",
		Name:        "Backend Engineer",
		Area:        Named{Name: "Tokyo"},
		Experience:  Named{ID: "between1And3"},
		KeySkills:   []Named{{Name: "Go"}, {Name: "PostgreSQL"}},
		Description: "<p>Build &amp; run <b>services</b></p>",
	}
	v.Salary.From = 5000

	rec := VacancyRecord(v)
	if rec.ID != "hh-vacancy-42" || rec.Type != records.Job {
		t.Fatalf("unexpected record identity: %s %s", rec.ID, rec.Type)
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("expected valid record: %v", err)
	}

	f := rec.Fields
	if f[records.FieldDescription] != "Build & run services" {
		t.Fatalf("unexpected description %q", f[records.FieldDescription])
	}
	if f[records.FieldRequiredExperienceYears] != "1-3" {
		t.Fatalf("unexpected experience %v", f[records.FieldRequiredExperienceYears])
	}
	if f[records.FieldSalaryMin] != 5000 {
		t.Fatalf("unexpected salary min %v", f[records.FieldSalaryMin])
	}
	if _, ok := f[records.FieldSalaryMax]; ok {
		t.Fatalf("expected unknown salary max to be absent")
	}
	if _, ok := f["url"]; ok {
		t.Fatalf("expected empty url to be dropped")
	}

	skills, _ := records.Stringify(f[records.FieldRequiredSkills])
	if skills != "Go, PostgreSQL" {
		t.Fatalf("unexpected skills %q", skills)
	}
}

func TestResumeRecord(t *testing.T) {
	t.Parallel()

	rec := ResumeRecord(&ResumeDetails{
		ID:    "r1",
		Title: "Go engineer",
		Raw: map[string]any{
			"first_name":       "Anna",
			"last_name":        "Ivanova",
			"area":             map[string]any{"name": "Tokyo"},
			"skill_set":        []any{"Go", "Kubernetes"},
			"skills":           "<p>I like distributed systems</p>",
			"total_experience": map[string]any{"months": float64(30)},
			"salary":           map[string]any{"amount": float64(300000)},
		},
	})

	if rec.ID != "hh-resume-r1" || rec.Type != records.JobSeeker {
		t.Fatalf("unexpected record identity: %s %s", rec.ID, rec.Type)
	}

	want := map[string]string{
		records.FieldName:             "Anna Ivanova",
		records.FieldDesiredPosition:  "Go engineer",
		records.FieldDesiredLocation:  "Tokyo",
		records.FieldSkills:           "Go, Kubernetes",
		records.FieldSelfIntroduction: "I like distributed systems",
		records.FieldExperienceYears:  "2.5",
		records.FieldDesiredSalary:    "300000",
	}
	for key, expected := range want {
		got, _ := records.Stringify(rec.Fields[key])
		if got != expected {
			t.Fatalf("field %s: expected %q, got %q", key, expected, got)
		}
	}
}

func TestResumeRecordSparse(t *testing.T) {
	t.Parallel()

	rec := ResumeRecord(&ResumeDetails{ID: "r2", Raw: map[string]any{}})
	if len(rec.Fields) != 0 {
		t.Fatalf("expected no fields, got %v", rec.Fields)
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("expected empty fields to still be valid: %v", err)
	}
}
