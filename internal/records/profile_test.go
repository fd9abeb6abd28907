package records

import (
	"strings"
	"testing"
)

func TestJobSeekerText(t *testing.T) {
	t.Parallel()

	p := JobSeekerProfile{Fields: Fields{
		FieldName:             "Ivan",
		FieldSkills:           []any{"Go", "Kubernetes"},
		FieldExperienceYears:  float64(5),
		FieldDesiredPosition:  "Backend Engineer",
		FieldDesiredLocation:  "Remote",
		FieldDesiredSalary:    nil,
		FieldSelfIntroduction: "I build services.",
	}}

	expect := strings.Join([]string{
		"Name: Ivan",
		"Skills: Go, Kubernetes",
		"Years of experience: 5",
		"Desired position: Backend Engineer",
		"Desired location: Remote",
		"Desired salary: ",
		"Self introduction: I build services.",
	}, "\n")

	if got := p.Text(); got != expect {
		t.Fatalf("unexpected text:\n%s\nexpected:\n%s", got, expect)
	}
}

func TestJobText(t *testing.T) {
	t.Parallel()

	p := JobProfile{Fields: Fields{
		FieldTitle:          "Backend Engineer",
		FieldRequiredSkills: "Go, Kubernetes",
		FieldSalaryMin:      float64(3000),
		FieldSalaryMax:      float64(4500),
	}}

	text := p.Text()
	if !strings.HasPrefix(text, "Title: Backend Engineer\nRequired skills: Go, Kubernetes\n") {
		t.Fatalf("unexpected field order:\n%s", text)
	}
	if !strings.Contains(text, "Salary range: 3000-4500") {
		t.Fatalf("expected salary range, got:\n%s", text)
	}
	if !strings.HasSuffix(text, "Description:") {
		t.Fatalf("expected trimmed empty description slot, got:\n%s", text)
	}
}

func TestTextIsDeterministic(t *testing.T) {
	t.Parallel()

	fields := Fields{FieldTitle: "SRE", FieldLocation: "Berlin"}
	a, _ := NewProfile(Job, fields)
	b, _ := NewProfile(Job, fields)
	if a.Text() != b.Text() {
		t.Fatalf("expected identical text for identical records")
	}
}

func TestEmptyProfilesKeepLabels(t *testing.T) {
	t.Parallel()

	for _, typ := range []Type{JobSeeker, Job} {
		p, err := NewProfile(typ, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Type() != typ {
			t.Fatalf("expected %s profile, got %s", typ, p.Type())
		}
		text := p.Text()
		if text == "" || strings.HasSuffix(text, " ") {
			t.Fatalf("expected trimmed labelled template, got %q", text)
		}
		if got := p.Summary(); got != "" {
			t.Fatalf("expected empty summary, got %q", got)
		}
	}
}

func TestNewProfileUnknownType(t *testing.T) {
	t.Parallel()

	if _, err := NewProfile("RECRUITER", Fields{}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestSummaryCapsFreeText(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 300)

	seeker := JobSeekerProfile{Fields: Fields{
		FieldName:             "Anna",
		FieldSkills:           "Go",
		FieldExperienceYears:  "3",
		FieldSelfIntroduction: long,
	}}
	summary := seeker.Summary()
	if !strings.HasPrefix(summary, "Anna; skills Go; 3 yrs; ") {
		t.Fatalf("unexpected summary: %q", summary)
	}
	if strings.Contains(summary, strings.Repeat("x", MaxSummaryFreeText+1)) {
		t.Fatalf("free text was not capped: %d runes", len([]rune(summary)))
	}
	if !strings.HasSuffix(summary, strings.Repeat("x", MaxSummaryFreeText)) {
		t.Fatalf("expected capped free text at the end: %q", summary)
	}

	job := JobProfile{Fields: Fields{FieldTitle: "SRE", FieldDescription: long}}
	if got := len([]rune(job.Summary())); got != len("SRE; ")+MaxSummaryFreeText {
		t.Fatalf("unexpected job summary length %d", got)
	}
}

func TestSummaryShorterThanText(t *testing.T) {
	t.Parallel()

	p := JobProfile{Fields: Fields{
		FieldTitle:          "Backend Engineer",
		FieldRequiredSkills: "Go, Kubernetes",
		FieldLocation:       "Remote",
		FieldDescription:    strings.Repeat("We ship things. ", 40),
	}}
	if len(p.Summary()) >= len(p.Text()) {
		t.Fatalf("summary should be shorter than text")
	}
}
