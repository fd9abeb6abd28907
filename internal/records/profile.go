package records

import (
	"fmt"
	"strings"

	"github.com/spigell/hh-matcher/internal/utils"
)

// Job seeker field keys.
const (
	FieldName             = "name"
	FieldSkills           = "skills"
	FieldExperienceYears  = "experience_years"
	FieldDesiredPosition  = "desired_position"
	FieldDesiredLocation  = "desired_location"
	FieldDesiredSalary    = "desired_salary"
	FieldSelfIntroduction = "self_introduction"
)

// Job field keys.
const (
	FieldTitle                   = "title"
	FieldRequiredSkills          = "required_skills"
	FieldRequiredExperienceYears = "required_experience_years"
	FieldPosition                = "position"
	FieldLocation                = "location"
	FieldSalaryMin               = "salary_min"
	FieldSalaryMax               = "salary_max"
	FieldDescription             = "description"
)

// MaxSummaryFreeText caps free-text fields inside a summary.
const MaxSummaryFreeText = 100

// Profile is the typed view of a record. Text is the canonical text sent to
// the index for embedding; Summary is the terse one-liner used in prompts.
//
// Changing Text invalidates vectors of already indexed entries until they are
// upserted again.
type Profile interface {
	Type() Type
	Text() string
	Summary() string
}

// JobSeekerProfile is a candidate looking for a position.
type JobSeekerProfile struct {
	Fields Fields
}

// JobProfile is a job posting.
type JobProfile struct {
	Fields Fields
}

// NewProfile wraps fields into the variant matching t.
func NewProfile(t Type, fields Fields) (Profile, error) {
	switch t {
	case JobSeeker:
		return JobSeekerProfile{Fields: fields}, nil
	case Job:
		return JobProfile{Fields: fields}, nil
	default:
		return nil, fmt.Errorf("unknown record type %q", string(t))
	}
}

func (JobSeekerProfile) Type() Type { return JobSeeker }

func (p JobSeekerProfile) Text() string {
	f := p.Fields
	return strings.TrimSpace(strings.Join([]string{
		"Name: " + f.get(FieldName),
		"Skills: " + f.get(FieldSkills),
		"Years of experience: " + f.get(FieldExperienceYears),
		"Desired position: " + f.get(FieldDesiredPosition),
		"Desired location: " + f.get(FieldDesiredLocation),
		"Desired salary: " + f.get(FieldDesiredSalary),
		"Self introduction: " + f.get(FieldSelfIntroduction),
	}, "\n"))
}

func (p JobSeekerProfile) Summary() string {
	f := p.Fields
	return joinSummary(
		f.get(FieldName),
		labeled("skills", f.get(FieldSkills)),
		years(f.get(FieldExperienceYears)),
		labeled("wants", f.get(FieldDesiredPosition)),
		labeled("in", f.get(FieldDesiredLocation)),
		labeled("salary", f.get(FieldDesiredSalary)),
		utils.Truncate(f.get(FieldSelfIntroduction), MaxSummaryFreeText),
	)
}

func (JobProfile) Type() Type { return Job }

func (p JobProfile) Text() string {
	f := p.Fields
	return strings.TrimSpace(strings.Join([]string{
		"Title: " + f.get(FieldTitle),
		"Required skills: " + f.get(FieldRequiredSkills),
		"Required years of experience: " + f.get(FieldRequiredExperienceYears),
		"Position: " + f.get(FieldPosition),
		"Location: " + f.get(FieldLocation),
		"Salary range: " + salaryRange(f.get(FieldSalaryMin), f.get(FieldSalaryMax)),
		"Description: " + f.get(FieldDescription),
	}, "\n"))
}

func (p JobProfile) Summary() string {
	f := p.Fields
	return joinSummary(
		f.get(FieldTitle),
		labeled("requires", f.get(FieldRequiredSkills)),
		years(f.get(FieldRequiredExperienceYears)),
		labeled("in", f.get(FieldLocation)),
		labeled("salary", salaryRange(f.get(FieldSalaryMin), f.get(FieldSalaryMax))),
		utils.Truncate(f.get(FieldDescription), MaxSummaryFreeText),
	)
}

// salaryRange renders "min-max"; an entirely unknown range stays an empty slot.
func salaryRange(lo, hi string) string {
	if lo == "" && hi == "" {
		return ""
	}
	return lo + "-" + hi
}

func labeled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + " " + value
}

func years(value string) string {
	if value == "" {
		return ""
	}
	return value + " yrs"
}

func joinSummary(parts ...string) string {
	kept := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "; ")
}
