package headhunter

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/hh-matcher/internal/records"
)

const (
	vacancyIDPrefix = "hh-vacancy-"
	resumeIDPrefix  = "hh-resume-"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// VacancyRecord converts a vacancy into a JOB record.
func VacancyRecord(v *Vacancy) records.Record {
	fields := records.Fields{
		records.FieldTitle:    v.Name,
		records.FieldLocation: v.Area.Name,
		"employer":            v.Employer.Name,
		"url":                 v.AlternateURL,
	}

	skills := make([]string, 0, len(v.KeySkills))
	for _, s := range v.KeySkills {
		skills = append(skills, s.Name)
	}
	if len(skills) > 0 {
		fields[records.FieldRequiredSkills] = skills
	} else if req := plainText(v.Snipet.Requirement); req != "" {
		fields[records.FieldRequiredSkills] = req
	}

	if years := experienceYears(v.Experience.ID); years != "" {
		fields[records.FieldRequiredExperienceYears] = years
	}
	if len(v.ProfessionalRoles) > 0 {
		fields[records.FieldPosition] = v.ProfessionalRoles[0].Name
	}
	if v.Salary.From > 0 {
		fields[records.FieldSalaryMin] = v.Salary.From
	}
	if v.Salary.To > 0 {
		fields[records.FieldSalaryMax] = v.Salary.To
	}
	if v.Salary.Currency != "" {
		fields["currency"] = v.Salary.Currency
	}

	description := plainText(v.Description)
	if description == "" {
		description = strings.TrimSpace(plainText(v.Snipet.Requirement) + " " + plainText(v.Snipet.Responsibility))
	}
	fields[records.FieldDescription] = description

	return records.Record{ID: vacancyIDPrefix + v.ID, Type: records.Job, Fields: dropEmpty(fields)}
}

// ResumeRecord converts full resume details into a JOBSEEKER record.
func ResumeRecord(r *ResumeDetails) records.Record {
	raw := r.Raw
	fields := records.Fields{
		records.FieldName: strings.TrimSpace(
			valueAsString(raw["first_name"]) + " " + valueAsString(raw["last_name"]),
		),
		records.FieldDesiredPosition:  r.Title,
		records.FieldDesiredLocation:  nestedString(raw, "area", "name"),
		records.FieldSelfIntroduction: plainText(valueAsString(raw["skills"])),
	}

	if set, ok := raw["skill_set"].([]any); ok && len(set) > 0 {
		fields[records.FieldSkills] = set
	}

	if total, ok := nested(raw, "total_experience", "months").(float64); ok && total > 0 {
		fields[records.FieldExperienceYears] = strconv.FormatFloat(total/12, 'f', 1, 64)
	}

	if amount, ok := nested(raw, "salary", "amount").(float64); ok && amount > 0 {
		fields[records.FieldDesiredSalary] = amount
	}

	return records.Record{ID: resumeIDPrefix + r.ID, Type: records.JobSeeker, Fields: dropEmpty(fields)}
}

// experienceYears maps hh.ru experience ids to a year range.
func experienceYears(id string) string {
	switch id {
	case "noExperience":
		return "0"
	case "between1And3":
		return "1-3"
	case "between3And6":
		return "3-6"
	case "moreThan6":
		return "6+"
	default:
		return ""
	}
}

func plainText(s string) string {
	s = htmlTag.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

func nested(m map[string]any, keys ...string) any {
	var cur any = m
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[k]
	}
	return cur
}

func nestedString(m map[string]any, keys ...string) string {
	v := nested(m, keys...)
	if v == nil {
		return ""
	}
	return valueAsString(v)
}

func dropEmpty(fields records.Fields) records.Fields {
	for k, v := range fields {
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			delete(fields, k)
		}
	}
	return fields
}
