// Package records holds the two record populations matched against each
// other and the pure transformations applied to them before indexing.
package records

import (
	"fmt"
	"strings"
)

// Type identifies the population a record belongs to.
type Type string

const (
	JobSeeker Type = "JOBSEEKER"
	Job       Type = "JOB"
)

const (
	// PartitionJobSeekers is the index namespace holding job seeker profiles.
	PartitionJobSeekers = "jobseekers"
	// PartitionJobs is the index namespace holding job postings.
	PartitionJobs = "jobs"
)

// ParseType normalizes s and returns the matching Type.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToUpper(strings.TrimSpace(s))); t {
	case JobSeeker, Job:
		return t, nil
	default:
		return "", fmt.Errorf("unknown record type %q", s)
	}
}

// Valid reports whether t is one of the known record types.
func (t Type) Valid() bool {
	return t == JobSeeker || t == Job
}

// Partition returns the index namespace records of type t are stored in.
func (t Type) Partition() string {
	switch t {
	case JobSeeker:
		return PartitionJobSeekers
	case Job:
		return PartitionJobs
	default:
		return ""
	}
}

// Opposite returns the population records of type t are matched against.
func (t Type) Opposite() Type {
	switch t {
	case JobSeeker:
		return Job
	case Job:
		return JobSeeker
	default:
		return ""
	}
}

func (t Type) String() string { return string(t) }

// Fields is the open set of scalar values describing a record.
type Fields map[string]any

// Record is a single job seeker profile or job posting received from a caller.
type Record struct {
	ID     string
	Type   Type
	Fields Fields
}

// Validate checks that the record carries everything needed for indexing or search.
func (r Record) Validate() error {
	var missing []string
	if strings.TrimSpace(r.ID) == "" {
		missing = append(missing, "id")
	}
	if r.Fields == nil {
		missing = append(missing, "fields")
	}
	if r.Type == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("record %s required", strings.Join(missing, ", "))
	}
	if !r.Type.Valid() {
		return fmt.Errorf("unknown record type %q", string(r.Type))
	}
	return nil
}

// Profile returns the typed view of the record.
func (r Record) Profile() (Profile, error) {
	return NewProfile(r.Type, r.Fields)
}
