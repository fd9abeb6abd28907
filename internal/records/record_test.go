package records

import "testing"

func TestTypeRouting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ       Type
		partition string
		opposite  Type
	}{
		{typ: JobSeeker, partition: "jobseekers", opposite: Job},
		{typ: Job, partition: "jobs", opposite: JobSeeker},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			t.Parallel()
			if got := tt.typ.Partition(); got != tt.partition {
				t.Fatalf("expected partition %q, got %q", tt.partition, got)
			}
			if got := tt.typ.Opposite(); got != tt.opposite {
				t.Fatalf("expected opposite %q, got %q", tt.opposite, got)
			}
			if got := tt.typ.Opposite().Opposite(); got != tt.typ {
				t.Fatalf("opposite is not symmetric: %q", got)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		expect  Type
		wantErr bool
	}{
		{input: "JOBSEEKER", expect: JobSeeker},
		{input: " job ", expect: Job},
		{input: "recruiter", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.input, err)
		}
		if got != tt.expect {
			t.Fatalf("%q: expected %q, got %q", tt.input, tt.expect, got)
		}
	}
}

func TestRecordValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		record  Record
		wantErr bool
	}{
		{name: "valid", record: Record{ID: "J1", Type: Job, Fields: Fields{}}},
		{name: "missing id", record: Record{Type: Job, Fields: Fields{}}, wantErr: true},
		{name: "missing fields", record: Record{ID: "J1", Type: Job}, wantErr: true},
		{name: "missing type", record: Record{ID: "J1", Fields: Fields{}}, wantErr: true},
		{name: "unknown type", record: Record{ID: "J1", Type: "RECRUITER", Fields: Fields{}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.record.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
