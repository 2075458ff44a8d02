package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestOptionalUnmarshal(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name Optional[string] `json:"name"`
	}

	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValid bool
		wantValue string
	}{
		{"absent", `{}`, false, false, ""},
		{"null", `{"name":null}`, true, false, ""},
		{"value", `{"name":"alpha"}`, true, true, "alpha"},
		{"empty string is a value", `{"name":""}`, true, true, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var p payload
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if p.Name.Set != tt.wantSet {
				t.Errorf("Set = %v, want %v", p.Name.Set, tt.wantSet)
			}
			if p.Name.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", p.Name.Valid, tt.wantValid)
			}
			if p.Name.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", p.Name.Value, tt.wantValue)
			}
		})
	}
}

func TestOptionalUnmarshalTypeMismatch(t *testing.T) {
	t.Parallel()

	var o Optional[int]
	if err := json.Unmarshal([]byte(`"not a number"`), &o); err == nil {
		t.Fatal("expected error for type mismatch")
	}
}

func TestOptionalPtr(t *testing.T) {
	t.Parallel()

	set := Optional[int]{Set: true, Valid: true, Value: 7}
	if p := set.Ptr(); p == nil || *p != 7 {
		t.Errorf("Ptr() = %v, want 7", p)
	}

	null := Optional[int]{Set: true, Valid: false}
	if p := null.Ptr(); p != nil {
		t.Errorf("Ptr() of null = %v, want nil", p)
	}
}

func TestDateUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "RFC3339",
			input: `"2026-04-01T09:30:00Z"`,
			want:  time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only lands at midnight",
			input: `"2026-04-01"`,
			want:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{name: "garbage", input: `"April 1st"`, wantErr: true},
		{name: "number", input: `12345`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !d.Time.Equal(tt.want) {
				t.Errorf("parsed = %v, want %v", d.Time, tt.want)
			}
		})
	}
}
