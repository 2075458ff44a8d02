package validation

import "testing"

func TestValidMonth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"2026-01", true},
		{"2026-12", true},
		{"2026-00", false},
		{"2026-13", false},
		{"2026-1", false},
		{"26-01", false},
		{"2026/01", false},
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			if got := ValidMonth(tt.value); got != tt.want {
				t.Errorf("ValidMonth(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidSortOrder(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"", "asc", "desc"} {
		if !ValidSortOrder(ok) {
			t.Errorf("ValidSortOrder(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"ASC", "ascending", "down"} {
		if ValidSortOrder(bad) {
			t.Errorf("ValidSortOrder(%q) = true, want false", bad)
		}
	}
}

func TestRegisteredValidators(t *testing.T) {
	t.Parallel()

	type payload struct {
		Month string `validate:"omitempty,month"`
		Color string `validate:"omitempty,hexcolor6"`
	}

	tests := []struct {
		name    string
		in      payload
		wantErr bool
	}{
		{"empty is fine", payload{}, false},
		{"valid month and color", payload{Month: "2026-04", Color: "#a1B2c3"}, false},
		{"bad month", payload{Month: "April"}, true},
		{"bad color", payload{Color: "#12345"}, true},
		{"color without hash", payload{Color: "a1b2c3"}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate.Struct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct(%+v) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}
