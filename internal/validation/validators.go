package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate

	monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("month", validateMonth); err != nil {
		panic(fmt.Sprintf("failed to register month validator: %v", err))
	}
	if err := Validate.RegisterValidation("hexcolor6", validateHexColor); err != nil {
		panic(fmt.Sprintf("failed to register hexcolor6 validator: %v", err))
	}
}

// validateMonth validates a YYYY-MM month label, the format project periods
// are stored in.
func validateMonth(fl validator.FieldLevel) bool {
	return monthPattern.MatchString(fl.Field().String())
}

// validateHexColor validates a 6-digit #rrggbb color tag.
func validateHexColor(fl validator.FieldLevel) bool {
	return colorPattern.MatchString(fl.Field().String())
}

// ValidMonth reports whether value is a YYYY-MM month label.
func ValidMonth(value string) bool {
	return monthPattern.MatchString(value)
}

// ValidSortOrder reports whether value is an accepted sort direction.
func ValidSortOrder(value string) bool {
	return value == "" || value == "asc" || value == "desc"
}
