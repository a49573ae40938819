package validation

import (
	"strconv"

	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
)

// ValidatePositive validates that an integer value is positive (> 0).
// Returns a ValidationError if the value is not positive.
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return cferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateNonNegative validates that a numeric value is non-negative (>= 0).
// Returns a ValidationError if the value is negative.
func ValidateNonNegative(module, field string, value float64) error {
	if value < 0 {
		return cferrors.NewValidationError(module, field, value, "cannot be negative").
			WithHint("use 0 or a positive value")
	}
	return nil
}

// ValidatePositiveFloat validates that a float64 value is positive (> 0).
// Returns a ValidationError if the value is not positive.
func ValidatePositiveFloat(module, field string, value float64) error {
	if value <= 0 {
		return cferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateMinFloat validates that a float64 value is at least min.
// Returns a ValidationError if the value is below the minimum.
func ValidateMinFloat(module, field string, value, min float64) error {
	if value < min {
		return cferrors.NewValidationError(module, field, value, "below minimum").
			WithHint("value must be at least " + strconv.FormatFloat(min, 'g', -1, 64))
	}
	return nil
}

// ValidateIntRange validates that an integer value lies within [min, max].
// Returns a ValidationError if the value is out of range.
func ValidateIntRange(module, field string, value, min, max int) error {
	if value < min || value > max {
		return cferrors.NewValidationError(module, field, value, "out of range").
			WithHint("value must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max))
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil.
// Returns a ValidationError if the value is nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if value == nil {
		return cferrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
// Returns a ValidationError if the string is empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return cferrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}
