package onboarding

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/go-playground/validator/v10"
)

const minBirthYear = 1900

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind decodes a step payload and checks its struct tags.
func bind(v *validator.Validate, payload []byte, dst interface{}) error {
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return domain.NewValidationError("", "malformed request body")
	}
	return validationError(v.Struct(dst))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError("", err.Error())
	}
	fe := verrs[0]
	return domain.NewValidationError(fieldPath(fe), describe(fe))
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	case "unique":
		return "must not contain duplicates"
	case "url":
		return "must be a valid URL"
	case "numeric":
		return "must be a number"
	}
	return "is invalid"
}

// ParseDateOfBirth turns the three entered fields into a date and enforces
// the age window. Impossible dates such as 30 February are rejected before
// any age arithmetic.
func ParseDateOfBirth(dob domain.DateOfBirth, now time.Time, minAge, maxAge int) (time.Time, error) {
	birth, err := parseCalendarDate(dob)
	if err != nil {
		return time.Time{}, err
	}
	if birth.After(now) {
		return time.Time{}, domain.NewValidationError("date_of_birth", "must not be in the future")
	}

	age := domain.AgeAt(birth, now)
	if age < minAge {
		return time.Time{}, domain.NewValidationError("date_of_birth", fmt.Sprintf("you must be at least %d years old", minAge))
	}
	if age > maxAge {
		return time.Time{}, domain.NewValidationError("date_of_birth", fmt.Sprintf("age must be at most %d", maxAge))
	}
	return birth, nil
}

func parseCalendarDate(dob domain.DateOfBirth) (time.Time, error) {
	day, errD := strconv.Atoi(strings.TrimSpace(dob.Day))
	month, errM := strconv.Atoi(strings.TrimSpace(dob.Month))
	year, errY := strconv.Atoi(strings.TrimSpace(dob.Year))
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, domain.NewValidationError("date_of_birth", "day, month and year must be numbers")
	}
	if year < minBirthYear {
		return time.Time{}, domain.NewValidationError("date_of_birth", fmt.Sprintf("year must be %d or later", minBirthYear))
	}
	if month < 1 || month > 12 {
		return time.Time{}, domain.NewValidationError("date_of_birth", "month must be between 1 and 12")
	}

	birth := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || birth.Day() != day || birth.Month() != time.Month(month) {
		return time.Time{}, domain.NewValidationError("date_of_birth", "is not a valid calendar date")
	}
	return birth, nil
}
