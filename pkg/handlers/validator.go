package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Validator struct {
	location string
	field    string
	value    *string
}

func (rv *Validator) Required() *CustomError {
	if rv.value == nil {
		return &CustomError{Location: rv.location, Param: rv.field, Msg: "is required"}
	}

	return nil
}

// Empty rejects blank values; whitespace alone counts as blank.
func (rv *Validator) Empty() *CustomError {
	if strings.TrimSpace(*rv.value) == "" {
		return &CustomError{Location: rv.location, Param: rv.field, Value: *rv.value,
			Msg: "cannot be blank"}
	}

	return nil
}

func (rv *Validator) MaxLength(max int) *CustomError {
	lenStr := utf8.RuneCountInString(*rv.value)
	if lenStr > max {
		return &CustomError{Location: rv.location, Param: rv.field, Value: *rv.value,
			Msg: fmt.Sprintf("must be at most %d characters long", max)}
	}

	return nil
}

// check runs the checks in order and stops at the first failure. Required
// always runs first so later checks may dereference the value.
func (rv *Validator) check(checks ...func(*Validator) *CustomError) *CustomError {
	if err := rv.Required(); err != nil {
		return err
	}

	for _, c := range checks {
		if err := c(rv); err != nil {
			return err
		}
	}

	return nil
}

func mergeErrors(validations ...*CustomError) []*CustomError {
	result := make([]*CustomError, 0, 2)

	for _, err := range validations {
		if err == nil {
			continue
		}

		result = append(result, err)
	}

	return result
}
