package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRecord marks a backend payload that does not match its record type.
var ErrInvalidRecord = errors.New("invalid record")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. Field names are reported by their
// JSON name.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateRecord checks one decoded backend record.
func ValidateRecord[T any](rec T) error {
	if err := Validator().Struct(rec); err != nil {
		return fmt.Errorf("%w: %T: %w", ErrInvalidRecord, rec, err)
	}
	return nil
}

// ValidateRecords checks every element and reports the first failing index.
func ValidateRecords[T any](recs []T) error {
	for i := range recs {
		if err := Validator().Struct(recs[i]); err != nil {
			return fmt.Errorf("%w: %T[%d]: %w", ErrInvalidRecord, recs[i], i, err)
		}
	}
	return nil
}

// ValidationError carries field-level messages for operator forms.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateInput validates a form and translates failures into French
// field messages.
func ValidateInput(in any) error {
	err := Validator().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		if _, seen := out.Fields[fe.Field()]; seen {
			continue
		}
		out.Fields[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() + "." + fe.Tag() {
	case "nom.required", "nom.min":
		return "Le nom doit contenir au moins 2 caractères"
	case "nom.max":
		return "Le nom ne peut pas dépasser 100 caractères"
	case "url.required":
		return "L'URL du site web est requise"
	case "url.url":
		return "URL invalide"
	}
	switch fe.Tag() {
	case "required":
		return "Champ requis"
	case "max":
		return fmt.Sprintf("Maximum %s caractères", fe.Param())
	case "min":
		return fmt.Sprintf("Minimum %s", fe.Param())
	case "oneof":
		return "Valeur attendue parmi : " + fe.Param()
	case "gte", "lte", "gt":
		return "Valeur hors limites"
	default:
		return "Valeur invalide"
	}
}
