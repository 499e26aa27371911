package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/detalhesstore/detalhes-backend/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := field.Tag.Get("json")
		if tag == "" {
			return field.Name
		}
		name := strings.Split(tag, ",")[0]
		if name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// DecodeJSONBody parses the request body into dst, rejecting unknown fields,
// then runs struct validation. Failures come back as validation errors with
// per-field details.
func DecodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body is required")
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return pkgerrors.New(pkgerrors.CodeValidation, "request body is required")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	if decoder.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must contain a single JSON object")
	}

	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate request body")
		}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return pkgerrors.New(pkgerrors.CodeValidation, "request validation failed").
				WithDetails(formatValidationErrors(fieldErrs))
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request validation failed")
	}

	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) []map[string]string {
	details := make([]map[string]string, 0, len(errs))
	for _, fieldErr := range errs {
		details = append(details, map[string]string{
			"field":  fieldErr.Field(),
			"reason": fmt.Sprintf("failed on the %q rule", fieldErr.Tag()),
		})
	}
	return details
}
