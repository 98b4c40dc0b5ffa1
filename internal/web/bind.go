package web

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hpungsan/scrawl/internal/errors"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct checks s against its validate tags. Field failures come
// back as an INVALID_REQUEST error whose details map each field to the rule
// it broke.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if stderrors.As(err, &invalid) {
		return errors.NewInternal(fmt.Errorf("invalid validation error: %w", err))
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewInternal(err)
	}

	fields := make(map[string]any, len(fieldErrs))
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fmt.Sprintf("failed on '%s' tag", fe.Tag())
		names = append(names, fe.Field())
	}

	sErr := errors.NewInvalidRequest("invalid fields: " + strings.Join(names, ", "))
	sErr.Details = fields
	return sErr
}

// bind decodes a JSON body into T and validates it. An empty body decodes
// to the zero value, which is then validated like any other.
func bind[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil && !stderrors.Is(err, io.EOF) {
		return v, errors.NewInvalidRequest("invalid JSON body: " + err.Error())
	}
	if err := validateStruct(v); err != nil {
		return v, err
	}
	return v, nil
}

// pathInt parses a non-negative integer path parameter.
func pathInt(r *http.Request, name string) (int, error) {
	s := r.PathValue(name)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("%s must be a non-negative integer, got %q", name, s))
	}
	return n, nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
