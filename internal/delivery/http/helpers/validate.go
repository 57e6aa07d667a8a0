package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// Validator is implemented by request DTOs that support validation.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the request body into dest (with DisallowUnknownFields)
// and, if dest implements Validator, runs Validate(). On decode or validation failure
// it writes a 400 JSON error and returns false; otherwise returns true.
// Callers should return immediately when DecodeAndValidate returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		msg := err.Error()
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, msg)
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
			return false
		}
	}
	return true
}

// PathUUID reads the named path value and checks that it is a UUID. On failure it writes
// a 400 JSON error and returns false.
func PathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	id, err := uuid.Parse(v)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid "+name)
		return "", false
	}
	return id.String(), true
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
