package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"contentflow/internal/domain/entity"
)

// DecodeJSON reads the JSON request body into v. Unknown fields are rejected.
// Malformed bodies come back as an entity.ValidationError and bodies over the
// LimitRequestBody cap as a 413 AppError.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return NewAppError(http.StatusRequestEntityTooLarge, "request body too large", err)
		}
		return &entity.ValidationError{Field: "body", Message: "invalid JSON body: " + err.Error()}
	}
	return nil
}
