package helpers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// maxBodyBytes bounds request bodies; a meeting is a few hundred bytes.
const maxBodyBytes = 1 << 20

// Validator is implemented by request bodies that check their own fields.
// An empty result means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate reads a JSON body into dest, rejecting unknown fields, and
// runs dest's Validate when it has one. On failure it has already written a 400
// and the handler should return.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	v, ok := dest.(Validator)
	if !ok {
		return true
	}
	if errs := v.Validate(); len(errs) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
		return false
	}
	return true
}
