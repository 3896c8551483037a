package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/domoslabs/underwriter/pkg/errors"
)

func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return errors.Wrap(errors.CodeValidation, err, "invalid request body")
	}
	return nil
}
