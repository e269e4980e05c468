// Copyright (c) 2026 Mangata. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mangata-app/mangata/internal/platform/apperr"
	"github.com/mangata-app/mangata/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam retrieves a named URL parameter and parses it as a base-10 integer.

Returns:
  - int64: The parsed value
  - error: apperr.ValidationError if the parameter is not a valid integer
*/
func IntParam(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.ValidationError("Invalid numeric parameter", apperr.FieldError{
			Field:   name,
			Message: "Must be an integer",
		})
	}

	return value, nil
}
