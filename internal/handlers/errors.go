package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"wastewise-backend/internal/logger"
	"wastewise-backend/internal/registry"
	"wastewise-backend/pkg/utils"
)

// Error bodies returned by the dispatch endpoints.
const (
	MsgInvalidDispatch = "Invalid bin/driver/station"
	MsgNotFound        = "Not found"
	MsgInternal        = "Internal server error"
	MsgInvalidBody     = "Invalid request body"
)

var log = logger.New("handlers")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads the request body into dst and runs struct validation.
// Failures come back as *registry.ValidationError.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &registry.ValidationError{Reason: MsgInvalidBody}
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &registry.ValidationError{Field: fe.Field(), Reason: validationReason(fe)}
		}
		return &registry.ValidationError{Reason: err.Error()}
	}
	return nil
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be an email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

// writeError maps registry errors to a status code. notFound is the
// status used for NotFoundError, which differs between endpoints.
func writeError(w http.ResponseWriter, err error, notFound int, notFoundMsg string) {
	var nf *registry.NotFoundError
	var conflict *registry.ConflictError
	var invalid *registry.ValidationError
	switch {
	case errors.As(err, &nf):
		utils.Error(w, notFound, notFoundMsg)
	case errors.As(err, &conflict):
		utils.Error(w, http.StatusConflict, conflict.Reason)
	case errors.As(err, &invalid):
		utils.Error(w, http.StatusBadRequest, invalid.Error())
	default:
		log.Errorf("unexpected error: %v", err)
		utils.Error(w, http.StatusInternalServerError, MsgInternal)
	}
}
