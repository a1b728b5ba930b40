package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

// IsUUIDs parses every id, stopping at the first invalid one.
func IsUUIDs(ss []string) (bool, []uuid.UUID) {
	ids := make([]uuid.UUID, 0, len(ss))
	for _, s := range ss {
		ok, id := IsUUID(s)
		if !ok {
			return false, nil
		}
		ids = append(ids, id)
	}
	return true, ids
}

// Struct validates a request dto and returns field -> message, or nil.
func Struct(req any) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return map[string]string{"request": err.Error()}
	}

	errs := make(map[string]string, len(ves))
	for _, fe := range ves {
		field := fieldPath(fe.Namespace())
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = message(fe)
	}
	return errs
}

// fieldPath drops the struct name: "UsersRequest.userIds[0]" -> "userIds[0]".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email format"
	case "uuid":
		return "must be a valid UUID"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("length must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("length must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("validation failed on '%s'", fe.Tag())
	}
}
