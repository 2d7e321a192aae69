// utils/validation.go
package utils

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	return phonePattern.MatchString(cleaned)
}

// BindingErrors turns a gin binding failure into a per-field message map.
func BindingErrors(err error) map[string]string {
	fields := map[string]string{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[jsonFieldName(fe)] = describeTag(fe)
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fields[typeErr.Field] = "has the wrong type"
		return fields
	}

	fields["body"] = err.Error()
	return fields
}

func jsonFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

// RegisterJSONFieldNames makes validator report json tag names instead of Go field names.
func RegisterJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}
