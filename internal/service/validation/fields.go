package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
)

var fields = newFieldValidator()

func newFieldValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CheckFields runs the `validate` tags of s and reports each failure as a
// violation keyed by the field's json name. Only the first failing tag of a
// field is reported.
func CheckFields(s any) domain.Violations {
	var out domain.Violations

	err := fields.Struct(s)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add("base", domain.MsgInvalid)
		return out
	}

	for _, fe := range verrs {
		out.Add(fe.Field(), fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return domain.MsgBlank
	case "max":
		if n, err := strconv.Atoi(fe.Param()); err == nil {
			return domain.MsgTooLong(n)
		}
	}
	return domain.MsgInvalid
}

type appointmentFields struct {
	Title string `json:"title" validate:"required,max=50"`
	Notes string `json:"notes" validate:"required,max=140"`
}
