package domain

import (
	"fmt"
	"strings"
)

const (
	FieldTitle       = "title"
	FieldNotes       = "notes"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldAppointment = "appointment"
	FieldRoom        = "room"
	FieldUser        = "user"
	FieldName        = "name"
	FieldEmail       = "email"
)

const (
	MsgBlank            = "can't be blank"
	MsgInvalid          = "is invalid"
	MsgTaken            = "has already been taken"
	MsgMustExist        = "must exist"
	MsgLessThanEnd      = "must be less than end_time"
	MsgGreaterThanStart = "must be greater than start_time"
	MsgWeekDays         = "must be on week days"
	MsgBusinessHours    = "must be during business hours"
	MsgSameDay          = "must be on same day"
	MsgFutureDate       = "must be in future date"
	MsgAlreadyTook      = "already took"
	msgTooLongPattern   = "is too long (maximum is %d characters)"
)

func MsgTooLong(max int) string {
	return fmt.Sprintf(msgTooLongPattern, max)
}

// Violation is one failed rule, attached to a field.
type Violation struct {
	Field   string
	Message string
}

// Violations is the ordered result of a validation pass. A non-empty value
// is returned as an error by the services.
type Violations []Violation

func (v *Violations) Add(field, message string) {
	*v = append(*v, Violation{Field: field, Message: message})
}

func (v Violations) Has(field, message string) bool {
	for _, x := range v {
		if x.Field == field && x.Message == message {
			return true
		}
	}
	return false
}

func (v Violations) OK() bool {
	return len(v) == 0
}

// Err returns v as an error, or nil when there is nothing to report.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, x := range v {
		parts = append(parts, x.Field+" "+x.Message)
	}
	return strings.Join(parts, "; ")
}
