package services

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindForbidden
	KindConflict
	KindNotFound
)

// Error is a request-scoped business failure. Anything that is not an *Error is
// treated as internal by the HTTP layer.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %v", e.Message, e.Fields)
	}
	return e.Message
}

func ValidationError(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Validation failed",
		Fields:  map[string]string{field: message},
	}
}

func ForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func ConflictError(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// AsError unwraps err to a business error, if it is one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsKind(err error, kind ErrorKind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

const (
	CodeTimeOffOverlap       = "time_off_overlap"
	CodeWorkingHourExists    = "working_hour_exists"
	CodeAppointmentOverlap   = "appointment_overlap"
	CodeAlreadyPaid          = "appointment_already_paid"
	CodeStaffLimitReached    = "staff_limit_reached"
	CodeEmailTaken           = "email_taken"
	CodeSubdomainTaken       = "subdomain_taken"
	CodePlanInUse            = "plan_in_use"
	CodeOnlineBookingClosed  = "online_booking_disabled"
	CodeNotImpersonating     = "not_impersonating"
	CodeOutsideWorkingHours  = "outside_working_hours"
	CodeStaffHasAppointments = "staff_has_appointments"
)

var (
	errAppointmentNotFound = NotFoundError("Appointment not found")
	errStaffNotFound       = NotFoundError("Staff member not found")
	errCustomerNotFound    = NotFoundError("Customer not found")
	errServiceNotFound     = NotFoundError("Service not found")
	errForeignSalon        = ForbiddenError("Resource belongs to another salon")
)
