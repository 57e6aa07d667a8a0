package domain

import "errors"

// Sentinel errors shared by repositories, services and controllers.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// ErrInvalidRole is returned when a role name is outside Admin, Organizer and Participant.
	ErrInvalidRole = errors.New("invalid role")

	// ErrDuplicateRSVP is returned when the account already RSVP'd to the event.
	ErrDuplicateRSVP = errors.New("rsvp already exists")

	// ErrNotificationDelivery wraps mail failures. It is logged by the notifier and never
	// returned to the caller of the operation that triggered the notification.
	ErrNotificationDelivery = errors.New("notification delivery failed")
)
