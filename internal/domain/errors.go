package domain

import "errors"

var (
	// ErrProfileNotFound is returned for an unknown profile identifier.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrIncompleteQuiz is returned when a submission does not answer every question.
	ErrIncompleteQuiz = errors.New("quiz submission incomplete")
	// ErrOptionNotFound indicates a submitted option index is invalid.
	ErrOptionNotFound = errors.New("option not found")
	// ErrUnknownProduct indicates an unknown purchasable product.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrUnknownSuite indicates an unknown suite identifier.
	ErrUnknownSuite = errors.New("unknown suite")
	// ErrLocked is returned when a product has not been unlocked yet.
	ErrLocked = errors.New("product locked")
	// ErrNoDelivery is returned when confirming without a delivery record.
	ErrNoDelivery = errors.New("no delivery record")
	// ErrConfirmTooEarly is returned when confirming before the mandatory wait elapsed.
	ErrConfirmTooEarly = errors.New("delivery confirmation not yet available")
	// ErrNotEnrolled is returned when recording a session for a suite without a record.
	ErrNotEnrolled = errors.New("suite not enrolled")
	// ErrNoArchetype is returned when the quiz has not been completed.
	ErrNoArchetype = errors.New("quiz not completed")
	// ErrUnknownLaw indicates a checklist index outside the five laws.
	ErrUnknownLaw = errors.New("unknown checklist law")
	// ErrCertificateUnavailable is returned before the day-21 milestone is reached.
	ErrCertificateUnavailable = errors.New("program not completed")
	// ErrPlayInProgress is returned when a profile already has an active play session.
	ErrPlayInProgress = errors.New("play session already active")
)
