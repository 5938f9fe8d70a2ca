package deletion

import "errors"

var (
	// ErrUnknownSection is returned when a requested key has no plan.
	ErrUnknownSection = errors.New("unknown section key")

	// ErrNoSections is returned for an empty key list.
	ErrNoSections = errors.New("sectionKeys must be a non-empty array")

	// ErrInvalidPlan marks a registry that failed validation at startup.
	ErrInvalidPlan = errors.New("invalid section plan")

	// ErrBackendUnavailable is an infrastructure failure; nothing ran.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrDangerZoneDisabled is returned when bulk deletion is switched off.
	ErrDangerZoneDisabled = errors.New("danger zone is disabled")

	// ErrNoActor is returned when no caller identity accompanies a request.
	ErrNoActor = errors.New("caller identity is required")
)
