package core

import "errors"

// Configuration errors. All are returned synchronously while building a
// session; ticking never fails.
var (
	ErrUnknownEnvironment = errors.New("unknown environment")
	ErrInvalidSpec        = errors.New("invalid vehicle spec")
	ErrUnknownPreset      = errors.New("unknown vehicle preset")
)

// Session lifecycle errors.
var (
	ErrNoEnvironment     = errors.New("environment not initialized")
	ErrEnvironmentLocked = errors.New("environment already selected for this session")
	ErrNoVehicle         = errors.New("vehicle not created")
	ErrVehicleExists     = errors.New("vehicle already created for this session")
	ErrTornDown          = errors.New("session torn down")
)
