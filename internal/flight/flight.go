// Package flight names the phase of a mission from its progress.
package flight

// Phase names in flight order.
const (
	PhaseLaunch           = "launch"
	PhaseGravityTurn      = "gravity_turn"
	PhaseMainEngineCutoff = "main_engine_cutoff"
	PhaseSecondStage      = "second_stage"
	PhaseLEOInsertion     = "leo_insertion"
)

// ProfileSeconds is the length of the reference flight profile.
const ProfileSeconds = 240.0

type boundary struct {
	until float64 // end of the phase in profile seconds
	name  string
}

var profile = []boundary{
	{30, PhaseLaunch},
	{60, PhaseGravityTurn},
	{120, PhaseMainEngineCutoff},
	{180, PhaseSecondStage},
}

// PhaseAt returns the phase active at progress.
func PhaseAt(progress float64) string {
	t := progress * ProfileSeconds
	for _, b := range profile {
		if t < b.until {
			return b.name
		}
	}
	return PhaseLEOInsertion
}
