package mission

import "github.com/doctor-spaghetti-md/mrdarcy/pkg/core"

// Sample returns the built-in minimal mission used when no real mission
// source can be loaded. Two friendly fighters intercept two hostiles
// over a 120 second timeline; one hostile and one friendly are lost.
func Sample() *core.Mission {
	impactLat, impactLng := 36.42, 28.18
	return &core.Mission{
		DurationS: 120,
		Center:    core.LatLng{Lat: 36.3, Lng: 28.1},
		Meta:      core.Meta{Title: "TRAINING SORTIE 07", Sector: "AEGEAN EAST"},
		Aircraft: []core.Track{
			{
				ID: "vpr1", Callsign: "VIPER 1", Side: core.SideFriendly,
				Path: []core.Waypoint{
					{T: 0, Lat: 36.10, Lng: 27.80},
					{T: 40, Lat: 36.25, Lng: 28.00},
					{T: 80, Lat: 36.38, Lng: 28.14},
					{T: 120, Lat: 36.50, Lng: 28.30},
				},
			},
			{
				ID: "vpr2", Callsign: "VIPER 2", Side: core.SideFriendly,
				Path: []core.Waypoint{
					{T: 0, Lat: 36.05, Lng: 27.85},
					{T: 40, Lat: 36.18, Lng: 28.02},
					{T: 64, Lat: 36.26, Lng: 28.12},
				},
			},
			{
				ID: "bst1", Callsign: "BASTION 1", Side: core.SideHostile,
				Path: []core.Waypoint{
					{T: 0, Lat: 36.60, Lng: 28.50},
					{T: 45, Lat: 36.48, Lng: 28.32},
					{T: 86, Lat: 36.42, Lng: 28.18},
				},
			},
			{
				ID: "bst2", Callsign: "BASTION 2", Side: core.SideHostile,
				Path: []core.Waypoint{
					{T: 0, Lat: 36.65, Lng: 28.45},
					{T: 60, Lat: 36.50, Lng: 28.25},
					{T: 120, Lat: 36.30, Lng: 28.00},
				},
			},
		},
		Events: []core.Event{
			{T: 12, Type: core.EventContact, Actor: "vpr1", Target: "bst1", Text: "VIPER 1 radar contact, two bogeys bearing 045"},
			{T: 18, Type: core.EventContact, Actor: "vpr2", Target: "bst2", Text: "VIPER 2 tally second bandit"},
			{T: 42, Type: core.EventEngagement, Actor: "vpr1", Target: "bst1", Text: "VIPER 1 fox three on lead bandit"},
			{T: 58, Type: core.EventEngagement, Actor: "bst2", Target: "vpr2", Text: "BASTION 2 firing on VIPER 2"},
			{T: 64, Type: core.EventKill, Actor: "bst2", Target: "vpr2", Text: "VIPER 2 hit, going down"},
			{T: 64, Type: core.EventLoss, Actor: "vpr2", Text: "VIPER 2 lost, chute observed"},
			{T: 86, Type: core.EventKill, Actor: "vpr1", Target: "bst1", Text: "splash one, lead bandit destroyed"},
			{T: 86, Type: core.EventImpact, Lat: &impactLat, Lng: &impactLng, Text: "impact on the water northeast of the island"},
			{T: 110, Type: core.EventNote, Text: "remaining bandit withdrawing, VIPER 1 resuming CAP"},
		},
	}
}
