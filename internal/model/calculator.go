package model

import "math"

// FleetEstimate holds a capacity-only lower bound on the vehicles a package list needs.
type FleetEstimate struct {
	TotalWeight       float64 `json:"total_weight"`
	Capacity          float64 `json:"capacity"`            // Capacity of one vehicle
	VehiclesExact     float64 `json:"vehicles_exact"`      // Fractional vehicles needed
	VehiclesMin       int     `json:"vehicles_min"`        // Ceiling of exact
	VehiclesWithSlack int     `json:"vehicles_with_slack"` // Recommended count including slack
	SlackPercent      float64 `json:"slack_percent"`       // Slack applied (e.g. 10 for 10%)
	OversizedPackages []int   `json:"oversized_packages"`  // Heavier than one vehicle, never placeable
	PlaceableWeight   float64 `json:"placeable_weight"`    // Weight excluding oversized packages
}

// EstimateFleet computes how many vehicles of the given capacity are needed to
// carry all placeable packages. Bin-packing fragmentation is covered by the
// slack percentage; the bound ignores routing entirely.
func EstimateFleet(pkgs []Package, capacity, slackPercent float64) FleetEstimate {
	est := FleetEstimate{
		Capacity:          capacity,
		SlackPercent:      slackPercent,
		OversizedPackages: []int{},
	}
	for _, p := range pkgs {
		est.TotalWeight += p.Weight
		if p.Weight > capacity {
			est.OversizedPackages = append(est.OversizedPackages, p.ID)
			continue
		}
		est.PlaceableWeight += p.Weight
	}

	if capacity <= 0 {
		return est
	}

	est.VehiclesExact = est.PlaceableWeight / capacity
	est.VehiclesMin = int(math.Ceil(est.VehiclesExact))

	slackFactor := 1.0 + (slackPercent / 100.0)
	est.VehiclesWithSlack = int(math.Ceil(est.VehiclesExact * slackFactor))
	if est.VehiclesWithSlack < est.VehiclesMin {
		est.VehiclesWithSlack = est.VehiclesMin
	}
	return est
}
