// Package compensation estimates passenger compensation from a route and a passenger count.
package compensation

import "strings"

// DefaultDistanceKm is used for any route missing from the distance table.
const DefaultDistanceKm = 2000

const (
	shortHaulMaxKm  = 1500
	mediumHaulMaxKm = 3500

	shortHaulEUR  int64 = 250
	mediumHaulEUR int64 = 400
	longHaulEUR   int64 = 600

	// commission is a quarter of the recovered amount
	commissionDivisor = 4
)

type route struct {
	from string
	to   string
}

var distances = map[route]int{
	{"london", "paris"}:        344,
	{"london", "berlin"}:       933,
	{"london", "new york"}:     5585,
	{"paris", "rome"}:          1105,
	{"berlin", "madrid"}:       1869,
	{"madrid", "london"}:       1264,
	{"amsterdam", "barcelona"}: 1236,
}

type Result struct {
	PerPassenger int64 `json:"per_passenger"`
	Total        int64 `json:"total"`
	DistanceKm   int   `json:"distance_km"`
	Passengers   int   `json:"passengers"`
}

type FeeSplit struct {
	TotalCents      int64 `json:"total_cents"`
	CommissionCents int64 `json:"commission_cents"`
	NetCents        int64 `json:"net_cents"`
}

// Estimate never fails: unknown routes use DefaultDistanceKm.
func Estimate(origin, destination string, passengers int) Result {
	distance := Distance(origin, destination)
	perPassenger := PerPassenger(distance)
	return Result{
		PerPassenger: perPassenger,
		Total:        perPassenger * int64(passengers),
		DistanceKm:   distance,
		Passengers:   passengers,
	}
}

func Distance(origin, destination string) int {
	from, to := normalize(origin), normalize(destination)
	if d, ok := distances[route{from, to}]; ok {
		return d
	}
	if d, ok := distances[route{to, from}]; ok {
		return d
	}
	return DefaultDistanceKm
}

func PerPassenger(distanceKm int) int64 {
	switch {
	case distanceKm <= shortHaulMaxKm:
		return shortHaulEUR
	case distanceKm <= mediumHaulMaxKm:
		return mediumHaulEUR
	default:
		return longHaulEUR
	}
}

// SplitFees divides a total in euros into commission and net, in cents.
func SplitFees(totalEUR int64) FeeSplit {
	totalCents := totalEUR * 100
	commission := totalCents / commissionDivisor
	return FeeSplit{
		TotalCents:      totalCents,
		CommissionCents: commission,
		NetCents:        totalCents - commission,
	}
}

func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
