// Package reimbursement turns a trip into a payable amount.
package reimbursement

import (
	"fmt"
	"math"

	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// Rates holds the per-kilometre rates for distance-rated vehicles (THB/km).
type Rates struct {
	CarPerKm        float64
	MotorcyclePerKm float64
}

// DefaultRates returns the standard government mileage rates.
func DefaultRates() Rates {
	return Rates{
		CarPerKm:        5,
		MotorcyclePerKm: 2,
	}
}

// Calculator computes claim totals. It is pure and safe for concurrent use.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator. Negative rates are treated as 0.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{
		rates: Rates{
			CarPerKm:        sanitize(rates.CarPerKm),
			MotorcyclePerKm: sanitize(rates.MotorcyclePerKm),
		},
	}
}

// Rates returns the effective rate table.
func (c *Calculator) Rates() Rates {
	return c.rates
}

// ComputeTotal returns the reimbursable amount. It is not rounded;
// documents and API views format it to satang.
//
// Policy:
//   - CAR: distance × car rate
//   - MOTORCYCLE: distance × motorcycle rate
//   - TAXI: taxi fare, distance ignored
//   - PLANE: ticket + taxi fare, distance ignored
//
// Negative, NaN or infinite inputs count as 0.
func (c *Calculator) ComputeTotal(vehicle entity.VehicleType, distanceKm, ticketCost, taxiCost float64) (float64, error) {
	b, err := c.Breakdown(vehicle, distanceKm, ticketCost, taxiCost)
	if err != nil {
		return 0, err
	}
	return b.Total, nil
}

// Breakdown returns the itemised computation behind ComputeTotal.
func (c *Calculator) Breakdown(vehicle entity.VehicleType, distanceKm, ticketCost, taxiCost float64) (entity.CostBreakdown, error) {
	distanceKm = sanitize(distanceKm)
	ticketCost = sanitize(ticketCost)
	taxiCost = sanitize(taxiCost)

	b := entity.CostBreakdown{VehicleType: vehicle}

	switch vehicle {
	case entity.VehicleCar:
		b.RatePerKm = c.rates.CarPerKm
		b.DistanceKm = distanceKm
		b.DistanceAmount = distanceKm * c.rates.CarPerKm
		b.Total = b.DistanceAmount
	case entity.VehicleMotorcycle:
		b.RatePerKm = c.rates.MotorcyclePerKm
		b.DistanceKm = distanceKm
		b.DistanceAmount = distanceKm * c.rates.MotorcyclePerKm
		b.Total = b.DistanceAmount
	case entity.VehicleTaxi:
		b.TaxiCost = taxiCost
		b.Total = taxiCost
	case entity.VehiclePlane:
		b.TicketCost = ticketCost
		b.TaxiCost = taxiCost
		b.Total = ticketCost + taxiCost
	default:
		return entity.CostBreakdown{}, fmt.Errorf("%w: %q", entity.ErrUnknownVehicleType, vehicle)
	}

	return b, nil
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
