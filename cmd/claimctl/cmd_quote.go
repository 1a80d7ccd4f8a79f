package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teerapatzza/travel-claim/internal/application/service"
	"github.com/teerapatzza/travel-claim/internal/container"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

var quoteFlags struct {
	vehicle string
	from    string
	to      string
	ticket  float64
	taxi    float64
	json    bool
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute the reimbursable amount for a trip",
	Long: `Resolves the distance between --from and --to and prints the cost breakdown.
Points are catalog place ids (see "claimctl places") or "lat,lng".

$ claimctl quote --vehicle car --from office --to 13.7462,100.5347
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, err := buildQuoteRequest()
		if err != nil {
			return err
		}

		return withContainer(cmd.Context(), func(app *container.Container) error {
			quote, err := app.ClaimService().Quote(cmd.Context(), *req)
			if err != nil {
				return err
			}
			if quoteFlags.json {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(quote)
			}
			printQuote(os.Stdout, quote)
			return nil
		})
	},
}

func buildQuoteRequest() (*service.QuoteRequest, error) {
	vehicle, err := entity.ParseVehicleType(quoteFlags.vehicle)
	if err != nil {
		return nil, err
	}
	origin, err := parsePoint(quoteFlags.from)
	if err != nil {
		return nil, fmt.Errorf("--from: %w", err)
	}
	destination, err := parsePoint(quoteFlags.to)
	if err != nil {
		return nil, fmt.Errorf("--to: %w", err)
	}

	return &service.QuoteRequest{
		VehicleType: vehicle,
		Origin:      origin,
		Destination: destination,
		TicketCost:  quoteFlags.ticket,
		TaxiCost:    quoteFlags.taxi,
	}, nil
}

func printQuote(w io.Writer, q *service.Quote) {
	b := q.Breakdown
	fmt.Fprintf(w, "Vehicle:   %s\n", b.VehicleType.Label(false))
	if q.Resolution != nil {
		accuracy := "road route"
		if q.Resolution.IsFallback {
			accuracy = "straight line"
		}
		fmt.Fprintf(w, "Distance:  %.2f km (%s)\n", q.Resolution.DistanceKm, accuracy)
	}
	if b.VehicleType.IsDistanceRated() {
		fmt.Fprintf(w, "Rate:      %.2f THB/km\n", b.RatePerKm)
		fmt.Fprintf(w, "Mileage:   %.2f THB\n", b.DistanceAmount)
	} else {
		fmt.Fprintf(w, "Ticket:    %.2f THB\n", b.TicketCost)
		fmt.Fprintf(w, "Taxi:      %.2f THB\n", b.TaxiCost)
	}
	fmt.Fprintf(w, "Total:     %.2f THB\n", b.Total)
}

func init() {
	f := quoteCmd.Flags()
	f.StringVar(&quoteFlags.vehicle, "vehicle", string(entity.VehicleCar), "CAR, MOTORCYCLE, TAXI or PLANE")
	f.StringVar(&quoteFlags.from, "from", "", "origin place id or lat,lng")
	f.StringVar(&quoteFlags.to, "to", "", "destination place id or lat,lng")
	f.Float64Var(&quoteFlags.ticket, "ticket", 0, "ticket cost in THB")
	f.Float64Var(&quoteFlags.taxi, "taxi", 0, "taxi cost in THB")
	f.BoolVar(&quoteFlags.json, "json", false, "print JSON")
	rootCmd.AddCommand(quoteCmd)
}
