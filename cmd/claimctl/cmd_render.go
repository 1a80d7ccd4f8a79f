package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/application/service"
	"github.com/teerapatzza/travel-claim/internal/container"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
	"github.com/teerapatzza/travel-claim/internal/infrastructure/storage"
)

// claimFile is the input of "claimctl render". JSON is accepted as well
// since it is valid YAML.
type claimFile struct {
	ClaimantName string  `yaml:"claimant_name"`
	Department   string  `yaml:"department"`
	Purpose      string  `yaml:"purpose"`
	VehicleType  string  `yaml:"vehicle_type"`
	Origin       string  `yaml:"origin"`
	Destination  string  `yaml:"destination"`
	TicketCost   float64 `yaml:"ticket_cost"`
	TaxiCost     float64 `yaml:"taxi_cost"`
	// Receipt is an image or PDF path, relative to the claim file
	Receipt string `yaml:"receipt"`
}

var renderFlags struct {
	format string
	out    string
}

var renderCmd = &cobra.Command{
	Use:   "render <claim.yaml>",
	Short: "Render a claim document from a claim file",
	Long: `Reads a claim file, applies it to a fresh claim and writes the exported
document to --out.

claimant_name: Somchai
purpose: ประชุมกรมบัญชีกลาง
vehicle_type: CAR
origin: office
destination: 13.7462,100.5347
receipt: fuel.jpg
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		claim, err := readClaimFile(args[0])
		if err != nil {
			return err
		}

		return withContainer(cmd.Context(), func(app *container.Container) error {
			doc, err := renderClaim(cmd.Context(), app.ClaimService(), claim, filepath.Dir(args[0]), renderFlags.format)
			if err != nil {
				return err
			}

			out := storage.NewLocalFileStorage(renderFlags.out, app.Logger())
			if err := out.Save(cmd.Context(), doc.FileName, doc.Content); err != nil {
				return err
			}

			for _, w := range doc.Warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}
			fmt.Println(out.GetFullPath(doc.FileName))
			return nil
		})
	},
}

func readClaimFile(path string) (*claimFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read claim file: %w", err)
	}
	var claim claimFile
	if err := yaml.Unmarshal(data, &claim); err != nil {
		return nil, fmt.Errorf("failed to parse claim file: %w", err)
	}
	return &claim, nil
}

// renderClaim replays the claim file through a new session and exports it
func renderClaim(ctx context.Context, claims service.ClaimService, claim *claimFile, baseDir, format string) (*port.RenderedDocument, error) {
	view, err := claims.StartSession(ctx, claim.Department)
	if err != nil {
		return nil, err
	}
	id := view.SessionID
	defer func() { _ = claims.DeleteSession(context.WithoutCancel(ctx), id) }()

	if _, err := claims.UpdateDetails(ctx, id, service.ClaimDetails{
		ClaimantName: claim.ClaimantName,
		Department:   claim.Department,
		Purpose:      claim.Purpose,
	}); err != nil {
		return nil, err
	}

	if claim.VehicleType != "" {
		vehicle, err := entity.ParseVehicleType(claim.VehicleType)
		if err != nil {
			return nil, err
		}
		if _, err := claims.SetVehicleType(ctx, id, vehicle); err != nil {
			return nil, err
		}
	}

	for _, p := range []struct {
		role entity.PointRole
		spec string
	}{
		{entity.RoleOrigin, claim.Origin},
		{entity.RoleDestination, claim.Destination},
	} {
		sel, err := parsePoint(p.spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.role, err)
		}
		if sel == nil {
			continue
		}
		if _, err := claims.SelectPoint(ctx, id, p.role, *sel); err != nil {
			return nil, fmt.Errorf("%s: %w", p.role, err)
		}
	}

	if _, err := claims.SetCosts(ctx, id, claim.TicketCost, claim.TaxiCost); err != nil {
		return nil, err
	}

	if claim.Receipt != "" {
		path := claim.Receipt
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read receipt: %w", err)
		}
		if _, err := claims.AttachReceipt(ctx, id, filepath.Base(path), data); err != nil {
			return nil, err
		}
	}

	return claims.Export(ctx, id, format)
}

func init() {
	renderCmd.Flags().StringVarP(&renderFlags.format, "format", "f", entity.FormatPDF, "pdf or xlsx")
	renderCmd.Flags().StringVarP(&renderFlags.out, "out", "o", ".", "output directory")
	rootCmd.AddCommand(renderCmd)
}
