// Package homewardcmder assembles the root homeward command and wires in
// the serve, seed, and version subcommands.
package homewardcmder

import (
	"github.com/spf13/cobra"

	seedcmder "github.com/homeward-labs/homeward/cmd/homeward/seed"
	servecmder "github.com/homeward-labs/homeward/cmd/homeward/serve"
	versioncmder "github.com/homeward-labs/homeward/cmd/version"
)

const homewardLongDesc string = `Homeward matches adopters with shelter pets.

Run services using:
  homeward serve    Run the API server
  homeward seed     Seed demo pets and a demo adopter`

const homewardShortDesc string = "Homeward - Pet Adoption Matching"

func NewHomewardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "homeward",
		Short: homewardShortDesc,
		Long:  homewardLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(seedcmder.NewSeedCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
