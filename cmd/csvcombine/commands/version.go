package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/csvcombine/internal/ui"
	"github.com/satishbabariya/csvcombine/internal/version"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Get().String())
			if newer, latest := version.UpdateAvailable(); newer {
				ui.PrintWarning("a newer version is available: %s", latest)
				fmt.Println("Update with: go install github.com/satishbabariya/csvcombine/cmd/csvcombine@latest")
			}
		},
	}
}
