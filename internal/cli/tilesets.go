package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kostich/kraftver"
)

var tilesetsJSON bool

var tilesetsCmd = &cobra.Command{
	Use:   "tilesets",
	Short: "List the known tileset codes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		tilesets := kraftver.Tilesets()

		if tilesetsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(tilesets)
		}

		r := lipgloss.NewRenderer(out)
		code := r.NewStyle().Bold(true).Foreground(colorPrimary).Width(4)
		for _, t := range tilesets {
			if _, err := fmt.Fprintln(out, lipgloss.JoinHorizontal(lipgloss.Top, code.Render(t.Code), t.Name)); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tilesetsCmd)
	tilesetsCmd.Flags().BoolVar(&tilesetsJSON, "json", false, "Print the table as JSON")
}
