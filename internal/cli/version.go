package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kostich/kraftver"
)

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := kraftver.GetVersionInfo()
		out := cmd.OutOrStdout()

		if versionJSON {
			return json.NewEncoder(out).Encode(info)
		}
		_, err := fmt.Fprintf(out, "kraftver %s (%s, %s) %s %s/%s\n",
			info.Version, info.GitCommit, info.BuildTime, info.GoVersion, runtime.GOOS, runtime.GOARCH)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version information as JSON")
}
