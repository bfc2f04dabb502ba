package cli

import (
	"github.com/spf13/cobra"
)

var schedulePeriod string

var scheduleCmd = &cobra.Command{
	Use:   "schedule <sport>",
	Short: "Print the schedule for a sport (current period unless --period is set)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := getService().Schedule(cmd.Context(), args[0], schedulePeriod)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), list)
	},
}

var liveCmd = &cobra.Command{
	Use:   "live <sport>",
	Short: "Print in-progress games for a sport",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := getService().Live(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), list)
	},
}

var linesCmd = &cobra.Command{
	Use:   "lines <gameID>",
	Short: "Print betting lines for a game id such as nfl-401547403",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := getService().Lines(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), lines)
	},
}

var slateCmd = &cobra.Command{
	Use:   "slate <sport>",
	Short: "Print the current schedule paired with lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slate, err := getService().Slate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), slate)
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&schedulePeriod, "period", "", "Week number (nfl, ncaaf) or YYYY-MM-DD date")
}
