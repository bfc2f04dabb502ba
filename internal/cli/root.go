package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/preston-bernstein/sports-lines-service/internal/app/games"
	"github.com/preston-bernstein/sports-lines-service/internal/config"
	"github.com/preston-bernstein/sports-lines-service/internal/logging"
	"github.com/preston-bernstein/sports-lines-service/internal/server"
)

var (
	logLevel string
	service  *games.Service
	chain    *server.Chain
)

var rootCmd = &cobra.Command{
	Use:           "linesctl",
	Short:         "Query schedules, live scores and betting lines through the source chain",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if service != nil {
			return nil
		}

		cfg := config.Load()
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		logger := logging.NewLogger(logging.Config{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Service: "linesctl",
			Version: Version,
			Output:  cmd.ErrOrStderr(),
		})
		chain = server.BuildChain(cfg, logger, nil)
		service = games.NewService(chain.Resolver)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return chain.Close()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL")

	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(linesCmd)
	rootCmd.AddCommand(slateCmd)
	rootCmd.AddCommand(versionCmd)
}

func getService() *games.Service {
	if service == nil {
		panic("service not initialized; PersistentPreRunE not executed")
	}
	return service
}

func printJSON(w io.Writer, v any) error {
	out, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
