package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darmiel/ordergate/internal/buildinfo"
	"github.com/darmiel/ordergate/internal/logging"
)

// global flags
var cfgFile string

const (
	ServerAddrKey = "server"
	TokenKey      = "token"
)

var rootCmd = &cobra.Command{
	Use:   "ordergate",
	Short: fmt.Sprintf("Ordergate (version: %s, commit: %s)", buildinfo.Version, buildinfo.CommitHash),
	Long: `Ordergate is a small authenticated order-gateway backend.
	It gates requests behind a credential verifier and dispatches
	order-confirmation mails and shipping price quotes.`,
	Version: buildinfo.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(nil)
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal().Err(err).Msg("execution failed")
		os.Exit(1)
	}
}

func init() {
	// setup pre-flag logger
	logging.InitDefault()

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "f", "ordergate.yaml",
		"Path to the server configuration file")

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag(logging.LevelKey, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")
	_ = viper.BindPFlag(logging.FormatKey, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	_ = viper.BindPFlag(logging.NoColorKey, rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.PersistentFlags().String("server", "", "Address of a remote ordergate server")
	_ = viper.BindPFlag(ServerAddrKey, rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.PersistentFlags().String("token", "", "Bearer token for remote commands")
	_ = viper.BindPFlag(TokenKey, rootCmd.PersistentFlags().Lookup("token"))

	viper.SetEnvPrefix("ORDERGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))

	viper.AutomaticEnv()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}
