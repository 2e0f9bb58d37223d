package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darmiel/ordergate/internal/api"
	"github.com/darmiel/ordergate/internal/audit"
	"github.com/darmiel/ordergate/internal/auth"
	"github.com/darmiel/ordergate/internal/config"
	"github.com/darmiel/ordergate/internal/core"
	"github.com/darmiel/ordergate/internal/mailer"
	"github.com/darmiel/ordergate/internal/service"
	"github.com/darmiel/ordergate/internal/shipping"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ordergate server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if addr != "" {
			cfg.Server.Addr = addr
		}

		// mail transport credentials usually come from the environment
		// rather than the config file
		if v := viper.GetString("mail.username"); v != "" {
			cfg.Mail.Username = v
		}
		if v := viper.GetString("mail.password"); v != "" {
			cfg.Mail.Password = v
		}

		log.Info().Msg("Initializing verifier...")
		verifier, err := auth.Build(cmd.Context(), cfg.Auth.Verifier)
		if err != nil {
			return fmt.Errorf("building verifier: %w", err)
		}

		log.Info().Msg("Initializing mail transport...")
		smtpMailer, err := mailer.New(cfg.Mail)
		if err != nil {
			return fmt.Errorf("building mailer: %w", err)
		}
		orders := service.NewOrderService(smtpMailer, cfg.Mail.From, cfg.Mail.Operator, cfg.Timeouts.Mail)

		quoter := shipping.NewCorreiosQuoter(cfg.Shipping)

		var auditor core.Auditor
		switch {
		case cfg.Audit.Enabled && cfg.Audit.Type == "memory":
			auditor = audit.NewInMemoryAuditor(cfg.Audit.Size)
		default:
			auditor = audit.NewNoopAuditor()
		}
		defer func() {
			_ = auditor.Close()
		}()

		srv, err := api.NewServer(cfg, verifier, orders, quoter, auditor)
		if err != nil {
			return fmt.Errorf("building server: %w", err)
		}

		server := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: srv.Routes(),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", cfg.Server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides config)")
}
