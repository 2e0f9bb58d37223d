package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/ordergate/internal/config"
	"github.com/darmiel/ordergate/internal/core"
	"github.com/darmiel/ordergate/internal/shipping"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <cep>",
	Short: "Fetch a shipping price quote for a destination CEP",
	Long: `Performs a price lookup directly through the carrier adapter using
the fixed package parameters from the configuration file.`,
	Example: `  ordergate quote 88050536`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		quoter := shipping.NewCorreiosQuoter(cfg.Shipping)

		log.Debug().Str("cep", args[0]).Msg("Fetching quote...")
		quote, err := quoter.Quote(cmd.Context(), core.QuoteRequest{
			ServiceCode:           cfg.Shipping.ServiceCode,
			OriginPostalCode:      cfg.Shipping.OriginPostalCode,
			DestinationPostalCode: args[0],
			WeightKg:              cfg.Shipping.WeightKg,
			Format:                cfg.Shipping.Format,
			LengthCm:              cfg.Shipping.LengthCm,
			HeightCm:              cfg.Shipping.HeightCm,
			WidthCm:               cfg.Shipping.WidthCm,
			DiameterCm:            cfg.Shipping.DiameterCm,
		})
		if err != nil {
			return fmt.Errorf("fetching quote: %w", err)
		}

		if quote.ErrorCode != "" && quote.ErrorCode != "0" {
			log.Warn().
				Str("code", quote.ErrorCode).
				Str("message", quote.ErrorMessage).
				Msg("carrier reported an error")
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Service", "Price", "Deadline (days)", "Destination"})
		t.AppendRow(table.Row{
			quote.ServiceCode,
			bold(quote.Price),
			quote.DeadlineDays,
			faint(args[0]),
		})

		s := table.StyleRounded
		s.Format.Header = text.FormatDefault
		t.SetStyle(s)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}
