package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recent gate and dispatch decisions",
	Long: `Retrieves the most recent auth gate and dispatch decisions from the
server. Requires a token that passes the gate.`,
	Example: `  ordergate audit --server http://localhost:8080 --token <token>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		entries, err := cli.RecentAudit(cmd.Context(), auditLimit)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			log.Info().Msg("No audit entries found")
			return nil
		}
		log.Debug().Msgf("Retrieved %d audit entr(ies)", len(entries))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Time", "Action", "Route", "Subject", "Error"})

		for _, entry := range entries {
			t.AppendRow(table.Row{
				entry.Time.Format(time.RFC3339),
				bold(entry.Action),
				entry.Route,
				truncate(entry.Subject, 48),
				faint(truncate(entry.Error, 48)),
			})
		}

		s := table.StyleRounded
		s.Format.Header = text.FormatDefault
		t.SetStyle(s)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 50, "Maximum number of entries to fetch")
}
