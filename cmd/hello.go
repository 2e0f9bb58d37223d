package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var helloCmd = &cobra.Command{
	Use:   "hello",
	Short: "Echo the identity the server decodes from your token",
	Long: `Calls the authenticated echo endpoint and prints the claims the
server decoded from the provided bearer token. Useful to check what a
deployment accepts.`,
	Example: `  ordergate hello --server http://localhost:8080 --token <token>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		claims, correlation, err := cli.Hello(cmd.Context())
		if err != nil {
			return logError(err, correlation, "echo request failed")
		}
		log.Debug().Msgf("Retrieved %d claim(s)", len(claims))

		keys := make([]string, 0, len(claims))
		for k := range claims {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Claim", "Value"})
		for _, k := range keys {
			t.AppendRow(table.Row{bold(k), truncate(fmt.Sprintf("%v", claims[k]), 64)})
		}

		s := table.StyleRounded
		s.Format.Header = text.FormatDefault
		t.SetStyle(s)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(helloCmd)
}
