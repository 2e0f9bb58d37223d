package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

var claimsCmd = &cobra.Command{
	Use:   "claims <token>",
	Short: "Dump the claims of a token without verifying it",
	Long: `Parses a JWT and prints its claims. The signature is NOT checked;
this only helps inspecting what a credential would decode to.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := jwt.NewParser()
		token, _, err := parser.ParseUnverified(args[0], jwt.MapClaims{})
		if err != nil {
			return fmt.Errorf("parsing token: %w", err)
		}

		fmt.Println(bold("Header:"))
		spew.Dump(token.Header)
		fmt.Println(bold("Claims:"))
		spew.Dump(token.Claims)
		return nil
	},
}

func init() {
	debugCmd.AddCommand(claimsCmd)
}
