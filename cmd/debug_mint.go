package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/ordergate/internal/auth"
	"github.com/darmiel/ordergate/internal/config"
)

var (
	mintSubject string
	mintTTL     time.Duration
	mintClaims  []string
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint a development token locally for testing the gate",
	Long: `Test command that signs an HS256 token with the configured hmac
verifier key. This only works when the config uses a verifier of type "hmac".`,
	Example: `  ordergate debug mint -f ordergate.yaml -s jane@example.com -c email_verified=true`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		if cfg.Auth.Verifier.Type != "hmac" {
			return fmt.Errorf("configured verifier is %q, minting requires type \"hmac\"", cfg.Auth.Verifier.Type)
		}

		verifier, err := auth.NewHMACVerifier(cfg.Auth.Verifier)
		if err != nil {
			return fmt.Errorf("building hmac verifier: %w", err)
		}

		extra := make(map[string]any, len(mintClaims))
		for _, kv := range mintClaims {
			key, value, found := strings.Cut(kv, "=")
			if !found {
				return fmt.Errorf("invalid claim %q, expected key=value", kv)
			}
			// allow boolean claims, everything else stays a string
			switch value {
			case "true":
				extra[key] = true
			case "false":
				extra[key] = false
			default:
				extra[key] = value
			}
		}

		token, err := verifier.Mint(mintSubject, mintTTL, extra)
		if err != nil {
			return fmt.Errorf("minting failed: %w", err)
		}
		log.Debug().Msg("Token minted successfully")

		fmt.Println(token)
		return nil
	},
}

func init() {
	debugCmd.AddCommand(mintCmd)

	mintCmd.Flags().StringVarP(&mintSubject, "subject", "s", "dev@localhost", "Subject claim of the minted token")
	mintCmd.Flags().DurationVar(&mintTTL, "ttl", time.Hour, "Lifetime of the minted token")
	mintCmd.Flags().StringSliceVarP(&mintClaims, "claim", "c", []string{}, "Extra claims as key=value pairs")
}
