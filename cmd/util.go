package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/darmiel/ordergate/pkg/client"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
)

func getClient() (*client.Client, error) {
	// we need the user to provide some server address first
	server := viper.GetString(ServerAddrKey)
	if server == "" {
		return nil, fmt.Errorf("server address not configured, provide via --server or env")
	}
	return client.New(server, client.WithAuthToken(viper.GetString(TokenKey))), nil
}

func logError(err error, correlation, msg string) error {
	if correlation != "" {
		log.Error().Str("correlation_id", correlation).Msg(msg)
	}
	return err
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
