package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/darmiel/ordergate/internal/api"
	"github.com/darmiel/ordergate/internal/buildinfo"
	"github.com/darmiel/ordergate/internal/core"
)

// Hello returns the identity claims the server decoded from the client's
// token. Requires a valid auth token.
func (c *Client) Hello(ctx context.Context) (map[string]any, string, error) {
	var claims map[string]any
	correlationID, err := c.get(ctx, api.HelloRoute, &claims)
	if err != nil {
		return nil, correlationID, err
	}
	return claims, correlationID, nil
}

// Info returns service build information.
func (c *Client) Info(ctx context.Context) (*buildinfo.Info, error) {
	var info buildinfo.Info
	if _, err := c.get(ctx, api.AboutRoute, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ConfirmOrder triggers an order confirmation mail and returns the raw
// response body. The server answers 200 for both outcomes; a successful
// dispatch returns exactly "Sent", anything else is the dispatch error text.
func (c *Client) ConfirmOrder(ctx context.Context, details core.OrderDetails) (string, error) {
	reqURL := c.baseURL + api.ConfirmOrderRoute + "?" + details.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("connection failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return "", parseErrorResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	return string(body), nil
}

// ShippingQuote fetches a price quote for the given destination postal code.
func (c *Client) ShippingQuote(ctx context.Context, cep string) (*core.Quote, error) {
	params := url.Values{"cep": {cep}}
	var quote core.Quote
	if _, err := c.get(ctx, api.ShippingQuoteRoute+"?"+params.Encode(), &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// RecentAudit returns the most recent gate and dispatch decisions.
// Requires a valid auth token.
func (c *Client) RecentAudit(ctx context.Context, limit int) ([]core.AuditEntry, error) {
	path := api.AuditRoute
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var entries []core.AuditEntry
	if _, err := c.get(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
