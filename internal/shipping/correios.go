package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/darmiel/ordergate/internal/api/middleware"
	"github.com/darmiel/ordergate/internal/config"
	"github.com/darmiel/ordergate/internal/core"
)

const quoteEndpoint = "/calculador/CalcPrecoPrazo"

var _ core.RateQuoter = (*CorreiosQuoter)(nil)

// CorreiosQuoter fetches price quotes from the carrier's price API.
// It holds no cross-request state; the http.Client is shared and safe for
// concurrent use.
type CorreiosQuoter struct {
	baseURL    string
	httpClient *http.Client
}

func NewCorreiosQuoter(cfg config.ShippingConfig) *CorreiosQuoter {
	return &CorreiosQuoter{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Quote performs a single synchronous price lookup. The destination postal
// code is forwarded as-is; the carrier is the one validating it.
func (c *CorreiosQuoter) Quote(ctx context.Context, q core.QuoteRequest) (*core.Quote, error) {
	params := url.Values{}
	params.Set("nCdServico", q.ServiceCode)
	params.Set("sCepOrigem", q.OriginPostalCode)
	params.Set("sCepDestino", q.DestinationPostalCode)
	params.Set("nVlPeso", q.WeightKg)
	params.Set("nCdFormato", strconv.Itoa(q.Format))
	params.Set("nVlComprimento", strconv.Itoa(q.LengthCm))
	params.Set("nVlAltura", strconv.Itoa(q.HeightCm))
	params.Set("nVlLargura", strconv.Itoa(q.WidthCm))
	params.Set("nVlDiametro", strconv.Itoa(q.DiameterCm))

	reqURL := c.baseURL + quoteEndpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	// forward the correlation ID for traceability on the carrier side
	if correlationID := middleware.CorrelationCtx(ctx); correlationID != "" {
		req.Header.Set(middleware.CorrelationIDHeader, correlationID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var quote core.Quote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	// keep the raw body so callers see every carrier field, modeled or not
	quote.Payload = body
	return &quote, nil
}
