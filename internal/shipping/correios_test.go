package shipping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/darmiel/ordergate/internal/config"
	"github.com/darmiel/ordergate/internal/core"
)

func testRequest() core.QuoteRequest {
	return core.QuoteRequest{
		ServiceCode:           "04510",
		OriginPostalCode:      "88050536",
		DestinationPostalCode: "01310100",
		WeightKg:              "1",
		Format:                3,
		LengthCm:              40,
		HeightCm:              40,
		WidthCm:               40,
		DiameterCm:            40,
	}
}

func TestCorreiosQuoter_Quote(t *testing.T) {
	want := core.Quote{
		ServiceCode:  "04510",
		Price:        "15.00",
		DeadlineDays: "7",
	}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params := map[string]string{
			"nCdServico":     "04510",
			"sCepOrigem":     "88050536",
			"sCepDestino":    "01310100",
			"nVlPeso":        "1",
			"nCdFormato":     "3",
			"nVlComprimento": "40",
			"nVlAltura":      "40",
			"nVlLargura":     "40",
			"nVlDiametro":    "40",
		}
		for key, value := range params {
			if got := q.Get(key); got != value {
				t.Errorf("param %s = %q, want %q", key, got, value)
			}
		}

		if got := r.Header.Get("X-Correlation-ID"); got != "test-correlation" {
			t.Errorf("correlation header = %q, want %q", got, "test-correlation")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	t.Cleanup(backend.Close)

	quoter := NewCorreiosQuoter(config.ShippingConfig{BaseURL: backend.URL})

	ctx := context.WithValue(context.Background(), "correlation_id", "test-correlation") //nolint:staticcheck // matches the middleware key
	got, err := quoter.Quote(ctx, testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Payload) == 0 {
		t.Error("expected the raw carrier body to be retained")
	}
	got.Payload = nil
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("quote mismatch (-want +got):\n%s", diff)
	}
}

func TestCorreiosQuoter_PayloadVerbatim(t *testing.T) {
	// EntregaSabado is not modeled on the Quote struct and must survive
	carrierBody := `{"Codigo":"04510","Valor":"15.00","PrazoEntrega":"7","EntregaSabado":"N"}`

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(carrierBody))
	}))
	t.Cleanup(backend.Close)

	quoter := NewCorreiosQuoter(config.ShippingConfig{BaseURL: backend.URL})

	got, err := quoter.Quote(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got.Payload) != carrierBody {
		t.Errorf("payload = %q, want the carrier body %q", got.Payload, carrierBody)
	}
	if got.Price != "15.00" {
		t.Errorf("price = %q, want %q", got.Price, "15.00")
	}
}

func TestCorreiosQuoter_CarrierErrorPassthrough(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Codigo":"04510","Valor":"0,00","Erro":"-3","MsgErro":"CEP de destino invalido"}`))
	}))
	t.Cleanup(backend.Close)

	quoter := NewCorreiosQuoter(config.ShippingConfig{BaseURL: backend.URL})

	got, err := quoter.Quote(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// carrier-level errors are not adapter failures; they pass through
	if got.ErrorCode != "-3" {
		t.Errorf("error code = %q, want %q", got.ErrorCode, "-3")
	}
	if got.ErrorMessage == "" {
		t.Error("expected carrier error message to pass through")
	}
}

func TestCorreiosQuoter_UpstreamFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(backend.Close)

	quoter := NewCorreiosQuoter(config.ShippingConfig{BaseURL: backend.URL})

	if _, err := quoter.Quote(context.Background(), testRequest()); err == nil {
		t.Fatal("expected error on upstream 503")
	}
}
