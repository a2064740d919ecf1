package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"usuariosapi/internal/core/domain"
	"usuariosapi/internal/core/port"
	"usuariosapi/pkg/tracing"
)

const DefaultBaseURL = "https://viacep.com.br"

// ViaCepClient resolves CEPs against the public ViaCEP service.
type ViaCepClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *tracing.AppMetrics
}

func NewViaCepClient(baseURL string) port.CepResolver {
	return NewViaCepClientWithMetrics(baseURL, nil)
}

func NewViaCepClientWithMetrics(baseURL string, metrics *tracing.AppMetrics) port.CepResolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &ViaCepClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		metrics: metrics,
	}
}

// ViaCEP answers 200 with {"erro": true} for a well-formed CEP that matches
// nothing, so the flag is kept as raw JSON to also cope with the string
// variant ("erro": "true") the service emits on some routes.
type enderecoPayload struct {
	Logradouro string          `json:"logradouro"`
	Localidade string          `json:"localidade"`
	UF         string          `json:"uf"`
	Erro       json.RawMessage `json:"erro"`
}

func (c *ViaCepClient) recordLookup(ctx context.Context, result string) {
	if c.metrics != nil {
		c.metrics.RecordCepLookup(ctx, result)
	}
}

func (c *ViaCepClient) Resolve(ctx context.Context, cep string) (domain.Endereco, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, cep)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		c.recordLookup(ctx, "error")
		return domain.Endereco{}, fmt.Errorf("%w: %v", domain.ErrCepService, err)
	}

	resp, err := c.httpClient.Do(req)

	if err != nil {
		slog.Error("ViaCEP request failed", "cep", cep, "error", err)
		c.recordLookup(ctx, "error")
		return domain.Endereco{}, fmt.Errorf("%w: %v", domain.ErrCepService, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("ViaCEP returned unexpected status", "cep", cep, "status", resp.StatusCode)
		c.recordLookup(ctx, "error")
		return domain.Endereco{}, fmt.Errorf("%w: status %d", domain.ErrCepService, resp.StatusCode)
	}

	var payload enderecoPayload

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.recordLookup(ctx, "error")
		return domain.Endereco{}, fmt.Errorf("%w: %v", domain.ErrCepService, err)
	}

	if len(payload.Erro) > 0 {
		c.recordLookup(ctx, "not_found")
		return domain.Endereco{}, fmt.Errorf("%w: %s", domain.ErrCepNotFound, cep)
	}

	c.recordLookup(ctx, "success")

	return domain.Endereco{
		Logradouro: payload.Logradouro,
		Localidade: payload.Localidade,
		UF:         payload.UF,
	}, nil
}
