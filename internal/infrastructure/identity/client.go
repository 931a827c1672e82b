package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/decoracionesmori/gestion-api/internal/application/clients"
	"github.com/decoracionesmori/gestion-api/internal/application/dto"
	"github.com/decoracionesmori/gestion-api/pkg/config"
)

var _ clients.IdentityLookup = (*Client)(nil)

// Client consulta DNI en la API de identidad (apiperu.dev o compatible).
// Solo prellena datos de clientes; nunca participa de un invariante, así que los
// fallos se degradan a "no encontrado" en la capa de aplicación.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
}

// NewClient construye el adaptador con la configuración del servicio externo.
func NewClient(cfg config.IdentityConfig) *Client {
	return &Client{
		apiURL: cfg.APIURL,
		token:  cfg.Token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type lookupRequest struct {
	DNI string `json:"dni"`
}

type lookupResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Numero            string `json:"numero"`
		NombreCompleto    string `json:"nombre_completo"`
		Direccion         string `json:"direccion"`
		DireccionCompleta string `json:"direccion_completa"`
	} `json:"data"`
}

// Lookup consulta el documento y devuelve nombre y dirección registrados.
func (c *Client) Lookup(ctx context.Context, dni string) (*dto.IdentityLookupResponse, error) {
	body, err := json.Marshal(lookupRequest{DNI: dni})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("crear request de identidad: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("consultar identidad: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("leer respuesta de identidad: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identidad: status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed lookupResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsear respuesta de identidad: %w", err)
	}
	if !parsed.Success {
		return &dto.IdentityLookupResponse{DNI: dni, Found: false}, nil
	}
	address := parsed.Data.DireccionCompleta
	if address == "" {
		address = parsed.Data.Direccion
	}
	return &dto.IdentityLookupResponse{
		DNI:     dni,
		Name:    parsed.Data.NombreCompleto,
		Address: address,
		Found:   true,
	}, nil
}
