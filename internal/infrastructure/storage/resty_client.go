// Package storage sube soportes (fotos de remisión y firmas) a un object
// storage HTTP y devuelve URLs públicas para referenciar desde las actas.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/agrovia/liquidacion-api/internal/application/liquidation"
	"github.com/agrovia/liquidacion-api/pkg/config"
)

var _ liquidation.ProofUploader = (*Client)(nil)

// Client implementación de ProofUploader con resty contra el bucket HTTP.
type Client struct {
	httpClient *resty.Client
	publicURL  string
}

// NewClient construye el cliente de storage desde la configuración.
func NewClient(cfg config.StorageConfig) *Client {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = base
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{httpClient: restyClient, publicURL: publicURL}
}

// Upload sube el archivo con un nombre único y devuelve la URL pública.
// El uuid como prefijo evita colisiones entre soportes con el mismo nombre.
func (c *Client) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%s", uuid.New().String(), sanitize(name))

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Put("/" + key)
	if err != nil {
		return "", fmt.Errorf("subir soporte %s: %w", name, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("subir soporte %s: status %d", name, resp.StatusCode())
	}
	return fmt.Sprintf("%s/%s", c.publicURL, key), nil
}

// sanitize deja el nombre seguro para usar como parte de la URL.
func sanitize(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	if name == "" {
		name = "archivo"
	}
	return name
}
