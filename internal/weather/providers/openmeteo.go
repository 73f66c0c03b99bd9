package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-archive-storage/internal/weather"
)

// DefaultArchiveURL is the Open-Meteo historical weather endpoint.
const DefaultArchiveURL = "https://archive-api.open-meteo.com/v1/archive"

// OpenMeteoArchive implements weather.ArchiveClient for the Open-Meteo archive API.
type OpenMeteoArchive struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoArchive creates an archive client. An empty baseURL selects
// DefaultArchiveURL.
func NewOpenMeteoArchive(client *http.Client, baseURL string) *OpenMeteoArchive {
	if baseURL == "" {
		baseURL = DefaultArchiveURL
	}
	return &OpenMeteoArchive{
		baseURL: baseURL,
		client:  client,
		circuit: newCircuitBreaker("openmeteo-archive"),
	}
}

func (p *OpenMeteoArchive) FetchDaily(ctx context.Context, q weather.Query, variables []string) (weather.ArchiveResponse, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", q.Latitude)
		values.Set("longitude", q.Longitude)
		values.Set("start_date", q.StartDate)
		values.Set("end_date", q.EndDate)
		values.Set("daily", strings.Join(variables, ","))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	body, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.ArchiveResponse{}, err
	}

	var payload weather.ArchiveResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.ArchiveResponse{}, fmt.Errorf("decode archive response: %w", err)
	}
	return payload, nil
}
