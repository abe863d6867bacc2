package locationiq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/taskport/worker-match-system/config"
	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/internal/domain/types"
	wrap "github.com/taskport/worker-match-system/pkg/logger/wrapper"
	"github.com/taskport/worker-match-system/pkg/metrics"
)

const serviceComponent = "locationiq"

var (
	ErrLocationNotFound = fmt.Errorf("location not found")
)

// Client calls the LocationIQ geocoding API. The free tier rate limits hard,
// so successive calls are spaced out by cfg.CallDelay.
type Client struct {
	apiKey    string
	baseURL   string
	callDelay time.Duration
	http      *http.Client

	mu       sync.Mutex
	lastCall time.Time
}

func New(cfg config.GeocoderConfig) *Client {
	return &Client{
		apiKey:    cfg.APIKey,
		baseURL:   cfg.BaseURL,
		callDelay: cfg.CallDelay,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reversePayload struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Postcode string `json:"postcode"`
	} `json:"address"`
}

// ForwardGeocode resolves free text (an address or a postal code) to a
// coordinate pair. Returns ErrLocationNotFound when the provider has no match.
func (c *Client) ForwardGeocode(ctx context.Context, text string) (models.Point, error) {
	const op = "LocationIQClient.ForwardGeocode"

	endpoint := fmt.Sprintf("%s/v1/search?key=%s&q=%s&format=json",
		c.baseURL, c.apiKey, url.QueryEscape(text))

	var results []searchResult
	err := c.get(ctx, endpoint, &results)
	metrics.RecordGeocode(serviceComponent, types.GeocodeForward.String(), err)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return models.Point{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	if len(results) == 0 {
		return models.Point{}, wrap.Error(ctx, fmt.Errorf("%s: %q: %w", op, text, ErrLocationNotFound))
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Point{}, wrap.Error(ctx, fmt.Errorf("%s: failed to parse latitude: %w", op, err))
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Point{}, wrap.Error(ctx, fmt.Errorf("%s: failed to parse longitude: %w", op, err))
	}

	return models.Point{Latitude: lat, Longitude: lon}, nil
}

// ReverseGeocode resolves a coordinate pair to a human-readable place.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (models.Place, error) {
	const op = "LocationIQClient.ReverseGeocode"

	endpoint := fmt.Sprintf("%s/v1/reverse?key=%s&lat=%f&lon=%f&format=json",
		c.baseURL, c.apiKey, lat, lng)

	var payload reversePayload
	err := c.get(ctx, endpoint, &payload)
	metrics.RecordGeocode(serviceComponent, types.GeocodeReverse.String(), err)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return models.Place{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	if payload.DisplayName == "" {
		return models.Place{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, ErrLocationNotFound))
	}

	return models.Place{
		Label:      payload.DisplayName,
		PostalCode: payload.Address.Postcode,
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	c.throttle()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request to LocationIQ: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode LocationIQ response: %w", err)
	}

	return nil
}

// throttle spaces out provider calls by callDelay.
func (c *Client) throttle() {
	if c.callDelay <= 0 {
		return
	}

	c.mu.Lock()
	wait := c.callDelay - time.Since(c.lastCall)
	if wait > 0 {
		time.Sleep(wait)
	}
	c.lastCall = time.Now()
	c.mu.Unlock()
}
