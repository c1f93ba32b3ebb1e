package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/iwvelando/refi-calculator/pkg/constants"
	"github.com/iwvelando/refi-calculator/pkg/datetime"
	"go.uber.org/zap"
)

// ErrMissingAPIKey is returned when no FRED API key is configured.
var ErrMissingAPIKey = errors.New("FRED API key is not configured")

// Fetcher loads the observations of one series.
type Fetcher interface {
	FetchSeries(ctx context.Context, seriesID string) ([]Observation, error)
}

// FREDClient reads series observations from the FRED XML API.
type FREDClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewFREDClient initializes a new FRED client
func NewFREDClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *FREDClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if baseURL == "" {
		baseURL = constants.DefaultFREDBaseURL
	}
	return &FREDClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchSeries retrieves every observation of seriesID, oldest first.
// Missing values, published as ".", are skipped.
func (c *FREDClient) FetchSeries(ctx context.Context, seriesID string) ([]Observation, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	body, err := c.sendRequest(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	obs, err := parseObservations(body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug(fmt.Sprintf("fetched %d observations for %s", len(obs), seriesID),
		zap.String("op", "market.FetchSeries"),
	)
	return obs, nil
}

func (c *FREDClient) sendRequest(ctx context.Context, seriesID string) ([]byte, error) {
	query := url.Values{}
	query.Set("series_id", seriesID)
	query.Set("api_key", c.apiKey)
	query.Set("file_type", "xml")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func parseObservations(rawBody []byte) ([]Observation, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("empty XML response")
	}
	if root.Tag == "error" {
		return nil, fmt.Errorf("FRED error: %s", root.SelectAttrValue("message", "unknown"))
	}

	elements := doc.FindElements("//observation")
	obs := make([]Observation, 0, len(elements))
	for _, el := range elements {
		rawValue := strings.TrimSpace(el.SelectAttrValue("value", "."))
		if rawValue == "." || rawValue == "" {
			continue
		}
		date, err := datetime.ParseDate(el.SelectAttrValue("date", ""))
		if err != nil {
			return nil, fmt.Errorf("failed to parse observation: %w", err)
		}
		value, err := strconv.ParseFloat(rawValue, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse observation value %q: %w", rawValue, err)
		}
		obs = append(obs, Observation{Date: date, Value: value})
	}
	SortObservations(obs)
	return obs, nil
}
