package treasury_client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"macrobacktest/internal/domain"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const DefaultBaseURL = "https://www.ustreasuryyieldcurve.com/api/v1/yield_curve_snapshot"

// how many months back to walk when a day has no published yields
const maxLookbackMonths = 6

var yieldKeys = []string{
	"yield_1m",
	"yield_2m",
	"yield_3m",
	"yield_4m",
	"yield_6m",
	"yield_1y",
	"yield_2y",
	"yield_3y",
	"yield_5y",
	"yield_7y",
	"yield_10y",
	"yield_20y",
	"yield_30y",
}

func interestRateMonthsFromApi(in string) (int, error) {
	cleanedStr := strings.Replace(in, "yield_", "", 1)
	if cleanedStr == "" {
		return 0, fmt.Errorf("invalid yield key %q", in)
	}
	unit := string(cleanedStr[len(cleanedStr)-1])
	cleanedStr = cleanedStr[:len(cleanedStr)-1]
	months, err := strconv.Atoi(cleanedStr)
	if err != nil {
		return 0, err
	}

	if unit == "y" {
		months *= 12
	}

	return months, nil
}

type Client struct {
	HttpClient *http.Client
	BaseURL    string

	// lazy, in-memory cache of raw responses keyed by date
	mu    sync.Mutex
	cache map[string][]byte
}

func New(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		HttpClient: httpClient,
		BaseURL:    baseURL,
		cache:      map[string][]byte{},
	}
}

func (c *Client) getBytes(ctx context.Context, date time.Time) ([]byte, error) {
	tStr := date.Format(time.DateOnly)

	c.mu.Lock()
	out, ok := c.cache[tStr]
	c.mu.Unlock()
	if ok {
		return out, nil
	}

	url := fmt.Sprintf("%s?date=%s&offset=0", c.BaseURL, tStr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	response, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed with status code %d: %s", response.StatusCode, string(responseBytes))
	}

	c.mu.Lock()
	c.cache[tStr] = responseBytes
	c.mu.Unlock()

	return responseBytes, nil
}

func parseYieldCurve(responseBytes []byte) (domain.YieldCurve, bool, error) {
	responseBody := []map[string]interface{}{}
	if err := json.Unmarshal(responseBytes, &responseBody); err != nil {
		return domain.YieldCurve{}, false, err
	}

	out := map[int]float64{}
	for _, response := range responseBody {
		for _, field := range yieldKeys {
			v, ok := response[field].(float64)
			if !ok {
				continue
			}
			months, err := interestRateMonthsFromApi(field)
			if err != nil {
				return domain.YieldCurve{}, false, err
			}
			out[months] = v / 100
		}
	}

	return domain.YieldCurve{Rates: out}, len(out) > 0, nil
}

// GetYieldCurve returns the curve published for date. weekends and
// holidays have no values, so it walks back a month at a time until it
// finds one
func (c *Client) GetYieldCurve(ctx context.Context, date time.Time) (domain.YieldCurve, error) {
	for i := 0; i <= maxLookbackMonths; i++ {
		d := date.AddDate(0, -i, 0)
		responseBytes, err := c.getBytes(ctx, d)
		if err != nil {
			return domain.YieldCurve{}, fmt.Errorf("failed to get yield curve on %s: %w", d.Format(time.DateOnly), err)
		}
		curve, found, err := parseYieldCurve(responseBytes)
		if err != nil {
			return domain.YieldCurve{}, fmt.Errorf("failed to parse yield curve on %s: %w", d.Format(time.DateOnly), err)
		}
		if found {
			return curve, nil
		}
	}
	return domain.YieldCurve{}, fmt.Errorf("no yields published within %d months of %s", maxLookbackMonths, date.Format(time.DateOnly))
}
