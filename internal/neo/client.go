package neo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultBaseURL is the public NeoWs REST root.
	DefaultBaseURL = "https://api.nasa.gov/neo/rest/v1"
	// DefaultTimeout bounds a single feed request.
	DefaultTimeout = 30 * time.Second

	dateLayout   = "2006-01-02"
	maxBodyBytes = 10 << 20
)

var (
	// ErrTransient marks failures that may succeed on a later attempt:
	// network errors, timeouts, throttling and upstream 5xx responses.
	ErrTransient = errors.New("transient data source error")
	// ErrDataQuality marks a payload that cannot be trusted as a whole.
	ErrDataQuality = errors.New("malformed data source payload")
)

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client fetches close-approach records from the NeoWs feed.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client. Empty fields fall back to the public defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIKey == "" {
		cfg.APIKey = "DEMO_KEY"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// FetchAsteroids returns every record whose close approach falls in [from, to].
// Records are ordered by feed date, then by their position in the feed.
// Any malformed entry fails the whole fetch with ErrDataQuality.
func (c *Client) FetchAsteroids(ctx context.Context, from, to time.Time) ([]AsteroidRecord, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid window: end %s is before start %s", to.Format(dateLayout), from.Format(dateLayout))
	}

	body, err := c.get(ctx, from, to)
	if err != nil {
		return nil, err
	}

	records, err := parseFeed(body)
	if err != nil {
		return nil, err
	}

	slog.Debug("Fetched NeoWs feed",
		"start_date", from.Format(dateLayout),
		"end_date", to.Format(dateLayout),
		"records", len(records),
	)
	return records, nil
}

func (c *Client) get(ctx context.Context, from, to time.Time) ([]byte, error) {
	u, err := url.Parse(c.baseURL + "/feed")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
	}
	q := u.Query()
	q.Set("start_date", from.Format(dateLayout))
	q.Set("end_date", to.Format(dateLayout))
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching feed: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: unexpected status code %d from feed", ErrTransient, resp.StatusCode)
	default:
		return nil, fmt.Errorf("unexpected status code %d from feed", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrTransient, err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: response exceeds %d byte limit", ErrDataQuality, maxBodyBytes)
	}
	return body, nil
}

// parseFeed converts a feed body into records, failing on the first malformed entry.
func parseFeed(body []byte) ([]AsteroidRecord, error) {
	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataQuality, err)
	}
	if feed.NearEarthObjects == nil {
		return nil, fmt.Errorf("%w: near_earth_objects missing", ErrDataQuality)
	}

	dates := make([]string, 0, len(feed.NearEarthObjects))
	for d := range feed.NearEarthObjects {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var records []AsteroidRecord
	for _, d := range dates {
		for i, obj := range feed.NearEarthObjects[d] {
			rec, err := toRecord(obj)
			if err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %v", ErrDataQuality, d, i, err)
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

func toRecord(obj feedObject) (AsteroidRecord, error) {
	if obj.Name == "" {
		return AsteroidRecord{}, errors.New("name is empty")
	}
	if obj.Hazardous == nil {
		return AsteroidRecord{}, fmt.Errorf("%s: hazardous flag missing", obj.Name)
	}
	m := obj.EstimatedDiameter.Meters
	if m == nil || m.Min == nil || m.Max == nil {
		return AsteroidRecord{}, fmt.Errorf("%s: estimated diameter in meters missing", obj.Name)
	}

	approaches := make([]CloseApproach, 0, len(obj.CloseApproachData))
	for _, ca := range obj.CloseApproachData {
		date, err := time.Parse(dateLayout, ca.CloseApproachDate)
		if err != nil {
			return AsteroidRecord{}, fmt.Errorf("%s: close_approach_date %q: %v", obj.Name, ca.CloseApproachDate, err)
		}
		if _, err := decimal.NewFromString(ca.MissDistance.Kilometers); err != nil {
			return AsteroidRecord{}, fmt.Errorf("%s: miss_distance.kilometers %q: %v", obj.Name, ca.MissDistance.Kilometers, err)
		}
		approaches = append(approaches, CloseApproach{
			Date:                   date,
			MissDistanceKilometers: ca.MissDistance.Kilometers,
		})
	}

	return AsteroidRecord{
		ID:                   obj.ID,
		Name:                 obj.Name,
		PotentiallyHazardous: *obj.Hazardous,
		CloseApproaches:      approaches,
		EstimatedDiameter: DiameterRange{
			MinMeters: *m.Min,
			MaxMeters: *m.Max,
		},
	}, nil
}
