package jobboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cari_magang/config"
	"cari_magang/models"
)

var (
	// ErrMissingCredentials means RAPIDAPI_KEY / RAPIDAPI_HOST are not set.
	// It is checked before any outbound call is made.
	ErrMissingCredentials = errors.New("jobboard: api credentials not configured")

	// ErrUpstream wraps network failures and non-2xx responses from the API.
	ErrUpstream = errors.New("jobboard: upstream request failed")
)

// Client fetches internship listings from the RapidAPI job board.
// One Fetch call retrieves one page; callers page with Filters.Offset.
type Client struct {
	apiKey  string
	apiHost string
	client  *http.Client
}

func NewClient(cfg *config.JobBoardConfig, client *http.Client) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		apiHost: cfg.APIHost,
		client:  client,
	}
}

func (c *Client) HasCredentials() bool {
	return c.apiKey != "" && c.apiHost != ""
}

// Fetch issues one paginated request for the given filters and returns the
// raw listing records. Unset filters are omitted from the query string.
func (c *Client) Fetch(ctx context.Context, filters models.SyncFilters) ([]models.RawListing, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingCredentials
	}

	reqURL := c.baseURL() + "/jobs?" + buildQuery(filters).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.hostHeader())
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var listings []models.RawListing
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	return listings, nil
}

// baseURL returns the API root with a scheme, whether or not RAPIDAPI_HOST
// carried one.
func (c *Client) baseURL() string {
	if strings.Contains(c.apiHost, "://") {
		return strings.TrimRight(c.apiHost, "/")
	}
	return "https://" + strings.TrimRight(c.apiHost, "/")
}

// hostHeader is the bare hostname RapidAPI expects in X-RapidAPI-Host.
func (c *Client) hostHeader() string {
	if u, err := url.Parse(c.baseURL()); err == nil && u.Host != "" {
		return u.Host
	}
	return c.apiHost
}

func buildQuery(f models.SyncFilters) url.Values {
	params := url.Values{}

	if f.TitleFilter != "" {
		params.Set("title_filter", f.TitleFilter)
	}
	if f.LocationFilter != "" {
		params.Set("location_filter", f.LocationFilter)
	}
	if f.DescriptionFilter != "" {
		params.Set("description_filter", f.DescriptionFilter)
	}
	if f.DescriptionType != "" {
		params.Set("description_type", f.DescriptionType)
	}
	if f.Remote != nil {
		params.Set("remote", strconv.FormatBool(*f.Remote))
	}
	if f.Agency != nil {
		params.Set("agency", strconv.FormatBool(*f.Agency))
	}
	params.Set("offset", strconv.Itoa(f.Offset))
	if f.DateFilter != "" {
		params.Set("date_filter", f.DateFilter)
	}
	if f.AdvancedTitleFilter != "" {
		params.Set("advanced_title_filter", f.AdvancedTitleFilter)
	}
	if f.IncludeAI {
		params.Set("include_ai", "true")
	}
	if f.AIWorkArrangementFilter != "" {
		params.Set("ai_work_arrangement_filter", f.AIWorkArrangementFilter)
	}

	return params
}
