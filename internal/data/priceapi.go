package data

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// DefaultDatasetID is the hourly regional price dataset the evaluator
// reads when no dataset is configured.
const DefaultDatasetID = "nem_dispatch_price_hourly"

// PriceClient provides methods to fetch regional dispatch prices from
// the price API.
type PriceClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewPriceClient creates a new price API client.
// If baseURL is empty, defaults to "https://api.opennem.org.au".
func NewPriceClient(apiKey string, baseURL string) *PriceClient {
	if baseURL == "" {
		baseURL = "https://api.opennem.org.au"
	}
	return &PriceClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// QueryRegionParams defines parameters for querying regional prices.
type QueryRegionParams struct {
	DatasetID string    // e.g., "nem_dispatch_price_hourly"
	Region    string    // e.g., "NSW1" or "VIC1"
	StartTime time.Time // Start of time range
	EndTime   time.Time // End of time range
	Timezone  string    // e.g., "market", "UTC" (default: "market")
}

// APIError represents an error from the price API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *APIError) Error() string {
	return e.Message
}

// QueryRegion fetches dispatch prices for one region from the price API.
//
// If caching is enabled (ENABLE_PRICE_CACHE=true), responses may be served
// from memory. Caching is for local development; it is disabled whenever
// API_ENV=production.
func (c *PriceClient) QueryRegion(params QueryRegionParams) (*PriceResponse, error) {
	// Validate API key before making request
	if err := c.validateAPIKey(); err != nil {
		return nil, err
	}

	// Check cache first (only if enabled for development)
	cache := GetCache()
	if cache != nil {
		cacheKey := GenerateCacheKey(params)
		if cached, found := cache.Get(cacheKey); found {
			dataCount := 0
			if cached.Data != nil {
				dataCount = len(cached.Data)
			}
			log.Printf("[PriceAPI] Cache hit: Using cached response with %d intervals (dataset=%s, region=%s, start=%s, end=%s)",
				dataCount, params.DatasetID, params.Region,
				params.StartTime.Format("2006-01-02"), params.EndTime.Format("2006-01-02"))
			return cached, nil
		}
	}
	if params.DatasetID == "" {
		return nil, fmt.Errorf("dataset_id is required")
	}
	if params.Region == "" {
		return nil, fmt.Errorf("region is required")
	}
	if params.StartTime.IsZero() || params.EndTime.IsZero() {
		return nil, fmt.Errorf("start_time and end_time are required")
	}
	if params.StartTime.After(params.EndTime) {
		return nil, fmt.Errorf("start_time must be before end_time")
	}

	// Build URL: /v1/datasets/{dataset_id}/query/region/{region}
	path := fmt.Sprintf("/v1/datasets/%s/query/region/%s", params.DatasetID, params.Region)
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	// Build query parameters
	q := u.Query()
	q.Set("start_time", params.StartTime.Format("2006-01-02"))
	q.Set("end_time", params.EndTime.Format("2006-01-02"))
	if params.Timezone != "" {
		q.Set("timezone", params.Timezone)
	} else {
		q.Set("timezone", "market")
	}
	u.RawQuery = q.Encode()

	// Log the request
	log.Printf("[PriceAPI] Request: GET %s (dataset=%s, region=%s, start=%s, end=%s, timezone=%s)",
		u.Path,
		params.DatasetID,
		params.Region,
		params.StartTime.Format("2006-01-02"),
		params.EndTime.Format("2006-01-02"),
		q.Get("timezone"))

	// Create HTTP request
	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set API key header
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("Accept", "application/json")

	// Execute request
	startTime := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Printf("[PriceAPI] Request failed: %v (duration: %v)", err, duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Log the response
	log.Printf("[PriceAPI] Response: %d %s (duration: %v, dataset=%s, region=%s)",
		resp.StatusCode,
		resp.Status,
		duration,
		params.DatasetID,
		params.Region)

	// Check status code and handle specific errors
	switch resp.StatusCode {
	case http.StatusOK:
		// Success, continue
	case http.StatusForbidden:
		// 403: Invalid API key or insufficient permissions
		log.Printf("[PriceAPI] Error: 403 Forbidden - Invalid API key or insufficient permissions (dataset=%s, region=%s)",
			params.DatasetID, params.Region)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "INVALID_API_KEY",
			Message:    "Invalid API key or insufficient permissions",
		}
	case http.StatusTooManyRequests:
		// 429: Rate limit exceeded
		retryAfter := resp.Header.Get("Retry-After")
		log.Printf("[PriceAPI] Error: 429 Rate Limit Exceeded - Retry after: %s (dataset=%s, region=%s)",
			retryAfter, params.DatasetID, params.Region)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	case http.StatusUnauthorized:
		// 401: Unauthorized (bad API key)
		log.Printf("[PriceAPI] Error: 401 Unauthorized - Invalid API key (dataset=%s, region=%s)",
			params.DatasetID, params.Region)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "Unauthorized: Invalid API key",
		}
	default:
		// Other errors
		log.Printf("[PriceAPI] Error: %d %s (dataset=%s, region=%s)",
			resp.StatusCode, resp.Status, params.DatasetID, params.Region)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	// Parse JSON response
	var result PriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("[PriceAPI] Error decoding response: %v (dataset=%s, region=%s)", err, params.DatasetID, params.Region)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Log successful response with data count
	dataCount := 0
	if result.Data != nil {
		dataCount = len(result.Data)
	}
	log.Printf("[PriceAPI] Success: Received %d intervals (dataset=%s, region=%s)",
		dataCount, params.DatasetID, params.Region)

	// Cache the response if caching is enabled (development only)
	if cache := GetCache(); cache != nil {
		cacheKey := GenerateCacheKey(params)
		cache.Set(cacheKey, &result)
		log.Printf("[PriceAPI] Cached response (dataset=%s, region=%s)", params.DatasetID, params.Region)
	}

	return &result, nil
}

// validateAPIKey validates that the API key is present and not obviously invalid
func (c *PriceClient) validateAPIKey() error {
	if c.APIKey == "" {
		return &APIError{
			StatusCode: 0,
			Code:       "MISSING_API_KEY",
			Message:    "API key is required",
		}
	}
	// Reject obviously bad keys without validating the exact format
	if len(c.APIKey) < 10 {
		return &APIError{
			StatusCode: 0,
			Code:       "INVALID_API_KEY_FORMAT",
			Message:    "API key appears to be invalid (too short)",
		}
	}
	return nil
}

// QueryRegionByString is a convenience method that parses date strings.
// startDate and endDate should be in "YYYY-MM-DD" format.
func (c *PriceClient) QueryRegionByString(datasetID, region, startDate, endDate string) (*PriceResponse, error) {
	startTime, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date format (expected YYYY-MM-DD): %w", err)
	}
	endTime, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date format (expected YYYY-MM-DD): %w", err)
	}

	return c.QueryRegion(QueryRegionParams{
		DatasetID: datasetID,
		Region:    region,
		StartTime: startTime,
		EndTime:   endTime,
		Timezone:  "market",
	})
}
