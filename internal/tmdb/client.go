package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/mseals/cinematch/internal/metrics"
	"github.com/mseals/cinematch/internal/models"
)

const apiBaseURL = "https://api.themoviedb.org/3"

const (
	maxAttempts    = 3
	requestTimeout = 10 * time.Second
	retryDelay     = 1 * time.Second
)

// Client performs retried, rate-limited GETs against the TMDB API and
// normalizes the responses. Unavailability is not an error: every fetch
// returns ok == false after retry exhaustion or a malformed payload, and
// callers must treat that as "no data".
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	delay   time.Duration
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: apiBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
		// TMDB caps at 40 requests per 10 seconds.
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 40),
		delay:   retryDelay,
	}
}

// get performs one authenticated GET with up to maxAttempts attempts and a
// fixed delay between them. Timeouts, connection errors and non-2xx statuses
// all count as a failed attempt.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, bool) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, false
		}
		metrics.TMDBRequests.Inc()

		body, err := c.doOnce(ctx, reqURL)
		if err == nil {
			return body, true
		}
		metrics.TMDBFailures.Inc()
		log.Printf("[tmdb] GET %s attempt %d/%d failed: %v", path, attempt+1, maxAttempts, err)
		time.Sleep(c.delay)
	}
	return nil, false
}

func (c *Client) doOnce(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// FetchDetails returns the raw details object for a movie.
func (c *Client) FetchDetails(ctx context.Context, movieID int) (map[string]interface{}, bool) {
	body, ok := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), url.Values{"language": {"en-US"}})
	if !ok {
		return nil, false
	}
	var details map[string]interface{}
	if err := json.Unmarshal(body, &details); err != nil {
		log.Printf("[tmdb] malformed details for movie %d: %v", movieID, err)
		return nil, false
	}
	return details, true
}

// FetchCredits returns the cast list for a movie, in the order TMDB returns it.
func (c *Client) FetchCredits(ctx context.Context, movieID int) ([]models.CastMember, bool) {
	body, ok := c.get(ctx, fmt.Sprintf("/movie/%d/credits", movieID), nil)
	if !ok {
		return nil, false
	}
	var result struct {
		Cast []models.CastMember `json:"cast"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		log.Printf("[tmdb] malformed credits for movie %d: %v", movieID, err)
		return nil, false
	}
	return result.Cast, true
}

// FetchVideos returns the video list for a movie, in the order TMDB returns it.
func (c *Client) FetchVideos(ctx context.Context, movieID int) ([]models.Video, bool) {
	body, ok := c.get(ctx, fmt.Sprintf("/movie/%d/videos", movieID), nil)
	if !ok {
		return nil, false
	}
	var result struct {
		Results []models.Video `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		log.Printf("[tmdb] malformed videos for movie %d: %v", movieID, err)
		return nil, false
	}
	return result.Results, true
}

// FetchSimilar returns TMDB's similar-movies list for a movie.
func (c *Client) FetchSimilar(ctx context.Context, movieID int) ([]models.MovieSummary, bool) {
	body, ok := c.get(ctx, fmt.Sprintf("/movie/%d/similar", movieID), nil)
	if !ok {
		return nil, false
	}
	return decodeSummaryList(body)
}

// FetchTrending returns this week's trending movies.
func (c *Client) FetchTrending(ctx context.Context) ([]models.MovieSummary, bool) {
	body, ok := c.get(ctx, "/trending/movie/week", nil)
	if !ok {
		return nil, false
	}
	return decodeSummaryList(body)
}

func decodeSummaryList(body []byte) ([]models.MovieSummary, bool) {
	var result struct {
		Results []models.MovieSummary `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		log.Printf("[tmdb] malformed result list: %v", err)
		return nil, false
	}
	return result.Results, true
}
