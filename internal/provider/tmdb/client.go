package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/baliomega/nextflix/internal/logging"
	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/metrics"
	"github.com/baliomega/nextflix/internal/provider"
	"github.com/baliomega/nextflix/internal/services"
)

// Result represents a single TMDB multi search row.
type Result struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	MediaType    string  `json:"media_type"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

type castMember struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type crewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// CreditsResponse models /movie/{id}/credits.
type CreditsResponse struct {
	Cast []castMember `json:"cast"`
	Crew []crewMember `json:"crew"`
}

type creator struct {
	Name string `json:"name"`
}

// TVDetails models /tv/{id} with credits appended.
type TVDetails struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	CreatedBy []creator       `json:"created_by"`
	Credits   CreditsResponse `json:"credits"`
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey       string
	baseURL      string
	language     string
	includeAdult bool
	httpClient   *http.Client
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

var _ provider.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithIncludeAdult toggles the include_adult search parameter.
func WithIncludeAdult(include bool) Option {
	return func(c *Client) {
		c.includeAdult = include
	}
}

// WithMetrics records call outcomes and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "tmdb")
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.NewComponentLogger(nil, "tmdb"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name identifies the provider.
func (c *Client) Name() string {
	return "tmdb"
}

// SearchMulti performs a TMDB multi search for one result page.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (provider.Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return provider.Page{}, services.Wrap(services.ErrValidation, "tmdb", "search", "query must not be empty", nil)
	}
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", strconv.FormatBool(c.includeAdult))

	var payload Response
	if err := c.get(ctx, "search", "/search/multi", params, &payload); err != nil {
		return provider.Page{}, err
	}

	out := provider.Page{
		Number:       payload.Page,
		TotalPages:   payload.TotalPages,
		TotalResults: payload.TotalResults,
		Candidates:   make([]provider.Candidate, 0, len(payload.Results)),
	}
	if out.Number == 0 {
		out.Number = page
	}
	for _, r := range payload.Results {
		out.Candidates = append(out.Candidates, r.candidate())
	}
	return out, nil
}

// Credits fetches cast and crew. Series requests the show details with
// credits appended so created_by arrives in the same round trip; creators are
// reported with job "Creator".
func (c *Client) Credits(ctx context.Context, id int64, kind media.Kind) (provider.Credits, error) {
	if id <= 0 {
		return provider.Credits{}, services.Wrap(services.ErrValidation, "tmdb", "credits", "id must be positive", nil)
	}

	if kind == media.KindSeries {
		params := url.Values{}
		params.Set("append_to_response", "credits")
		var details TVDetails
		if err := c.get(ctx, "credits", fmt.Sprintf("/tv/%d", id), params, &details); err != nil {
			return provider.Credits{}, err
		}
		credits := convertCredits(details.Credits)
		creators := make([]provider.CrewMember, 0, len(details.CreatedBy))
		for _, cr := range details.CreatedBy {
			if name := strings.TrimSpace(cr.Name); name != "" {
				creators = append(creators, provider.CrewMember{Name: name, Job: "Creator"})
			}
		}
		credits.Crew = append(creators, credits.Crew...)
		return credits, nil
	}

	var payload CreditsResponse
	if err := c.get(ctx, "credits", fmt.Sprintf("/movie/%d/credits", id), url.Values{}, &payload); err != nil {
		return provider.Credits{}, err
	}
	return convertCredits(payload), nil
}

func (c *Client) get(ctx context.Context, operation, path string, params url.Values, dst any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "tmdb", operation, "parse url", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return services.Wrap(services.ErrProviderUnavailable, "tmdb", operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		c.metrics.ObserveProviderCall(operation, outcomeFor(ctx, err), latency)
		marker := services.ErrProviderUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			marker = services.ErrTimeout
		}
		return services.Wrap(marker, "tmdb", operation, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ObserveProviderCall(operation, "status_"+strconv.Itoa(resp.StatusCode), latency)
		c.logger.Debug("tmdb request rejected",
			logging.String("path", path),
			logging.Int("status", resp.StatusCode),
			logging.Duration("latency", latency),
		)
		return services.Wrap(services.ErrProviderUnavailable, "tmdb", operation,
			fmt.Sprintf("tmdb %s returned %d (latency=%v)", operation, resp.StatusCode, latency), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		c.metrics.ObserveProviderCall(operation, "decode_error", latency)
		return services.Wrap(services.ErrProviderUnavailable, "tmdb", operation, "decode response", err)
	}
	c.metrics.ObserveProviderCall(operation, "ok", latency)
	return nil
}

func (r Result) candidate() provider.Candidate {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = strings.TrimSpace(r.Name)
	}
	date := strings.TrimSpace(r.ReleaseDate)
	if date == "" {
		date = strings.TrimSpace(r.FirstAirDate)
	}
	genreIDs := r.GenreIDs
	if genreIDs == nil {
		genreIDs = []int{}
	}
	return provider.Candidate{
		ProviderID:   r.ID,
		MediaType:    r.MediaType,
		Title:        title,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		Overview:     r.Overview,
		ReleaseDate:  date,
		VoteAverage:  r.VoteAverage,
		GenreIDs:     genreIDs,
	}
}

func convertCredits(payload CreditsResponse) provider.Credits {
	credits := provider.Credits{
		Cast: make([]string, 0, len(payload.Cast)),
		Crew: make([]provider.CrewMember, 0, len(payload.Crew)),
	}
	for _, member := range payload.Cast {
		if name := strings.TrimSpace(member.Name); name != "" {
			credits.Cast = append(credits.Cast, name)
		}
	}
	for _, member := range payload.Crew {
		name := strings.TrimSpace(member.Name)
		if name == "" {
			continue
		}
		credits.Crew = append(credits.Crew, provider.CrewMember{Name: name, Job: strings.TrimSpace(member.Job)})
	}
	return credits
}

func outcomeFor(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "transport_error"
	}
}
