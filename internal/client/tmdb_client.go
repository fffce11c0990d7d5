package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/abhikumar45444/movie-night-decider/internal/config"
	"github.com/abhikumar45444/movie-night-decider/internal/metrics"
)

// ErrCatalogUnavailable is returned when the catalog provider could not
// serve any usable results.
var ErrCatalogUnavailable = errors.New("catalog provider unavailable")

const (
	apiName = "tmdb"

	// The popular feed is paginated; starting from a random page keeps
	// successive rooms from voting on the same twenty movies.
	maxStartPage = 50
)

// Movie is the formatted catalog payload persisted per room candidate
type Movie struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Overview     string   `json:"overview"`
	PosterPath   string   `json:"poster_path"`
	BackdropPath *string  `json:"backdrop_path"`
	ReleaseDate  string   `json:"release_date"`
	VoteAverage  float64  `json:"vote_average"`
	VoteCount    int64    `json:"vote_count"`
	Genres       []string `json:"genres"`
	Runtime      *int     `json:"runtime"`
}

// CatalogClient fetches movie candidates from an external provider. The
// provider is slow and may fail; callers must never hold a room lock across
// these calls.
type CatalogClient interface {
	PopularMovies(ctx context.Context, count int) ([]Movie, error)
	SearchMovies(ctx context.Context, query string) ([]Movie, error)
}

type tmdbClient struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	minRating    float64
	httpClient   *http.Client
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// NewTMDBClient creates a TMDB catalog client
func NewTMDBClient(cfg *config.CatalogConfig, logger *zap.Logger, m *metrics.Metrics) CatalogClient {
	return &tmdbClient{
		baseURL:      cfg.BaseURL,
		imageBaseURL: cfg.ImageBaseURL,
		apiKey:       cfg.APIKey,
		minRating:    cfg.MinRating,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// tmdbMovie is the raw provider representation
type tmdbMovie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int64   `json:"vote_count"`
	Genres       []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Runtime *int `json:"runtime"`
}

type tmdbPage struct {
	Results []tmdbMovie `json:"results"`
}

// PopularMovies fetches roughly count movies from the popular feed, starting
// at a random page and skipping anything rated below the quality threshold.
// Partial pages are tolerated: whatever was collected before a mid-run
// failure is still returned, as long as at least one movie survived.
func (c *tmdbClient) PopularMovies(ctx context.Context, count int) ([]Movie, error) {
	movies := make([]Movie, 0, count)

	startPage := rand.Intn(maxStartPage) + 1
	// filtering discards low-rated entries, so budget extra pages
	pagesNeeded := count/15 + 2

	var lastErr error
	for page := startPage; page < startPage+pagesNeeded; page++ {
		result, err := c.fetchPage(ctx, "movie/popular", url.Values{
			"language": {"en-US"},
			"page":     {strconv.Itoa(page)},
		}, "popular_movies")
		if err != nil {
			lastErr = err
			break
		}

		for _, m := range result.Results {
			if m.VoteAverage >= c.minRating {
				movies = append(movies, c.format(m))
			}
		}
		if len(movies) >= count {
			break
		}
	}

	if len(movies) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, lastErr)
		}
		return nil, ErrCatalogUnavailable
	}
	if len(movies) > count {
		movies = movies[:count]
	}

	return movies, nil
}

// SearchMovies looks up movies by title, returning at most ten results
func (c *tmdbClient) SearchMovies(ctx context.Context, query string) ([]Movie, error) {
	result, err := c.fetchPage(ctx, "search/movie", url.Values{
		"language": {"en-US"},
		"query":    {query},
		"page":     {"1"},
	}, "search_movies")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	limit := 10
	if len(result.Results) < limit {
		limit = len(result.Results)
	}

	movies := make([]Movie, 0, limit)
	for _, m := range result.Results[:limit] {
		movies = append(movies, c.format(m))
	}
	return movies, nil
}

func (c *tmdbClient) fetchPage(ctx context.Context, path string, params url.Values, operation string) (*tmdbPage, error) {
	params.Set("api_key", c.apiKey)
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.RecordExternalAPIRequest(apiName, operation, time.Since(start), err)
	}
	if err != nil {
		c.logger.Warn("Catalog request failed",
			zap.String("operation", operation),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Catalog returned non-OK status",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("catalog status %d", resp.StatusCode)
	}

	var page tmdbPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

// format reduces the raw provider payload to the fields clients render
func (c *tmdbClient) format(m tmdbMovie) Movie {
	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		if g.Name != "" {
			genres = append(genres, g.Name)
		}
	}

	return Movie{
		ID:           m.ID,
		Title:        orDefault(m.Title, "Unknown Title"),
		Overview:     orDefault(m.Overview, "No description available"),
		PosterPath:   c.posterURL(m.PosterPath),
		BackdropPath: c.backdropURL(m.BackdropPath),
		ReleaseDate:  orDefault(m.ReleaseDate, "Unknown"),
		VoteAverage:  math.Round(m.VoteAverage*10) / 10,
		VoteCount:    m.VoteCount,
		Genres:       genres,
		Runtime:      m.Runtime,
	}
}

func (c *tmdbClient) posterURL(path string) string {
	if path == "" {
		return "https://via.placeholder.com/500x750?text=No+Poster"
	}
	return fmt.Sprintf("%s/w500%s", c.imageBaseURL, path)
}

func (c *tmdbClient) backdropURL(path string) *string {
	if path == "" {
		return nil
	}
	u := fmt.Sprintf("%s/w1280%s", c.imageBaseURL, path)
	return &u
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
