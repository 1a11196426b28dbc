// Package tmdb is an HTTP client for The Movie Database (TMDB) API v3.
//
// Authentication: Bearer token (TMDB v4 auth header against the v3 API).
// Base URL: https://api.themoviedb.org/3
// Image base URL: https://image.tmdb.org/t/p/{size}{path}
//
// Supported image sizes:
//
//	Posters:   w92, w154, w185, w342, w500, w780, original
//	Backdrops: w300, w780, w1280, original
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/"
)

// Client is an HTTP client for the TMDB API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a Client with the given Bearer token.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewWithBaseURL creates a Client pointed at an alternate base URL.
// Used by tests to target an httptest server.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = baseURL
	return c
}

// ---------- response types ---------------------------------------------------

// Details is the normalized detail shape for a movie or TV show.
// Title and ReleaseDate are mapped from the media-type-specific fields
// (title/release_date for movies, name/first_air_date for TV).
type Details struct {
	ID              int     `json:"id"`
	MediaType       string  `json:"media_type"`
	Title           string  `json:"title"`
	Overview        string  `json:"overview"`
	PosterPath      string  `json:"poster_path"`
	BackdropPath    string  `json:"backdrop_path"`
	VoteAverage     float64 `json:"vote_average"`
	ReleaseDate     string  `json:"release_date"`
	NumberOfSeasons int     `json:"number_of_seasons,omitempty"`
}

// detailsWire carries both the movie and TV field spellings.
type detailsWire struct {
	ID              int     `json:"id"`
	Title           string  `json:"title"`
	Name            string  `json:"name"`
	Overview        string  `json:"overview"`
	PosterPath      string  `json:"poster_path"`
	BackdropPath    string  `json:"backdrop_path"`
	VoteAverage     float64 `json:"vote_average"`
	ReleaseDate     string  `json:"release_date"`
	FirstAirDate    string  `json:"first_air_date"`
	MediaType       string  `json:"media_type"`
	NumberOfSeasons int     `json:"number_of_seasons"`
}

func (w *detailsWire) normalize(mediaType string) *Details {
	d := &Details{
		ID:              w.ID,
		MediaType:       mediaType,
		Title:           w.Title,
		Overview:        w.Overview,
		PosterPath:      w.PosterPath,
		BackdropPath:    w.BackdropPath,
		VoteAverage:     w.VoteAverage,
		ReleaseDate:     w.ReleaseDate,
		NumberOfSeasons: w.NumberOfSeasons,
	}
	if d.Title == "" {
		d.Title = w.Name
	}
	if d.ReleaseDate == "" {
		d.ReleaseDate = w.FirstAirDate
	}
	if w.MediaType != "" {
		d.MediaType = w.MediaType
	}
	return d
}

type listWire struct {
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
	Results      []detailsWire `json:"results"`
}

// Image is a single image entry from the images endpoint.
type Image struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	VoteAverage float64 `json:"vote_average"`
	ISO6391     string  `json:"iso_639_1"`
}

// ImageSet is the response from GET /{movie|tv}/{id}/images.
type ImageSet struct {
	Logos     []Image `json:"logos"`
	Backdrops []Image `json:"backdrops"`
	Posters   []Image `json:"posters"`
}

// Season is one season of a TV show.
type Season struct {
	ID           int    `json:"id"`
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	PosterPath   string `json:"poster_path"`
	EpisodeCount int    `json:"episode_count"`
	AirDate      string `json:"air_date"`
}

type seasonsWire struct {
	Seasons []Season `json:"seasons"`
}

// ---------- API methods ------------------------------------------------------

// Details fetches details for a movie or TV show by TMDB id.
func (c *Client) Details(ctx context.Context, id int, mediaType string) (*Details, error) {
	if mediaType != "movie" && mediaType != "tv" {
		return nil, fmt.Errorf("tmdb: unsupported media type %q", mediaType)
	}
	var w detailsWire
	if err := c.get(ctx, fmt.Sprintf("/%s/%d", mediaType, id), &w); err != nil {
		return nil, err
	}
	return w.normalize(mediaType), nil
}

// Search searches by title. mediaType is "movie", "tv", or "multi".
func (c *Client) Search(ctx context.Context, query, mediaType string) ([]Details, error) {
	if mediaType != "movie" && mediaType != "tv" && mediaType != "multi" {
		return nil, fmt.Errorf("tmdb: unsupported search type %q", mediaType)
	}
	var w listWire
	path := fmt.Sprintf("/search/%s?query=%s", mediaType, url.QueryEscape(query))
	if err := c.get(ctx, path, &w); err != nil {
		return nil, err
	}
	out := make([]Details, 0, len(w.Results))
	for i := range w.Results {
		out = append(out, *w.Results[i].normalize(mediaType))
	}
	return out, nil
}

// List fetches a category listing. category is one of the section
// apiStrings: popular, top_rated, now_playing, upcoming, airing_today,
// on_the_air, trending. page is 1-based.
func (c *Client) List(ctx context.Context, category, mediaType string, page int) ([]Details, error) {
	if mediaType != "movie" && mediaType != "tv" {
		return nil, fmt.Errorf("tmdb: unsupported media type %q", mediaType)
	}
	if page < 1 {
		page = 1
	}

	var path string
	if category == "trending" {
		path = fmt.Sprintf("/trending/%s/week?page=%d", mediaType, page)
	} else {
		path = fmt.Sprintf("/%s/%s?page=%d", mediaType, category, page)
	}

	var w listWire
	if err := c.get(ctx, path, &w); err != nil {
		return nil, err
	}
	out := make([]Details, 0, len(w.Results))
	for i := range w.Results {
		out = append(out, *w.Results[i].normalize(mediaType))
	}
	return out, nil
}

// Images fetches logos, backdrops, and posters for a title.
func (c *Client) Images(ctx context.Context, id int, mediaType string) (*ImageSet, error) {
	if mediaType != "movie" && mediaType != "tv" {
		return nil, fmt.Errorf("tmdb: unsupported media type %q", mediaType)
	}
	var set ImageSet
	path := fmt.Sprintf("/%s/%d/images?include_image_language=en,null", mediaType, id)
	if err := c.get(ctx, path, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// Seasons fetches the season list for a TV show.
func (c *Client) Seasons(ctx context.Context, id int) ([]Season, error) {
	var w seasonsWire
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), &w); err != nil {
		return nil, err
	}
	if w.Seasons == nil {
		w.Seasons = []Season{}
	}
	return w.Seasons, nil
}

// ImageURL builds a full image URL from a TMDB path and size.
// An empty path yields a placeholder URL so callers always have
// something renderable.
func ImageURL(path, size string) string {
	if path == "" {
		return fmt.Sprintf("https://via.placeholder.com/%s?text=No+Image", placeholderDims(size))
	}
	return imageBaseURL + size + path
}

// placeholderDims maps a TMDB size token to placeholder dimensions.
func placeholderDims(size string) string {
	switch size {
	case "w92":
		return "92x138"
	case "w154":
		return "154x231"
	case "w185":
		return "185x278"
	case "w342":
		return "342x513"
	case "w300":
		return "300x169"
	case "w780":
		return "780x439"
	case "w1280":
		return "1280x720"
	default:
		return "500x750"
	}
}

// ---------- internal ---------------------------------------------------------

// get makes a GET request to the TMDB API and decodes the response JSON into dest.
func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("tmdb: API key not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("tmdb request build: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("tmdb: not found: %s", path)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("tmdb: invalid API key")
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("tmdb: HTTP %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("tmdb decode %s: %w", path, err)
	}
	return nil
}
