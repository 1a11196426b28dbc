// Package panel is the admin panel's service layer: a typed client for
// the admin API and an in-memory store mirroring the panel's list state,
// including the optimistic reorder/toggle flows.
package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/marqueetv/marquee/internal/audit"
	"github.com/marqueetv/marquee/internal/catalog"
	"github.com/marqueetv/marquee/internal/handlers"
	"github.com/marqueetv/marquee/internal/tmdb"
)

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Client talks to the admin API with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

type listResponse[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var buf *bytes.Buffer
	if body != nil {
		buf = &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return err
		}
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &APIError{
			Status:  resp.StatusCode,
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
		}
	}
	if dest != nil {
		return json.NewDecoder(resp.Body).Decode(dest)
	}
	return nil
}

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/admin/login",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// ── contents ──────────────────────────────────────────────────────────────────

type ContentPage struct {
	Items      []handlers.EnrichedContent
	Total      int
	Page       int
	TotalPages int
}

func (c *Client) ListContents(ctx context.Context, page, limit int) (*ContentPage, error) {
	var resp listResponse[handlers.EnrichedContent]
	path := fmt.Sprintf("/admin/contents?page=%d&limit=%d", page, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &ContentPage{Items: resp.Items, Total: resp.Total, Page: resp.Page, TotalPages: resp.TotalPages}, nil
}

func (c *Client) CreateContent(ctx context.Context, in catalog.CreateContentInput) (*catalog.Content, error) {
	var out catalog.Content
	if err := c.do(ctx, http.MethodPost, "/admin/contents", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateContent(ctx context.Context, externalID int, mediaType string, patch catalog.ContentPatch) (*catalog.Content, error) {
	var out catalog.Content
	path := fmt.Sprintf("/admin/contents/%d?type=%s", externalID, mediaType)
	if err := c.do(ctx, http.MethodPut, path, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteContent(ctx context.Context, externalID int, mediaType string) error {
	path := fmt.Sprintf("/admin/contents/%d?type=%s", externalID, mediaType)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ── sections ──────────────────────────────────────────────────────────────────

func (c *Client) ListSections(ctx context.Context) ([]catalog.Section, error) {
	var resp listResponse[catalog.Section]
	if err := c.do(ctx, http.MethodGet, "/admin/sections", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) CreateSection(ctx context.Context, in catalog.SectionInput) (*catalog.Section, error) {
	var out catalog.Section
	if err := c.do(ctx, http.MethodPost, "/admin/sections", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSection(ctx context.Context, name string, patch catalog.SectionPatch) (*catalog.Section, error) {
	var out catalog.Section
	path := "/admin/sections/" + url.PathEscape(name)
	if err := c.do(ctx, http.MethodPut, path, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSection(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/admin/sections/"+url.PathEscape(name), nil, nil)
}

func (c *Client) ReorderSections(ctx context.Context, orders []catalog.SectionOrder) ([]catalog.Section, error) {
	var resp listResponse[catalog.Section]
	body := map[string]interface{}{"orders": orders}
	if err := c.do(ctx, http.MethodPut, "/admin/sections/reorder", body, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ── menu items ────────────────────────────────────────────────────────────────

func (c *Client) ListMenuItems(ctx context.Context) ([]catalog.MenuItem, error) {
	var resp listResponse[catalog.MenuItem]
	if err := c.do(ctx, http.MethodGet, "/admin/menu", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) CreateMenuItem(ctx context.Context, in catalog.MenuItemInput) (*catalog.MenuItem, error) {
	var out catalog.MenuItem
	if err := c.do(ctx, http.MethodPost, "/admin/menu", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMenuItem(ctx context.Context, id string, patch catalog.MenuItemPatch) (*catalog.MenuItem, error) {
	var out catalog.MenuItem
	if err := c.do(ctx, http.MethodPut, "/admin/menu/"+id, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/menu/"+id, nil, nil)
}

func (c *Client) ReorderMenuItems(ctx context.Context, orders []catalog.MenuItemOrder) ([]catalog.MenuItem, error) {
	var resp listResponse[catalog.MenuItem]
	body := map[string]interface{}{"orders": orders}
	if err := c.do(ctx, http.MethodPut, "/admin/menu/reorder", body, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ── hero, stats, logs, search ─────────────────────────────────────────────────

func (c *Client) GetHero(ctx context.Context) (*catalog.HeroSettings, error) {
	var resp struct {
		Hero *catalog.HeroSettings `json:"hero"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/hero", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Hero, nil
}

func (c *Client) UpdateHero(ctx context.Context, in catalog.HeroInput) (*catalog.HeroSettings, error) {
	var resp struct {
		Hero *catalog.HeroSettings `json:"hero"`
	}
	if err := c.do(ctx, http.MethodPut, "/admin/hero", in, &resp); err != nil {
		return nil, err
	}
	return resp.Hero, nil
}

func (c *Client) Stats(ctx context.Context) (*catalog.Stats, error) {
	var out catalog.Stats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchProvider(ctx context.Context, query, mediaType string) ([]tmdb.Details, error) {
	var resp struct {
		Results []tmdb.Details `json:"results"`
	}
	path := "/admin/tmdb/search?query=" + url.QueryEscape(query)
	if mediaType != "" {
		path += "&type=" + url.QueryEscape(mediaType)
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// LogPage is one page of the audit log.
type LogPage struct {
	Items      []audit.Entry
	Total      int
	Page       int
	TotalPages int
}

// Logs pages through the audit log, optionally filtered by action.
func (c *Client) Logs(ctx context.Context, action string, page int) (*LogPage, error) {
	path := "/admin/logs?page=" + strconv.Itoa(page)
	if action != "" {
		path += "&action=" + url.QueryEscape(action)
	}
	var resp listResponse[audit.Entry]
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &LogPage{Items: resp.Items, Total: resp.Total, Page: resp.Page, TotalPages: resp.TotalPages}, nil
}
