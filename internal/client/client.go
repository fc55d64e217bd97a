package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/logger"
)

// Scope is the three-state collection filter of the bookmark list endpoint.
// The zero value means "any collection" (the parameter is omitted); the
// unsorted scope is encoded as the literal collectionId=null, which the
// backend distinguishes from absence.
type Scope struct {
	set bool
	id  string
}

// AnyCollection matches every bookmark.
func AnyCollection() Scope { return Scope{} }

// UnsortedOnly matches bookmarks with no collection.
func UnsortedOnly() Scope { return Scope{set: true} }

// InCollection matches bookmarks filed into the given collection.
func InCollection(id string) Scope { return Scope{set: true, id: id} }

// Client issues the REST calls of the bookmark API. Every response body is
// validated against the corresponding entity schema before it is returned;
// malformed server data never reaches the caller.
type Client struct {
	http *resty.Client
	log  logger.Logger
}

// Options configures a Client.
type Options struct {
	// BaseURL is the server root, e.g. "http://localhost:9180". The /api
	// prefix is appended per request.
	BaseURL string
	// Timeout bounds each HTTP call. Zero means the transport default.
	Timeout time.Duration
	Logger  logger.Logger
}

func New(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	hc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		hc.SetTimeout(opts.Timeout)
	}

	return &Client{http: hc, log: log}
}

// ─────────────────────────────────────────────────────────────────
// Bookmarks
// ─────────────────────────────────────────────────────────────────

// ListBookmarks fetches bookmarks, optionally filtered by collection scope
// and free-text search.
func (c *Client) ListBookmarks(ctx context.Context, scope Scope, search string) ([]domain.Bookmark, error) {
	req := c.http.R().SetContext(ctx)
	if scope.set {
		if scope.id == "" {
			req.SetQueryParam("collectionId", "null")
		} else {
			req.SetQueryParam("collectionId", scope.id)
		}
	}
	if search != "" {
		req.SetQueryParam("search", search)
	}

	resp, err := req.Get("/api/bookmarks/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return decodeList[domain.Bookmark](resp.Body(), "bookmark list")
}

// CreateBookmark creates a bookmark and returns the server's record.
func (c *Client) CreateBookmark(ctx context.Context, create domain.BookmarkCreate) (domain.Bookmark, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(create).
		Post("/api/bookmarks/")
	if err := c.check(resp, err); err != nil {
		return domain.Bookmark{}, err
	}
	return decodeOne[domain.Bookmark](resp.Body(), "bookmark")
}

// UpdateBookmark replaces a bookmark's scalar fields.
func (c *Client) UpdateBookmark(ctx context.Context, id string, update domain.BookmarkUpdate) (domain.Bookmark, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(update).
		Put("/api/bookmarks/" + id + "/")
	if err := c.check(resp, err); err != nil {
		return domain.Bookmark{}, err
	}
	return decodeOne[domain.Bookmark](resp.Body(), "bookmark")
}

// DeleteBookmark deletes a bookmark.
func (c *Client) DeleteBookmark(ctx context.Context, id string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/api/bookmarks/" + id + "/")
	return c.check(resp, err)
}

// ListBookmarkTags fetches the tag names attached to a bookmark.
func (c *Client) ListBookmarkTags(ctx context.Context, id string) ([]string, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api/bookmarks/" + id + "/tags/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}

	var tags []string
	if err := json.Unmarshal(resp.Body(), &tags); err != nil {
		return nil, &ValidationError{Resource: "bookmark tags", Err: err}
	}
	return tags, nil
}

// AttachTag adds a tag to a bookmark. Attaching an already-present tag is a
// server-side no-op.
func (c *Client) AttachTag(ctx context.Context, bookmarkID, tag string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"tag": tag}).
		Post("/api/bookmarks/" + bookmarkID + "/tags/")
	return c.check(resp, err)
}

// DetachTag removes a tag from a bookmark.
func (c *Client) DetachTag(ctx context.Context, bookmarkID, tag string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/api/bookmarks/" + bookmarkID + "/tags/" + tag + "/")
	return c.check(resp, err)
}

// GetSuggestion fetches the AI suggestion for a bookmark. Returns nil when
// the backend has none ready yet (the body is the JSON literal null).
func (c *Client) GetSuggestion(ctx context.Context, bookmarkID string) (*domain.AISuggestion, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api/bookmarks/" + bookmarkID + "/ai-suggestion/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}

	var sugg *domain.AISuggestion
	if err := json.Unmarshal(resp.Body(), &sugg); err != nil {
		return nil, &ValidationError{Resource: "ai suggestion", Err: err}
	}
	if sugg == nil {
		return nil, nil
	}
	if err := domain.CheckStruct(*sugg); err != nil {
		return nil, &ValidationError{Resource: "ai suggestion", Err: err}
	}
	return sugg, nil
}

// ─────────────────────────────────────────────────────────────────
// Collections
// ─────────────────────────────────────────────────────────────────

// ListCollections fetches all collections with their server-derived counts.
func (c *Client) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api/collections/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return decodeList[domain.Collection](resp.Body(), "collection list")
}

// CreateCollection creates a collection from a name.
func (c *Client) CreateCollection(ctx context.Context, create domain.CollectionCreate) (domain.Collection, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(create).
		Post("/api/collections/")
	if err := c.check(resp, err); err != nil {
		return domain.Collection{}, err
	}
	return decodeOne[domain.Collection](resp.Body(), "collection")
}

// GetCollection fetches a single collection.
func (c *Client) GetCollection(ctx context.Context, id string) (domain.Collection, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api/collections/" + id + "/")
	if err := c.check(resp, err); err != nil {
		return domain.Collection{}, err
	}
	return decodeOne[domain.Collection](resp.Body(), "collection")
}

// DeleteCollection deletes a collection. Member bookmarks are handled
// server-side (cascade); the caller must refetch rather than assume.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/api/collections/" + id + "/")
	return c.check(resp, err)
}

// ListCollectionBookmarks fetches one collection's bookmarks.
func (c *Client) ListCollectionBookmarks(ctx context.Context, id string) ([]domain.Bookmark, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api/collections/" + id + "/bookmarks/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return decodeList[domain.Bookmark](resp.Body(), "bookmark list")
}

// ─────────────────────────────────────────────────────────────────
// Tags
// ─────────────────────────────────────────────────────────────────

// ListTags fetches the global tag vocabulary with usage counts.
func (c *Client) ListTags(ctx context.Context) ([]domain.Tag, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api/tags/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return decodeList[domain.Tag](resp.Body(), "tag list")
}

// CreateTag adds a tag to the global vocabulary. A duplicate name comes back
// as an *HTTPError with Conflict() true and the server's detail message.
func (c *Client) CreateTag(ctx context.Context, tag string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"tag": tag}).
		Post("/api/tags/")
	return c.check(resp, err)
}

// ─────────────────────────────────────────────────────────────────
// Internals
// ─────────────────────────────────────────────────────────────────

// check converts a resty result into the error taxonomy: transport failures
// and non-2xx statuses become *HTTPError, everything else passes.
func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		return &HTTPError{Err: err}
	}
	if resp.IsSuccess() {
		return nil
	}

	he := &HTTPError{StatusCode: resp.StatusCode()}
	var body struct {
		Detail string `json:"detail"`
	}
	if jsonErr := json.Unmarshal(resp.Body(), &body); jsonErr == nil {
		he.Detail = body.Detail
	}
	c.log.Debug("request failed",
		logger.String("url", resp.Request.URL),
		logger.Int("status", he.StatusCode),
		logger.String("detail", he.Detail))
	return he
}

// decodeOne parses and schema-checks a single entity.
func decodeOne[T any](body []byte, resource string) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, &ValidationError{Resource: resource, Err: err}
	}
	if err := domain.CheckStruct(v); err != nil {
		var zero T
		return zero, &ValidationError{Resource: resource, Err: err}
	}
	return v, nil
}

// decodeList parses and schema-checks a list response. A single bad element
// fails the whole response: partial data never enters the cache.
func decodeList[T any](body []byte, resource string) ([]T, error) {
	var list []T
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, &ValidationError{Resource: resource, Err: err}
	}
	for i, v := range list {
		if err := domain.CheckStruct(v); err != nil {
			return nil, &ValidationError{
				Resource: resource,
				Err:      fmt.Errorf("element %d: %w", i, err),
			}
		}
	}
	return list, nil
}
