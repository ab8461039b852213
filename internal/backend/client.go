package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Reel/1.0"

	actionsPath = "/main/api/imgset/actions"
)

// Client implements domain.MediaFetcher, domain.ActionRepository,
// domain.MetadataRepository, domain.DirectoryRepository and
// domain.TagRepository for the workflow server
type Client struct {
	baseURL  string
	username string
	password string

	// apiClient has a request timeout; mediaClient streams and relies on
	// the caller's context instead.
	apiClient   *http.Client
	mediaClient *http.Client
	logger      *slog.Logger
}

// NewClient creates a new workflow server client. Basic auth is sent when
// username is set.
func NewClient(baseURL, username, password string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		apiClient: &http.Client{
			Timeout: defaultTimeout,
		},
		mediaClient: &http.Client{},
		logger:      logger,
	}
}

// BaseURL returns the server root without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// statusError is a non-2xx response with its parsed message
type statusError struct {
	Status  int
	Message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func (c *Client) newRequest(ctx context.Context, method, reqURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	return req, nil
}

// doRequest performs an API request and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	reqURL := c.baseURL + path

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := c.newRequest(ctx, method, reqURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	c.logger.Debug("backend request", "method", method, "url", reqURL)

	resp, err := c.apiClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("backend request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if err := checkStatus(resp, data); err != nil {
		c.logger.Error("backend request error", "status", resp.StatusCode, "body", string(data))
		return nil, err
	}
	return data, nil
}

// checkStatus maps a non-2xx response to an error: 401 is ErrAuthFailed,
// anything else a statusError carrying the server's message
func checkStatus(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return domain.ErrAuthFailed
	}
	return &statusError{Status: resp.StatusCode, Message: errorMessage(resp, body)}
}

// errorMessage extracts the message of a failed response: the JSON message
// field, then detail, then the raw body. Non-JSON responses use the status text.
func errorMessage(resp *http.Response, body []byte) string {
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return http.StatusText(resp.StatusCode)
	}
	var eb ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Detail != "" {
			return eb.Detail
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return http.StatusText(resp.StatusCode)
}

// FetchMedia opens a media download URL. The body is streamed; the caller closes it.
func (c *Client) FetchMedia(ctx context.Context, mediaURL string) (io.ReadCloser, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.mediaClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		return nil, "", domain.ErrServerOffline
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", checkStatus(resp, data)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// postAction sends one image-set action for ids
func (c *Client) postAction(ctx context.Context, action string, ids []string, params url.Values) error {
	form := url.Values{}
	for k, v := range params {
		form[k] = v
	}
	form.Set("action", action)
	form.Set("ids", strings.Join(ids, ","))

	_, err := c.doRequest(ctx, http.MethodPost, actionsPath, form)
	if err == nil {
		c.logger.Debug("action applied", "action", action, "ids", ids)
		return nil
	}

	actionErr := &domain.BackendActionError{Action: action, Message: err.Error(), Err: err}
	var se *statusError
	switch {
	case errors.As(err, &se):
		actionErr.Status = se.Status
		actionErr.Message = se.Message
	case errors.Is(err, domain.ErrAuthFailed):
		actionErr.Status = http.StatusUnauthorized
	}
	return actionErr
}

// SetRating sets the star rating (0 clears it)
func (c *Client) SetRating(ctx context.Context, itemIDs []string, value int) error {
	return c.postAction(ctx, domain.ActionSetRating, itemIDs, url.Values{
		"value": {strconv.Itoa(value)},
	})
}

// SetPickLabel sets the pick label; the empty label is sent as "null"
func (c *Client) SetPickLabel(ctx context.Context, itemIDs []string, value domain.PickLabel) error {
	return c.postAction(ctx, domain.ActionSetPickLabel, itemIDs, url.Values{
		"value": {labelValue(string(value))},
	})
}

// SetColorLabel sets the color label; the empty label is sent as "null"
func (c *Client) SetColorLabel(ctx context.Context, itemIDs []string, value domain.ColorLabel) error {
	return c.postAction(ctx, domain.ActionSetColorLabel, itemIDs, url.Values{
		"value": {labelValue(string(value))},
	})
}

// SetTags replaces the tags of the items
func (c *Client) SetTags(ctx context.Context, itemIDs []string, tagIDs []string) error {
	return c.postAction(ctx, domain.ActionSetTags, itemIDs, url.Values{
		"tagIds": {strings.Join(tagIDs, ",")},
	})
}

func labelValue(v string) string {
	if v == "" {
		return "null"
	}
	return v
}

// GetMetadata loads the raw metadata of one item
func (c *Client) GetMetadata(ctx context.Context, itemID string) (map[string]any, error) {
	path := fmt.Sprintf("/main/api/img/%s/metadata", url.PathEscape(itemID))
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, &domain.MetadataLoadError{ItemID: itemID, Err: err}
	}

	var md map[string]any
	if err := json.Unmarshal(body, &md); err != nil {
		return nil, &domain.MetadataLoadError{ItemID: itemID, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return md, nil
}

// GetDirectory returns a directory and its items in display order
func (c *Client) GetDirectory(ctx context.Context, dirID string) (*domain.Directory, []*domain.Item, error) {
	path := fmt.Sprintf("/main/api/dir/%s/detail", url.PathEscape(dirID))
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			return nil, nil, domain.ErrItemNotFound
		}
		return nil, nil, err
	}

	var detail DirectoryDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, nil, fmt.Errorf("failed to parse response: %w", err)
	}

	dir, items := MapDirectory(detail)
	return dir, items, nil
}

// GetTags returns the tag catalog tree
func (c *Client) GetTags(ctx context.Context) ([]domain.TagNode, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/main/api/tags", nil)
	if err != nil {
		return nil, err
	}

	var nodes []TagTreeNode
	if err := json.Unmarshal(body, &nodes); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return MapTagTree(nodes), nil
}
