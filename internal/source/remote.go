package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lookbook/internal"
	"lookbook/internal/config"
)

// Client talks to the phone OCR app's export API, which serves the raw
// page texts the app has recognized so far.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

type pagesPayload struct {
	Pages  []remotePage `json:"pages"`
	Cursor *string      `json:"cursor"`
	Total  *int         `json:"total"`
}

type remotePage struct {
	Page string `json:"page"`
	Text string `json:"text"`
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.OCRExportTimeout) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.OCRExportRPS),
	}
}

// GetCollectionPages pulls every page of a collection, following the
// export cursor until it repeats or runs out.
func (c *Client) GetCollectionPages(ctx context.Context, collection string) ([]internal.PageText, error) {
	all := make([]internal.PageText, 0)
	seen := map[string]struct{}{}
	var cursor string

	for {
		query := map[string]string{
			"collection": collection,
			"limit":      strconv.Itoa(c.cfg.OCRExportPageSize),
		}
		if cursor != "" {
			query["cursor"] = cursor
		}

		body, err := c.fetchJSON(ctx, "pages/export", query)
		if err != nil {
			return nil, err
		}

		var payload pagesPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, err
		}

		for _, p := range payload.Pages {
			if strings.TrimSpace(p.Text) == "" {
				continue
			}
			all = append(all, internal.PageText{
				Page: internal.NormalizePageKey(p.Page),
				Kind: internal.TextFromRemote,
				Text: p.Text,
			})
		}

		if payload.Cursor == nil || *payload.Cursor == "" || len(payload.Pages) == 0 {
			break
		}
		if _, ok := seen[*payload.Cursor]; ok {
			break
		}
		seen[*payload.Cursor] = struct{}{}
		cursor = *payload.Cursor
	}

	return all, nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if strings.TrimSpace(c.cfg.OCRExportBaseURL) == "" {
		return nil, errors.New("missing OCR_EXPORT_BASE_URL")
	}
	if strings.TrimSpace(c.cfg.OCRExportToken) == "" {
		return nil, errors.New("missing OCR_EXPORT_TOKEN")
	}

	baseURL := strings.TrimRight(c.cfg.OCRExportBaseURL, "/") + "/"
	u, err := url.Parse(baseURL + endpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		c.limiter.WaitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.OCRExportToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("ocr export status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("ocr export api error: status=%d body=%s", resp.StatusCode, string(body))
		}

		var apiResp apiResponse
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return nil, err
		}
		if !apiResp.Success {
			return nil, fmt.Errorf("ocr export unsuccessful: %s", string(apiResp.Errors))
		}
		return apiResp.Data, nil
	}

	if lastErr == nil {
		lastErr = errors.New("ocr export request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// RemoteSource adapts the export client to the PageSource interface.
type RemoteSource struct {
	client     *Client
	collection string
}

func NewRemoteSource(cfg config.Config, collection string) *RemoteSource {
	return &RemoteSource{client: NewClient(cfg), collection: collection}
}

func (s *RemoteSource) Pages(ctx context.Context) ([]internal.PageText, error) {
	return s.client.GetCollectionPages(ctx, s.collection)
}
