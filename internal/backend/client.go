// Package backend は外部REST APIの型付きクライアント。
// GETはタグ付きでキャッシュし、更新系が成功したらタグ単位で無効化する。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fooddash/internal/repository"

	"github.com/sirupsen/logrus"
)

// キャッシュのタグ
const (
	TagRestaurants = "Restaurants"
	TagDishes      = "Dishes"
	TagOrders      = "Orders"
)

// レスポンスボディの上限
const maxBodyBytes = 4 << 20

// 2xx以外のレスポンス
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
}

// AsAPIError はerrから*APIErrorを取り出す。
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	ok := errors.As(err, &ae)
	return ae, ok
}

// 期待した形にデコードできない
var ErrMalformedResponse = errors.New("malformed backend response")

type Client struct {
	baseURL  string
	http     *http.Client
	cache    repository.QueryCacheRepository
	cacheTTL time.Duration
	log      logrus.FieldLogger
}

// DI
func NewClient(baseURL string, httpClient *http.Client, cache repository.QueryCacheRepository, cacheTTL time.Duration, log logrus.FieldLogger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// query はGETを実行する。キャッシュがあればそれを返す。
func (c *Client) query(ctx context.Context, path string, tags []string, out interface{}) error {
	if body, ok, err := c.cache.Get(ctx, path); err != nil {
		c.log.WithError(err).WithField("path", path).Warn("query cache read failed")
	} else if ok {
		if err := decode(body, out); err == nil {
			return nil
		}
		// 壊れたキャッシュは取り直す
	}

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := decode(body, out); err != nil {
		return err
	}

	if err := c.cache.Set(ctx, path, body, tags, c.cacheTTL); err != nil {
		c.log.WithError(err).WithField("path", path).Warn("query cache write failed")
	}
	return nil
}

// mutate は更新系を実行し、成功したらタグを無効化する。outがnilならボディは読まない。
func (c *Client) mutate(ctx context.Context, method string, path string, in interface{}, out interface{}, invalidates ...string) error {
	body, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}

	if len(invalidates) > 0 {
		if err := c.cache.InvalidateTags(ctx, invalidates...); err != nil {
			c.log.WithError(err).WithField("tags", invalidates).Warn("query cache invalidation failed")
		}
	}

	if out == nil {
		return nil
	}
	return decode(body, out)
}

func (c *Client) do(ctx context.Context, method string, path string, in interface{}) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(body, resp.Status)}
	}
	return body, nil
}

// デコードは1か所だけ。失敗はErrMalformedResponseに寄せる
func decode(body []byte, out interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// {"message": ...} / {"error": ...} / テキストの順で拾う
func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" && len(s) < 200 {
		return s
	}
	return fallback
}

// IDが空のレスポンスは壊れている扱い
func requireID(kind string, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s without id", ErrMalformedResponse, kind)
	}
	return nil
}
