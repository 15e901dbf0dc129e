// Package contentstore is a typed client for the Content Store HTTP API.
package contentstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"trainr/config"
	"trainr/models/course"
)

var (
	ErrNotFound     = errors.New("content store: not found")
	ErrUnauthorized = errors.New("content store: unauthorized")
)

// StatusError is returned for any other non-2xx answer.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("content store: %d %s", e.Code, e.Message)
}

// envelope mirrors middleware.JsonResponse.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	rc *resty.Client
}

// New returns a client for the store at baseURL.
func New(baseURL string, timeout time.Duration, retries int) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if r.Header.Get("X-Request-ID") == "" {
				r.SetHeader("X-Request-ID", uuid.NewString())
			}
			return nil
		})
	return &Client{rc: rc}
}

func NewFromConfig(conf *config.Config) *Client {
	return New(conf.ContentStoreURL, conf.ContentStoreTimeout, conf.ContentStoreRetries)
}

// SetToken sets the bearer token identifying the student. Call it before sharing the client.
func (c *Client) SetToken(token string) *Client {
	c.rc.SetAuthToken(token)
	return c
}

// Login authenticates against the store and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	req := c.rc.R().SetContext(ctx).SetBody(map[string]string{"email": email, "password": password})
	if err := c.do(req, http.MethodPost, "/auth/login", &out); err != nil {
		return "", errors.Wrap(err, "logging in")
	}
	c.SetToken(out.Token)
	return out.Token, nil
}

// GetCourse fetches the ordered course tree.
func (c *Client) GetCourse(ctx context.Context, courseID uint) (course.Course, error) {
	var out course.Course
	if err := c.do(c.rc.R().SetContext(ctx), http.MethodGet, "/course/"+id(courseID)+"/tree", &out); err != nil {
		return course.Course{}, errors.Wrapf(err, "fetching course %d", courseID)
	}
	out.Normalize()
	return out, nil
}

// GetProgress fetches the current student's progress for a course, keyed by lesson id.
func (c *Client) GetProgress(ctx context.Context, courseID uint) (map[uint]course.Progress, error) {
	out := map[uint]course.Progress{}
	if err := c.do(c.rc.R().SetContext(ctx), http.MethodGet, "/course/"+id(courseID)+"/progress", &out); err != nil {
		return nil, errors.Wrapf(err, "fetching progress of course %d", courseID)
	}
	return out, nil
}

// PutProgress stores progress for one lesson and returns the record as the store saved it.
func (c *Client) PutProgress(ctx context.Context, lessonID uint, p course.Progress) (course.Progress, error) {
	var out course.Progress
	req := c.rc.R().SetContext(ctx).SetBody(p)
	if err := c.do(req, http.MethodPut, "/lesson/"+id(lessonID)+"/progress", &out); err != nil {
		return course.Progress{}, errors.Wrapf(err, "saving progress of lesson %d", lessonID)
	}
	return out, nil
}

func (c *Client) do(req *resty.Request, method, path string, out interface{}) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}

	var env envelope
	if len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), &env); err != nil && resp.IsSuccess() {
			return errors.Wrap(err, "decoding response")
		}
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return errors.Wrap(ErrNotFound, env.Message)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.Wrap(ErrUnauthorized, env.Message)
	case !resp.IsSuccess():
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(code)
		}
		return &StatusError{Code: code, Message: msg}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	return errors.Wrap(json.Unmarshal(env.Data, out), "decoding response data")
}

func id(n uint) string { return strconv.FormatUint(uint64(n), 10) }
