// Package bucket is the client for the object-storage service that holds
// converted artifacts. The service is consumed at most once per conversion
// and every failure is tolerated by the caller.
package bucket

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

// ObjClient is the storage collaborator surface the conversion driver
// depends on.
type ObjClient interface {
	Authenticate(ctx context.Context) error
	Put(ctx context.Context, key string, body io.Reader, contentType string) (PutResult, error)
}

// PutResult is the response to a successful object upload.
type PutResult struct {
	RetrievalURL string `json:"retrievalUrl"`
}

type authResult struct {
	Token string `json:"token"`
}

type Client struct {
	c *resty.Client
}

// NewClient creates a bucket client for the given base URL. Every request
// carries the timeout; the collaborator has no other deadline, so this bounds
// how long a conversion can stall on storage.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &Client{c: c}
}

// Authenticate performs the anonymous identity handshake. It is called once
// per process; failure is logged by the caller and is not fatal to the rest
// of the system.
func (c *Client) Authenticate(ctx context.Context) error {
	var result authResult

	resp, err := c.c.R().
		SetContext(ctx).
		SetResult(&result).
		Post("/auth/anonymous")
	if err != nil {
		return err
	}

	if resp.IsError() {
		_, err := ToErrorFromResponse(resp)
		return err
	}

	c.c.SetAuthToken(result.Token)
	return nil
}

// Put uploads body under key with a single attempt, no retry, and returns
// the URL the object can be retrieved from.
func (c *Client) Put(ctx context.Context, key string, body io.Reader, contentType string) (PutResult, error) {
	var result PutResult

	resp, err := c.c.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(body).
		SetResult(&result).
		Post(fmt.Sprintf("/o/%s", key))
	if err != nil {
		return PutResult{}, err
	}

	if resp.IsError() {
		_, err := ToErrorFromResponse(resp)
		return PutResult{}, err
	}

	return result, nil
}
