package bucket

import (
	"context"
	"io"
)

type MockClient struct {
	err          error
	retrievalURL string
	PutKeys      []string
	AuthCalls    int
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) SetError(err error) {
	c.err = err
}

func (c *MockClient) SetRetrievalURL(url string) {
	c.retrievalURL = url
}

func (c *MockClient) Err(err error) *MockClient {
	c.err = err
	return c
}

func (c *MockClient) Authenticate(ctx context.Context) error {
	c.AuthCalls++
	return c.err
}

func (c *MockClient) Put(ctx context.Context, key string, body io.Reader, contentType string) (PutResult, error) {
	if c.err != nil {
		return PutResult{}, c.err
	}

	c.PutKeys = append(c.PutKeys, key)

	url := c.retrievalURL
	if url == "" {
		url = "https://bucket.test/" + key
	}

	return PutResult{RetrievalURL: url}, nil
}
