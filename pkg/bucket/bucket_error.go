package bucket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

var ErrBucketAPI = errors.New("bucket api")

// ErrorResponse describes the JSON the bucket service responds with when an
// API call fails.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func ToErrorFromResponse(resp *resty.Response) (*ErrorResponse, error) {
	var errorResponse ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errorResponse); err != nil {
		return nil, errors.Join(ErrBucketAPI, fmt.Errorf("(HTTP Status: %d)- unable to parse json error response: %s", resp.StatusCode(), err))
	}

	return &errorResponse, errors.Join(ErrBucketAPI, fmt.Errorf("(HTTP Status: %d)- %s: %s", resp.StatusCode(), errorResponse.Code, errorResponse.Message))
}
