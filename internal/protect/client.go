package protect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"time"

	aegerr "github.com/solverde/aegis/internal/errors"
	"github.com/solverde/aegis/internal/intake"
)

// HTTPDoer is an interface for making HTTP requests.
// This allows injecting mock HTTP clients for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Layers holds the three independent protection layer toggles. All
// combinations are valid, including all-disabled.
type Layers struct {
	CryptographicSigning bool
	BinaryShielding      bool
	AICloaking           bool
}

// DefaultLayers returns the option set with every layer enabled.
func DefaultLayers() Layers {
	return Layers{
		CryptographicSigning: true,
		BinaryShielding:      true,
		AICloaking:           true,
	}
}

// ServiceError is a structured failure returned by the protection service.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("protection service error: status=%d message=%s", e.StatusCode, e.Message)
}

// Client talks to the external protection service.
type Client struct {
	BaseURL string
	HTTP    HTTPDoer
	Now     func() time.Time
}

// NewClient returns a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{},
		Now:     time.Now,
	}
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// errorBody is the optional JSON shape of a non-2xx response.
type errorBody struct {
	Detail string `json:"detail"`
}

// ProtectImage submits the file for protection and returns the composed
// result. The identity is sent as-is; the caller guarantees it is present.
// Failures are either a *ServiceError (structured rejection) or a wrapped
// transport error; nothing is retried.
func (c *Client) ProtectImage(ctx context.Context, file *intake.SelectedFile, identity string, layers Layers) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, fmt.Errorf("building multipart request: %w", err)
	}
	src, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file.Path, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		src.Close()
		return nil, fmt.Errorf("reading %s: %w", file.Path, err)
	}
	src.Close()

	fields := map[string]string{
		"user_email":            identity,
		"cryptographic_signing": strconv.FormatBool(layers.CryptographicSigning),
		"binary_shielding":      strconv.FormatBool(layers.BinaryShielding),
		"ai_cloaking":           strconv.FormatBool(layers.AICloaking),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("writing field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing multipart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/protect/image", &body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aegerr.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serviceErrorFrom(resp)
	}

	var raw rawResult
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", aegerr.ErrMalformedResponse, err)
	}

	return composeResult(&raw, c.BaseURL, c.now()), nil
}

// serviceErrorFrom builds a ServiceError from a non-2xx response, using the
// body's detail message when one is present.
func serviceErrorFrom(resp *http.Response) *ServiceError {
	msg := "failed to protect image"
	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil && eb.Detail != "" {
		msg = eb.Detail
	}
	return &ServiceError{StatusCode: resp.StatusCode, Message: msg}
}
