// Package shopapi is a typed client for the storefront REST API with
// centralized logging, card-field redaction, and error mapping. It holds no
// domain state; the session cookie jar is the one piece of transport state,
// and it is what scopes all calls to a single server-side cart.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/chronoshop/storefront-client/pkg/config"
	pkgerrors "github.com/chronoshop/storefront-client/pkg/errors"
	"github.com/chronoshop/storefront-client/pkg/logger"
)

var (
	errBaseURLRequired = errors.New("storefront base url is required")
	errLoggerRequired  = errors.New("storefront logger is required")
)

// Client exposes the storefront endpoints with one shared HTTP session.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	userAgent  string
	logger     *logger.Logger
}

// New initializes the storefront client and validates the configuration.
func New(cfg config.APIConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errBaseURLRequired
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing storefront base url: %w", err)
	}

	// The server keys the cart on its session cookie; one jar per client
	// keeps every call in the same cart scope.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("building cookie jar: %w", err)
	}

	c := &Client{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: cfg.Timeout,
		},
		baseURL:   base,
		userAgent: cfg.UserAgent,
		logger:    logg,
	}

	logg.Info(context.Background(), "storefront client initialized")
	return c, nil
}

// BaseURL reports the configured API root.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

type apiRequest struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   any
	out    any
}

// errorBody is the server's error envelope for non-2xx responses.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, op string, req apiRequest) error {
	target := c.baseURL.ResolveReference(&url.URL{Path: req.path})
	if len(req.query) > 0 {
		target.RawQuery = req.query.Encode()
	}

	var payload io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("encode %s request", op))
		}
		payload = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target.String(), payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s request", op))
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	for key, values := range req.header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	c.log(ctx, "request", op, map[string]any{
		"method": req.method,
		"path":   req.path,
	})

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("storefront %s failed", op))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read %s response", op))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		mapped := c.mapResponseError(op, resp.StatusCode, raw)
		c.log(ctx, "error", op, map[string]any{
			"status": resp.StatusCode,
			"error":  mapped.Error(),
		})
		return mapped
	}

	if req.out != nil {
		if err := json.Unmarshal(raw, req.out); err != nil {
			c.log(ctx, "error", op, map[string]any{"error": err.Error()})
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", op))
		}
	}

	c.log(ctx, "response", op, map[string]any{"status": resp.StatusCode})
	return nil
}

func (c *Client) mapResponseError(op string, status int, raw []byte) error {
	message := fmt.Sprintf("storefront %s failed", op)

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			message = body.Error
		} else if body.Detail != "" {
			message = body.Detail
		}
	}

	err := pkgerrors.New(codeForStatus(status), message)
	if pkgerrors.MetadataFor(err.Code()).DetailsAllowed {
		err = err.WithDetails(map[string]any{"status": status})
	}
	return err
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.CodeValidation
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("storefront %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Debug(ctx, fmt.Sprintf("storefront %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"card", "cvc", "cvv", "email", "phone"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
