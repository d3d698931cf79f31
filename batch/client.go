package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/batchrest/errors"
	"github.com/teranos/batchrest/internal/httpclient"
	"github.com/teranos/batchrest/internal/util"
	"github.com/teranos/batchrest/logger"
	"github.com/teranos/batchrest/version"
)

const (
	// DefaultTimeout applies to the built-in transport when Config.Timeout is zero
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries a per-request id for correlating client and server logs
	RequestIDHeader = "X-Request-ID"

	mediaTypeJSON = "application/json"
)

// Doer sends one HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds client configuration. Only BaseURL is required.
type Config struct {
	// BaseURL is the REST API root, e.g. "http://localhost:8080/myapp/api".
	BaseURL string

	// HTTPClient overrides the transport. When nil a SaferClient is built from
	// Timeout, BlockPrivateIP and MaxRedirects; a plain *http.Client keeps the
	// default scheme and credential checks.
	HTTPClient     Doer
	Timeout        time.Duration
	BlockPrivateIP bool
	MaxRedirects   int // 0 = default (10)

	// RequestsPerSecond > 0 paces outgoing requests (token bucket with Burst).
	RequestsPerSecond float64
	Burst             int

	UserAgent string             // "" = version.Info.UserAgent()
	Logger    *zap.SugaredLogger // nil = nop logger
	LogBodies bool               // log response bodies at debug level
}

// Client talks to one batch REST service. It holds no per-request state and
// is safe for concurrent use.
type Client struct {
	doer      Doer
	baseURL   *url.URL
	userAgent string
	logger    *zap.SugaredLogger
	logBodies bool
}

// NewClient validates the configuration and builds a client.
func NewClient(config Config) (*Client, error) {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opts := httpclient.SaferClientOptions{BlockPrivateIP: util.Ptr(config.BlockPrivateIP)}
	if config.MaxRedirects > 0 {
		opts.MaxRedirects = util.Ptr(config.MaxRedirects)
	}
	safer := httpclient.NewSaferClientWithOptions(timeout, opts)

	base, err := safer.ValidateURL(strings.TrimSpace(config.BaseURL))
	if err != nil {
		return nil, errors.WithHint(
			errors.WrapInvalidRequest(err, "invalid base URL"),
			"for example http://localhost:8080/myapp/api")
	}
	base.RawQuery = ""
	base.Fragment = ""

	var doer httpclient.Doer = safer
	switch hc := config.HTTPClient.(type) {
	case nil:
	case *http.Client:
		doer = httpclient.WrapClient(hc)
	default:
		doer = hc
	}
	doer = httpclient.NewRateLimitedDoer(doer, config.RequestsPerSecond, config.Burst)

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = version.Get().UserAgent()
	}

	log := config.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Client{
		doer:      doer,
		baseURL:   base,
		userAgent: userAgent,
		logger:    log,
		logBodies: config.LogBodies,
	}, nil
}

// BaseURL returns the configured REST API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Call runs one operation from the route table: it resolves the path
// template with pathParams, adds query as query parameters, sends body as
// JSON and decodes the response into out (nil out discards the body).
func (c *Client) Call(ctx context.Context, op Operation, pathParams, query map[string]string, body, out any) error {
	method, ok := op.Method()
	if !ok {
		return errors.Wrapf(ErrUnknownOperation, "%s", op)
	}
	u, err := c.URI(op, pathParams)
	if err != nil {
		return err
	}
	return c.Invoke(ctx, method, Target(u, query), body, out)
}

// Invoke is the request primitive under every operation. It sends one
// request with JSON headers, checks for a 2xx status and decodes the body
// into out. It never retries.
func (c *Client) Invoke(ctx context.Context, method string, target *url.URL, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.WrapInvalidRequest(err, "failed to encode request body")
		}
		reader = bytes.NewReader(data)
	}

	requestID := logger.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = logger.WithRequestID(ctx, requestID)
	}
	log := logger.FromContext(ctx, c.logger).With(logger.FieldMethod, method, logger.FieldURL, target.String())

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return errors.WrapInvalidRequest(err, "failed to create request")
	}
	req.Header.Set("Accept", mediaTypeJSON)
	if method == http.MethodPost || method == http.MethodPut {
		req.Header.Set("Content-Type", mediaTypeJSON)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		log.Debugw("Batch request failed", logger.FieldError, err, logger.FieldDurationMS, time.Since(start).Milliseconds())
		err = errors.Mark(errors.Wrapf(err, "%s %s", method, target.Redacted()), ErrTransport)
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.Mark(err, errors.ErrTimeout)
		}
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "%s %s: failed to read response", method, target.Redacted()), ErrTransport)
	}

	log.Debugw("Batch request",
		logger.FieldStatus, resp.StatusCode,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	if c.logBodies {
		log.Debugw("Batch response body", "body", string(respBody))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.WithStack(&ServerError{
			Method:     method,
			URL:        target.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		})
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return errors.Mark(errors.Newf("%s %s: empty response body (status %d)", method, target.Redacted(), resp.StatusCode), ErrDecode)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Mark(errors.Wrapf(err, "%s %s: failed to decode response", method, target.Redacted()), ErrDecode)
	}
	return nil
}
