package adapters

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

const fetchMaxRetries = 3

// ContentFetcher performs an HTTP request and returns the response body,
// retrying transient failures (network errors and 5xx) with exponential
// backoff.
type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
}

type contentFetcher struct {
	logger outbound.LoggerPort
	client *http.Client
}

func NewContentFetcher(logger outbound.LoggerPort, timeout time.Duration) ContentFetcher {
	return &contentFetcher{
		logger: logger,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	var payload []byte

	operation := func() error {
		res, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := res.Body.Close(); closeErr != nil {
				c.logger.Warn("failed to close response body: " + closeErr.Error())
			}
		}()

		body, err := io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		if res.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("HTTP request returned status %d", res.StatusCode)
		}
		if res.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("HTTP request returned status %d: %s", res.StatusCode, truncateOutput(string(body))))
		}
		payload = body
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), fetchMaxRetries)
	if err := backoff.Retry(operation, backoff.WithContext(policy, req.Context())); err != nil {
		c.logger.ErrorWithFields(err, "HTTP fetch failed", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}
	return payload, nil
}
