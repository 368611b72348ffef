package mojang

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// requestError is the shape of Mojang's non-2xx bodies.
type requestError struct {
	Type    string `json:"error"`
	Message string `json:"errorMessage"`
}

func errorDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	reqErr := &requestError{}
	if err := json.Unmarshal(body, reqErr); err != nil {
		return ""
	}

	if reqErr.Message != "" {
		return reqErr.Message
	}
	return reqErr.Type
}

// do issues the request and retries per the client's policy: rate limits
// (429) are waited out when enabled, 5xx and transport failures are retried
// immediately, any other non-2xx status fails at once. Each call counts its
// own attempts. 204 is reported as an *Error so callers can translate the
// legacy not-found signal.
func (c *Client) do(ctx context.Context, method string, url string, header http.Header, body []byte) ([]byte, error) {
	for attempt := 1; ; attempt++ {
		status, resBody, err := c.send(ctx, method, url, header, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < c.maxAttempts {
				c.log.Debug().Str("method", method).Str("url", url).Int("attempt", attempt).Err(err).
					Msg("transport failure, retrying")
				continue
			}
			return nil, &Error{Detail: err.Error()}
		}

		c.log.Debug().Str("method", method).Str("url", url).Int("status", status).Int("attempt", attempt).
			Msg("request")

		switch {
		case status >= 200 && status < 300 && status != http.StatusNoContent:
			return resBody, nil
		case status == http.StatusTooManyRequests && c.retryOnRateLimit && attempt < c.maxAttempts:
			c.log.Warn().Int("attempt", attempt).Int("max_attempts", c.maxAttempts).Dur("sleep", c.rateLimitSleep).
				Msg("rate limited, backing off")
			if err := sleep(ctx, c.rateLimitSleep); err != nil {
				return nil, err
			}
		case status >= 500 && attempt < c.maxAttempts:
			c.log.Debug().Int("status", status).Int("attempt", attempt).
				Msg("transient server error, retrying")
		default:
			return nil, &Error{Status: status, Detail: errorDetail(resBody)}
		}
	}
}

func (c *Client) send(ctx context.Context, method string, url string, header http.Header, body []byte) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, nil, err
	}
	if header != nil {
		req.Header = header
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, err
	}

	return res.StatusCode, data, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
