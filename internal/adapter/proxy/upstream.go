package proxy

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxUpstreamBody caps how much of an upstream response is read
const maxUpstreamBody = 10 << 20

// fetchJSON forwards one request upstream and returns the raw response
// body. On a non-success status the body and status are logged server-side
// and failErr is returned; upstream error detail never reaches the caller.
func (h *Handler) fetchJSON(c *gin.Context, method, target string, headers map[string]string, failErr error) ([]byte, error) {
	req, err := http.NewRequestWithContext(c.Request.Context(), method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := h.client.Do(req)
	if err != nil {
		h.log.WithError(err).WithField("url", target).Error("upstream request failed")
		return nil, failErr
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxUpstreamBody))
	if err != nil {
		h.log.WithError(err).WithField("url", target).Error("failed to read upstream response")
		return nil, failErr
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		h.log.WithFields(logrus.Fields{
			"url":    target,
			"status": res.StatusCode,
			"body":   string(body),
		}).Error("upstream returned non-success status")
		return nil, failErr
	}

	return body, nil
}
