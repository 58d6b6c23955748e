// Package httpsink implements the ingest.NotificationSink contract by
// POSTing notification batches as JSON to the external delivery
// collaborator's HTTP endpoint.
package httpsink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/ingest"
	transporthttp "github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/transport/http"

	"github.com/hashicorp/go-retryablehttp"
)

// Sink delivers notification batches over HTTP with retries.
type Sink struct {
	endpoint   string
	httpClient *retryablehttp.Client
}

var _ ingest.NotificationSink = (*Sink)(nil)

// New builds a sink targeting the delivery collaborator's endpoint.
func New(endpoint string, opts ...transporthttp.Option) *Sink {
	return &Sink{
		endpoint:   endpoint,
		httpClient: transporthttp.NewClient(opts...),
	}
}

func (s *Sink) DeliverNotifications(ctx context.Context, notifications []chainhook.Notification) error {
	body, err := json.Marshal(notifications)
	if err != nil {
		return fmt.Errorf("encoding notification batch: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("delivery endpoint returned status %d", res.StatusCode)
	}

	return nil
}
