package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Mimoh123/saleTracker/internal/domain/models"
)

// Notifier delivers sale events to an external endpoint.
type Notifier interface {
	NotifySaleRecorded(ctx context.Context, entry models.SaleEntry) error
}

// Client is a resty-backed Notifier posting JSON events to a configured URL.
type Client struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client for the given endpoint URL.
func NewClient(url string) *Client {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &Client{
		httpClient: restyClient,
		url:        url,
	}
}

type saleRecordedEvent struct {
	Event string           `json:"event"`
	Sale  models.SaleEntry `json:"sale"`
}

// NotifySaleRecorded posts a sale.recorded event. Any non-2xx response is an
// error; the caller decides whether delivery failures matter.
func (c *Client) NotifySaleRecorded(ctx context.Context, entry models.SaleEntry) error {
	payload := saleRecordedEvent{
		Event: "sale.recorded",
		Sale:  entry,
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send sale webhook: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("sale webhook rejected: status=%d, body=%s", resp.StatusCode(), resp.String())
	}

	return nil
}
