// Package jsonbin fetches the latest version of a JSONBin bin as a list of flat records.
package jsonbin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/context/ctxhttp"

	"github.com/mediaops/jsonbin-sheets/metrics"
)

const DefaultURL = "https://api.jsonbin.io/v3"
const DefaultTimeout = 30 * time.Second

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Bin        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("JSONBin request for bin %v failed (%v)", e.Bin, e.Status)
}

type Client struct {
	url     string
	key     string
	client  *http.Client
	metrics *metrics.Metrics
}

// NewClient returns a client for the JSONBin v3 API at base (DefaultURL if empty). The
// timeout bounds each request including reading the body.
func NewClient(base, key string, timeout time.Duration, m *metrics.Metrics) *Client {
	if base == "" {
		base = DefaultURL
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		url: base,
		key: key,
		client: &http.Client{
			Timeout: timeout,
		},
		metrics: m,
	}
}

// Fetch returns the records of the latest version of the bin. The bin must hold a JSON
// array of objects; a null or missing body yields no records.
func (c *Client) Fetch(ctx context.Context, bin string) ([]map[string]any, error) {
	uri := fmt.Sprintf("%v/b/%v/latest?meta=false", c.url, url.PathEscape(bin))

	rq, err := http.NewRequest(http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONBin request for bin %v (%w)", bin, err)
	}

	rq.Header.Set("X-Access-Key", c.key)
	rq.Header.Set("Accept", "application/json")

	c.metrics.Request("jsonbin", "get")

	response, err := ctxhttp.Do(ctx, c.client, rq)
	if err != nil {
		return nil, fmt.Errorf("JSONBin request for bin %v failed (%w)", bin, err)
	}

	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &StatusError{
			Bin:        bin,
			StatusCode: response.StatusCode,
			Status:     response.Status,
		}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading JSONBin response for bin %v (%w)", bin, err)
	}

	return decode(bin, body)
}

func decode(bin string, body []byte) ([]map[string]any, error) {
	records := []map[string]any{}

	if len(bytes.TrimSpace(body)) == 0 {
		return records, nil
	}

	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("invalid JSONBin response for bin %v - expected an array of records (%w)", bin, err)
	}

	// a JSON null unmarshals into a nil slice
	if records == nil {
		records = []map[string]any{}
	}

	return records, nil
}
