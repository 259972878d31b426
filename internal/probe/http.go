package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/loandecision/pkg/logger"
)

// headerRequestID matches the header the service echoes back.
const headerRequestID = "X-Request-ID"

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request tagged with requestID.
func (c *HTTPClient) Get(ctx context.Context, target, requestID string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if requestID != "" {
		req.Header.Set(headerRequestID, requestID)
	}
	return c.client.Do(req)
}

// decisionURL renders the decision endpoint URL for c.
func decisionURL(baseURL string, c Case) string {
	q := url.Values{}
	q.Set("personalCode", c.PersonalCode)
	q.Set("loanAmount", strconv.Itoa(c.Amount))
	q.Set("loanPeriod", strconv.Itoa(c.Period))
	return baseURL + "/api/loan/decision?" + q.Encode()
}

// submitCases fires every case at the service with at most cfg.Workers
// requests in flight and compares each reply with its expectation.
func submitCases(ctx context.Context, cfg *Config, cases []Case, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "submitting cases", logger.Int("cases", len(cases)), logger.Int("workers", cfg.Workers))

	client := newHTTPClient(cfg.Timeout)

	var (
		submitted  atomic.Int64
		matched    atomic.Int64
		mismatched atomic.Int64
		failed     atomic.Int64

		mu         sync.Mutex
		mismatches []Case
	)
	keep := func(c Case) {
		mu.Lock()
		defer mu.Unlock()
		if len(mismatches) < maxKeptMismatches {
			mismatches = append(mismatches, c)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))

	for i := range cases {
		c := cases[i]
		g.Go(func() error {
			c.SentAt = time.Now()
			reply, err := submitSingleCase(gctx, client, cfg.BaseURL, c)
			submitted.Add(1)
			switch {
			case err != nil:
				failed.Add(1)
				c.Error = err.Error()
				keep(c)
				if cfg.Verbose {
					log.Warn(gctx, "request failed", logger.String("requestId", c.RequestID), logger.Error(err))
				}
			case reply.equal(c.Expected):
				matched.Add(1)
			default:
				mismatched.Add(1)
				c.Actual = &reply
				keep(c)
				if cfg.Verbose {
					log.Warn(gctx, "decision mismatch",
						logger.String("requestId", c.RequestID),
						logger.String("personalCode", c.PersonalCode),
						logger.Int("amount", c.Amount),
						logger.Int("period", c.Period),
						logger.Any("expected", c.Expected),
						logger.Any("actual", reply))
				}
			}
			// Transport failures are counted, not fatal.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	stats.Submitted = int(submitted.Load())
	stats.Matched = int(matched.Load())
	stats.Mismatched = int(mismatched.Load())
	stats.Failed = int(failed.Load())
	stats.Mismatches = mismatches

	log.Info(ctx, "case submission completed",
		logger.Int("matched", stats.Matched),
		logger.Int("mismatched", stats.Mismatched),
		logger.Int("failed", stats.Failed))
	return ctx.Err()
}

// submitSingleCase sends one request and reduces the answer to a Reply.
func submitSingleCase(ctx context.Context, client *HTTPClient, baseURL string, c Case) (Reply, error) {
	resp, err := client.Get(ctx, decisionURL(baseURL, c), c.RequestID)
	if err != nil {
		return Reply{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, fmt.Errorf("read body: %w", err)
	}

	reply := Reply{Status: resp.StatusCode}
	if resp.StatusCode == http.StatusOK {
		var d DecisionBody
		if err := json.Unmarshal(body, &d); err != nil {
			return Reply{}, fmt.Errorf("decode decision: %w", err)
		}
		reply.Decision = &d
	} else if len(body) > 0 {
		return Reply{}, fmt.Errorf("status %d with non-empty body", resp.StatusCode)
	}
	return reply, nil
}

func (r Reply) equal(o Reply) bool {
	if r.Status != o.Status {
		return false
	}
	if r.Decision == nil || o.Decision == nil {
		return r.Decision == o.Decision
	}
	return *r.Decision == *o.Decision
}
