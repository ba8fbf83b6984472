package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ESClient defines the read-only monitoring calls made against an
// Elasticsearch cluster.
type ESClient interface {
	GetClusterHealth(ctx context.Context) (*ClusterHealth, error)
	GetNodeStats(ctx context.Context) (*NodeStatsResponse, error)
	GetNodeInfo(ctx context.Context) (*NodeInfoResponse, error)
	GetCatNodes(ctx context.Context) ([]CatNode, error)
	GetShards(ctx context.Context) ([]CatShard, error)
	GetAllocation(ctx context.Context) ([]CatAllocation, error)
	GetPendingTasks(ctx context.Context) (*PendingTasksResponse, error)
	GetTasks(ctx context.Context) (*TaskListResponse, error)
	GetIndexStats(ctx context.Context) (*IndexStatsResponse, error)
	GetRecovery(ctx context.Context) ([]CatRecovery, error)
	GetHotThreads(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	BaseURL() string
}

// ClientConfig holds configuration for DefaultClient.
type ClientConfig struct {
	BaseURL            string
	Username           string
	Password           string
	InsecureSkipVerify bool
	RequestTimeout     time.Duration
}

// DefaultClient implements ESClient on top of go-elasticsearch.
type DefaultClient struct {
	es     *elasticsearch.Client
	config ClientConfig
}

const maxResponseBytes = 32 * 1024 * 1024

// NewDefaultClient constructs a DefaultClient from the given config.
// It configures TLS skip-verify and request timeout from the config.
// Returns an error if BaseURL is empty.
func NewDefaultClient(cfg ClientConfig) (*DefaultClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}
	transport.ResponseHeaderTimeout = cfg.RequestTimeout

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{cfg.BaseURL},
		Username:     cfg.Username,
		Password:     cfg.Password,
		Transport:    transport,
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	return &DefaultClient{es: es, config: cfg}, nil
}

// BaseURL returns the configured base URL of the Elasticsearch cluster.
func (c *DefaultClient) BaseURL() string {
	return c.config.BaseURL
}

// do runs one esapi call bounded by the request timeout and decodes the JSON
// body into out. Non-2xx responses become errors carrying a body excerpt.
func (c *DefaultClient) do(ctx context.Context, call func(ctx context.Context) (*esapi.Response, error), out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	res, err := call(ctx)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", res.StatusCode, truncate(body, 200))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// text runs one esapi call like do but returns the body as text.
func (c *DefaultClient) text(ctx context.Context, call func(ctx context.Context) (*esapi.Response, error)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	res, err := call(ctx)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if res.IsError() {
		return "", fmt.Errorf("unexpected status %d: %s", res.StatusCode, truncate(body, 200))
	}
	return string(body), nil
}

// Ping checks connectivity by calling the root info endpoint with a 1s timeout.
func (c *DefaultClient) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	return c.do(pingCtx, func(ctx context.Context) (*esapi.Response, error) {
		return c.es.Info(c.es.Info.WithContext(ctx))
	}, nil)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
