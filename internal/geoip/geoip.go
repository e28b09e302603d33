// Package geoip resolves a client IP to a readable location through an HTTP
// whois service that answers with GBK encoded JSON.
package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/metrics"
)

const (
	Unknown      = "未知"
	LocalNetwork = "内网IP"

	breakerName  = "geoip"
	maxBodyBytes = 64 << 10
)

var errEmptyAddr = errors.New("geoip: response has no addr")

// Locator is satisfied by Client and by test fakes.
type Locator interface {
	Locate(ctx context.Context, ip string) string
}

type Client struct {
	enabled bool
	url     string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[string]
	logger  *slog.Logger
}

// NewClient builds a lookup client. The breaker opens after five consecutive
// failures and probes again after thirty seconds.
func NewClient(cfg internal.GeoIPConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	c := &Client{
		enabled: cfg.Enabled && cfg.URL != "",
		url:     cfg.URL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
	c.cb = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return c
}

// Locate never fails: lookups that cannot be answered yield Unknown.
func (c *Client) Locate(ctx context.Context, ip string) string {
	if !c.enabled {
		return Unknown
	}

	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return Unknown
	}
	if isLocal(parsed) {
		metrics.RecordGeoIPLookup("local")
		return LocalNetwork
	}

	addr, err := c.cb.Execute(func() (string, error) {
		return c.fetch(ctx, parsed.String())
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "open"
		}
		metrics.RecordGeoIPLookup(outcome)
		c.logger.Warn("ip location lookup failed", "ip", ip, "error", err)
		return Unknown
	}

	metrics.RecordGeoIPLookup("ok")
	return addr
}

func (c *Client) fetch(ctx context.Context, ip string) (string, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return "", fmt.Errorf("parse geoip url: %w", err)
	}
	q := u.Query()
	q.Set("ip", ip)
	q.Set("json", "true")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geoip: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	body, err := simplifiedchinese.GBK.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode gbk body: %w", err)
	}

	var out struct {
		Addr string `json:"addr"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode geoip response: %w", err)
	}
	addr := strings.TrimSpace(out.Addr)
	if addr == "" {
		return "", errEmptyAddr
	}
	return addr, nil
}

func isLocal(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
