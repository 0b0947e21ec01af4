package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// ErrUnavailable is returned when no discovery service produced an address.
var ErrUnavailable = errors.New("external IP unavailable")

// Resolver discovers the public IP through a primary service and falls back
// to a secondary one.
type Resolver struct {
	network  string
	services [2]string
	client   *resty.Client
	logger   *log.Entry
}

func New(network string, primary string, secondary string, timeout time.Duration, logger *log.Entry) *Resolver {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Cache-Control", "no-cache").
		SetHeader("Accept", "text/plain").
		SetLogger(logger)

	return &Resolver{
		network:  network,
		services: [2]string{primary, secondary},
		client:   client,
		logger:   logger,
	}
}

// Resolve returns the canonical text form of the current public IP.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	var errs []error
	for _, service := range r.services {
		ip, err := r.lookup(ctx, service)
		if err != nil {
			r.logger.Warnf("[%s] %v", service, err)
			errs = append(errs, err)
			continue
		}

		r.logger.Debugf("[%s] got IP %s", service, ip)
		return ip, nil
	}

	return "", fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}

func (r *Resolver) lookup(ctx context.Context, service string) (string, error) {
	resp, err := r.client.R().SetContext(ctx).Get(service)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("request returned %s", resp.Status())
	}

	return parseAddr(r.network, resp.String())
}

// parseAddr validates the first line of body as an address of the family
// selected by network.
func parseAddr(network string, body string) (string, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(body), "\n")
	line = strings.TrimSpace(line)

	addr, err := netip.ParseAddr(line)
	if err != nil {
		return "", fmt.Errorf("invalid IP in response %q: %w", truncate(line, 64), err)
	}
	if addr.Zone() != "" {
		return "", fmt.Errorf("unexpected zone in IP %s", addr)
	}

	switch network {
	case "tcp4":
		if addr.Is4In6() {
			addr = addr.Unmap()
		}
		if !addr.Is4() {
			return "", fmt.Errorf("got %s, want an IPv4 address", addr)
		}
	case "tcp6":
		if !addr.Is6() || addr.Is4In6() {
			return "", fmt.Errorf("got %s, want an IPv6 address", addr)
		}
	default:
		return "", fmt.Errorf("unsupported network %q", network)
	}

	return addr.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
