package controller

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Septrum101/route53ddns/app/target"
	"github.com/Septrum101/route53ddns/common/ddns"
	"github.com/Septrum101/route53ddns/common/notify"
)

type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

type Store interface {
	Read() (string, error)
	Write(ip string) error
}

type Service struct {
	Resolver   Resolver
	Store      Store
	DdnsClient ddns.Client
	Notifier   notify.Notify
	Targets    []target.Target
	RecordType string
	Logger     *log.Entry
}

// Result is the outcome of one target update.
type Result struct {
	Target   target.Target
	ChangeID string
	Err      error
}

// Report describes one pass. Stored is empty when no previous IP was known.
type Report struct {
	Current  string
	Stored   string
	Changed  bool
	Results  []Result
	StoreErr error
}

func (r *Report) Succeeded() int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Err == nil {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "IP changed: %s -> %s\n", displayIP(r.Stored), r.Current)
	for _, res := range r.Results {
		if res.Err != nil {
			fmt.Fprintf(&b, "%s: failed, %v\n", res.Target, res.Err)
		} else {
			fmt.Fprintf(&b, "%s: %s\n", res.Target, res.ChangeID)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func displayIP(ip string) string {
	if ip == "" {
		return "unknown"
	}
	return ip
}
