package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"

	"github.com/Septrum101/route53ddns/app/resolver"
	"github.com/Septrum101/route53ddns/app/store"
	"github.com/Septrum101/route53ddns/app/target"
)

type fakeResolver struct {
	ip    string
	err   error
	calls int
}

func (f *fakeResolver) Resolve(context.Context) (string, error) {
	f.calls++
	return f.ip, f.err
}

type upsertCall struct {
	zoneID, domain, recordType, ip string
}

type fakeDdns struct {
	calls []upsertCall
	fail  map[string]error
}

func (f *fakeDdns) UpsertRecord(_ context.Context, zoneID string, domain string, recordType string, ipAddr string) (string, error) {
	f.calls = append(f.calls, upsertCall{zoneID, domain, recordType, ipAddr})
	if err := f.fail[domain]; err != nil {
		return "", err
	}
	return fmt.Sprintf("/change/C%d", len(f.calls)), nil
}

// countingStore records writes on top of the real file store.
type countingStore struct {
	*store.Store
	writes int
}

func (c *countingStore) Write(ip string) error {
	c.writes++
	return c.Store.Write(ip)
}

type fakeNotifier struct {
	titles   []string
	contents []string
	err      error
}

func (f *fakeNotifier) Webhook(title string, content string) error {
	f.titles = append(f.titles, title)
	f.contents = append(f.contents, content)
	return f.err
}

type fixture struct {
	resolver *fakeResolver
	store    *countingStore
	ddns     *fakeDdns
	hook     *test.Hook
	service  *Service
}

func newFixture(t *testing.T, targets string) *fixture {
	l, hook := test.NewNullLogger()
	l.SetLevel(log.DebugLevel)

	f := &fixture{
		resolver: &fakeResolver{ip: "203.0.113.5"},
		store:    &countingStore{Store: store.New(afero.NewMemMapFs(), "/var/lib/ddns/ip")},
		ddns:     &fakeDdns{fail: map[string]error{}},
		hook:     hook,
	}
	f.service = &Service{
		Resolver:   f.resolver,
		Store:      f.store,
		DdnsClient: f.ddns,
		Targets:    target.Parse(targets, l),
		RecordType: "A",
		Logger:     log.NewEntry(l),
	}
	return f
}

func (f *fixture) storedIP(t *testing.T) string {
	t.Helper()
	ip, err := f.store.Read()
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	return ip
}

func (f *fixture) count(level log.Level) int {
	n := 0
	for _, e := range f.hook.AllEntries() {
		if e.Level == level {
			n++
		}
	}
	return n
}

func TestRunFirstRun(t *testing.T) {
	f := newFixture(t, "Z1:example.com")

	r := f.service.Run(context.Background())

	if len(f.ddns.calls) != 1 {
		t.Fatalf("expected one update call, got %d", len(f.ddns.calls))
	}
	if want := (upsertCall{"Z1", "example.com", "A", "203.0.113.5"}); f.ddns.calls[0] != want {
		t.Errorf("call: got %+v, want %+v", f.ddns.calls[0], want)
	}
	if ip := f.storedIP(t); ip != "203.0.113.5" {
		t.Errorf("stored IP: got %q", ip)
	}
	if !r.Changed || r.Stored != "" || r.Current != "203.0.113.5" || r.Succeeded() != 1 {
		t.Errorf("unexpected report: %+v", r)
	}
}

func TestRunUnchanged(t *testing.T) {
	f := newFixture(t, "Z1:example.com|Z2:example2.com")
	if err := f.store.Store.Write("203.0.113.5"); err != nil {
		t.Fatal(err)
	}

	r := f.service.Run(context.Background())

	if len(f.ddns.calls) != 0 {
		t.Errorf("no update expected, got %d calls", len(f.ddns.calls))
	}
	if f.store.writes != 0 {
		t.Errorf("store should not be rewritten, got %d writes", f.store.writes)
	}
	if r.Changed {
		t.Error("report should not be marked changed")
	}
	if !strings.Contains(f.hook.LastEntry().Message, "unchanged") {
		t.Errorf("last log: %q", f.hook.LastEntry().Message)
	}
}

func TestRunChanged(t *testing.T) {
	f := newFixture(t, "Z1:example.com|Z2:example2.com|Z3:example3.com")
	if err := f.store.Store.Write("192.0.2.1"); err != nil {
		t.Fatal(err)
	}

	r := f.service.Run(context.Background())

	if len(f.ddns.calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(f.ddns.calls))
	}
	for i, domain := range []string{"example.com", "example2.com", "example3.com"} {
		if f.ddns.calls[i].domain != domain || f.ddns.calls[i].ip != "203.0.113.5" {
			t.Errorf("call %d: %+v", i, f.ddns.calls[i])
		}
	}
	if f.store.writes != 1 {
		t.Errorf("expected a single store write, got %d", f.store.writes)
	}
	if ip := f.storedIP(t); ip != "203.0.113.5" {
		t.Errorf("stored IP: got %q", ip)
	}
	if r.Stored != "192.0.2.1" {
		t.Errorf("report stored IP: got %q", r.Stored)
	}
}

func TestRunResolverUnavailable(t *testing.T) {
	f := newFixture(t, "Z1:example.com")
	f.resolver.err = fmt.Errorf("%w: both failed", resolver.ErrUnavailable)
	f.resolver.ip = ""

	r := f.service.Run(context.Background())

	if len(f.ddns.calls) != 0 || f.store.writes != 0 {
		t.Errorf("no side effects expected: calls=%d writes=%d", len(f.ddns.calls), f.store.writes)
	}
	if _, err := f.store.Read(); !errors.Is(err, store.ErrAbsent) {
		t.Errorf("store should stay absent, got %v", err)
	}
	if r.Changed || r.Current != "" {
		t.Errorf("unexpected report: %+v", r)
	}
	if f.count(log.ErrorLevel) != 1 {
		t.Errorf("expected one error log, got %d", f.count(log.ErrorLevel))
	}
}

func TestRunPartialFailure(t *testing.T) {
	f := newFixture(t, "Z1:example.com|Z2:example2.com")
	if err := f.store.Store.Write("192.0.2.1"); err != nil {
		t.Fatal(err)
	}
	f.ddns.fail["example.com"] = errors.New("Throttling: Rate exceeded")

	r := f.service.Run(context.Background())

	if len(f.ddns.calls) != 2 {
		t.Fatalf("second target must still be attempted, got %d calls", len(f.ddns.calls))
	}
	if ip := f.storedIP(t); ip != "203.0.113.5" {
		t.Errorf("stored IP: got %q", ip)
	}
	if r.Succeeded() != 1 || r.Failed() != 1 {
		t.Errorf("results: %+v", r.Results)
	}
	if r.Results[0].Err == nil || r.Results[1].ChangeID == "" {
		t.Errorf("results out of order: %+v", r.Results)
	}
	if f.count(log.ErrorLevel) != 1 {
		t.Errorf("expected one error log, got %d", f.count(log.ErrorLevel))
	}
}

func TestRunAllFailed(t *testing.T) {
	f := newFixture(t, "Z1:example.com|Z2:example2.com")
	if err := f.store.Store.Write("192.0.2.1"); err != nil {
		t.Fatal(err)
	}
	f.ddns.fail["example.com"] = errors.New("AccessDenied")
	f.ddns.fail["example2.com"] = errors.New("NoSuchHostedZone")

	r := f.service.Run(context.Background())

	if len(f.ddns.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(f.ddns.calls))
	}
	if f.store.writes != 0 {
		t.Errorf("store must keep the old value, got %d writes", f.store.writes)
	}
	if ip := f.storedIP(t); ip != "192.0.2.1" {
		t.Errorf("stored IP: got %q", ip)
	}
	if r.Failed() != 2 {
		t.Errorf("results: %+v", r.Results)
	}
}

func TestRunMalformedTargets(t *testing.T) {
	f := newFixture(t, "Z1example.com|Z2:example2.com:x")

	r := f.service.Run(context.Background())

	if len(f.ddns.calls) != 0 || f.store.writes != 0 {
		t.Errorf("nothing to do expected: calls=%d writes=%d", len(f.ddns.calls), f.store.writes)
	}
	if !r.Changed {
		t.Error("IP differs from the absent stored value")
	}
	// two skipped pairs plus the no-target warning
	if f.count(log.WarnLevel) != 3 {
		t.Errorf("expected 3 warnings, got %d", f.count(log.WarnLevel))
	}
}

type brokenStore struct {
	readErr  error
	writeErr error
	written  []string
}

func (b *brokenStore) Read() (string, error) { return "", b.readErr }

func (b *brokenStore) Write(ip string) error {
	b.written = append(b.written, ip)
	return b.writeErr
}

func TestRunStoreReadFailure(t *testing.T) {
	f := newFixture(t, "Z1:example.com")
	bs := &brokenStore{readErr: &os.PathError{Op: "open", Path: "/ip", Err: os.ErrPermission}}
	f.service.Store = bs

	f.service.Run(context.Background())

	if len(f.ddns.calls) != 1 {
		t.Errorf("unreadable state must be treated as changed, got %d calls", len(f.ddns.calls))
	}
	if len(bs.written) != 1 || bs.written[0] != "203.0.113.5" {
		t.Errorf("writes: %v", bs.written)
	}
}

func TestRunStoreWriteFailure(t *testing.T) {
	f := newFixture(t, "Z1:example.com")
	bs := &brokenStore{readErr: store.ErrAbsent, writeErr: errors.New("disk full")}
	f.service.Store = bs
	n := &fakeNotifier{}
	f.service.Notifier = n

	r := f.service.Run(context.Background())

	if r.StoreErr == nil {
		t.Error("store error should be reported")
	}
	if r.Succeeded() != 1 {
		t.Errorf("update should still count as applied: %+v", r.Results)
	}
	if len(n.titles) != 1 {
		t.Errorf("DNS changed, a notification is expected, got %d", len(n.titles))
	}
}

func TestRunNotify(t *testing.T) {
	f := newFixture(t, "Z1:example.com|Z2:example2.com")
	f.ddns.fail["example2.com"] = errors.New("InvalidChangeBatch")
	n := &fakeNotifier{err: errors.New("webhook down")}
	f.service.Notifier = n

	f.service.Run(context.Background())

	if len(n.contents) != 1 {
		t.Fatalf("expected one notification, got %d", len(n.contents))
	}
	content := n.contents[0]
	for _, want := range []string{"unknown -> 203.0.113.5", "Z1:example.com: /change/C1", "Z2:example2.com: failed"} {
		if !strings.Contains(content, want) {
			t.Errorf("notification lacks %q:\n%s", want, content)
		}
	}
	if ip := f.storedIP(t); ip != "203.0.113.5" {
		t.Errorf("notification failure must not affect the store, got %q", ip)
	}

	// unchanged pass does not notify
	f.service.Run(context.Background())
	if len(n.contents) != 1 {
		t.Errorf("unchanged pass should not notify, got %d", len(n.contents))
	}
}
