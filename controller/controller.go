package controller

import (
	"context"
	"errors"

	"github.com/Septrum101/route53ddns/app/store"
)

// Run performs one check-and-update pass. Failures are logged and reflected
// in the report, never returned.
func (s *Service) Run(ctx context.Context) *Report {
	r := &Report{}

	current, err := s.Resolver.Resolve(ctx)
	if err != nil {
		s.Logger.Errorf("Cannot get external IP: %v", err)
		return r
	}
	r.Current = current

	stored, err := s.Store.Read()
	switch {
	case errors.Is(err, store.ErrAbsent):
		s.Logger.Info("No stored IP found")
	case err != nil:
		s.Logger.Errorf("Error reading IP from file: %v", err)
	default:
		r.Stored = stored
	}

	if r.Stored != "" && r.Stored == current {
		s.Logger.Infof("IP unchanged: %s", current)
		return r
	}
	r.Changed = true

	if len(s.Targets) == 0 {
		s.Logger.Warnf("IP is now %s but there are no valid targets to update", current)
		return r
	}

	for _, t := range s.Targets {
		entry := s.Logger.WithField("target", t.String())
		id, err := s.DdnsClient.UpsertRecord(ctx, t.ZoneID, t.Domain, s.RecordType, current)
		r.Results = append(r.Results, Result{Target: t, ChangeID: id, Err: err})
		if err != nil {
			entry.Errorf("Error updating %s -> %s: %v", t, current, err)
			continue
		}
		entry.Infof("Updated %s -> %s: %s", t, current, id)
	}

	// the record is written once, after every target has been attempted
	if r.Succeeded() == 0 {
		s.Logger.Errorf("All %d updates failed, keeping stored IP %s", len(r.Results), displayIP(r.Stored))
		return r
	}
	if err := s.Store.Write(current); err != nil {
		r.StoreErr = err
		s.Logger.Errorf("Failed to update IP file: %v", err)
	} else {
		s.Logger.Infof("IP updated from %s to %s", displayIP(r.Stored), current)
	}

	s.pushMessage(r)
	return r
}

func (s *Service) pushMessage(r *Report) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Webhook("IP changed", r.Summary()); err != nil {
		s.Logger.Errorf("Push message failure: %v", err)
		return
	}
	s.Logger.Debug("Push message success")
}
