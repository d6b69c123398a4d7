package poller

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"solarhub/internal/polllog"
	"solarhub/internal/ratelimit"
)

type stubAdmitter struct {
	decisions map[polllog.Source]ratelimit.Decision
	errs      map[polllog.Source]error
}

func (a *stubAdmitter) Admit(ctx context.Context, source polllog.Source) (ratelimit.Decision, error) {
	if err := a.errs[source]; err != nil {
		return ratelimit.Decision{}, err
	}
	if d, ok := a.decisions[source]; ok {
		return d, nil
	}
	return ratelimit.Decision{Allowed: true}, nil
}

type recordingAppender struct {
	records []polllog.Record
	err     error
}

func (a *recordingAppender) Append(ctx context.Context, record polllog.Record) error {
	if a.err != nil {
		return a.err
	}
	a.records = append(a.records, record)
	return nil
}

type stubSource struct {
	id     polllog.Source
	status int
	err    error
	polls  int
}

func (s *stubSource) ID() polllog.Source { return s.id }

func (s *stubSource) Poll(ctx context.Context) (int, error) {
	s.polls++
	return s.status, s.err
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func discardLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestRunPollsEverySourceAndAppendsRecords(t *testing.T) {
	now := time.Date(2025, 4, 30, 12, 0, 0, 0, time.UTC)
	a := &recordingAppender{}
	s1 := &stubSource{id: polllog.SourceSolax, status: 200}
	s2 := &stubSource{id: polllog.SourceOpenWeather, status: 200}

	o, err := New(&stubAdmitter{}, a, []Source{s1, s2}, discardLogger(), WithClock(fixedClock{now}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s1.polls != 1 || s2.polls != 1 {
		t.Errorf("polls = %d,%d, want 1,1", s1.polls, s2.polls)
	}
	if len(a.records) != 2 {
		t.Fatalf("records = %d, want 2", len(a.records))
	}
	for _, r := range a.records {
		if !r.Succeeded || r.HTTPStatus != 200 || !r.RequestedAt.Equal(now) {
			t.Errorf("unexpected record: %+v", r)
		}
	}
}

func TestRunDeniedSourceSkippedWithoutRecordOthersProceed(t *testing.T) {
	a := &recordingAppender{}
	capped := &stubSource{id: polllog.SourceWeatherbit, status: 200}
	open := &stubSource{id: polllog.SourceOpenWeather, status: 200}

	admitter := &stubAdmitter{decisions: map[polllog.Source]ratelimit.Decision{
		polllog.SourceWeatherbit: {Reason: ratelimit.ReasonDailyLimit},
	}}
	o, _ := New(admitter, a, []Source{capped, open}, discardLogger())
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if capped.polls != 0 {
		t.Errorf("denied source was polled %d times", capped.polls)
	}
	if open.polls != 1 {
		t.Errorf("allowed source polls = %d, want 1", open.polls)
	}
	// A deny must not consume quota.
	if len(a.records) != 1 || a.records[0].Source != polllog.SourceOpenWeather {
		t.Errorf("records = %+v, want only openweather", a.records)
	}
}

func TestRunFailedPollRecordedAndIsolated(t *testing.T) {
	a := &recordingAppender{}
	broken := &stubSource{id: polllog.SourceSolax, status: 502, err: errors.New("bad gateway")}
	healthy := &stubSource{id: polllog.SourceWeatherbit, status: 200}

	o, _ := New(&stubAdmitter{}, a, []Source{broken, healthy}, discardLogger())
	err := o.Run(context.Background())
	if err == nil {
		t.Fatal("expected joined error from failed source")
	}
	if !strings.Contains(err.Error(), "bad gateway") {
		t.Errorf("error should carry the poll failure: %v", err)
	}
	if healthy.polls != 1 {
		t.Errorf("healthy source polls = %d, want 1", healthy.polls)
	}
	if len(a.records) != 2 {
		t.Fatalf("records = %d, want 2", len(a.records))
	}
	if a.records[0].Succeeded || a.records[0].HTTPStatus != 502 {
		t.Errorf("failed attempt record = %+v", a.records[0])
	}
	if !a.records[1].Succeeded {
		t.Errorf("healthy attempt record = %+v", a.records[1])
	}
}

func TestRunTransportFailureRecordedWithStatusZero(t *testing.T) {
	a := &recordingAppender{}
	down := &stubSource{id: polllog.SourceSolax, status: polllog.StatusTransportFailure, err: errors.New("connection refused")}

	o, _ := New(&stubAdmitter{}, a, []Source{down}, discardLogger())
	if err := o.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(a.records) != 1 || a.records[0].HTTPStatus != polllog.StatusTransportFailure {
		t.Errorf("records = %+v", a.records)
	}
}

func TestRunAppendFailureReportedEvenOnSuccess(t *testing.T) {
	a := &recordingAppender{err: errors.New("db gone")}
	src := &stubSource{id: polllog.SourceSolax, status: 200}

	o, _ := New(&stubAdmitter{}, a, []Source{src}, discardLogger())
	err := o.Run(context.Background())
	if err == nil {
		t.Fatal("expected error when the attempt record is lost")
	}
	if !strings.Contains(err.Error(), "append poll record") {
		t.Errorf("error = %v", err)
	}
}

func TestRunAdmitErrorSkipsSourceOthersProceed(t *testing.T) {
	a := &recordingAppender{}
	flaky := &stubSource{id: polllog.SourceSolax}
	healthy := &stubSource{id: polllog.SourceOpenWeather, status: 200}

	admitter := &stubAdmitter{errs: map[polllog.Source]error{
		polllog.SourceSolax: errors.New("history query failed"),
	}}
	o, _ := New(admitter, a, []Source{flaky, healthy}, discardLogger())
	err := o.Run(context.Background())
	if err == nil {
		t.Fatal("expected error from admit failure")
	}
	if flaky.polls != 0 {
		t.Errorf("source with failing admit was polled")
	}
	if healthy.polls != 1 {
		t.Errorf("healthy source polls = %d, want 1", healthy.polls)
	}
}
