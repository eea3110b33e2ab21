package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ShieldDesk/go-api/shield"
	"github.com/ShieldDesk/go-api/shield/events"
	"github.com/ShieldDesk/go-api/shield/metrics"
	"github.com/ShieldDesk/go-api/shield/score"
	"github.com/ShieldDesk/go-api/shield/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	input    score.Input
	failures int
	calls    int
	asOf     time.Time
}

func (f *fakeSource) LoadSnapshot(_ context.Context, _ string, asOf time.Time) (score.Input, error) {
	f.calls++
	f.asOf = asOf
	if f.calls <= f.failures {
		return score.Input{}, errors.New("database unavailable")
	}
	in := f.input
	in.AsOf = asOf
	return in, nil
}

type fakeSink struct {
	mu       sync.Mutex
	saved    []*store.ScoreSnapshot
	failures int
	calls    int
}

func (f *fakeSink) SaveScore(_ context.Context, snap *store.ScoreSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return errors.New("write failed")
	}
	f.saved = append(f.saved, snap)
	return nil
}

type fakePrevious struct {
	score int
	ok    bool
	err   error
}

func (f fakePrevious) LatestOverall(context.Context, string) (int, bool, error) {
	return f.score, f.ok, f.err
}

type fakePublisher struct {
	mu       sync.Mutex
	messages map[string][]string
	err      error
}

func (f *fakePublisher) Send(qName, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.messages == nil {
		f.messages = make(map[string][]string)
	}
	f.messages[qName] = append(f.messages[qName], message)
	return nil
}

// halfMFA scores 65: MFA 12.5, agents 20, breach 20, training 3, simulation 7.5, password 2.
func halfMFA(now time.Time) score.Input {
	employees := make([]shield.Employee, 10)
	for i := range employees {
		employees[i] = shield.Employee{
			ID:                  string(rune('a' + i)),
			MFAEnabled:          i < 5,
			PasswordLastChanged: now.AddDate(0, 0, -200),
		}
	}
	employees[0].PasswordLastChanged = now.AddDate(0, 0, -5)
	employees[1].PasswordLastChanged = now.AddDate(0, 0, -5)

	return score.Input{
		Employees:   employees,
		Devices:     []shield.Device{{ID: "d1", AgentStatus: shield.AgentOnline}},
		Simulations: []shield.Simulation{{ID: "s1", Metrics: shield.SimulationMetrics{ClickRate: 25}}},
		TrainingAssignments: []shield.TrainingAssignment{
			{ID: "t1", EmployeeID: "a", Status: shield.TrainingCompleted},
			{ID: "t2", EmployeeID: "b", Status: shield.TrainingCompleted},
		},
		TotalEmployees: 10,
		TotalDevices:   1,
	}
}

func newJob(now time.Time) (*ScoreJob, *fakeSource, *fakeSink, *fakePublisher) {
	source := &fakeSource{input: halfMFA(now)}
	sink := &fakeSink{}
	pub := &fakePublisher{}
	job := &ScoreJob{
		Source:     source,
		Sinks:      []ResultSink{sink},
		Previous:   fakePrevious{score: 70, ok: true},
		Publisher:  pub,
		EventQueue: "security-score-events",
		Metrics:    metrics.NewRecorder(),
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
		Now:        func() time.Time { return now },
	}
	return job, source, sink, pub
}

func TestScoreJobHandle(t *testing.T) {
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	job, source, sink, pub := newJob(now)

	err := job.Handle(context.Background(), `{"organization_id":"org-1"}`)
	require.NoError(t, err)

	assert.Equal(t, now, source.asOf)
	require.Len(t, sink.saved, 1)
	snap := sink.saved[0]
	assert.Equal(t, "org-1", snap.OrganizationID)
	assert.Equal(t, 65, snap.Result.OverallScore)
	assert.Equal(t, score.RiskLow, snap.Result.RiskLevel)
	assert.Equal(t, 10, snap.Metadata.TotalEmployees)
	assert.Equal(t, 1, snap.Metadata.SimulationCount)

	require.Len(t, pub.messages["security-score-events"], 1)
	var event events.ScoreEvent
	require.NoError(t, json.Unmarshal([]byte(pub.messages["security-score-events"][0]), &event))
	assert.Equal(t, events.EventTypeScoreCalculated, event.EventType)
	assert.Equal(t, score.Declining, event.Movement.Direction)
	assert.Equal(t, 3, event.RecommendationCount)

	series, err := testutil.GatherAndCount(job.Metrics.Registry(), "shield_security_score")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}

func TestScoreJobRejectsMalformedMessage(t *testing.T) {
	job, source, sink, _ := newJob(time.Now())

	err := job.Handle(context.Background(), `{"org":"missing"}`)

	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, source.calls, "malformed messages are not retried")
	assert.Empty(t, sink.saved)
}

func TestScoreJobRetriesTransientFailures(t *testing.T) {
	job, source, sink, _ := newJob(time.Now())
	source.failures = 2
	sink.failures = 1

	_, err := job.Run(context.Background(), "org-1")
	require.NoError(t, err)

	assert.Equal(t, 3, source.calls)
	assert.Equal(t, 2, sink.calls)
	assert.Len(t, sink.saved, 1)
}

func TestScoreJobGivesUpAfterMaxRetries(t *testing.T) {
	job, source, sink, pub := newJob(time.Now())
	source.failures = 10

	err := job.Handle(context.Background(), `{"organization_id":"org-1"}`)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, 3, source.calls)
	assert.Empty(t, sink.saved)
	assert.Empty(t, pub.messages)
}

func TestScoreJobStopsOnCancelledContext(t *testing.T) {
	job, source, _, _ := newJob(time.Now())
	source.failures = 10
	job.RetryDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := job.Run(ctx, "org-1")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, source.calls)
}

func TestScoreJobFirstRunAndPublishFailure(t *testing.T) {
	job, _, sink, pub := newJob(time.Now())
	job.Previous = fakePrevious{err: errors.New("cache down")}
	pub.err = errors.New("broker down")

	snap, err := job.Run(context.Background(), "org-1")

	require.NoError(t, err, "publishing is best effort")
	assert.Len(t, sink.saved, 1)
	assert.Equal(t, 65, snap.Result.OverallScore)
}

func TestScoreJobWritesEverySink(t *testing.T) {
	job, _, first, _ := newJob(time.Now())
	second := &fakeSink{}
	job.Sinks = append(job.Sinks, second)
	job.Previous = nil
	job.Publisher = nil
	job.Metrics = nil

	_, err := job.Run(context.Background(), "org-2")
	require.NoError(t, err)

	assert.Len(t, first.saved, 1)
	assert.Len(t, second.saved, 1)
	assert.Same(t, first.saved[0], second.saved[0])
}

func TestRetryDoublesDelay(t *testing.T) {
	calls := 0
	start := time.Now()
	err := retry(context.Background(), 3, 5*time.Millisecond, "flaky", func() error {
		calls++
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}
