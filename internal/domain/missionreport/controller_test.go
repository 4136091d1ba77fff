package missionreport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/cosmo-uplink/pkg/errors"
)

func TestControllerSuccessfulSequence(t *testing.T) {
	gen := NewGenerator(Config{Model: "m"}, &stubChatClient{resp: completion("Sector stable.")}, newTestLogger())
	ctrl := NewController(gen, newTestLogger())
	require.Equal(t, StatusIdle, ctrl.State().Status)

	updates, cancel := ctrl.Subscribe(4)
	defer cancel()

	final, err := ctrl.Start(context.Background(), terraPrime())
	require.NoError(t, err)

	require.Equal(t, []Status{StatusGenerating, StatusReady}, drainStatuses(updates, 2))
	require.Equal(t, StatusReady, final.Status)
	require.Equal(t, "Sector stable.", final.Report)
	require.Equal(t, "TERRA PRIME / SECTOR 7", final.Request.Zone)
	require.Equal(t, final, ctrl.State())
}

func TestControllerFailingSequenceEndsWithSentinel(t *testing.T) {
	gen := NewGenerator(Config{Model: "m"}, &stubChatClient{err: errors.New("quota exceeded")}, newTestLogger())
	ctrl := NewController(gen, newTestLogger())

	updates, cancel := ctrl.Subscribe(4)
	defer cancel()

	final, err := ctrl.Start(context.Background(), terraPrime())
	require.NoError(t, err)
	require.Equal(t, []Status{StatusGenerating, StatusReady}, drainStatuses(updates, 2))
	require.Equal(t, CommunicationErrorText, final.Report)
}

func TestControllerDismissFromReadyYieldsIdle(t *testing.T) {
	ctrl := NewController(fixedGenerator("done"), newTestLogger())
	ready, err := ctrl.Start(context.Background(), terraPrime())
	require.NoError(t, err)

	idle := ctrl.Dismiss()
	require.Equal(t, StatusIdle, idle.Status)
	require.Empty(t, idle.Report)
	require.Nil(t, idle.Request)
	require.Greater(t, idle.Version, ready.Version)
}

func TestControllerRejectsStartWhileGenerating(t *testing.T) {
	gen := newBlockingGenerator()
	ctrl := NewController(gen, newTestLogger())

	state, err := ctrl.StartAsync(context.Background(), terraPrime())
	require.NoError(t, err)
	require.Equal(t, StatusGenerating, state.Status)
	<-gen.started

	_, err = ctrl.Start(context.Background(), terraPrime())
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "report_in_flight"))

	gen.release <- "late report"
	require.Eventually(t, func() bool { return ctrl.State().Status == StatusReady }, time.Second, 5*time.Millisecond)
	require.Equal(t, "late report", ctrl.State().Report)
}

func TestControllerAppliesResultAfterDismissWhileGenerating(t *testing.T) {
	gen := newBlockingGenerator()
	ctrl := NewController(gen, newTestLogger())

	_, err := ctrl.StartAsync(context.Background(), terraPrime())
	require.NoError(t, err)
	<-gen.started

	require.Equal(t, StatusIdle, ctrl.Dismiss().Status)

	gen.release <- "stale but applied"
	require.Eventually(t, func() bool { return ctrl.State().Status == StatusReady }, time.Second, 5*time.Millisecond)
	require.Equal(t, "stale but applied", ctrl.State().Report)
}

func TestControllerStartAsyncSurvivesCallerCancellation(t *testing.T) {
	gen := newBlockingGenerator()
	ctrl := NewController(gen, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	_, err := ctrl.StartAsync(ctx, terraPrime())
	require.NoError(t, err)
	<-gen.started
	cancel()

	require.NoError(t, (<-gen.contexts).Err())
	gen.release <- "delivered"
	require.Eventually(t, func() bool { return ctrl.State().Report == "delivered" }, time.Second, 5*time.Millisecond)
}

func TestControllerAcknowledgeChecksVersion(t *testing.T) {
	ctrl := NewController(fixedGenerator("first"), newTestLogger())
	ready, err := ctrl.Start(context.Background(), terraPrime())
	require.NoError(t, err)

	_, ok := ctrl.Acknowledge(ready.Version + 1)
	require.False(t, ok)
	require.Equal(t, StatusReady, ctrl.State().Status)

	idle, ok := ctrl.Acknowledge(ready.Version)
	require.True(t, ok)
	require.Equal(t, StatusIdle, idle.Status)

	_, ok = ctrl.Acknowledge(ready.Version)
	require.False(t, ok)
}

func TestControllerSlowSubscriberKeepsLatestState(t *testing.T) {
	ctrl := NewController(fixedGenerator("Sector stable."), newTestLogger())
	updates, cancel := ctrl.Subscribe(1)
	defer cancel()

	final, err := ctrl.Start(context.Background(), terraPrime())
	require.NoError(t, err)

	var last State
	for drained := false; !drained; {
		select {
		case st := <-updates:
			last = st
		default:
			drained = true
		}
	}
	require.Equal(t, StatusReady, last.Status)
	require.Equal(t, final.Version, last.Version)
}

func TestControllerStateDoesNotShareCallerMinerals(t *testing.T) {
	ctrl := NewController(fixedGenerator("done"), newTestLogger())
	req := terraPrime()

	final, err := ctrl.Start(context.Background(), req)
	require.NoError(t, err)
	req.Minerals[0] = "Sulfur"

	require.Equal(t, "Nitrogen", final.Request.Minerals[0])
	require.Equal(t, "Nitrogen", ctrl.State().Request.Minerals[0])
}

func TestControllerUnsubscribeClosesChannel(t *testing.T) {
	ctrl := NewController(fixedGenerator("x"), newTestLogger())
	updates, cancel := ctrl.Subscribe(1)
	cancel()
	cancel()

	_, open := <-updates
	require.False(t, open)

	_, err := ctrl.Start(context.Background(), terraPrime())
	require.NoError(t, err)
}

func drainStatuses(ch <-chan State, n int) []Status {
	out := make([]Status, 0, n)
	timeout := time.After(time.Second)
	for len(out) < n {
		select {
		case st := <-ch:
			out = append(out, st.Status)
		case <-timeout:
			return out
		}
	}
	return out
}

type fixedGenerator string

func (f fixedGenerator) Generate(context.Context, ReportRequest) string {
	return string(f)
}

type blockingGenerator struct {
	started  chan struct{}
	release  chan string
	contexts chan context.Context
}

func newBlockingGenerator() *blockingGenerator {
	return &blockingGenerator{
		started:  make(chan struct{}, 1),
		release:  make(chan string),
		contexts: make(chan context.Context, 1),
	}
}

func (b *blockingGenerator) Generate(ctx context.Context, _ ReportRequest) string {
	b.contexts <- ctx
	b.started <- struct{}{}
	return <-b.release
}
