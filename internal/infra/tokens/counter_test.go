package tokens

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type splitEncoder struct{}

func (splitEncoder) Encode(text string, _, _ []string) []int {
	return make([]int, len(strings.Fields(text)))
}

func TestCountUsesEncoderOnceLoaded(t *testing.T) {
	c := NewCounter("", discardLogger())
	c.load = func(name string) (encoder, error) {
		require.Equal(t, defaultEncoding, name)
		return splitEncoder{}, nil
	}
	c.Warm()
	require.Eventually(t, func() bool {
		return c.Count("wind is calm") == 3
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, 0, c.Count(""))
}

func TestCountFallsBackToEstimate(t *testing.T) {
	c := NewCounter("cl100k_base", discardLogger())
	var calls atomic.Int32
	c.load = func(string) (encoder, error) {
		calls.Add(1)
		return nil, errors.New("offline")
	}
	require.Equal(t, 4, c.Count("radiation µSv"))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, 1, c.Count("abcd"))
	require.Equal(t, int32(1), calls.Load())
}

func TestCountDoesNotWaitForSlowLoad(t *testing.T) {
	c := NewCounter("", discardLogger())
	release := make(chan struct{})
	c.load = func(string) (encoder, error) {
		<-release
		return splitEncoder{}, nil
	}
	defer close(release)

	done := make(chan int, 1)
	go func() { done <- c.Count("dust storm rising") }()

	select {
	case n := <-done:
		require.Equal(t, 5, n)
	case <-time.After(time.Second):
		t.Fatal("Count blocked on encoding load")
	}
	require.Equal(t, 1, c.Count("abcd"))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
