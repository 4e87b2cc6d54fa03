package shutdown_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexshop/jobshop-sim/pkg/shutdown"
)

func TestManualStopTriggersCallbacksOnce(t *testing.T) {
	c := shutdown.New(shutdown.Config{}, zerolog.Nop())

	calls := 0
	c.OnStop(func() { calls++ })
	c.OnStop(func() { calls++ })

	c.Stop("test")
	c.Stop("test again")

	assert.Equal(t, 2, calls)
	assert.True(t, c.IsStopped())

	select {
	case <-c.StopChannel():
	default:
		t.Fatal("expected stop channel to be closed")
	}
}

func TestStopFileTriggersShutdown(t *testing.T) {
	dir := t.TempDir()
	stopFile := filepath.Join(dir, "stop")

	c := shutdown.New(shutdown.Config{
		StopFile:     stopFile,
		PollInterval: 10 * time.Millisecond,
	}, zerolog.Nop())

	stopped := make(chan struct{})
	c.OnStop(func() { close(stopped) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)

	require.NoError(t, c.CreateStopFile())

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("expected stop file to trigger shutdown")
	}

	require.NoError(t, c.RemoveStopFile())
	_, err := os.Stat(stopFile)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveStopFileIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	c := shutdown.New(shutdown.Config{StopFile: filepath.Join(dir, "missing")}, zerolog.Nop())
	assert.NoError(t, c.RemoveStopFile())
}
