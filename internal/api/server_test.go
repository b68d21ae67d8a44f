package api_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timster/go-api/internal/api"
	"github.com/timster/go-api/internal/logging"
)

// syncBuffer guards the log sink against concurrent handler writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServerLifecycleLogsThroughStructuredLogger(t *testing.T) {
	sink := &syncBuffer{}
	logger := logging.NewLoggerWithHandler(slog.NewTextHandler(sink, nil))

	srv := api.NewServer(
		"127.0.0.1:0",
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		time.Second,
		time.Second,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, <-serverErrors, "a graceful shutdown is not a start failure")

	logged := sink.String()
	assert.Contains(t, logged, "server listening")
	assert.Contains(t, logged, "server stopped")
}
