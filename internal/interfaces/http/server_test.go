package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/fra-monitor/internal/config"
)

func TestNewServer_Defaults(t *testing.T) {
	s := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 8080}, http.NotFoundHandler(), nil)

	assert.Equal(t, "127.0.0.1:8080", s.Addr())
	assert.Equal(t, defaultReadTimeout, s.httpServer.ReadTimeout)
	assert.Equal(t, defaultWriteTimeout, s.httpServer.WriteTimeout)
	assert.Equal(t, defaultShutdownTimeout, s.shutdownTimeout)
}

func TestServer_ServeAndGracefulStop(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	s := NewServer(config.ServerConfig{ShutdownTimeout: time.Second}, handler, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

//Personal.AI order the ending
