package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPServer_StartAndStop(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	// pick a free port first
	probe := NewPlainListener()
	ln, err := probe.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	srv := NewHTTPServer(handler, addr)
	assert.Equal(t, addr, srv.Address())

	done := make(chan error, 1)
	go func() {
		done <- srv.Start(NewPlainListener())
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://%s/", addr))
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, <-done)
}

func TestHTTPServer_Start_ListenError(t *testing.T) {
	srv := NewHTTPServer(http.NotFoundHandler(), "invalid-address")

	err := srv.Start(NewPlainListener())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
