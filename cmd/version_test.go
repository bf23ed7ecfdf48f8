package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestIsOutdated(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"v0.1.0", "v0.2.0", true},
		{"v0.2.0", "v0.2.0", false},
		{"1.10.0", "1.9.9", false},
		{"v1.0.0-rc1", "v1.0.0", true},
	}
	for _, tt := range tests {
		got, err := IsOutdated(tt.current, tt.latest)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.current, tt.latest)
	}

	_, err := IsOutdated("not-a-version", "v1.0.0")
	assert.Error(t, err)
}

func TestCheckForUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v99.0.0"}`))
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	CheckForUpdates(context.Background(), zap.New(core), srv.URL)

	entries := logs.FilterMessage("You are running an outdated version").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "v99.0.0", entries[0].ContextMap()["latest"])
}

func TestCheckForUpdates_FailureIsQuiet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	CheckForUpdates(context.Background(), zap.New(core), srv.URL)

	assert.Zero(t, logs.Len())
}
