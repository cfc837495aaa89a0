package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchStatusParsesStringVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/play.buildnchill.vn", r.URL.Path)
		w.Write([]byte(`{"online":true,"players":{"online":12,"max":100},"version":"1.20.4"}`))
	}))
	defer srv.Close()

	c := NewMinecraftStatusClient(srv.URL)
	status, err := c.FetchStatus(context.Background(), "play.buildnchill.vn")
	require.NoError(t, err)

	assert.True(t, status.Online)
	assert.Equal(t, "12", status.Players)
	assert.Equal(t, "100", status.MaxPlayers)
	assert.Equal(t, "1.20.4", status.Version)
}

func TestFetchStatusParsesObjectVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"online":true,"players":{"online":3,"max":50},"version":{"names":{"raw":"Paper 1.20","clean":"1.20"}}}`))
	}))
	defer srv.Close()

	c := NewMinecraftStatusClient(srv.URL)
	status, err := c.FetchStatus(context.Background(), "play.buildnchill.vn")
	require.NoError(t, err)

	assert.Equal(t, "1.20", status.Version)
}

func TestFetchStatusOfflineServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"online":false}`))
	}))
	defer srv.Close()

	c := NewMinecraftStatusClient(srv.URL)
	status, err := c.FetchStatus(context.Background(), "play.buildnchill.vn")
	require.NoError(t, err)

	assert.False(t, status.Online)
	assert.Equal(t, "0", status.Players)
	assert.Empty(t, status.Version)
}

func TestFetchStatusNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewMinecraftStatusClient(srv.URL)
	_, err := c.FetchStatus(context.Background(), "play.buildnchill.vn")
	assert.Error(t, err)
}
