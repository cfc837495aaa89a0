package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMessageReturnsMessageID(t *testing.T) {
	var gotPayload webhookPayload
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		json.NewEncoder(w).Encode(map[string]string{"id": "123456789"})
	}))
	defer srv.Close()

	c := NewDiscordClient(srv.URL)
	id, err := c.CreateMessage(context.Background(), "hello", &Embed{Title: "Đơn hàng mới"})
	require.NoError(t, err)

	assert.Equal(t, "123456789", id)
	assert.Equal(t, "wait=true", gotQuery)
	assert.Equal(t, "hello", gotPayload.Content)
	require.Len(t, gotPayload.Embeds, 1)
	assert.Equal(t, "Đơn hàng mới", gotPayload.Embeds[0].Title)
}

func TestCreateMessageReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Invalid Webhook Token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewDiscordClient(srv.URL)
	_, err := c.CreateMessage(context.Background(), "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestEditMessageTargetsMessagePath(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewDiscordClient(srv.URL)
	require.NoError(t, c.EditMessage(context.Background(), "42", "", &Embed{Title: "updated"}))

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/messages/42", gotPath)
}

func TestDeleteMessageTargetsMessagePath(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewDiscordClient(srv.URL)
	require.NoError(t, c.DeleteMessage(context.Background(), "42"))

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/messages/42", gotPath)
}

func TestEmptyWebhookURLDisablesClient(t *testing.T) {
	c := NewDiscordClient("")

	id, err := c.CreateMessage(context.Background(), "ignored", nil)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.NoError(t, c.EditMessage(context.Background(), "42", "", nil))
	assert.NoError(t, c.DeleteMessage(context.Background(), "42"))
}
