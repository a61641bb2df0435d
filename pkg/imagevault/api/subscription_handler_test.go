package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imagevault/imagevault/pkg/imagevault"
	"github.com/imagevault/imagevault/pkg/imagevault/api"
	memorynotify "github.com/imagevault/imagevault/pkg/imagevault/notify/memory"
)

func setupSubscriptionServer(t *testing.T) (*httptest.Server, *memorynotify.Notifier) {
	t.Helper()

	notifier := memorynotify.New()
	manager := imagevault.NewSubscriptionManager(notifier)

	server := httptest.NewServer(api.NewSubscriptionHandler(manager).Routes())
	t.Cleanup(server.Close)
	return server, notifier
}

func TestSubscriptionHandler(t *testing.T) {
	t.Run("subscribe registers the address", func(t *testing.T) {
		server, notifier := setupSubscriptionServer(t)

		resp, err := http.Post(server.URL+"/ops@example.com", "", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		subs, err := notifier.ListSubscriptions(context.Background())
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "ops@example.com", subs[0].Endpoint)
	})

	t.Run("list returns current subscriptions", func(t *testing.T) {
		server, _ := setupSubscriptionServer(t)

		resp, err := http.Post(server.URL+"/ops@example.com", "", nil)
		require.NoError(t, err)
		resp.Body.Close()

		resp, err = http.Get(server.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var subs []imagevault.Subscription
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&subs))
		require.Len(t, subs, 1)
		assert.Equal(t, "ops@example.com", subs[0].Endpoint)
	})

	t.Run("unsubscribe removes the address", func(t *testing.T) {
		server, notifier := setupSubscriptionServer(t)

		resp, err := http.Post(server.URL+"/ops@example.com", "", nil)
		require.NoError(t, err)
		resp.Body.Close()

		req, err := http.NewRequest(http.MethodDelete, server.URL+"/ops@example.com", nil)
		require.NoError(t, err)

		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		subs, err := notifier.ListSubscriptions(context.Background())
		require.NoError(t, err)
		assert.Empty(t, subs)
	})
}
