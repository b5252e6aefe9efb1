package adapthttp_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealtrack/internal/adapter/notify"
	"mealtrack/internal/domain"
)

func TestChangeFeed(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.broker.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	_, err = env.svc.Catalog.Add(context.Background(), domain.MealFields{Name: "Egg", Calories: 78})
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	seen := map[string]bool{}
	for !seen[domain.KeyMeals] {
		var c notify.Change
		require.NoError(t, conn.ReadJSON(&c))
		assert.Equal(t, notify.OpSet, c.Op)
		for _, k := range c.Keys {
			seen[k] = true
		}
	}

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return env.broker.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
}
