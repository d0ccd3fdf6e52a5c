package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createRoom creates the caller's room through the API and returns its id.
func createRoom(t *testing.T, app *fiber.App, token, name string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/rooms", token, map[string]any{
		"name":   name,
		"config": map[string]any{"theme": "dusk"},
	})
	require.Equal(t, http.StatusCreated, status, "create room %q: %v", name, body)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestCreateRoom(t *testing.T) {
	app, _ := setupTestApp(t, testConfig())
	token := registerUser(t, app, "alice")

	t.Run("success", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/rooms", token, map[string]any{
			"name":       "alice's room",
			"config":     map[string]any{"theme": "dusk"},
			"musicLinks": []string{"https://open.spotify.com/track/x"},
		})
		require.Equal(t, http.StatusCreated, status, "%v", body)
		assert.Equal(t, "alice's room", body["name"])
		owner, _ := body["owner"].(map[string]any)
		require.NotNil(t, owner)
		assert.Equal(t, "alice", owner["username"])
	})

	t.Run("second room conflicts", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/rooms", token, map[string]any{
			"name": "another",
		})
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("requires auth", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/rooms", "", map[string]any{
			"name": "sneaky",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("validation failures", func(t *testing.T) {
		other := registerUser(t, app, "bob")
		tests := []map[string]any{
			{"name": ""},
			{"name": strings.Repeat("r", 101)},
			{"name": "ok", "config": []int{1, 2}},
			{"name": "ok", "posterItems": map[string]any{"not": "a list"}},
		}
		for _, payload := range tests {
			status, body := doJSON(t, app, http.MethodPost, "/api/rooms", other, payload)
			assert.Equal(t, http.StatusBadRequest, status, "%v -> %v", payload, body)
		}
	})
}

func TestGetRooms(t *testing.T) {
	app, _ := setupTestApp(t, testConfig())
	for _, name := range []string{"alice", "bob"} {
		token := registerUser(t, app, name)
		createRoom(t, app, token, name+"'s room")
	}

	// the hub is public
	status, rooms := doJSONList(t, app, http.MethodGet, "/api/rooms", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, rooms, 2)
	for _, room := range rooms {
		owner, _ := room["owner"].(map[string]any)
		require.NotNil(t, owner)
		assert.NotEmpty(t, owner["username"])
	}
}

func TestGetPersonalRoom(t *testing.T) {
	app, _ := setupTestApp(t, testConfig())
	token := registerUser(t, app, "alice")
	createRoom(t, app, token, "alice's room")
	registerUser(t, app, "bob")

	t.Run("public read", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/api/rooms/personal/alice", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "alice's room", body["name"])
	})

	t.Run("missing user", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, "/api/rooms/personal/nobody", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("user without a room", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, "/api/rooms/personal/bob", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestUpdateMyRoom(t *testing.T) {
	app, _ := setupTestApp(t, testConfig())
	token := registerUser(t, app, "alice")
	createRoom(t, app, token, "before")

	t.Run("rename", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, "/api/rooms/me", token, map[string]any{
			"name": "after",
		})
		require.Equal(t, http.StatusOK, status, "%v", body)
		assert.Equal(t, "after", body["name"])
	})

	t.Run("personal page reflects the update immediately", func(t *testing.T) {
		// prime the cached view, then mutate
		status, _ := doJSON(t, app, http.MethodGet, "/api/rooms/personal/alice", "", nil)
		require.Equal(t, http.StatusOK, status)

		status, _ = doJSON(t, app, http.MethodPut, "/api/rooms/me", token, map[string]any{
			"library": []map[string]any{{"title": "Dune"}},
		})
		require.Equal(t, http.StatusOK, status)

		status, body := doJSON(t, app, http.MethodGet, "/api/rooms/personal/alice", "", nil)
		require.Equal(t, http.StatusOK, status)
		library, _ := body["library"].([]any)
		require.Len(t, library, 1)
	})

	t.Run("requires auth", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPut, "/api/rooms/me", "", map[string]any{
			"name": "sneaky",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("no room yet", func(t *testing.T) {
		other := registerUser(t, app, "bob")
		status, _ := doJSON(t, app, http.MethodPut, "/api/rooms/me", other, map[string]any{
			"name": "ghost room",
		})
		assert.Equal(t, http.StatusNotFound, status)
	})
}
