package broadcast

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &msg))
	return msg
}

func TestHub_WelcomeAndBroadcast(t *testing.T) {
	// Подготовка
	hub := NewHub(testLogger())
	defer hub.Close()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv)

	// Приветственное сообщение приходит сразу после подключения
	welcome := readJSON(t, conn)
	assert.Equal(t, "connected", welcome["type"])
	assert.NotNil(t, welcome["client_id"])

	// Действие
	hub.Send(NewEvent(EventMissionCreated, map[string]string{"_id": "mission_1_a"}))

	// Проверки
	event := readJSON(t, conn)
	assert.Equal(t, string(EventMissionCreated), event["type"])
	data, ok := event["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "mission_1_a", data["_id"])
}

func TestHub_ReloadEventShape(t *testing.T) {
	// Подготовка
	hub := NewHub(testLogger())
	defer hub.Close()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv)
	readJSON(t, conn) // приветствие

	// Действие
	hub.Send(ReloadEvent())

	// Проверки
	event := readJSON(t, conn)
	assert.Equal(t, string(EventReload), event["type"])
	assert.Equal(t, true, event["reload"])
}

func TestHub_MultipleClients(t *testing.T) {
	// Подготовка
	hub := NewHub(testLogger())
	defer hub.Close()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	first := dialHub(t, srv)
	second := dialHub(t, srv)
	readJSON(t, first)
	readJSON(t, second)

	assert.Equal(t, 2, hub.ClientCount())

	// Действие
	hub.Send(NewEvent(EventIncidentUpdated, map[string]string{"_id": "1"}))

	// Проверки: событие получают оба
	assert.Equal(t, string(EventIncidentUpdated), readJSON(t, first)["type"])
	assert.Equal(t, string(EventIncidentUpdated), readJSON(t, second)["type"])
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	// Подготовка
	hub := NewHub(testLogger())
	defer hub.Close()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv)
	readJSON(t, conn)
	require.Equal(t, 1, hub.ClientCount())

	// Действие
	conn.Close()

	// Проверки: отключение замечает читающая горутина
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, 2*time.Second, 10*time.Millisecond)

	// Рассылка в пустой хаб безопасна
	hub.Send(ReloadEvent())
}
