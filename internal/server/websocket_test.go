package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()
	if hub == nil {
		t.Fatal("NewHub returned nil")
	}
	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}
	if hub.broadcast == nil {
		t.Error("Hub broadcast channel is nil")
	}
	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}
	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

// dialHub connects one WebSocket client to a fresh hub served over
// httptest and returns the connection.
func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		client := &Client{
			hub:  hub,
			conn: conn,
			send: make(chan []byte, 256),
		}

		hub.register <- client
		go client.writePump()
		go client.readPump()
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Wait for the hub to register the client
	time.Sleep(100 * time.Millisecond)
	return conn
}

func readProgress(t *testing.T, conn *websocket.Conn) ProgressMessage {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var msg ProgressMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}
	return msg
}

func TestHubRunAndBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialHub(t, hub)

	hub.Broadcast(ProgressMessage{
		Type:     "progress",
		JobID:    "job-test",
		File:     "docs/a.md",
		Progress: 50,
		Findings: 2,
	})

	msg := readProgress(t, conn)
	if msg.Type != "progress" {
		t.Errorf("type = %q, want progress", msg.Type)
	}
	if msg.JobID != "job-test" {
		t.Errorf("job_id = %q, want job-test", msg.JobID)
	}
	if msg.File != "docs/a.md" {
		t.Errorf("file = %q, want docs/a.md", msg.File)
	}
	if msg.Progress != 50 {
		t.Errorf("progress = %d, want 50", msg.Progress)
	}
	if msg.Findings != 2 {
		t.Errorf("findings = %d, want 2", msg.Findings)
	}
	if msg.Timestamp == "" {
		t.Error("timestamp should be automatically set")
	}
}

func TestBroadcastHelpers(t *testing.T) {
	originalHub := GlobalHub
	defer func() { GlobalHub = originalHub }()

	hub := NewHub()
	GlobalHub = hub
	go hub.Run()

	conn := dialHub(t, hub)

	BroadcastJobProgress("job-1", "docs/guide.md", 25, 3)
	msg := readProgress(t, conn)
	if msg.Type != "progress" || msg.JobID != "job-1" || msg.Findings != 3 {
		t.Errorf("unexpected progress frame: %+v", msg)
	}

	BroadcastJobComplete("job-1", &JobResult{Files: 4, Findings: 3, Changed: 2, Duration: "12ms"})
	msg = readProgress(t, conn)
	if msg.Type != "complete" || msg.Progress != 100 {
		t.Errorf("unexpected complete frame: %+v", msg)
	}
	if msg.Data["files"] != float64(4) {
		t.Errorf("data[files] = %v, want 4", msg.Data["files"])
	}

	BroadcastJobError("job-1", "boom")
	msg = readProgress(t, conn)
	if msg.Type != "error" || msg.Message != "boom" {
		t.Errorf("unexpected error frame: %+v", msg)
	}
}

func TestBroadcastHelpersNilHub(t *testing.T) {
	originalHub := GlobalHub
	defer func() { GlobalHub = originalHub }()
	GlobalHub = nil

	// Must not panic without a hub
	BroadcastJobProgress("job-1", "a.md", 10, 0)
	BroadcastJobComplete("job-1", &JobResult{})
	BroadcastJobError("job-1", "boom")
}

func TestHandleWebSocketUpgrade(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(handleWebSocket))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	time.Sleep(100 * time.Millisecond)

	GlobalHub.Broadcast(ProgressMessage{Type: "progress", JobID: "job-up"})
	msg := readProgress(t, conn)
	if msg.JobID != "job-up" {
		t.Errorf("job_id = %q, want job-up", msg.JobID)
	}
}
