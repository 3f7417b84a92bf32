package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"grimm.is/ifctl/internal/netctl"
)

func TestEventsWSRequiresAuth(t *testing.T) {
	ts := newTestServer(t)
	httpSrv := httptest.NewServer(ts.srv.Handler())
	defer httpSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/api/ws/events"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("dial without token should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
}

func TestEventsWSDeliversInterfaceEvents(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	httpSrv := httptest.NewServer(ts.srv.Handler())
	defer httpSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/api/ws/events?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Registration races the publish; give the manager a beat.
	time.Sleep(50 * time.Millisecond)

	ts.srv.wsManager.PublishInterfaceEvent(netctl.InterfaceState{
		Name: "eth0",
		Link: netctl.LinkUp,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if msg.Topic != "interfaces" {
			// Status heartbeats may interleave.
			continue
		}

		raw, _ := json.Marshal(msg.Data)
		var evt InterfaceEvent
		if err := json.Unmarshal(raw, &evt); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if evt.Interface != "eth0" || evt.LinkState != netctl.LinkUp {
			t.Fatalf("unexpected event: %+v", evt)
		}
		return
	}
}

func TestCloseDisconnectsEventClients(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	httpSrv := httptest.NewServer(ts.srv.Handler())
	defer httpSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/api/ws/events?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)
	ts.srv.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			// Server-side close surfaces as a read error.
			return
		}
	}
}
