package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// echoStateServer answers every state_request with a fixed frame and
// forwards the raw bytes of any other frame it receives onto received.
func echoStateServer(t *testing.T, received chan<- []byte) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("server upgrade: %s", err)
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if strings.Contains(string(data), "state_request") {
				if err := conn.WriteJSON(stateFrame{
					Position: []float64{6571000, 0, 0},
					Velocity: []float64{0, 7793, 0},
					Mass:     5000,
					Time:     12.5,
				}); err != nil {
					return
				}
				continue
			}
			received <- data
		}
	}))
}

func dialTestFeed(t *testing.T, server *httptest.Server) *Feed {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	feed, err := Dial(wsURL)
	if err != nil {
		t.Fatalf("Dial returned error: %s", err)
	}
	return feed
}

func TestFeedProbeDecodesStateFrame(t *testing.T) {
	server := echoStateServer(t, make(chan []byte, 1))
	defer server.Close()

	feed := dialTestFeed(t, server)
	defer feed.Close()

	position, velocity, mass, simTime, err := feed.Probe()
	if err != nil {
		t.Fatalf("Probe returned error: %s", err)
	}
	if mass != 5000 || simTime != 12.5 {
		t.Fatalf("Probe mass/time = %f/%f, want 5000/12.5", mass, simTime)
	}
	if len(position) != 3 || position[0] != 6571000 {
		t.Fatalf("Probe position = %v", position)
	}
	if len(velocity) != 3 || velocity[1] != 7793 {
		t.Fatalf("Probe velocity = %v", velocity)
	}
}

func TestFeedActuateSendsCommandFrame(t *testing.T) {
	received := make(chan []byte, 1)
	server := echoStateServer(t, received)
	defer server.Close()

	feed := dialTestFeed(t, server)
	defer feed.Close()

	if err := feed.Actuate(5.5, 90, 0.8); err != nil {
		t.Fatalf("Actuate returned error: %s", err)
	}

	select {
	case data := <-received:
		if !strings.Contains(string(data), `"pitch_deg":5.5`) {
			t.Fatalf("command frame = %s, missing pitch_deg", data)
		}
		if !strings.Contains(string(data), `"throttle":0.8`) {
			t.Fatalf("command frame = %s, missing throttle", data)
		}
	case <-time.After(time.Second):
		t.Fatalf("server never received a command frame")
	}
}
