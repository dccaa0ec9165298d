package telemetry

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// stateFrame is the JSON wire shape a remote peer sends for each state
// probe poll.
type stateFrame struct {
	Position []float64 `json:"position"`
	Velocity []float64 `json:"velocity"`
	Mass     float64   `json:"mass"`
	Time     float64   `json:"time"`
}

// commandFrame is the JSON wire shape sent out for each actuator call.
type commandFrame struct {
	PitchDeg float64 `json:"pitch_deg"`
	YawDeg   float64 `json:"yaw_deg"`
	Throttle float64 `json:"throttle"`
}

// Feed adapts a live websocket peer into the StateProbe/Actuator callback
// contracts of spec.md §6, so a phase can be driven by (or drive) an
// external vehicle/simulator process, grounded on the retrieval pack's
// gorilla/websocket usage in the trafficsim and Asgard/Valkyrie examples.
type Feed struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Dial opens a websocket connection to a telemetry peer at url.
func Dial(url string) (*Feed, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("telemetry: dial %s: %w", url, err)
	}
	return &Feed{conn: conn}, nil
}

// Close closes the underlying connection.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conn.Close()
}

// Probe implements the StateProbe contract: it requests one state frame
// from the peer and decodes it.
func (f *Feed) Probe() (position, velocity []float64, mass, time float64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.conn.WriteJSON(map[string]string{"type": "state_request"}); err != nil {
		return nil, nil, 0, 0, fmt.Errorf("telemetry: request state: %w", err)
	}
	var frame stateFrame
	if err := f.conn.ReadJSON(&frame); err != nil {
		return nil, nil, 0, 0, fmt.Errorf("telemetry: read state: %w", err)
	}
	return frame.Position, frame.Velocity, frame.Mass, frame.Time, nil
}

// Actuate implements the Actuator contract: it sends the commanded
// attitude and throttle as one JSON frame.
func (f *Feed) Actuate(pitchDeg, yawDeg, throttle float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(commandFrame{PitchDeg: pitchDeg, YawDeg: yawDeg, Throttle: throttle})
	if err != nil {
		return fmt.Errorf("telemetry: marshal command: %w", err)
	}
	if err := f.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("telemetry: send command: %w", err)
	}
	return nil
}
