package telephony

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ca4ti/FrugalVox/internal/audio"
	"github.com/ca4ti/FrugalVox/internal/config"
	"github.com/ca4ti/FrugalVox/internal/observability"
)

// inputBufferFrames is the transport's internal buffering window, sized
// to match the flush primitive's drain loop.
const inputBufferFrames = 625

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Media gateways connect from arbitrary origins; authentication
		// happens at the event level.
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// wsEvent is the JSON envelope exchanged with the media gateway.
type wsEvent struct {
	Event  string   `json:"event"`
	CallID string   `json:"callId,omitempty"`
	From   string   `json:"from,omitempty"`
	To     string   `json:"to,omitempty"`
	Digit  string   `json:"digit,omitempty"`
	Media  *wsMedia `json:"media,omitempty"`
}

// wsMedia carries one base64-encoded G.711 mu-law payload.
type wsMedia struct {
	Payload string `json:"payload"`
}

// WSTransport accepts media-stream WebSocket connections, one per call,
// and hands each call to the inbound handler on its own goroutine.
type WSTransport struct {
	cfg     config.TransportConfig
	handler InboundHandler
	logger  zerolog.Logger
}

// NewWSTransport creates a transport delivering inbound calls to handler.
func NewWSTransport(cfg config.TransportConfig, handler InboundHandler) *WSTransport {
	return &WSTransport{
		cfg:     cfg,
		handler: handler,
		logger:  observability.GetLogger().With().Str("component", "transport").Logger(),
	}
}

// HTTPHandler upgrades a connection and runs its receive loop. The
// session goroutine is spawned once the start event arrives.
func (t *WSTransport) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.logger.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()
		t.serveConn(conn)
	}
}

func (t *WSTransport) serveConn(conn *websocket.Conn) {
	var call *wsCall
	defer func() {
		if call != nil {
			call.markEnded()
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				t.logger.Warn().Err(err).Msg("websocket read error")
			}
			return
		}

		var ev wsEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			t.logger.Error().Err(err).Msg("malformed transport event")
			continue
		}

		switch ev.Event {
		case "start":
			if call != nil {
				t.logger.Warn().Msg("duplicate start event ignored")
				continue
			}
			call = newWSCall(conn, ev)
			t.logger.Info().
				Str("call_id", call.id).
				Str("from", call.caller).
				Msg("inbound call")
			go t.handler(call)

		case "media":
			if call == nil || ev.Media == nil {
				continue
			}
			payload, err := base64.StdEncoding.DecodeString(ev.Media.Payload)
			if err != nil {
				t.logger.Error().Err(err).Msg("bad media payload")
				continue
			}
			observability.AudioBytes("in", len(payload))
			call.in.Write(audio.DecodeMulaw(payload))

		case "dtmf":
			if call == nil || len(ev.Digit) != 1 {
				continue
			}
			call.pushDigit(ev.Digit[0])

		case "stop":
			if call != nil {
				t.logger.Info().Str("call_id", call.id).Msg("call stopped by gateway")
				call.markEnded()
			}
			return

		default:
			t.logger.Debug().Str("event", ev.Event).Msg("unknown transport event")
		}
	}
}

// wsCall implements Call over one media-stream connection.
type wsCall struct {
	id     string
	caller string
	callee string

	conn    *websocket.Conn
	writeMu sync.Mutex

	in     *audio.FrameBuffer
	digits chan byte

	mu    sync.RWMutex
	state CallState
}

func newWSCall(conn *websocket.Conn, start wsEvent) *wsCall {
	id := start.CallID
	if id == "" {
		id = uuid.New().String()
	}
	return &wsCall{
		id:     id,
		caller: start.From,
		callee: start.To,
		conn:   conn,
		in:     audio.NewFrameBuffer(inputBufferFrames),
		digits: make(chan byte, 32),
	}
}

func (c *wsCall) ID() string            { return c.id }
func (c *wsCall) CallerAddress() string { return c.caller }
func (c *wsCall) CalleeAddress() string { return c.callee }

func (c *wsCall) State() CallState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *wsCall) Answer() error {
	if c.State() == StateEnded {
		return ErrCallEnded
	}
	return c.send(wsEvent{Event: "answer", CallID: c.id})
}

func (c *wsCall) Hangup() error {
	c.mu.Lock()
	if c.state == StateEnded {
		c.mu.Unlock()
		return ErrCallEnded
	}
	c.state = StateEnded
	c.mu.Unlock()

	c.in.Close()
	// The gateway may already be gone; hangup stays idempotent either way.
	_ = c.send(wsEvent{Event: "hangup", CallID: c.id})
	return nil
}

func (c *wsCall) ReadFrame(blocking bool) []byte {
	return c.in.ReadFrame(blocking)
}

func (c *wsCall) ReadDigit() (byte, bool) {
	select {
	case d := <-c.digits:
		return d, true
	default:
		return 0, false
	}
}

func (c *wsCall) WriteAudio(buf []byte) error {
	if c.State() == StateEnded {
		return ErrCallEnded
	}
	payload := base64.StdEncoding.EncodeToString(audio.EncodeMulaw(buf))
	observability.AudioBytes("out", len(buf))
	return c.send(wsEvent{Event: "media", CallID: c.id, Media: &wsMedia{Payload: payload}})
}

func (c *wsCall) pushDigit(d byte) {
	select {
	case c.digits <- d:
	default:
		// Digit queue full; the caller is mashing keys faster than the
		// session consumes them. Drop rather than block the receive loop.
	}
}

func (c *wsCall) markEnded() {
	c.mu.Lock()
	c.state = StateEnded
	c.mu.Unlock()
	c.in.Close()
}

func (c *wsCall) send(ev wsEvent) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(ev)
}
