package handlers

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/prepmate/prepmate/internal/orchestrator"
	"github.com/prepmate/prepmate/internal/utils"
)

// WSHandler drives one interview session over a websocket. Client commands
// move the session state machine; orchestrator events reach the client
// through Redis pub/sub fan-out, so multiple connections can follow the
// same session.
type WSHandler struct {
	orch     *orchestrator.Orchestrator
	redis    *redis.Client
	upgrader websocket.Upgrader
}

func NewWSHandler(orch *orchestrator.Orchestrator, rdb *redis.Client) *WSHandler {
	return &WSHandler{
		orch:  orch,
		redis: rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsClientMsg struct {
	Type        string `json:"type"`
	Camera      bool   `json:"camera"`
	Microphone  bool   `json:"microphone"`
	AudioBase64 string `json:"audio_base64"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) writeErrorMsg(message string) {
	b, _ := json.Marshal(gin.H{"type": "error", "message": message})
	_ = w.writeText(b)
}

func (h *WSHandler) InterviewWS(c *gin.Context) {
	const op = "WSHandler.InterviewWS"

	interviewID := c.Param("interview_id")
	if interviewID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing interview_id", nil))
		return
	}
	if _, err := h.orch.Get(c.Request.Context(), interviewID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.redis.Subscribe(ctx, orchestrator.EventChannel(interviewID))
	defer pubsub.Close()

	// reader: client commands -> orchestrator
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				wc.writeErrorMsg("invalid json")
				continue
			}
			if err := h.dispatch(ctx, interviewID, msg); err != nil {
				wc.writeErrorMsg(err.Error())
			}
			if msg.Type == "end_session" {
				return
			}
		}
	}()

	// writer: Redis pub/sub -> WS, payloads forwarded as-is. Receiving
	// through the channel keeps the select responsive when the client
	// disconnects between events.
	events := pubsub.Channel()
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case m, ok := <-events:
			if !ok {
				return
			}
			if werr := wc.writeText([]byte(m.Payload)); werr != nil {
				return
			}
		}
	}
}

func (h *WSHandler) dispatch(ctx context.Context, interviewID string, msg wsClientMsg) error {
	switch msg.Type {
	case "device_check":
		_, err := h.orch.ConfirmDevices(ctx, interviewID, msg.Camera, msg.Microphone)
		return err

	case "countdown_tick":
		_, err := h.orch.TickCountdown(ctx, interviewID)
		return err

	case "unmute":
		return h.orch.StartAnswer(ctx, interviewID)

	case "audio_frame":
		frame, err := decodePCM(msg.AudioBase64)
		if err != nil {
			return err
		}
		return h.orch.PushAudio(interviewID, frame)

	case "pause":
		return h.orch.PauseAnswer(interviewID)

	case "resume":
		return h.orch.ResumeAnswer(interviewID)

	case "mute":
		_, err := h.orch.FinishAnswer(ctx, interviewID)
		return err

	case "next_turn":
		_, err := h.orch.NextTurn(ctx, interviewID)
		return err

	case "end_session":
		_, err := h.orch.EndSession(ctx, interviewID)
		return err

	default:
		return utils.E(utils.CodeInvalidArgument, "WSHandler.dispatch", "unknown message type", nil)
	}
}

// decodePCM unpacks a base64 frame of little-endian float32 samples.
func decodePCM(s string) ([]float32, error) {
	const op = "WSHandler.decodePCM"
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio_base64 is not valid base64", err)
	}
	if len(raw)%4 != 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio frame length must be a multiple of 4", nil)
	}
	frame := make([]float32, len(raw)/4)
	for i := range frame {
		frame[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return frame, nil
}
