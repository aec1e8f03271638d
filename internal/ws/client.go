package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"prize_wheel/internal/domain"
	"prize_wheel/internal/logger"
	"prize_wheel/internal/render"
	"prize_wheel/internal/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 30 * time.Second
	pingPeriod  = 25 * time.Second
	callTimeout = 2 * time.Second

	// the widget canvas the draw commands are recorded for
	canvasSize = 600
)

// Client is one connected wheel widget. It implements service.Observer;
// observer calls come from the engine loop and never block.
type Client struct {
	Wallet    string
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte

	Hub      *Hub
	recorder *render.Recorder
	log      *slog.Logger
	Done     chan struct{}
	doneOnce sync.Once
}

func NewClient(wallet string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		Wallet:   wallet,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Hub:      hub,
		recorder: render.NewRecorder(canvasSize, canvasSize),
		log:      logger.With("component", "ws", "wallet", domain.ShortenWallet(wallet)),
		Done:     make(chan struct{}),
	}
}

func (c *Client) Run() {
	// стартуем writer first so the ready message can go out
	go c.writePump()

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	snap, err := c.Hub.Attach(ctx, c)
	cancel()
	if err != nil {
		c.log.Warn("ws attach failed", "error", err)
		c.sendError(err.Error())
		c.stop()
		return
	}

	c.send(MsgReady, ReadyPayload{
		SessionID: c.SessionID,
		Segments:  c.Hub.Wheel.Catalogue().Segments(),
		State:     snap,
	})

	c.readPump()
}

// Frame streams the orientation and the recorded draw calls. Frames are
// dropped when the client falls behind.
func (c *Client) Frame(s *service.Session, orientation float64) {
	c.send(MsgFrame, FramePayload{Orientation: orientation, Commands: c.recorder.Commands()})
}

func (c *Client) SpinResolved(s *service.Session, out domain.SpinOutcome) {
	c.send(MsgResult, ResultPayload{
		SpinID:    out.SpinID,
		Outcome:   out.Outcome,
		Claimable: out.Outcome.Kind.Claimable(),
	})
}

func (c *Client) StateChanged(s *service.Session) {
	c.send(MsgState, s.Snapshot())
}

//read
func (c *Client) readPump() {
	defer c.stop()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("ws read error", "error", err)
			}
			return
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg []byte) {
	var in Inbound
	if err := json.Unmarshal(msg, &in); err != nil {
		c.sendError("invalid message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	switch in.Type {
	case MsgSpin:
		_, started, err := c.Hub.Wheel.Spin(ctx, c.Wallet, c.SessionID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		if !started {
			c.sendError("spin not available")
		}
	case MsgReset:
		snap, _, err := c.Hub.Wheel.Reset(ctx, c.Wallet, c.SessionID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.send(MsgState, snap)
	case MsgPing:
		c.send(MsgPong, nil)
	default:
		c.sendError("unknown message type")
	}
}

//write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.Done:
			c.flush()
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("ws write error", "error", err)
				c.stop()
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.stop()
				return
			}
		}
	}
}

// flush writes whatever is still queued, best effort
func (c *Client) flush() {
	for {
		select {
		case msg := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Client) send(msgType string, payload any) {
	b, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		c.log.Error("ws encode failed", "type", msgType, "error", err)
		return
	}
	select {
	case c.Send <- b:
	default:
		c.log.Debug("ws send buffer full, dropping", "type", msgType)
	}
}

func (c *Client) sendError(message string) {
	c.send(MsgError, ErrorPayload{Message: message})
}

//disconnect
func (c *Client) stop() {
	c.doneOnce.Do(func() {
		c.Hub.Detach(c)
		close(c.Done)
	})
}
