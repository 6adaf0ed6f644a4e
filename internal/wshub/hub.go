package wshub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/coder/websocket"

	"whackarcade/internal/gamedata"
)

// Message types sent to clients.
const (
	TypeState  = "state"
	TypeSound  = "sound"
	TypeReward = "reward"
	TypeClose  = "close"
)

// ClientMessage is an action sent by a client.
type ClientMessage struct {
	Action string `json:"action"`
	Slot   *int   `json:"slot,omitempty"`
}

// ServerMessage is the JSON structure sent to clients.
type ServerMessage struct {
	Type   string             `json:"t"`
	State  *gamedata.Snapshot `json:"state,omitempty"`
	Sound  string             `json:"sound,omitempty"`
	Volume float64            `json:"volume,omitempty"`
	Reward []string           `json:"reward,omitempty"`
}

// Client represents a single WebSocket connection in the hub.
type Client struct {
	ID       string
	PlayerID string
	Conn     *websocket.Conn
	Send     chan []byte
	Binary   bool
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
// The connection is closed once the hub closes Send.
func (c *Client) WritePump(ctx context.Context) {
	typ := websocket.MessageText
	if c.Binary {
		typ = websocket.MessageBinary
	}
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				c.Conn.Close(websocket.StatusNormalClosure, "machine closed")
				return
			}
			if err := c.Conn.Write(ctx, typ, msg); err != nil {
				return
			}
		}
	}
}

// ReadPump decodes client actions until the connection fails or ctx ends.
func (c *Client) ReadPump(ctx context.Context, handle func(ClientMessage)) error {
	for {
		typ, data, err := c.Conn.Read(ctx)
		if err != nil {
			return err
		}
		msg, err := DecodeClientMessage(typ, data)
		if err != nil {
			log.Printf("[WSHub] Bad message from %s: %v\n", c.ID, err)
			continue
		}
		handle(msg)
	}
}

// DecodeClientMessage reads JSON from text frames and protowire from binary ones.
func DecodeClientMessage(typ websocket.MessageType, data []byte) (ClientMessage, error) {
	if typ == websocket.MessageBinary {
		return UnmarshalClientMessage(data)
	}
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("decoding client message: %w", err)
	}
	return msg, nil
}

// Hub manages per-machine WebSocket connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.Send)
		delete(h.clients, id)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client in its preferred encoding.
// Non-blocking: drops if channel full.
func (h *Hub) Broadcast(msg ServerMessage) {
	text, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WSHub] Marshal error: %v\n", err)
		return
	}
	var binary []byte

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		data := text
		if c.Binary {
			if binary == nil {
				binary = MarshalServerMessage(msg)
			}
			data = binary
		}
		select {
		case c.Send <- data:
		default:
			// Drop message if channel full
		}
	}
}

// CloseAll sends a close message to every client, then disconnects them.
func (h *Hub) CloseAll() {
	h.Broadcast(ServerMessage{Type: TypeClose})

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.Send)
		delete(h.clients, id)
	}
}
