package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/thereceipt/ticket-engine/internal/registry"
	"github.com/thereceipt/ticket-engine/pkg/ticketformat"
)

// WebSocket message types
const (
	EventRender           = "render"
	EventDocument         = "document"
	EventDocumentRendered = "document_rendered"
	EventError            = "error"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// WSClient represents a connected WebSocket client
type WSClient struct {
	conn   *websocket.Conn
	send   chan WSMessage
	done   chan struct{} // closed when writePump exits
	server *Server
	mu     sync.Mutex
	wg     sync.WaitGroup
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Printf("api: websocket upgrade failed: %v", err)
		return
	}

	client := &WSClient{
		conn:   conn,
		send:   make(chan WSMessage, 256),
		done:   make(chan struct{}),
		server: s,
	}

	s.logger.Printf("api: websocket client connected")

	// Start goroutines
	go client.readPump()
	go client.writePump()
}

func (c *WSClient) writePump() {
	defer func() {
		close(c.done)
		c.conn.Close()
	}()

	for msg := range c.send {
		c.mu.Lock()
		err := c.conn.WriteJSON(msg)
		c.mu.Unlock()

		if err != nil {
			c.server.logger.Printf("api: websocket write error: %v", err)
			return
		}
	}
}

func (c *WSClient) handleMessage(msg *WSMessage) {
	switch msg.Event {
	case EventRender:
		c.handleRenderEvent(msg.Data)
	default:
		c.sendError(fmt.Sprintf("unknown event: %s", msg.Event))
	}
}

func (c *WSClient) handleRenderEvent(data map[string]interface{}) {
	raw, ok := data["purchase"]
	if !ok {
		c.sendError("purchase is required")
		return
	}

	purchaseBytes, _ := json.Marshal(raw)
	var p ticketformat.Purchase
	if err := json.Unmarshal(purchaseBytes, &p); err != nil {
		c.sendError(fmt.Sprintf("invalid purchase: %v", err))
		return
	}

	if err := ticketformat.Validate(&p); err != nil {
		c.sendError(fmt.Sprintf("purchase validation failed: %v", err))
		return
	}

	// Rendering runs off the read loop; the reply arrives when it is done.
	pending := c.server.assembler.AssembleAsync(p.Tickets, p)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		res := <-pending
		if res.Err != nil {
			c.sendError(fmt.Sprintf("failed to render tickets: %v", res.Err))
			return
		}

		c.sendMessage(WSMessage{
			Event: EventDocument,
			Data: map[string]interface{}{
				"reference":   p.Reference,
				"document_id": res.Document.ID.String(),
				"pages":       res.Document.Pages,
				"pdf":         base64.StdEncoding.EncodeToString(res.Document.Bytes),
			},
		})
	}()
}

// sendMessage queues msg for the client. It drops msg once the write side
// has stopped.
func (c *WSClient) sendMessage(msg WSMessage) {
	select {
	case c.send <- msg:
	case <-c.done:
	}
}

func (s *Server) addClient(client *WSClient) {
	s.clientsMu.Lock()
	s.clients[client] = true
	s.clientsMu.Unlock()
}

func (s *Server) removeClient(client *WSClient) {
	s.clientsMu.Lock()
	delete(s.clients, client)
	s.clientsMu.Unlock()
}

func (c *WSClient) readPump() {
	defer func() {
		c.server.removeClient(c)
		c.wg.Wait()
		close(c.send)
		c.server.logger.Printf("api: websocket client disconnected")
	}()

	c.server.addClient(c)

	for {
		var msg WSMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.logger.Printf("api: websocket error: %v", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

func (c *WSClient) sendError(message string) {
	c.sendMessage(WSMessage{
		Event: EventError,
		Data: map[string]interface{}{
			"error": message,
		},
	})
}

// BroadcastRendered tells every connected client that the worker rendered
// a document
func (s *Server) BroadcastRendered(entry *registry.Entry) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	message := WSMessage{
		Event: EventDocumentRendered,
		Data: map[string]interface{}{
			"id":        entry.ID,
			"reference": entry.Reference,
			"pages":     entry.Pages,
			"checksum":  entry.Checksum,
		},
	}

	for client := range s.clients {
		select {
		case client.send <- message:
		default:
			// Client send buffer full, skip
		}
	}

	s.logger.Printf("api: broadcast document rendered - %s", entry.Reference)
}
