package services

import (
	"log"
	"net/http"
	"sync"

	"tasktrail/tasktrail/broker"
	"tasktrail/tasktrail/config"
	"tasktrail/tasktrail/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
)

type WebSocketServiceInterface interface {
	Start(cfg config.Config)
	Stop()
	HandleConnection(c *gin.Context)
	BroadcastMessage(message []byte)
}

// Client is one connected websocket peer
type Client struct {
	ID     string
	UserID string
	Role   models.UserRole
	Conn   *websocket.Conn
	Send   chan []byte
}

// WebSocketService pushes broker events to connected clients. Events are
// routed per client: each peer only sees tasks it participates in and
// notifications addressed to it.
type WebSocketService struct {
	clients      map[string]*Client
	clientsMutex sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	upgrader websocket.Upgrader
	subjects []string
	consumer *broker.Consumer

	stateMutex sync.Mutex
	running    bool
	stopChan   chan struct{}
}

func NewWebSocketService() *WebSocketService {
	return &WebSocketService{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		subjects: []string{broker.TaskSubject, broker.NotificationSubject},
		stopChan: make(chan struct{}),
	}
}

func (ws *WebSocketService) Start(cfg config.Config) {
	ws.stateMutex.Lock()
	defer ws.stateMutex.Unlock()
	if ws.running {
		return
	}
	ws.running = true

	go ws.run()

	consumer, err := broker.InitConsumer(cfg.NatsURL, ws.subjects, "websocket-group")
	if err != nil {
		log.Printf("Failed to initialize websocket consumer: %v", err)
		log.Println("WebSocket service will run without broker event forwarding")
		return
	}
	ws.consumer = consumer
	go ws.forwardBrokerMessages(consumer.GetMessageChannel())
}

func (ws *WebSocketService) Stop() {
	ws.stateMutex.Lock()
	defer ws.stateMutex.Unlock()
	if !ws.running {
		return
	}
	ws.running = false
	close(ws.stopChan)
	if ws.consumer != nil {
		ws.consumer.Close()
	}
}

func (ws *WebSocketService) run() {
	for {
		select {
		case client := <-ws.register:
			ws.clientsMutex.Lock()
			ws.clients[client.ID] = client
			ws.clientsMutex.Unlock()
			log.Printf("WebSocket client connected: %s (user %s)", client.ID, client.UserID)

		case client := <-ws.unregister:
			ws.clientsMutex.Lock()
			if _, ok := ws.clients[client.ID]; ok {
				delete(ws.clients, client.ID)
				close(client.Send)
			}
			ws.clientsMutex.Unlock()
			log.Printf("WebSocket client disconnected: %s", client.ID)

		case message := <-ws.broadcast:
			ws.clientsMutex.RLock()
			for _, client := range ws.clients {
				ws.trySend(client, message)
			}
			ws.clientsMutex.RUnlock()

		case <-ws.stopChan:
			return
		}
	}
}

func (ws *WebSocketService) forwardBrokerMessages(messageChan chan *nats.Msg) {
	for {
		select {
		case msg := <-messageChan:
			ws.handleBrokerMessage(msg)
		case <-ws.stopChan:
			return
		}
	}
}

// handleBrokerMessage routes one broker event to the clients entitled to it:
// a notification goes only to its addressee, a task event only to the
// assigner, the assignee and admins.
func (ws *WebSocketService) handleBrokerMessage(msg *nats.Msg) {
	switch msg.Subject {
	case broker.NotificationSubject:
		var event models.NotificationEvent
		if err := event.FromJSON(msg.Data); err != nil {
			log.Printf("Error parsing notification event: %v", err)
			return
		}
		ws.deliver(msg.Data, func(client *Client) bool {
			return client.UserID == event.UserID
		})

	case broker.TaskSubject:
		var task models.Task
		if err := task.FromJSON(msg.Data); err != nil {
			log.Printf("Error parsing task event: %v", err)
			return
		}
		assignedBy := task.AssignedByID.String()
		assignedTo := task.AssignedToID.String()
		ws.deliver(msg.Data, func(client *Client) bool {
			return client.Role == models.AdminRole ||
				client.UserID == assignedBy ||
				client.UserID == assignedTo
		})

	default:
		log.Printf("Dropping broker message on unhandled subject %s", msg.Subject)
	}
}

func (ws *WebSocketService) deliver(message []byte, shouldSend func(*Client) bool) {
	ws.clientsMutex.RLock()
	defer ws.clientsMutex.RUnlock()
	for _, client := range ws.clients {
		if shouldSend(client) {
			ws.trySend(client, message)
		}
	}
}

func (ws *WebSocketService) trySend(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		// Slow client, drop the message rather than block the hub
	}
}

func (ws *WebSocketService) BroadcastMessage(message []byte) {
	ws.broadcast <- message
}

// HandleConnection upgrades an authenticated request to a websocket and
// starts the read/write pumps. AuthMiddleware must have run first.
func (ws *WebSocketService) HandleConnection(c *gin.Context) {
	userIDInterface, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userID := userIDInterface.(uuid.UUID)

	role := models.MemberRole
	if roleInterface, exists := c.Get("role"); exists {
		if parsed, err := models.UserRoleFromString(roleInterface.(string)); err == nil {
			role = parsed
		}
	}

	conn, err := ws.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket connection: %v", err)
		return
	}

	client := &Client{
		ID:     uuid.New().String(),
		UserID: userID.String(),
		Role:   role,
		Conn:   conn,
		Send:   make(chan []byte, 64),
	}

	ws.register <- client

	go ws.writePump(client)
	go ws.readPump(client)
}

func (ws *WebSocketService) writePump(client *Client) {
	defer client.Conn.Close()
	for message := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (ws *WebSocketService) readPump(client *Client) {
	defer func() {
		ws.unregister <- client
		client.Conn.Close()
	}()
	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

var WebSocketServiceInstance WebSocketServiceInterface
