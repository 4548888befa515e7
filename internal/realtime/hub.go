package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/pkg/logger"
)

const (
	// Rate limiting: max client messages per second
	maxMessagesPerSecond = 10

	EventReviewCreated = "review_created"
	EventRatingUpdated = "rating_updated"
)

// ClientMessage is a subscription command from a connected client
type ClientMessage struct {
	Type       string `json:"type"` // subscribe, unsubscribe
	BusinessID uint   `json:"business_id"`
}

// Client is one WebSocket session
type Client struct {
	Hub           *Hub
	Conn          *Conn
	UserID        uint
	Send          chan []byte
	Businesses    map[uint]bool // businesses this session watches
	mu            sync.RWMutex
	MessageCount  int
	LastResetTime time.Time
	RateMu        sync.Mutex
}

// Hub fans business events out to subscribed sessions
type Hub struct {
	// UserID -> sessions, multiple devices per user
	clients map[uint][]*Client

	// BusinessID -> watching user IDs
	watchers map[uint]map[uint]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage

	mu sync.RWMutex
}

// BroadcastMessage targets every watcher of one business
type BroadcastMessage struct {
	BusinessID uint
	Message    []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		watchers:   make(map[uint]map[uint]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *BroadcastMessage, 1024),
	}
}

// Run processes registration and broadcast events until the process exits
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("Realtime client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)

					// Drop the user's watches once the last session is gone
					client.mu.RLock()
					for businessID := range client.Businesses {
						if users, ok := h.watchers[businessID]; ok {
							delete(users, client.UserID)
							if len(users) == 0 {
								delete(h.watchers, businessID)
							}
						}
					}
					client.mu.RUnlock()
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("Realtime client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			if users, ok := h.watchers[message.BusinessID]; ok {
				for userID := range users {
					if clientList, ok := h.clients[userID]; ok {
						for _, client := range clientList {
							select {
							case client.Send <- message.Message:
							default:
								// Send buffer full, drop the session
								go h.Unregister(client)
								logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
									"user_id": userID,
								})
							}
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Watch subscribes every session of a user to a business
func (h *Hub) Watch(userID, businessID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clientList, ok := h.clients[userID]; ok {
		for _, client := range clientList {
			client.mu.Lock()
			client.Businesses[businessID] = true
			client.mu.Unlock()
		}

		if _, ok := h.watchers[businessID]; !ok {
			h.watchers[businessID] = make(map[uint]bool)
		}
		h.watchers[businessID][userID] = true

		logger.Debug("User watching business", map[string]interface{}{
			"user_id":     userID,
			"business_id": businessID,
		})
	}
}

// Unwatch removes a user's subscription to a business
func (h *Hub) Unwatch(userID, businessID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clientList, ok := h.clients[userID]; ok {
		for _, client := range clientList {
			client.mu.Lock()
			delete(client.Businesses, businessID)
			client.mu.Unlock()
		}
	}

	if users, ok := h.watchers[businessID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(h.watchers, businessID)
		}
	}
}

// sendToWatchers queues an event for every watcher of the business.
// A full broadcast channel drops the event rather than blocking writes.
func (h *Hub) sendToWatchers(businessID uint, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal realtime event", err, nil)
		return
	}

	select {
	case h.broadcast <- &BroadcastMessage{
		BusinessID: businessID,
		Message:    data,
	}:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"business_id": businessID,
		})
	}
}

// BroadcastReviewCreated notifies watchers that a new review landed
func (h *Hub) BroadcastReviewCreated(businessID uint, review *model.Review) {
	h.sendToWatchers(businessID, map[string]interface{}{
		"type":        EventReviewCreated,
		"business_id": businessID,
		"review_id":   review.ID,
		"rating":      review.Rating,
		"comment":     review.Comment,
		"created_at":  review.CreatedAt,
	})
}

// BroadcastRatingUpdated notifies watchers of the new aggregate
func (h *Hub) BroadcastRatingUpdated(businessID uint, averageRating float64, totalReviews int) {
	h.sendToWatchers(businessID, map[string]interface{}{
		"type":           EventRatingUpdated,
		"business_id":    businessID,
		"average_rating": averageRating,
		"total_reviews":  totalReviews,
	})
}

// Register adds a client session
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client session
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// HandleClientMessage processes subscribe and unsubscribe commands
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	if msg.BusinessID == 0 {
		return
	}

	switch msg.Type {
	case "subscribe":
		h.Watch(client.UserID, msg.BusinessID)
	case "unsubscribe":
		h.Unwatch(client.UserID, msg.BusinessID)
	}
}
