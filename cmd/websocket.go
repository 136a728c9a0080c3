package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"shapagatBack/internal/models"
)

// feedEvent is what dashboard clients see for each settled donation.
// The donor name is withheld for anonymous donations.
type feedEvent struct {
	CampaignID int    `json:"campaign_id"`
	Amount     int64  `json:"amount"`
	Message    string `json:"message,omitempty"`
	Anonymous  bool   `json:"anonymous"`
}

// DonationFeed broadcasts succeeded donations to connected dashboard
// clients. Slow or dead clients are dropped rather than blocking the
// reconciler's publish path.
type DonationFeed struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan feedEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	errorLog   *log.Logger
}

func NewDonationFeed(errorLog *log.Logger) *DonationFeed {
	return &DonationFeed{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan feedEvent, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		errorLog:   errorLog,
	}
}

// Publish is wired into the donation service as its Feed hook. It never
// blocks: if the feed loop is saturated the event is dropped, since the
// feed is a convenience view over the ledger, not part of it.
func (f *DonationFeed) Publish(d models.Donation) {
	evt := feedEvent{
		CampaignID: d.CampaignID,
		Amount:     d.Amount,
		Message:    d.Message,
		Anonymous:  d.IsAnonymous,
	}
	select {
	case f.broadcast <- evt:
	default:
	}
}

func (f *DonationFeed) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for conn := range f.clients {
				conn.Close()
			}
			return
		case conn := <-f.register:
			f.clients[conn] = true
		case conn := <-f.unregister:
			if _, ok := f.clients[conn]; ok {
				conn.Close()
				delete(f.clients, conn)
			}
		case evt := <-f.broadcast:
			for conn := range f.clients {
				if err := conn.WriteJSON(evt); err != nil {
					f.errorLog.Printf("feed write failed, dropping client: %v", err)
					conn.Close()
					delete(f.clients, conn)
				}
			}
		}
	}
}

func (app *application) DonationFeedHandler(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.errorLog.Printf("WebSocket upgrade error: %v", err)
		return
	}
	app.feed.register <- conn

	// Drain control frames until the client goes away.
	go func() {
		defer func() { app.feed.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
