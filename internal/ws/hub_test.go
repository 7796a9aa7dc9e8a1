package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hostelhub/config"
	"hostelhub/internal/auth"
	"hostelhub/internal/domain"
	"hostelhub/internal/models"
	"hostelhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func TestPublishOnlyReachesHostelWatchers(t *testing.T) {
	hub := NewHub()
	hostel := uuid.New()
	watching := &Client{HostelID: hostel, Send: make(chan []byte, 1)}
	elsewhere := &Client{HostelID: uuid.New(), Send: make(chan []byte, 1)}
	hub.Register(watching)
	hub.Register(elsewhere)

	entry := models.WaitlistEntry{ID: uuid.New(), HostelID: hostel, Status: domain.WaitlistWaiting}
	hub.PublishWaitlistEvent(hostel, service.WaitlistEvent{Type: domain.EventWaitlistJoined, Entry: entry})

	select {
	case msg := <-watching.Send:
		var got service.WaitlistEvent
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatal(err)
		}
		if got.Type != domain.EventWaitlistJoined || got.Entry.ID != entry.ID {
			t.Errorf("event = %+v", got)
		}
	default:
		t.Fatal("watcher got nothing")
	}
	if len(elsewhere.Send) != 0 {
		t.Error("event leaked to another hostel")
	}

	// full buffer drops instead of blocking
	hub.PublishWaitlistEvent(hostel, service.WaitlistEvent{Type: domain.EventWaitlistNotified})
	hub.PublishWaitlistEvent(hostel, service.WaitlistEvent{Type: domain.EventWaitlistNotified})

	watching.Close()
	watching.Close()
	if hub.ClientCount(hostel) != 0 {
		t.Errorf("client count = %d after close", hub.ClientCount(hostel))
	}
	hub.PublishWaitlistEvent(hostel, service.WaitlistEvent{Type: domain.EventWaitlistCancelled})
}

func TestUpgradeWaitlistWS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.JWTConfig{AccessSecret: "ws-secret", AccessExpiry: time.Hour, Issuer: "hostelhub"}
	hub := NewHub()
	r := gin.New()
	r.GET("/ws/waitlist", UpgradeWaitlistWS(cfg, hub))
	srv := httptest.NewServer(r)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/waitlist"
	hostel := uuid.New()

	studentToken, _ := auth.IssueAccessToken(cfg, auth.Principal{UserID: uuid.New(), Email: "s@test", Role: domain.RoleStudent})
	if _, resp, err := websocket.DefaultDialer.Dial(base+"?hostel_id="+hostel.String()+"&token="+studentToken, nil); err == nil {
		t.Fatal("student should be refused")
	} else if resp == nil || resp.StatusCode != 403 {
		t.Fatalf("student: %v", err)
	}

	token, _ := auth.IssueAccessToken(cfg, auth.Principal{UserID: uuid.New(), Email: "w@test", Role: domain.RoleWarden})
	conn, _, err := websocket.DefaultDialer.Dial(base+"?hostel_id="+hostel.String()+"&token="+token, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount(hostel) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	entryID := uuid.New()
	hub.PublishWaitlistEvent(hostel, service.WaitlistEvent{Type: domain.EventWaitlistConverted, Entry: models.WaitlistEntry{ID: entryID, HostelID: hostel}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got service.WaitlistEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Type != domain.EventWaitlistConverted || got.Entry.ID != entryID {
		t.Errorf("event = %+v", got)
	}
}
