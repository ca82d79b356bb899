package ws

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/theuzairlab/WrenchEX-Backend/chat"
	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/logger"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
	"github.com/theuzairlab/WrenchEX-Backend/models"
)

// Upgrade rejects plain HTTP requests on the websocket path.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler returns the websocket endpoint for the hub. Browsers cannot set
// an Authorization header on the upgrade request, so the JWT travels in the
// token query parameter instead.
func Handler(h *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, sellerID, ok := authenticate(conn.Query("token"))
		if !ok {
			conn.WriteJSON(Event{Type: "error", Body: "invalid or missing token"})
			conn.Close()
			return
		}

		cl := &client{
			conn:     conn,
			userID:   userID,
			sellerID: sellerID,
			rooms:    make(map[uint]bool),
		}
		h.register(cl)
		if sellerID != 0 {
			chat.SetPresence(db.DB, sellerID, true)
			h.broadcastPresence(sellerID, true)
		}
		defer func() {
			h.unregister(cl)
			if sellerID != 0 {
				chat.SetPresence(db.DB, sellerID, false)
				h.broadcastPresence(sellerID, false)
			}
			conn.Close()
		}()

		for {
			var ev Event
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			handleEvent(h, cl, ev)
		}
	})
}

func handleEvent(h *Hub, cl *client, ev Event) {
	switch ev.Type {
	case "join":
		var thread models.ProductChat
		if err := db.DB.First(&thread, ev.ChatID).Error; err != nil {
			cl.send(Event{Type: "error", ChatID: ev.ChatID, Body: "chat not found"})
			return
		}
		ok, err := chat.IsParticipant(db.DB, &thread, cl.userID)
		if err != nil || !ok {
			cl.send(Event{Type: "error", ChatID: ev.ChatID, Body: "not a participant"})
			return
		}
		h.join(cl, ev.ChatID)
		cl.send(Event{Type: "joined", ChatID: ev.ChatID})

	case "message":
		msgType := models.MessageType(ev.MsgType)
		if msgType == "" {
			msgType = models.MessageText
		}
		msg, err := chat.SendMessage(db.DB, ev.ChatID, cl.userID, msgType, ev.Body, ev.OfferPrice)
		if err != nil {
			cl.send(Event{Type: "error", ChatID: ev.ChatID, Body: err.Error()})
			return
		}
		// SendMessage already notified the room through the hub; echo the
		// persisted message back so the sender gets the assigned ID.
		raw, _ := json.Marshal(msg)
		cl.send(Event{Type: "sent", ChatID: ev.ChatID, Data: raw})

	case "typing":
		if !cl.rooms[ev.ChatID] {
			return
		}
		h.Publish(ev.ChatID, "typing", map[string]interface{}{"user_id": cl.userID})

	case "read":
		if !cl.rooms[ev.ChatID] {
			return
		}
		if err := chat.MarkRead(db.DB, ev.ChatID, cl.userID); err != nil {
			logger.L().Warn("ws mark read failed", zap.Uint("chat_id", ev.ChatID), zap.Error(err))
		}

	default:
		cl.send(Event{Type: "error", Body: "unknown event type"})
	}
}

func authenticate(token string) (userID, sellerID uint, ok bool) {
	if token == "" {
		return 0, 0, false
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, okm := t.Method.(*jwt.SigningMethodHMAC); !okm {
			return nil, jwt.ErrSignatureInvalid
		}
		return middleware.Secret(), nil
	})
	if err != nil || !parsed.Valid {
		return 0, 0, false
	}
	claims, okc := parsed.Claims.(jwt.MapClaims)
	if !okc {
		return 0, 0, false
	}
	if id, okf := claims["id"].(float64); okf {
		userID = uint(id)
	}
	if sid, okf := claims["seller_id"].(float64); okf {
		sellerID = uint(sid)
	}
	return userID, sellerID, userID != 0
}
