package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fundedhub/backend/internal/bot/domain"
	"github.com/fundedhub/backend/internal/common/constants"
	commonhttp "github.com/fundedhub/backend/internal/common/http"
	"github.com/fundedhub/backend/internal/common/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  constants.WebSocketReadBufferSize,
	WriteBufferSize: constants.WebSocketWriteBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type chatMessage struct {
	Question string `json:"question"`
}

type chatReply struct {
	Answer string `json:"answer"`
	Error  string `json:"error,omitempty"`
}

// chat runs a websocket conversation with the bot. The connection keeps a
// rolling window of recent exchanges so follow-up questions have context.
func (h *Handler) chat(w http.ResponseWriter, r *http.Request, id domain.ID) {
	if _, err := h.bots.Get(r.Context(), id); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("websocket upgrade failed for bot %s: %v", string(id), err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(constants.WebSocketMaxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(constants.WebSocketPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(constants.WebSocketPongWait))
	})

	// pings and replies share the connection, so writes are serialized
	var writeMu sync.Mutex

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(conn, &writeMu, done)

	h.log.WithFields(r.Context(), logger.Fields{
		"bot_id": string(id),
		"action": "bot_chat_opened",
	}).Info("bot chat session opened")

	var history []domain.Exchange
	for {
		var msg chatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warnf("bot chat read failed: %v", err)
			}
			return
		}
		if msg.Question == "" {
			continue
		}

		answer, err := h.bots.Ask(r.Context(), id, msg.Question, history)
		if err != nil {
			h.log.Warnf("bot chat answer failed: %v", err)
			if writeErr := writeReply(conn, &writeMu, chatReply{Error: "failed to generate an answer"}); writeErr != nil {
				return
			}
			continue
		}

		if writeErr := writeReply(conn, &writeMu, chatReply{Answer: answer}); writeErr != nil {
			return
		}

		history = append(history, domain.Exchange{Question: msg.Question, Answer: answer})
		if len(history) > constants.BotChatMemoryWindow {
			history = history[len(history)-constants.BotChatMemoryWindow:]
		}
	}
}

func writeReply(conn *websocket.Conn, mu *sync.Mutex, reply chatReply) error {
	mu.Lock()
	defer mu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(constants.WebSocketWriteWait))
	return conn.WriteJSON(reply)
}

func (h *Handler) pingLoop(conn *websocket.Conn, mu *sync.Mutex, done <-chan struct{}) {
	ticker := time.NewTicker(constants.WebSocketPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(constants.WebSocketWriteWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			mu.Unlock()
			if err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
