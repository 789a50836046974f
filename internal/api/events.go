package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/akopian/portfolio/internal/gate"
	"github.com/akopian/portfolio/internal/i18n"
	"github.com/akopian/portfolio/internal/models"
	"github.com/akopian/portfolio/internal/shell"
)

// ErrUnknownCommand is returned for websocket commands the shell does not know
var ErrUnknownCommand = errors.New("unknown command")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Keystrokes arrive as input commands; this is generous for typing
	commandRate  = rate.Limit(30)
	commandBurst = 60
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventMessage is pushed to the browser
type EventMessage struct {
	Type  string             `json:"type"` // state | error
	State *models.ShellState `json:"state,omitempty"`
	Error string             `json:"error,omitempty"`
}

// CommandMessage is received from the browser
type CommandMessage struct {
	Type     string `json:"type"` // open | input | submit | close | language
	Text     string `json:"text,omitempty"`
	Language string `json:"language,omitempty"`
}

func (s *Server) handleShellEvents(w http.ResponseWriter, r *http.Request) {
	sh := ShellFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("shell events connected", "shell_id", sh.ID)

	updates, unsubscribe := sh.Subscribe()
	defer unsubscribe()

	replies := make(chan EventMessage, 4)
	done := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)

	reply := func(msg EventMessage) bool {
		select {
		case replies <- msg:
			return true
		case <-stop:
			return false
		}
	}

	commands := rate.NewLimiter(commandRate, commandBurst)

	// Read commands from the browser
	go func() {
		defer close(done)

		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("websocket read error", "error", err)
				}
				return
			}

			var cmd CommandMessage
			if err := json.Unmarshal(message, &cmd); err != nil {
				slog.Debug("invalid command format", "error", err)
				if !reply(EventMessage{Type: "error", Error: "invalid command"}) {
					return
				}
				continue
			}

			if !commands.Allow() {
				if !reply(EventMessage{Type: "error", Error: "too many commands"}) {
					return
				}
				continue
			}

			sh.Touch()
			if err := s.applyCommand(r, sh, cmd); err != nil {
				if !reply(EventMessage{Type: "error", Error: err.Error()}) {
					return
				}
			}
		}
	}()

	initial := sh.State()
	if err := s.sendEvent(conn, EventMessage{Type: "state", State: &initial}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			slog.Info("shell events disconnected", "shell_id", sh.ID)
			return
		case state, ok := <-updates:
			if !ok {
				// Shell deleted or expired
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shell closed"),
					time.Now().Add(writeWait))
				return
			}
			if err := s.sendEvent(conn, EventMessage{Type: "state", State: &state}); err != nil {
				return
			}
		case msg := <-replies:
			if err := s.sendEvent(conn, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Debug("websocket ping failed", "error", err)
				return
			}
		}
	}
}

// applyCommand runs one browser command against the shell. State changes
// reach the browser through the shell subscription, not through the result.
func (s *Server) applyCommand(r *http.Request, sh *shell.Shell, cmd CommandMessage) error {
	switch cmd.Type {
	case "open":
		sh.Gate().Open()
	case "input":
		sh.Gate().Input(cmd.Text)
	case "submit":
		if !s.allowSubmit(r, clientKey(r)) {
			return gate.ErrRateLimited
		}
		sh.Gate().Submit(cmd.Text)
	case "close":
		sh.Gate().Close()
	case "language":
		lang, err := i18n.ParseLanguage(cmd.Language)
		if err != nil {
			return err
		}
		sh.Store().SetLanguage(lang)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	return nil
}

func (s *Server) sendEvent(conn *websocket.Conn, msg EventMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal event", "error", err)
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send event", "error", err)
		return err
	}
	return nil
}
