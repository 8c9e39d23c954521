package handlers

import (
	"net/http"
	"strconv"
	"time"

	"irrigation_console/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Stream timing and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
)

// Frame types written to stream subscribers.
const (
	wsTypeDashboard = "dashboard"
	wsTypeLogs      = "logs"
)

type wsEnvelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// The gateway serves the local UI only.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamCursor remembers what a subscriber has already received so that
// unchanged state is not re-sent every interval.
type streamCursor struct {
	sentDashboard bool
	dashboardAt   time.Time
	dataAge       string
	sentLogs      bool
	logsPage      int
	logsTotal     int
	logsHead      int64
}

func (s *streamCursor) dashboardChanged(d service.Dashboard) bool {
	if s.sentDashboard && s.dashboardAt.Equal(d.AppliedAt) && s.dataAge == d.DataAge {
		return false
	}
	s.sentDashboard, s.dashboardAt, s.dataAge = true, d.AppliedAt, d.DataAge
	return true
}

func (s *streamCursor) logsChanged(v service.LogView) bool {
	var head int64
	if len(v.Data) > 0 {
		head = v.Data[0].ID
	}
	if s.sentLogs && s.logsPage == v.Page && s.logsTotal == v.Total && s.logsHead == head {
		return false
	}
	s.sentLogs, s.logsPage, s.logsTotal, s.logsHead = true, v.Page, v.Total, head
	return true
}

// wsConnect streams dashboard and log page updates. Every check interval the
// latest applied state is compared with what was last sent. The stream is
// closed once the session is logged out.
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	check := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		check.Stop()
		ping.Stop()
	}()

	var cursor streamCursor
	if err := h.pushChanges(conn, &cursor); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-check.C:
			if !h.services.CurrentSession().IsAuthenticated() {
				h.closeStream(conn, errNotLoggedIn)
				return
			}
			if err := h.pushChanges(conn, &cursor); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000, bounded by maxInterval.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return h.streamInterval
}

// startReader drains incoming frames so control frames are handled and a
// closed peer is noticed.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}

func (h *Handler) pushChanges(conn *websocket.Conn, cursor *streamCursor) error {
	if d := h.services.Dashboard(); cursor.dashboardChanged(d) {
		if err := writeFrame(conn, wsTypeDashboard, d); err != nil {
			return err
		}
	}
	if v := h.services.Logs(); cursor.logsChanged(v) {
		if err := writeFrame(conn, wsTypeLogs, v); err != nil {
			return err
		}
	}
	return nil
}

// closeStream sends a policy-violation close frame with reason.
func (h *Handler) closeStream(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil && h.log != nil {
		h.log.Infow("ws_close_failed", "err", err)
	}
}

func writeFrame(conn *websocket.Conn, typ string, data interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: typ, Data: data})
}
