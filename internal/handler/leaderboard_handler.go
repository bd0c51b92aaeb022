package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"solvetrack/internal/service"
	"solvetrack/pkg/response"
)

type LeaderboardHandler struct {
	service  service.LeaderboardService
	upgrader websocket.Upgrader
}

func NewLeaderboardHandler(leaderboardService service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: leaderboardService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS is enforced at the router level
			},
		},
	}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// HandleWebSocket streams the full sorted leaderboard to the client on every
// underlying change. The subscription is released when the socket closes, so
// a dropped client never leaks a watch.
func (h *LeaderboardHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	updates := make(chan []service.LeaderboardEntry, 8)
	errs := make(chan error, 1)

	unsubscribe := h.service.Subscribe(
		func(entries []service.LeaderboardEntry) {
			select {
			case updates <- entries:
			default:
				// Slow client: drop this frame, the next change
				// delivers the complete set again.
			}
		},
		func(err error) {
			select {
			case errs <- err:
			default:
			}
		},
	)
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case err := <-errs:
			log.Printf("leaderboard watch error: %v", err)
			conn.WriteJSON(gin.H{"error": "leaderboard unavailable"})
			return
		case entries := <-updates:
			if err := conn.WriteJSON(gin.H{"data": entries}); err != nil {
				return
			}
		}
	}
}
