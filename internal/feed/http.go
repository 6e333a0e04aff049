package feed

import (
	"net/http"
	"strconv"

	"github.com/Arten331/observability/logger"
	"github.com/go-chi/chi/v5"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"go.uber.org/zap"
)

// StreamHandler upgrades the connection and streams the user's deliveries
// until the client goes away.
func (h *Hub) StreamHandler() http.HandlerFunc {
	fn := func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			http.Error(w, "bad user id", http.StatusBadRequest)

			return
		}

		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			logger.L().Error("handshake error", zap.Error(err))

			return
		}

		messages, detach := h.subscribe(userID)

		logger.L().Debug("feed client connected", zap.Int64("user_id", userID), zap.String("remote", conn.RemoteAddr().String()))

		closed := make(chan struct{})

		// the read side only detects the client going away
		go func() {
			for {
				_, _, err := wsutil.ReadClientData(conn)
				if err != nil {
					close(closed)

					return
				}
			}
		}()

		go func() {
			defer func() {
				detach()
				_ = conn.Close()
			}()

			for {
				select {
				case msg := <-messages:
					err := wsutil.WriteServerMessage(conn, ws.OpText, msg)
					if err != nil {
						logger.L().Debug("feed client gone", zap.Int64("user_id", userID), zap.Error(err))

						return
					}
				case <-closed:
					return
				}
			}
		}()
	}

	return fn
}
