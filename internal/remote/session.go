package remote

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/state"
)

// sessionJSON never carries the token.
type sessionJSON struct {
	SignedIn bool      `json:"signed_in"`
	UserID   string    `json:"user_id,omitempty"`
	Username string    `json:"username,omitempty"`
	DeviceID string    `json:"device_id,omitempty"`
	SavedAt  time.Time `json:"saved_at,omitzero"`
}

type signInRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Username string `json:"username"`
	Token    string `json:"token" binding:"required"`
}

func toSessionJSON(sess *state.Session) sessionJSON {
	if sess == nil {
		return sessionJSON{}
	}
	return sessionJSON{
		SignedIn: true,
		UserID:   sess.UserID,
		Username: sess.Username,
		DeviceID: sess.DeviceID,
		SavedAt:  sess.SavedAt,
	}
}

func (s *Server) handleSession(c *gin.Context) {
	sess, err := s.sessions.Session()
	if err != nil {
		s.storeError(c, errmsg.OpSessionLoad, err)
		return
	}
	c.JSON(http.StatusOK, toSessionJSON(sess))
}

// handleSignIn stores the account token the catalog client sends on
// subsequent requests.
func (s *Server) handleSignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := s.sessions.SaveSession(state.Session{
		UserID:   req.UserID,
		Username: req.Username,
		Token:    req.Token,
	})
	if err != nil {
		s.storeError(c, errmsg.OpSessionSave, err)
		return
	}
	s.logger.WithField("user", sess.UserID).Info("signed in")
	c.JSON(http.StatusOK, toSessionJSON(&sess))
}

func (s *Server) handleSignOut(c *gin.Context) {
	if err := s.sessions.ClearSession(); err != nil {
		s.storeError(c, errmsg.OpSessionClear, err)
		return
	}
	s.logger.Info("signed out")
	c.Status(http.StatusNoContent)
}

func (s *Server) storeError(c *gin.Context, op errmsg.Op, err error) {
	s.logger.WithError(err).Error(string(op))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errmsg.Format(op, err)})
}
