package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"car-management-api/internal/auth"
)

// IssueToken signs the request body as the session claims and sets the
// session cookie. An empty body signs an empty payload.
func (h *Handler) IssueToken(c *gin.Context) {
	limitBody(c)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	payload := map[string]any{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := binding.JSON.BindBody(body, &payload); err != nil {
			h.badRequest(c, err)
			return
		}
	}

	tok, err := auth.MakeToken(payload, h.secret)
	if err != nil {
		h.fail(c, err)
		return
	}

	http.SetCookie(c.Writer, auth.SessionCookie(tok, h.production))
	c.JSON(http.StatusOK, gin.H{"status": true})
}

// Logout clears the session cookie without looking at it.
func (h *Handler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, auth.ClearedCookie(h.production))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
