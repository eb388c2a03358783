package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"car-management-api/internal/middleware"
	"car-management-api/internal/store"
)

// request bodies above this are rejected with 413
const maxBodyBytes = 1 << 20

type Handler struct {
	store      store.Store
	secret     string
	production bool
	log        *zap.Logger
}

func New(st store.Store, secret string, production bool, log *zap.Logger) *Handler {
	return &Handler{store: st, secret: secret, production: production, log: log}
}

// fail maps store errors to a response. Anything unrecognised is a 500
// and gets logged with its cause.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, store.ErrInvalidID) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	h.log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.String("request_id", middleware.RequestIDFrom(c)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}

func limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": bindMessage(err)})
}

func bindMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
