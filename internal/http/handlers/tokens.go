package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type TokenIssuer interface {
	Issue(payload map[string]any) (string, error)
}

type TokensHandler struct {
	jwt TokenIssuer
}

func NewTokensHandler(jwt TokenIssuer) *TokensHandler {
	return &TokensHandler{jwt: jwt}
}

// Create mints a bearer token for whatever claim payload the caller
// posts. There is no verification of the claimed identity; the endpoint
// is open and the payload is trusted as-is.
func (h *TokensHandler) Create(ctx *gin.Context) {
	var payload map[string]any

	if !BindJSON(ctx, &payload) {
		return
	}

	token, err := h.jwt.Issue(payload)

	if err != nil {
		RespondInternal(ctx, "Could not issue token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
