package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyhub/studyhub/internal/domain/user"
	"github.com/studyhub/studyhub/internal/http/middlewares"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UsersStore interface {
	ExistsByEmailOrUID(ctx context.Context, email, uid string) (bool, error)
	Insert(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error)
	List(ctx context.Context) ([]bson.M, error)
	GetByEmail(ctx context.Context, email string) (bson.M, error)
}

type UsersHandler struct {
	repo UsersStore
}

func NewUsersHandler(repo UsersStore) *UsersHandler {
	return &UsersHandler{repo: repo}
}

type CreateUserRequest struct {
	Email string `json:"email" binding:"required"`
	UID   string `json:"uid" binding:"required"`
}

// Create registers a user document. email and uid are the only required
// fields; everything else passes through to the store unchanged. The
// duplicate check and the insert are two store calls, so concurrent
// signups with the same email can slip past each other.
func (h *UsersHandler) Create(ctx *gin.Context) {
	var req CreateUserRequest

	if !BindJSONBody(ctx, &req) {
		return
	}

	// second decode of the cached body picks up the pass-through fields
	var payload bson.M

	if !BindJSONBody(ctx, &payload) {
		return
	}

	exists, err := h.repo.ExistsByEmailOrUID(ctx.Request.Context(), req.Email, req.UID)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	if exists {
		ctx.JSON(http.StatusOK, gin.H{"message": "User already exists"})
		return
	}

	res, err := h.repo.Insert(ctx.Request.Context(), user.NewDocument(payload))

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, res)
}

func (h *UsersHandler) List(ctx *gin.Context) {
	docs, err := h.repo.List(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	ctx.JSON(http.StatusOK, docs)
}

// GetByEmail is self-only: the path email must match the claim email on
// the token.
func (h *UsersHandler) GetByEmail(ctx *gin.Context) {
	email := ctx.Param("email")

	claimEmail, ok := middlewares.EmailFromContext(ctx)

	if !ok {
		RespondError(ctx, http.StatusUnauthorized, "unauthorized", "Missing identity context", nil)
		return
	}

	if claimEmail != email {
		RespondForbidden(ctx, "Callers may only read their own user record")
		return
	}

	doc, err := h.repo.GetByEmail(ctx.Request.Context(), email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, doc)
}
