package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyhub/studyhub/internal/domain/assignment"
	"github.com/studyhub/studyhub/internal/http/middlewares"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AssignmentsStore is the slice of the Mongo repo the handlers need;
// tests fake it.
type AssignmentsStore interface {
	List(ctx context.Context) ([]bson.M, error)
	GetByID(ctx context.Context, id string) (bson.M, error)
	Insert(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error)
	UpdateByID(ctx context.Context, id string, fields bson.M) (*mongo.UpdateResult, error)
	DeleteOwned(ctx context.Context, id, ownerEmail string) (*mongo.DeleteResult, error)
}

type AssignmentsHandler struct {
	repo AssignmentsStore
}

func NewAssignmentsHandler(repo AssignmentsStore) *AssignmentsHandler {
	return &AssignmentsHandler{repo: repo}
}

func (h *AssignmentsHandler) List(ctx *gin.Context) {
	docs, err := h.repo.List(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not list assignments")
		return
	}

	ctx.JSON(http.StatusOK, docs)
}

// Create persists the posted document as-is; the store result carries
// the generated id back to the client.
func (h *AssignmentsHandler) Create(ctx *gin.Context) {
	var doc bson.M

	if !BindJSON(ctx, &doc) {
		return
	}

	res, err := h.repo.Insert(ctx.Request.Context(), doc)

	if err != nil {
		RespondInternal(ctx, "Could not create assignment")
		return
	}

	ctx.JSON(http.StatusCreated, res)
}

func (h *AssignmentsHandler) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	doc, err := h.repo.GetByID(ctx.Request.Context(), id)

	if err != nil {
		switch {
		case errors.Is(err, assignment.ErrInvalidID):
			RespondBadRequest(ctx, "Malformed assignment id", nil)
		case errors.Is(err, assignment.ErrNotFound):
			RespondNotFound(ctx, "Assignment not found")
		default:
			RespondInternal(ctx, "Could not fetch assignment")
		}
		return
	}

	ctx.JSON(http.StatusOK, doc)
}

// Update is the fetch-then-compare-then-act ownership style: read the
// document, check the owner field against the caller, then apply the
// partial update as a second store call. The check and the act are not
// atomic.
func (h *AssignmentsHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	email, ok := middlewares.EmailFromContext(ctx)

	if !ok {
		RespondError(ctx, http.StatusUnauthorized, "unauthorized", "Missing identity context", nil)
		return
	}

	doc, err := h.repo.GetByID(ctx.Request.Context(), id)

	if err != nil {
		switch {
		case errors.Is(err, assignment.ErrInvalidID):
			RespondBadRequest(ctx, "Malformed assignment id", nil)
		case errors.Is(err, assignment.ErrNotFound):
			RespondNotFound(ctx, "Assignment not found")
		default:
			RespondInternal(ctx, "Could not fetch assignment")
		}
		return
	}

	owner, _ := doc[assignment.OwnerField].(string)

	if owner != email {
		RespondForbidden(ctx, "Only the creator can update this assignment")
		return
	}

	var fields bson.M

	if !BindJSON(ctx, &fields) {
		return
	}

	// the owner field is immutable after creation, and the id is not a
	// settable field
	delete(fields, assignment.OwnerField)
	delete(fields, "_id")

	if len(fields) == 0 {
		RespondBadRequest(ctx, "No updatable fields in request body", nil)
		return
	}

	res, err := h.repo.UpdateByID(ctx.Request.Context(), id, fields)

	if err != nil {
		RespondInternal(ctx, "Could not update assignment")
		return
	}

	ctx.JSON(http.StatusOK, res)
}

// Delete is the compare-in-query ownership style: one delete filtered on
// id and owner. Deleting nothing means not-owner or not-found; the two
// are reported as one forbidden response.
func (h *AssignmentsHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	email, ok := middlewares.EmailFromContext(ctx)

	if !ok {
		RespondError(ctx, http.StatusUnauthorized, "unauthorized", "Missing identity context", nil)
		return
	}

	res, err := h.repo.DeleteOwned(ctx.Request.Context(), id, email)

	if err != nil {
		if errors.Is(err, assignment.ErrInvalidID) {
			RespondBadRequest(ctx, "Malformed assignment id", nil)
			return
		}
		RespondInternal(ctx, "Could not delete assignment")
		return
	}

	if res.DeletedCount == 0 {
		RespondForbidden(ctx, "Assignment not found or not owned by caller")
		return
	}

	ctx.JSON(http.StatusOK, res)
}
