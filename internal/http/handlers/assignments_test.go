package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/studyhub/studyhub/internal/auth"
	"github.com/studyhub/studyhub/internal/domain/assignment"
	"github.com/studyhub/studyhub/internal/http/handlers"
	"github.com/studyhub/studyhub/internal/http/middlewares"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake repository implementation of handlers.AssignmentsStore

type fakeAssignmentsRepo struct {
	listFn   func(ctx context.Context) ([]bson.M, error)
	getFn    func(ctx context.Context, id string) (bson.M, error)
	insertFn func(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error)
	updateFn func(ctx context.Context, id string, fields bson.M) (*mongo.UpdateResult, error)
	deleteFn func(ctx context.Context, id, ownerEmail string) (*mongo.DeleteResult, error)
}

func (f *fakeAssignmentsRepo) List(ctx context.Context) ([]bson.M, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []bson.M{}, nil
}

func (f *fakeAssignmentsRepo) GetByID(ctx context.Context, id string) (bson.M, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return bson.M{}, nil
}

func (f *fakeAssignmentsRepo) Insert(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
	if f.insertFn != nil {
		return f.insertFn(ctx, doc)
	}
	return &mongo.InsertOneResult{InsertedID: primitive.NewObjectID()}, nil
}

func (f *fakeAssignmentsRepo) UpdateByID(ctx context.Context, id string, fields bson.M) (*mongo.UpdateResult, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, fields)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeAssignmentsRepo) DeleteOwned(ctx context.Context, id, ownerEmail string) (*mongo.DeleteResult, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id, ownerEmail)
	}
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

// fake token verifier so the real RequireAuth middleware runs in front of
// the handlers under test

type fakeVerifier struct {
	email string
	err   error
}

func (f *fakeVerifier) Verify(token string) (*auth.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &auth.Claims{Email: f.email}, nil
}

// small helper which returns a gin engine to mount one guarded handler
// per test

func setupGuardedRouter(method, path string, v middlewares.TokenVerifier, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	authMw := middlewares.NewAuthMiddleware(v)
	r.Handle(method, path, authMw.RequireAuth(), h)

	return r
}

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func doJSON(r http.Handler, method, path, body string, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestCreateAssignmentHandler(t *testing.T) {
	validID := primitive.NewObjectID()

	tests := []struct {
		name           string
		body           string
		bearer         string
		verifier       *fakeVerifier
		repoSetUp      func(*fakeAssignmentsRepo)
		wantStatusCode int
	}{
		{
			name:     "success",
			body:     `{"title":"HW1","difficulty":"easy","marks":"60","creatorEmail":"a@x.com"}`,
			bearer:   "token",
			verifier: &fakeVerifier{email: "a@x.com"},
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.insertFn = func(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
					if doc["title"] != "HW1" {
						t.Errorf("document not passed through: %v", doc)
					}
					return &mongo.InsertOneResult{InsertedID: validID}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:     "missing_token",
			body:     `{"title":"HW1"}`,
			bearer:   "",
			verifier: &fakeVerifier{email: "a@x.com"},
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.insertFn = func(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
					t.Errorf("insert called without a token")
					return nil, nil
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:     "invalid_token",
			body:     `{"title":"HW1"}`,
			bearer:   "bad",
			verifier: &fakeVerifier{err: auth.ErrInvalidToken},
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.insertFn = func(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
					t.Errorf("insert called with an invalid token")
					return nil, nil
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:     "repo_error",
			body:     `{"title":"HW1"}`,
			bearer:   "token",
			verifier: &fakeVerifier{email: "a@x.com"},
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.insertFn = func(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
					return nil, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAssignmentsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAssignmentsHandler(repo)

			r := setupGuardedRouter(http.MethodPost, "/assignments", tt.verifier, h.Create)

			w := doJSON(r, http.MethodPost, "/assignments", tt.body, tt.bearer)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestListAssignmentsHandler(t *testing.T) {
	tests := []struct {
		name           string
		repoSetUp      func(*fakeAssignmentsRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.listFn = func(ctx context.Context) ([]bson.M, error) {
					return []bson.M{
						{"title": "HW1", "creatorEmail": "a@x.com"},
						{"title": "HW2", "creatorEmail": "b@x.com"},
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "repo_error",
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.listFn = func(ctx context.Context) ([]bson.M, error) {
					return nil, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAssignmentsRepo{}
			tt.repoSetUp(repo)

			h := handlers.NewAssignmentsHandler(repo)

			r := setupRouter(http.MethodGet, "/assignments", h.List)

			req := httptest.NewRequest(http.MethodGet, "/assignments", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestGetAssignmentByIDHandler(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		repoSetUp      func(*fakeAssignmentsRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			id:   primitive.NewObjectID().Hex(),
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.getFn = func(ctx context.Context, id string) (bson.M, error) {
					return bson.M{"title": "HW1"}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "malformed_id",
			id:   "garbage",
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.getFn = func(ctx context.Context, id string) (bson.M, error) {
					return nil, assignment.ErrInvalidID
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "absent",
			id:   primitive.NewObjectID().Hex(),
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.getFn = func(ctx context.Context, id string) (bson.M, error) {
					return nil, assignment.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAssignmentsRepo{}
			tt.repoSetUp(repo)

			h := handlers.NewAssignmentsHandler(repo)

			r := setupRouter(http.MethodGet, "/assignments/:id", h.GetByID)

			req := httptest.NewRequest(http.MethodGet, "/assignments/"+tt.id, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestUpdateAssignmentHandler(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	tests := []struct {
		name           string
		body           string
		bearer         string
		verifier       *fakeVerifier
		repoSetUp      func(*fakeAssignmentsRepo)
		wantStatusCode int
	}{
		{
			name:     "owner_can_update",
			body:     `{"title":"HW1 v2","creatorEmail":"mallory@x.com"}`,
			bearer:   "token",
			verifier: &fakeVerifier{email: "a@x.com"},
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.getFn = func(ctx context.Context, gotID string) (bson.M, error) {
					return bson.M{"title": "HW1", "creatorEmail": "a@x.com"}, nil
				}
				f.updateFn = func(ctx context.Context, gotID string, fields bson.M) (*mongo.UpdateResult, error) {
					// the owner field may never travel in a patch
					if _, ok := fields["creatorEmail"]; ok {
						t.Errorf("creatorEmail leaked into update fields: %v", fields)
					}
					if fields["title"] != "HW1 v2" {
						t.Errorf("unexpected update fields: %v", fields)
					}
					return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:     "non_owner_forbidden",
			body:     `{"title":"HW1 v2"}`,
			bearer:   "token",
			verifier: &fakeVerifier{email: "b@x.com"},
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.getFn = func(ctx context.Context, gotID string) (bson.M, error) {
					return bson.M{"title": "HW1", "creatorEmail": "a@x.com"}, nil
				}
				f.updateFn = func(ctx context.Context, gotID string, fields bson.M) (*mongo.UpdateResult, error) {
					t.Errorf("update called for a non-owner")
					return nil, nil
				}
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:     "missing_token",
			body:     `{"title":"HW1 v2"}`,
			bearer:   "",
			verifier: &fakeVerifier{email: "a@x.com"},
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.updateFn = func(ctx context.Context, gotID string, fields bson.M) (*mongo.UpdateResult, error) {
					t.Errorf("update called without a token")
					return nil, nil
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:     "absent",
			body:     `{"title":"HW1 v2"}`,
			bearer:   "token",
			verifier: &fakeVerifier{email: "a@x.com"},
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.getFn = func(ctx context.Context, gotID string) (bson.M, error) {
					return nil, assignment.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAssignmentsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAssignmentsHandler(repo)

			r := setupGuardedRouter(http.MethodPatch, "/assignments/:id", tt.verifier, h.Update)

			w := doJSON(r, http.MethodPatch, "/assignments/"+id, tt.body, tt.bearer)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestDeleteAssignmentHandler(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	tests := []struct {
		name           string
		bearer         string
		verifier       *fakeVerifier
		repoSetUp      func(*fakeAssignmentsRepo)
		wantStatusCode int
	}{
		{
			name:     "owner_can_delete",
			bearer:   "token",
			verifier: &fakeVerifier{email: "a@x.com"},
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.deleteFn = func(ctx context.Context, gotID, ownerEmail string) (*mongo.DeleteResult, error) {
					if ownerEmail != "a@x.com" {
						t.Errorf("got owner filter %q, want claim email", ownerEmail)
					}
					return &mongo.DeleteResult{DeletedCount: 1}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:     "zero_matched_is_forbidden",
			bearer:   "token",
			verifier: &fakeVerifier{email: "b@x.com"},
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.deleteFn = func(ctx context.Context, gotID, ownerEmail string) (*mongo.DeleteResult, error) {
					return &mongo.DeleteResult{DeletedCount: 0}, nil
				}
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:     "missing_token",
			bearer:   "",
			verifier: &fakeVerifier{email: "a@x.com"},
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.deleteFn = func(ctx context.Context, gotID, ownerEmail string) (*mongo.DeleteResult, error) {
					t.Errorf("delete called without a token")
					return nil, nil
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed_id",
			bearer:   "token",
			verifier: &fakeVerifier{email: "a@x.com"},
			repoSetUp: func(f *fakeAssignmentsRepo) {
				f.deleteFn = func(ctx context.Context, gotID, ownerEmail string) (*mongo.DeleteResult, error) {
					return nil, assignment.ErrInvalidID
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAssignmentsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAssignmentsHandler(repo)

			r := setupGuardedRouter(http.MethodDelete, "/assignments/:id", tt.verifier, h.Delete)

			w := doJSON(r, http.MethodDelete, "/assignments/"+id, "", tt.bearer)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
