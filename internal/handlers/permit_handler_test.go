package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/models"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/services"
)

func newPermitRouter(h *PermitHandler, ownerID int) *gin.Engine {
	r := gin.New()
	authed := func(c *gin.Context) {
		c.Set("user_id", ownerID)
		c.Next()
	}
	g := r.Group("/permits", authed)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/cancel", h.Cancel)
	return r
}

func TestCreatePermitRejectsAmountMismatch(t *testing.T) {
	permits := &mockPermitService{
		createFunc: func(ownerID int, req *models.PermitRequest) (*models.Permit, error) {
			return nil, services.ErrAmountMismatch
		},
	}
	r := newPermitRouter(NewPermitHandler(permits), 9)

	w := postJSON(r, "/permits", models.PermitRequest{
		FullName:        "Adaeze Okafor",
		Email:           "adaeze@example.com",
		Phone:           "+2348012345678",
		PermitType:      "business-permit",
		ApplicationType: "new",
		Amount:          4999,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "does not match the fee")
}

func TestCreatePermitReturnsCreated(t *testing.T) {
	permits := &mockPermitService{
		createFunc: func(ownerID int, req *models.PermitRequest) (*models.Permit, error) {
			require.Equal(t, 9, ownerID)
			return &models.Permit{ID: 1, UserID: ownerID, Reference: "PRM-abc", Status: models.StatusPendingPayment}, nil
		},
	}
	r := newPermitRouter(NewPermitHandler(permits), 9)

	w := postJSON(r, "/permits", models.PermitRequest{
		FullName:        "Adaeze Okafor",
		Email:           "adaeze@example.com",
		Phone:           "+2348012345678",
		PermitType:      "business-permit",
		ApplicationType: "new",
		Amount:          5000,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "PRM-abc")
}

func TestGetPermitCrossOwnerIs404(t *testing.T) {
	permits := &mockPermitService{
		getFunc: func(ownerID, permitID int) (*models.Permit, error) {
			return nil, services.ErrPermitNotFound
		},
	}
	r := newPermitRouter(NewPermitHandler(permits), 9)

	req := httptest.NewRequest(http.MethodGet, "/permits/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	// existence of another citizen's permit is never disclosed
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPermitRejectsNonNumericID(t *testing.T) {
	r := newPermitRouter(NewPermitHandler(&mockPermitService{}), 9)

	req := httptest.NewRequest(http.MethodGet, "/permits/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPermitsEmptyIsArrayNotNull(t *testing.T) {
	permits := &mockPermitService{
		listFunc: func(ownerID int) ([]*models.Permit, error) { return nil, nil },
	}
	r := newPermitRouter(NewPermitHandler(permits), 9)

	req := httptest.NewRequest(http.MethodGet, "/permits", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestCancelPermitStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"settled", services.ErrInvalidStatus, http.StatusBadRequest},
		{"not owned", services.ErrPermitNotFound, http.StatusNotFound},
		{"ok", nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			permits := &mockPermitService{
				cancelFunc: func(ownerID, permitID int) error { return tc.err },
			}
			r := newPermitRouter(NewPermitHandler(permits), 9)

			req := httptest.NewRequest(http.MethodPost, "/permits/42/cancel", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.want, w.Code)
		})
	}
}
