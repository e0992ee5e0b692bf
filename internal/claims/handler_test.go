package claims

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/claimflow/claimflow/internal/rbac"
)

func newTestHandler(svc *Service) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, svc, rbac.Middleware{}, nil)
}

func routeRequest(req *http.Request, claimID int64) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", strconv.FormatInt(claimID, 10))
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestDecideReadsChunkedBody(t *testing.T) {
	svc := NewService(newMemoryClaimRepo(), nil, ServiceConfig{})
	h := newTestHandler(svc)

	claim, err := svc.AddClaim(context.Background(), newClaimInput())
	require.NoError(t, err)

	// A reader of unknown length leaves ContentLength at -1, as a chunked
	// request would. The comment must still be decoded.
	body := struct{ io.Reader }{strings.NewReader(`{"comment":"timetable checked against the roster"}`)}
	req := httptest.NewRequest(http.MethodPost, "/claims/verify", body)
	require.Equal(t, int64(-1), req.ContentLength)
	req = routeRequest(req, claim.ID)

	rec := httptest.NewRecorder()
	h.verify(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := svc.GetClaimByID(context.Background(), claim.ID)
	require.NoError(t, err)
	require.Len(t, stored.Approvals, 1)
	require.Equal(t, "timetable checked against the roster", stored.Approvals[0].Comment)
}

func TestDecideWithoutBody(t *testing.T) {
	svc := NewService(newMemoryClaimRepo(), nil, ServiceConfig{})
	h := newTestHandler(svc)

	claim, err := svc.AddClaim(context.Background(), newClaimInput())
	require.NoError(t, err)

	req := routeRequest(httptest.NewRequest(http.MethodPost, "/claims/verify", nil), claim.ID)
	rec := httptest.NewRecorder()
	h.verify(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := svc.GetClaimByID(context.Background(), claim.ID)
	require.NoError(t, err)
	require.Equal(t, StatusVerified, stored.Status)
}
