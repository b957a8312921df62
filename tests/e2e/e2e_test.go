package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fieldbook/internal/database"
	"fieldbook/internal/domain"
	"fieldbook/internal/middleware"
	"fieldbook/internal/modules/booking"
	"fieldbook/internal/modules/payment"
	jwtsvc "fieldbook/internal/pkg/jwt"
	"fieldbook/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
	jwt    *jwtsvc.Service

	captain domain.User
	owner   domain.User
	admin   domain.User
	field   domain.Field
	team    domain.Team
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	s := &E2ETestSuite{db: db, jwt: jwtsvc.New("e2e-test-secret", time.Hour)}

	s.captain = domain.User{Email: "captain@test.local", Role: domain.RolePlayer, Name: "Captain"}
	s.owner = domain.User{Email: "owner@test.local", Role: domain.RoleFieldOwner, Name: "Owner"}
	s.admin = domain.User{Email: "admin@test.local", Role: domain.RoleAdmin, Name: "Admin"}
	require.NoError(t, db.Create(&s.captain).Error)
	require.NoError(t, db.Create(&s.owner).Error)
	require.NoError(t, db.Create(&s.admin).Error)

	s.field = domain.Field{
		OwnerID:     s.owner.ID,
		Name:        "Central Arena",
		City:        "Almaty",
		Surface:     domain.SurfaceArtificial,
		RatePerHour: 50,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&s.field).Error)

	s.team = domain.Team{Name: "Night Owls", CaptainID: s.captain.ID, City: "Almaty"}
	require.NoError(t, db.Create(&s.team).Error)

	bookingRepo := repository.NewBookingRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	teamRepo := repository.NewTeamRepository(db)

	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, fieldRepo, teamRepo, nil))
	paymentHandler := payment.NewHandler(payment.NewService(bookingRepo))

	r := gin.New()
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	protected := v1.Group("/")
	protected.Use(middleware.Auth(s.jwt))
	bookingHandler.RegisterRoutes(protected)
	paymentHandler.RegisterRoutes(protected)

	s.router = r
	return s
}

func (s *E2ETestSuite) tokenFor(t *testing.T, u domain.User) string {
	token, err := s.jwt.GenerateToken(u.ID, string(u.Role))
	require.NoError(t, err)
	return token
}

func (s *E2ETestSuite) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, TestResponse) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func bookingFromResponse(t *testing.T, resp TestResponse) map[string]interface{} {
	b, ok := resp.Data["booking"].(map[string]interface{})
	require.True(t, ok, "response has no booking payload")
	return b
}

func TestBookingLifecycleFlow(t *testing.T) {
	s := setupTestSuite(t)

	captainToken := s.tokenFor(t, s.captain)
	ownerToken := s.tokenFor(t, s.owner)

	start := time.Now().UTC().Truncate(time.Hour).Add(48 * time.Hour)
	end := start.Add(2 * time.Hour)

	// captain books the field for the team
	w, resp := s.do(t, http.MethodPost, "/api/v1/bookings", captainToken, gin.H{
		"field_id":   s.field.ID,
		"team_id":    s.team.ID,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	b := bookingFromResponse(t, resp)
	assert.Equal(t, "pending", b["status"])
	assert.Equal(t, "unpaid", b["payment_status"])
	assert.Equal(t, 100.0, b["total_price"]) // 2h x 50/hr
	bookingID := int64(b["id"].(float64))

	// the same slot cannot be booked twice
	w, resp = s.do(t, http.MethodPost, "/api/v1/bookings", captainToken, gin.H{
		"field_id":   s.field.ID,
		"start_time": start.Add(30 * time.Minute).Format(time.RFC3339),
		"end_time":   end.Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "SLOT_UNAVAILABLE", resp.Error.Code)

	// the adjacent slot can
	w, _ = s.do(t, http.MethodPost, "/api/v1/bookings", captainToken, gin.H{
		"field_id":   s.field.ID,
		"start_time": end.Format(time.RFC3339),
		"end_time":   end.Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// the captain may not confirm their own booking
	statusPath := fmt.Sprintf("/api/v1/bookings/%d/status", bookingID)
	w, resp = s.do(t, http.MethodPatch, statusPath, captainToken, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	// the field owner confirms
	w, resp = s.do(t, http.MethodPatch, statusPath, ownerToken, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", bookingFromResponse(t, resp)["status"])

	// once confirmed, the captain can no longer self-cancel
	w, resp = s.do(t, http.MethodPatch, statusPath, captainToken, gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	// the captain pays
	paymentPath := fmt.Sprintf("/api/v1/bookings/%d/payment", bookingID)
	w, resp = s.do(t, http.MethodPost, paymentPath, captainToken, gin.H{"method": "card"})
	require.Equal(t, http.StatusOK, w.Code)
	paid := bookingFromResponse(t, resp)
	assert.Equal(t, "paid", paid["payment_status"])
	assert.NotEmpty(t, paid["transaction_id"])
	firstTxn := paid["transaction_id"]

	// paying again is a structured conflict, and the transaction id stays
	w, resp = s.do(t, http.MethodPost, paymentPath, captainToken, gin.H{"method": "card"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_PAID", resp.Error.Code)

	w, resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", bookingID), captainToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, firstTxn, bookingFromResponse(t, resp)["transaction_id"])

	// owner completes, then the machine is closed
	w, resp = s.do(t, http.MethodPatch, statusPath, ownerToken, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", bookingFromResponse(t, resp)["status"])

	w, resp = s.do(t, http.MethodPatch, statusPath, ownerToken, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)
}

func TestPaymentOnCancelledBooking(t *testing.T) {
	s := setupTestSuite(t)

	captainToken := s.tokenFor(t, s.captain)
	adminToken := s.tokenFor(t, s.admin)

	start := time.Now().UTC().Truncate(time.Hour).Add(72 * time.Hour)
	w, resp := s.do(t, http.MethodPost, "/api/v1/bookings", captainToken, gin.H{
		"field_id":   s.field.ID,
		"start_time": start.Format(time.RFC3339),
		"end_time":   start.Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := int64(bookingFromResponse(t, resp)["id"].(float64))

	// requester cancels their own pending booking
	w, resp = s.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/status", bookingID),
		captainToken, gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", bookingFromResponse(t, resp)["status"])

	// a cancelled booking can never be paid, not even by an admin
	for _, token := range []string{captainToken, adminToken} {
		w, resp = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/payment", bookingID),
			token, gin.H{"method": "card"})
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "BOOKING_CANCELLED", resp.Error.Code)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	s := setupTestSuite(t)

	w, resp := s.do(t, http.MethodGet, "/api/v1/my/bookings", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestBusySlotsEndpoint(t *testing.T) {
	s := setupTestSuite(t)
	captainToken := s.tokenFor(t, s.captain)

	start := time.Now().UTC().Truncate(time.Hour).Add(48 * time.Hour)
	w, _ := s.do(t, http.MethodPost, "/api/v1/bookings", captainToken, gin.H{
		"field_id":   s.field.ID,
		"start_time": start.Format(time.RFC3339),
		"end_time":   start.Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	path := fmt.Sprintf("/api/v1/fields/%d/busy?from=%s&to=%s",
		s.field.ID,
		start.Add(-time.Hour).Format(time.RFC3339),
		start.Add(2*time.Hour).Format(time.RFC3339))
	w, resp := s.do(t, http.MethodGet, path, captainToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	busy, ok := resp.Data["busy"].([]interface{})
	require.True(t, ok)
	assert.Len(t, busy, 1)
}
