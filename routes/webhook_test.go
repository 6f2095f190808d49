package routes

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nablabits/fareharbor-webhook/config"
	"github.com/nablabits/fareharbor-webhook/database"
	"github.com/nablabits/fareharbor-webhook/models"
	"github.com/nablabits/fareharbor-webhook/utils"
)

const (
	testWebhookUser = "fareharbor"
	testTrackerUser = "bike-tracker"
	testPassword    = "secret"
	testJWTSecret   = "test-secret"
)

var routesDBSeq int64

// setupServer wires a router against a private in-memory database with both
// identities sharing the same test password.
func setupServer(t *testing.T) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	responses := filepath.Join(t.TempDir(), "responses")
	t.Setenv("FH_USER", testWebhookUser)
	t.Setenv("FH_PASSWORD_HASH", hash)
	t.Setenv("BT_USER", testTrackerUser)
	t.Setenv("BT_PASSWORD_HASH", hash)
	t.Setenv("JWT_SECRET", testJWTSecret)
	t.Setenv("RESPONSES_PATH", responses)
	config.Load()

	dsn := fmt.Sprintf("file:routesdb%d?mode=memory&cache=shared", atomic.AddInt64(&routesDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	router := gin.New()
	RegisterRoutes(router)
	return router, db, responses
}

// webhookBookingJSON is a compact but complete delivery.
const webhookBookingJSON = `{
  "booking": {
    "pk": 75125154,
    "display_id": "#75125154",
    "customer_count": 1,
    "uuid": "08fc1e92-e6ff-4d7a-a0a8-51e5a8236888",
    "status": "booked",
    "availability": {
      "pk": 619118440,
      "capacity": 10,
      "start_at": "2021-08-10T10:00:00+02:00",
      "end_at": "2021-08-10T12:00:00+02:00",
      "item": {"pk": 159068, "name": "Alquiler Urbana"},
      "customer_type_rates": [],
      "custom_field_instances": []
    },
    "company": {"name": "Tourne", "shortname": "tourne", "currency": "eur"},
    "affiliate_company": null,
    "effective_cancellation_policy": {"cutoff": null, "type": "never"},
    "contact": {"name": "Ada Lovelace", "is_subscribed_for_email_updates": false},
    "customers": [],
    "custom_field_values": []
  }
}`

func postWebhook(router *gin.Engine, body string, withAuth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if withAuth {
		req.SetBasicAuth(testWebhookUser, testPassword)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTestConnectionRequiresAuth(t *testing.T) {
	router, _, _ := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/test/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/test/", nil)
	req.SetBasicAuth(testWebhookUser, "wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/test/", nil)
	req.SetBasicAuth(testWebhookUser, testPassword)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProcessWebhookHappyPath(t *testing.T) {
	router, db, responses := setupServer(t)

	w := postWebhook(router, webhookBookingJSON, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var booking models.Booking
	require.NoError(t, db.First(&booking, int64(75125154)).Error)
	assert.Equal(t, "staff", booking.CreatedBy)

	// The raw payload got archived before normalization
	entries, err := os.ReadDir(responses)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var open int64
	require.NoError(t, db.Model(&models.StoredRequest{}).
		Where("processed_at IS NULL").Count(&open).Error)
	assert.Equal(t, int64(0), open)
}

func TestProcessWebhookRejectsBadPayloads(t *testing.T) {
	router, db, _ := setupServer(t)

	cases := map[string]string{
		"empty body":      "",
		"not json":        "this is not json",
		"missing booking": `{"foo": 1}`,
		"null booking":    `{"booking": null}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := postWebhook(router, body, true)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Equal(t, int64(0), count(t, db, &models.Booking{}))
	assert.Equal(t, int64(0), count(t, db, &models.StoredRequest{}))
}

func TestProcessWebhookMissingField(t *testing.T) {
	router, db, _ := setupServer(t)

	// display_id is required downstream
	body := `{
      "booking": {
        "pk": 75125154,
        "customer_count": 1,
        "uuid": "08fc1e92-e6ff-4d7a-a0a8-51e5a8236888",
        "availability": {
          "pk": 619118440,
          "capacity": 10,
          "start_at": "2021-08-10T10:00:00+02:00",
          "end_at": "2021-08-10T12:00:00+02:00",
          "item": {"pk": 159068, "name": "Alquiler Urbana"}
        },
        "company": {"name": "Tourne", "shortname": "tourne", "currency": "eur"},
        "effective_cancellation_policy": {"cutoff": null, "type": "never"},
        "contact": {"name": "Ada", "is_subscribed_for_email_updates": false}
      }
    }`
	w := postWebhook(router, body, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "booking.display_id")
	assert.Equal(t, int64(0), count(t, db, &models.Booking{}))
}

func TestProcessWebhookWithoutAuth(t *testing.T) {
	router, db, _ := setupServer(t)

	w := postWebhook(router, webhookBookingJSON, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, int64(0), count(t, db, &models.Booking{}))
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
