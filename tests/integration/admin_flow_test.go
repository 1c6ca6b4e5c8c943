package integration

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildory/phodo-admin/internal/models"
)

var (
	testDB     *TestDB
	testServer *TestServer
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	db, err := SetupTestDatabase(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up test database: %v\n", err)
		os.Exit(1)
	}
	testDB = db
	testServer = NewTestServer(db.DB)

	code := m.Run()

	testServer.Close()
	testDB.Teardown(ctx)
	os.Exit(code)
}

func resetDB(t *testing.T) {
	t.Helper()
	require.NoError(t, testDB.CleanupTables(context.Background()))
}

func seedAdmin(t *testing.T) (email, password string) {
	t.Helper()
	email, password = TestAccount("admin")
	_, err := SeedProfile(context.Background(), testDB.Pool, email, password, "boss", models.RoleAdmin, models.StatusActive)
	require.NoError(t, err)
	return email, password
}

func TestLoginAndListUsers(t *testing.T) {
	resetDB(t)
	email, password := seedAdmin(t)

	token, resp, err := testServer.Login(email, password)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, token, "login must set a session cookie")

	listResp, err := testServer.RequestWithSession("GET", "/api/users", token, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var result models.ListResult[*models.Profile]
	require.NoError(t, ParseJSONResponse(listResp, &result))
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, email, result.Items[0].Email)
	assert.Empty(t, result.Items[0].PasswordHash, "password hash must never serialize")
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	resetDB(t)
	email, _ := seedAdmin(t)

	token, resp, err := testServer.Login(email, "not-the-password")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, token)
}

func TestLoginRejectsSuspendedAccount(t *testing.T) {
	resetDB(t)
	email, password := TestAccount("suspended")
	_, err := SeedProfile(context.Background(), testDB.Pool, email, password, "frozen", models.RoleAdmin, models.StatusSuspended)
	require.NoError(t, err)

	token, resp, err := testServer.Login(email, password)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, token)
}

func TestNonAdminDeniedAndSignedOut(t *testing.T) {
	resetDB(t)
	email, password := TestAccount("regular")
	_, err := SeedProfile(context.Background(), testDB.Pool, email, password, "civilian", models.RoleUser, models.StatusActive)
	require.NoError(t, err)

	token, resp, err := testServer.Login(email, password)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "a regular user can sign in")
	require.NotEmpty(t, token)

	apiResp, err := testServer.RequestWithSession("GET", "/api/users", token, nil)
	require.NoError(t, err)
	apiResp.Body.Close()
	assert.Equal(t, http.StatusForbidden, apiResp.StatusCode)

	assert.False(t, testServer.Sessions.Live(token), "a denied non-admin session must be revoked, not left live")

	// The revoked token is now worthless everywhere.
	retry, err := testServer.RequestWithSession("GET", "/api/users", token, nil)
	require.NoError(t, err)
	retry.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, retry.StatusCode)
}

func TestUnauthenticatedAccess(t *testing.T) {
	resetDB(t)

	apiResp, err := testServer.Request("GET", "/api/shootings", nil, nil)
	require.NoError(t, err)
	apiResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, apiResp.StatusCode)

	pageResp, err := testServer.Request("GET", "/admin", nil, nil)
	require.NoError(t, err)
	pageResp.Body.Close()
	assert.Equal(t, http.StatusFound, pageResp.StatusCode)
	assert.Equal(t, "/login", pageResp.Header.Get("Location"))
}

func TestLoginPageRedirectsAuthorizedAdmin(t *testing.T) {
	resetDB(t)
	email, password := seedAdmin(t)

	token, resp, err := testServer.Login(email, password)
	require.NoError(t, err)
	resp.Body.Close()
	require.NotEmpty(t, token)

	loginResp, err := testServer.RequestWithSession("GET", "/login", token, nil)
	require.NoError(t, err)
	loginResp.Body.Close()
	assert.Equal(t, http.StatusFound, loginResp.StatusCode)
	assert.Equal(t, "/admin", loginResp.Header.Get("Location"))
}

func TestShootingListCountConsistency(t *testing.T) {
	resetDB(t)
	email, password := seedAdmin(t)

	ownerEmail, ownerPassword := TestAccount("owner")
	owner, err := SeedProfile(context.Background(), testDB.Pool, ownerEmail, ownerPassword, "shutter", models.RoleUser, models.StatusActive)
	require.NoError(t, err)

	for i := 0; i < 23; i++ {
		state := models.ShootingWaitingMatch
		if i%2 == 0 {
			state = models.ShootingCompleted
		}
		_, err := SeedShooting(context.Background(), testDB.Pool, fmt.Sprintf("session %02d", i), state, models.RecruitModel, owner.ID)
		require.NoError(t, err)
	}

	token, resp, err := testServer.Login(email, password)
	require.NoError(t, err)
	resp.Body.Close()
	require.NotEmpty(t, token)

	// Page 3 of 23 rows at limit 10 holds exactly the last 3 rows, and
	// total reflects the predicate rather than the slice.
	listResp, err := testServer.RequestWithSession("GET", "/api/shootings?page=3&limit=10", token, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var result models.ListResult[*models.Shooting]
	require.NoError(t, ParseJSONResponse(listResp, &result))
	assert.Equal(t, 23, result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Len(t, result.Items, 3)

	// Filtered count stays consistent with the filter, not the page.
	filteredResp, err := testServer.RequestWithSession("GET", "/api/shootings?state=COMPLETED&limit=5", token, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, filteredResp.StatusCode)

	var filtered models.ListResult[*models.Shooting]
	require.NoError(t, ParseJSONResponse(filteredResp, &filtered))
	assert.Equal(t, 12, filtered.Total)
	assert.Equal(t, 3, filtered.TotalPages)
	assert.Len(t, filtered.Items, 5)
	for _, item := range filtered.Items {
		assert.Equal(t, models.ShootingCompleted, item.State)
		if assert.NotNil(t, item.Profile, "owner profile joins onto each row") {
			assert.Equal(t, "shutter", item.Profile.Nickname)
		}
	}
}

func TestShootingSearchMatchesTitleAndDescription(t *testing.T) {
	resetDB(t)
	email, password := seedAdmin(t)

	ownerEmail, ownerPassword := TestAccount("owner")
	owner, err := SeedProfile(context.Background(), testDB.Pool, ownerEmail, ownerPassword, "shutter", models.RoleUser, models.StatusActive)
	require.NoError(t, err)

	_, err = SeedShooting(context.Background(), testDB.Pool, "Rooftop sunset", models.ShootingMatched, models.RecruitModel, owner.ID)
	require.NoError(t, err)
	_, err = SeedShooting(context.Background(), testDB.Pool, "Studio portrait", models.ShootingMatched, models.RecruitModel, owner.ID)
	require.NoError(t, err)

	token, resp, err := testServer.Login(email, password)
	require.NoError(t, err)
	resp.Body.Close()

	listResp, err := testServer.RequestWithSession("GET", "/api/shootings?search=ROOFTOP", token, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var result models.ListResult[*models.Shooting]
	require.NoError(t, ParseJSONResponse(listResp, &result))
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Rooftop sunset", result.Items[0].Title)
}

func TestShootingRowsDecodeWithAndWithoutLocationData(t *testing.T) {
	resetDB(t)
	email, password := seedAdmin(t)

	ownerEmail, ownerPassword := TestAccount("owner")
	owner, err := SeedProfile(context.Background(), testDB.Pool, ownerEmail, ownerPassword, "shutter", models.RoleUser, models.StatusActive)
	require.NoError(t, err)

	// Consumer-app rows routinely leave the location columns NULL.
	sparseID, err := SeedShooting(context.Background(), testDB.Pool, "No location yet", models.ShootingWaitingMatch, models.RecruitModel, owner.ID)
	require.NoError(t, err)
	fullID, err := SeedShootingWithLocation(context.Background(), testDB.Pool, "Mapo rooftop", models.ShootingMatched, owner.ID)
	require.NoError(t, err)

	token, resp, err := testServer.Login(email, password)
	require.NoError(t, err)
	resp.Body.Close()

	sparseResp, err := testServer.RequestWithSession("GET", fmt.Sprintf("/api/shootings/%d", sparseID), token, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, sparseResp.StatusCode)

	var sparse models.Shooting
	require.NoError(t, ParseJSONResponse(sparseResp, &sparse))
	assert.Empty(t, sparse.PinDisplay)
	assert.Nil(t, sparse.Latitude)
	assert.Nil(t, sparse.Longitude)
	assert.Nil(t, sparse.AvailableStartTime)
	assert.Nil(t, sparse.AvailableEndTime)

	fullResp, err := testServer.RequestWithSession("GET", fmt.Sprintf("/api/shootings/%d", fullID), token, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, fullResp.StatusCode)

	var full models.Shooting
	require.NoError(t, ParseJSONResponse(fullResp, &full))
	assert.Equal(t, "Mapo-gu", full.PinDisplay)
	require.NotNil(t, full.Latitude)
	assert.InDelta(t, 37.5562, *full.Latitude, 0.0001)
	require.NotNil(t, full.Longitude)
	assert.InDelta(t, 126.9105, *full.Longitude, 0.0001)
	require.NotNil(t, full.AvailableStartTime)
	assert.Equal(t, "10:00", *full.AvailableStartTime)
	require.NotNil(t, full.AvailableEndTime)
	assert.Equal(t, "18:00", *full.AvailableEndTime)
}

func TestAppVersionCRUDFlow(t *testing.T) {
	resetDB(t)
	email, password := seedAdmin(t)

	token, resp, err := testServer.Login(email, password)
	require.NoError(t, err)
	resp.Body.Close()
	require.NotEmpty(t, token)

	// Create
	createResp, err := testServer.RequestWithSession("POST", "/api/app-versions", token, map[string]interface{}{
		"platform":              "ios",
		"latest_version":        "2.4.0",
		"min_supported_version": "2.0.0",
		"force_update":          false,
		"store_url":             "https://apps.example.com/phodo",
		"min_native_supported":  "2.0.0",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	var created models.AppVersion
	require.NoError(t, ParseJSONResponse(createResp, &created))
	require.NotEmpty(t, created.ID)

	// Partial update leaves omitted fields untouched
	updateResp, err := testServer.RequestWithSession("PUT", "/api/app-versions/"+created.ID, token, map[string]interface{}{
		"latest_version": "2.5.0",
		"force_update":   true,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, updateResp.StatusCode)

	var updated models.AppVersion
	require.NoError(t, ParseJSONResponse(updateResp, &updated))
	assert.Equal(t, "2.5.0", updated.LatestVersion)
	assert.True(t, updated.ForceUpdate)
	assert.Equal(t, "2.0.0", updated.MinSupportedVersion)
	assert.Equal(t, "https://apps.example.com/phodo", updated.StoreURL)

	// Delete, then the row is gone
	deleteResp, err := testServer.RequestWithSession("DELETE", "/api/app-versions/"+created.ID, token, nil)
	require.NoError(t, err)
	deleteResp.Body.Close()
	assert.Equal(t, http.StatusOK, deleteResp.StatusCode)

	getResp, err := testServer.RequestWithSession("GET", "/api/app-versions/"+created.ID, token, nil)
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestAppVersionCreateValidation(t *testing.T) {
	resetDB(t)
	email, password := seedAdmin(t)

	token, resp, err := testServer.Login(email, password)
	require.NoError(t, err)
	resp.Body.Close()

	// store_url missing: rejected before anything reaches the database.
	createResp, err := testServer.RequestWithSession("POST", "/api/app-versions", token, map[string]interface{}{
		"platform":              "ios",
		"latest_version":        "1.0.0",
		"min_supported_version": "1.0.0",
		"min_native_supported":  "1.0.0",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, createResp.StatusCode)

	var errBody map[string]interface{}
	require.NoError(t, ParseJSONResponse(createResp, &errBody))
	assert.Equal(t, "validation_failed", errBody["error"])
	assert.Equal(t, "store_url", errBody["details"])

	var count int
	require.NoError(t, testDB.Pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM app_versions").Scan(&count))
	assert.Zero(t, count)
}

func TestUserStatsAndRecentShootings(t *testing.T) {
	resetDB(t)
	email, password := seedAdmin(t)

	ownerEmail, ownerPassword := TestAccount("owner")
	owner, err := SeedProfile(context.Background(), testDB.Pool, ownerEmail, ownerPassword, "shutter", models.RoleUser, models.StatusActive)
	require.NoError(t, err)

	states := []models.ShootingState{
		models.ShootingCompleted,
		models.ShootingCompleted,
		models.ShootingMatched,
		models.ShootingWaitingMatch,
		models.ShootingCancelled,
	}
	for i, state := range states {
		_, err := SeedShooting(context.Background(), testDB.Pool, fmt.Sprintf("job %d", i), state, models.RecruitPhotographer, owner.ID)
		require.NoError(t, err)
	}

	token, resp, err := testServer.Login(email, password)
	require.NoError(t, err)
	resp.Body.Close()

	statsResp, err := testServer.RequestWithSession("GET", "/api/users/"+owner.ID+"/stats", token, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, statsResp.StatusCode)

	var stats models.UserShootingStats
	require.NoError(t, ParseJSONResponse(statsResp, &stats))
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Waiting)

	recentResp, err := testServer.RequestWithSession("GET", "/api/users/"+owner.ID+"/shootings?limit=3", token, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, recentResp.StatusCode)

	var recent []*models.Shooting
	require.NoError(t, ParseJSONResponse(recentResp, &recent))
	assert.Len(t, recent, 3)
}

func TestDashboardStats(t *testing.T) {
	resetDB(t)
	email, password := seedAdmin(t)

	ownerEmail, ownerPassword := TestAccount("owner")
	owner, err := SeedProfile(context.Background(), testDB.Pool, ownerEmail, ownerPassword, "shutter", models.RoleUser, models.StatusActive)
	require.NoError(t, err)

	_, err = SeedShooting(context.Background(), testDB.Pool, "one", models.ShootingCompleted, models.RecruitModel, owner.ID)
	require.NoError(t, err)
	_, err = SeedShooting(context.Background(), testDB.Pool, "two", models.ShootingWaitingMatch, models.RecruitModel, owner.ID)
	require.NoError(t, err)

	token, resp, err := testServer.Login(email, password)
	require.NoError(t, err)
	resp.Body.Close()

	statsResp, err := testServer.RequestWithSession("GET", "/api/dashboard/stats", token, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, statsResp.StatusCode)

	var stats map[string]int
	require.NoError(t, ParseJSONResponse(statsResp, &stats))
	assert.Equal(t, 2, stats["total_users"])
	assert.Equal(t, 2, stats["total_shootings"])
	assert.Equal(t, 1, stats["completed_shootings"])
	assert.Equal(t, 1, stats["waiting_shootings"])
}
