package httpapi_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/changecyclestatus"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/imposefine"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/issuecheckintoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/issuecheckouttoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/ratecycle"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/redeemcheckintoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/redeemcheckouttoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/registercycle"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/settlefine"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/query/cycleregistry"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/query/fineledger"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/query/rentalledger"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/httpapi"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	. "github.com/AntonStoeckl/cyclerental-dcb-go/testutil/eventstore/estesthelpers" //nolint:revive
)

const jwtSecret = "test-secret"

var fakeClock = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// testAPI serves the router over httptest with a clock the test can move.
type testAPI struct {
	t       *testing.T
	handler http.Handler
	mu      sync.Mutex
	now     time.Time
	tokens  int
}

func givenAPI(t *testing.T) *testAPI {
	t.Helper()

	es := GivenMemoryEventStore(t)
	directory := GivenDirectory(t)
	api := &testAPI{t: t, now: fakeClock}

	handlers := httpapi.Handlers{
		IssueCheckoutToken:  issuecheckouttoken.NewCommandHandler(es, directory),
		RedeemCheckoutToken: redeemcheckouttoken.NewCommandHandler(es),
		IssueCheckinToken:   issuecheckintoken.NewCommandHandler(es),
		RedeemCheckinToken:  redeemcheckintoken.NewCommandHandler(es, directory),
		RateCycle:           ratecycle.NewCommandHandler(es),
		RegisterCycle:       registercycle.NewCommandHandler(es),
		ChangeCycleStatus:   changecyclestatus.NewCommandHandler(es),
		ImposeFine:          imposefine.NewCommandHandler(es),
		SettleFine:          settlefine.NewCommandHandler(es),
		GetCycle:            cycleregistry.NewQueryHandler(es),
		GetRentals:          rentalledger.NewQueryHandler(es),
		GetFineLedger:       fineledger.NewQueryHandler(es),
	}

	server, err := httpapi.NewServer(
		handlers,
		jwtSecret,
		httpapi.WithClock(api.clock),
		httpapi.WithTokenIDs(api.nextTokenID),
		httpapi.WithGatherer(prometheus.NewRegistry()),
	)
	require.NoError(t, err, "error in arranging test data")

	api.handler = server.Router()

	return api
}

func (a *testAPI) clock() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.now
}

func (a *testAPI) advance(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.now = a.now.Add(d)
}

func (a *testAPI) nextTokenID() (core.TokenIDString, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.tokens++

	return fmt.Sprintf("T%d", a.tokens), nil
}

// do sends the request as the actor, an empty actorID sends no Authorization header.
func (a *testAPI) do(method, path, actorID string, role core.Role, body string) *httptest.ResponseRecorder {
	a.t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	if actorID != "" {
		token, err := httpapi.IssueToken([]byte(jwtSecret), actorID, role, time.Hour, a.clock())
		require.NoError(a.t, err, "error in arranging test data")
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	body := make(map[string]any)
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())

	return body
}

func assertErrorResponse(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	assert.Equal(t, status, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, code, body["error"])
	assert.NotEmpty(t, body["message"])
}

func (a *testAPI) givenRegisteredCycle(cycleID string) {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/admin/cycles", AdminID, core.RoleAdmin, `{"cycleId":"`+cycleID+`"}`)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (a *testAPI) givenActiveRental(rentalID string) {
	a.t.Helper()

	a.givenRegisteredCycle(CycleID)

	issued := a.do(http.MethodPost, "/checkout-tokens", GuardID, core.RoleGuard,
		`{"studentId":"S1","cycleId":"C1","durationMinutes":60,"location":"Main Gate"}`)
	require.Equal(a.t, http.StatusCreated, issued.Code, issued.Body.String())

	token, _ := decodeBody(a.t, issued)["token"].(string)
	redeemed := a.do(http.MethodPost, "/checkout-tokens/"+token+"/redeem", StudentID, core.RoleStudent,
		`{"rentalId":"`+rentalID+`"}`)
	require.Equal(a.t, http.StatusOK, redeemed.Code, redeemed.Body.String())
}

func Test_Router_Health_NeedsNoToken(t *testing.T) {
	api := givenAPI(t)

	rec := api.do(http.MethodGet, "/health", "", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func Test_Router_Metrics_AreServed(t *testing.T) {
	api := givenAPI(t)

	rec := api.do(http.MethodGet, "/metrics", "", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_Router_Error_MissingOrInvalidToken(t *testing.T) {
	// setup
	api := givenAPI(t)

	// act
	missing := api.do(http.MethodGet, "/cycles/C1", "", "", "")

	forged := httptest.NewRequest(http.MethodGet, "/cycles/C1", nil)
	token, err := httpapi.IssueToken([]byte("other-secret"), GuardID, core.RoleGuard, time.Hour, fakeClock)
	require.NoError(t, err)
	forged.Header.Set("Authorization", "Bearer "+token)
	forgedRec := httptest.NewRecorder()
	api.handler.ServeHTTP(forgedRec, forged)

	// assert
	assertErrorResponse(t, missing, http.StatusUnauthorized, "Unauthorized")
	assertErrorResponse(t, forgedRec, http.StatusUnauthorized, "Unauthorized")
}

func Test_Router_FullRentalLifecycle(t *testing.T) { //nolint:funlen
	// setup
	api := givenAPI(t)
	rentalID := GivenUniqueID(t)

	// arrange
	api.givenActiveRental(rentalID)

	// act
	rented := api.do(http.MethodGet, "/cycles/C1", StudentID, core.RoleStudent, "")

	api.advance(75 * time.Minute)
	checkinToken := api.do(http.MethodPost, "/checkin-tokens", StudentID, core.RoleStudent, "")
	require.Equal(t, http.StatusCreated, checkinToken.Code, checkinToken.Body.String())
	token, _ := decodeBody(t, checkinToken)["token"].(string)

	api.advance(10 * time.Second)
	returned := api.do(http.MethodPost, "/checkin-tokens/"+token+"/redeem", OtherGuardID, core.RoleGuard,
		`{"location":"North Gate"}`)
	rated := api.do(http.MethodPost, "/rentals/"+rentalID+"/rating", StudentID, core.RoleStudent, `{"rating":4}`)
	available := api.do(http.MethodGet, "/cycles/C1", GuardID, core.RoleGuard, "")
	rentals := api.do(http.MethodGet, "/students/S1/rentals", StudentID, core.RoleStudent, "")
	fines := api.do(http.MethodGet, "/students/S1/fines", StudentID, core.RoleStudent, "")

	// assert
	require.Equal(t, http.StatusOK, rented.Code, rented.Body.String())
	assert.Equal(t, string(core.CycleRented), decodeBody(t, rented)["status"])
	assert.Equal(t, rentalID, decodeBody(t, rented)["currentRentalId"])

	assert.Equal(t, http.StatusOK, returned.Code, returned.Body.String())
	assert.Equal(t, false, decodeBody(t, returned)["idempotent"])
	assert.Equal(t, http.StatusOK, rated.Code, rated.Body.String())

	require.Equal(t, http.StatusOK, available.Code)
	assert.Equal(t, string(core.CycleAvailable), decodeBody(t, available)["status"])
	assert.InDelta(t, 4.0, decodeBody(t, available)["averageRating"], 0.001)

	require.Equal(t, http.StatusOK, rentals.Code)
	rentalsBody := decodeBody(t, rentals)
	assert.InDelta(t, 1, rentalsBody["count"], 0)
	list, _ := rentalsBody["rentals"].([]any)
	require.Len(t, list, 1)
	rental, _ := list[0].(map[string]any)
	assert.Equal(t, "completed", rental["status"])
	assert.Equal(t, OtherGuardID, rental["returningGuardId"])
	assert.InDelta(t, 75, rental["elapsedMinutes"], 0)
	assert.InDelta(t, 10, rental["fineAmount"], 0)

	require.Equal(t, http.StatusOK, fines.Code)
	assert.InDelta(t, 10, decodeBody(t, fines)["balance"], 0)
}

func Test_Router_RedeemCheckoutToken_Error_Expired(t *testing.T) {
	// setup
	api := givenAPI(t)
	api.givenRegisteredCycle(CycleID)

	// arrange
	issued := api.do(http.MethodPost, "/checkout-tokens", GuardID, core.RoleGuard,
		`{"studentId":"S1","cycleId":"C1","durationMinutes":60,"location":"Main Gate"}`)
	require.Equal(t, http.StatusCreated, issued.Code, issued.Body.String())
	token, _ := decodeBody(t, issued)["token"].(string)

	// act
	api.advance(31 * time.Second)
	rec := api.do(http.MethodPost, "/checkout-tokens/"+token+"/redeem", StudentID, core.RoleStudent, "")

	// assert
	assertErrorResponse(t, rec, http.StatusGone, "InvalidOrExpiredToken")
}

func Test_Router_RedeemCheckoutToken_Error_NotOwned(t *testing.T) {
	// setup
	api := givenAPI(t)
	api.givenRegisteredCycle(CycleID)

	// arrange
	issued := api.do(http.MethodPost, "/checkout-tokens", GuardID, core.RoleGuard,
		`{"studentId":"S1","cycleId":"C1","durationMinutes":60,"location":"Main Gate"}`)
	token, _ := decodeBody(t, issued)["token"].(string)

	// act
	rec := api.do(http.MethodPost, "/checkout-tokens/"+token+"/redeem", OtherStudentID, core.RoleStudent, "")

	// assert
	assertErrorResponse(t, rec, http.StatusForbidden, "TokenNotOwned")
}

func Test_Router_RedeemCheckoutToken_Error_RentalIDOfAnotherStudent(t *testing.T) {
	// setup
	api := givenAPI(t)
	rentalID := GivenUniqueID(t)
	api.givenActiveRental(rentalID)
	api.givenRegisteredCycle(OtherCycleID)

	// arrange
	issued := api.do(http.MethodPost, "/checkout-tokens", GuardID, core.RoleGuard,
		`{"studentId":"S2","cycleId":"C2","durationMinutes":60,"location":"Main Gate"}`)
	require.Equal(t, http.StatusCreated, issued.Code, issued.Body.String())
	token, _ := decodeBody(t, issued)["token"].(string)

	// act
	rec := api.do(http.MethodPost, "/checkout-tokens/"+token+"/redeem", OtherStudentID, core.RoleStudent,
		`{"rentalId":"`+rentalID+`"}`)

	// assert
	assertErrorResponse(t, rec, http.StatusConflict, "RentalIDTaken")

	cycle := api.do(http.MethodGet, "/cycles/C2", GuardID, core.RoleGuard, "")
	require.Equal(t, http.StatusOK, cycle.Code, cycle.Body.String())
	assert.Equal(t, "available", decodeBody(t, cycle)["status"])
}

func Test_Router_IssueCheckoutToken_Errors(t *testing.T) {
	// setup
	api := givenAPI(t)
	api.givenRegisteredCycle(CycleID)

	testCases := []struct {
		name    string
		actorID string
		body    string
		status  int
		code    string
	}{
		{"malformed body", GuardID, `{"studentId":`, http.StatusBadRequest, "InvalidRequest"},
		{"missing cycle", GuardID, `{"studentId":"S1","durationMinutes":60,"location":"Main Gate"}`, http.StatusBadRequest, "InvalidRequest"},
		{"student as guard", StudentID, `{"studentId":"S2","cycleId":"C1","durationMinutes":60,"location":"Main Gate"}`, http.StatusForbidden, "InvalidActor"},
		{"unregistered cycle", GuardID, `{"studentId":"S1","cycleId":"C2","durationMinutes":60,"location":"Main Gate"}`, http.StatusConflict, "CycleUnavailable"},
		{"zero duration", GuardID, `{"studentId":"S1","cycleId":"C1","durationMinutes":0,"location":"Main Gate"}`, http.StatusBadRequest, "InvalidRentalRequest"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/checkout-tokens", tc.actorID, core.RoleGuard, tc.body)

			assertErrorResponse(t, rec, tc.status, tc.code)
		})
	}
}

func Test_Router_IssueCheckinToken_Error_NoActiveRental(t *testing.T) {
	api := givenAPI(t)

	rec := api.do(http.MethodPost, "/checkin-tokens", StudentID, core.RoleStudent, "")

	assertErrorResponse(t, rec, http.StatusNotFound, "NoActiveRental")
}

func Test_Router_GetCycle_Error_NotRegistered(t *testing.T) {
	api := givenAPI(t)

	rec := api.do(http.MethodGet, "/cycles/C9", GuardID, core.RoleGuard, "")

	assertErrorResponse(t, rec, http.StatusNotFound, "CycleNotRegistered")
}

func Test_Router_StudentRecords_OnlyForThemselvesGuardsAndAdmins(t *testing.T) {
	api := givenAPI(t)

	foreign := api.do(http.MethodGet, "/students/S2/fines", StudentID, core.RoleStudent, "")
	own := api.do(http.MethodGet, "/students/S1/rentals", StudentID, core.RoleStudent, "")
	byGuard := api.do(http.MethodGet, "/students/S2/rentals", GuardID, core.RoleGuard, "")

	assertErrorResponse(t, foreign, http.StatusForbidden, "InvalidActor")
	assert.Equal(t, http.StatusOK, own.Code)
	assert.Equal(t, http.StatusOK, byGuard.Code)
}

func Test_Router_AdminRoutes_RequireTheAdminRole(t *testing.T) {
	api := givenAPI(t)

	rec := api.do(http.MethodPost, "/admin/cycles", GuardID, core.RoleGuard, `{"cycleId":"C1"}`)

	assertErrorResponse(t, rec, http.StatusForbidden, "InvalidActor")
}

func Test_Router_AdminRoutes_CycleStatusAndFines(t *testing.T) { //nolint:funlen
	// setup
	api := givenAPI(t)

	// arrange
	api.givenRegisteredCycle(CycleID)

	// act
	again := api.do(http.MethodPost, "/admin/cycles", AdminID, core.RoleAdmin, `{"cycleId":"C1"}`)
	maintenance := api.do(http.MethodPut, "/admin/cycles/C1/status", AdminID, core.RoleAdmin,
		`{"status":"under_maintenance","reason":"flat tire"}`)
	invalidStatus := api.do(http.MethodPut, "/admin/cycles/C1/status", AdminID, core.RoleAdmin, `{"status":"rented"}`)
	fined := api.do(http.MethodPost, "/admin/students/S1/fines", AdminID, core.RoleAdmin,
		`{"amount":120,"reason":"lost lock"}`)
	invalidFine := api.do(http.MethodPost, "/admin/students/S1/fines", AdminID, core.RoleAdmin,
		`{"amount":0,"reason":"nothing"}`)
	paid := api.do(http.MethodPost, "/admin/students/S1/fine-payments", AdminID, core.RoleAdmin,
		`{"amount":100,"reference":"receipt-1"}`)
	paidAgain := api.do(http.MethodPost, "/admin/students/S1/fine-payments", AdminID, core.RoleAdmin,
		`{"amount":100,"reference":"receipt-1"}`)
	overpaid := api.do(http.MethodPost, "/admin/students/S1/fine-payments", AdminID, core.RoleAdmin,
		`{"amount":50,"reference":"receipt-2"}`)
	cycle := api.do(http.MethodGet, "/cycles/C1", AdminID, core.RoleAdmin, "")
	fines := api.do(http.MethodGet, "/students/S1/fines", AdminID, core.RoleAdmin, "")

	// assert
	assert.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, true, decodeBody(t, again)["idempotent"])
	assert.Equal(t, http.StatusOK, maintenance.Code, maintenance.Body.String())
	assertErrorResponse(t, invalidStatus, http.StatusBadRequest, "InvalidCycleStatus")
	assert.Equal(t, http.StatusCreated, fined.Code, fined.Body.String())
	assertErrorResponse(t, invalidFine, http.StatusBadRequest, "InvalidFineAmount")
	assert.Equal(t, http.StatusOK, paid.Code, paid.Body.String())
	assert.Equal(t, true, decodeBody(t, paidAgain)["idempotent"])
	assertErrorResponse(t, overpaid, http.StatusBadRequest, "InvalidFineAmount")

	assert.Equal(t, string(core.CycleUnderMaintenance), decodeBody(t, cycle)["status"])
	assert.InDelta(t, 20, decodeBody(t, fines)["balance"], 0)
	assert.True(t, strings.Contains(fines.Header().Get("Content-Type"), "application/json"))
}
