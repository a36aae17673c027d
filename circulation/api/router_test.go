package api_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/stanleyamo/library-management-system/circulation"
	"github.com/stanleyamo/library-management-system/circulation/api"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store/memengine"
	"github.com/stanleyamo/library-management-system/testutil/storetest"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	router http.Handler
	engine *memengine.Engine
	now    time.Time
}

func givenServer(t *testing.T, opts ...api.Option) *testServer {
	t.Helper()

	engine, err := memengine.NewEngine()
	require.NoError(t, err)

	s := &testServer{engine: engine, now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}

	service, err := circulation.NewService(engine, circulation.WithClock(func() time.Time { return s.now }))
	require.NoError(t, err)

	router, err := api.NewRouter(service, opts...)
	require.NoError(t, err)

	s.router = router

	return s
}

func (s *testServer) advanceDays(n int) {
	s.now = s.now.AddDate(0, 0, n)
}

// do sends a request as actor (no identity headers for a zero Actor) and decodes the envelope.
func (s *testServer) do(t *testing.T, actor core.Actor, method, path, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if actor.UserID != "" {
		req.Header.Set(api.HeaderUserID, actor.UserID)
		req.Header.Set(api.HeaderUserRole, string(actor.Role))
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var envelope map[string]any
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &envelope), "body: %s", rec.Body.String())

	return rec.Code, envelope
}

func object(t *testing.T, envelope map[string]any, key string) map[string]any {
	t.Helper()

	value, ok := envelope[key].(map[string]any)
	require.True(t, ok, "envelope has no object %q: %v", key, envelope)

	return value
}

func Test_Router_RejectsNilService(t *testing.T) {
	// act
	router, err := api.NewRouter(nil)

	// assert
	assert.ErrorIs(t, err, api.ErrNilService)
	assert.Nil(t, router)
}

func Test_Router_Health(t *testing.T) {
	// arrange
	server := givenServer(t)

	// act
	status, envelope := server.do(t, core.Actor{}, http.MethodGet, "/healthz", "")

	// assert
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "2025-03-01", envelope["date"])
}

func Test_Router_SingleCopyScenario(t *testing.T) {
	// arrange
	server := givenServer(t)
	book := storetest.GivenBook(t, server.engine, "Dune", 1)
	alice, bob := core.Member("alice"), core.Member("bob")

	// act: alice borrows the only copy
	status, envelope := server.do(t, alice, http.MethodPost, "/api/transactions",
		`{"bookId":"`+book.ID.String()+`","period":"2weeks"}`)
	require.Equal(t, http.StatusCreated, status, envelope)
	loan := object(t, envelope, "transaction")

	// act: bob finds no copy left
	secondStatus, secondEnvelope := server.do(t, bob, http.MethodPost, "/api/transactions",
		`{"bookId":"`+book.ID.String()+`"}`)

	// act: alice returns five days late
	server.advanceDays(19)
	returnStatus, returnEnvelope := server.do(t, alice, http.MethodPost,
		"/api/transactions/"+loan["id"].(string)+"/return", "")

	// assert
	assert.Equal(t, "2025-03-15", loan["dueDate"])
	assert.Equal(t, "active", loan["status"])

	assert.Equal(t, http.StatusConflict, secondStatus)
	assert.Equal(t, false, secondEnvelope["success"])
	assert.Equal(t, string(core.KindNoCopiesAvailable), secondEnvelope["kind"])

	require.Equal(t, http.StatusOK, returnStatus, returnEnvelope)
	returned := object(t, returnEnvelope, "transaction")
	assert.Equal(t, "returned", returned["status"])
	assert.Equal(t, "2025-03-20", returned["returnDate"])
	assert.InDelta(t, 5.0, returned["fine"], 0.001)

	_, availability := server.do(t, core.Actor{}, http.MethodGet, "/api/books/"+book.ID.String()+"/availability", "")
	assert.InDelta(t, 1, object(t, availability, "availability")["availableCopies"], 0)

	_, fines := server.do(t, alice, http.MethodGet, "/api/fines", "")
	assert.InDelta(t, 1, fines["count"], 0)
	assert.InDelta(t, 5.0, fines["total"], 0.001)
}

func Test_Router_FailureStatuses(t *testing.T) {
	server := givenServer(t)
	book := storetest.GivenBook(t, server.engine, "Dune", 1)
	unknown := "00000000-0000-0000-0000-000000000001"

	testCases := []struct {
		name       string
		actor      core.Actor
		method     string
		path       string
		body       string
		wantStatus int
		wantKind   string
	}{
		{
			name:       "unknown book",
			method:     http.MethodGet,
			path:       "/api/books/" + unknown,
			wantStatus: http.StatusNotFound,
			wantKind:   string(core.KindNotFound),
		},
		{
			name:       "malformed id",
			method:     http.MethodGet,
			path:       "/api/books/not-a-uuid",
			wantStatus: http.StatusBadRequest,
			wantKind:   string(core.KindValidation),
		},
		{
			name:       "missing identity",
			method:     http.MethodGet,
			path:       "/api/transactions",
			wantStatus: http.StatusUnauthorized,
			wantKind:   "Unauthenticated",
		},
		{
			name:       "member creates a book",
			actor:      core.Member("alice"),
			method:     http.MethodPost,
			path:       "/api/books",
			body:       `{"isbn":"9780441172719","title":"Dune","author":"Frank Herbert","totalCopies":1}`,
			wantStatus: http.StatusForbidden,
			wantKind:   string(core.KindForbidden),
		},
		{
			name:       "librarian borrows",
			actor:      core.Librarian("lib"),
			method:     http.MethodPost,
			path:       "/api/transactions",
			body:       `{"bookId":"` + book.ID.String() + `"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   string(core.KindValidation),
		},
		{
			name:       "borrow without book id",
			actor:      core.Member("alice"),
			method:     http.MethodPost,
			path:       "/api/transactions",
			body:       `{"period":"2weeks"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   string(core.KindValidation),
		},
		{
			name:       "unknown period",
			actor:      core.Member("alice"),
			method:     http.MethodPost,
			path:       "/api/transactions",
			body:       `{"bookId":"` + book.ID.String() + `","period":"forever"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   string(core.KindValidation),
		},
		{
			name:       "malformed date",
			actor:      core.Member("alice"),
			method:     http.MethodPost,
			path:       "/api/transactions",
			body:       `{"bookId":"` + book.ID.String() + `","borrowDate":"01.03.2025"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   string(core.KindValidation),
		},
		{
			name:       "member lists overdue loans",
			actor:      core.Member("alice"),
			method:     http.MethodGet,
			path:       "/api/transactions/overdue",
			wantStatus: http.StatusForbidden,
			wantKind:   string(core.KindForbidden),
		},
		{
			name:       "member lists other user's fines",
			actor:      core.Member("alice"),
			method:     http.MethodGet,
			path:       "/api/fines?userId=bob",
			wantStatus: http.StatusForbidden,
			wantKind:   string(core.KindForbidden),
		},
		{
			name:       "unknown fine status",
			actor:      core.Member("alice"),
			method:     http.MethodGet,
			path:       "/api/fines?status=lost",
			wantStatus: http.StatusBadRequest,
			wantKind:   string(core.KindValidation),
		},
		{
			name:       "waive without reason",
			actor:      core.Librarian("lib"),
			method:     http.MethodPost,
			path:       "/api/fines/" + unknown + "/waive",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   string(core.KindValidation),
		},
		{
			name:       "unknown role",
			actor:      core.Actor{UserID: "alice", Role: "admin"},
			method:     http.MethodGet,
			path:       "/api/fines",
			wantStatus: http.StatusBadRequest,
			wantKind:   string(core.KindValidation),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			status, envelope := server.do(t, tc.actor, tc.method, tc.path, tc.body)

			// assert
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, false, envelope["success"])
			assert.Equal(t, tc.wantKind, envelope["kind"])
			assert.NotEmpty(t, envelope["error"])
		})
	}
}

func Test_Router_CatalogManagement(t *testing.T) {
	// arrange
	server := givenServer(t)
	librarian := core.Librarian("lib")

	// act
	createStatus, created := server.do(t, librarian, http.MethodPost, "/api/books",
		`{"isbn":"978-0-441-17271-9","title":"Dune","author":"Frank Herbert","genre":"Science Fiction","totalCopies":2}`)
	require.Equal(t, http.StatusCreated, createStatus, created)
	id := object(t, created, "book")["id"].(string)

	patchStatus, patched := server.do(t, librarian, http.MethodPatch, "/api/books/"+id, `{"totalCopies":3}`)
	_, listed := server.do(t, core.Actor{}, http.MethodGet, "/api/books?search=dune&availableOnly=true", "")
	deleteStatus, _ := server.do(t, librarian, http.MethodDelete, "/api/books/"+id, "")
	getStatus, _ := server.do(t, core.Actor{}, http.MethodGet, "/api/books/"+id, "")

	// assert
	require.Equal(t, http.StatusOK, patchStatus, patched)
	assert.InDelta(t, 3, object(t, patched, "book")["totalCopies"], 0)
	assert.InDelta(t, 3, object(t, patched, "book")["availableCopies"], 0)

	assert.InDelta(t, 1, listed["count"], 0)
	assert.InDelta(t, 1, listed["availableCount"], 0)

	assert.Equal(t, http.StatusOK, deleteStatus)
	assert.Equal(t, http.StatusNotFound, getStatus)
}

func Test_Router_FineLifecycle(t *testing.T) {
	// arrange
	server := givenServer(t)
	book := storetest.GivenBook(t, server.engine, "Dune", 1)
	loan := storetest.GivenLoan(t, server.engine, book, "alice", core.NewDate(2025, 2, 1), core.NewDate(2025, 2, 15))
	fine := storetest.GivenPendingFine(t, server.engine, loan, book.Title, core.Dollars(3))
	finePath := "/api/fines/" + fine.ID.String()

	// act
	bobStatus, _ := server.do(t, core.Member("bob"), http.MethodPost, finePath+"/pay", "")
	payStatus, paid := server.do(t, core.Member("alice"), http.MethodPost, finePath+"/pay",
		`{"paymentMethod":"card","paymentReference":"r-1"}`)
	againStatus, again := server.do(t, core.Member("alice"), http.MethodPost, finePath+"/pay", "")
	_, summary := server.do(t, core.Librarian("lib"), http.MethodGet, "/api/fines/summary?userId=alice", "")

	// assert
	assert.Equal(t, http.StatusForbidden, bobStatus)

	require.Equal(t, http.StatusOK, payStatus, paid)
	assert.Equal(t, "paid", object(t, paid, "fine")["status"])
	assert.Equal(t, "card", object(t, paid, "fine")["paymentMethod"])

	assert.Equal(t, http.StatusConflict, againStatus)
	assert.Equal(t, string(core.KindAlreadyPaid), again["kind"])

	assert.InDelta(t, 3.0, object(t, summary, "summary")["totalPaid"], 0.001)
	assert.InDelta(t, 0.0, object(t, summary, "summary")["totalPending"], 0.001)
}

func Test_Router_OutstandingObligationsConflict(t *testing.T) {
	// arrange
	server := givenServer(t)
	held := storetest.GivenBook(t, server.engine, "Dune", 1)
	wanted := storetest.GivenBook(t, server.engine, "Emma", 1)
	storetest.GivenLoan(t, server.engine, held, "alice", core.NewDate(2025, 2, 1), core.NewDate(2025, 2, 15))

	// act
	status, envelope := server.do(t, core.Member("alice"), http.MethodPost, "/api/transactions",
		`{"bookId":"`+wanted.ID.String()+`"}`)

	// assert
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, string(core.KindOutstandingObligations), envelope["kind"])
}

func Test_Router_RenewAndOverdue(t *testing.T) {
	// arrange
	server := givenServer(t)
	book := storetest.GivenBook(t, server.engine, "Dune", 2)
	renewable := storetest.GivenLoan(t, server.engine, book, "alice", core.NewDate(2025, 2, 25), core.NewDate(2025, 3, 11))
	storetest.GivenLoan(t, server.engine, book, "bob", core.NewDate(2025, 2, 1), core.NewDate(2025, 2, 26))

	// act
	renewStatus, renewed := server.do(t, core.Member("alice"), http.MethodPost,
		"/api/transactions/"+renewable.ID.String()+"/renew", "")
	_, overdue := server.do(t, core.Librarian("lib"), http.MethodGet, "/api/transactions/overdue", "")
	_, mine := server.do(t, core.Member("alice"), http.MethodGet, "/api/transactions?status=active", "")

	// assert
	require.Equal(t, http.StatusOK, renewStatus, renewed)
	assert.Equal(t, "2025-03-25", object(t, renewed, "transaction")["dueDate"])
	assert.InDelta(t, 1, object(t, renewed, "transaction")["renewalCount"], 0)

	assert.InDelta(t, 1, overdue["count"], 0)
	assert.InDelta(t, 3.0, overdue["totalProjected"], 0.001)

	assert.InDelta(t, 1, mine["count"], 0)
}

func Test_Router_RenewForRequestedDays(t *testing.T) {
	// arrange
	server := givenServer(t)
	book := storetest.GivenBook(t, server.engine, "Dune", 1)
	loan := storetest.GivenLoan(t, server.engine, book, "alice", core.NewDate(2025, 2, 25), core.NewDate(2025, 3, 11))
	renewPath := "/api/transactions/" + loan.ID.String() + "/renew"

	// act
	tooLongStatus, tooLong := server.do(t, core.Member("alice"), http.MethodPost, renewPath, `{"days":45}`)
	status, renewed := server.do(t, core.Member("alice"), http.MethodPost, renewPath, `{"days":7}`)

	// assert
	assert.Equal(t, http.StatusBadRequest, tooLongStatus)
	assert.Equal(t, string(core.KindValidation), tooLong["kind"])

	require.Equal(t, http.StatusOK, status, renewed)
	assert.Equal(t, "2025-03-18", object(t, renewed, "transaction")["dueDate"])
	assert.InDelta(t, 1, object(t, renewed, "transaction")["renewalCount"], 0)
}

func Test_Router_RateLimit(t *testing.T) {
	// arrange
	server := givenServer(t, api.WithRateLimit(rate.Every(time.Hour), 2))

	// act
	var statuses []int
	for range 3 {
		status, _ := server.do(t, core.Actor{}, http.MethodGet, "/api/books", "")
		statuses = append(statuses, status)
	}

	healthStatus, _ := server.do(t, core.Actor{}, http.MethodGet, "/healthz", "")

	// assert
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
	assert.Equal(t, http.StatusOK, healthStatus)
}

func Test_Router_CORSPreflight(t *testing.T) {
	// arrange
	server := givenServer(t, api.WithAllowedOrigins("http://localhost:5173"))
	req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	// act
	server.router.ServeHTTP(rec, req)

	// assert
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
