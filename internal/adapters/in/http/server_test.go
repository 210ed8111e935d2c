package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	httpadapter "storefront/internal/adapters/in/http"
	"storefront/internal/adapters/out/memory"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/generated/servers"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/metrics"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var staffSecret = []byte("test-staff-secret")

type recordingStarter struct {
	mu      sync.Mutex
	started []kernel.TrackingID
	err     error
}

func (r *recordingStarter) StartFulfillment(_ context.Context, id kernel.TrackingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, id)
	return r.err
}

// faultyStore fails reads with readErr, and fails every Update after the
// first updatesBeforeFailure ones with updateErr.
type faultyStore struct {
	*memory.OrderStore

	mu                   sync.Mutex
	readErr              error
	updateErr            error
	updatesBeforeFailure int
	updates              int
}

func (f *faultyStore) Get(ctx context.Context, id kernel.TrackingID) (*order.Order, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.OrderStore.Get(ctx, id)
}

func (f *faultyStore) ListAll(ctx context.Context) ([]*order.Order, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.OrderStore.ListAll(ctx)
}

func (f *faultyStore) Update(
	ctx context.Context, id kernel.TrackingID, mutate ports.OrderMutation,
) (*order.Order, error) {
	f.mu.Lock()
	f.updates++
	fail := f.updateErr != nil && f.updates > f.updatesBeforeFailure
	f.mu.Unlock()

	if fail {
		return nil, f.updateErr
	}
	return f.OrderStore.Update(ctx, id, mutate)
}

var _ ports.OrderStore = (*faultyStore)(nil)

type ServerSuite struct {
	suite.Suite

	store   *memory.OrderStore
	faulty  *faultyStore
	metrics *metrics.Metrics
	starter *recordingStarter
	e       *echo.Echo
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	s.store = memory.NewOrderStore()
	s.faulty = &faultyStore{OrderStore: s.store}
	s.metrics = metrics.New()
	s.starter = &recordingStarter{}
	s.e = s.newRouter()
}

func (s *ServerSuite) newRouter(opts ...httpadapter.ServerOption) *echo.Echo {
	logger := slog.New(slog.DiscardHandler)

	server := httpadapter.NewServer(
		commands.NewCreateOrderCommandHandler(s.faulty, kernel.NewTrackingIDGenerator(nil), time.Now, logger),
		commands.NewMarkOrderPaidCommandHandler(s.faulty, s.metrics, logger),
		commands.NewAdvanceOrderCommandHandler(s.faulty, s.metrics, logger),
		queries.NewGetOrderQueryHandler(s.faulty),
		queries.NewListOrdersQueryHandler(s.faulty),
		logger,
		opts...,
	)

	e, err := httpadapter.NewRouter(server, httpadapter.RouterConfig{
		StaffJWTSecret: staffSecret,
		Metrics:        s.metrics,
		Logger:         logger,
	})
	s.Require().NoError(err)

	return e
}

func (s *ServerSuite) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	return rec
}

func (s *ServerSuite) staffToken() string {
	token, err := httpadapter.IssueStaffToken(staffSecret, "ana", time.Now(), time.Hour)
	s.Require().NoError(err)
	return "Bearer " + token
}

func (s *ServerSuite) createOrder() string {
	rec := s.do(http.MethodPost, "/api/v1/orders",
		`{"items":[{"productId":"burger-01","name":"Classic burger","unitPrice":15000,"qty":2}],"total":30000}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var created servers.OrderCreated
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	s.Require().True(strings.HasPrefix(created.TrackingId, kernel.TrackingIDPrefix))

	return created.TrackingId
}

func (s *ServerSuite) decodeOrder(rec *httptest.ResponseRecorder) servers.Order {
	var o servers.Order
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &o), rec.Body.String())
	return o
}

func (s *ServerSuite) decodeError(rec *httptest.ResponseRecorder) servers.Error {
	var e servers.Error
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

func (s *ServerSuite) TestCreateAndTrack() {
	id := s.createOrder()

	rec := s.do(http.MethodGet, "/api/v1/orders/"+id, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	o := s.decodeOrder(rec)
	s.Equal(id, o.TrackingId)
	s.Equal(servers.AwaitingPayment, o.Status)
	s.Equal(int64(30000), o.Total)
	s.Equal(0, o.Step)
	s.False(o.Paid)
	s.False(o.Delivered)
	s.Require().Len(o.Items, 1)
	s.Equal(int64(30000), o.Items[0].Subtotal)
	s.NotEmpty(rec.Header().Get(echo.HeaderXRequestID))
}

func (s *ServerSuite) TestCreateRejectsMismatchedTotal() {
	rec := s.do(http.MethodPost, "/api/v1/orders",
		`{"items":[{"productId":"burger-01","name":"Classic burger","unitPrice":15000,"qty":2}],"total":29000}`)

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	e := s.decodeError(rec)
	s.Equal(http.StatusUnprocessableEntity, e.Code)
	s.True(strings.HasPrefix(e.Message, "could not create order: "), e.Message)

	orders, err := s.store.ListAll(context.Background())
	s.Require().NoError(err)
	s.Empty(orders)
}

func (s *ServerSuite) TestCreateRejectsEmptyCart() {
	rec := s.do(http.MethodPost, "/api/v1/orders", `{"items":[],"total":0}`)

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *ServerSuite) TestCreateRejectsMalformedBody() {
	s.Run("missing total", func() {
		rec := s.do(http.MethodPost, "/api/v1/orders",
			`{"items":[{"productId":"p","name":"n","unitPrice":1,"qty":1}]}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("wrong type", func() {
		rec := s.do(http.MethodPost, "/api/v1/orders", `{"items":"burger","total":1}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *ServerSuite) TestGetUnknownOrder() {
	rec := s.do(http.MethodGet, "/api/v1/orders/MS-NOPE", "")

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("order not found", s.decodeError(rec).Message)
}

func (s *ServerSuite) TestListNewestFirst() {
	first := s.createOrder()
	time.Sleep(2 * time.Millisecond)
	second := s.createOrder()

	rec := s.do(http.MethodGet, "/api/v1/orders", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var orders []servers.Order
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &orders))
	s.Require().Len(orders, 2)
	s.Equal(second, orders[0].TrackingId)
	s.Equal(first, orders[1].TrackingId)
}

func (s *ServerSuite) TestPaymentIsIdempotent() {
	id := s.createOrder()

	rec := s.do(http.MethodPost, "/api/v1/orders/"+id+"/payment", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(servers.Confirmed, s.decodeOrder(rec).Status)

	rec = s.do(http.MethodPost, "/api/v1/orders/"+id+"/payment", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	o := s.decodeOrder(rec)
	s.Equal(servers.Confirmed, o.Status)
	s.True(o.Paid)
}

func (s *ServerSuite) TestPaymentForUnknownOrder() {
	rec := s.do(http.MethodPost, "/api/v1/orders/MS-NOPE/payment", "")

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerSuite) TestPaymentWithAutoPrepareAndFulfillment() {
	s.e = s.newRouter(
		httpadapter.WithAutoPrepareOnPayment(true),
		httpadapter.WithFulfillmentStarter(s.starter),
	)
	id := s.createOrder()

	rec := s.do(http.MethodPost, "/api/v1/orders/"+id+"/payment", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(servers.InPreparation, s.decodeOrder(rec).Status)

	rec = s.do(http.MethodPost, "/api/v1/orders/"+id+"/payment", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(servers.InPreparation, s.decodeOrder(rec).Status)

	s.Require().Len(s.starter.started, 1)
	s.Equal(id, s.starter.started[0].String())
}

func (s *ServerSuite) TestPaymentSurvivesFulfillmentStartFailure() {
	s.starter.err = errors.New("temporal unavailable")
	s.e = s.newRouter(httpadapter.WithFulfillmentStarter(s.starter))
	id := s.createOrder()

	rec := s.do(http.MethodPost, "/api/v1/orders/"+id+"/payment", "")

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(servers.Confirmed, s.decodeOrder(rec).Status)
}

func (s *ServerSuite) TestPaymentKeptWhenAutoPrepareFails() {
	s.faulty.updateErr = errs.NewStorageError("update order", errors.New("connection reset"))
	s.faulty.updatesBeforeFailure = 1
	s.e = s.newRouter(
		httpadapter.WithAutoPrepareOnPayment(true),
		httpadapter.WithFulfillmentStarter(s.starter),
	)
	id := s.createOrder()

	rec := s.do(http.MethodPost, "/api/v1/orders/"+id+"/payment", "")

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	o := s.decodeOrder(rec)
	s.Equal(servers.Confirmed, o.Status)
	s.True(o.Paid)
	s.Len(s.starter.started, 1)
}

func (s *ServerSuite) TestCorruptedStorageIsServerError() {
	id := s.createOrder()
	decodeErr := errs.NewValueIsInvalidErrorWithCause("total",
		errors.New("9999 does not match line items sum 8000"))
	s.faulty.readErr = errs.NewStorageError("decode order", decodeErr)

	for _, path := range []string{"/api/v1/orders/" + id, "/api/v1/orders"} {
		rec := s.do(http.MethodGet, path, "")

		s.Equal(http.StatusInternalServerError, rec.Code, path)
		body := s.decodeError(rec)
		s.NotContains(body.Message, "9999", path)
		s.NotContains(body.Message, "invalid", path)
	}
}

func (s *ServerSuite) TestStaffAdvanceUnknownOrder() {
	rec := s.do(http.MethodPost, "/api/v1/staff/orders/MS-DOES-NOT-EXIST/advance", "",
		echo.HeaderAuthorization, s.staffToken())

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("order not found", s.decodeError(rec).Message)
}

func (s *ServerSuite) TestStaffAdvanceWalksToDelivered() {
	id := s.createOrder()
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/orders/"+id+"/payment", "").Code)

	want := []servers.OrderStatus{servers.InPreparation, servers.InTransit, servers.Delivered, servers.Delivered}
	for _, status := range want {
		rec := s.do(http.MethodPost, "/api/v1/staff/orders/"+id+"/advance", "",
			echo.HeaderAuthorization, s.staffToken())
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		s.Equal(status, s.decodeOrder(rec).Status)
	}

	o := s.decodeOrder(s.do(http.MethodGet, "/api/v1/orders/"+id, ""))
	s.True(o.Delivered)
	s.Equal(4, o.Step)
}

func (s *ServerSuite) TestStaffAdvanceLeavesUnpaidOrder() {
	id := s.createOrder()

	rec := s.do(http.MethodPost, "/api/v1/staff/orders/"+id+"/advance", "",
		echo.HeaderAuthorization, s.staffToken())

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(servers.AwaitingPayment, s.decodeOrder(rec).Status)
}

func (s *ServerSuite) TestStaffAdvanceRequiresStaffToken() {
	id := s.createOrder()
	path := "/api/v1/staff/orders/" + id + "/advance"

	s.Run("no token", func() {
		rec := s.do(http.MethodPost, path, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.NotEmpty(rec.Header().Get(echo.HeaderWWWAuthenticate))
	})

	s.Run("token signed with another secret", func() {
		token, err := httpadapter.IssueStaffToken([]byte("other"), "ana", time.Now(), time.Hour)
		s.Require().NoError(err)
		rec := s.do(http.MethodPost, path, "", echo.HeaderAuthorization, "Bearer "+token)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("expired token", func() {
		token, err := httpadapter.IssueStaffToken(staffSecret, "ana", time.Now().Add(-2*time.Hour), time.Hour)
		s.Require().NoError(err)
		rec := s.do(http.MethodPost, path, "", echo.HeaderAuthorization, "Bearer "+token)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("customer role", func() {
		token := signWithRole(s.T(), "customer")
		rec := s.do(http.MethodPost, path, "", echo.HeaderAuthorization, "Bearer "+token)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	o := s.decodeOrder(s.do(http.MethodGet, "/api/v1/orders/"+id, ""))
	s.Equal(servers.AwaitingPayment, o.Status)
}

func (s *ServerSuite) TestCustomerRoutesDoNotAdvance() {
	id := s.createOrder()

	rec := s.do(http.MethodPost, "/api/v1/orders/"+id+"/advance", "")

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerSuite) TestOperationalEndpoints() {
	s.Run("health", func() {
		rec := s.do(http.MethodGet, "/health", "")
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("Healthy", rec.Body.String())
	})

	s.Run("openapi document", func() {
		rec := s.do(http.MethodGet, "/openapi.yaml", "")
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "/api/v1/orders")
	})

	s.Run("metrics", func() {
		s.createOrder()
		rec := s.do(http.MethodGet, "/metrics", "")
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "storefront_http_requests_total")
	})
}

func TestIssueStaffToken(t *testing.T) {
	t.Run("should refuse an empty secret", func(t *testing.T) {
		_, err := httpadapter.IssueStaffToken(nil, "ana", time.Now(), time.Hour)
		require.Error(t, err)
	})

	t.Run("should produce a three part token", func(t *testing.T) {
		token, err := httpadapter.IssueStaffToken(staffSecret, "ana", time.Now(), time.Hour)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)
	})
}

func TestStaffRoutesDisabledWithoutSecret(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	store := memory.NewOrderStore()
	server := httpadapter.NewServer(
		commands.NewCreateOrderCommandHandler(store, kernel.NewTrackingIDGenerator(nil), time.Now, logger),
		commands.NewMarkOrderPaidCommandHandler(store, nil, logger),
		commands.NewAdvanceOrderCommandHandler(store, nil, logger),
		queries.NewGetOrderQueryHandler(store),
		queries.NewListOrdersQueryHandler(store),
		logger,
	)
	e, err := httpadapter.NewRouter(server, httpadapter.RouterConfig{Logger: logger})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/staff/orders/MS-1/advance", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func signWithRole(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "someone",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(staffSecret)
	require.NoError(t, err)
	return signed
}
