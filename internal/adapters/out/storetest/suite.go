// Package storetest holds the behavioural contract every ports.OrderStore
// implementation must satisfy. Adapter packages embed OrderStoreSuite in their
// own test suites and provide a fresh store for each test.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

// OrderStoreSuite runs the store contract against Store. The embedding suite
// must assign Store before each test, for example in SetupTest.
type OrderStoreSuite struct {
	suite.Suite

	Store     ports.OrderStore
	generator *kernel.TrackingIDGenerator
}

func (s *OrderStoreSuite) SetupSuite() {
	s.generator = kernel.NewTrackingIDGenerator(nil)
}

// NewOrder builds a valid order awaiting payment created at createdAt.
func (s *OrderStoreSuite) NewOrder(createdAt time.Time) *order.Order {
	id, err := s.generator.Next()
	s.Require().NoError(err)

	burger, err := order.NewLineItem("burger-01", "Classic burger", 15000, 2)
	s.Require().NoError(err)
	fries, err := order.NewLineItem("fries-01", "Fries", 5000, 1)
	s.Require().NoError(err)

	o, err := order.NewOrder(id, []order.LineItem{burger, fries}, 35000, createdAt)
	s.Require().NoError(err)
	return o
}

func (s *OrderStoreSuite) unknownID() kernel.TrackingID {
	id, err := kernel.TrackingIDFromString("MS-DOES-NOT-EXIST")
	s.Require().NoError(err)
	return id
}

func markPaid(o *order.Order) (*order.Order, error) { return o.MarkPaid() }

func advance(o *order.Order) (*order.Order, error) { return o.Advance() }

func (s *OrderStoreSuite) TestCreateThenGet_ReturnsEqualSnapshot() {
	ctx := context.Background()
	created := s.NewOrder(time.Now())

	s.Require().NoError(s.Store.Create(ctx, created))

	got, err := s.Store.Get(ctx, created.ID())
	s.Require().NoError(err)
	s.True(got.ID().IsEqual(created.ID()))
	s.Equal(created.Total(), got.Total())
	s.Equal(order.AwaitingPayment, got.Status())
	s.True(created.CreatedAt().Equal(got.CreatedAt()))
	s.Require().Len(got.LineItems(), 2)
	s.Equal("burger-01", got.LineItems()[0].ProductID())
	s.Equal(int64(15000), got.LineItems()[0].UnitPrice())
	s.Equal(2, got.LineItems()[0].Quantity())
	s.Equal("fries-01", got.LineItems()[1].ProductID())
}

func (s *OrderStoreSuite) TestCreate_DuplicateID_Rejected() {
	ctx := context.Background()
	o := s.NewOrder(time.Now())
	s.Require().NoError(s.Store.Create(ctx, o))

	err := s.Store.Create(ctx, o)

	s.Require().ErrorIs(err, errs.ErrObjectAlreadyExists)
}

func (s *OrderStoreSuite) TestGet_UnknownID_NotFound() {
	_, err := s.Store.Get(context.Background(), s.unknownID())

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
	var notFound *errs.ObjectNotFoundError
	s.Require().ErrorAs(err, &notFound)
	s.Equal("MS-DOES-NOT-EXIST", notFound.ID)
}

func (s *OrderStoreSuite) TestUpdate_UnknownID_NotFound() {
	_, err := s.Store.Update(context.Background(), s.unknownID(), markPaid)

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *OrderStoreSuite) TestUpdate_PersistsNewSnapshot() {
	ctx := context.Background()
	o := s.NewOrder(time.Now())
	s.Require().NoError(s.Store.Create(ctx, o))

	paid, err := s.Store.Update(ctx, o.ID(), markPaid)
	s.Require().NoError(err)
	s.Equal(order.Confirmed, paid.Status())

	got, err := s.Store.Get(ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(order.Confirmed, got.Status())
	s.Equal(order.AwaitingPayment, o.Status(), "earlier snapshots never change")
}

func (s *OrderStoreSuite) TestUpdate_MutationError_LeavesOrderUntouched() {
	ctx := context.Background()
	o := s.NewOrder(time.Now())
	s.Require().NoError(s.Store.Create(ctx, o))
	boom := errors.New("boom")

	_, err := s.Store.Update(ctx, o.ID(), func(current *order.Order) (*order.Order, error) {
		return nil, boom
	})

	s.Require().ErrorIs(err, boom)
	got, err := s.Store.Get(ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(order.AwaitingPayment, got.Status())
}

func (s *OrderStoreSuite) TestUpdate_NoOpReturnsCurrentState() {
	ctx := context.Background()
	o := s.NewOrder(time.Now())
	s.Require().NoError(s.Store.Create(ctx, o))

	same, err := s.Store.Update(ctx, o.ID(), advance)

	s.Require().NoError(err)
	s.Equal(order.AwaitingPayment, same.Status())
}

func (s *OrderStoreSuite) TestUpdate_WalksToDelivered() {
	ctx := context.Background()
	o := s.NewOrder(time.Now())
	s.Require().NoError(s.Store.Create(ctx, o))

	_, err := s.Store.Update(ctx, o.ID(), markPaid)
	s.Require().NoError(err)
	for range 5 {
		_, err = s.Store.Update(ctx, o.ID(), advance)
		s.Require().NoError(err)
	}

	got, err := s.Store.Get(ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(order.Delivered, got.Status())
}

func (s *OrderStoreSuite) TestListAll_NewestFirst() {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	oldest := s.NewOrder(base.Add(-2 * time.Hour))
	newest := s.NewOrder(base)
	middle := s.NewOrder(base.Add(-time.Hour))
	for _, o := range []*order.Order{oldest, newest, middle} {
		s.Require().NoError(s.Store.Create(ctx, o))
	}

	all, err := s.Store.ListAll(ctx)

	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.True(all[0].ID().IsEqual(newest.ID()))
	s.True(all[1].ID().IsEqual(middle.ID()))
	s.True(all[2].ID().IsEqual(oldest.ID()))
}

func (s *OrderStoreSuite) TestClear_RemovesEverything() {
	ctx := context.Background()
	o := s.NewOrder(time.Now())
	s.Require().NoError(s.Store.Create(ctx, o))

	s.Require().NoError(s.Store.Clear(ctx))

	all, err := s.Store.ListAll(ctx)
	s.Require().NoError(err)
	s.Empty(all)
	_, err = s.Store.Get(ctx, o.ID())
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *OrderStoreSuite) TestConcurrentMarkPaid_ExactlyOneTransition() {
	ctx := context.Background()
	o := s.NewOrder(time.Now())
	s.Require().NoError(s.Store.Create(ctx, o))

	const callers = 16
	var (
		wg          sync.WaitGroup
		transitions atomic.Int32
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Store.Update(ctx, o.ID(), func(current *order.Order) (*order.Order, error) {
				next, err := current.MarkPaid()
				if err == nil && next != current {
					transitions.Add(1)
				}
				return next, err
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	s.Equal(int32(1), transitions.Load())
	got, err := s.Store.Get(ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(order.Confirmed, got.Status())
}

func (s *OrderStoreSuite) TestConcurrentAdvance_NoLostUpdates() {
	ctx := context.Background()
	const orders = 4

	created := make([]*order.Order, 0, orders)
	for i := range orders {
		o := s.NewOrder(time.Now().Add(time.Duration(i) * time.Millisecond))
		s.Require().NoError(s.Store.Create(ctx, o))
		_, err := s.Store.Update(ctx, o.ID(), markPaid)
		s.Require().NoError(err)
		created = append(created, o)
	}

	var wg sync.WaitGroup
	for _, o := range created {
		for range 3 {
			wg.Add(1)
			go func(id kernel.TrackingID) {
				defer wg.Done()
				_, err := s.Store.Update(ctx, id, advance)
				s.NoError(err, fmt.Sprintf("advance %s", id))
			}(o.ID())
		}
	}
	wg.Wait()

	for _, o := range created {
		got, err := s.Store.Get(ctx, o.ID())
		s.Require().NoError(err)
		s.Equal(order.Delivered, got.Status(), "three advances from Confirmed must reach Delivered")
	}
}

func (s *OrderStoreSuite) TestCanceledContext_NothingVisible() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := s.NewOrder(time.Now())

	err := s.Store.Create(ctx, o)

	s.Require().Error(err)
	_, err = s.Store.Get(context.Background(), o.ID())
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}
