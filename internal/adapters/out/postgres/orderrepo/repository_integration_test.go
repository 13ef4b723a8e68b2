package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Get connection string and connect to database
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Auto-migrate the schema
	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.MilestoneDTO{},
	))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	// Clean the database before each test
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders CASCADE").Error)

	// Create fresh repository and tracker for each test
	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_RoundTripsAllFacts() {
	ctx := context.Background()

	id := kernel.NewUUID()
	preferred := kernel.NewUUID()
	destination, err := kernel.NewPincode("560034")
	suite.Require().NoError(err)

	items := []order.Item{suite.mustItem("SKU-1", 2), suite.mustItem("SKU-2", 1)}
	payment, err := order.NewCodPayment(1499.50)
	suite.Require().NoError(err)

	placedAt := time.Date(2025, 3, 10, 11, 30, 0, 0, time.UTC)
	originalOrder, err := order.NewOrder(
		id, items, destination, &preferred, order.Express, payment, 2.4, placedAt)
	suite.Require().NoError(err)

	suite.tracker.On("TrackAggregate", id, originalOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, originalOrder))

	retrievedOrder, err := suite.repository.Get(ctx, id)
	suite.Require().NoError(err)

	suite.Equal(id, retrievedOrder.ID())
	suite.Equal("560034", retrievedOrder.Destination().String())
	suite.Require().NotNil(retrievedOrder.PreferredLocationID())
	suite.Equal(preferred, *retrievedOrder.PreferredLocationID())
	suite.Equal(order.Express, retrievedOrder.Priority())
	suite.True(retrievedOrder.Payment().IsCod())
	suite.InDelta(1499.50, retrievedOrder.Payment().CodAmount(), 0.001)
	suite.InDelta(2.4, retrievedOrder.WeightKg(), 0.001)
	suite.True(placedAt.Equal(retrievedOrder.PlacedAt()))
	suite.Equal(order.Pending, retrievedOrder.Status())
	suite.Nil(retrievedOrder.Promise())
	suite.Len(retrievedOrder.Items(), 2)
	suite.Equal("SKU-1", retrievedOrder.Items()[0].SkuID())
	suite.Equal(2, retrievedOrder.Items()[0].Quantity())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	nonExistentID := kernel.NewUUID()
	retrievedOrder, err := suite.repository.Get(ctx, nonExistentID)

	suite.Nil(retrievedOrder)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsPromiseAndStatus() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// Walk the order through orchestration to SLA_SET
	suite.Require().NoError(testOrder.MarkServiceabilityChecked())
	promisedAt := time.Date(2025, 3, 13, 23, 59, 59, 0, time.UTC)
	decision, err := sla.NewDecision(promisedAt, 3)
	suite.Require().NoError(err)
	suite.Require().NoError(testOrder.SetPromise(decision))

	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.SlaSet, retrievedOrder.Status())
	suite.Require().NotNil(retrievedOrder.Promise())
	suite.True(promisedAt.Equal(retrievedOrder.Promise().PromisedAt()))
	suite.Equal(3, retrievedOrder.Promise().TatDays())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ReplacesMilestones() {
	ctx := context.Background()

	testOrder := suite.createHandedOffOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	pickedAt := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	picked, err := order.NewMilestone(order.Picked, pickedAt)
	suite.Require().NoError(err)
	suite.Require().NoError(testOrder.RecordMilestone(picked))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	deliveredAt := time.Date(2025, 3, 12, 17, 45, 0, 0, time.UTC)
	delivered, err := order.NewMilestone(order.Delivered, deliveredAt)
	suite.Require().NoError(err)
	suite.Require().NoError(testOrder.RecordMilestone(delivered))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Len(retrievedOrder.Milestones(), 2)
	suite.Require().NotNil(retrievedOrder.DeliveredAt())
	suite.True(deliveredAt.Equal(*retrievedOrder.DeliveredAt()))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	ctx := context.Background()

	nonExistentOrder := suite.createTestOrder()

	// No expectations on tracker since operation should fail
	err := suite.repository.Update(ctx, nonExistentOrder)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetFirstInPendingStatus_ReturnsOldestPlacedOrder() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	later := suite.createTestOrderPlacedAt(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	earliest := suite.createTestOrderPlacedAt(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	handedOff := suite.createHandedOffOrder()

	suite.Require().NoError(suite.repository.Add(ctx, later))
	suite.Require().NoError(suite.repository.Add(ctx, earliest))
	suite.Require().NoError(suite.repository.Add(ctx, handedOff))

	retrievedOrder, err := suite.repository.GetFirstInPendingStatus(ctx)
	suite.Require().NoError(err)
	suite.Equal(earliest.ID(), retrievedOrder.ID())
	suite.Equal(order.Pending, retrievedOrder.Status())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetFirstInPendingStatus_NoPendingOrders_ReturnsNotFoundError() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Once()
	suite.Require().NoError(suite.repository.Add(ctx, suite.createHandedOffOrder()))

	retrievedOrder, err := suite.repository.GetFirstInPendingStatus(ctx)

	suite.Nil(retrievedOrder)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllPromisedUndelivered_SkipsDeliveredAndUnpromised() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(4)

	// Pending order without a promise, excluded
	unpromised := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, unpromised))

	// Handed-off order with a promise and no DELIVERED milestone, included
	undelivered := suite.createHandedOffOrder()
	suite.Require().NoError(suite.repository.Add(ctx, undelivered))

	// Handed-off order already delivered, excluded
	deliveredOrder := suite.createHandedOffOrder()
	milestone, err := order.NewMilestone(order.Delivered, time.Date(2025, 3, 12, 17, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.Require().NoError(deliveredOrder.RecordMilestone(milestone))
	suite.Require().NoError(suite.repository.Add(ctx, deliveredOrder))
	suite.Require().NoError(suite.repository.Update(ctx, deliveredOrder))

	promisedOrders, err := suite.repository.GetAllPromisedUndelivered(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(promisedOrders, 1)
	suite.Equal(undelivered.ID(), promisedOrders[0].ID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_InvalidUUID_ReturnsValidationError() {
	ctx := context.Background()

	invalidID := kernel.UUID{}
	retrievedOrder, err := suite.repository.Get(ctx, invalidID)

	suite.Nil(retrievedOrder)
	suite.Require().Error(err)
	suite.tracker.AssertExpectations(suite.T())
}

// createTestOrder creates a basic pending test order with default values.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	return suite.createTestOrderPlacedAt(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))
}

// createTestOrderPlacedAt creates a pending test order placed at the given time.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrderPlacedAt(placedAt time.Time) *order.Order {
	id := kernel.NewUUID()
	destination, err := kernel.NewPincode("110042")
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		id,
		[]order.Item{suite.mustItem("SKU-1", 2)},
		destination,
		nil,
		order.Standard,
		order.NewPrepaidPayment(),
		1.5,
		placedAt,
	)
	suite.Require().NoError(err)
	return testOrder
}

// createHandedOffOrder creates an order walked through the full orchestration
// state machine to HANDED_OFF, carrying a delivery promise.
func (suite *OrderRepositoryIntegrationTestSuite) createHandedOffOrder() *order.Order {
	testOrder := suite.createTestOrder()

	suite.Require().NoError(testOrder.MarkServiceabilityChecked())
	decision, err := sla.NewDecision(time.Date(2025, 3, 13, 23, 59, 59, 0, time.UTC), 3)
	suite.Require().NoError(err)
	suite.Require().NoError(testOrder.SetPromise(decision))
	suite.Require().NoError(testOrder.MarkAllocated())
	suite.Require().NoError(testOrder.MarkPartnerSelected())
	suite.Require().NoError(testOrder.HandOff())

	return testOrder
}

// mustItem builds a line item, failing the suite on invalid input.
func (suite *OrderRepositoryIntegrationTestSuite) mustItem(skuID string, quantity int) order.Item {
	item, err := order.NewItem(skuID, quantity)
	suite.Require().NoError(err)
	return item
}

// assertOrderCount verifies the number of orders in the database.
func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
