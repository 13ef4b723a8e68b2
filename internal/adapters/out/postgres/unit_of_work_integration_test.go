package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/runrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/orchestration"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/sla"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides comprehensive integration testing
// for the GORM-based Unit of Work implementation with real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes PostgreSQL container and database connection for all tests.
// Runs database migrations to prepare schema for unit of work operations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Connect to database
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Run migrations
	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.MilestoneDTO{},
		&runrepo.RunDTO{},
		&runrepo.TrailEntryDTO{},
	)
	suite.Require().NoError(err)

	// Create factory
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
// Truncates all tables to prevent test interference.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, order_milestones, orchestration_runs, orchestration_trail_entries").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies factory creates unit of work instances
// with proper initialization and isolation between instances.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	// Create multiple unit of work instances
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	// Verify instances are different
	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	// Verify both instances provide access to repositories
	suite.NotNil(uow1.OrderRepository(), "First instance should provide order repository")
	suite.NotNil(uow1.RunRepository(), "First instance should provide run repository")
	suite.NotNil(uow2.OrderRepository(), "Second instance should provide order repository")
	suite.NotNil(uow2.RunRepository(), "Second instance should provide run repository")
}

// TestUnitOfWork_TransactionLifecycle verifies proper transaction management
// including begin, commit, and rollback operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Test begin transaction
	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	// Test multiple begin calls are safe
	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	// Test commit
	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	// Test rollback on new transaction
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Test commit without begin
	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	// Test rollback without begin
	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_SingleRepositoryTransaction verifies repository operations
// within a single transaction boundary work correctly.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_SingleRepositoryTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Create test order
	testOrder := createTestOrder()

	// Begin transaction
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	// Add order within transaction
	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Verify order exists within transaction
	retrievedOrder, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())

	// Commit transaction
	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify order persists after commit using new unit of work
	newUow := suite.factory.Create()
	retrievedOrder, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())
}

// TestUnitOfWork_OrchestrationPersistence verifies the orchestration write set
// persists atomically: the advanced order and its run land in one transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OrchestrationPersistence() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Intake the order first
	testOrder := createTestOrder()
	err := uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Begin transaction for the orchestration write set
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	// Walk the order through orchestration and build the trail
	testRun := walkThroughOrchestration(suite.T(), testOrder)

	err = uow.OrderRepository().Update(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.RunRepository().Add(ctx, testRun)
	suite.Require().NoError(err)

	// Commit transaction
	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify both writes persisted with the linkage intact
	newUow := suite.factory.Create()

	retrievedOrder, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.HandedOff, retrievedOrder.Status())
	suite.NotNil(retrievedOrder.Promise())

	retrievedRun, err := newUow.RunRepository().GetLastForOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testRun.ID(), retrievedRun.ID())
	suite.Equal(testOrder.ID(), retrievedRun.OrderID())
	suite.True(retrievedRun.Success())
	suite.Equal(orchestration.NextStepPicklistGeneration, retrievedRun.NextStep())
}

// TestUnitOfWork_TransactionRollback verifies rollback discards all changes
// made within the transaction across multiple repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Create test entities
	testOrder := createTestOrder()
	testRun, err := orchestration.NewRun(testOrder.ID(), testOrder.PlacedAt())
	suite.Require().NoError(err)
	suite.Require().NoError(testRun.Complete(false, orchestration.NextStepNone))

	// Begin transaction
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	// Add entities within transaction
	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.RunRepository().Add(ctx, testRun)
	suite.Require().NoError(err)

	// Verify entities exist within transaction
	_, err = uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	_, err = uow.RunRepository().Get(ctx, testRun.ID())
	suite.Require().NoError(err)

	// Rollback transaction
	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	// Verify entities do not exist after rollback using new unit of work
	newUow := suite.factory.Create()

	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")

	_, err = newUow.RunRepository().Get(ctx, testRun.ID())
	suite.Require().Error(err, "Run should not exist after rollback")
}

// TestUnitOfWork_RepositoryIsolation verifies that repositories obtained
// from different unit of work instances operate independently.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	// Create two unit of work instances
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	// Create test orders
	order1 := createTestOrder()
	order2 := createTestOrder()

	// Begin transactions on both
	err := uow1.Begin(ctx)
	suite.Require().NoError(err)

	err = uow2.Begin(ctx)
	suite.Require().NoError(err)

	// Add different orders in each transaction
	err = uow1.OrderRepository().Add(ctx, order1)
	suite.Require().NoError(err)

	err = uow2.OrderRepository().Add(ctx, order2)
	suite.Require().NoError(err)

	// Each transaction should only see its own changes
	_, err = uow1.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "UOW1 should see order1")

	_, err = uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")

	_, err = uow2.OrderRepository().Get(ctx, order2.ID())
	suite.Require().NoError(err, "UOW2 should see order2")

	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	// Commit first transaction
	err = uow1.Commit(ctx)
	suite.Require().NoError(err)

	// Rollback second transaction
	err = uow2.Rollback(ctx)
	suite.Require().NoError(err)

	// Verify only order1 persisted
	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")

	_, err = newUow.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "Order2 should not persist after rollback")
}

// TestUnitOfWork_WithoutTransaction verifies that repositories work correctly
// without explicit transaction boundaries for immediate operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Create test order
	testOrder := createTestOrder()

	// Add order without beginning transaction (should auto-commit)
	err := uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Verify order persists immediately
	retrievedOrder, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())

	// Verify with new unit of work instance
	newUow := suite.factory.Create()
	retrievedOrder, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())
}

// TestUnitOfWork_BlockedOrderWorkflow tests the blocked-orchestration write set:
// the blocked order and its failed run persist together.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_BlockedOrderWorkflow() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Intake the order
	testOrder := createTestOrder()
	err := uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Begin transaction for the blocked outcome
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	// Block the order with a failed run recording the gate outcome
	testRun, err := orchestration.NewRun(testOrder.ID(), testOrder.PlacedAt().Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(testRun.Append(orchestration.StepServiceabilityCheck, false, map[string]any{
		"serviceable": false,
	}))
	suite.Require().NoError(testRun.Complete(false, orchestration.NextStepNone))
	suite.Require().NoError(testOrder.Block("ROUTE_NOT_SERVICEABLE"))

	err = uow.OrderRepository().Update(ctx, testOrder)
	suite.Require().NoError(err)
	err = uow.RunRepository().Add(ctx, testRun)
	suite.Require().NoError(err)

	// Commit the write set
	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify final state using a new unit of work
	newUow := suite.factory.Create()

	retrievedOrder, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Blocked, retrievedOrder.Status())
	suite.Equal("ROUTE_NOT_SERVICEABLE", retrievedOrder.BlockReason())

	retrievedRun, err := newUow.RunRepository().GetLastForOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.False(retrievedRun.Success())
	suite.Equal(orchestration.NextStepNone, retrievedRun.NextStep())
}

// TestUnitOfWork_QueryConsistency verifies query results are consistent within transactions.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_QueryConsistency() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Create initial data outside transaction
	order1 := createTestOrder()
	order2 := createTestOrderPlacedAt(order1.PlacedAt().Add(time.Hour))

	err := uow.OrderRepository().Add(ctx, order1)
	suite.Require().NoError(err)
	err = uow.OrderRepository().Add(ctx, order2)
	suite.Require().NoError(err)

	// Begin transaction
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	// Hand off the first order
	walkThroughOrchestration(suite.T(), order1)
	err = uow.OrderRepository().Update(ctx, order1)
	suite.Require().NoError(err)

	// Query for pending orders - should find order2, not the handed-off order1
	pendingOrder, err := uow.OrderRepository().GetFirstInPendingStatus(ctx)
	suite.Require().NoError(err)
	suite.Equal(order2.ID(), pendingOrder.ID(), "Should find the remaining pending order")

	// Query for promised undelivered orders - should include order1
	promisedOrders, err := uow.OrderRepository().GetAllPromisedUndelivered(ctx)
	suite.Require().NoError(err)
	suite.Len(promisedOrders, 1)
	suite.Equal(order1.ID(), promisedOrders[0].ID())

	// Commit transaction
	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify queries still return consistent results after commit
	newUow := suite.factory.Create()

	pendingOrder, err = newUow.OrderRepository().GetFirstInPendingStatus(ctx)
	suite.Require().NoError(err)
	suite.Equal(order2.ID(), pendingOrder.ID())

	promisedOrders, err = newUow.OrderRepository().GetAllPromisedUndelivered(ctx)
	suite.Require().NoError(err)
	suite.Len(promisedOrders, 1)
	suite.Equal(order1.ID(), promisedOrders[0].ID())
}

// createTestOrder creates a valid pending order for testing purposes.
func createTestOrder() *order.Order {
	return createTestOrderPlacedAt(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))
}

// createTestOrderPlacedAt creates a valid pending order placed at the given time.
func createTestOrderPlacedAt(placedAt time.Time) *order.Order {
	id := kernel.NewUUID()
	destination, _ := kernel.NewPincode("110042")
	item, _ := order.NewItem("SKU-1", 2)
	testOrder, _ := order.NewOrder(
		id, []order.Item{item}, destination, nil,
		order.Standard, order.NewPrepaidPayment(), 1.5, placedAt)
	return testOrder
}

// walkThroughOrchestration advances an order to HANDED_OFF and returns the
// matching successful run.
func walkThroughOrchestration(t *testing.T, testOrder *order.Order) *orchestration.Run {
	t.Helper()

	run, err := orchestration.NewRun(testOrder.ID(), testOrder.PlacedAt().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	decision, err := sla.NewDecision(testOrder.PlacedAt().AddDate(0, 0, 3), 3)
	if err != nil {
		t.Fatal(err)
	}

	steps := []error{
		testOrder.MarkServiceabilityChecked(),
		testOrder.SetPromise(decision),
		testOrder.MarkAllocated(),
		testOrder.MarkPartnerSelected(),
		testOrder.HandOff(),
		run.Append(orchestration.StepServiceabilityCheck, true, map[string]any{"serviceable": true}),
		run.Append(orchestration.StepSlaCalculation, true, map[string]any{"tatDays": float64(3)}),
		run.Append(orchestration.StepAllocation, true, map[string]any{"strategy": "SINGLE_LOCATION"}),
		run.Append(orchestration.StepPartnerSelection, true, map[string]any{"carrier": "BLUEDART"}),
		run.Complete(true, orchestration.NextStepPicklistGeneration),
	}
	for _, stepErr := range steps {
		if stepErr != nil {
			t.Fatal(stepErr)
		}
	}

	return run
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
