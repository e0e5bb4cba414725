package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"orderentry/internal/adapters/out/postgres/orderrepo"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderRepositoryIntegrationTestSuite checks the order table mapping against a
// real PostgreSQL instance.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
}

var (
	testPatient = kernel.MustParseUUID("5b0c3f6e-8f43-4a3e-9d1e-3a0d1a5c7b21")
	testDoctor  = kernel.MustNewActor(7, "abc")
	testNow     = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
)

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders RESTART IDENTITY").Error)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSave_NewOrder_AssignsID() {
	ctx := suite.T().Context()
	o := suite.newOrder("ORDER-1")

	suite.Require().NoError(suite.repository.Save(ctx, o))

	suite.Positive(o.ID())
	suite.assertOrderCount(1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSave_RoundTripsEveryField() {
	ctx := suite.T().Context()
	dosage, err := order.NewDosage(2.5, "mg", "BID", 30)
	suite.Require().NoError(err)
	o, err := order.NewDrugOrder(kernel.NewUUID(), testPatient, 1001, dosage, "after meals")
	suite.Require().NoError(err)
	suite.Require().NoError(o.AssignOrderNumber("ORDER-1"))
	suite.Require().NoError(o.Sign(testDoctor, testNow))
	suite.Require().NoError(o.Activate(testDoctor, testNow))
	suite.Require().NoError(o.Fill("pharmacy", testNow, testNow))
	suite.Require().NoError(suite.repository.Save(ctx, o))

	loaded, err := suite.repository.GetByUUID(ctx, o.UUID())
	suite.Require().NoError(err)

	suite.Equal(o.ID(), loaded.ID())
	suite.Equal("ORDER-1", loaded.OrderNumber())
	suite.Equal(order.KindDrug, loaded.Kind())
	suite.Equal(order.Filled, loaded.Stage())
	suite.Equal("pharmacy", loaded.Filler())
	suite.True(loaded.SignedBy().IsEqual(testDoctor))
	suite.True(loaded.DateActivated().Equal(testNow))

	loadedDosage, ok := loaded.Dosage()
	suite.Require().True(ok)
	suite.InDelta(2.5, loadedDosage.Dose(), 0.0001)
	suite.Equal("mg", loadedDosage.Units())
	suite.Equal(30, loadedDosage.Quantity())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSave_UnvoidClearsColumns() {
	ctx := suite.T().Context()
	o := suite.newOrder("ORDER-1")
	suite.Require().NoError(o.Void("entered in error", &testDoctor, testNow))
	suite.Require().NoError(suite.repository.Save(ctx, o))

	o.Unvoid()
	suite.Require().NoError(suite.repository.Save(ctx, o))

	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.False(loaded.IsVoided())
	suite.Empty(loaded.VoidReason())
	suite.Nil(loaded.VoidedBy())
	suite.Nil(loaded.DateVoided())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSave_DuplicateOrderNumber_ReturnsStorageError() {
	ctx := suite.T().Context()
	suite.Require().NoError(suite.repository.Save(ctx, suite.newOrder("ORDER-1")))

	err := suite.repository.Save(ctx, suite.newOrder("ORDER-1"))

	suite.Require().ErrorIs(err, errs.ErrStorageFailed)
	suite.assertOrderCount(1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSave_UnknownPersistedOrder_ReturnsNotFound() {
	ctx := suite.T().Context()
	o := suite.newOrder("ORDER-9")
	o.AssignID(99)

	err := suite.repository.Save(ctx, o)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestIsActivatedInDatabase() {
	ctx := suite.T().Context()
	o := suite.newOrder("ORDER-1")
	suite.Require().NoError(o.Sign(testDoctor, testNow))
	suite.Require().NoError(suite.repository.Save(ctx, o))

	suite.Run("should be false for a new order", func() {
		activated, err := suite.repository.IsActivatedInDatabase(ctx, suite.newOrder(""))
		suite.Require().NoError(err)
		suite.False(activated)
	})

	suite.Run("should read the stored row, not the aggregate", func() {
		suite.Require().NoError(o.Activate(testDoctor, testNow))

		activated, err := suite.repository.IsActivatedInDatabase(ctx, o)
		suite.Require().NoError(err)
		suite.False(activated)

		suite.Require().NoError(suite.repository.Save(ctx, o))

		activated, err = suite.repository.IsActivatedInDatabase(ctx, o)
		suite.Require().NoError(err)
		suite.True(activated)
	})
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetMaximumOrderID() {
	ctx := suite.T().Context()

	suite.Run("should be zero for an empty table", func() {
		var maxID int64
		err := suite.db.Transaction(func(tx *gorm.DB) error {
			var err error
			maxID, err = orderrepo.NewGormOrderRepository(tx).GetMaximumOrderID(ctx)
			return err
		})
		suite.Require().NoError(err)
		suite.Zero(maxID)
	})

	suite.Run("should return the highest id", func() {
		suite.Require().NoError(suite.repository.Save(ctx, suite.newOrder("ORDER-1")))
		second := suite.newOrder("ORDER-2")
		suite.Require().NoError(suite.repository.Save(ctx, second))

		var maxID int64
		err := suite.db.Transaction(func(tx *gorm.DB) error {
			var err error
			maxID, err = orderrepo.NewGormOrderRepository(tx).GetMaximumOrderID(ctx)
			return err
		})
		suite.Require().NoError(err)
		suite.Equal(second.ID(), maxID)
	})
}

func (suite *OrderRepositoryIntegrationTestSuite) TestLookups() {
	ctx := suite.T().Context()
	o := suite.newOrder("ORDER-1")
	suite.Require().NoError(suite.repository.Save(ctx, o))

	suite.Run("should find by order number", func() {
		loaded, err := suite.repository.GetByOrderNumber(ctx, "ORDER-1")
		suite.Require().NoError(err)
		suite.True(loaded.IsEqual(o))
	})

	suite.Run("should report missing rows as not found", func() {
		_, err := suite.repository.Get(ctx, 404)
		suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

		_, err = suite.repository.GetByUUID(ctx, kernel.NewUUID())
		suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

		_, err = suite.repository.GetByOrderNumber(ctx, "ORDER-404")
		suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	})

	suite.Run("should load many by id", func() {
		other := suite.newOrder("ORDER-2")
		suite.Require().NoError(suite.repository.Save(ctx, other))

		loaded, err := suite.repository.GetMany(ctx, []int64{o.ID(), other.ID()})
		suite.Require().NoError(err)
		suite.Len(loaded, 2)
		suite.Equal("ORDER-2", loaded[other.ID()].OrderNumber())

		_, err = suite.repository.GetMany(ctx, []int64{o.ID(), 404})
		suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	})
}

func (suite *OrderRepositoryIntegrationTestSuite) TestDelete() {
	ctx := suite.T().Context()
	o := suite.newOrder("ORDER-1")
	suite.Require().NoError(suite.repository.Save(ctx, o))

	suite.Require().NoError(suite.repository.Delete(ctx, o))
	suite.assertOrderCount(0)

	_, err := suite.repository.Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(number string) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), testPatient, 1001, "")
	suite.Require().NoError(err)
	if number != "" {
		suite.Require().NoError(o.AssignOrderNumber(number))
	}
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
