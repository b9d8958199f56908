package postgres_test

import (
	"context"
	"testing"
	"time"

	pg "lunchroom/internal/adapters/out/postgres"
	"lunchroom/internal/adapters/out/postgres/orderrepo"
	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/order"
	"lunchroom/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GormUnitOfWorkTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   *pg.GormUnitOfWorkFactory
}

func (suite *GormUnitOfWorkTestSuite) SetupSuite() {
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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}, &orderrepo.OrderSequenceDTO{})
	suite.Require().NoError(err)

	suite.factory = pg.NewGormUnitOfWorkFactory(db)
}

func (suite *GormUnitOfWorkTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GormUnitOfWorkTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, order_sequences CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GormUnitOfWorkTestSuite) newAggregate(number string) *order.Order {
	customer, err := order.NewGuestCustomer("kit@example.com", "Kit", "Fine")
	suite.Require().NoError(err)

	price, err := kernel.NewMoneyFromString("10.50")
	suite.Require().NoError(err)
	item, err := order.NewOrderItem(
		kernel.NewUUID(), kernel.NewUUID(), "Falafel Wrap", 1, price, nil, "", "",
	)
	suite.Require().NoError(err)

	now := time.Date(2026, time.August, 24, 9, 0, 0, 0, time.Local)
	aggregate, err := order.NewOrder(
		kernel.NewUUID(), number, customer, kernel.NewDay(now),
		[]*order.OrderItem{item}, "", "pi_"+kernel.NewUUID().String(), now,
	)
	suite.Require().NoError(err)
	return aggregate
}

func (suite *GormUnitOfWorkTestSuite) TestCommit_MakesWritesVisible() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	aggregate := suite.newAggregate("ORD-20260824-0001")
	err = uow.OrderRepository().Add(ctx, aggregate)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// A fresh unit of work reads from the base connection.
	loaded, err := suite.factory.Create().OrderRepository().Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.True(aggregate.IsEqual(loaded))
}

func (suite *GormUnitOfWorkTestSuite) TestRollback_DiscardsWrites() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	aggregate := suite.newAggregate("ORD-20260824-0002")
	err = uow.OrderRepository().Add(ctx, aggregate)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	_, err = suite.factory.Create().OrderRepository().Get(ctx, aggregate.ID())
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GormUnitOfWorkTestSuite) TestBegin_IsIdempotent() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)
}

func (suite *GormUnitOfWorkTestSuite) TestCommitWithoutBegin_Fails() {
	uow := suite.factory.Create()
	err := uow.Commit(context.Background())
	suite.Require().ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (suite *GormUnitOfWorkTestSuite) TestRollbackWithoutBegin_Fails() {
	uow := suite.factory.Create()
	err := uow.Rollback(context.Background())
	suite.Require().ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (suite *GormUnitOfWorkTestSuite) TestRepositoryOutsideTransaction_WritesImmediately() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Sequence allocation at checkout uses this path so the counter survives
	// a later rollback of the order transaction.
	seq, err := uow.OrderRepository().NextDailySequence(ctx, kernel.Today())
	suite.Require().NoError(err)
	suite.Equal(1, seq)

	err = uow.Begin(ctx)
	suite.Require().NoError(err)
	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	seq, err = suite.factory.Create().OrderRepository().NextDailySequence(ctx, kernel.Today())
	suite.Require().NoError(err)
	suite.Equal(2, seq)
}

func TestGormUnitOfWorkTestSuite(t *testing.T) {
	suite.Run(t, new(GormUnitOfWorkTestSuite))
}
