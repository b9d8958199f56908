package queries_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lunchroom/internal/adapters/out/postgres/accountrepo"
	"lunchroom/internal/adapters/out/postgres/orderrepo"
	"lunchroom/internal/core/application/usecases/queries"
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

type noopTracker struct{}

func (noopTracker) TrackAggregate(_ kernel.UUID, _ any) {}

type QueriesTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *orderrepo.GormOrderRepository
	day       kernel.Day
	sequence  int
}

func (suite *QueriesTestSuite) SetupSuite() {
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

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.OrderSequenceDTO{},
		&accountrepo.UserDTO{},
	)
	suite.Require().NoError(err)

	suite.repo = orderrepo.NewGormOrderRepository(db, noopTracker{})
	suite.day = kernel.NewDay(time.Date(2026, time.August, 24, 0, 0, 0, 0, time.Local))
}

func (suite *QueriesTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *QueriesTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, order_sequences, users CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *QueriesTestSuite) money(s string) kernel.Money {
	m, err := kernel.NewMoneyFromString(s)
	suite.Require().NoError(err)
	return m
}

type seededLine struct {
	menuItemID     kernel.UUID
	name           string
	quantity       int
	unitPrice      string
	variations     []order.SelectedVariation
	customizations string
}

func (suite *QueriesTestSuite) seedOrder(customer order.Customer, day kernel.Day, lines []seededLine) *order.Order {
	items := make([]*order.OrderItem, 0, len(lines))
	for _, line := range lines {
		item, err := order.NewOrderItem(
			kernel.NewUUID(), line.menuItemID, line.name,
			line.quantity, suite.money(line.unitPrice), line.variations, line.customizations, "",
		)
		suite.Require().NoError(err)
		items = append(items, item)
	}

	suite.sequence++
	aggregate, err := order.NewOrder(
		kernel.NewUUID(),
		fmt.Sprintf("ORD-%s-%04d", day.Compact(), suite.sequence),
		customer,
		day,
		items,
		"",
		fmt.Sprintf("pi_%s", kernel.NewUUID()),
		day.Time().Add(9*time.Hour),
	)
	suite.Require().NoError(err)

	err = suite.repo.Add(context.Background(), aggregate)
	suite.Require().NoError(err)
	return aggregate
}

func (suite *QueriesTestSuite) seedGuest(email, first, last string) order.Customer {
	customer, err := order.NewGuestCustomer(email, first, last)
	suite.Require().NoError(err)
	return customer
}

func (suite *QueriesTestSuite) seedUser(email, first, last string) (kernel.UUID, order.Customer) {
	userID := kernel.NewUUID()
	err := suite.db.Create(&accountrepo.UserDTO{
		ID:        userID.Bytes(),
		Email:     email,
		FirstName: first,
		LastName:  last,
		CreatedAt: time.Now(),
	}).Error
	suite.Require().NoError(err)

	customer, err := order.NewRegisteredCustomer(userID, email)
	suite.Require().NoError(err)
	return userID, customer
}

func (suite *QueriesTestSuite) TestGetKitchenOrders_ListsDayInNumberOrder() {
	ctx := context.Background()
	wrap := kernel.NewUUID()

	_, registered := suite.seedUser("ana@example.com", "Ana", "Ruiz")
	first := suite.seedOrder(registered, suite.day, []seededLine{
		{menuItemID: wrap, name: "Falafel Wrap", quantity: 2, unitPrice: "10.50", variations: []order.SelectedVariation{{
			GroupID:    kernel.NewUUID(),
			GroupName:  "Spice Level",
			OptionID:   kernel.NewUUID(),
			OptionName: "Extra Hot",
			Modifier:   suite.money("0.00"),
		}}, customizations: "extra sauce"},
	})
	second := suite.seedOrder(suite.seedGuest("kit@example.com", "Kit", "Fine"), suite.day, []seededLine{
		{menuItemID: kernel.NewUUID(), name: "Lentil Soup", quantity: 1, unitPrice: "6.00"},
	})

	// A different day stays out of the listing.
	otherDay := kernel.NewDay(suite.day.Time().AddDate(0, 0, 1))
	suite.seedOrder(suite.seedGuest("other@example.com", "Ot", "Her"), otherDay, []seededLine{
		{menuItemID: kernel.NewUUID(), name: "Falafel Wrap", quantity: 1, unitPrice: "10.50"},
	})

	handler := queries.NewGetKitchenOrdersQueryHandler(suite.db)
	responses, err := handler.Handle(ctx, queries.NewGetKitchenOrdersQuery(suite.day))
	suite.Require().NoError(err)
	suite.Require().Len(responses, 2)

	suite.Equal(first.Number(), responses[0].Number)
	suite.Equal("Ana Ruiz", responses[0].CustomerName)
	suite.Equal("PLACED", responses[0].FulfillmentStatus)
	suite.Equal("PENDING", responses[0].PaymentStatus)
	suite.True(suite.money("21.00").IsEqual(responses[0].TotalAmount))
	suite.Require().Len(responses[0].Items, 1)
	suite.Equal("Falafel Wrap", responses[0].Items[0].MenuItemName)
	suite.Equal(2, responses[0].Items[0].Quantity)
	suite.Equal("extra sauce", responses[0].Items[0].Customizations)
	suite.Require().Len(responses[0].Items[0].Variations, 1)
	suite.Equal("Spice Level", responses[0].Items[0].Variations[0].GroupName)
	suite.Equal("Extra Hot", responses[0].Items[0].Variations[0].OptionName)

	suite.Equal(second.Number(), responses[1].Number)
	suite.Equal("Kit Fine", responses[1].CustomerName)
}

func (suite *QueriesTestSuite) TestGetKitchenOrders_Filtered() {
	ctx := context.Background()
	wrap := kernel.NewUUID()

	withWrap := suite.seedOrder(suite.seedGuest("kit@example.com", "Kit", "Fine"), suite.day, []seededLine{
		{menuItemID: wrap, name: "Falafel Wrap", quantity: 1, unitPrice: "10.50"},
		{menuItemID: kernel.NewUUID(), name: "Lentil Soup", quantity: 1, unitPrice: "6.00"},
	})
	soupOnly := suite.seedOrder(suite.seedGuest("ana@example.com", "Ana", "Ruiz"), suite.day, []seededLine{
		{menuItemID: kernel.NewUUID(), name: "Lentil Soup", quantity: 2, unitPrice: "6.00"},
	})

	changed, err := soupOnly.SetItemStatus(soupOnly.Items()[0].ID(), order.Fulfilled, time.Now())
	suite.Require().NoError(err)
	suite.True(changed)
	err = suite.repo.UpdateFulfillment(ctx, soupOnly)
	suite.Require().NoError(err)

	handler := queries.NewGetKitchenOrdersQueryHandler(suite.db)

	// Filtering by dish keeps whole orders that contain it.
	query, err := queries.NewFilteredGetKitchenOrdersQuery(suite.day, queries.KitchenOrdersFilter{MenuItemID: &wrap})
	suite.Require().NoError(err)
	responses, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(responses, 1)
	suite.Equal(withWrap.Number(), responses[0].Number)
	suite.Len(responses[0].Items, 2)

	// Filtering by rollup status.
	fulfilled := order.Fulfilled
	query, err = queries.NewFilteredGetKitchenOrdersQuery(suite.day, queries.KitchenOrdersFilter{FulfillmentStatus: &fulfilled})
	suite.Require().NoError(err)
	responses, err = handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(responses, 1)
	suite.Equal(soupOnly.Number(), responses[0].Number)
}

func (suite *QueriesTestSuite) TestGetKitchenOrders_EmptyDay() {
	handler := queries.NewGetKitchenOrdersQueryHandler(suite.db)
	responses, err := handler.Handle(context.Background(), queries.NewGetKitchenOrdersQuery(suite.day))
	suite.Require().NoError(err)
	suite.Empty(responses)
}

func (suite *QueriesTestSuite) TestGetKitchenSummary_AggregatesAndTracksRemaining() {
	ctx := context.Background()
	wrap := kernel.NewUUID()
	soup := kernel.NewUUID()

	big := suite.seedOrder(suite.seedGuest("kit@example.com", "Kit", "Fine"), suite.day, []seededLine{
		{menuItemID: wrap, name: "Falafel Wrap", quantity: 2, unitPrice: "10.50"},
		{menuItemID: soup, name: "Lentil Soup", quantity: 1, unitPrice: "6.00"},
	})
	suite.seedOrder(suite.seedGuest("ana@example.com", "Ana", "Ruiz"), suite.day, []seededLine{
		{menuItemID: wrap, name: "Falafel Wrap", quantity: 1, unitPrice: "10.50", customizations: "no garlic"},
	})

	// Cooking the big order's wrap line removes its units from the backlog.
	var wrapLine *order.OrderItem
	for _, item := range big.Items() {
		if item.MenuItemID().IsEqual(wrap) {
			wrapLine = item
		}
	}
	suite.Require().NotNil(wrapLine)
	changed, err := big.SetItemStatus(wrapLine.ID(), order.Fulfilled, time.Now())
	suite.Require().NoError(err)
	suite.True(changed)
	err = suite.repo.UpdateFulfillment(ctx, big)
	suite.Require().NoError(err)

	handler := queries.NewGetKitchenSummaryQueryHandler(suite.db)
	rows, err := handler.Handle(ctx, queries.NewGetKitchenSummaryQuery(suite.day))
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)

	// Highest demand first.
	suite.Equal("Falafel Wrap", rows[0].MenuItemName)
	suite.True(wrap.IsEqual(rows[0].MenuItemID))
	suite.Equal(3, rows[0].TotalQuantity)
	suite.Equal(1, rows[0].RemainingQuantity)

	// Contributing lines, still-placed first.
	suite.Require().Len(rows[0].Lines, 2)
	suite.Equal("PLACED", rows[0].Lines[0].Status)
	suite.Equal("Ana Ruiz", rows[0].Lines[0].CustomerName)
	suite.Equal(1, rows[0].Lines[0].Quantity)
	suite.Equal("no garlic", rows[0].Lines[0].Customizations)
	suite.Equal("FULFILLED", rows[0].Lines[1].Status)
	suite.Equal("Kit Fine", rows[0].Lines[1].CustomerName)
	suite.Equal(2, rows[0].Lines[1].Quantity)
	suite.Equal(big.Number(), rows[0].Lines[1].OrderNumber)

	suite.Equal("Lentil Soup", rows[1].MenuItemName)
	suite.Equal(1, rows[1].TotalQuantity)
	suite.Equal(1, rows[1].RemainingQuantity)
	suite.Require().Len(rows[1].Lines, 1)
	suite.Equal(big.Number(), rows[1].Lines[0].OrderNumber)
}

func (suite *QueriesTestSuite) TestGetDailyStats_CountsAndBreaksDown() {
	ctx := context.Background()

	paid := suite.seedOrder(suite.seedGuest("kit@example.com", "Kit", "Fine"), suite.day, []seededLine{
		{menuItemID: kernel.NewUUID(), name: "Falafel Wrap", quantity: 2, unitPrice: "10.50"},
	})
	err := paid.CompletePayment(time.Now())
	suite.Require().NoError(err)
	err = suite.repo.UpdatePaymentStatus(ctx, paid)
	suite.Require().NoError(err)

	suite.seedOrder(suite.seedGuest("ana@example.com", "Ana", "Ruiz"), suite.day, []seededLine{
		{menuItemID: kernel.NewUUID(), name: "Lentil Soup", quantity: 1, unitPrice: "6.00"},
	})

	handler := queries.NewGetDailyStatsQueryHandler(suite.db)
	resp, err := handler.Handle(ctx, queries.NewGetDailyStatsQuery(suite.day))
	suite.Require().NoError(err)

	suite.Equal(2, resp.OrderCount)
	suite.True(suite.money("27.00").IsEqual(resp.Revenue))
	suite.Equal(map[string]int{"COMPLETED": 1, "PENDING": 1}, resp.ByPaymentStatus)
	suite.Equal(map[string]int{"PLACED": 2}, resp.ByFulfillmentStatus)
	suite.True(suite.day.IsEqual(resp.Day))
}

func (suite *QueriesTestSuite) TestGetDailyStats_EmptyDay() {
	handler := queries.NewGetDailyStatsQueryHandler(suite.db)
	resp, err := handler.Handle(context.Background(), queries.NewGetDailyStatsQuery(suite.day))
	suite.Require().NoError(err)
	suite.Equal(0, resp.OrderCount)
	suite.True(kernel.Zero().IsEqual(resp.Revenue))
	suite.Empty(resp.ByPaymentStatus)
	suite.Empty(resp.ByFulfillmentStatus)
}

func (suite *QueriesTestSuite) TestGetOrder_OwnerScoping() {
	ctx := context.Background()
	userID, registered := suite.seedUser("ana@example.com", "Ana", "Ruiz")

	owned := suite.seedOrder(registered, suite.day, []seededLine{
		{menuItemID: kernel.NewUUID(), name: "Falafel Wrap", quantity: 1, unitPrice: "10.50", customizations: "gluten-free wrap"},
	})
	guestOrder := suite.seedOrder(suite.seedGuest("kit@example.com", "Kit", "Fine"), suite.day, []seededLine{
		{menuItemID: kernel.NewUUID(), name: "Lentil Soup", quantity: 1, unitPrice: "6.00"},
	})

	handler := queries.NewGetOrderQueryHandler(suite.db)

	query, err := queries.NewGetOrderQuery(owned.ID(), &userID)
	suite.Require().NoError(err)
	resp, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.True(owned.ID().IsEqual(resp.ID))
	suite.Equal(owned.Number(), resp.Number)
	suite.Equal("PLACED", resp.FulfillmentStatus)
	suite.Equal("PENDING", resp.PaymentStatus)
	suite.True(suite.day.IsEqual(resp.OrderDate))
	suite.Require().Len(resp.Items, 1)
	suite.Equal("Falafel Wrap", resp.Items[0].MenuItemName)
	suite.Equal("gluten-free wrap", resp.Items[0].Customizations)

	// The guest scope cannot read a registered user's order.
	query, err = queries.NewGetOrderQuery(owned.ID(), nil)
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, query)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)

	// The guest scope reads guest orders.
	query, err = queries.NewGetOrderQuery(guestOrder.ID(), nil)
	suite.Require().NoError(err)
	resp, err = handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.True(guestOrder.ID().IsEqual(resp.ID))

	// A registered user cannot read a guest order.
	query, err = queries.NewGetOrderQuery(guestOrder.ID(), &userID)
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, query)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesTestSuite) TestGetOrder_NotFound() {
	handler := queries.NewGetOrderQueryHandler(suite.db)
	query, err := queries.NewGetOrderQuery(kernel.NewUUID(), nil)
	suite.Require().NoError(err)
	_, err = handler.Handle(context.Background(), query)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func TestQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesTestSuite))
}
