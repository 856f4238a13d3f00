package mysql

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"storefront/domain/catalog"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/mysql/po"
	"storefront/infrastructure/persistence/retry"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a file-backed sqlite database with the production schema.
// One connection keeps sqlite from reporting "database is locked" between
// concurrent transactions.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &Config{LogLevel: "silent"}
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), cfg.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

type admin struct{}

func (admin) IdentityID() string  { return "admin" }
func (admin) IsAdmin() bool       { return true }
func (admin) DisplayName() string { return "admin" }

func newOrder(t *testing.T, code, owner string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(code, order.Owner{ID: owner, Name: owner + "-name"}, []order.ItemRequest{
		{ProductID: "p1", ProductName: "Green tea", Quantity: 2, UnitPrice: shared.MustMoney("10.50")},
		{ProductID: "p2", Quantity: 1, UnitPrice: shared.MustMoney("3.25")},
	})
	require.NoError(t, err)
	return o
}

func TestOrderRepositorySaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(t))

	o := newOrder(t, "ABCD1234", "user-1")
	require.NoError(t, repo.Save(ctx, o))
	assert.False(t, o.IsNew())

	got, err := repo.FindByCode(ctx, "ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, o.ID(), got.ID())
	assert.Equal(t, "user-1", got.OwnerID())
	assert.Equal(t, "user-1-name", got.OwnerName())
	assert.Equal(t, order.StatusPending, got.Status())
	assert.Equal(t, 0, got.Version())
	assert.True(t, got.TotalPrice().Equals(shared.MustMoney("24.25")), "total %s", got.TotalPrice())
	require.Len(t, got.Items(), 2)
	names := map[string]string{}
	for _, item := range got.Items() {
		names[item.ProductID()] = item.ProductName()
	}
	assert.Equal(t, "Green tea", names["p1"])
	assert.False(t, got.RecomputeTotal(), "stored total must match items")

	exists, err := repo.CodeExists(ctx, "ABCD1234")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.CodeExists(ctx, "ZZZZ0000")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOrderRepositoryFindByCodeNotFound(t *testing.T) {
	repo := NewOrderRepository(newTestDB(t))
	_, err := repo.FindByCode(context.Background(), "NOPE0000")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderRepositoryDuplicateCodeLeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	require.NoError(t, repo.Save(ctx, newOrder(t, "SAME0001", "user-1")))

	dup := newOrder(t, "SAME0001", "user-2")
	err := repo.Save(ctx, dup)
	assert.ErrorIs(t, err, order.ErrDuplicateCode)
	assert.True(t, dup.IsNew())

	var items int64
	require.NoError(t, db.Model(&po.OrderItemPO{}).Where("order_id = ?", dup.ID()).Count(&items).Error)
	assert.Zero(t, items, "rejected order must not leave items")
}

func TestOrderRepositoryOptimisticLock(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(t))
	require.NoError(t, repo.Save(ctx, newOrder(t, "LOCK0001", "user-1")))

	first, err := repo.FindByCode(ctx, "LOCK0001")
	require.NoError(t, err)
	second, err := repo.FindByCode(ctx, "LOCK0001")
	require.NoError(t, err)

	wf := order.NewWorkflow()
	status := "completed"
	_, err = wf.Apply(first, admin{}, order.Patch{Status: &status})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, 1, first.Version())

	cancelled, reason := "cancelled", "duplicate"
	_, err = wf.Apply(second, admin{}, order.Patch{Status: &cancelled, CancelReason: &reason})
	require.NoError(t, err)
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, order.ErrConcurrentModification)

	stored, err := repo.FindByCode(ctx, "LOCK0001")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, stored.Status())
	assert.Equal(t, 1, stored.Version())
}

func TestOrderRepositoryFindBySpecification(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(t))

	codes := []struct{ code, owner string }{
		{"AAAA0001", "alice"},
		{"BBBB0002", "bob"},
		{"AAAA0003", "alice"},
	}
	for _, c := range codes {
		require.NoError(t, repo.Save(ctx, newOrder(t, c.code, c.owner)))
	}

	all, err := repo.FindBySpecification(ctx, shared.All[*order.Order]())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"AAAA0003", "BBBB0002", "AAAA0001"}, orderCodes(all), "newest first")
	for _, o := range all {
		assert.Len(t, o.Items(), 2)
	}

	alice, err := repo.FindBySpecification(ctx, order.NewByOwnerSpecification("alice"))
	require.NoError(t, err)
	assert.Equal(t, []string{"AAAA0003", "AAAA0001"}, orderCodes(alice))

	alicePending, err := repo.FindBySpecification(ctx, shared.And(
		order.NewByOwnerSpecification("alice"),
		order.NewByStatusSpecification(order.StatusPending),
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"AAAA0003", "AAAA0001"}, orderCodes(alicePending))

	cancelled, err := repo.FindBySpecification(ctx, order.NewByStatusSpecification(order.StatusCancelled))
	require.NoError(t, err)
	assert.Empty(t, cancelled)

	none, err := repo.FindBySpecification(ctx, order.NewByOwnerSpecification("carol"))
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.FindBySpecification(ctx, codePrefixSpec{prefix: "AAAA"})
	assert.Error(t, err, "untranslatable specifications must not fall back to an unfiltered query")
}

// codePrefixSpec has no SQL translation
type codePrefixSpec struct{ prefix string }

func (s codePrefixSpec) IsSatisfiedBy(_ context.Context, o *order.Order) bool {
	return strings.HasPrefix(o.Code(), s.prefix)
}

func orderCodes(orders []*order.Order) []string {
	codes := make([]string, len(orders))
	for i, o := range orders {
		codes[i] = o.Code()
	}
	return codes
}

func TestUnitOfWorkRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	uow := NewUnitOfWork(db, retry.DefaultConfig)

	boom := errors.New("boom")
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if err := repo.Save(ctx, newOrder(t, "ROLL0001", "user-1")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := repo.CodeExists(ctx, "ROLL0001")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnitOfWorkRetriesConflicts(t *testing.T) {
	db := newTestDB(t)
	cfg := retry.DefaultConfig
	cfg.InitialDelay = 0
	cfg.JitterEnabled = false
	uow := NewUnitOfWork(db, cfg)

	calls := 0
	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return order.NewConcurrentModificationError("o1")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))

	require.NoError(t, repo.Save(ctx, &catalog.Product{ID: "p1", Name: "Tea", Price: shared.MustMoney("4.20")}))
	p, err := repo.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Tea", p.Name)
	assert.True(t, p.Price.Equals(shared.MustMoney("4.20")))

	require.NoError(t, repo.Save(ctx, &catalog.Product{ID: "p1", Name: "Tea", Price: shared.MustMoney("5.00")}))
	p, err = repo.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.Price.Equals(shared.MustMoney("5")))

	_, err = repo.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, isDuplicateKeyError(&mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry 'X' for key 'orders.uk_orders_code'"}))
	assert.True(t, isDuplicateKeyError(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKeyError(errors.New("UNIQUE constraint failed: orders.code")))
	assert.False(t, isDuplicateKeyError(&mysqlDriver.MySQLError{Number: 1213}))
	assert.False(t, isDuplicateKeyError(nil))
}
