package repository

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestOrderGormRepository_UpdateStatusIf(t *testing.T) {
	t.Run("条件一致で更新できたらtrue", func(t *testing.T) {
		db, mock := newMockDB(t)
		r := NewOrderGormRepository(db)

		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := r.UpdateStatusIf(context.Background(), "order_1",
			[]model.OrderStatus{model.OrderStatusPending}, model.OrderStatusConfirmed, "")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("他の更新が先に入っていたらfalse", func(t *testing.T) {
		db, mock := newMockDB(t)
		r := NewOrderGormRepository(db)

		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := r.UpdateStatusIf(context.Background(), "order_1",
			model.NonTerminalOrderStatuses(), model.OrderStatusCancelled, "Payment failed")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fromが空ならSQLを投げない", func(t *testing.T) {
		db, mock := newMockDB(t)
		r := NewOrderGormRepository(db)

		ok, err := r.UpdateStatusIf(context.Background(), "order_1", nil, model.OrderStatusShipped, "")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderGormRepository_FindByOrderID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewOrderGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))

	_, err := r.FindByOrderID(context.Background(), "missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderGormRepository_FindByOrderID_Found(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewOrderGormRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "user_id", "seller_id", "total_price", "status", "payment_method", "created_at", "updated_at"}).
			AddRow(3, "order_abc", "U1", "S1", "1000.00", "Pending", "Razorpay", now, now))

	o, err := r.FindByOrderID(context.Background(), "order_abc")
	require.NoError(t, err)
	assert.Equal(t, int64(3), o.ID)
	assert.Equal(t, model.OrderStatusPending, o.Status)
	assert.True(t, o.TotalPrice.Equal(decimal.NewFromInt(1000)))
}

func TestPaymentGormRepository_Create(t *testing.T) {
	p := model.Payment{
		OrderID:       "order_1",
		UserID:        "U1",
		Amount:        decimal.NewFromInt(1000),
		TransactionID: "pay_1",
		Method:        model.PaymentMethodRazorpay,
		Status:        model.PaymentStatusCompleted,
		PaidAt:        time.Now(),
	}

	t.Run("採番されたIDを返す", func(t *testing.T) {
		db, mock := newMockDB(t)
		r := NewPaymentGormRepository(db)

		mock.ExpectQuery(`INSERT INTO "payments"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		id, err := r.Create(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("transaction_id重複はErrDuplicate", func(t *testing.T) {
		db, mock := newMockDB(t)
		r := NewPaymentGormRepository(db)

		mock.ExpectQuery(`INSERT INTO "payments"`).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

		_, err := r.Create(context.Background(), p)
		assert.ErrorIs(t, err, repo.ErrDuplicate)
	})
}

func TestLogisticGormRepository_UpdateStatus_NoRow(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewLogisticGormRepository(db)

	mock.ExpectExec(`UPDATE "logistics" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.UpdateStatus(context.Background(), "order_1", model.LogisticStatusDelivered)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestCartGormRepository_DeleteByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewCartGormRepository(db)

	mock.ExpectExec(`DELETE FROM "cart_items" WHERE .*cart_id = \$1 AND id IN \(\$2,\$3\)`).
		WithArgs(int64(5), int64(11), int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := r.DeleteByIDs(context.Background(), 5, []int64{11, 12})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartGormRepository_DeleteByIDs_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewCartGormRepository(db)

	n, err := r.DeleteByIDs(context.Background(), 5, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogGormRepository_ListByResource(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewAuditLogGormRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE resource_type = \$1 AND resource_id = \$2 ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor_id", "action", "resource_type", "resource_id", "created_at"}).
			AddRow(1, "U1", "PLACE_ORDER", "order", "order_abc", now).
			AddRow(2, "gateway", "CONFIRM_PAYMENT", "order", "order_abc", now))

	resourceType := model.AuditResourceOrder
	orderID := "order_abc"
	logs, err := r.List(context.Background(), repo.AuditLogFilter{
		ResourceType: &resourceType,
		ResourceID:   &orderID,
		Limit:        100,
	})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, model.AuditActionPlaceOrder, logs[0].Action)
	assert.Equal(t, model.AuditActorGateway, logs[1].ActorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isDuplicateKey(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isDuplicateKey(gorm.ErrRecordNotFound))
}
