package data

import (
	"context"
	"os"
	"regexp"
	"testing"
	"time"

	"HireAll/internal/biz"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const selectSubscriptionSQL = "SELECT * FROM `subscriptions` WHERE id = ? ORDER BY `subscriptions`.`id` LIMIT ?"

func TestSubscriptionRepo_GetSubscription(t *testing.T) {
	t.Run("loads from database and caches", func(t *testing.T) {
		data, mock, mr := setupTestData(t)
		repo := NewSubscriptionRepo(data, log.NewStdLogger(os.Stdout))

		periodEnd := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows([]string{"id", "user_id", "plan", "status", "current_period_end", "created_at", "updated_at"}).
			AddRow("sub_1", "u1", "premium", "active", periodEnd, periodEnd, periodEnd)
		mock.ExpectQuery(regexp.QuoteMeta(selectSubscriptionSQL)).
			WithArgs("sub_1", sqlmock.AnyArg()).
			WillReturnRows(rows)

		sub, err := repo.GetSubscription(context.Background(), "sub_1")
		require.NoError(t, err)
		assert.Equal(t, "u1", sub.UserID)
		assert.Equal(t, biz.PlanPremium, sub.Plan)
		assert.Equal(t, biz.SubscriptionStatusActive, sub.Status)
		require.NotNil(t, sub.CurrentPeriodEnd)
		assert.True(t, periodEnd.Equal(*sub.CurrentPeriodEnd))

		assert.True(t, mr.Exists("subscription:sub_1"))
		assert.NoError(t, mock.ExpectationsWereMet())

		// served from redis now
		again, err := repo.GetSubscription(context.Background(), "sub_1")
		require.NoError(t, err)
		assert.Equal(t, sub.Status, again.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		data, mock, _ := setupTestData(t)
		repo := NewSubscriptionRepo(data, log.NewStdLogger(os.Stdout))

		mock.ExpectQuery(regexp.QuoteMeta(selectSubscriptionSQL)).
			WithArgs("sub_x", sqlmock.AnyArg()).
			WillReturnError(gorm.ErrRecordNotFound)

		sub, err := repo.GetSubscription(context.Background(), "sub_x")
		assert.ErrorIs(t, err, biz.ErrSubscriptionNotFound)
		assert.Nil(t, sub)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
