package registry_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/backoffice/modules/registry"
	"github.com/opsdesk/backoffice/pkg/crud"
	"github.com/opsdesk/backoffice/pkg/eventbus"
)

func newVehicleService() *registry.VehicleService {
	schema := registry.VehiclesSchema()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return registry.NewVehicleService(
		crud.NewDefaultService(schema, crud.NewMemoryRepository(schema), eventbus.NewEventPublisher(log)),
	)
}

func TestVehicleService_InstallmentAmount(t *testing.T) {
	ctx := context.Background()

	t.Run("ComputedFromPriceAndPeriod", func(t *testing.T) {
		service := newVehicleService()
		created, err := service.Create(ctx, crud.Record{
			"plate_number":       "KW-1234",
			"payment_system":     "installments",
			"purchase_price":     decimal.NewFromInt(12000),
			"installment_months": int64(24),
		})
		require.NoError(t, err)
		assert.True(t, created.Decimal("installment_amount").Equal(decimal.NewFromInt(500)),
			"got %s", created.Decimal("installment_amount"))
	})

	t.Run("ZeroPeriodRejected", func(t *testing.T) {
		service := newVehicleService()
		_, err := service.Create(ctx, crud.Record{
			"plate_number":       "KW-1234",
			"payment_system":     "installments",
			"purchase_price":     decimal.NewFromInt(12000),
			"installment_months": int64(0),
		})
		var fieldErrs crud.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs, "installment_months")
	})

	t.Run("CashVehicleHasNoInstallment", func(t *testing.T) {
		service := newVehicleService()
		created, err := service.Create(ctx, crud.Record{
			"plate_number":   "KW-5678",
			"purchase_price": decimal.NewFromInt(9000),
		})
		require.NoError(t, err)
		assert.Equal(t, "cash", created.String("payment_system"))
		assert.True(t, created.Decimal("installment_amount").IsZero())
	})

	t.Run("SwitchingToCashClearsInstallment", func(t *testing.T) {
		service := newVehicleService()
		created, err := service.Create(ctx, crud.Record{
			"plate_number":       "KW-9999",
			"payment_system":     "installments",
			"purchase_price":     decimal.NewFromInt(6000),
			"installment_months": int64(12),
		})
		require.NoError(t, err)

		updated, err := service.Update(ctx, created.ID(), crud.Record{"payment_system": "cash"})
		require.NoError(t, err)
		assert.True(t, updated.Decimal("installment_amount").IsZero())
	})
}

func TestVehicleService_RequiresPeriodForInstallments(t *testing.T) {
	service := newVehicleService()
	_, err := service.Create(context.Background(), crud.Record{
		"plate_number":   "KW-1111",
		"payment_system": "installments",
		"purchase_price": decimal.NewFromInt(3000),
	})
	var fieldErrs crud.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "installment_months")
}
