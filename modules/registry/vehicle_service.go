package registry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opsdesk/backoffice/pkg/composables"
	"github.com/opsdesk/backoffice/pkg/crud"
)

// VehicleService adds installment arithmetic on top of the generic
// lifecycle: when a vehicle is financed in installments the monthly amount
// is purchase price divided by the installment period, recomputed on every
// write so the stored value can never drift from its inputs.
type VehicleService struct {
	*crud.DefaultService
}

func NewVehicleService(inner *crud.DefaultService) *VehicleService {
	return &VehicleService{DefaultService: inner}
}

func (s *VehicleService) Create(ctx context.Context, input crud.Record) (crud.Record, error) {
	record := input.Clone()
	if err := applyInstallmentAmount(record); err != nil {
		return nil, err
	}
	return s.DefaultService.Create(ctx, record)
}

// Update recomputes the installment amount inside one transaction so a
// concurrent edit cannot interleave between the read and the write.
func (s *VehicleService) Update(ctx context.Context, id uuid.UUID, input crud.Record) (crud.Record, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (crud.Record, error) {
		existing, err := s.DefaultService.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		merged := existing.Clone()
		for name, value := range input {
			merged[name] = value
		}
		if err := applyInstallmentAmount(merged); err != nil {
			return nil, err
		}
		return s.DefaultService.Update(txCtx, id, merged)
	})
}

func applyInstallmentAmount(record crud.Record) error {
	if record.String("payment_system") != "installments" {
		record["installment_amount"] = decimal.Zero
		return nil
	}
	months := record.Int("installment_months")
	if months <= 0 {
		return crud.FieldErrors{"installment_months": "must be greater than zero"}
	}
	price := record.Decimal("purchase_price")
	record["installment_amount"] = price.DivRound(decimal.NewFromInt(months), 3)
	return nil
}

var _ crud.Service = (*VehicleService)(nil)
