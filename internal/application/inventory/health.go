package inventory

import (
	"context"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// HealthUseCase compara el caché denormalizado de cada ítem contra la verdad
// derivada de sus capas vivas y repara la deriva recalculando desde capas.
type HealthUseCase struct {
	txRunner  repository.TxRunner
	layerRepo repository.LayerRepository
	stock     *StockLedgerUseCase
}

func NewHealthUseCase(txRunner repository.TxRunner, layerRepo repository.LayerRepository, stock *StockLedgerUseCase) *HealthUseCase {
	return &HealthUseCase{txRunner: txRunner, layerRepo: layerRepo, stock: stock}
}

// CheckHealth reporta los ítems cuya quantity_on_hand cacheada difiere de
// Σ remaining de sus capas. Solo lectura.
func (uc *HealthUseCase) CheckHealth(ctx context.Context, companyID string) (*dto.InventoryHealthResponse, error) {
	drifts, err := uc.layerRepo.CacheDrift(companyID)
	if err != nil {
		return nil, err
	}
	resp := &dto.InventoryHealthResponse{
		OutOfSyncItems: len(drifts),
		TotalDriftQty:  decimal.Zero,
	}
	for _, d := range drifts {
		resp.Discrepancies = append(resp.Discrepancies, dto.ItemDriftDTO{
			ItemID:      d.ItemID,
			SKU:         d.SKU,
			CachedQty:   d.CachedQty,
			DerivedQty:  d.DerivedQty,
			Discrepancy: d.Discrepancy,
		})
		if disc, err := decimal.NewFromString(d.Discrepancy); err == nil {
			resp.TotalDriftQty = resp.TotalDriftQty.Add(disc.Abs())
		}
	}
	return resp, nil
}

// Resync recalcula el caché de los ítems con deriva. Las capas nunca se
// tocan: son la fuente de verdad.
func (uc *HealthUseCase) Resync(ctx context.Context, companyID string) (*dto.ResyncResponse, error) {
	drifts, err := uc.layerRepo.CacheDrift(companyID)
	if err != nil {
		return nil, err
	}
	if len(drifts) == 0 {
		return &dto.ResyncResponse{ItemsResynced: 0}, nil
	}
	err = uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		for _, d := range drifts {
			if err := uc.stock.RefreshCacheInTx(r, d.ItemID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.ResyncResponse{ItemsResynced: len(drifts)}, nil
}
