package admin

import (
	"context"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
)

// ResetConfirmation es la frase exacta que el cliente debe enviar para
// ejecutar el borrado de datos transaccionales.
const ResetConfirmation = "ELIMINAR DATOS TRANSACCIONALES"

// ResetUseCase borra TODOS los datos transaccionales de la empresa (capas,
// movimientos, asientos, facturas, compras, órdenes, producciones, tickets)
// y pone el caché de stock de los ítems en cero, en UNA transacción. Los
// maestros (ítems, bodegas, clientes, proveedores, cuentas, usuarios)
// sobreviven. Solo rol admin con frase de confirmación exacta.
type ResetUseCase struct {
	txRunner repository.TxRunner
}

func NewResetUseCase(txRunner repository.TxRunner) *ResetUseCase {
	return &ResetUseCase{txRunner: txRunner}
}

// Reset ejecuta el borrado. La frase de confirmación se compara exacta,
// sensible a mayúsculas.
func (uc *ResetUseCase) Reset(ctx context.Context, companyID, role string, in dto.ResetRequest) (*dto.ResetResponse, error) {
	if role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if in.Confirmation != ResetConfirmation {
		return nil, domain.ErrConfirmationMismatch
	}
	err := uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		return r.Reset.DeleteTransactionalData(companyID)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ResetResponse{Message: "datos transaccionales eliminados"}, nil
}
