package entity

import "time"

// Tipos de cuenta contable.
const (
	AccountTypeAsset     = "ASSET"
	AccountTypeLiability = "LIABILITY"
	AccountTypeEquity    = "EQUITY"
	AccountTypeIncome    = "INCOME"
	AccountTypeExpense   = "EXPENSE"
)

// Códigos PUC usados por los escritores de transacciones.
const (
	AccountCash            = "1105" // caja
	AccountReceivable      = "1305" // clientes / cuentas por cobrar
	AccountRawMaterials    = "1405" // materias primas
	AccountWorkInProcess   = "1410" // productos en proceso
	AccountFinishedGoods   = "1430" // productos terminados
	AccountInventory       = "1435" // mercancías no fabricadas
	AccountPayable         = "2205" // proveedores
	AccountTaxPayable      = "2408" // IVA por pagar
	AccountSalesIncome     = "4135" // ingresos por ventas
	AccountInventoryLosses = "5310" // pérdidas/ajustes de inventario
	AccountCOGS            = "6135" // costo de ventas
)

// InventoryAccountFor retorna la cuenta PUC de inventario que corresponde al
// tipo de ítem. Los asientos de venta, compra y producción la usan para
// acreditar/debitar el inventario correcto.
func InventoryAccountFor(itemType string) string {
	switch itemType {
	case ItemTypeRawMaterial:
		return AccountRawMaterials
	case ItemTypeWorkInProcess:
		return AccountWorkInProcess
	case ItemTypeFinishedGood:
		return AccountFinishedGoods
	default:
		return AccountInventory
	}
}

// Account representa una cuenta del plan contable de la empresa.
// El saldo NO se almacena: se deriva sumando líneas de asiento.
type Account struct {
	ID        string
	CompanyID string
	Code      string // código PUC
	Name      string
	Type      string // ver constantes AccountType*
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
