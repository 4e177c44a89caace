package repository

// ResetRepository define el puerto del borrado administrativo de datos
// transaccionales. Elimina documentos, capas, movimientos, asientos, tickets
// y activos de la empresa y deja en cero el caché de los ítems; preserva
// catálogo y datos maestros.
type ResetRepository interface {
	DeleteTransactionalData(companyID string) error
}
