package entity

import "time"

// Estados de tickets de servicio. El ciclo posterior a OPEN (agendado,
// en progreso, completado) lo gestiona el módulo de servicio técnico.
const (
	TicketStatusOpen       = "OPEN"
	TicketStatusScheduled  = "SCHEDULED"
	TicketStatusInProgress = "IN_PROGRESS"
	TicketStatusCompleted  = "COMPLETED"
	TicketStatusCancelled  = "CANCELLED"
)

// Estados de activos de cliente.
const (
	AssetStatusPendingInstallation = "PENDING_INSTALLATION"
	AssetStatusInstalled           = "INSTALLED"
)

// ServiceTicket se crea como efecto secundario de facturar un ítem con
// requires_installation: exactamente uno por factura, dentro de la misma
// transacción que la factura.
type ServiceTicket struct {
	ID         string
	CompanyID  string
	CustomerID string
	InvoiceID  string
	Number     string
	Status     string // inicia OPEN
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	CreatedBy  string
}

// CustomerAsset es el equipo vendido pendiente de instalación: uno por línea
// de factura calificada, sin importar la cantidad de la línea.
type CustomerAsset struct {
	ID            string
	CompanyID     string
	CustomerID    string
	TicketID      string
	InvoiceLineID string
	ItemID        string
	Status        string // inicia PENDING_INSTALLATION
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
