package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Contabilidad de partida doble.
	ErrUnbalancedEntry = errors.New("asiento descuadrado: débitos y créditos no coinciden")
	ErrEntryReversed   = errors.New("el asiento ya fue reversado")

	// Ciclo de vida de documentos (OPEN/PARTIAL/PAID/CLOSED/CANCELLED).
	ErrDocumentLocked = errors.New("el documento está en estado terminal y no puede modificarse")

	// Operaciones administrativas destructivas.
	ErrConfirmationMismatch = errors.New("la frase de confirmación no coincide")
)
