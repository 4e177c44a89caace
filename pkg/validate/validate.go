package validate

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// get devuelve el validador compartido. La instancia cachea metadata de
// structs, por eso se reutiliza en vez de crear una por request.
func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
	})
	return instance
}

// Struct valida un struct según sus tags `validate`.
func Struct(s interface{}) error {
	return get().Struct(s)
}

// Messages convierte los errores de validación en un mapa campo -> regla
// incumplida, apto para devolver al cliente.
func Messages(err error) map[string]string {
	out := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}
	for _, ve := range verrs {
		out[ve.Field()] = ve.Tag()
	}
	return out
}
