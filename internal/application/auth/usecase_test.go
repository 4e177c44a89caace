package auth_test

import (
	"testing"

	"github.com/contaflow/erp-api/internal/application/apptest"
	"github.com/contaflow/erp-api/internal/application/auth"
	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-prueba-seguro"

func newAuthUC(store *apptest.Store) *auth.AuthUseCase {
	store.Companies["co-1"] = &entity.Company{ID: "co-1", Name: "ContaFlow SAS"}
	return auth.NewAuthUseCase(store.UserRepo(), store.CompanyRepo(), auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "contaflow-test",
	})
}

// TestRegisterYLogin: el registro hashea el password (nunca se guarda en
// claro) y el login emite un JWT cuyos claims llevan usuario, empresa y rol.
func TestRegisterYLogin(t *testing.T) {
	store := apptest.NewStore()
	uc := newAuthUC(store)

	user, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: "co-1",
		Email:     "ana@contaflow.co",
		Password:  "clave-segura-123",
		Name:      "Ana",
		Role:      entity.RoleContador,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleContador, user.Role)
	assert.NotEqual(t, "clave-segura-123", store.Users[user.ID].PasswordHash,
		"el password se guarda hasheado")

	resp, err := uc.Login(dto.LoginRequest{Email: "ana@contaflow.co", Password: "clave-segura-123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	sess, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sess.UserID)
	assert.Equal(t, "co-1", sess.CompanyID)
	assert.Equal(t, entity.RoleContador, sess.Role)
}

// TestLogin_PasswordIncorrecto: credenciales malas son unauthorized, no
// not-found (no filtra si el email existe).
func TestLogin_PasswordIncorrecto(t *testing.T) {
	store := apptest.NewStore()
	uc := newAuthUC(store)
	_, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: "co-1", Email: "ana@contaflow.co", Password: "clave-segura-123",
	})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@contaflow.co", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// TestRegister_EmailDuplicado: dos registros con el mismo email en la misma
// empresa rechazan el segundo.
func TestRegister_EmailDuplicado(t *testing.T) {
	store := apptest.NewStore()
	uc := newAuthUC(store)
	req := dto.RegisterRequest{CompanyID: "co-1", Email: "ana@contaflow.co", Password: "clave-segura-123"}

	_, err := uc.RegisterUser(req)
	require.NoError(t, err)
	_, err = uc.RegisterUser(req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// TestRegister_EmpresaInexistente: no se registran usuarios en empresas que
// no existen.
func TestRegister_EmpresaInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := newAuthUC(store)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: "no-existe", Email: "x@y.co", Password: "clave-segura-123",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestRegister_RolPorDefecto: sin rol explícito el usuario nace vendedor.
func TestRegister_RolPorDefecto(t *testing.T) {
	store := apptest.NewStore()
	uc := newAuthUC(store)

	user, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: "co-1", Email: "ana@contaflow.co", Password: "clave-segura-123",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, user.Role)
}

// TestRegister_RolDesconocido: un rol fuera del conjunto conocido se rechaza.
func TestRegister_RolDesconocido(t *testing.T) {
	store := apptest.NewStore()
	uc := newAuthUC(store)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: "co-1", Email: "ana@contaflow.co", Password: "clave-segura-123",
		Role: "superusuario",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.Users, "nada se persiste con rol inválido")
}
