package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decohogar/internal/domain"
	"decohogar/internal/services"
)

func TestRegisterHashesPassword(t *testing.T) {
	e := newEnv(t)
	u := e.register(t, "Alba@Example.com")
	assert.Equal(t, "alba@example.com", u.Email)
	assert.True(t, u.Activo)

	var stored string
	require.NoError(t, e.store.DB().Get(&stored, `SELECT password FROM usuarios WHERE id = ?`, u.ID))
	assert.True(t, strings.HasPrefix(stored, "pbkdf2_sha256$"))
	assert.NotContains(t, stored, testPassword)
}

func TestRegisterRejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "bea@example.com")

	base := services.RegisterInput{
		Nombre: "Bea", Email: "bea2@example.com", Password: testPassword, Password2: testPassword,
	}
	cases := []struct {
		name   string
		mutate func(*services.RegisterInput)
		want   error
	}{
		{"mismatch", func(in *services.RegisterInput) { in.Password2 = "Otra-2024!" }, domain.ErrValidation},
		{"weak", func(in *services.RegisterInput) { in.Password, in.Password2 = "corta", "corta" }, domain.ErrValidation},
		{"bad email", func(in *services.RegisterInput) { in.Email = "no-es-email" }, domain.ErrValidation},
		{"no name", func(in *services.RegisterInput) { in.Nombre = "  " }, domain.ErrValidation},
		{"bad phone", func(in *services.RegisterInput) { in.Telefono = "12" }, domain.ErrValidation},
		{"duplicate", func(in *services.RegisterInput) { in.Email = "BEA@example.com" }, domain.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := e.auth.Register(ctx, in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "carla@example.com")

	got, sess, err := e.auth.Login(ctx, "CARLA@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	me, err := e.auth.Authenticate(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)

	_, err = e.auth.Authenticate(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "refresh token is not an access token")

	_, _, errWrong := e.auth.Login(ctx, "carla@example.com", "Mala-Clave1!")
	_, _, errUnknown := e.auth.Login(ctx, "nadie@example.com", testPassword)
	require.ErrorIs(t, errWrong, domain.ErrInvalidCredentials)
	require.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.Equal(t, errWrong.Error(), errUnknown.Error(), "same message for both failures")
}

func TestInactiveUserCannotLogIn(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "dani@example.com")
	_, sess, err := e.auth.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	_, err = e.store.DB().Exec(`UPDATE usuarios SET activo = 0 WHERE id = ?`, u.ID)
	require.NoError(t, err)

	_, _, err = e.auth.Login(ctx, u.Email, testPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = e.auth.Authenticate(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = e.auth.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "elena@example.com")
	_, sess, err := e.auth.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	access, exp, err := e.auth.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.False(t, exp.IsZero())
	me, err := e.auth.Authenticate(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)

	_, _, err = e.auth.Refresh(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "fer@example.com")
	other := e.register(t, "gema@example.com")

	var before string
	require.NoError(t, e.store.DB().Get(&before, `SELECT password FROM usuarios WHERE id = ?`, u.ID))

	tel := "699888777"
	got, err := e.auth.Update(ctx, u.ID, u.ID, services.UpdateInput{Telefono: &tel})
	require.NoError(t, err)
	assert.Equal(t, tel, got.Telefono)

	var after string
	require.NoError(t, e.store.DB().Get(&after, `SELECT password FROM usuarios WHERE id = ?`, u.ID))
	assert.Equal(t, before, after, "re-save keeps the credential byte-identical")

	_, _, err = e.auth.Login(ctx, u.Email, testPassword)
	require.NoError(t, err)

	_, err = e.auth.Update(ctx, u.ID, other.ID, services.UpdateInput{Telefono: &tel})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.auth.Update(ctx, u.ID, u.ID, services.UpdateInput{Password: "Nueva-Clave9", Password2: "Otra-Clave9"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.auth.Update(ctx, u.ID, u.ID, services.UpdateInput{Password: "Nueva-Clave9", Password2: "Nueva-Clave9"})
	require.NoError(t, err)
	_, _, err = e.auth.Login(ctx, u.Email, testPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = e.auth.Login(ctx, u.Email, "Nueva-Clave9")
	assert.NoError(t, err)

	taken := other.Email
	_, err = e.auth.Update(ctx, u.ID, u.ID, services.UpdateInput{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDeleteAccountCascades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "diana@example.com")
	other := e.register(t, "elena@example.com")
	p := e.product(t, "30.00", 0, true)

	for _, id := range []string{u.ID, other.ID} {
		cartID, err := e.carts.EnsureCart(ctx, id)
		require.NoError(t, err)
		_, err = e.carts.AddItem(ctx, cartID, p.ID, 1)
		require.NoError(t, err)
		_, err = e.orders.Checkout(ctx, id, "", "tarjeta")
		require.NoError(t, err)
		_, err = e.carts.AddItem(ctx, cartID, p.ID, 2)
		require.NoError(t, err)
		_, err = e.wishlist.Add(ctx, id, p.ID)
		require.NoError(t, err)
	}
	_, err := e.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, e.redis.Exists("cart:"+u.ID))

	assert.ErrorIs(t, e.auth.Delete(ctx, other.ID, u.ID), domain.ErrNotFound, "only the owner may delete")
	require.NoError(t, e.auth.Delete(ctx, u.ID, u.ID))
	assert.False(t, e.redis.Exists("cart:"+u.ID))

	_, err = e.auth.User(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for table, query := range map[string]string{
		"wishlist":        `SELECT COUNT(*) FROM wishlist WHERE usuario_id = ?`,
		"carritos":        `SELECT COUNT(*) FROM carritos WHERE usuario_id = ?`,
		"pedidos":         `SELECT COUNT(*) FROM pedidos WHERE usuario_id = ?`,
		"items_carrito":   `SELECT COUNT(*) FROM items_carrito i JOIN carritos c ON c.id = i.carrito_id WHERE c.usuario_id = ?`,
		"detalles_pedido": `SELECT COUNT(*) FROM detalles_pedido d JOIN pedidos o ON o.id = d.pedido_id WHERE o.usuario_id = ?`,
	} {
		var n, kept int
		require.NoError(t, e.store.DB().Get(&n, query, u.ID))
		require.NoError(t, e.store.DB().Get(&kept, query, other.ID))
		assert.Zero(t, n, table)
		assert.Positive(t, kept, "%s of other users stay", table)
	}
	var orphanLines int
	require.NoError(t, e.store.DB().Get(&orphanLines,
		`SELECT COUNT(*) FROM detalles_pedido WHERE pedido_id NOT IN (SELECT id FROM pedidos)`))
	assert.Zero(t, orphanLines)

	assert.ErrorIs(t, e.auth.Delete(ctx, u.ID, u.ID), domain.ErrNotFound)
	_, _, err = e.auth.Login(ctx, "diana@example.com", testPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
