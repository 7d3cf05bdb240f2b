package services

import (
	"context"
	"fmt"
	"testing"

	"shop-api/models"
	"shop-api/repositories/memstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memstore.Store
	alice    models.Principal
	bob      models.Principal
	staff    models.Principal
	category models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{store: memstore.New()}
	f.alice = f.addUser(t, "alice", false)
	f.bob = f.addUser(t, "bob", false)
	f.staff = f.addUser(t, "admin", true)

	f.category = models.Category{Name: "Coffee"}
	require.NoError(t, f.store.CreateCategory(ctx, &f.category))
	return f
}

func (f *fixture) addUser(t *testing.T, username string, staff bool) models.Principal {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "x",
		IsStaff:  staff,
	}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return models.Principal{UserID: u.ID, Username: u.Username, IsStaff: staff}
}

func (f *fixture) addProduct(t *testing.T, name, price string) models.Product {
	t.Helper()
	p := &models.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      10,
		CategoryID: f.category.ID,
	}
	require.NoError(t, f.store.CreateProduct(context.Background(), p))
	return *p
}

func intPtr(v int) *int { return &v }
