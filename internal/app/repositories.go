package app

import (
	"database/sql"

	"github.com/keyxmakerx/storefront/internal/plugins/auth"
	"github.com/keyxmakerx/storefront/internal/plugins/orders"
	"github.com/keyxmakerx/storefront/internal/plugins/products"
)

// Repositories groups the data providers handed to the plugins. Users and
// products are read-only after construction.
type Repositories struct {
	Users    auth.UserRepository
	Products products.ProductRepository
	Orders   orders.OrderRepository
}

// MemoryRepositories returns repositories over the built-in fixtures with an
// in-memory order log.
func MemoryRepositories() Repositories {
	return Repositories{
		Users:    auth.NewMemoryUserRepository(auth.DefaultUsers()),
		Products: products.NewMemoryProductRepository(products.DefaultProducts()),
		Orders:   orders.NewMemoryOrderRepository(),
	}
}

// MariaDBRepositories returns repositories backed by the given pool. The
// schema and fixture rows come from db/migrations.
func MariaDBRepositories(db *sql.DB) Repositories {
	return Repositories{
		Users:    auth.NewMariaDBUserRepository(db),
		Products: products.NewMariaDBProductRepository(db),
		Orders:   orders.NewMariaDBOrderRepository(db),
	}
}
