// Package memory implementa los repositorios y el TxRunner en memoria.
// Se usa con STORE_DRIVER=memory (demo, desarrollo) y en las pruebas de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/custodia-api/internal/application/custody"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
)

var _ custody.TxRunner = (*Store)(nil)

type state struct {
	stock      map[string]*entity.StockEntry
	movements  []*entity.MovementLogEntry
	sales      map[string]*entity.SaleTransaction
	saleOrder  []string
	products   map[string]*entity.Product
	reps       map[string]*entity.Representative
	warehouses map[string]*entity.Warehouse
	users      map[string]*entity.User
}

func newState() *state {
	return &state{
		stock:      map[string]*entity.StockEntry{},
		sales:      map[string]*entity.SaleTransaction{},
		products:   map[string]*entity.Product{},
		reps:       map[string]*entity.Representative{},
		warehouses: map[string]*entity.Warehouse{},
		users:      map[string]*entity.User{},
	}
}

// clone copia lo que una tx puede modificar. Ventas y movimientos son inmutables una vez creados.
func (s *state) clone() *state {
	c := &state{
		stock:      make(map[string]*entity.StockEntry, len(s.stock)),
		movements:  append([]*entity.MovementLogEntry(nil), s.movements...),
		sales:      make(map[string]*entity.SaleTransaction, len(s.sales)),
		saleOrder:  append([]string(nil), s.saleOrder...),
		products:   copyMap(s.products),
		reps:       copyMap(s.reps),
		warehouses: copyMap(s.warehouses),
		users:      copyMap(s.users),
	}
	for k, v := range s.stock {
		e := *v
		c.stock[k] = &e
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	return c
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// access ejecuta fn sobre el estado. write indica si fn modifica.
type access func(write bool, fn func(st *state) error) error

// Store base de datos en memoria. Run serializa las transacciones con un mutex y trabaja
// sobre una copia que solo se publica si fn no falla.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) access(write bool, fn func(st *state) error) error {
	if write {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(s.st)
}

// Run ejecuta fn dentro de una "transacción": commit si retorna nil, descarte si retorna error.
// Dentro de fn solo deben usarse los repositorios recibidos.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos custody.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	direct := func(_ bool, f func(st *state) error) error { return f(tx) }
	repos := custody.TxRepos{
		Stock:     &StockRepo{do: direct},
		Movements: &MovementRepo{do: direct},
		Sales:     &SaleRepo{do: direct},
		Products:  &ProductRepo{do: direct},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// Stock repositorio de stock fuera de tx.
func (s *Store) Stock() *StockRepo { return &StockRepo{do: s.access} }

// Movements repositorio de movimientos fuera de tx.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{do: s.access} }

// Sales repositorio de ventas fuera de tx.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{do: s.access} }

// Products directorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{do: s.access} }

// Representatives directorio de vendedores.
func (s *Store) Representatives() *RepresentativeRepo { return &RepresentativeRepo{do: s.access} }

// Warehouses directorio de bodegas.
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{do: s.access} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{do: s.access} }

// Directory agrupa los directorios de solo lectura para los casos de uso.
func (s *Store) Directory() custody.Directory {
	return custody.Directory{
		Products:        s.Products(),
		Representatives: s.Representatives(),
		Warehouses:      s.Warehouses(),
	}
}
