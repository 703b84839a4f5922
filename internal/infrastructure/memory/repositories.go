package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/custodia-api/internal/domain"
	"github.com/jhoicas/custodia-api/internal/domain/entity"
	"github.com/jhoicas/custodia-api/internal/domain/repository"
)

var (
	_ repository.StockRepository          = (*StockRepo)(nil)
	_ repository.MovementRepository       = (*MovementRepo)(nil)
	_ repository.SaleRepository           = (*SaleRepo)(nil)
	_ repository.ProductRepository        = (*ProductRepo)(nil)
	_ repository.RepresentativeRepository = (*RepresentativeRepo)(nil)
	_ repository.WarehouseRepository      = (*WarehouseRepo)(nil)
	_ repository.UserRepository           = (*UserRepo)(nil)
)

func stockKey(loc entity.Location, productID string) string {
	return loc.Key() + "|" + productID
}

// StockRepo stock por (ubicación, producto).
type StockRepo struct{ do access }

func (r *StockRepo) Get(ctx context.Context, loc entity.Location, productID string) (*entity.StockEntry, error) {
	var out entity.StockEntry
	err := r.do(false, func(st *state) error {
		if e, ok := st.stock[stockKey(loc, productID)]; ok {
			out = *e
			return nil
		}
		out = entity.StockEntry{Location: loc, ProductID: productID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetForUpdate en memoria la tx ya tiene el store bloqueado.
func (r *StockRepo) GetForUpdate(ctx context.Context, loc entity.Location, productID string) (*entity.StockEntry, error) {
	return r.Get(ctx, loc, productID)
}

func (r *StockRepo) Save(ctx context.Context, entry *entity.StockEntry) error {
	return r.do(true, func(st *state) error {
		key := stockKey(entry.Location, entry.ProductID)
		var stored int64
		if cur, ok := st.stock[key]; ok {
			stored = cur.Version
		}
		if stored != entry.Version-1 {
			return &domain.ConcurrencyConflictError{ProductID: entry.ProductID, Expected: entry.Version - 1, Found: stored}
		}
		e := *entry
		st.stock[key] = &e
		return nil
	})
}

func (r *StockRepo) ListByLocation(ctx context.Context, loc entity.Location) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	err := r.do(false, func(st *state) error {
		prefix := loc.Key() + "|"
		for k, e := range st.stock {
			if strings.HasPrefix(k, prefix) {
				c := *e
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, err
}

// MovementRepo libro de movimientos, solo inserción.
type MovementRepo struct{ do access }

func (r *MovementRepo) Create(ctx context.Context, m *entity.MovementLogEntry) error {
	if m.Quantity <= 0 {
		return domain.Invalid("quantity", "el movimiento debe ser positivo")
	}
	c := *m
	return r.do(true, func(st *state) error {
		st.movements = append(st.movements, &c)
		return nil
	})
}

// ListByLocation más recientes primero.
func (r *MovementRepo) ListByLocation(ctx context.Context, loc entity.Location, limit, offset int) ([]*entity.MovementLogEntry, error) {
	var out []*entity.MovementLogEntry
	err := r.do(false, func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.Location != loc {
				continue
			}
			if offset > 0 {
				offset--
				continue
			}
			if limit > 0 && len(out) == limit {
				break
			}
			c := *m
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

// ListByReference en orden de inserción.
func (r *MovementRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.MovementLogEntry, error) {
	var out []*entity.MovementLogEntry
	err := r.do(false, func(st *state) error {
		for _, m := range st.movements {
			if m.ReferenceID == referenceID {
				c := *m
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

// SaleRepo ventas con sus líneas.
type SaleRepo struct{ do access }

func (r *SaleRepo) Create(ctx context.Context, sale *entity.SaleTransaction) error {
	c := cloneSale(sale)
	return r.do(true, func(st *state) error {
		if _, ok := st.sales[c.ID]; ok {
			return fmt.Errorf("venta %s ya existe", c.ID)
		}
		st.sales[c.ID] = c
		st.saleOrder = append(st.saleOrder, c.ID)
		return nil
	})
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.SaleTransaction, error) {
	var out *entity.SaleTransaction
	err := r.do(false, func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = cloneSale(s)
		}
		return nil
	})
	return out, err
}

// ListBySeller más recientes primero.
func (r *SaleRepo) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.SaleTransaction, error) {
	var out []*entity.SaleTransaction
	err := r.do(false, func(st *state) error {
		for i := len(st.saleOrder) - 1; i >= 0; i-- {
			s := st.sales[st.saleOrder[i]]
			if s.SellerID != sellerID {
				continue
			}
			if offset > 0 {
				offset--
				continue
			}
			if limit > 0 && len(out) == limit {
				break
			}
			out = append(out, cloneSale(s))
		}
		return nil
	})
	return out, err
}

func cloneSale(s *entity.SaleTransaction) *entity.SaleTransaction {
	c := *s
	c.Lines = append([]entity.SaleLine(nil), s.Lines...)
	return &c
}

// ProductRepo directorio de productos.
type ProductRepo struct{ do access }

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.do(false, func(st *state) error {
		if p, ok := st.products[id]; ok {
			c := *p
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if p.UnitsPerCarton < 1 {
		return domain.Invalid("units_per_carton", "debe ser al menos 1")
	}
	c := *p
	return r.do(true, func(st *state) error {
		if _, ok := st.products[c.ID]; ok {
			return fmt.Errorf("producto %s ya existe", c.ID)
		}
		st.products[c.ID] = &c
		return nil
	})
}

// RepresentativeRepo directorio de vendedores.
type RepresentativeRepo struct{ do access }

func (r *RepresentativeRepo) GetByID(ctx context.Context, id string) (*entity.Representative, error) {
	var out *entity.Representative
	err := r.do(false, func(st *state) error {
		if rep, ok := st.reps[id]; ok {
			c := *rep
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *RepresentativeRepo) Create(ctx context.Context, rep *entity.Representative) error {
	if !rep.PricingTier.Valid() {
		return domain.Invalid("pricing_tier", "debe ser WHOLESALE o RETAIL")
	}
	c := *rep
	return r.do(true, func(st *state) error {
		if _, ok := st.reps[c.ID]; ok {
			return fmt.Errorf("vendedor %s ya existe", c.ID)
		}
		st.reps[c.ID] = &c
		return nil
	})
}

// WarehouseRepo directorio de bodegas.
type WarehouseRepo struct{ do access }

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.do(false, func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			c := *w
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	c := *w
	return r.do(true, func(st *state) error {
		if _, ok := st.warehouses[c.ID]; ok {
			return fmt.Errorf("bodega %s ya existe", c.ID)
		}
		st.warehouses[c.ID] = &c
		return nil
	})
}

// UserRepo usuarios del back office.
type UserRepo struct{ do access }

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	c := *u
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	return r.do(true, func(st *state) error {
		for _, existing := range st.users {
			if existing.Email == c.Email {
				return fmt.Errorf("email %s ya registrado", c.Email)
			}
		}
		st.users[c.ID] = &c
		return nil
	})
}

// FindByEmail devuelve nil, nil si no existe.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var out *entity.User
	err := r.do(false, func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				c := *u
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}
