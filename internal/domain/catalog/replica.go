package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Master data owned by sibling services. The structs below are local replicas
// kept in sync through bus events; this service never mutates them outside of
// the apply path.

// Company is the replica of the company master record.
type Company struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Company) GetID() uuid.UUID { return c.ID }

// Store is the replica of a company store.
type Store struct {
	ID         uuid.UUID       `json:"id"`
	CompanyID  uuid.UUID       `json:"company_id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	Phone      string          `json:"phone"`
	IsActive   bool            `json:"is_active"`
	Percentage decimal.Decimal `json:"percentage"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (s *Store) GetID() uuid.UUID { return s.ID }

// Category is the replica of a product category.
type Category struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"company_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Category) GetID() uuid.UUID { return c.ID }

// ProductType is the replica of a product type within a category.
type ProductType struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *ProductType) GetID() uuid.UUID { return t.ID }

// Price is the replica of the per-type price record.
type Price struct {
	ID        uuid.UUID       `json:"id"`
	TypeID    uuid.UUID       `json:"type_id"`
	Price     decimal.Decimal `json:"price"`
	IsActive  bool            `json:"is_active"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (p *Price) GetID() uuid.UUID { return p.ID }

// Account is the replica of a finance account. Password changes from the
// identity service arrive as a partial update on the same replica.
type Account struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      int       `json:"type"`
	Deactive  bool      `json:"deactive"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Account) GetID() uuid.UUID { return a.ID }

// ReplicaRepository stores the local copy of an entity owned elsewhere.
// Upsert must be idempotent on the originating ID so replayed events converge.
type ReplicaRepository[T any] interface {
	Upsert(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
