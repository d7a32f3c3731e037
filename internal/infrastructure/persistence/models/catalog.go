package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gemstok/inventory/internal/domain/catalog"
)

// CompanyModel is the persistence model for the replicated company master.
type CompanyModel struct {
	ReplicaModel
	Code    string `gorm:"type:varchar(50);not null"`
	Name    string `gorm:"type:varchar(255);not null"`
	Address string `gorm:"type:text"`
	Phone   string `gorm:"type:varchar(50)"`
}

func (CompanyModel) TableName() string { return "companies" }

// ToDomain converts the persistence model to a domain Company replica.
func (m *CompanyModel) ToDomain() *catalog.Company {
	return &catalog.Company{
		ID:        m.ID,
		Code:      m.Code,
		Name:      m.Name,
		Address:   m.Address,
		Phone:     m.Phone,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CompanyModelFromDomain creates a persistence model from a domain Company.
func CompanyModelFromDomain(c *catalog.Company) *CompanyModel {
	return &CompanyModel{
		ReplicaModel: ReplicaModel{ID: c.ID, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt},
		Code:         c.Code,
		Name:         c.Name,
		Address:      c.Address,
		Phone:        c.Phone,
	}
}

// StoreModel is the persistence model for the replicated store master.
type StoreModel struct {
	ReplicaModel
	CompanyID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code       string          `gorm:"type:varchar(50);not null"`
	Name       string          `gorm:"type:varchar(255);not null"`
	Address    string          `gorm:"type:text"`
	Phone      string          `gorm:"type:varchar(50)"`
	IsActive   bool            `gorm:"not null;default:true"`
	Percentage decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
}

func (StoreModel) TableName() string { return "stores" }

// ToDomain converts the persistence model to a domain Store replica.
func (m *StoreModel) ToDomain() *catalog.Store {
	return &catalog.Store{
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		Code:       m.Code,
		Name:       m.Name,
		Address:    m.Address,
		Phone:      m.Phone,
		IsActive:   m.IsActive,
		Percentage: m.Percentage,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// StoreModelFromDomain creates a persistence model from a domain Store.
func StoreModelFromDomain(s *catalog.Store) *StoreModel {
	return &StoreModel{
		ReplicaModel: ReplicaModel{ID: s.ID, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt},
		CompanyID:    s.CompanyID,
		Code:         s.Code,
		Name:         s.Name,
		Address:      s.Address,
		Phone:        s.Phone,
		IsActive:     s.IsActive,
		Percentage:   s.Percentage,
	}
}

// CategoryModel is the persistence model for the replicated category master.
type CategoryModel struct {
	ReplicaModel
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Code        string    `gorm:"type:varchar(50);not null"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
}

func (CategoryModel) TableName() string { return "categories" }

// ToDomain converts the persistence model to a domain Category replica.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		ID:          m.ID,
		CompanyID:   m.CompanyID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CategoryModelFromDomain creates a persistence model from a domain Category.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	return &CategoryModel{
		ReplicaModel: ReplicaModel{ID: c.ID, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt},
		CompanyID:    c.CompanyID,
		Code:         c.Code,
		Name:         c.Name,
		Description:  c.Description,
	}
}

// ProductTypeModel is the persistence model for the replicated type master.
type ProductTypeModel struct {
	ReplicaModel
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Code        string    `gorm:"type:varchar(50);not null"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
}

func (ProductTypeModel) TableName() string { return "product_types" }

// ToDomain converts the persistence model to a domain ProductType replica.
func (m *ProductTypeModel) ToDomain() *catalog.ProductType {
	return &catalog.ProductType{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ProductTypeModelFromDomain creates a persistence model from a domain ProductType.
func ProductTypeModelFromDomain(t *catalog.ProductType) *ProductTypeModel {
	return &ProductTypeModel{
		ReplicaModel: ReplicaModel{ID: t.ID, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt},
		CategoryID:   t.CategoryID,
		Code:         t.Code,
		Name:         t.Name,
		Description:  t.Description,
	}
}

// PriceModel is the persistence model for the replicated price record.
type PriceModel struct {
	ReplicaModel
	TypeID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	IsActive bool            `gorm:"not null;default:true"`
	Date     time.Time       `gorm:"not null"`
}

func (PriceModel) TableName() string { return "prices" }

// ToDomain converts the persistence model to a domain Price replica.
func (m *PriceModel) ToDomain() *catalog.Price {
	return &catalog.Price{
		ID:        m.ID,
		TypeID:    m.TypeID,
		Price:     m.Price,
		IsActive:  m.IsActive,
		Date:      m.Date,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// PriceModelFromDomain creates a persistence model from a domain Price.
func PriceModelFromDomain(p *catalog.Price) *PriceModel {
	return &PriceModel{
		ReplicaModel: ReplicaModel{ID: p.ID, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt},
		TypeID:       p.TypeID,
		Price:        p.Price,
		IsActive:     p.IsActive,
		Date:         p.Date,
	}
}

// AccountModel is the persistence model for the replicated finance account.
type AccountModel struct {
	ReplicaModel
	StoreID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Code     string    `gorm:"type:varchar(50);not null"`
	Name     string    `gorm:"type:varchar(255);not null"`
	Type     int       `gorm:"not null;default:0"`
	Deactive bool      `gorm:"not null;default:false"`
}

func (AccountModel) TableName() string { return "accounts" }

// ToDomain converts the persistence model to a domain Account replica.
func (m *AccountModel) ToDomain() *catalog.Account {
	return &catalog.Account{
		ID:        m.ID,
		StoreID:   m.StoreID,
		Code:      m.Code,
		Name:      m.Name,
		Type:      m.Type,
		Deactive:  m.Deactive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// AccountModelFromDomain creates a persistence model from a domain Account.
func AccountModelFromDomain(a *catalog.Account) *AccountModel {
	return &AccountModel{
		ReplicaModel: ReplicaModel{ID: a.ID, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt},
		StoreID:      a.StoreID,
		Code:         a.Code,
		Name:         a.Name,
		Type:         a.Type,
		Deactive:     a.Deactive,
	}
}

// ProductModel is the persistence model for the locally-owned product master.
type ProductModel struct {
	AggregateModel
	Code        string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_products_store_code,priority:2"`
	Name        string         `gorm:"type:varchar(255);not null"`
	Description string         `gorm:"type:text"`
	Status      int            `gorm:"not null;default:1;index"`
	TypeID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	StoreID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_products_store_code,priority:1"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (ProductModel) TableName() string { return "products" }

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Description:       m.Description,
		Status:            catalog.ProductStatus(m.Status),
		TypeID:            m.TypeID,
		StoreID:           m.StoreID,
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		p.DeletedAt = &t
	}
	return p
}

// ProductModelFromDomain creates a persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Status:      int(p.Status),
		TypeID:      p.TypeID,
		StoreID:     p.StoreID,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	if p.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	}
	return m
}
