package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gemstok/inventory/internal/domain/inventory"
)

// ProductCodeModel is the persistence model for one barcoded piece.
type ProductCodeModel struct {
	AggregateModel
	Barcode        string          `gorm:"type:varchar(60);not null;uniqueIndex"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         int             `gorm:"not null;default:0;index"`
	Weight         decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	FixedPrice     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	BuyPrice       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	TakenOutReason int             `gorm:"not null;default:0"`
	TakenOutBy     *uuid.UUID      `gorm:"type:uuid"`
	TakenOutAt     *time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (ProductCodeModel) TableName() string { return "product_codes" }

// ToDomain converts the persistence model to a domain ProductCode.
func (m *ProductCodeModel) ToDomain() *inventory.ProductCode {
	c := &inventory.ProductCode{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Barcode:           m.Barcode,
		ProductID:         m.ProductID,
		Status:            inventory.CodeStatus(m.Status),
		Weight:            m.Weight,
		FixedPrice:        m.FixedPrice,
		BuyPrice:          m.BuyPrice,
		TakenOutReason:    inventory.TakenOutReason(m.TakenOutReason),
		TakenOutBy:        m.TakenOutBy,
		TakenOutAt:        m.TakenOutAt,
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		c.DeletedAt = &t
	}
	return c
}

// ProductCodeModelFromDomain creates a persistence model from a domain ProductCode.
func ProductCodeModelFromDomain(c *inventory.ProductCode) *ProductCodeModel {
	m := &ProductCodeModel{
		Barcode:        c.Barcode,
		ProductID:      c.ProductID,
		Status:         int(c.Status),
		Weight:         c.Weight,
		FixedPrice:     c.FixedPrice,
		BuyPrice:       c.BuyPrice,
		TakenOutReason: int(c.TakenOutReason),
		TakenOutBy:     c.TakenOutBy,
		TakenOutAt:     c.TakenOutAt,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	if c.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	}
	return m
}

// StockOpnameModel is the persistence model for the stock opname header.
type StockOpnameModel struct {
	AggregateModel
	StoreID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	TransDate   time.Time  `gorm:"not null;index"`
	Status      int        `gorm:"not null;default:0;index"`
	Description string     `gorm:"type:text"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	ApproveBy   *uuid.UUID `gorm:"type:uuid"`
	ApproveAt   *time.Time
	// Associations
	Details []StockOpnameDetailModel `gorm:"foreignKey:StockOpnameID;references:ID;constraint:OnDelete:CASCADE"`
}

func (StockOpnameModel) TableName() string { return "stock_opnames" }

// ToDomain converts the persistence model to a domain StockOpname.
func (m *StockOpnameModel) ToDomain() *inventory.StockOpname {
	o := &inventory.StockOpname{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		StoreID:           m.StoreID,
		CategoryID:        m.CategoryID,
		TransDate:         m.TransDate,
		Status:            inventory.OpnameStatus(m.Status),
		Description:       m.Description,
		CreatedBy:         m.CreatedBy,
		ApproveBy:         m.ApproveBy,
		ApproveAt:         m.ApproveAt,
		Details:           make([]*inventory.StockOpnameDetail, len(m.Details)),
	}
	for i, d := range m.Details {
		o.Details[i] = d.ToDomain()
	}
	return o
}

// StockOpnameModelFromDomain creates a persistence model from a domain StockOpname.
func StockOpnameModelFromDomain(o *inventory.StockOpname) *StockOpnameModel {
	m := &StockOpnameModel{
		StoreID:     o.StoreID,
		CategoryID:  o.CategoryID,
		TransDate:   o.TransDate,
		Status:      int(o.Status),
		Description: o.Description,
		CreatedBy:   o.CreatedBy,
		ApproveBy:   o.ApproveBy,
		ApproveAt:   o.ApproveAt,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Details = make([]StockOpnameDetailModel, len(o.Details))
	for i, d := range o.Details {
		m.Details[i] = *StockOpnameDetailModelFromDomain(d)
	}
	return m
}

// StockOpnameDetailModel is the persistence model for one frozen candidate.
type StockOpnameDetailModel struct {
	BaseModel
	StockOpnameID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_opname_detail_code,priority:1"`
	ProductCodeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_opname_detail_code,priority:2"`
	Scanned       bool      `gorm:"not null;default:false"`
}

func (StockOpnameDetailModel) TableName() string { return "stock_opname_details" }

// ToDomain converts the persistence model to a domain StockOpnameDetail.
func (m *StockOpnameDetailModel) ToDomain() *inventory.StockOpnameDetail {
	return &inventory.StockOpnameDetail{
		BaseEntity:    m.BaseModel.ToDomain(),
		StockOpnameID: m.StockOpnameID,
		ProductCodeID: m.ProductCodeID,
		Scanned:       m.Scanned,
	}
}

// StockOpnameDetailModelFromDomain creates a persistence model from a domain detail.
func StockOpnameDetailModelFromDomain(d *inventory.StockOpnameDetail) *StockOpnameDetailModel {
	m := &StockOpnameDetailModel{
		StockOpnameID: d.StockOpnameID,
		ProductCodeID: d.ProductCodeID,
		Scanned:       d.Scanned,
	}
	m.FromDomainBaseEntity(d.BaseEntity)
	return m
}
