package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The two derived tags (new / bestseller) are
// recomputed from ViewCount, CartAddCount and CreatedAt on every product-list
// mutation; all other tags are author-controlled.
type Product struct {
	ID           string          `gorm:"column:id;primaryKey" json:"id"`
	Name         string          `gorm:"column:name;not null" json:"name"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Description  string          `gorm:"column:description" json:"description"`
	Images       pq.StringArray  `gorm:"column:images;type:text[];not null" json:"images"`
	Category     string          `gorm:"column:category;not null" json:"category"`
	Collection   string          `gorm:"column:collection" json:"collection"`
	Tags         pq.StringArray  `gorm:"column:tags;type:text[]" json:"tags"`
	IsGift       bool            `gorm:"column:is_gift;not null;default:false" json:"isGift"`
	Stock        int             `gorm:"column:stock;not null;default:0" json:"stock"`
	ViewCount    int             `gorm:"column:view_count;not null;default:0" json:"viewCount"`
	CartAddCount int             `gorm:"column:cart_add_count;not null;default:0" json:"cartAddCount"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Product) TableName() string { return "products" }

// Clone returns a deep copy so in-memory state never aliases persisted slices.
func (p Product) Clone() Product {
	out := p
	out.Images = append(pq.StringArray(nil), p.Images...)
	out.Tags = append(pq.StringArray(nil), p.Tags...)
	return out
}
