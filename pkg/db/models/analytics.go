package models

import "github.com/shopspring/decimal"

// AnalyticsRowID is the fixed primary key of the analytics singleton row.
const AnalyticsRowID = 1

// Analytics holds the global storefront counters. Mutated only through the
// store's event recording.
type Analytics struct {
	ID                int             `gorm:"column:id;primaryKey" json:"-"`
	Visitors          int64           `gorm:"column:visitors;not null;default:0" json:"visitors"`
	ProductViews      int64           `gorm:"column:product_views;not null;default:0" json:"productViews"`
	AddedToCart       int64           `gorm:"column:added_to_cart;not null;default:0" json:"addedToCart"`
	WhatsAppCheckouts int64           `gorm:"column:whatsapp_checkouts;not null;default:0" json:"whatsappCheckouts"`
	AbandonedCarts    int64           `gorm:"column:abandoned_carts;not null;default:0" json:"abandonedCarts"`
	Revenue           decimal.Decimal `gorm:"column:revenue;type:numeric(12,2);not null;default:0" json:"revenue"`
}

func (Analytics) TableName() string { return "analytics" }
