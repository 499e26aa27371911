package models

import (
	"time"

	"github.com/detalhesstore/detalhes-backend/pkg/types"
)

// SettingsRowID is the fixed primary key of the settings singleton row.
const SettingsRowID = 1

// SiteSetting is the singleton settings row: a fixed id and a JSONB blob.
type SiteSetting struct {
	ID        int                 `gorm:"column:id;primaryKey"`
	Data      types.StoreSettings `gorm:"column:data;type:jsonb"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (SiteSetting) TableName() string { return "site_settings" }
