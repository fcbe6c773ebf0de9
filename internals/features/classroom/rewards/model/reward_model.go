package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RewardItemModel struct {
	RewardItemID          uuid.UUID      `gorm:"column:reward_item_id;type:uuid;default:gen_random_uuid();primaryKey" json:"reward_item_id"`
	RewardItemOwnerUserID uuid.UUID      `gorm:"column:reward_item_owner_user_id;type:uuid;not null;index" json:"reward_item_owner_user_id"`
	RewardItemName        string         `gorm:"column:reward_item_name;type:varchar(100);not null" json:"reward_item_name"`
	RewardItemCost        int            `gorm:"column:reward_item_cost;not null" json:"reward_item_cost"`
	RewardItemStock       int            `gorm:"column:reward_item_stock;not null;default:0" json:"reward_item_stock"`
	RewardItemImages      datatypes.JSON `gorm:"column:reward_item_images;type:jsonb" json:"reward_item_images,omitempty"`
	RewardItemIsActive    bool           `gorm:"column:reward_item_is_active;not null;default:true" json:"reward_item_is_active"`

	RewardItemCreatedAt time.Time      `gorm:"column:reward_item_created_at;autoCreateTime" json:"reward_item_created_at"`
	RewardItemUpdatedAt time.Time      `gorm:"column:reward_item_updated_at;autoUpdateTime" json:"reward_item_updated_at"`
	RewardItemDeletedAt gorm.DeletedAt `gorm:"column:reward_item_deleted_at;index" json:"-"`
}

func (RewardItemModel) TableName() string { return "reward_items" }

// Redemption: append-only. Nama item di-snapshot supaya riwayat tetap
// terbaca walau item/siswa dihapus kemudian.
type RedemptionModel struct {
	RedemptionID          uuid.UUID  `gorm:"column:redemption_id;type:uuid;default:gen_random_uuid();primaryKey" json:"redemption_id"`
	RedemptionOwnerUserID uuid.UUID  `gorm:"column:redemption_owner_user_id;type:uuid;not null;index" json:"redemption_owner_user_id"`
	RedemptionStudentID   *uuid.UUID `gorm:"column:redemption_student_id;type:uuid;index" json:"redemption_student_id,omitempty"`
	RedemptionItemID      *uuid.UUID `gorm:"column:redemption_item_id;type:uuid;index" json:"redemption_item_id,omitempty"`
	RedemptionItemName    string     `gorm:"column:redemption_item_name;type:varchar(100);not null" json:"redemption_item_name"`
	RedemptionQty         int        `gorm:"column:redemption_qty;not null" json:"redemption_qty"`
	RedemptionTotalCost   int        `gorm:"column:redemption_total_cost;not null" json:"redemption_total_cost"`

	RedemptionCreatedAt time.Time `gorm:"column:redemption_created_at;autoCreateTime;index" json:"redemption_created_at"`
}

func (RedemptionModel) TableName() string { return "redemptions" }
