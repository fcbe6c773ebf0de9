package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	model "kelasku_backend/internals/features/classroom/rewards/model"
)

/* ================= Requests ================= */

type RewardItemCreateReq struct {
	Name     string         `json:"name"`
	Cost     int            `json:"cost" validate:"required,gt=0"`
	Stock    int            `json:"stock" validate:"gte=0"`
	Images   datatypes.JSON `json:"images,omitempty"`
	IsActive *bool          `json:"is_active,omitempty"`
}

func (r *RewardItemCreateReq) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *RewardItemCreateReq) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if len(r.Name) > 100 {
		return errors.New("name too long")
	}
	return nil
}

func (r *RewardItemCreateReq) ToModel(ownerID uuid.UUID) *model.RewardItemModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &model.RewardItemModel{
		RewardItemOwnerUserID: ownerID,
		RewardItemName:        r.Name,
		RewardItemCost:        r.Cost,
		RewardItemStock:       r.Stock,
		RewardItemImages:      r.Images,
		RewardItemIsActive:    active,
	}
}

type RewardItemUpdateReq struct {
	Name     string         `json:"name"`
	Cost     int            `json:"cost" validate:"required,gt=0"`
	Stock    int            `json:"stock" validate:"gte=0"`
	Images   datatypes.JSON `json:"images,omitempty"`
	IsActive *bool          `json:"is_active,omitempty"`
}

func (r *RewardItemUpdateReq) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *RewardItemUpdateReq) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func (r *RewardItemUpdateReq) Apply(m *model.RewardItemModel) {
	m.RewardItemName = r.Name
	m.RewardItemCost = r.Cost
	m.RewardItemStock = r.Stock
	if r.Images != nil {
		m.RewardItemImages = r.Images
	}
	if r.IsActive != nil {
		m.RewardItemIsActive = *r.IsActive
	}
}

type RedeemReq struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Qty       int       `json:"qty" validate:"required,gt=0"`
}

/* ================= Responses ================= */

type RewardItemResp struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Cost      int            `json:"cost"`
	Stock     int            `json:"stock"`
	Images    datatypes.JSON `json:"images,omitempty"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func ItemFromModel(m *model.RewardItemModel) RewardItemResp {
	return RewardItemResp{
		ID:        m.RewardItemID,
		Name:      m.RewardItemName,
		Cost:      m.RewardItemCost,
		Stock:     m.RewardItemStock,
		Images:    m.RewardItemImages,
		IsActive:  m.RewardItemIsActive,
		CreatedAt: m.RewardItemCreatedAt,
		UpdatedAt: m.RewardItemUpdatedAt,
	}
}

type RedemptionResp struct {
	ID        uuid.UUID  `json:"id"`
	StudentID *uuid.UUID `json:"student_id,omitempty"`
	ItemID    *uuid.UUID `json:"item_id,omitempty"`
	ItemName  string     `json:"item_name"`
	Qty       int        `json:"qty"`
	TotalCost int        `json:"total_cost"`
	CreatedAt time.Time  `json:"created_at"`
}

func RedemptionFromModel(m *model.RedemptionModel) RedemptionResp {
	return RedemptionResp{
		ID:        m.RedemptionID,
		StudentID: m.RedemptionStudentID,
		ItemID:    m.RedemptionItemID,
		ItemName:  m.RedemptionItemName,
		Qty:       m.RedemptionQty,
		TotalCost: m.RedemptionTotalCost,
		CreatedAt: m.RedemptionCreatedAt,
	}
}
