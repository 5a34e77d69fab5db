package contracts

import "Grana/internal/domain/category"

type CategoryCreateRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Type  string `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Icon  string `json:"icon" binding:"omitempty,max=50"`
	Color string `json:"color" binding:"omitempty,max=7"`
}

type CategoryUpdateRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Type  string `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Icon  string `json:"icon" binding:"omitempty,max=50"`
	Color string `json:"color" binding:"omitempty,max=7"`
}

type CategoryCreateResponse struct {
	Message  string             `json:"message"`
	Category *category.Category `json:"category"`
}

type CategorySingleResponse struct {
	Category *category.Category `json:"category"`
}
