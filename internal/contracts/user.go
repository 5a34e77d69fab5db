package contracts

import "Grana/internal/domain/user"

type UserUpdateNameRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type UserUpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type ResourceCounts struct {
	Transactions int64 `json:"transactions"`
	Categories   int64 `json:"categories"`
	Recurrences  int64 `json:"recurrences"`
}

type UserProfileResponse struct {
	User   *user.User     `json:"user"`
	Counts ResourceCounts `json:"counts"`
}

type UserDeletionResponse struct {
	Message string `json:"message"`
}
