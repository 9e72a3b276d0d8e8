package request

// ClaimUsernameRequest registers or re-binds a username for an external
// account.
type ClaimUsernameRequest struct {
	ExternalID    int64  `json:"external_id" binding:"required"`
	Username      string `json:"username" binding:"required"`
	WalletAddress string `json:"wallet_address" binding:"required"`
}

// UpdateProfileRequest carries partial profile changes. A nil field is left
// untouched; an empty string clears the field.
type UpdateProfileRequest struct {
	Bio     *string `json:"bio"`
	Avatar  *string `json:"avatar"`
	Privacy *string `json:"privacy"`
}

// NotifyRequest pushes one chat message directly.
type NotifyRequest struct {
	ChatID  int64  `json:"chat_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}
