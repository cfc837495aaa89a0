package dto

import "buildnchill-server/internal/model"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type ResetPasswordRequest struct {
	UserID      string `json:"user_id"`
	NewPassword string `json:"new_password"`
}

type ProfileResponse struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	WalletBalance int64  `json:"wallet_balance"`
}

type CreateOrderRequest struct {
	MCUsername    string `json:"mc_username"`
	ProductID     string `json:"product_id"`
	PaymentMethod string `json:"payment_method"`
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}

type SubmitRechargeRequest struct {
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	ProofImage    string `json:"proof_image"`
}

type AdjustBalanceRequest struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

type SubmitContactRequest struct {
	IGN      string `json:"ign"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Category string `json:"category"`
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
}

type ContactStatusRequest struct {
	Status string `json:"status"`
}

// ContactResponse carries the short LH- ticket code the admin screens and
// confirmation emails display alongside the raw row.
type ContactResponse struct {
	model.Contact
	Code string `json:"code"`
}

type NewsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Image       string `json:"image"`
	Date        string `json:"date"`
}

type CategoryRequest struct {
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	Active       bool   `json:"active"`
	DisplayOrder int    `json:"display_order"`
}

type ProductRequest struct {
	CategoryID   string `json:"category_id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	DisplayPrice string `json:"display_price"`
	Description  string `json:"description"`
	Command      string `json:"command"`
	Active       bool   `json:"active"`
	DisplayOrder int    `json:"display_order"`
}

type CarouselImageRequest struct {
	URL          string `json:"url"`
	Caption      string `json:"caption"`
	DisplayOrder int    `json:"display_order"`
}

type ServerStatusRequest struct {
	Status     string `json:"status"`
	Players    string `json:"players"`
	MaxPlayers string `json:"max_players"`
	Version    string `json:"version"`
}

type SiteSettingsRequest struct {
	SiteTitle       string `json:"site_title"`
	ServerIP        string `json:"server_ip"`
	ServerVersion   string `json:"server_version"`
	ContactEmail    string `json:"contact_email"`
	ContactPhone    string `json:"contact_phone"`
	DiscordURL      string `json:"discord_url"`
	MaintenanceMode bool   `json:"maintenance_mode"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
