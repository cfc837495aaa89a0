package model

import "time"

// Order status follows a linear lifecycle: pending -> paid -> delivered.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusDelivered = "delivered"
)

const (
	PaymentMethodQR     = "qr"
	PaymentMethodBank   = "bank"
	PaymentMethodWallet = "wallet"
)

const (
	RechargeStatusPending  = "pending"
	RechargeStatusApproved = "approved"
	RechargeStatusRejected = "rejected"
)

const (
	ContactStatusPending    = "pending"
	ContactStatusProcessing = "processing"
	ContactStatusResolved   = "resolved"
)

const (
	TxTypeRecharge        = "recharge"
	TxTypePurchase        = "purchase"
	TxTypeAdminAdjustment = "admin_adjustment"
	TxTypeOther           = "other"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Profile struct {
	ID           string `gorm:"primaryKey;size:36;not null"`
	Username     string `gorm:"size:32;uniqueIndex;not null"`
	Email        string `gorm:"size:128;uniqueIndex;not null"` // synthetic <username>@domain
	PasswordHash string `gorm:"size:128;not null"`
	Role         string `gorm:"size:16;not null;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Category struct {
	ID           string `gorm:"primaryKey;size:36;not null"`
	Name         string `gorm:"size:128;not null"`
	Icon         string `gorm:"size:512"` // emoji or image URL
	Active       bool   `gorm:"not null;default:true"`
	IsDeleted    bool   `gorm:"not null;default:false;index"`
	DisplayOrder int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Product struct {
	ID           string `gorm:"primaryKey;size:36;not null"`
	CategoryID   string `gorm:"size:36;index;not null"`
	Name         string `gorm:"size:128;not null"`
	Price        int64  `gorm:"not null"` // VNĐ
	DisplayPrice string `gorm:"size:64"`
	Description  string `gorm:"type:text"` // rich text
	// Template for the in-game command; {username} is replaced with the
	// buyer's Minecraft name at order time.
	Command      string `gorm:"size:512;not null"`
	Active       bool   `gorm:"not null;default:true"`
	IsDeleted    bool   `gorm:"not null;default:false;index"`
	DisplayOrder int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Order struct {
	ID         string `gorm:"primaryKey;size:36;not null"`
	MCUsername string `gorm:"column:mc_username;size:32;index;not null"`
	ProductID  string `gorm:"size:36;index;not null"`
	CategoryID string `gorm:"size:36;index"`
	Product    string `gorm:"size:128;not null"` // product name, denormalized for display
	Command    string `gorm:"size:512;not null"` // template with buyer name substituted
	Price      int64  `gorm:"not null"`
	Status     string `gorm:"size:16;index;not null;default:pending"`
	// Derived from Status; kept as a column because the game-server plugin
	// reads it directly.
	Delivered     bool   `gorm:"not null;default:false"`
	PaymentMethod string `gorm:"size:16;not null"`
	// Free text; may embed a Discord message reference as [msg_id:N].
	Notes     string `gorm:"size:512"`
	IsDeleted bool   `gorm:"not null;default:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time
}

type Wallet struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"size:36;uniqueIndex;not null"`
	Balance   int64  `gorm:"not null;default:0"` // VNĐ; negative only via admin adjustment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WalletTransaction is an append-only ledger row. The wallet balance is a
// maintained running total, never recomputed from this table.
type WalletTransaction struct {
	ID        uint   `gorm:"primaryKey"`
	WalletID  uint   `gorm:"index;not null"`
	Amount    int64  `gorm:"not null"` // signed
	Type      string `gorm:"size:32;not null"`
	Note      string `gorm:"size:256"`
	CreatedAt time.Time
}

type Recharge struct {
	ID               string `gorm:"primaryKey;size:36;not null"`
	UserID           string `gorm:"size:36;index;not null"`
	Amount           int64  `gorm:"not null"`
	PaymentMethod    string `gorm:"size:16;not null"`
	ProofImage       string `gorm:"size:512"`
	Status           string `gorm:"size:16;index;not null;default:pending"`
	DiscordMessageID string `gorm:"size:32"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Contact struct {
	ID        string `gorm:"primaryKey;size:36;not null"`
	IGN       string `gorm:"column:ign;size:32;not null"`
	Email     string `gorm:"size:128;not null"`
	Phone     string `gorm:"size:32"`
	Category  string `gorm:"size:64"`
	Message   string `gorm:"type:text;not null"`
	ImageURL  string `gorm:"size:512"`
	Read      bool   `gorm:"not null;default:false"`
	Status    string `gorm:"size:16;index;not null;default:pending"`
	IsDeleted bool   `gorm:"not null;default:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type News struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:256;not null"`
	Slug        string `gorm:"size:256;index;not null"`
	Description string `gorm:"size:512"`
	Content     string `gorm:"type:text"`
	Image       string `gorm:"size:512"`
	Date        string `gorm:"size:10;index;not null"` // YYYY-MM-DD
	IsDeleted   bool   `gorm:"not null;default:false;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SiteSettings is a singleton row with ID 1.
type SiteSettings struct {
	ID              uint   `gorm:"primaryKey"`
	SiteTitle       string `gorm:"size:128;not null;default:BuildnChill"`
	ServerIP        string `gorm:"column:server_ip;size:128;not null"`
	ServerVersion   string `gorm:"size:32"`
	ContactEmail    string `gorm:"size:128"`
	ContactPhone    string `gorm:"size:32"`
	DiscordURL      string `gorm:"column:discord_url;size:256"`
	MaintenanceMode bool   `gorm:"not null;default:false"`
	UpdatedAt       time.Time
}

// ServerStatus is a singleton row with ID 1, refreshed by the status poller.
type ServerStatus struct {
	ID         uint   `gorm:"primaryKey"`
	Status     string `gorm:"size:16;not null;default:Offline"`
	Players    string `gorm:"size:16;not null;default:0"`
	MaxPlayers string `gorm:"size:16;not null;default:0"`
	Version    string `gorm:"size:32"`
	UpdatedAt  time.Time
}

type CarouselImage struct {
	ID           uint   `gorm:"primaryKey"`
	URL          string `gorm:"size:512;not null"`
	Caption      string `gorm:"size:256"`
	DisplayOrder int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
}

// PendingCommand is the queue the game-server plugin polls. This service
// only ever inserts rows; it never executes commands itself.
type PendingCommand struct {
	ID               uint   `gorm:"primaryKey"`
	Command          string `gorm:"size:1024;not null"`
	MCUsername       string `gorm:"column:mc_username;size:32;index;not null"`
	Status           string `gorm:"size:16;index;not null;default:pending"`
	DiscordMessageID string `gorm:"size:32"`
	CreatedAt        time.Time
}
