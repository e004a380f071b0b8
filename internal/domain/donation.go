package domain

import "time"

// UnitPrice converts donation units to a currency total
const UnitPrice = 1000

// Donation is an immutable donation record.
// Collection: donations, keyed by ID (UUID).
type Donation struct {
	ID          string    `json:"id"`
	GameID      string    `json:"game_id"`
	Units       int       `json:"units"`
	TotalPrice  int       `json:"total_price"`
	IsProxy     bool      `json:"is_proxy"`
	ProxyGameID string    `json:"proxy_game_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateDonationRequest donation form
type CreateDonationRequest struct {
	GameID      string `json:"game_id" binding:"required,gameid"`
	Units       int    `json:"units"`
	IsProxy     bool   `json:"is_proxy"`
	ProxyGameID string `json:"proxy_game_id"`
}

// DonationTotal is the aggregate over all donations
type DonationTotal struct {
	Total int `json:"total"`
	Count int `json:"count"`
}
