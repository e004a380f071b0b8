package domain

import (
	"strings"
	"time"
)

// GiftCodeType redemption variant
type GiftCodeType string

const (
	// GiftCodeTypeNormal anyone may redeem
	GiftCodeTypeNormal GiftCodeType = "normal"
	// GiftCodeTypeSpecific only listed accounts may redeem
	GiftCodeTypeSpecific GiftCodeType = "specific"
)

// Valid reports whether t is a known type
func (t GiftCodeType) Valid() bool {
	return t == GiftCodeTypeNormal || t == GiftCodeTypeSpecific
}

// GiftCodeState is derived from the expiry date, never stored
type GiftCodeState string

const (
	GiftCodeStateActive  GiftCodeState = "active"
	GiftCodeStateExpired GiftCodeState = "expired"
)

// Reward is one item granted by a gift code
type Reward struct {
	ItemID   int `json:"itemId" binding:"required"`
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GiftCode is a redeemable code owned by the remote service
type GiftCode struct {
	ID                FlexID       `json:"id"`
	Code              string       `json:"code"`
	Type              GiftCodeType `json:"type"`
	Rewards           []Reward     `json:"rewards"`
	SpecificAccounts  []string     `json:"specific_accounts"`
	ExpiryDate        time.Time    `json:"expiry_date"`
	CheckCreationTime bool         `json:"check_creation_time"`
	RedeemCount       int          `json:"redeem_count"`
	CreatedAt         *time.Time   `json:"created_at,omitempty"`
}

// State returns active or expired relative to now
func (g *GiftCode) State(now time.Time) GiftCodeState {
	if now.Before(g.ExpiryDate) {
		return GiftCodeStateActive
	}
	return GiftCodeStateExpired
}

// HasAccount reports whether account is listed, by exact match
func (g *GiftCode) HasAccount(account string) bool {
	for _, a := range g.SpecificAccounts {
		if a == account {
			return true
		}
	}
	return false
}

// GiftCodeView is a gift code with its derived state
type GiftCodeView struct {
	*GiftCode
	State GiftCodeState `json:"state"`
}

// CreateGiftCodeRequest gift code form. Accounts may be sent as a list or as
// newline separated text.
type CreateGiftCodeRequest struct {
	Code              string       `json:"code" binding:"required"`
	Type              GiftCodeType `json:"type" binding:"required"`
	Rewards           []Reward     `json:"rewards" binding:"required,min=1,dive"`
	ExpiryDate        time.Time    `json:"expiry_date" binding:"required"`
	CheckCreationTime bool         `json:"check_creation_time"`
	SpecificAccounts  []string     `json:"specific_accounts"`
	AccountsText      string       `json:"accounts_text"`
}

// ExtendGiftCodeRequest new expiry
type ExtendGiftCodeRequest struct {
	ExpiryDate time.Time `json:"expiry_date" binding:"required"`
}

// AddAccountsRequest newline separated account ids
type AddAccountsRequest struct {
	Accounts string `json:"accounts" binding:"required"`
}

// RemoveAccountRequest one exact account id
type RemoveAccountRequest struct {
	Account string `json:"account" binding:"required"`
}

// AddAccountsResult reports how many accounts were actually new
type AddAccountsResult struct {
	Added    int       `json:"added"`
	GiftCode *GiftCode `json:"gift_code"`
}

// ParseAccounts splits newline separated text, trims each line and drops blanks
func ParseAccounts(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// UniqueAccounts drops empty entries and repeats, keeping first occurrences
func UniqueAccounts(accounts []string) []string {
	seen := make(map[string]struct{}, len(accounts))
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// MergeAccounts returns existing followed by the entries of incoming not already
// present, and the number of entries appended. Matching is exact and case-sensitive.
func MergeAccounts(existing, incoming []string) ([]string, int) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, a := range existing {
		seen[a] = struct{}{}
		merged = append(merged, a)
	}
	added := 0
	for _, a := range incoming {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		merged = append(merged, a)
		added++
	}
	return merged, added
}

// RemoveAccount returns accounts without the exact entry and whether it was found
func RemoveAccount(accounts []string, account string) ([]string, bool) {
	out := make([]string, 0, len(accounts))
	found := false
	for _, a := range accounts {
		if a == account {
			found = true
			continue
		}
		out = append(out, a)
	}
	return out, found
}
