package domain

import "time"

// Pet health and leveling bounds.
const (
	MaxHealth     = 5.0
	XPPerLevel    = 100
	DefaultOutfit = 1
)

// outfitPrices is the authoritative price list; the client never dictates cost.
var outfitPrices = map[int]int{
	1: 0,
	2: 50,
	3: 100,
	4: 500,
	5: 1000,
	6: 5000,
	7: 10000,
	8: 20000,
	9: 50000,
}

// OutfitPrice returns the coin cost of an outfit, or false for unknown ids.
func OutfitPrice(id int) (int, bool) {
	price, ok := outfitPrices[id]
	return price, ok
}

// Pet is the per-account tamagotchi whose state tracks task outcomes.
type Pet struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	Level           int       `json:"level"`
	XP              int       `json:"xp"`
	Health          float64   `json:"health"`
	State           string    `json:"state"`
	Outfit          int       `json:"outfit"`
	UnlockedOutfits []int     `json:"unlocked_outfits"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewPet returns the initial pet state for a fresh account.
func NewPet(accountID string) *Pet {
	return &Pet{
		AccountID:       accountID,
		Level:           1,
		XP:              0,
		Health:          MaxHealth,
		State:           "idle",
		Outfit:          DefaultOutfit,
		UnlockedOutfits: []int{DefaultOutfit},
	}
}

// GainXP adds experience, rolling overflow into levels. Reports whether at
// least one level was gained.
func (p *Pet) GainXP(amount int) bool {
	if p == nil || amount <= 0 {
		return false
	}
	p.XP += amount
	leveled := false
	for p.XP >= XPPerLevel {
		p.XP -= XPPerLevel
		p.Level++
		leveled = true
	}
	return leveled
}

// LoseXP subtracts experience, flooring at zero. Levels are never taken back.
func (p *Pet) LoseXP(amount int) {
	if p == nil || amount <= 0 {
		return
	}
	p.XP -= amount
	if p.XP < 0 {
		p.XP = 0
	}
}

// IncreaseHealth raises health, clamped to MaxHealth.
func (p *Pet) IncreaseHealth(amount float64) {
	if p == nil {
		return
	}
	p.Health += amount
	if p.Health > MaxHealth {
		p.Health = MaxHealth
	}
}

// DecreaseHealth lowers health, clamped to zero.
func (p *Pet) DecreaseHealth(amount float64) {
	if p == nil {
		return
	}
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
}

// HasOutfit reports whether the outfit id has been unlocked.
func (p *Pet) HasOutfit(id int) bool {
	if p == nil {
		return false
	}
	for _, unlocked := range p.UnlockedOutfits {
		if unlocked == id {
			return true
		}
	}
	return false
}

// Unlock adds an outfit id to the unlocked set if not already present.
func (p *Pet) Unlock(id int) {
	if p == nil || p.HasOutfit(id) {
		return
	}
	p.UnlockedOutfits = append(p.UnlockedOutfits, id)
}
