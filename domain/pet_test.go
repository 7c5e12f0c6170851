package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPet(t *testing.T) {
	pet := NewPet("acc-1")

	assert.Equal(t, 1, pet.Level)
	assert.Equal(t, 0, pet.XP)
	assert.Equal(t, MaxHealth, pet.Health)
	assert.Equal(t, DefaultOutfit, pet.Outfit)
	assert.Equal(t, []int{DefaultOutfit}, pet.UnlockedOutfits)
}

func TestPetGainXP(t *testing.T) {
	tests := []struct {
		name        string
		startLevel  int
		startXP     int
		amount      int
		wantLevel   int
		wantXP      int
		wantLeveled bool
	}{
		{name: "no rollover", startLevel: 1, startXP: 10, amount: 5, wantLevel: 1, wantXP: 15},
		{name: "exact rollover", startLevel: 1, startXP: 97, amount: 3, wantLevel: 2, wantXP: 0, wantLeveled: true},
		{name: "rollover with remainder", startLevel: 1, startXP: 95, amount: 10, wantLevel: 2, wantXP: 5, wantLeveled: true},
		{name: "double rollover", startLevel: 2, startXP: 90, amount: 115, wantLevel: 4, wantXP: 5, wantLeveled: true},
		{name: "zero amount", startLevel: 1, startXP: 50, amount: 0, wantLevel: 1, wantXP: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pet := &Pet{Level: tt.startLevel, XP: tt.startXP}
			leveled := pet.GainXP(tt.amount)

			assert.Equal(t, tt.wantLevel, pet.Level)
			assert.Equal(t, tt.wantXP, pet.XP)
			assert.Equal(t, tt.wantLeveled, leveled)
		})
	}
}

func TestPetLoseXP(t *testing.T) {
	pet := &Pet{Level: 2, XP: 5}
	pet.LoseXP(10)
	assert.Equal(t, 0, pet.XP)
	assert.Equal(t, 2, pet.Level, "losing xp never drops the level")
}

func TestPetHealthClamps(t *testing.T) {
	pet := &Pet{Health: 4.5}

	pet.IncreaseHealth(1.0)
	assert.Equal(t, MaxHealth, pet.Health)

	pet.DecreaseHealth(10.0)
	assert.Equal(t, 0.0, pet.Health)

	pet.IncreaseHealth(1.0)
	assert.Equal(t, 1.0, pet.Health)
}

func TestOutfitPrice(t *testing.T) {
	price, ok := OutfitPrice(1)
	assert.True(t, ok)
	assert.Equal(t, 0, price)

	price, ok = OutfitPrice(9)
	assert.True(t, ok)
	assert.Equal(t, 50000, price)

	_, ok = OutfitPrice(10)
	assert.False(t, ok)
}

func TestPetUnlock(t *testing.T) {
	pet := NewPet("acc-1")

	assert.True(t, pet.HasOutfit(1))
	assert.False(t, pet.HasOutfit(3))

	pet.Unlock(3)
	assert.True(t, pet.HasOutfit(3))

	pet.Unlock(3)
	assert.Equal(t, []int{1, 3}, pet.UnlockedOutfits, "unlocking twice must not duplicate")
}
