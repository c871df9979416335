package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryMap_KnownMarkers(t *testing.T) {
	m := DefaultCategories()

	tests := []struct {
		marker   string
		category string
	}{
		{"📱", CategoryPhone},
		{"☎️", CategoryPhone},
		{"🍷", CategoryWine},
		{"🍾", CategoryWine},
		{"👔", CategoryFabric},
		{"🧤", CategoryFabric},
		{"📄", CategoryDocument},
		{"🔑", CategoryKey},
		{"👟", CategoryFootwear},
		{"💻", CategoryComputer},
		{"🩸", CategoryBlood},
		{"📷", CategoryCamera},
		{"⏰", CategoryTime},
		{"🌹", CategoryGarden},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.category, m.Category(tt.marker), "marker %s", tt.marker)
	}
}

func TestCategoryMap_UnknownMarkerIsItsOwnCategory(t *testing.T) {
	m := DefaultCategories()
	assert.Equal(t, "🔍", m.Category("🔍"))
	assert.Equal(t, "💄", m.Category("💄"))
}

func TestCategoryMap_SubstitutesNeverCollideWithTable(t *testing.T) {
	m := DefaultCategories()
	for _, sub := range defaultSubstitutes {
		_, mapped := m[sub]
		assert.False(t, mapped, "substitute %s must not share a category with the standard table", sub)
	}
}
