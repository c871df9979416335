package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_AppendPreservesOrder(t *testing.T) {
	l := NewLedger(5, nil)

	first := NewRecord("Wine Bottle", "🍷", "Shattered bottle next to the body")
	second := NewRecord("Torn Fabric", "👔", "Silk fragment on the door handle")
	third := NewRecord("Cellar Key", "🔑", "Key with fresh scratches")

	require.NoError(t, l.Append(first))
	require.NoError(t, l.Append(second))
	require.NoError(t, l.Append(third))

	records := l.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "Wine Bottle", records[0].Name)
	assert.Equal(t, "Torn Fabric", records[1].Name)
	assert.Equal(t, "Cellar Key", records[2].Name)
}

func TestLedger_CapacityEnforced(t *testing.T) {
	l := NewLedger(2, nil)

	require.NoError(t, l.Append(NewRecord("Wine Bottle", "🍷", "desc")))
	require.NoError(t, l.Append(NewRecord("Cellar Key", "🔑", "desc")))

	err := l.Append(NewRecord("Torn Fabric", "👔", "desc"))
	assert.ErrorIs(t, err, ErrLedgerFull)
	assert.Equal(t, 2, l.Size())
}

func TestLedger_DuplicateMarkerRejected(t *testing.T) {
	l := NewLedger(5, nil)
	require.NoError(t, l.Append(NewRecord("Wine Bottle", "🍷", "desc")))

	err := l.Append(NewRecord("Wine Glass", "🍷", "desc"))
	assert.ErrorIs(t, err, ErrDuplicateMarker)
}

func TestLedger_DuplicateNameRejectedCaseInsensitive(t *testing.T) {
	l := NewLedger(5, nil)
	require.NoError(t, l.Append(NewRecord("Wine Bottle", "🍷", "desc")))

	err := l.Append(NewRecord("wine bottle", "🔑", "desc"))
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestLedger_Categories(t *testing.T) {
	l := NewLedger(5, DefaultCategories())
	require.NoError(t, l.Append(NewRecord("Wine Bottle", "🍷", "desc")))
	require.NoError(t, l.Append(NewRecord("Threatening Messages", "📱", "desc")))

	present := l.Categories()
	assert.True(t, present[CategoryWine])
	assert.True(t, present[CategoryPhone])
	assert.False(t, present[CategoryKey])
}

func TestLedger_RecordsReturnsCopy(t *testing.T) {
	l := NewLedger(5, nil)
	require.NoError(t, l.Append(NewRecord("Wine Bottle", "🍷", "desc")))

	records := l.Records()
	records[0].Name = "Mutated"

	assert.Equal(t, "Wine Bottle", l.Records()[0].Name)
}

func TestLedger_DefaultsApplied(t *testing.T) {
	l := NewLedger(0, nil)
	assert.Equal(t, DefaultCapacity, l.Capacity())
	assert.Equal(t, 0, l.Size())
}

func TestNewLedgerFrom(t *testing.T) {
	existing := []Record{
		NewRecord("Wine Bottle", "🍷", "desc"),
		NewRecord("Cellar Key", "🔑", "desc"),
	}

	l := NewLedgerFrom(10, nil, existing)
	assert.Equal(t, 2, l.Size())
	assert.True(t, l.ContainsMarker("🍷"))
	assert.True(t, l.ContainsName("cellar key"))
}

func TestLedger_Reset(t *testing.T) {
	l := NewLedger(5, nil)
	require.NoError(t, l.Append(NewRecord("Wine Bottle", "🍷", "desc")))

	l.Reset()
	assert.Equal(t, 0, l.Size())
	assert.False(t, l.ContainsMarker("🍷"))
}
