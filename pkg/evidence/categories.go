package evidence

// Semantic categories for coarse duplicate detection. Two records whose
// markers map to the same category describe the same kind of clue even when
// the markers differ (a wine glass next to a wine bottle is not a new lead).
const (
	CategoryPhone       = "phone"
	CategoryWine        = "wine"
	CategoryFabric      = "fabric"
	CategoryDocument    = "document"
	CategoryKey         = "key"
	CategoryFootwear    = "footwear"
	CategoryComputer    = "computer"
	CategoryBlood       = "blood"
	CategoryCamera      = "camera"
	CategoryTime        = "time"
	CategoryFingerprint = "fingerprint"
	CategoryGarden      = "garden"
)

// CategoryMap maps a marker glyph to its semantic category. It is static
// configuration; markers absent from the map are their own singleton
// category (the marker itself), so unusual glyphs never collide by accident.
type CategoryMap map[string]string

// DefaultCategories returns the standard marker-to-category table.
func DefaultCategories() CategoryMap {
	return CategoryMap{
		"📱": CategoryPhone,
		"📞": CategoryPhone,
		"☎️": CategoryPhone,

		"🍷": CategoryWine,
		"🍾": CategoryWine,
		"🥂": CategoryWine,
		"🍸": CategoryWine,
		"🍇": CategoryWine,

		"👔": CategoryFabric,
		"🧵": CategoryFabric,
		"👗": CategoryFabric,
		"👚": CategoryFabric,
		"🧥": CategoryFabric,
		"🧣": CategoryFabric,
		"🧤": CategoryFabric,

		"📋": CategoryDocument,
		"📄": CategoryDocument,
		"📝": CategoryDocument,
		"📃": CategoryDocument,
		"📑": CategoryDocument,
		"📜": CategoryDocument,

		"🔑": CategoryKey,
		"🗝️": CategoryKey,

		"👟": CategoryFootwear,
		"👠": CategoryFootwear,
		"👞": CategoryFootwear,
		"🥾": CategoryFootwear,

		"💻": CategoryComputer,
		"🖥️": CategoryComputer,
		"⌨️": CategoryComputer,

		"🩸": CategoryBlood,
		"💉": CategoryBlood,

		"📷": CategoryCamera,
		"📹": CategoryCamera,
		"🎥": CategoryCamera,

		"⏰": CategoryTime,
		"⌚": CategoryTime,
		"🕰️": CategoryTime,
		"⏱️": CategoryTime,

		"🖐️": CategoryFingerprint,
		"👆": CategoryFingerprint,

		"🌹": CategoryGarden,
		"🌿": CategoryGarden,
		"🌷": CategoryGarden,
		"🪴": CategoryGarden,
	}
}

// Category returns the semantic category for a marker. Unknown markers are
// their own category.
func (m CategoryMap) Category(marker string) string {
	if c, ok := m[marker]; ok {
		return c
	}
	return marker
}
