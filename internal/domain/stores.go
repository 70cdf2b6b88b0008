package domain

// StoreNames maps canonical store IDs to display names for the Dutch
// supermarket chains covered by the checkjebon feed.
var StoreNames = map[string]string{
	"ah":        "Albert Heijn",
	"aldi":      "Aldi",
	"dekamarkt": "DekaMarkt",
	"dirk":      "Dirk",
	"ekoplaza":  "Ekoplaza",
	"hoogvliet": "Hoogvliet",
	"jumbo":     "Jumbo",
	"lidl":      "Lidl",
	"plus":      "Plus",
	"poiesz":    "Poiesz",
	"spar":      "Spar",
	"vomar":     "Vomar",
}

// DefaultStores is the store subset used when a caller supplies no
// filter, ordered budget-first.
var DefaultStores = []string{"dirk", "lidl", "hoogvliet", "ah", "jumbo"}

// StoreDisplayName returns the human-readable chain name, falling
// back to the raw ID for stores not in the registry.
func StoreDisplayName(storeID string) string {
	if name, ok := StoreNames[storeID]; ok {
		return name
	}
	return storeID
}
