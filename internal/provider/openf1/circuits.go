package openf1

// circuitKeys maps Ergast circuitId to the OpenF1 circuit_key.
var circuitKeys = map[string]int{
	"bahrain":       48,
	"jeddah":        70,
	"albert_park":   58, // Melbourne
	"suzuka":        22,
	"shanghai":      17,
	"miami":         73,
	"imola":         21,
	"monaco":        6,
	"villeneuve":    7, // Canada
	"catalunya":     4,
	"red_bull_ring": 9,
	"silverstone":   3,
	"hungaroring":   10,
	"spa":           5,
	"zandvoort":     11,
	"monza":         13,
	"baku":          67,
	"marina_bay":    15,
	"americas":      63, // COTA
	"rodriguez":     16, // Mexico City
	"interlagos":    18,
	"vegas":         77,
	"losail":        75, // Qatar
	"yas_marina":    24,
}

// CircuitKey returns the OpenF1 circuit_key for an Ergast circuitId.
func CircuitKey(circuitID string) (int, bool) {
	k, ok := circuitKeys[circuitID]
	return k, ok
}
