package panel

// The governance panel codes current sovereign states with their ISO3 code,
// plus a handful of historical or contested entities that have no counterpart
// in the development data. Those map to "" and fail the join softly.
var iso3Overrides = map[string]string{
	"PSG": "PSE", // Palestine/Gaza
	"PSB": "PSE", // Palestine/West Bank
	"KOS": "XKX", // Kosovo
	"ZZB": "",    // Zanzibar
	"SML": "",    // Somaliland
	"DDR": "",    // German Democratic Republic
	"YMD": "",    // South Yemen
	"RVN": "",    // Republic of Vietnam
	"TBT": "",    // Tibet
}

// ISO3 maps a governance-panel identifier to an ISO3 code, or "" when no
// mapping exists.
func ISO3(textID string) string {
	if mapped, ok := iso3Overrides[textID]; ok {
		return mapped
	}

	if len(textID) != 3 {
		return ""
	}

	for i := 0; i < len(textID); i++ {
		if textID[i] < 'A' || textID[i] > 'Z' {
			return ""
		}
	}

	return textID
}
