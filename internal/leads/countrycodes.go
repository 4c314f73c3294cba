package leads

import (
	_ "embed"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// country_codes.json maps dial codes to the CRM's numeric country ids.
//
//go:embed country_codes.json
var countryCodesJSON []byte

var countryCodeIDs = mustLoadCountryCodes(countryCodesJSON)

func mustLoadCountryCodes(raw []byte) map[string]string {
	ids := make(map[string]string)
	if err := json.Unmarshal(raw, &ids); err != nil {
		panic("leads: invalid country_codes.json: " + err.Error())
	}
	return ids
}

// CountryCodeID returns the CRM id for a dial code such as "+55", or "" when
// the code is not in the table.
func CountryCodeID(countryCode string) string {
	return countryCodeIDs[strings.TrimSpace(countryCode)]
}

// CountryRegion returns the ISO 3166-1 alpha-2 region that owns a dial code
// ("+55" -> "BR"), or "" when the code is unknown.
func CountryRegion(countryCode string) string {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(countryCode), "+"))
	if err != nil || n <= 0 {
		return ""
	}
	region := phonenumbers.GetRegionCodeForCountryCode(n)
	if region == phonenumbers.UNKNOWN_REGION {
		return ""
	}
	return region
}
