package normalize

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/cold-outreach/internal/types"
)

// ParseCompanyInfo decodes company summary output. Like ParseJobDetails it is
// soft: on failure the returned CompanyInfo is empty and the *ParseError is advisory.
func ParseCompanyInfo(raw string) (types.CompanyInfo, error) {
	text := StripCodeFence(raw)
	if _, err := decodeObject(text); err != nil {
		return types.CompanyInfo{}, err
	}

	var info types.CompanyInfo
	if err := json.Unmarshal([]byte(text), &info); err != nil {
		return types.CompanyInfo{}, &ParseError{Message: "company summary has unexpected field types", Cause: err}
	}

	info.Mission = strings.TrimSpace(info.Mission)
	info.Values = strings.TrimSpace(info.Values)
	info.RecentNews = strings.TrimSpace(info.RecentNews)
	return info, nil
}
