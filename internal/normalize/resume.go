package normalize

import (
	"encoding/json"

	"github.com/jonathan/cold-outreach/internal/schemas"
	"github.com/jonathan/cold-outreach/internal/types"
	schemafiles "github.com/jonathan/cold-outreach/schemas"
)

// ParsePersonalInfo decodes resume analysis output. Failures are returned as
// *ParseError; there is no sensible fallback profile.
func ParsePersonalInfo(raw string) (types.PersonalInfo, error) {
	text := StripCodeFence(raw)
	if _, err := decodeObject(text); err != nil {
		return types.PersonalInfo{}, err
	}

	if err := schemas.Validate(schemafiles.PersonalInfo, []byte(text)); err != nil {
		return types.PersonalInfo{}, &ParseError{Message: "resume analysis does not match the profile shape", Cause: err}
	}

	var info types.PersonalInfo
	if err := json.Unmarshal([]byte(text), &info); err != nil {
		return types.PersonalInfo{}, &ParseError{Message: "decode resume analysis", Cause: err}
	}

	if info.Skills == nil {
		info.Skills = []string{}
	}
	if info.Projects == nil {
		info.Projects = []types.Project{}
	}
	if info.Experience == nil {
		info.Experience = []types.Experience{}
	}
	if info.Education == nil {
		info.Education = []types.Education{}
	}
	if info.Links == nil {
		info.Links = []string{}
	}
	return info, nil
}
