// Package schemas holds the JSON Schemas for model output and stored records.
package schemas

import "embed"

// Schema file names.
const (
	TemplateFields = "template_fields.schema.json"
	JobDetails     = "job_details.schema.json"
	PersonalInfo   = "personal_info.schema.json"
	Template       = "template.schema.json"
)

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
