// Package schemas holds the JSON Schema documents shipped with the repository.
package schemas

import _ "embed"

// ResumeRecordFile is the file name of the resume record schema
const ResumeRecordFile = "resume_record.schema.json"

// ResumeRecord is the JSON Schema of the canonical resume record
//
//go:embed resume_record.schema.json
var ResumeRecord []byte
