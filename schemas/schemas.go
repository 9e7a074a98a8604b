// Package schemas embeds the JSON Schemas for CV, job and seed fixture files.
package schemas

import "embed"

// Schema file names.
const (
	CV   = "cv.schema.json"
	Job  = "job.schema.json"
	Seed = "seed.schema.json"
)

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
