package render

import (
	"encoding/json"

	"github.com/muraak/cdiag/internal/diag"
)

// JSON renders results as structured JSON for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// jsonOutput is the top-level JSON structure.
type jsonOutput struct {
	Version string       `json:"version"`
	Files   []jsonResult `json:"files"`
}

type jsonResult struct {
	File        string        `json:"file"`
	Error       string        `json:"error,omitempty"`
	Diagnostics []diag.Record `json:"diagnostics"`
}

// Render formats all results as JSON.
func (j *JSON) Render(results []Result) string {
	out := jsonOutput{
		Version: "1",
		Files:   make([]jsonResult, 0, len(results)),
	}
	for _, res := range results {
		jr := jsonResult{File: res.File, Diagnostics: res.Records}
		if jr.Diagnostics == nil {
			jr.Diagnostics = diag.Set{}
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		out.Files = append(out.Files, jr)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}
