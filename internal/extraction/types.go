package extraction

import "encoding/json"

// Envelope is the raw extraction payload as delivered by the backend for a
// document. Both members are loosely typed on the wire: rawText is usually a
// string holding JSON (possibly wrapped in a markdown code fence), jsonData
// may be a JSON string, an object, or an object whose "text" property holds
// the actual JSON as a string.
type Envelope struct {
	RawText  json.RawMessage `json:"rawText,omitempty"`
	JSONData json.RawMessage `json:"jsonData,omitempty"`
}

// Result is the canonical shape every extraction payload is normalized
// into. All keys are always present; absent source data degrades to the
// zero values rather than missing keys.
type Result struct {
	DocumentType string                 `json:"documentType"`
	Summary      string                 `json:"summary"`
	Fields       map[string]interface{} `json:"fields"`
	Tables       []Table                `json:"tables"`
}

// Table is a named group of extracted rows.
type Table struct {
	Name string                   `json:"name"`
	Rows []map[string]interface{} `json:"rows"`
}

// Sentinel returns the placeholder result used when the backend payload
// cannot be parsed. The review screen renders it as "still processing"
// instead of crashing on malformed output.
func Sentinel() Result {
	return Result{
		DocumentType: "Processing...",
		Summary:      "Data extraction is in progress or failed.",
		Fields:       map[string]interface{}{},
		Tables:       []Table{},
	}
}
