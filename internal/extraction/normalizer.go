package extraction

import (
	"bytes"
	"encoding/json"
	"strings"
)

// The backend delivers extraction payloads in one of three shapes. They are
// resolved in a fixed precedence order: rawText first, then jsonData, then
// jsonData.text. The order is contractual; when several shapes are present
// at once the earlier one wins.
type payloadVariant int

const (
	variantNone payloadVariant = iota
	variantRawText
	variantJSONData
	variantNestedText
)

// Normalize converts a raw extraction envelope into the canonical Result.
// It never fails: any malformed JSON along the way degrades to Sentinel().
func Normalize(env *Envelope) Result {
	payload, variant := resolvePayload(env)
	if variant == variantNone {
		return Sentinel()
	}

	return Result{
		DocumentType: stringValue(payload["DocumentType"], "Unknown"),
		Summary:      stringValue(payload["Summary"], ""),
		Fields:       normalizeFields(payload),
		Tables:       normalizeTables(payload),
	}
}

// resolvePayload picks the first usable payload shape and parses it into a
// generic object. Returns variantNone when every candidate fails.
func resolvePayload(env *Envelope) (map[string]interface{}, payloadVariant) {
	if env == nil {
		return nil, variantNone
	}

	if hasValue(env.RawText) {
		if payload, ok := parseLoose(env.RawText); ok {
			return payload, variantRawText
		}
		return nil, variantNone
	}

	if hasValue(env.JSONData) {
		payload, ok := parseLoose(env.JSONData)
		if !ok {
			return nil, variantNone
		}

		// The backend sometimes nests the real JSON one level deeper as a
		// string under "text".
		if nested, isString := payload["text"].(string); isString {
			if inner, ok := parseObject(nested); ok {
				return inner, variantNestedText
			}
			return nil, variantNone
		}

		return payload, variantJSONData
	}

	return nil, variantNone
}

// hasValue reports whether an envelope member carries anything usable.
// Absent, JSON null and the empty string all count as missing, so a later
// member in the precedence order can take over.
func hasValue(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", `""`:
		return false
	}
	return true
}

// parseLoose handles a raw JSON value that is either an object already or a
// string containing an object, tolerating a markdown code fence around the
// string form.
func parseLoose(raw json.RawMessage) (map[string]interface{}, bool) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return parseObject(asString)
	}

	var asObject map[string]interface{}
	if err := json.Unmarshal(raw, &asObject); err == nil {
		return asObject, true
	}

	return nil, false
}

func parseObject(s string) (map[string]interface{}, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(stripFence(s)), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// stripFence removes a leading ```json or ``` fence and a trailing ```
// fence. Either fence may be absent.
func stripFence(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}

	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}

// normalizeFields pulls the field map out of the payload, preferring Fields
// over Entities (first non-empty wins), and flattens nested objects into
// dot-qualified keys. Arrays and primitive leaves are kept as-is.
func normalizeFields(payload map[string]interface{}) map[string]interface{} {
	raw, _ := payload["Fields"].(map[string]interface{})
	if len(raw) == 0 {
		raw, _ = payload["Entities"].(map[string]interface{})
	}

	flat := make(map[string]interface{}, len(raw))
	flattenInto(flat, "", raw)
	return flat
}

func flattenInto(dst map[string]interface{}, prefix string, src map[string]interface{}) {
	for key, value := range src {
		qualified := key
		if prefix != "" {
			qualified = prefix + "." + key
		}

		if child, isObject := value.(map[string]interface{}); isObject {
			flattenInto(dst, qualified, child)
			continue
		}

		dst[qualified] = value
	}
}

// normalizeTables pulls tables out of the payload. A Tables array is used
// directly; otherwise a LineItems array is wrapped into a single synthetic
// "Line Items" table. Neither present means no tables.
func normalizeTables(payload map[string]interface{}) []Table {
	tables := []Table{}

	if rawTables, ok := payload["Tables"].([]interface{}); ok {
		for _, entry := range rawTables {
			table, isObject := entry.(map[string]interface{})
			if !isObject {
				continue
			}

			tables = append(tables, Table{
				Name: stringValue(table["Name"], "Table"),
				Rows: normalizeRows(table["Rows"]),
			})
		}
		return tables
	}

	if lineItems, ok := payload["LineItems"].([]interface{}); ok {
		tables = append(tables, Table{
			Name: "Line Items",
			Rows: normalizeRows(lineItems),
		})
	}

	return tables
}

func normalizeRows(raw interface{}) []map[string]interface{} {
	entries, ok := raw.([]interface{})
	if !ok {
		return []map[string]interface{}{}
	}

	rows := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		if row, isObject := entry.(map[string]interface{}); isObject {
			rows = append(rows, row)
		}
	}
	return rows
}

func stringValue(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
