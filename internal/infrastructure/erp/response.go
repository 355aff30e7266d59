package erp

import (
	"encoding/json"
	"strconv"
)

// ParseBody interprets an ERP response body as JSON. Non-JSON bodies are
// wrapped as {"raw": <text>} so the audit log always stores a JSON document.
func ParseBody(body []byte) map[string]any {
	if len(body) == 0 {
		return map[string]any{}
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err == nil {
		return parsed
	}
	return map[string]any{"raw": string(body)}
}

// ExtractReferences pulls the ERP-assigned document id and number out of the
// common response shapes: id, documentId, data.id, documentNumber, number,
// data.documentNumber. Extraction is best-effort; absent fields yield empty
// strings.
func ExtractReferences(parsed map[string]any) (referenceID, referenceNumber string) {
	data, _ := parsed["data"].(map[string]any)

	referenceID = firstString(
		parsed["id"],
		parsed["documentId"],
		fieldOf(data, "id"),
	)
	referenceNumber = firstString(
		parsed["documentNumber"],
		parsed["number"],
		fieldOf(data, "documentNumber"),
	)
	return referenceID, referenceNumber
}

func fieldOf(obj map[string]any, key string) any {
	if obj == nil {
		return nil
	}
	return obj[key]
}

// firstString returns the first candidate representable as a string.
// JSON numbers are formatted without a fractional part when integral.
func firstString(candidates ...any) string {
	for _, c := range candidates {
		switch v := c.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			if v == float64(int64(v)) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}
	return ""
}
