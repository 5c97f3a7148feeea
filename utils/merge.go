package utils

import "encoding/json"

// ShallowMerge overlays the patch fields onto entity and returns the merged
// value. The merge is shallow: a key present in the patch replaces the
// stored value wholesale, including nested objects. A patch that carries a
// partial nested object therefore drops the fields it omits; callers that
// want to keep them must send the full nested object.
func ShallowMerge[T any](entity T, patch map[string]any) (T, error) {
	var merged T

	raw, err := json.Marshal(entity)
	if err != nil {
		return merged, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return merged, err
	}

	for key, value := range patch {
		encoded, err := json.Marshal(value)
		if err != nil {
			return merged, err
		}
		fields[key] = encoded
	}

	combined, err := json.Marshal(fields)
	if err != nil {
		return merged, err
	}
	// Decode into a zero value, not into entity: decoding over the existing
	// struct would deep-merge nested objects.
	if err := json.Unmarshal(combined, &merged); err != nil {
		return merged, err
	}
	return merged, nil
}
