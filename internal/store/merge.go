package store

import (
	"encoding/json"

	"github.com/detalhesstore/detalhes-backend/pkg/types"
)

// MergeSettingsWithDefaults combines a persisted settings blob with the
// hardcoded defaults, key by key and per sub-object. A stale blob predating a
// newer sub-object (instagramSection was added late) must hydrate with that
// sub-object fully defaulted rather than zeroed, and a blob that fails to
// parse is discarded in favor of the defaults.
//
// Unmarshaling over a pre-populated struct gives exactly the required
// semantics: keys present in the blob override, keys absent (or null) keep the
// default, and nested objects merge field by field.
func MergeSettingsWithDefaults(raw json.RawMessage) types.StoreSettings {
	merged := DefaultSettings()
	if len(raw) == 0 {
		return merged
	}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return DefaultSettings()
	}
	return merged
}
