package factory

import (
	fab "github.com/Goldziher/fabricator"
)

// NewUsuario builds a domain instance with generated data. Document
// and Zip default to valid digit strings so generated records satisfy
// the column constraints.
func NewUsuario[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	defaults := map[string]any{}

	if !hasKey(customData, "Document") {
		defaults["Document"] = "52998224725"
	}

	if !hasKey(customData, "Zip") {
		defaults["Zip"] = "01001000"
	}

	if len(defaults) > 0 {
		customData = append(customData, defaults)
	}

	return instance.Build(customData...)
}

func hasKey(customData []map[string]any, key string) bool {
	for _, data := range customData {
		if _, exists := data[key]; exists {
			return true
		}
	}
	return false
}
