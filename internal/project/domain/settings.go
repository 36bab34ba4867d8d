package domain

import "fmt"

// AI-preference sub-schema accepted inside project_details. Values outside
// these sets are rejected before anything is persisted.
var aiPreferenceValues = map[string][]string{
	"tone":           {"professional", "friendly", "casual", "formal", "neutral"},
	"style":          {"concise", "detailed", "technical", "creative"},
	"formality":      {"formal", "neutral", "informal"},
	"person":         {"first", "second", "third"},
	"language_style": {"simple", "business", "technical"},
}

var aiOverrideFields = map[string]bool{
	"task_name":        true,
	"task_description": true,
}

// ValidateProjectDetails checks the project_details settings sub-object,
// including the nested ai_preferences schema.
func ValidateProjectDetails(details map[string]any) error {
	raw, ok := details["ai_preferences"]
	if !ok {
		return nil
	}

	prefs, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: ai_preferences must be an object", ErrInvalidSettings)
	}
	return validateAIPreferences(prefs, true)
}

func validateAIPreferences(prefs map[string]any, allowOverrides bool) error {
	for key, value := range prefs {
		if key == "overrides" {
			if !allowOverrides {
				return fmt.Errorf("%w: nested overrides are not allowed", ErrInvalidSettings)
			}
			overrides, ok := value.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: overrides must be an object", ErrInvalidSettings)
			}
			for field, fieldPrefs := range overrides {
				if !aiOverrideFields[field] {
					return fmt.Errorf("%w: unknown override field %q", ErrInvalidSettings, field)
				}
				nested, ok := fieldPrefs.(map[string]any)
				if !ok {
					return fmt.Errorf("%w: override %q must be an object", ErrInvalidSettings, field)
				}
				if err := validateAIPreferences(nested, false); err != nil {
					return err
				}
			}
			continue
		}

		allowed, ok := aiPreferenceValues[key]
		if !ok {
			return fmt.Errorf("%w: unknown ai preference %q", ErrInvalidSettings, key)
		}
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: ai preference %q must be a string", ErrInvalidSettings, key)
		}
		if !contains(allowed, str) {
			return fmt.Errorf("%w: invalid value %q for ai preference %q", ErrInvalidSettings, str, key)
		}
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
