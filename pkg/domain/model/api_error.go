package model

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// APIErrors is the per-field error envelope returned by the Wago API when an upload is rejected
type APIErrors struct {
	Message               string
	Metadata              []string
	File                  []string
	Stability             []string
	SupportedRetailPatch  []string
	SupportedBccPatch     []string
	SupportedClassicPatch []string

	// Other keeps fields the service reported that are not listed above
	Other map[string][]string
}

// apiErrorFields maps every accepted wire key to its slot. The service spells the bcc field
// "supported_bc_patch"; the remaining aliases cover camelCase responses.
var apiErrorFields = map[string]func(e *APIErrors) *[]string{
	"metadata":                func(e *APIErrors) *[]string { return &e.Metadata },
	"file":                    func(e *APIErrors) *[]string { return &e.File },
	"stability":               func(e *APIErrors) *[]string { return &e.Stability },
	"supported_retail_patch":  func(e *APIErrors) *[]string { return &e.SupportedRetailPatch },
	"supportedRetailPatch":    func(e *APIErrors) *[]string { return &e.SupportedRetailPatch },
	"supported_bc_patch":      func(e *APIErrors) *[]string { return &e.SupportedBccPatch },
	"supported_bcc_patch":     func(e *APIErrors) *[]string { return &e.SupportedBccPatch },
	"supportedBccPatch":       func(e *APIErrors) *[]string { return &e.SupportedBccPatch },
	"supported_classic_patch": func(e *APIErrors) *[]string { return &e.SupportedClassicPatch },
	"supportedClassicPatch":   func(e *APIErrors) *[]string { return &e.SupportedClassicPatch },
}

// UnmarshalJSON accepts both a bare envelope ({"stability": [...]}) and one nested under
// "errors" ({"message": "...", "errors": {...}}). A field holding a single string is treated as
// a one element list.
func (e *APIErrors) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return goerr.Wrap(err, "failed to decode error envelope")
	}

	if msg, ok := raw["message"]; ok {
		var s string
		if err := json.Unmarshal(msg, &s); err == nil {
			e.Message = s
		}
		delete(raw, "message")
	}

	if nested, ok := raw["errors"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(nested, &inner); err == nil {
			delete(raw, "errors")
			for k, v := range inner {
				raw[k] = v
			}
		}
	}

	for key, value := range raw {
		messages, err := decodeMessages(value)
		if err != nil {
			return goerr.Wrap(err, "failed to decode error field", goerr.V("field", key))
		}

		if slot, ok := apiErrorFields[key]; ok {
			dst := slot(e)
			*dst = append(*dst, messages...)
			continue
		}

		if e.Other == nil {
			e.Other = make(map[string][]string)
		}
		e.Other[key] = append(e.Other[key], messages...)
	}

	return nil
}

func decodeMessages(value json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(value, &list); err == nil {
		return list, nil
	}

	var single string
	if err := json.Unmarshal(value, &single); err != nil {
		return nil, err
	}
	return []string{single}, nil
}

// Empty reports whether the envelope carries no message at all
func (e *APIErrors) Empty() bool {
	if e.Message != "" || len(e.Other) > 0 {
		return false
	}
	for _, field := range e.fields() {
		if len(field.messages) > 0 {
			return false
		}
	}
	return true
}

type apiErrorField struct {
	name     string
	messages []string
}

func (e *APIErrors) fields() []apiErrorField {
	return []apiErrorField{
		{"metadata", e.Metadata},
		{"file", e.File},
		{"stability", e.Stability},
		{"supportedRetailPatch", e.SupportedRetailPatch},
		{"supportedBccPatch", e.SupportedBccPatch},
		{"supportedClassicPatch", e.SupportedClassicPatch},
	}
}

// String formats the envelope deterministically: message first, known fields in fixed order,
// then unknown fields sorted by name.
func (e *APIErrors) String() string {
	var parts []string
	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	for _, field := range e.fields() {
		if len(field.messages) > 0 {
			parts = append(parts, field.name+": "+strings.Join(field.messages, ", "))
		}
	}

	keys := make([]string, 0, len(e.Other))
	for k := range e.Other {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len(e.Other[k]) > 0 {
			parts = append(parts, k+": "+strings.Join(e.Other[k], ", "))
		}
	}

	if len(parts) == 0 {
		return "no error details"
	}
	return strings.Join(parts, "; ")
}
