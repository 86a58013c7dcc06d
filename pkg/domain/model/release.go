package model

import (
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
)

// Token is an opaque Wago API token. Values of this type are redacted in logs.
type Token string

// Stability is the release channel of an upload
type Stability string

const (
	StabilityStable Stability = "stable"
	StabilityBeta   Stability = "beta"
	StabilityAlpha  Stability = "alpha"
)

// IsKnown reports whether s is one of the channels the service documents. The service is the
// authority; unknown values are still sent.
func (s Stability) IsKnown() bool {
	switch s {
	case StabilityStable, StabilityBeta, StabilityAlpha:
		return true
	default:
		return false
	}
}

// Server is an entry of the credential store
type Server struct {
	ID    string `toml:"id"`
	Token Token  `toml:"token"`
}

// ReleaseInput holds the resolved configuration of one publish invocation
type ReleaseInput struct {
	ProjectID             string
	Label                 string
	Stability             Stability
	Changelog             string
	ChangelogFile         string
	SupportedRetailPatch  string
	SupportedBccPatch     string
	SupportedClassicPatch string
	File                  string
	AuthToken             Token
	Server                string
}

// HasSupportedPatch reports whether at least one supported patch version is set
func (x *ReleaseInput) HasSupportedPatch() bool {
	return x.SupportedRetailPatch != "" || x.SupportedBccPatch != "" || x.SupportedClassicPatch != ""
}

// Validate checks the required parameters before anything is sent. Violations are collected in
// the order projectId, supportedPatch, label, stability, file.
func (x *ReleaseInput) Validate() error {
	var result *goerr.Errors

	if x.ProjectID == "" {
		result = goerr.Append(result, NewValidationError("projectId", "missing required parameter projectId"))
	}
	if !x.HasSupportedPatch() {
		result = goerr.Append(result, NewValidationError("supportedPatch",
			"one of supportedRetailPatch, supportedBccPatch or supportedClassicPatch has to be set"))
	}
	if x.Label == "" {
		result = goerr.Append(result, NewValidationError("label", "missing required parameter label"))
	}
	if x.Stability == "" {
		result = goerr.Append(result, NewValidationError("stability", "missing required parameter stability"))
	}
	if msg := checkArtifact(x.File); msg != "" {
		result = goerr.Append(result, NewValidationError("file", msg))
	}

	if err := result.ErrorOrNil(); err != nil {
		return goerr.Wrap(err, "invalid release parameters",
			goerr.T(ErrTagValidation),
			goerr.V("fields", ValidationFields(err)),
		)
	}
	return nil
}

func checkArtifact(path string) string {
	if path == "" {
		return "missing required parameter file"
	}

	info, err := os.Stat(path)
	if err != nil {
		return "artifact is not accessible: " + err.Error()
	}
	if !info.Mode().IsRegular() {
		return "artifact is not a regular file: " + path
	}

	f, err := os.Open(path)
	if err != nil {
		return "artifact is not readable: " + err.Error()
	}
	_ = f.Close()

	return ""
}

// ReleaseMetadata is the metadata part of an upload. It is built once per invocation and not
// modified afterwards.
type ReleaseMetadata struct {
	Label                 string
	Stability             Stability
	Changelog             string
	SupportedRetailPatch  string
	SupportedBccPatch     string
	SupportedClassicPatch string
}

// HasSupportedPatch reports whether at least one supported patch version is set
func (m ReleaseMetadata) HasSupportedPatch() bool {
	return m.SupportedRetailPatch != "" || m.SupportedBccPatch != "" || m.SupportedClassicPatch != ""
}

// metadataWireFields is the allow-list of fields sent to the service with their wire names.
// omitEmpty fields are left out when unset.
var metadataWireFields = []struct {
	name      string
	omitEmpty bool
	value     func(m ReleaseMetadata) string
}{
	{"label", false, func(m ReleaseMetadata) string { return m.Label }},
	{"stability", false, func(m ReleaseMetadata) string { return string(m.Stability) }},
	{"changelog", false, func(m ReleaseMetadata) string { return m.Changelog }},
	{"supported_retail_patch", true, func(m ReleaseMetadata) string { return m.SupportedRetailPatch }},
	{"supported_bc_patch", true, func(m ReleaseMetadata) string { return m.SupportedBccPatch }},
	{"supported_classic_patch", true, func(m ReleaseMetadata) string { return m.SupportedClassicPatch }},
}

// MarshalJSON encodes only the fields listed in metadataWireFields
func (m ReleaseMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(metadataWireFields))
	for _, f := range metadataWireFields {
		v := f.value(m)
		if f.omitEmpty && v == "" {
			continue
		}
		out[f.name] = v
	}
	return json.Marshal(out)
}
