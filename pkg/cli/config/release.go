package config

import (
	"github.com/ragedunicorn/wago-release/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Release holds the release parameters of one upload
type Release struct {
	ProjectID             string
	Label                 string
	Stability             string
	Changelog             string
	ChangelogFile         string
	SupportedRetailPatch  string
	SupportedBccPatch     string
	SupportedClassicPatch string
	File                  string
}

// Flags returns CLI flags for release configuration. Required parameters are checked by
// model.ReleaseInput.Validate so that every missing one is reported together.
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project-id",
			Usage:       "Wago project ID, shown on the project page (required)",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("WAGO_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "label",
			Usage:       "Label of the uploaded file",
			Value:       "addon",
			Destination: &c.Label,
			Sources:     cli.EnvVars("WAGO_LABEL"),
		},
		&cli.StringFlag{
			Name:        "stability",
			Usage:       "Release stability (stable, beta, alpha)",
			Value:       string(model.StabilityStable),
			Destination: &c.Stability,
			Sources:     cli.EnvVars("WAGO_STABILITY"),
		},
		&cli.StringFlag{
			Name:        "changelog",
			Usage:       "Changelog text",
			Destination: &c.Changelog,
			Sources:     cli.EnvVars("WAGO_CHANGELOG"),
		},
		&cli.StringFlag{
			Name:        "changelog-file",
			Usage:       "Path to a changelog file, overrides --changelog",
			Destination: &c.ChangelogFile,
			Sources:     cli.EnvVars("WAGO_CHANGELOG_FILE"),
		},
		&cli.StringFlag{
			Name:        "supported-retail-patch",
			Usage:       "Supported retail patch version",
			Destination: &c.SupportedRetailPatch,
			Sources:     cli.EnvVars("WAGO_SUPPORTED_RETAIL_PATCH"),
		},
		&cli.StringFlag{
			Name:        "supported-bcc-patch",
			Usage:       "Supported burning crusade classic patch version",
			Destination: &c.SupportedBccPatch,
			Sources:     cli.EnvVars("WAGO_SUPPORTED_BCC_PATCH"),
		},
		&cli.StringFlag{
			Name:        "supported-classic-patch",
			Usage:       "Supported classic patch version",
			Destination: &c.SupportedClassicPatch,
			Sources:     cli.EnvVars("WAGO_SUPPORTED_CLASSIC_PATCH"),
		},
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Path to the addon archive to upload (required)",
			Destination: &c.File,
			Sources:     cli.EnvVars("WAGO_FILE"),
		},
	}
}

// Input converts the configuration into a release input without credentials
func (c *Release) Input() model.ReleaseInput {
	return model.ReleaseInput{
		ProjectID:             c.ProjectID,
		Label:                 c.Label,
		Stability:             model.Stability(c.Stability),
		Changelog:             c.Changelog,
		ChangelogFile:         c.ChangelogFile,
		SupportedRetailPatch:  c.SupportedRetailPatch,
		SupportedBccPatch:     c.SupportedBccPatch,
		SupportedClassicPatch: c.SupportedClassicPatch,
		File:                  c.File,
	}
}
