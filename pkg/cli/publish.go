package cli

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ragedunicorn/wago-release/pkg/cli/config"
	"github.com/ragedunicorn/wago-release/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdPublish() *cli.Command {
	var (
		releaseCfg    config.Release
		credentialCfg config.Credential
		wagoCfg       config.Wago
		slackCfg      config.Slack
	)

	var flags []cli.Flag
	flags = append(flags, releaseCfg.Flags()...)
	flags = append(flags, credentialCfg.Flags()...)
	flags = append(flags, wagoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"p"},
		Usage:   "Upload an addon archive as a new release",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			lookup, err := credentialCfg.Lookup()
			if err != nil {
				return goerr.Wrap(err, "failed to load credential store")
			}

			opts := []usecase.Option{
				usecase.WithServerLookup(lookup),
			}

			notifier, err := slackCfg.Notifier()
			if err != nil {
				return err
			}
			if notifier != nil {
				opts = append(opts, usecase.WithNotifier(notifier))
			}

			input := releaseCfg.Input()
			input.AuthToken = credentialCfg.Token()
			input.Server = credentialCfg.Server

			logger.Debug("Starting release", "project_id", input.ProjectID, "file", input.File)

			if err := usecase.NewRelease(wagoCfg.Factory(), opts...).Publish(ctx, input); err != nil {
				return err
			}

			w := c.Root().Writer
			if w == nil {
				w = os.Stdout
			}
			_, _ = color.New(color.FgGreen, color.Bold).Fprintf(w,
				"Published %s (%s) to Wago project %s\n", input.Label, input.Stability, input.ProjectID)
			return nil
		},
	}
}
