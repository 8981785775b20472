package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mediaops/jsonbin-sheets/config"
	"github.com/mediaops/jsonbin-sheets/jsonbin"
	"github.com/mediaops/jsonbin-sheets/logging"
	"github.com/mediaops/jsonbin-sheets/metrics"
	"github.com/mediaops/jsonbin-sheets/publisher"
)

var PublishCmd = Publish{
	force: false,
	out:   os.Stdout,
}

type Publish struct {
	force bool
	out   io.Writer
}

func (cmd *Publish) Name() string {
	return "publish"
}

func (cmd *Publish) Description() string {
	return "Publishes the JSONBin media and campaign data and reports to Google Sheets"
}

func (cmd *Publish) Usage() string {
	return "[--force]"
}

func (cmd *Publish) Help() string {
	return fmt.Sprintf(`Fetches the media buyer and campaign bins from JSONBin, publishes them with the media buyer
and campaign performance reports to the source spreadsheet, copies the tabs to the target
spreadsheet and adds the report charts to the target.

Settings are read from the environment and an optional .env file (FOLDER_ID, JSONBIN_KEY,
BIN_CAMPAIGN, BIN_MEDIA, SOURCE_SHEET_NAME, TARGET_SHEET_NAME, TAB_MEDIA, TAB_CAMPAIGN are required).

Without --force an existing spreadsheet with the same name in the folder is reused.

%s
Examples:
  %s
  %s --force
  %s --debug --env-file /etc/jsonbin-sheets/production.env --force`, helpOptions(cmd.FlagSet()), APP, APP, APP)
}

func (cmd *Publish) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("publish", flag.ContinueOnError)

	flagset.BoolVar(&cmd.force, "force", cmd.force, "Deletes and recreates existing spreadsheets with the same names")

	return flagset
}

func (cmd *Publish) Execute(ctx context.Context, options *Options) error {
	cfg, err := config.Load(options.EnvFile)
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Encoding: cfg.Log.Encoding,
		Debug:    options.Debug,
	})
	if err != nil {
		return err
	}

	defer log.Sync()

	m := metrics.New()

	pipeline := Pipeline{
		Config:  cfg,
		Source:  jsonbin.NewClient(cfg.JSONBin.URL, cfg.JSONBin.Key, cfg.JSONBin.Timeout, m),
		Connect: connect(cfg, m),
		Force:   cmd.force,
		Log:     log,
		Metrics: m,
		Out:     cmd.out,
	}

	start := time.Now()
	_, err = pipeline.Run(ctx)

	m.Finish(start, err)

	if cfg.MetricsTextfile != "" {
		if werr := m.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			log.Warn("error writing metrics", zap.String("file", cfg.MetricsTextfile), zap.Error(werr))
		}
	}

	if err != nil {
		log.Error("publish failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return err
	}

	log.Info("published", zap.Duration("elapsed", time.Since(start)))

	return nil
}

func connect(cfg *config.Config, m *metrics.Metrics) Connector {
	return func(ctx context.Context) (publisher.Drive, publisher.Sheets, error) {
		tokens, err := token(ctx, cfg.TokenCommand)
		if err != nil {
			return nil, nil, err
		}

		google, err := publisher.NewGoogle(ctx, tokens, cfg.ProjectID, m)
		if err != nil {
			return nil, nil, err
		}

		return google, google, nil
	}
}
