package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediaops/jsonbin-sheets/config"
	"github.com/mediaops/jsonbin-sheets/layout"
	"github.com/mediaops/jsonbin-sheets/metrics"
	"github.com/mediaops/jsonbin-sheets/publisher"
	"github.com/mediaops/jsonbin-sheets/replicator"
	"github.com/mediaops/jsonbin-sheets/table"
)

// Source fetches the records of a bin.
type Source interface {
	Fetch(ctx context.Context, bin string) ([]map[string]any, error)
}

// Connector acquires credentials and returns the Drive and Sheets backends.
type Connector func(ctx context.Context) (publisher.Drive, publisher.Sheets, error)

// Pipeline fetches both bins, publishes them with their summary reports to the source
// spreadsheet, replicates the tabs to the target spreadsheet and adds the charts there.
type Pipeline struct {
	Config  *config.Config
	Source  Source
	Connect Connector
	Force   bool
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Out     io.Writer
}

// Result identifies the published spreadsheets and the row counts the reports were laid out for.
type Result struct {
	Source    *publisher.Handle
	Target    *publisher.Handle
	Buyers    int
	Campaigns int
}

type reports struct {
	buyer     layout.Report
	campaign  layout.Report
	origin    layout.Cell
	buyers    int
	campaigns int
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	cfg := p.Config
	run := uuid.New().String()

	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	log = log.With(zap.String("run", run))
	sugar := log.Sugar()

	// ... fetch
	sugar.Infof("[1] fetching data from JSONBin")

	campaignRecords, err := p.Source.Fetch(ctx, cfg.JSONBin.Campaign)
	if err != nil {
		return nil, err
	}

	mediaRecords, err := p.Source.Fetch(ctx, cfg.JSONBin.Media)
	if err != nil {
		return nil, err
	}

	sugar.Debugf("fetched %v campaign records, %v media records", len(campaignRecords), len(mediaRecords))

	// ... normalise
	sugar.Infof("[2] normalising records")

	campaigns := table.NormalizeCampaigns(campaignRecords)
	media := table.NormalizeMedia(mediaRecords)

	r := plan(cfg, media, campaigns)

	sugar.Debugf("%v media buyers, %v campaigns (top %v)", r.buyers, r.campaigns, cfg.TopN)

	// ... source spreadsheet
	sugar.Infof("[3] creating source spreadsheet '%v'", cfg.Sheets.Source)

	drive, sheets, err := p.Connect(ctx)
	if err != nil {
		return nil, err
	}

	pub := publisher.NewPublisher(drive, sheets, cfg.FolderID, log, p.Metrics)
	rep := replicator.NewReplicator(sheets, log)

	source, err := pub.CreateSpreadsheet(ctx, cfg.Sheets.Source, p.Force)
	if err != nil {
		return nil, err
	}

	sugar.Infof("    source: %v", source.URL())

	// ... tabs
	sugar.Infof("[4] setting up tabs")

	if err := pub.ConfigureTabs(ctx, source, cfg.Tabs.Published()); err != nil {
		return nil, err
	}

	// ... raw data
	sugar.Infof("[5] uploading data")

	if err := pub.WriteTable(ctx, source, cfg.Tabs.Media, media); err != nil {
		return nil, err
	}

	if err := pub.WriteTable(ctx, source, cfg.Tabs.Campaign, campaigns); err != nil {
		return nil, err
	}

	// ... reports
	sugar.Infof("[6] adding reports")

	if err := p.writeReports(ctx, pub, source, r, media.Len(), campaigns.Len()); err != nil {
		return nil, err
	}

	// ... target spreadsheet
	sugar.Infof("[7] creating target spreadsheet '%v'", cfg.Sheets.Target)

	target, err := pub.CreateSpreadsheet(ctx, cfg.Sheets.Target, p.Force)
	if err != nil {
		return nil, err
	}

	sugar.Infof("    target: %v", target.URL())

	// ... replicate
	sugar.Infof("[8] copying tabs")

	if err := rep.CopyTabs(ctx, source, cfg.Tabs.Published(), target); err != nil {
		return nil, err
	}

	// ... charts, laid out from the row counts of the copied tabs since charts are not copied
	sugar.Infof("[9] creating charts in target")

	t, err := p.replan(ctx, pub, target)
	if err != nil {
		return nil, err
	}

	sugar.Debugf("target: %v media buyers, %v campaigns", t.buyers, t.campaigns)

	buyer := t.buyer.Plan(t.buyers, t.origin)
	if err := pub.AddChart(ctx, target, cfg.Tabs.BuyerReport, cfg.Tabs.BuyerChart, t.buyer.PlanChart(buyer)); err != nil {
		return nil, err
	}

	campaign := t.campaign.Plan(t.campaigns, t.origin)
	if err := pub.AddChart(ctx, target, cfg.Tabs.CampaignReport, cfg.Tabs.CampaignChart, t.campaign.PlanChart(campaign)); err != nil {
		return nil, err
	}

	sugar.Infof("done")

	if p.Out != nil {
		fmt.Fprintf(p.Out, "Source: %v\n", source.URL())
		fmt.Fprintf(p.Out, "Target: %v\n", target.URL())
	}

	return &Result{
		Source:    source,
		Target:    target,
		Buyers:    r.buyers,
		Campaigns: r.campaigns,
	}, nil
}

// plan derives the report row counts from the normalised tables: one buyer summary row per
// distinct media buyer and one campaign row per distinct (platform, offer, country), capped
// at TOP_N.
func plan(cfg *config.Config, media, campaigns *table.Table) reports {
	groups := campaigns.Distinct(table.Platform, table.Offer, table.Country)

	return reports{
		buyer:     layout.BuyerSummary(),
		campaign:  layout.CampaignPerformance(cfg.TopN),
		origin:    layout.Cell{Row: cfg.Origin},
		buyers:    media.Distinct(table.MediaBuyer),
		campaigns: min(groups, cfg.TopN),
	}
}

// replan reads the copied data tabs back from the target and plans the reports from them.
func (p *Pipeline) replan(ctx context.Context, pub *publisher.Publisher, target *publisher.Handle) (reports, error) {
	media, err := pub.ReadTable(ctx, target, p.Config.Tabs.Media)
	if err != nil {
		return reports{}, err
	}

	campaigns, err := pub.ReadTable(ctx, target, p.Config.Tabs.Campaign)
	if err != nil {
		return reports{}, err
	}

	return plan(p.Config, media, campaigns), nil
}

func (p *Pipeline) writeReports(ctx context.Context, pub *publisher.Publisher, h *publisher.Handle, r reports, mediaRows, campaignRows int) error {
	cfg := p.Config

	// ... media buyer summary
	buyer := r.buyer.Plan(r.buyers, r.origin)
	source := layout.PlanSourceRange(mediaRows, layout.MediaColumns).A1(cfg.Tabs.Media)
	formulas := layout.BuyerSummaryFormulas(buyer, source)

	if err := pub.WriteFormulaBlock(ctx, h, cfg.Tabs.BuyerReport, buyer, r.buyer.Title, formulas); err != nil {
		return err
	}

	if err := pub.ApplyNumberFormats(ctx, h, cfg.Tabs.BuyerReport, buyer.Formats); err != nil {
		return err
	}

	// ... campaign performance
	campaign := r.campaign.Plan(r.campaigns, r.origin)
	source = layout.PlanSourceRange(campaignRows, layout.CampaignColumns).A1(cfg.Tabs.Campaign)
	formulas = layout.CampaignPerformanceFormulas(campaign, source, cfg.TopN)

	if err := pub.WriteFormulaBlock(ctx, h, cfg.Tabs.CampaignReport, campaign, r.campaign.Title, formulas); err != nil {
		return err
	}

	if err := pub.ApplyNumberFormats(ctx, h, cfg.Tabs.CampaignReport, campaign.Formats); err != nil {
		return err
	}

	return nil
}
