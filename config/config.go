// Package config loads the run configuration from an optional .env file and the
// environment into an explicit Config struct.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingSetting = errors.New("missing required setting")

type Config struct {
	FolderID        string
	ProjectID       string
	JSONBin         JSONBin
	Sheets          Sheets
	Tabs            Tabs
	TopN            int
	Origin          int
	TokenCommand    string
	Log             Log
	MetricsTextfile string
}

type JSONBin struct {
	URL      string
	Key      string
	Campaign string
	Media    string
	Timeout  time.Duration
}

type Sheets struct {
	Source string
	Target string
}

type Tabs struct {
	Media          string
	Campaign       string
	BuyerReport    string
	CampaignReport string
	BuyerChart     string
	CampaignChart  string
}

type Log struct {
	Level    string
	Encoding string
}

const DefaultEnvFile = ".env"

var required = []string{
	"FOLDER_ID",
	"JSONBIN_KEY",
	"BIN_CAMPAIGN",
	"BIN_MEDIA",
	"SOURCE_SHEET_NAME",
	"TARGET_SHEET_NAME",
	"TAB_MEDIA",
	"TAB_CAMPAIGN",
}

var defaults = map[string]any{
	"TAB_REPORT_BUYER": "Report_MediaBuyerSummary",
	"TAB_REPORT_CAMP":  "Report_CampaignPerformance",
	"TAB_CHART_BUYER":  "Chart_Buyer",
	"TAB_CHART_CAMP":   "Chart_Campaign",
	"TOP_N":            25,
	"REPORT_ORIGIN":    1,
	"JSONBIN_URL":      "https://api.jsonbin.io/v3",
	"JSONBIN_TIMEOUT":  "30s",
	"TOKEN_COMMAND":    "gcloud auth print-access-token",
	"LOG_LEVEL":        "info",
	"LOG_ENCODING":     "console",
}

// Load reads file (DefaultEnvFile if empty) into the environment without overriding
// variables that are already set, then resolves the configuration from the environment.
// A missing default .env file is not an error.
func Load(file string) (*Config, error) {
	if file == "" {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %v (%w)", DefaultEnvFile, err)
		}
	} else if err := godotenv.Load(file); err != nil {
		return nil, fmt.Errorf("error loading %v (%w)", file, err)
	}

	v := viper.New()
	v.AutomaticEnv()

	for k, value := range defaults {
		v.SetDefault(k, value)
	}

	return resolve(v)
}

func resolve(v *viper.Viper) (*Config, error) {
	missing := []string{}
	for _, k := range required {
		if strings.TrimSpace(v.GetString(k)) == "" {
			missing = append(missing, k)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingSetting, strings.Join(missing, ", "))
	}

	get := func(k string) string {
		return strings.TrimSpace(v.GetString(k))
	}

	c := Config{
		FolderID:  get("FOLDER_ID"),
		ProjectID: get("PROJECT_ID"),
		JSONBin: JSONBin{
			URL:      strings.TrimRight(get("JSONBIN_URL"), "/"),
			Key:      get("JSONBIN_KEY"),
			Campaign: get("BIN_CAMPAIGN"),
			Media:    get("BIN_MEDIA"),
			Timeout:  v.GetDuration("JSONBIN_TIMEOUT"),
		},
		Sheets: Sheets{
			Source: get("SOURCE_SHEET_NAME"),
			Target: get("TARGET_SHEET_NAME"),
		},
		Tabs: Tabs{
			Media:          get("TAB_MEDIA"),
			Campaign:       get("TAB_CAMPAIGN"),
			BuyerReport:    get("TAB_REPORT_BUYER"),
			CampaignReport: get("TAB_REPORT_CAMP"),
			BuyerChart:     get("TAB_CHART_BUYER"),
			CampaignChart:  get("TAB_CHART_CAMP"),
		},
		TopN:         v.GetInt("TOP_N"),
		Origin:       v.GetInt("REPORT_ORIGIN"),
		TokenCommand: get("TOKEN_COMMAND"),
		Log: Log{
			Level:    get("LOG_LEVEL"),
			Encoding: get("LOG_ENCODING"),
		},
		MetricsTextfile: get("METRICS_TEXTFILE"),
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c Config) validate() error {
	if c.TopN < 1 {
		return fmt.Errorf("invalid TOP_N - expected a positive integer")
	}

	if c.Origin < 0 {
		return fmt.Errorf("invalid REPORT_ORIGIN - expected a row index >= 0")
	}

	if c.JSONBin.Timeout <= 0 {
		return fmt.Errorf("invalid JSONBIN_TIMEOUT - expected a positive duration")
	}

	if c.TokenCommand == "" {
		return fmt.Errorf("invalid TOKEN_COMMAND - expected a command")
	}

	tabs := map[string]string{}
	for _, t := range []struct{ key, name string }{
		{"TAB_MEDIA", c.Tabs.Media},
		{"TAB_CAMPAIGN", c.Tabs.Campaign},
		{"TAB_REPORT_BUYER", c.Tabs.BuyerReport},
		{"TAB_REPORT_CAMP", c.Tabs.CampaignReport},
		{"TAB_CHART_BUYER", c.Tabs.BuyerChart},
		{"TAB_CHART_CAMP", c.Tabs.CampaignChart},
	} {
		if other, ok := tabs[t.name]; ok {
			return fmt.Errorf("%v and %v are both '%v' - tab names must be unique", other, t.key, t.name)
		}

		tabs[t.name] = t.key
	}

	return nil
}

// Published returns the tabs written to the source spreadsheet and copied to the target, in order.
func (t Tabs) Published() []string {
	return []string{t.Media, t.Campaign, t.BuyerReport, t.CampaignReport}
}
