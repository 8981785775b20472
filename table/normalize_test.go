package table

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestNormalizeMedia(t *testing.T) {
	expected := Table{
		Header: []string{"Media Buyer", "Start Date", "End Date", "Revenue", "Spend"},
		Rows: [][]any{
			{"A", nil, nil, 100.0, 40.0},
			{"B", nil, nil, nil, 20.0},
		},
	}

	records := []Record{
		{"Media Buyer": "A", "Revenue": "100", "Spend": "40"},
		{"Media Buyer": "B", "Revenue": "bad", "Spend": "20"},
	}

	table := NormalizeMedia(records)
	if table == nil {
		t.Fatalf("NormalizeMedia returned %v", table)
	}

	if !reflect.DeepEqual(*table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v\n", expected, *table)
	}
}

func TestNormalizeMediaWithSourceSpellings(t *testing.T) {
	expected := Table{
		Header: []string{"Media Buyer", "Start Date", "End Date", "Revenue", "Spend"},
		Rows: [][]any{
			{"Jane", "2024-01-01", "2024-01-31", 1250.5, 300.0},
		},
	}

	records := []Record{
		{"media_buyer": "Jane", "start_date": "2024-01-01", "END DATE": "2024-01-31", "revenue": 1250.5, "spend": " 300 "},
	}

	table := NormalizeMedia(records)

	if !reflect.DeepEqual(*table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v\n", expected, *table)
	}
}

func TestNormalizeCampaigns(t *testing.T) {
	expected := Table{
		Header: []string{"Platform", "Offer", "Country", "Ad Title", "Revenue Prediction", "Leads", "Revenue Per Lead", "Top 10 Keywords"},
		Rows: [][]any{
			{"Facebook", "Solar", "US", "Go green", 1200.0, 40.0, 30.0, "solar, panels"},
			{"Taboola", "Loans", "UK", nil, "n/a", 10.0, nil, nil},
		},
	}

	records := []Record{
		{"Platform": "Facebook", "offer": "Solar", "country": "US", "adtitle": "Go green", "Revenue": 1200.0, "Leads": 40.0, "Revenue Per Leads": 30.0, "top_10_keywords": "solar, panels"},
		{"Platform": "Taboola", "offer": "Loans", "country": "UK", "Revenue": "n/a", "Leads": 10.0},
	}

	table := NormalizeCampaigns(records)

	if !reflect.DeepEqual(*table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v\n", expected, *table)
	}
}

func TestNormalizeCampaignsKeepsUnknownFields(t *testing.T) {
	expected := Table{
		Header: []string{"Platform", "Offer", "Country", "Ad Title", "Revenue Prediction", "Leads", "Revenue Per Lead", "Top 10 Keywords", "cpc", "status"},
		Rows: [][]any{
			{"Facebook", nil, nil, nil, nil, nil, nil, nil, 0.25, nil},
			{"Outbrain", nil, nil, nil, nil, nil, nil, nil, nil, "paused"},
		},
	}

	records := []Record{
		{"Platform": "Facebook", "cpc": 0.25},
		{"Platform": "Outbrain", "status": "paused"},
	}

	table := NormalizeCampaigns(records)

	if !reflect.DeepEqual(*table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v\n", expected, *table)
	}
}

func TestNormalizeCampaignsPrefersCanonicalSpelling(t *testing.T) {
	records := []Record{
		{"Revenue": 10.0, "Revenue Prediction": 99.0},
	}

	table := NormalizeCampaigns(records)
	ix, _ := table.Index(RevenuePrediction)

	if v := table.Rows[0][ix]; v != 99.0 {
		t.Errorf("Incorrect revenue prediction - expected:%v, got:%v", 99.0, v)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	campaigns := NormalizeCampaigns([]Record{
		{"Platform": "Facebook", "offer": "Solar", "country": "US", "Revenue": 1200.0, "Leads": "40", "extra": true},
		{"Platform": "Taboola"},
	})

	media := NormalizeMedia([]Record{
		{"Media Buyer": "A", "Revenue": "100", "Spend": "40"},
		{"Media Buyer": "B", "Revenue": "bad", "Spend": "20", "Start Date": "2024-02-01"},
	})

	if again := NormalizeCampaigns(campaigns.Records()); !reflect.DeepEqual(again, campaigns) {
		t.Errorf("Campaign normalisation is not idempotent\n   expected: %v\n   got:      %v\n", campaigns, again)
	}

	if again := NormalizeMedia(media.Records()); !reflect.DeepEqual(again, media) {
		t.Errorf("Media normalisation is not idempotent\n   expected: %v\n   got:      %v\n", media, again)
	}
}

func TestNormalizeWithNoRecords(t *testing.T) {
	table := NormalizeMedia(nil)

	if table.Len() != 0 {
		t.Errorf("Expected empty table, got %v rows", table.Len())
	}

	if len(table.Header) != 5 {
		t.Errorf("Expected fixed header for empty table, got %v", table.Header)
	}
}

func TestNumeric(t *testing.T) {
	tests := []struct {
		value    any
		expected any
	}{
		{"12.5", 12.5},
		{" 40 ", 40.0},
		{"-3e2", -300.0},
		{12.5, 12.5},
		{float32(2.5), 2.5},
		{7, 7.0},
		{int64(8), 8.0},
		{json.Number("9.75"), 9.75},
		{"abc", nil},
		{"", nil},
		{"1,000", nil},
		{"0x1p4", nil},
		{"-0X10", nil},
		{" +0x1.8p1 ", nil},
		{json.Number("0x1p4"), nil},
		{"0.5e1", 5.0},
		{"NaN", nil},
		{"Inf", nil},
		{math.NaN(), nil},
		{math.Inf(-1), nil},
		{true, nil},
		{nil, nil},
		{map[string]any{"x": 1.0}, nil},
	}

	for _, test := range tests {
		if v := Numeric(test.value); v != test.expected {
			t.Errorf("Incorrect numeric coercion of %#v - expected:%v, got:%v", test.value, test.expected, v)
		}
	}
}
