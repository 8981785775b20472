package table

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Media columns, in published order.
const (
	MediaBuyer = "Media Buyer"
	StartDate  = "Start Date"
	EndDate    = "End Date"
	Revenue    = "Revenue"
	Spend      = "Spend"
)

// Campaign columns, in published order.
const (
	Platform          = "Platform"
	Offer             = "Offer"
	Country           = "Country"
	AdTitle           = "Ad Title"
	RevenuePrediction = "Revenue Prediction"
	Leads             = "Leads"
	RevenuePerLead    = "Revenue Per Lead"
	Keywords          = "Top 10 Keywords"
)

var media = schema{
	columns: []string{MediaBuyer, StartDate, EndDate, Revenue, Spend},
	renames: map[string]string{},
	numeric: map[string]bool{
		Revenue: true,
		Spend:   true,
	},
}

var campaigns = schema{
	columns: []string{Platform, Offer, Country, AdTitle, RevenuePrediction, Leads, RevenuePerLead, Keywords},
	renames: map[string]string{
		"Platform":          Platform,
		"offer":             Offer,
		"country":           Country,
		"adtitle":           AdTitle,
		"Revenue":           RevenuePrediction,
		"Leads":             Leads,
		"Revenue Per Leads": RevenuePerLead,
		"top_10_keywords":   Keywords,
	},
	numeric: map[string]bool{},
}

// NormalizeCampaigns maps campaign records onto the fixed campaign columns. Missing fields
// become null cells and unknown fields are kept after the fixed columns. Nothing is
// validated or coerced.
func NormalizeCampaigns(records []Record) *Table {
	return campaigns.normalize(records)
}

// NormalizeMedia maps media buyer records onto the fixed media columns and coerces Revenue
// and Spend to numbers. Values that are not numeric become nulls.
func NormalizeMedia(records []Record) *Table {
	return media.normalize(records)
}

// Numeric coerces a decoded JSON value to a float64, returning nil (a null cell) for
// anything that is not a finite number or a string holding one. It never fails.
func Numeric(v any) any {
	var f float64

	switch x := v.(type) {
	case float64:
		f = x

	case float32:
		f = float64(x)

	case int:
		f = float64(x)

	case int64:
		f = float64(x)

	case json.Number:
		if g, ok := decimal(string(x)); !ok {
			return nil
		} else {
			f = g
		}

	case string:
		if g, ok := decimal(x); !ok {
			return nil
		} else {
			f = g
		}

	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	return f
}

// decimal parses a decimal number. ParseFloat also accepts hexadecimal floats (0x1p4),
// which are not numbers in the source data.
func decimal(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	digits := strings.TrimLeft(v, "+-")

	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, false
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}
