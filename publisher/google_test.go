package publisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/mediaops/jsonbin-sheets/metrics"
)

func TestEscape(t *testing.T) {
	tests := map[string]string{
		"Report":         "Report",
		"Buyer's Report": `Buyer\'s Report`,
		`C:\reports`:     `C:\\reports`,
	}

	for v, expected := range tests {
		if got := escape(v); got != expected {
			t.Errorf("Incorrect escaped value\n   expected: %v\n   got:      %v\n", expected, got)
		}
	}
}

func TestGoogleFind(t *testing.T) {
	var query, authorization string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		authorization = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"files": []map[string]any{
				{"id": "ss-001", "name": "Buyer's Report", "parents": []string{"folder-1"}},
			},
		})
	}))

	defer server.Close()

	m := metrics.New()
	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "qwerty", TokenType: "Bearer"})

	google, err := NewGoogle(context.Background(), tokens, "", m, option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)

	files, err := google.Find(context.Background(), "Buyer's Report", "folder-1")
	require.NoError(t, err)

	assert.Equal(t, []File{{ID: "ss-001", Name: "Buyer's Report", Parents: []string{"folder-1"}}}, files)
	assert.Equal(t, `name = 'Buyer\'s Report' and 'folder-1' in parents and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false`, query)
	assert.Equal(t, "Bearer qwerty", authorization)
}

func TestGoogleGetValues(t *testing.T) {
	var path, render string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		render = r.URL.Query().Get("valueRenderOption")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"range":          "'Media'!A1:E3",
			"majorDimension": "ROWS",
			"values": [][]any{
				{"Media Buyer", "Start Date", "End Date", "Revenue", "Spend"},
				{"A", "", "", 100, 40},
			},
		})
	}))

	defer server.Close()

	m := metrics.New()
	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "qwerty", TokenType: "Bearer"})

	google, err := NewGoogle(context.Background(), tokens, "", m, option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)

	values, err := google.GetValues(context.Background(), "ss-001", "'Media'")
	require.NoError(t, err)

	assert.Equal(t, "/v4/spreadsheets/ss-001/values/'Media'", path)
	assert.Equal(t, "UNFORMATTED_VALUE", render)
	assert.Equal(t, [][]any{
		{"Media Buyer", "Start Date", "End Date", "Revenue", "Spend"},
		{"A", "", "", 100.0, 40.0},
	}, values)
}
