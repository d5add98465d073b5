package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcaim/ai-footprint/internal/refdata"
)

const sampleTable = `provider,region,country,pue,carbon_intensity_g_per_kwh
aws,eu-west-1 (Ireland),Ireland,1.135,296
aws,eu-north-1 (Stockholm),Sweden,1.135,8
aws,us-east-1 (N. Virginia),United States,1.135,379
gcp,eu-west-1 (Ireland),Ireland,1.09,296
`

func TestFetchIntensities(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    map[string]float64
		wantErr string
	}{
		{
			name:   "converts metric tons to grams",
			status: http.StatusOK,
			body:   `[{"region":"eu-west-1","mtCO2ePerKwh":0.0002786},{"region":"eu-north-1","mtCO2ePerKwh":0.0000088}]`,
			want:   map[string]float64{"eu-west-1": 278.6, "eu-north-1": 8.8},
		},
		{name: "bad status", status: http.StatusNotFound, body: "", wantErr: "unexpected status: 404"},
		{name: "bad JSON", status: http.StatusOK, body: `{`, wantErr: "failed to decode JSON"},
		{
			name:    "out of range",
			status:  http.StatusOK,
			body:    `[{"region":"xx-1","mtCO2ePerKwh":0.5}]`,
			wantErr: "xx-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			got, err := fetchIntensities(server.Client(), server.URL)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for k, v := range tt.want {
				assert.InDelta(t, v, got[k], 1e-9)
			}
		})
	}
}

func TestUpdateTable(t *testing.T) {
	factors := map[string]float64{"eu-west-1": 278.6, "eu-north-1": 8}

	updated, changes, err := updateTable([]byte(sampleTable), refdata.ProviderAWS, factors)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, change{Region: "eu-west-1 (Ireland)", Old: "296", New: "278.6"}, changes[0])

	out := string(updated)
	assert.Contains(t, out, "aws,eu-west-1 (Ireland),Ireland,1.135,278.6\n")
	assert.Contains(t, out, "aws,us-east-1 (N. Virginia),United States,1.135,379\n")
	assert.Contains(t, out, "gcp,eu-west-1 (Ireland),Ireland,1.09,296\n")
	assert.True(t, strings.HasPrefix(out, "provider,region,country,pue,carbon_intensity_g_per_kwh\n"))

}

func TestUpdateTable_EmbeddedData(t *testing.T) {
	table, err := os.ReadFile("../../internal/refdata/data/datacenters.csv")
	require.NoError(t, err)

	updated, changes, err := updateTable(table, refdata.ProviderAWS, map[string]float64{"eu-north-1": 9.5})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "9.5", changes[0].New)

	require.NoError(t, validateTable(updated))
}

func TestRegionCode(t *testing.T) {
	assert.Equal(t, "eu-west-1", regionCode("eu-west-1 (Ireland)"))
	assert.Equal(t, "Amsterdam", regionCode("Amsterdam"))
}

func TestValidateTable_MissingProviders(t *testing.T) {
	err := validateTable([]byte(sampleTable))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no regions for provider")
}

func TestResolveProvider(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		source  string
		want    refdata.CloudProvider
		wantErr string
	}{
		{name: "default", flag: "aws", source: ccfGridFactorsURL, want: refdata.ProviderAWS},
		{name: "case insensitive", flag: "AWS", source: ccfGridFactorsURL, want: refdata.ProviderAWS},
		{name: "other provider with own source", flag: "gcp", source: "https://example.org/gcp.json", want: refdata.ProviderGCP},
		{name: "other provider on default source", flag: "gcp", source: ccfGridFactorsURL, wantErr: "pass --source"},
		{name: "unknown provider", flag: "digitalocean", source: ccfGridFactorsURL, wantErr: "digitalocean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveProvider(tt.flag, tt.source)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
