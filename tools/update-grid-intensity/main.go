// Package main updates the grid carbon intensity of cloud regions in the
// datacenter reference table from the Cloud Carbon Footprint (CCF)
// cloud-carbon-coefficients repository.
//
// Only rows of the chosen provider whose region code (the text before " (")
// appears in the fetched data are changed. The updated table is loaded and
// validated with the engine's reference data loader before it is written.
//
// Usage:
//
//	go run ./tools/update-grid-intensity [--dry-run] [--provider aws]
//
// Flags:
//
//	--data      Path to datacenters.csv (default: ./internal/refdata/data/datacenters.csv)
//	--source    URL of the CCF grid emission factors JSON
//	--provider  Provider key whose rows are updated (default: aws); other
//	            providers require --source
//	--dry-run   Print the updated table without writing it
package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/hcaim/ai-footprint/internal/refdata"
)

const (
	// ccfGridFactorsURL points to the CCF emission factors for AWS regions.
	ccfGridFactorsURL = "https://raw.githubusercontent.com/cloud-carbon-footprint/cloud-carbon-coefficients/main/data/grid-emissions-factors-aws.json"

	// gramsPerMetricTon converts CCF's metric tons CO2e/kWh into g/kWh.
	gramsPerMetricTon = 1e6

	// maxValidIntensity bounds a plausible grid intensity in g CO2e/kWh.
	maxValidIntensity = 2000.0

	colProvider  = 0
	colRegion    = 1
	colIntensity = 4
)

// ccfGridData is one entry of the CCF grid factors JSON.
type ccfGridData struct {
	Region       string  `json:"region"`
	MtCO2ePerKwh float64 `json:"mtCO2ePerKwh"`
}

// change records one updated row.
type change struct {
	Region   string
	Old, New string
}

func main() {
	dataPath := flag.String("data", "./internal/refdata/data/datacenters.csv", "Path to datacenters.csv")
	source := flag.String("source", ccfGridFactorsURL, "URL of the CCF grid emission factors JSON")
	provider := flag.String("provider", string(refdata.ProviderAWS), "Provider key whose rows are updated")
	dryRun := flag.Bool("dry-run", false, "Print the updated table without writing it")
	flag.Parse()

	target, err := resolveProvider(*provider, *source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Fetching Cloud Carbon Footprint grid emission factors...")
	fmt.Printf("Source: %s\n", *source)

	client := &http.Client{Timeout: 30 * time.Second}
	factors, err := fetchIntensities(client, *source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching grid factors: %v\n", err)
		os.Exit(1)
	}

	current, err := os.ReadFile(*dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *dataPath, err)
		os.Exit(1)
	}

	updated, changes, err := updateTable(current, target, factors)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error updating table: %v\n", err)
		os.Exit(1)
	}

	if err := validateTable(updated); err != nil {
		fmt.Fprintf(os.Stderr, "Validation error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Validation passed")

	for _, c := range changes {
		fmt.Printf("  %-30s %8s -> %s g/kWh\n", c.Region, c.Old, c.New)
	}

	if *dryRun {
		fmt.Println("\n--- Dry run output ---")
		fmt.Print(string(updated))
		return
	}

	if err := os.WriteFile(*dataPath, updated, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated %d regions in %s\n", len(changes), *dataPath)
	fmt.Println("Run 'go test ./internal/refdata/...' to verify the changes")
}

// resolveProvider validates the --provider flag. The default source only
// covers AWS regions, so other providers need their own --source.
func resolveProvider(name, source string) (refdata.CloudProvider, error) {
	provider, err := refdata.ParseCloudProvider(name)
	if err != nil {
		return "", err
	}
	if provider != refdata.ProviderAWS && source == ccfGridFactorsURL {
		return "", fmt.Errorf("the default source only lists AWS regions; pass --source for %s", provider.DisplayName())
	}
	return provider, nil
}

// fetchIntensities returns g CO2e/kWh, rounded to 0.1, keyed by region code.
func fetchIntensities(client *http.Client, url string) (map[string]float64, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grid factors: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var data []ccfGridData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	out := make(map[string]float64, len(data))
	var invalid []string
	for _, d := range data {
		g := math.Round(d.MtCO2ePerKwh*gramsPerMetricTon*10) / 10
		if g < 0 || g > maxValidIntensity {
			invalid = append(invalid, fmt.Sprintf("%s: %.1f g/kWh outside [0, %.0f]", d.Region, g, maxValidIntensity))
			continue
		}
		out[strings.TrimSpace(d.Region)] = g
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("validation failed:\n%s", strings.Join(invalid, "\n"))
	}
	return out, nil
}

// regionCode returns "eu-west-1" for "eu-west-1 (Ireland)".
func regionCode(region string) string {
	code, _, _ := strings.Cut(region, " (")
	return strings.TrimSpace(code)
}

// updateTable rewrites the intensity column of provider's rows found in factors.
func updateTable(table []byte, provider refdata.CloudProvider, factors map[string]float64) ([]byte, []change, error) {
	records, err := csv.NewReader(bytes.NewReader(table)).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	var changes []change
	for i, rec := range records {
		if i == 0 || len(rec) <= colIntensity {
			continue
		}
		if refdata.CloudProvider(strings.ToLower(rec[colProvider])) != provider {
			continue
		}
		g, ok := factors[regionCode(rec[colRegion])]
		if !ok {
			continue
		}
		value := strconv.FormatFloat(g, 'f', -1, 64)
		if value == rec[colIntensity] {
			continue
		}
		changes = append(changes, change{Region: rec[colRegion], Old: rec[colIntensity], New: value})
		records[i][colIntensity] = value
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), changes, nil
}

// validateTable loads table as a data-directory override and validates the catalog.
func validateTable(table []byte) error {
	dir, err := os.MkdirTemp("", "grid-intensity")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(dir) }()

	if err := os.WriteFile(filepath.Join(dir, "datacenters.csv"), table, 0o600); err != nil {
		return err
	}
	catalog, err := refdata.LoadDir(dir, zerolog.Nop())
	if err != nil {
		return err
	}
	return catalog.Validate()
}
