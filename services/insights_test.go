package services

import (
	"bytes"
	"testing"

	"vehicle-dashboard/models"
)

func sampleListings() []*models.Listing {
	listings := []*models.Listing{
		listing("ford", "f-150", 2015, "good", 10),
		listing("ford", "f-150", 2016, "good", 12),
		listing("ford", "focus", 2012, "fair", 30),
		listing("kia", "soul", 2014, "good", 22),
		listing("bmw", "x5", 2018, "like new", 5),
	}
	listings[0].PriceUSD = 200
	listings[1].PriceUSD = 50
	listings[2].PriceUSD = 120
	listings[3].PriceUSD = 0
	listings[4].PriceUSD = 300
	return listings
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings(), models.DatasetDiagnostics{DuplicateRows: 2})
	if r.TotalListings != 5 {
		t.Errorf("TotalListings: got %d, want 5", r.TotalListings)
	}
	if r.Manufacturers != 3 {
		t.Errorf("Manufacturers: got %d, want 3", r.Manufacturers)
	}
	if r.Diagnostics.DuplicateRows != 2 {
		t.Errorf("DuplicateRows: got %d, want 2", r.Diagnostics.DuplicateRows)
	}
}

func TestInsightPrices(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings(), models.DatasetDiagnostics{})
	wantAvg := 167.50
	if r.AveragePrice != wantAvg {
		t.Errorf("AveragePrice: got %.2f, want %.2f", r.AveragePrice, wantAvg)
	}
	if r.MinPrice != 50 {
		t.Errorf("MinPrice: got %.2f, want 50", r.MinPrice)
	}
	if r.MaxPrice != 300 {
		t.Errorf("MaxPrice: got %.2f, want 300", r.MaxPrice)
	}
}

func TestInsightMostExpensive(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings(), models.DatasetDiagnostics{})
	if r.MostExpensive == nil {
		t.Fatal("MostExpensive should not be nil")
	}
	if r.MostExpensive.Model != "x5" {
		t.Errorf("MostExpensive: got %q, want %q", r.MostExpensive.Model, "x5")
	}
}

func TestInsightTopModels(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings(), models.DatasetDiagnostics{})
	if len(r.TopModels) != 4 {
		t.Fatalf("TopModels len: got %d, want 4", len(r.TopModels))
	}
	if r.TopModels[0].Model != "f-150" || r.TopModels[0].Count != 2 {
		t.Errorf("TopModels[0]: got %+v, want f-150 x2", r.TopModels[0])
	}
}

func TestInsightManufacturerGrouping(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings(), models.DatasetDiagnostics{})
	if r.ListingsByManufacturer["ford"] != 3 {
		t.Errorf("ford count: got %d, want 3", r.ListingsByManufacturer["ford"])
	}
	if r.ListingsByManufacturer["kia"] != 1 {
		t.Errorf("kia count: got %d, want 1", r.ListingsByManufacturer["kia"])
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(nil, models.DatasetDiagnostics{})
	if r.TotalListings != 0 {
		t.Errorf("expected 0 total listings for empty input")
	}
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(sampleListings(), models.DatasetDiagnostics{}))

	out := buf.String()
	for _, want := range []string{"VEHICLE LISTINGS INSIGHTS", "$167.50", "bmw x5", "ford"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("Print output missing %q", want)
		}
	}
}
