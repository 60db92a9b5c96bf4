package extract

import (
	"context"
	"testing"
	"time"

	"github.com/ykaplan/cotenant/internal/split"
)

func TestSimulatedExtractBill(t *testing.T) {
	s := NewSimulated()
	ctx := context.Background()

	elec, current, err := s.ExtractBill(ctx, split.KindElectricity, []byte("bill"))
	if err != nil {
		t.Fatalf("ExtractBill() unexpected error: %v", err)
	}
	want := BillData{FixedCost: 64.75, TotalUsageCost: 1114.84, UnitPrice: 0.5425, VAT: 212.33}
	if elec != want {
		t.Errorf("ExtractBill(electricity) = %+v, want %+v", elec, want)
	}
	if current != 9731.1 {
		t.Errorf("ExtractBill(electricity) reading = %v, want 9731.1", current)
	}

	water, current, err := s.ExtractBill(ctx, split.KindWater, []byte("bill"))
	if err != nil {
		t.Fatalf("ExtractBill() unexpected error: %v", err)
	}
	if water.FixedCost != 0 || water.UnitPrice != 9.30 || current != 1.0 {
		t.Errorf("ExtractBill(water) = %+v reading %v", water, current)
	}
}

func TestSimulatedReadMeter(t *testing.T) {
	s := NewSimulated()
	ctx := context.Background()

	kwh, err := s.ReadMeter(ctx, []byte("photo"), "kWh")
	if err != nil || kwh != 8950.5 {
		t.Errorf("ReadMeter(kWh) = %v, %v; want 8950.5", kwh, err)
	}
	m3, err := s.ReadMeter(ctx, []byte("photo"), "m³")
	if err != nil || m3 != 415.0 {
		t.Errorf("ReadMeter(m³) = %v, %v; want 415.0", m3, err)
	}
}

func TestSimulatedTaxBill(t *testing.T) {
	lines, err := NewSimulated().ExtractTaxBill(context.Background(), []byte("bill"))
	if err != nil {
		t.Fatalf("ExtractTaxBill() unexpected error: %v", err)
	}
	if len(lines) != 2 || lines[0].Amount != 1741.10 || lines[1].Amount != 78.20 {
		t.Errorf("ExtractTaxBill() = %+v", lines)
	}
}

func TestSimulatedDelayHonorsContext(t *testing.T) {
	s := &Simulated{Delay: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := s.ExtractBill(ctx, split.KindElectricity, nil); err == nil {
		t.Error("ExtractBill() expected context error")
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no language", "```\n[1,2]\n```", "[1,2]"},
		{"leading whitespace", "  \n{\"a\":1}", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestGetFloat64Field(t *testing.T) {
	m := map[string]interface{}{
		"num":  12.5,
		"str":  "no",
		"null": nil,
	}

	if v, err := getFloat64Field(m, "num", true); err != nil || v != 12.5 {
		t.Errorf("getFloat64Field(num) = %v, %v", v, err)
	}
	if _, err := getFloat64Field(m, "str", true); err == nil {
		t.Error("getFloat64Field(str) expected type error")
	}
	if _, err := getFloat64Field(m, "missing", true); err == nil {
		t.Error("getFloat64Field(missing, required) expected error")
	}
	if v, err := getFloat64Field(m, "missing", false); err != nil || v != 0 {
		t.Errorf("getFloat64Field(missing, optional) = %v, %v", v, err)
	}
	if v, err := getFloat64Field(m, "null", false); err != nil || v != 0 {
		t.Errorf("getFloat64Field(null, optional) = %v, %v", v, err)
	}
}

func TestGetStringField(t *testing.T) {
	m := map[string]interface{}{"name": "Arnona", "blank": "  "}

	if v, err := getStringField(m, "name", true); err != nil || v != "Arnona" {
		t.Errorf("getStringField(name) = %q, %v", v, err)
	}
	if _, err := getStringField(m, "blank", true); err == nil {
		t.Error("getStringField(blank, required) expected error")
	}
}
