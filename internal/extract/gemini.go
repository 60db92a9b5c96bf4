package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ykaplan/cotenant/internal/split"
)

// DefaultModelName is the Gemini model used for document extraction.
const DefaultModelName = "gemini-2.0-flash"

// Gemini extracts bill figures with a vision model. It expects the model to
// return STRICT JSON and falls back to cleaning markdown fences when the
// model ignores that instruction. Never the default extractor; enabled
// explicitly by configuration.
type Gemini struct {
	model string
}

// NewGemini creates a Gemini extractor. Credentials come from the
// environment, same as the genai client's defaults.
func NewGemini() *Gemini {
	return &Gemini{model: DefaultModelName}
}

func billPrompt(kind split.BillKind) string {
	return "You are a utility bill parser for Israeli " + string(kind) + " bills.\n\n" +
		"Task:\n" +
		"- Read the attached bill document.\n" +
		"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
		"- Output a single JSON object.\n\n" +
		"The object must have these fields:\n" +
		"- \"fixed_cost\": number, the flat non-usage charge\n" +
		"- \"total_usage_cost\": number, the consumption-based charge\n" +
		"- \"unit_price\": number, price per " + kind.Unit() + "\n" +
		"- \"vat\": number, the VAT amount\n" +
		"- \"current_reading\": number, the current meter reading if present, else 0\n\n" +
		"Return ONLY valid raw JSON.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Output must begin with \"{\" and end with \"}\".\n"
}

const taxPrompt = "You are a city tax (arnona) bill parser.\n\n" +
	"Task:\n" +
	"- Read the attached tax bill document.\n" +
	"- Output STRICT JSON only: a JSON array of objects.\n" +
	"- Each object must have \"name\" (string, the charge description) and\n" +
	"  \"amount\" (number, the charged amount).\n\n" +
	"Return ONLY valid raw JSON, no code fences.\n" +
	"Output must begin with \"[\" and end with \"]\".\n"

func meterPrompt(unit string) string {
	return "Read the utility meter in the attached photo. The meter counts " + unit + ".\n" +
		"Output STRICT JSON only: {\"reading\": <number>}. No code fences, no extra text.\n"
}

func (g *Gemini) generate(ctx context.Context, prompt string, document []byte, mimeType string) (interface{}, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("extract: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     document,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("extract: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("extract: empty response from model")
	}

	clean := cleanModelJSON(rawText)

	var parsed interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("extract: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}
	return parsed, nil
}

// ExtractBill sends the bill document to the model and maps the JSON object
// into BillData plus the current meter reading.
func (g *Gemini) ExtractBill(ctx context.Context, kind split.BillKind, document []byte) (BillData, float64, error) {
	parsed, err := g.generate(ctx, billPrompt(kind), document, "application/pdf")
	if err != nil {
		return BillData{}, 0, err
	}

	obj, ok := parsed.(map[string]interface{})
	if !ok {
		return BillData{}, 0, fmt.Errorf("extract: bill output is %T, want object", parsed)
	}

	var data BillData
	if data.FixedCost, err = getFloat64Field(obj, "fixed_cost", true); err != nil {
		return BillData{}, 0, err
	}
	if data.TotalUsageCost, err = getFloat64Field(obj, "total_usage_cost", true); err != nil {
		return BillData{}, 0, err
	}
	if data.UnitPrice, err = getFloat64Field(obj, "unit_price", true); err != nil {
		return BillData{}, 0, err
	}
	if data.VAT, err = getFloat64Field(obj, "vat", true); err != nil {
		return BillData{}, 0, err
	}
	reading, err := getFloat64Field(obj, "current_reading", false)
	if err != nil {
		return BillData{}, 0, err
	}
	return data, reading, nil
}

// ExtractTaxBill sends the tax bill to the model and maps the JSON array
// into tax lines.
func (g *Gemini) ExtractTaxBill(ctx context.Context, document []byte) ([]split.TaxLine, error) {
	parsed, err := g.generate(ctx, taxPrompt, document, "application/pdf")
	if err != nil {
		return nil, err
	}

	arr, ok := parsed.([]interface{})
	if !ok {
		return nil, fmt.Errorf("extract: tax output is %T, want array", parsed)
	}

	lines := make([]split.TaxLine, 0, len(arr))
	for i, item := range arr {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("extract: tax line %d is %T, want object", i, item)
		}
		name, err := getStringField(obj, "name", true)
		if err != nil {
			return nil, fmt.Errorf("tax line %d: %w", i, err)
		}
		amount, err := getFloat64Field(obj, "amount", true)
		if err != nil {
			return nil, fmt.Errorf("tax line %d: %w", i, err)
		}
		lines = append(lines, split.TaxLine{Name: name, Amount: amount})
	}
	return lines, nil
}

// ReadMeter sends the meter photo to the model and returns the reading.
func (g *Gemini) ReadMeter(ctx context.Context, photo []byte, unit string) (float64, error) {
	parsed, err := g.generate(ctx, meterPrompt(unit), photo, "image/jpeg")
	if err != nil {
		return 0, err
	}

	obj, ok := parsed.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("extract: meter output is %T, want object", parsed)
	}
	return getFloat64Field(obj, "reading", true)
}

// cleanModelJSON strips markdown fences and surrounding noise when the
// model ignores the strict-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

var (
	_ BillExtractor = (*Gemini)(nil)
	_ MeterReader   = (*Gemini)(nil)
)
