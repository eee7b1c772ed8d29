package out

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ggonzalez94/flashmint-cli/internal/config"
	"github.com/ggonzalez94/flashmint-cli/internal/model"
)

func sampleQuote() model.FlashMintQuote {
	return model.FlashMintQuote{
		ChainID:   "eip155:1",
		Family:    "leveraged",
		IsMinting: true,
		InputAmount: model.AmountInfo{
			AmountBaseUnits: "1608000000",
			AmountDecimal:   "1608",
			Decimals:        6,
		},
		Transaction: model.Transaction{To: "0x45c00508C14601fd1C1e296eB3C0e3eEEdCa45D0", Data: "0x", Value: "0"},
	}
}

func TestRenderJSONSelectResultsOnly(t *testing.T) {
	env := model.Envelope{
		Version: "v1",
		Success: true,
		Data:    sampleQuote(),
		Meta:    model.EnvelopeMeta{Timestamp: time.Now()},
	}
	settings := config.Settings{OutputMode: "json", SelectFields: []string{"family", "transaction.to"}, ResultsOnly: true}
	var buf bytes.Buffer
	if err := Render(&buf, env, settings); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("json decode failed: %v", err)
	}
	if out["family"] != "leveraged" || out["transaction.to"] != "0x45c00508C14601fd1C1e296eB3C0e3eEEdCa45D0" {
		t.Fatalf("unexpected output: %s", buf.String())
	}
	if _, ok := out["chain_id"]; ok {
		t.Fatalf("field projection failed: %s", buf.String())
	}
}

func TestRenderPlainFlattensNestedFields(t *testing.T) {
	env := model.Envelope{
		Version: "v1",
		Success: true,
		Data:    sampleQuote(),
		Meta:    model.EnvelopeMeta{Timestamp: time.Now()},
	}
	settings := config.Settings{OutputMode: "plain", ResultsOnly: true}
	var buf bytes.Buffer
	if err := Render(&buf, env, settings); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	line := buf.String()
	for _, want := range []string{"family=leveraged", "input_amount.amount_base_units=1608000000", "transaction.value=0"} {
		if !strings.Contains(line, want) {
			t.Fatalf("plain output missing %q: %s", want, line)
		}
	}
}

func TestRenderPlainEmptyList(t *testing.T) {
	env := model.Envelope{Version: "v1", Success: true, Data: []model.IndexTokenInfo{}}
	var buf bytes.Buffer
	if err := Render(&buf, env, config.Settings{OutputMode: "plain", ResultsOnly: true}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
