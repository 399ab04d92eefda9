package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/election-audit/audit-cli/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	runs := []model.Run{
		{
			ID:            "0f8fad5b-d9cb-469f-a165-70867728950e",
			Kind:          model.RunKindPrimary,
			Status:        model.RunStatusComplete,
			Records:       400,
			CriticalCount: 12,
			CreatedAt:     time.Date(2026, 2, 9, 14, 30, 0, 0, time.UTC),
		},
		{
			ID:        "7c9e6679",
			Kind:      model.RunKindOCR,
			Status:    model.RunStatusFailed,
			CreatedAt: time.Date(2026, 2, 9, 15, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "CRITICAL")
	assert.Contains(t, lines[1], "0f8fad5b")
	assert.NotContains(t, lines[1], "d9cb")
	assert.Contains(t, lines[1], "primary")
	assert.Contains(t, lines[1], "2026-02-09 14:30")
	assert.Contains(t, lines[2], "failed")
}

func TestFormatRun(t *testing.T) {
	run := &model.Run{
		ID:            "run-1",
		Kind:          model.RunKindPrimary,
		Status:        model.RunStatusComplete,
		Records:       2,
		CriticalCount: 1,
		Artifact:      "out/plot-processed.json",
	}
	findings := []model.Record{{Province: "ลำปาง", District: 1, Discrepancy: 500, Margin: 100, IsCritical: true}}

	var buf bytes.Buffer
	formatRun(&buf, run, findings)
	out := buf.String()

	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "out/plot-processed.json")
	assert.NotContains(t, out, "Error:")
	assert.Contains(t, out, "ลำปาง เขต 1")
	assert.Contains(t, out, "yes")
}

func TestFormatRun_Failed(t *testing.T) {
	run := &model.Run{ID: "run-2", Kind: model.RunKindOCR, Status: model.RunStatusFailed, Error: "source: no primary data"}

	var buf bytes.Buffer
	formatRun(&buf, run, nil)

	assert.Contains(t, buf.String(), "source: no primary data")
	assert.NotContains(t, buf.String(), "Critical districts")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 8))
	assert.Equal(t, "abcdefgh", truncate("abcdefghij", 8))
}
