package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/motif-tracer/internal/trace"
)

func TestSummaryMarkdown(t *testing.T) {
	res := &trace.Result{
		Width:    120,
		Height:   80,
		Format:   "png",
		Strategy: trace.StrategyOutline,
		Layout:   trace.LayoutFlat,
		Variance: 812.345,
		Contours: 4,
		Badges:   make([]trace.PathElement, 3),
	}

	md := summaryMarkdown("logo.png", res, trace.Response{ID: "0123456789abcdef"})

	assert.True(t, strings.HasPrefix(md, "# logo.png\n"))
	for _, want := range []string{
		"| canvas | 120 x 80 png |",
		"| strategy | outline |",
		"| layout | flat |",
		"| variance | 812.3 |",
		"| contours | 4 |",
		"| badges | 3 |",
		"| banners | 0 |",
		"`0123456789abcdef`",
	} {
		assert.Contains(t, md, want)
	}
	assert.NotContains(t, md, "warning")
}

func TestSummaryMarkdown_Warnings(t *testing.T) {
	res := &trace.Result{Warning: trace.EmptyResultWarning}
	md := summaryMarkdown("blank.png", res, trace.Response{StorageError: "storage save failed: refused"})

	assert.Contains(t, md, "**warning:** "+trace.EmptyResultWarning)
	assert.Contains(t, md, "**storage:** storage save failed: refused")
	assert.NotContains(t, md, "stored as")
}

func TestPrintSummary_PlainWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, "# title\n"))
	assert.Equal(t, "# title\n", buf.String())
}
