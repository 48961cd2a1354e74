package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemstr/skillgate/internal/receipts"
)

func TestPrintReceipts(t *testing.T) {
	var buf bytes.Buffer
	err := printReceipts(&buf, []receipts.Receipt{
		{
			Name:      "demo",
			TxHash:    "0xabc",
			From:      "0xbuyer",
			Value:     `"1000000"`,
			Fulfilled: false,
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "CREATED"))
	assert.Contains(t, lines[1], "2024-01-01T00:00:00Z")
	assert.Contains(t, lines[1], "0xabc")
	assert.True(t, strings.HasSuffix(lines[1], "false"))
}

func TestInitBackendUnknown(t *testing.T) {
	_, err := initBackend("mysql", "x")
	assert.Error(t, err)
}
