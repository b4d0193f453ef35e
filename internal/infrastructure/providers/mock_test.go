package providers

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTransferClient_Deterministic(t *testing.T) {
	client := NewMockTransferClient()
	code, err := client.CreateRecipient(context.Background(), RecipientInput{AccountNumber: "0123456789"})
	require.NoError(t, err)
	assert.Equal(t, "RCP_mock_0123456789", code)
	assert.True(t, client.RecognizesRecipient(code))
	assert.False(t, client.RecognizesRecipient("RCP_live"))

	result, err := client.InitiateTransfer(context.Background(), TransferInput{Amount: decimal.NewFromInt(10), Reference: "PO-1"})
	require.NoError(t, err)
	assert.Equal(t, "TRF_mock_PO-1", result.TransferCode)
	assert.Equal(t, "PO-1", result.Reference)
}
