package providers

import (
	"context"
	"strings"

	"payledger.backend/internal/domain/entities"
)

const mockRecipientPrefix = "RCP_mock_"

// MockTransferClient settles transfers locally with deterministic identifiers.
// It is only wired for development configuration.
type MockTransferClient struct{}

func NewMockTransferClient() *MockTransferClient {
	return &MockTransferClient{}
}

func (MockTransferClient) Name() string { return entities.ProviderMock }

func (MockTransferClient) RecognizesRecipient(code string) bool {
	return strings.HasPrefix(code, mockRecipientPrefix)
}

func (MockTransferClient) CreateRecipient(_ context.Context, in RecipientInput) (string, error) {
	return mockRecipientPrefix + in.AccountNumber, nil
}

func (MockTransferClient) InitiateTransfer(_ context.Context, in TransferInput) (*TransferResult, error) {
	return &TransferResult{
		TransferCode: "TRF_mock_" + in.Reference,
		Reference:    in.Reference,
		Status:       "success",
	}, nil
}

func (MockTransferClient) ResolveAccount(_ context.Context, accountNumber, _ string) (*ResolvedAccount, error) {
	return &ResolvedAccount{AccountNumber: accountNumber, AccountName: "MOCK ACCOUNT " + accountNumber}, nil
}
