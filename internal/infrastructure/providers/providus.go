package providers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"payledger.backend/internal/domain/entities"
	"payledger.backend/pkg/crypto"
)

// ProvidusConfig configures the reserved-account client
type ProvidusConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// ReservedAccountClient talks to a Providus-style direct bank API. Requests are
// authenticated with Client-Id and X-Auth-Signature headers.
type ReservedAccountClient struct {
	api jsonCaller
}

func NewReservedAccountClient(cfg ProvidusConfig) *ReservedAccountClient {
	clientID := cfg.ClientID
	signature := crypto.CredentialSignature(cfg.ClientID, cfg.ClientSecret)
	return &ReservedAccountClient{
		api: jsonCaller{
			provider:   entities.ProviderProvidus,
			baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
			httpClient: newHTTPClient(cfg.Timeout),
			headers: func(h http.Header) {
				h.Set("Client-Id", clientID)
				h.Set("X-Auth-Signature", signature)
			},
		},
	}
}

func (c *ReservedAccountClient) Name() string { return entities.ProviderProvidus }

// CreateReservedAccount opens a static account in the given name
func (c *ReservedAccountClient) CreateReservedAccount(ctx context.Context, accountName, bvn string) (*DedicatedAccount, error) {
	var out struct {
		AccountNumber     string `json:"account_number"`
		AccountName       string `json:"account_name"`
		RequestSuccessful bool   `json:"requestSuccessful"`
		ResponseMessage   string `json:"responseMessage"`
		ResponseCode      string `json:"responseCode"`
	}
	status, err := c.api.do(ctx, "create_reserved_account", http.MethodPost, "/PiPCreateReservedAccountNumber", map[string]string{
		"account_name": accountName,
		"bvn":          bvn,
	}, &out)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusBadRequest || !out.RequestSuccessful || out.AccountNumber == "" {
		message := out.ResponseMessage
		if message == "" {
			message = "reserved account was not created"
		}
		return nil, &ProviderError{Provider: entities.ProviderProvidus, Operation: "create_reserved_account", StatusCode: status, Message: message}
	}
	name := out.AccountName
	if name == "" {
		name = accountName
	}
	return &DedicatedAccount{AccountNumber: out.AccountNumber, AccountName: name, BankName: "Providus Bank"}, nil
}
