package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"payledger.backend/internal/domain/entities"
	"payledger.backend/pkg/utils"
)

// recipientCodePrefix marks recipient codes issued by the managed provider
const recipientCodePrefix = "RCP_"

// PaystackConfig configures the managed-account and transfer client
type PaystackConfig struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
	Retries   uint64
}

// ManagedAccountClient talks to a Paystack-style API: customers, dedicated
// accounts, bank resolution, transfer recipients and transfers.
type ManagedAccountClient struct {
	api jsonCaller
}

// NewManagedAccountClient creates the client
func NewManagedAccountClient(cfg PaystackConfig) *ManagedAccountClient {
	secret := cfg.SecretKey
	return &ManagedAccountClient{
		api: jsonCaller{
			provider:   entities.ProviderPaystack,
			baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
			httpClient: newHTTPClient(cfg.Timeout),
			retries:    cfg.Retries,
			headers: func(h http.Header) {
				h.Set("Authorization", "Bearer "+secret)
			},
		},
	}
}

type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func (c *ManagedAccountClient) Name() string { return entities.ProviderPaystack }

func (c *ManagedAccountClient) call(ctx context.Context, operation, method, path string, body interface{}, data interface{}) error {
	out := envelope[interface{}]{Data: data}
	status, err := c.api.do(ctx, operation, method, path, body, &out)
	return c.check(operation, status, out.Status, out.Message, err)
}

func (c *ManagedAccountClient) check(operation string, status int, ok bool, message string, err error) error {
	if err != nil {
		return err
	}
	if status >= http.StatusBadRequest || !ok {
		if message == "" {
			message = http.StatusText(status)
		}
		return &ProviderError{Provider: entities.ProviderPaystack, Operation: operation, StatusCode: status, Message: message}
	}
	return nil
}

// CreateCustomer registers the profile and returns the customer code
func (c *ManagedAccountClient) CreateCustomer(ctx context.Context, profile entities.CustomerProfile) (string, error) {
	var data struct {
		CustomerCode string `json:"customer_code"`
	}
	err := c.call(ctx, "create_customer", http.MethodPost, "/customer", map[string]string{
		"email":      profile.Email,
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"phone":      profile.Phone,
	}, &data)
	if err != nil {
		return "", err
	}
	if data.CustomerCode == "" {
		return "", &ProviderError{Provider: entities.ProviderPaystack, Operation: "create_customer", Message: "missing customer code"}
	}
	return data.CustomerCode, nil
}

// AssignDedicatedAccount issues a dedicated NUBAN for the customer
func (c *ManagedAccountClient) AssignDedicatedAccount(ctx context.Context, customerCode, preferredBank string) (*DedicatedAccount, error) {
	var data struct {
		ID            int64  `json:"id"`
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
		Bank          struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
		} `json:"bank"`
	}
	body := map[string]string{"customer": customerCode}
	if preferredBank != "" {
		body["preferred_bank"] = preferredBank
	}
	if err := c.call(ctx, "assign_dedicated_account", http.MethodPost, "/dedicated_account", body, &data); err != nil {
		return nil, err
	}
	if data.AccountNumber == "" {
		return nil, &ProviderError{Provider: entities.ProviderPaystack, Operation: "assign_dedicated_account", Message: "missing account number"}
	}
	return &DedicatedAccount{
		AccountNumber: data.AccountNumber,
		AccountName:   data.AccountName,
		BankName:      data.Bank.Name,
		BankCode:      data.Bank.Slug,
		Reference:     customerCode,
	}, nil
}

// ResolveAccount looks up the registered name of a bank account
func (c *ManagedAccountClient) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*ResolvedAccount, error) {
	var out envelope[struct {
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
	}]
	query := url.Values{}
	query.Set("account_number", accountNumber)
	query.Set("bank_code", bankCode)

	status, err := c.api.doIdempotent(ctx, "resolve_account", http.MethodGet, "/bank/resolve?"+query.Encode(), &out)
	if err := c.check("resolve_account", status, out.Status, out.Message, err); err != nil {
		return nil, err
	}
	return &ResolvedAccount{AccountNumber: out.Data.AccountNumber, AccountName: out.Data.AccountName}, nil
}

// RecognizesRecipient reports whether code was issued by this provider. Codes
// minted by the mock client share the prefix and are refused.
func (c *ManagedAccountClient) RecognizesRecipient(code string) bool {
	return strings.HasPrefix(code, recipientCodePrefix) && !strings.HasPrefix(code, mockRecipientPrefix)
}

// CreateRecipient registers a NUBAN transfer recipient
func (c *ManagedAccountClient) CreateRecipient(ctx context.Context, in RecipientInput) (string, error) {
	var data struct {
		RecipientCode string `json:"recipient_code"`
	}
	currency := in.Currency
	if currency == "" {
		currency = entities.DefaultCurrency
	}
	err := c.call(ctx, "create_recipient", http.MethodPost, "/transferrecipient", map[string]string{
		"type":           "nuban",
		"name":           in.Name,
		"account_number": in.AccountNumber,
		"bank_code":      in.BankCode,
		"currency":       currency,
	}, &data)
	if err != nil {
		return "", err
	}
	if data.RecipientCode == "" {
		return "", &ProviderError{Provider: entities.ProviderPaystack, Operation: "create_recipient", Message: "missing recipient code"}
	}
	return data.RecipientCode, nil
}

// InitiateTransfer sends the amount (converted to minor units) from the balance.
// The provider rejects a reused reference, which makes the call safe to repeat.
func (c *ManagedAccountClient) InitiateTransfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	minor, err := utils.ToMinorUnits(in.Amount)
	if err != nil {
		return nil, fmt.Errorf("transfer amount %s: %w", in.Amount, err)
	}
	var data struct {
		TransferCode string `json:"transfer_code"`
		Reference    string `json:"reference"`
		Status       string `json:"status"`
	}
	err = c.call(ctx, "initiate_transfer", http.MethodPost, "/transfer", map[string]interface{}{
		"source":    "balance",
		"amount":    minor,
		"recipient": in.RecipientCode,
		"reason":    in.Reason,
		"reference": in.Reference,
		"currency":  in.Currency,
	}, &data)
	if err != nil {
		return nil, err
	}
	return &TransferResult{TransferCode: data.TransferCode, Reference: data.Reference, Status: data.Status}, nil
}
