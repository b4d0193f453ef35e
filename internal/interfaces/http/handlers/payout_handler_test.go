package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"payledger.backend/internal/domain/entities"
	domainerrors "payledger.backend/internal/domain/errors"
	"payledger.backend/internal/usecases"
	"payledger.backend/pkg/utils"
)

type payoutServiceStub struct {
	registerFn func(ctx context.Context, owner entities.Owner, in usecases.RegisterPayoutAccountInput) (*entities.PayoutAccount, error)
	accountFn  func(ctx context.Context, owner entities.Owner) (*entities.PayoutAccount, error)
	verifyFn   func(ctx context.Context, owner entities.Owner) (*entities.PayoutAccount, error)
	requestFn  func(ctx context.Context, owner entities.Owner, in usecases.RequestPayoutInput) (*entities.PayoutRequest, error)
	getFn      func(ctx context.Context, id uuid.UUID) (*entities.PayoutRequest, error)
	listFn     func(ctx context.Context, filter entities.PayoutFilter) ([]*entities.PayoutRequest, utils.PaginationMeta, error)
	approveFn  func(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.PayoutRequest, error)
	rejectFn   func(ctx context.Context, actor entities.Actor, id uuid.UUID, reason string) (*entities.PayoutRequest, error)
	payFn      func(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.PayoutRequest, error)
}

func (s *payoutServiceStub) RegisterPayoutAccount(ctx context.Context, owner entities.Owner, in usecases.RegisterPayoutAccountInput) (*entities.PayoutAccount, error) {
	return s.registerFn(ctx, owner, in)
}
func (s *payoutServiceStub) GetPayoutAccount(ctx context.Context, owner entities.Owner) (*entities.PayoutAccount, error) {
	return s.accountFn(ctx, owner)
}
func (s *payoutServiceStub) VerifyPayoutAccount(ctx context.Context, owner entities.Owner) (*entities.PayoutAccount, error) {
	return s.verifyFn(ctx, owner)
}
func (s *payoutServiceStub) RequestPayout(ctx context.Context, owner entities.Owner, in usecases.RequestPayoutInput) (*entities.PayoutRequest, error) {
	return s.requestFn(ctx, owner, in)
}
func (s *payoutServiceStub) GetPayoutRequest(ctx context.Context, id uuid.UUID) (*entities.PayoutRequest, error) {
	return s.getFn(ctx, id)
}
func (s *payoutServiceStub) ListPayoutRequests(ctx context.Context, filter entities.PayoutFilter) ([]*entities.PayoutRequest, utils.PaginationMeta, error) {
	return s.listFn(ctx, filter)
}
func (s *payoutServiceStub) Approve(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.PayoutRequest, error) {
	return s.approveFn(ctx, actor, id)
}
func (s *payoutServiceStub) Reject(ctx context.Context, actor entities.Actor, id uuid.UUID, reason string) (*entities.PayoutRequest, error) {
	return s.rejectFn(ctx, actor, id, reason)
}
func (s *payoutServiceStub) Pay(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.PayoutRequest, error) {
	return s.payFn(ctx, actor, id)
}

func TestPayoutHandler_RegisterAndGetAccount(t *testing.T) {
	actor := testActor()
	stored := &entities.PayoutAccount{ID: uuid.New(), Owner: actor.Owner, Status: entities.PayoutAccountStatusPending}
	h := &PayoutHandler{payouts: &payoutServiceStub{
		registerFn: func(_ context.Context, owner entities.Owner, in usecases.RegisterPayoutAccountInput) (*entities.PayoutAccount, error) {
			require.Equal(t, actor.Owner, owner)
			stored.BankCode, stored.AccountNumber = in.BankCode, in.AccountNumber
			return stored, nil
		},
		accountFn: func(context.Context, entities.Owner) (*entities.PayoutAccount, error) { return stored, nil },
	}}
	r := newTestRouter(&actor, "")
	r.PUT("/payout-account", h.RegisterPayoutAccount)
	r.GET("/payout-account", h.GetPayoutAccount)

	w := doRequest(r, http.MethodPut, "/payout-account", `{"bankCode":"058","accountNumber":"0123456789"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accountNumber":"0123456789"`)
	assert.NotContains(t, w.Body.String(), "recipient")

	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodPut, "/payout-account", `{"bankCode":"058"}`).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/payout-account", "").Code)
}

func TestPayoutHandler_VerifyAccountProviderFailure(t *testing.T) {
	actor := testActor()
	h := &PayoutHandler{payouts: &payoutServiceStub{
		verifyFn: func(context.Context, entities.Owner) (*entities.PayoutAccount, error) {
			return nil, fmt.Errorf("resolve: %w", domainerrors.ErrProviderFailure)
		},
	}}
	r := newTestRouter(&actor, "")
	r.POST("/payout-account/verify", h.VerifyPayoutAccount)

	assert.Equal(t, http.StatusBadGateway, doRequest(r, http.MethodPost, "/payout-account/verify", "").Code)
}

func TestPayoutHandler_RequestPayout(t *testing.T) {
	actor := testActor()
	h := &PayoutHandler{payouts: &payoutServiceStub{
		requestFn: func(_ context.Context, owner entities.Owner, in usecases.RequestPayoutInput) (*entities.PayoutRequest, error) {
			if in.Amount.LessThanOrEqual(decimal.Zero) {
				return nil, domainerrors.BadRequest("amount must be positive")
			}
			return &entities.PayoutRequest{ID: uuid.New(), Owner: owner, Amount: in.Amount, Status: entities.PayoutStatusPending}, nil
		},
	}}
	r := newTestRouter(&actor, "")
	r.POST("/payouts", h.RequestPayout)

	w := doRequest(r, http.MethodPost, "/payouts", `{"amount":"2500.00","note":"rent"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)

	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodPost, "/payouts", `{"amount":"0"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodPost, "/payouts", `{"amount":`).Code)
}

func TestPayoutHandler_GetPayoutScopedToOwner(t *testing.T) {
	actor := testActor()
	mine := &entities.PayoutRequest{ID: uuid.New(), Owner: actor.Owner}
	theirs := &entities.PayoutRequest{ID: uuid.New(), Owner: entities.Owner{Type: entities.OwnerTypeUser, ID: uuid.New()}}
	h := &PayoutHandler{payouts: &payoutServiceStub{
		getFn: func(_ context.Context, id uuid.UUID) (*entities.PayoutRequest, error) {
			switch id {
			case mine.ID:
				return mine, nil
			case theirs.ID:
				return theirs, nil
			}
			return nil, domainerrors.ErrNotFound
		},
	}}
	r := newTestRouter(&actor, "")
	r.GET("/payouts/:id", h.GetPayout)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/payouts/"+mine.ID.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodGet, "/payouts/"+theirs.ID.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodGet, "/payouts/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodGet, "/payouts/xyz", "").Code)
}

func TestPayoutHandler_ListFilters(t *testing.T) {
	actor := testActor()
	var got entities.PayoutFilter
	h := &PayoutHandler{payouts: &payoutServiceStub{
		listFn: func(_ context.Context, filter entities.PayoutFilter) ([]*entities.PayoutRequest, utils.PaginationMeta, error) {
			got = filter
			return nil, utils.CalculateMeta(0, 1, 20), nil
		},
	}}
	r := newTestRouter(&actor, "")
	r.GET("/payouts", h.ListMyPayouts)
	r.GET("/admin/payouts", h.AdminListPayouts)

	w := doRequest(r, http.MethodGet, "/payouts?status=pending", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.Owner)
	assert.Equal(t, actor.Owner, *got.Owner)
	assert.Equal(t, entities.PayoutStatusPending, got.Status)
	assert.Contains(t, w.Body.String(), `"items":[]`)

	ownerID := uuid.New()
	w = doRequest(r, http.MethodGet, "/admin/payouts?status=approved&owner_type=business&owner_id="+ownerID.String()+"&page=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.Owner)
	assert.Equal(t, entities.Owner{Type: entities.OwnerTypeBusiness, ID: ownerID}, *got.Owner)
	assert.Equal(t, 2, got.Page)

	w = doRequest(r, http.MethodGet, "/admin/payouts", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, got.Owner)

	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodGet, "/admin/payouts?status=settled", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodGet, "/admin/payouts?owner_id=nope", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodGet, "/admin/payouts?owner_id="+ownerID.String()+"&owner_type=robot", "").Code)
}

func TestPayoutHandler_AdminTransitions(t *testing.T) {
	admin := testActor(string(entities.CapabilityApprovePayouts), string(entities.CapabilityPayPayouts))
	id := uuid.New()
	var reason string
	h := &PayoutHandler{payouts: &payoutServiceStub{
		approveFn: func(_ context.Context, actor entities.Actor, got uuid.UUID) (*entities.PayoutRequest, error) {
			assert.Equal(t, admin.ID, actor.ID)
			return &entities.PayoutRequest{ID: got, Status: entities.PayoutStatusApproved}, nil
		},
		rejectFn: func(_ context.Context, _ entities.Actor, got uuid.UUID, r string) (*entities.PayoutRequest, error) {
			reason = r
			return nil, domainerrors.ErrPayoutInProgress
		},
		payFn: func(context.Context, entities.Actor, uuid.UUID) (*entities.PayoutRequest, error) {
			return nil, fmt.Errorf("account: %w", domainerrors.ErrAccountNotVerified)
		},
	}}
	r := newTestRouter(&admin, "")
	r.POST("/admin/payouts/:id/approve", h.Approve)
	r.POST("/admin/payouts/:id/reject", h.Reject)
	r.POST("/admin/payouts/:id/pay", h.Pay)

	w := doRequest(r, http.MethodPost, "/admin/payouts/"+id.String()+"/approve", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"approved"`)

	w = doRequest(r, http.MethodPost, "/admin/payouts/"+id.String()+"/reject", `{"reason":"duplicate"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "duplicate", reason)

	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodPost, "/admin/payouts/"+id.String()+"/reject", `{}`).Code)
	assert.Equal(t, http.StatusConflict, doRequest(r, http.MethodPost, "/admin/payouts/"+id.String()+"/pay", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodPost, "/admin/payouts/bad/pay", "").Code)
}

func TestPayoutHandler_RequiresActor(t *testing.T) {
	h := &PayoutHandler{payouts: &payoutServiceStub{}}
	r := newTestRouter(nil, "")
	r.POST("/payouts", h.RequestPayout)
	r.POST("/admin/payouts/:id/pay", h.Pay)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodPost, "/payouts", `{"amount":"1"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodPost, "/admin/payouts/"+uuid.NewString()+"/pay", "").Code)
}
