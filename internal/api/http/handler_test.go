package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "github.com/SkAltmash/ZapSplit/internal/api/http"
	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/security"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Transfer(ctx context.Context, senderID, recipientID string, amount decimal.Decimal, note, pin string) (*domain.Transaction, error) {
	args := m.Called(ctx, senderID, recipientID, amount, note, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) PaySplit(ctx context.Context, splitID, userID, pin string) error {
	args := m.Called(ctx, splitID, userID, pin)
	return args.Error(0)
}
func (m *MockLedgerService) UseCredit(ctx context.Context, userID string, amount decimal.Decimal, note, pin string) (*domain.CreditDraw, error) {
	args := m.Called(ctx, userID, amount, note, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditDraw), args.Error(1)
}
func (m *MockLedgerService) PayDue(ctx context.Context, userID, drawID, pin string) error {
	args := m.Called(ctx, userID, drawID, pin)
	return args.Error(0)
}
func (m *MockLedgerService) ExtendDue(ctx context.Context, userID, drawID string, addedDays int, pin string) error {
	args := m.Called(ctx, userID, drawID, addedDays, pin)
	return args.Error(0)
}
func (m *MockLedgerService) ClaimReward(ctx context.Context, claimerID, invitedID string) error {
	args := m.Called(ctx, claimerID, invitedID)
	return args.Error(0)
}
func (m *MockLedgerService) AddMoney(ctx context.Context, userID string, amount decimal.Decimal, upi string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, amount, upi)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockLedgerService) GetTransactions(ctx context.Context, userID string, page, pageSize int32) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}

func newTestRouter(ledgerSvc *MockLedgerService) (http.Handler, string) {
	tokens := security.NewTokenManager("handler-test-secret-0123456789abcdef", time.Hour, time.Hour)
	access, err := tokens.GenerateAccessToken("alice", "alice@example.com")
	if err != nil {
		panic(err)
	}
	router := httpapi.NewRouter(httpapi.Handlers{Ledger: ledgerSvc}, httpapi.NewAuthMiddleware(tokens))
	return router, access
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWalletHandler_Transfer(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockLedgerService)
		router, token := newTestRouter(svc)

		rec := domain.NewSendRecord("t1", "alice", &domain.User{ID: "bob"}, decimal.NewFromInt(40), "lunch", "corr")
		svc.On("Transfer", mock.Anything, "alice", "bob", mock.MatchedBy(func(amount decimal.Decimal) bool {
			return amount.Equal(decimal.NewFromInt(40))
		}), "lunch", "1234").Return(rec, nil)

		res := doJSON(t, router, "POST", "/api/v1/wallet/transfer", token, map[string]string{
			"recipient_id": "bob",
			"amount":       "40",
			"note":         "lunch",
			"pin":          "1234",
		})
		assert.Equal(t, http.StatusCreated, res.Code)

		var got domain.Transaction
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &got))
		assert.Equal(t, "t1", got.ID)
		svc.AssertExpectations(t)
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		svc := new(MockLedgerService)
		router, token := newTestRouter(svc)
		svc.On("Transfer", mock.Anything, "alice", "bob", mock.Anything, "", "1234").
			Return(nil, domain.ErrInsufficientBalance)

		res := doJSON(t, router, "POST", "/api/v1/wallet/transfer", token, map[string]string{
			"recipient_id": "bob",
			"amount":       "9999",
			"pin":          "1234",
		})
		assert.Equal(t, http.StatusPaymentRequired, res.Code)
		assert.Contains(t, res.Body.String(), "Insufficient Balance")
	})

	t.Run("IncorrectPIN", func(t *testing.T) {
		svc := new(MockLedgerService)
		router, token := newTestRouter(svc)
		svc.On("Transfer", mock.Anything, "alice", "bob", mock.Anything, "", "0000").
			Return(nil, domain.ErrIncorrectPIN)

		res := doJSON(t, router, "POST", "/api/v1/wallet/transfer", token, map[string]string{
			"recipient_id": "bob",
			"amount":       "40",
			"pin":          "0000",
		})
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("MalformedAmount", func(t *testing.T) {
		svc := new(MockLedgerService)
		router, token := newTestRouter(svc)

		res := doJSON(t, router, "POST", "/api/v1/wallet/transfer", token, map[string]string{
			"recipient_id": "bob",
			"amount":       "forty rupees",
			"pin":          "1234",
		})
		assert.Equal(t, http.StatusBadRequest, res.Code)
		svc.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NoToken", func(t *testing.T) {
		svc := new(MockLedgerService)
		router, _ := newTestRouter(svc)

		res := doJSON(t, router, "POST", "/api/v1/wallet/transfer", "", map[string]string{
			"recipient_id": "bob",
			"amount":       "40",
			"pin":          "1234",
		})
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("RefreshTokenRejected", func(t *testing.T) {
		tokens := security.NewTokenManager("handler-test-secret-0123456789abcdef", time.Hour, time.Hour)
		refresh, err := tokens.GenerateRefreshToken("alice", "")
		require.NoError(t, err)
		svc := new(MockLedgerService)
		router := httpapi.NewRouter(httpapi.Handlers{Ledger: svc}, httpapi.NewAuthMiddleware(tokens))

		res := doJSON(t, router, "GET", "/api/v1/wallet", refresh, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}

func TestPayLaterHandler_ExtendDue(t *testing.T) {
	svc := new(MockLedgerService)
	router, token := newTestRouter(svc)
	svc.On("ExtendDue", mock.Anything, "alice", "d1", 15, "1234").Return(nil)

	res := doJSON(t, router, "POST", "/api/v1/paylater/draws/d1/extend", token, map[string]any{
		"added_days": 15,
		"pin":        "1234",
	})
	assert.Equal(t, http.StatusNoContent, res.Code)
	svc.AssertExpectations(t)
}

func TestSplitHandler_PaySplit(t *testing.T) {
	svc := new(MockLedgerService)
	router, token := newTestRouter(svc)
	svc.On("PaySplit", mock.Anything, "s1", "alice", "1234").Return(nil)

	res := doJSON(t, router, "POST", "/api/v1/splits/s1/pay", token, map[string]string{"pin": "1234"})
	assert.Equal(t, http.StatusNoContent, res.Code)

	svc.ExpectedCalls = nil
	svc.On("PaySplit", mock.Anything, "s1", "alice", "1234").Return(domain.ErrAlreadySettled)
	res = doJSON(t, router, "POST", "/api/v1/splits/s1/pay", token, map[string]string{"pin": "1234"})
	assert.Equal(t, http.StatusConflict, res.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(new(MockLedgerService))

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
