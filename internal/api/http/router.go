package http

import (
	"net/http"

	"github.com/SkAltmash/ZapSplit/internal/service"

	"github.com/gorilla/mux"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth     service.AuthService
	Users    service.UserService
	Ledger   service.LedgerService
	Splits   service.SplitService
	PayLater service.PayLaterService
	Notes    service.NotificationService
	Convs    service.ConversationService
}

// NewRouter registers all HTTP endpoints. Signup, login and token
// refresh are public; everything else sits behind the bearer-token
// middleware.
func NewRouter(h Handlers, authMW *AuthMiddleware) *mux.Router {
	router := mux.NewRouter()

	authHandler := NewAuthHandler(h.Auth, h.Users)
	walletHandler := NewWalletHandler(h.Ledger)
	splitHandler := NewSplitHandler(h.Splits, h.Ledger)
	payLaterHandler := NewPayLaterHandler(h.PayLater, h.Ledger)
	noteHandler := NewNotificationHandler(h.Notes, h.Convs)

	router.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	router.HandleFunc("/api/v1/auth/signup", authHandler.Signup).Methods("POST")
	router.HandleFunc("/api/v1/auth/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/api/v1/auth/refresh", authHandler.Refresh).Methods("POST")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMW.Handler)

	api.HandleFunc("/auth/pin", authHandler.SetPIN).Methods("PUT")
	api.HandleFunc("/auth/fcm-token", authHandler.RegisterFCMToken).Methods("PUT")

	api.HandleFunc("/me", authHandler.GetProfile).Methods("GET")
	api.HandleFunc("/me", authHandler.UpdateProfile).Methods("PATCH")
	api.HandleFunc("/me/referrals", authHandler.ReferralDetails).Methods("GET")
	api.HandleFunc("/users/resolve", authHandler.ResolveMobile).Methods("GET")

	api.HandleFunc("/wallet", walletHandler.GetWallet).Methods("GET")
	api.HandleFunc("/wallet/add-money", walletHandler.AddMoney).Methods("POST")
	api.HandleFunc("/wallet/transfer", walletHandler.Transfer).Methods("POST")
	api.HandleFunc("/wallet/transactions", walletHandler.ListTransactions).Methods("GET")
	api.HandleFunc("/wallet/claim-reward", walletHandler.ClaimReward).Methods("POST")

	api.HandleFunc("/splits", splitHandler.CreateSplit).Methods("POST")
	api.HandleFunc("/splits", splitHandler.ListSplits).Methods("GET")
	api.HandleFunc("/splits/{id}", splitHandler.GetSplit).Methods("GET")
	api.HandleFunc("/splits/{id}/pay", splitHandler.PaySplit).Methods("POST")

	api.HandleFunc("/paylater/apply", payLaterHandler.Apply).Methods("POST")
	api.HandleFunc("/paylater/dashboard", payLaterHandler.Dashboard).Methods("GET")
	api.HandleFunc("/paylater/use", payLaterHandler.UseCredit).Methods("POST")
	api.HandleFunc("/paylater/draws/{id}/pay", payLaterHandler.PayDue).Methods("POST")
	api.HandleFunc("/paylater/draws/{id}/extend", payLaterHandler.ExtendDue).Methods("POST")

	api.HandleFunc("/notifications", noteHandler.ListNotifications).Methods("GET")
	api.HandleFunc("/notifications/{id}/seen", noteHandler.MarkSeen).Methods("PUT")
	api.HandleFunc("/conversations", noteHandler.ListConversations).Methods("GET")
	api.HandleFunc("/conversations/{id}/messages", noteHandler.ListMessages).Methods("GET")

	return router
}
