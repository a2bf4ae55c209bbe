package web

import (
	"encoding/json"
	"net/http"

	"commerce-role-sync/internal/events"
	"commerce-role-sync/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ---- admin settings ----

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.settingsUC.Get(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("get settings failed")
		http.Error(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var in usecase.SettingsInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	st, err := s.settingsUC.SanitizeAndSave(r.Context(), in)
	if err != nil {
		s.log.Error().Err(err).Msg("save settings failed")
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleQualifyingProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.settingsUC.QualifyingProducts(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list qualifying products failed")
		http.Error(w, "Failed to list products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleAssignableRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := s.settingsUC.AssignableRoles(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list assignable roles failed")
		http.Error(w, "Failed to list roles", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

// ---- commerce webhooks ----
//
// Webhook handlers always answer 202 once the payload parses: role sync is a
// passive observer and must not fail the commerce operation behind the event.

type purchasePayload struct {
	PaymentID int64 `json:"payment_id"`
}

type subscriptionPayload struct {
	SubscriptionID int64 `json:"subscription_id"`
}

type passPayload struct {
	PassID int64 `json:"pass_id"`
}

func (s *Server) handlePurchaseCompleted(w http.ResponseWriter, r *http.Request) {
	var p purchasePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.PaymentID <= 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.dispatcher.Dispatch(r.Context(), events.PurchaseCompleted{PaymentID: p.PaymentID})
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleSubscriptionExpired(w http.ResponseWriter, r *http.Request) {
	var p subscriptionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.SubscriptionID <= 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.dispatcher.Dispatch(r.Context(), events.SubscriptionExpired{SubscriptionID: p.SubscriptionID})
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handlePassExpired(w http.ResponseWriter, r *http.Request) {
	var p passPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.PassID <= 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.dispatcher.Dispatch(r.Context(), events.PassExpired{PassID: p.PassID})
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handlePaymentRefunded(w http.ResponseWriter, r *http.Request) {
	var p purchasePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.PaymentID <= 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.dispatcher.Dispatch(r.Context(), events.PaymentRefunded{PaymentID: p.PaymentID})
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
