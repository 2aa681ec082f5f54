package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/osanchezp/casaflow/internal/api"
	"github.com/osanchezp/casaflow/internal/models"
	"github.com/osanchezp/casaflow/internal/storage"
)

// fractionTolerance is how far participant fractions may drift from 1.0.
// Mirrors the form's 0.01 tolerance on the percentage sum.
const fractionTolerance = 0.0001

func (s *Server) handleFormConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.FormConfig(r.Context())
	if err != nil {
		slog.Error("form config failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load form configuration")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		slog.Error("list accounts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load accounts")
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := s.store.ListMovements(r.Context())
	if err != nil {
		slog.Error("list movements failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load movements")
		return
	}
	if movements == nil {
		movements = []models.Movement{}
	}
	writeJSON(w, http.StatusOK, movements)
}

func (s *Server) handleGetMovement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, err := s.store.GetMovement(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "movement not found")
		return
	}
	if err != nil {
		slog.Error("get movement failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load movement")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCreateMovement(w http.ResponseWriter, r *http.Request) {
	var p api.MovementPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateMovementPayload(&p); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	m := &models.Movement{
		Type:                  p.Type,
		Description:           p.Description,
		Amount:                p.Amount,
		Date:                  p.MovementDate,
		Currency:              p.Currency,
		CategoryID:            p.Category,
		PayerUserID:           p.PayerUserID,
		PayerContactID:        p.PayerContactID,
		PaymentMethodID:       p.PaymentMethodID,
		CounterpartyUserID:    p.CounterpartyUserID,
		CounterpartyContactID: p.CounterpartyContactID,
	}
	for _, pp := range p.Participants {
		m.Shares = append(m.Shares, models.Share{
			UserID:     pp.UserID,
			ContactID:  pp.ContactID,
			Percentage: pp.Percentage,
		})
	}

	if err := s.store.CreateMovement(r.Context(), m); err != nil {
		slog.Error("create movement failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save movement")
		return
	}
	slog.Info("movement created", "id", m.ID, "type", m.Type, "amount", m.Amount, "by", MemberID(r.Context()))

	if err := s.downstream.Sync(r.Context(), "movement", m.ID); err != nil {
		slog.Warn("downstream sync failed", "id", m.ID, "error", err)
		degradedWrites.Inc()
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"warning": "movement saved, but synchronization is pending",
			"id":      m.ID,
		})
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMovement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var u models.MovementUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateUpdate(&u); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	err := s.store.UpdateMovement(r.Context(), id, u)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "movement not found")
		return
	}
	if err != nil {
		slog.Error("update movement failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update movement")
		return
	}
	slog.Info("movement updated", "id", id, "by", MemberID(r.Context()))

	if err := s.downstream.Sync(r.Context(), "movement", id); err != nil {
		slog.Warn("downstream sync failed", "id", id, "error", err)
		degradedWrites.Inc()
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"warning": "movement updated, but synchronization is pending",
			"id":      id,
		})
		return
	}

	m, err := s.store.GetMovement(r.Context(), id)
	if err != nil {
		slog.Error("reload after update failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load movement")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var p api.IncomePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateIncomePayload(&p); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	in := &models.Income{
		MemberID:    p.MemberID,
		AccountID:   p.AccountID,
		Subtype:     p.Type,
		Amount:      p.Amount,
		Description: p.Description,
		Date:        p.IncomeDate,
	}
	if err := s.store.CreateIncome(r.Context(), in); err != nil {
		slog.Error("create income failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save income")
		return
	}
	slog.Info("income created", "id", in.ID, "member", in.MemberID, "amount", in.Amount, "by", MemberName(r.Context()))

	if err := s.downstream.Sync(r.Context(), "income", in.ID); err != nil {
		slog.Warn("downstream sync failed", "id", in.ID, "error", err)
		degradedWrites.Inc()
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"warning": "income saved, but synchronization is pending",
			"id":      in.ID,
		})
		return
	}
	writeJSON(w, http.StatusCreated, in)
}

// validateMovementPayload mirrors the client-side checks the server cannot
// trust the client to have run.
func validateMovementPayload(p *api.MovementPayload) string {
	if !p.Type.Valid() || p.Type == models.TypeIncome {
		return "type must be HOUSEHOLD, SPLIT or DEBT_PAYMENT"
	}
	if p.MovementDate == "" {
		return "movement_date is required"
	}
	if _, err := time.Parse("2006-01-02", p.MovementDate); err != nil {
		return "movement_date must be in YYYY-MM-DD format"
	}
	if math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) || p.Amount <= 0 {
		return "amount must be greater than zero"
	}
	if p.Description == "" {
		return "description is required"
	}
	if p.PayerUserID == "" && p.PayerContactID == "" {
		return "a payer is required"
	}
	if p.PayerUserID != "" && p.PayerContactID != "" {
		return "payer must be a user or a contact, not both"
	}

	switch p.Type {
	case models.TypeHousehold:
		if p.Category == "" {
			return "category is required"
		}
	case models.TypeSplit:
		// Lend-created splits have a single participant and no category;
		// only multi-participant splits must carry one.
		if p.Category == "" && len(p.Participants) > 1 {
			return "category is required"
		}
	case models.TypeDebtPayment:
		if p.CounterpartyUserID == "" && p.CounterpartyContactID == "" {
			return "a counterparty is required"
		}
		if p.CounterpartyUserID == p.PayerUserID && p.CounterpartyContactID == p.PayerContactID {
			return "counterparty must be different from the payer"
		}
	}

	if p.Type == models.TypeSplit {
		if len(p.Participants) == 0 {
			return "at least one participant is required"
		}
		sum := 0.0
		for _, pp := range p.Participants {
			if pp.UserID == "" && pp.ContactID == "" {
				return "every participant needs a user or contact reference"
			}
			sum += pp.Percentage
		}
		if math.Abs(sum-1.0) > fractionTolerance {
			return "participant percentages must sum to 1.0"
		}
	} else if len(p.Participants) > 0 {
		return "participants are only allowed on SPLIT movements"
	}

	return ""
}

func validateUpdate(u *models.MovementUpdate) string {
	if u.Date == "" {
		return "movement_date is required"
	}
	if _, err := time.Parse("2006-01-02", u.Date); err != nil {
		return "movement_date must be in YYYY-MM-DD format"
	}
	if math.IsNaN(u.Amount) || math.IsInf(u.Amount, 0) || u.Amount <= 0 {
		return "amount must be greater than zero"
	}
	if u.Description == "" {
		return "description is required"
	}
	if u.Shares != nil {
		sum := 0.0
		for _, sh := range u.Shares {
			sum += sh.Percentage
		}
		if math.Abs(sum-1.0) > fractionTolerance {
			return "participant percentages must sum to 1.0"
		}
	}
	return ""
}

func validateIncomePayload(p *api.IncomePayload) string {
	if p.MemberID == "" {
		return "member_id is required"
	}
	if p.Type == "" {
		return "income type is required"
	}
	if p.AccountID == "" {
		return "account_id is required"
	}
	if p.IncomeDate == "" {
		return "income_date is required"
	}
	if _, err := time.Parse("2006-01-02", p.IncomeDate); err != nil {
		return "income_date must be in YYYY-MM-DD format"
	}
	if math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) || p.Amount <= 0 {
		return "amount must be greater than zero"
	}
	return ""
}
