package http

import (
	"net/http"

	"moneymanager/internal/core"
)

// handleCreateAccount reads accountName, initialBalance and accountType from
// the query string, a form body or a JSON body.
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, fieldError("body", "must be form-encoded or a JSON object"))
		return
	}

	name := p.Get("accountName")
	accountType, _ := core.ParseAccountType(p.Get("accountType"))

	verr := core.NewValidationError()
	var balance core.Money
	if raw := p.Get("initialBalance"); raw == "" {
		verr.Add("initialBalance", "is required")
	} else if m, err := core.ParseMoney(raw); err != nil {
		verr.Add("initialBalance", amountMessage(err))
	} else {
		balance = m
	}
	merge(verr, core.ValidateNewAccount(name, accountType))
	if err := verr.OrNil(); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := s.accounts.CreateAccount(r.Context(), name, balance, accountType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	Created(toAccountResponse(account)).
		Header("Location", "/accounts/"+account.Name).
		Write(w)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accounts.ListAccounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(toAccountResponses(accounts)).Write(w)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.accounts.GetAccount(r.Context(), r.PathValue("accountName"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(toAccountResponse(account)).Write(w)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.accounts.DeleteAccount(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	NoContent().Write(w)
}
