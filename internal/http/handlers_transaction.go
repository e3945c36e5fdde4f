package http

import (
	"net/http"
	"strconv"

	"moneymanager/internal/core"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := decodeTransactionInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := s.transactions.CreateTransaction(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	Created(toTransactionResponse(t)).
		Header("Location", "/transactions/"+strconv.FormatInt(t.ID, 10)).
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := decodeTransactionInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := s.transactions.UpdateTransaction(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(toTransactionResponse(t)).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.transactions.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.transactions.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(toTransactionResponse(t)).Write(w)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	writeTransactions(w, r)(s.transactions.ListTransactions(r.Context()))
}

func (s *Server) handleListByDateRange(w http.ResponseWriter, r *http.Request) {
	dr, err := parseDateRange(r.URL.Query(), true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeTransactions(w, r)(s.transactions.ListByDateRange(r.Context(), *dr))
}

func (s *Server) handleListByType(w http.ResponseWriter, r *http.Request) {
	t, ok := core.ParseTransactionType(r.PathValue("type"))
	if !ok {
		writeError(w, r, fieldError("type", "must be one of INCOME, EXPENSE, TRANSFER"))
		return
	}
	dr, err := parseDateRange(r.URL.Query(), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeTransactions(w, r)(s.transactions.ListByType(r.Context(), t, dr))
}

func (s *Server) handleListByDivision(w http.ResponseWriter, r *http.Request) {
	d, ok := core.ParseDivision(r.PathValue("division"))
	if !ok {
		writeError(w, r, fieldError("division", "must be one of OFFICE, PERSONAL"))
		return
	}
	dr, err := parseDateRange(r.URL.Query(), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeTransactions(w, r)(s.transactions.ListByDivision(r.Context(), d, dr))
}

// handleListByCategory matches the category exactly, including case.
func (s *Server) handleListByCategory(w http.ResponseWriter, r *http.Request) {
	dr, err := parseDateRange(r.URL.Query(), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeTransactions(w, r)(s.transactions.ListByCategory(r.Context(), r.PathValue("category"), dr))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	t, ok := core.ParseTransactionType(r.URL.Query().Get("type"))
	if !ok {
		writeError(w, r, fieldError("type", "must be one of INCOME, EXPENSE, TRANSFER"))
		return
	}
	categories, err := s.transactions.Categories(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	OK(categories).Write(w)
}

// writeTransactions returns a sink for a service list call.
func writeTransactions(w http.ResponseWriter, r *http.Request) func([]core.Transaction, error) {
	return func(txs []core.Transaction, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		OK(toTransactionResponses(txs)).Write(w)
	}
}
