package http

import (
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err, "Transaction", log.OpList)
		return
	}
	txs, err := s.svc.Transactions.List(r.Context(), auth.UserIDFrom(r.Context()), filter, s.now())
	if err != nil {
		s.writeError(w, r, err, "Transaction", log.OpList)
		return
	}
	NewJSONResponse().JSON(newTransactionsJSON(txs)).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := DecodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "Transaction", log.OpCreate)
		return
	}
	fields, err := req.Fields()
	if err != nil {
		s.writeError(w, r, err, "Transaction", log.OpCreate)
		return
	}
	t, err := s.svc.Transactions.Create(r.Context(), auth.UserIDFrom(r.Context()), fields)
	if err != nil {
		s.writeError(w, r, err, "Transaction", log.OpCreate)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).JSON(newTransactionJSON(t)).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := DecodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "Transaction", log.OpUpdate)
		return
	}
	fields, err := req.Fields()
	if err != nil {
		s.writeError(w, r, err, "Transaction", log.OpUpdate)
		return
	}
	t, err := s.svc.Transactions.Update(r.Context(), auth.UserIDFrom(r.Context()), r.PathValue("id"), fields)
	if err != nil {
		s.writeError(w, r, err, "Transaction", log.OpUpdate)
		return
	}
	NewJSONResponse().JSON(newTransactionJSON(t)).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	err := s.svc.Transactions.Delete(r.Context(), auth.UserIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err, "Transaction", log.OpDelete)
		return
	}
	NewJSONResponse().Message("Transaction deleted successfully").Write(w)
}
