package http

import (
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.svc.Categories.List(r.Context(), auth.UserIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err, "Category", log.OpList)
		return
	}
	NewJSONResponse().JSON(newCategoriesJSON(cats)).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := DecodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "Category", log.OpCreate)
		return
	}
	kind, err := core.ParseKind(req.Type)
	if err != nil {
		s.writeError(w, r, err, "Category", log.OpCreate)
		return
	}
	c, err := s.svc.Categories.Create(r.Context(), auth.UserIDFrom(r.Context()), sanitizeInput(req.Name), kind)
	if err != nil {
		s.writeError(w, r, err, "Category", log.OpCreate)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		JSON(categoryJSON{ID: c.ID, Name: c.Name, Type: c.Kind}).
		Write(w)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.svc.Budgets.List(r.Context(), auth.UserIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err, "Budget", log.OpList)
		return
	}
	NewJSONResponse().JSON(newBudgetsJSON(budgets)).Write(w)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := DecodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "Budget", log.OpCreate)
		return
	}
	b, err := s.svc.Budgets.Create(r.Context(), auth.UserIDFrom(r.Context()), sanitizeInput(req.Category), req.Amount)
	if err != nil {
		s.writeError(w, r, err, "Budget", log.OpCreate)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).JSON(newBudgetJSON(b)).Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := DecodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "Budget", log.OpUpdate)
		return
	}
	b, err := s.svc.Budgets.Update(r.Context(), auth.UserIDFrom(r.Context()), r.PathValue("id"), sanitizeInput(req.Category), req.Amount)
	if err != nil {
		s.writeError(w, r, err, "Budget", log.OpUpdate)
		return
	}
	NewJSONResponse().JSON(newBudgetJSON(b)).Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Budgets.Delete(r.Context(), auth.UserIDFrom(r.Context()), r.PathValue("id")); err != nil {
		s.writeError(w, r, err, "Budget", log.OpDelete)
		return
	}
	NewJSONResponse().Message("Budget deleted successfully").Write(w)
}

func (s *Server) handleBudgetOverview(w http.ResponseWriter, r *http.Request) {
	asOf, err := ParseAsOf(r.URL.Query(), s.now())
	if err != nil {
		s.writeError(w, r, err, "Budget", log.OpCompute)
		return
	}
	ov, err := s.svc.Summary.BudgetOverview(r.Context(), auth.UserIDFrom(r.Context()), asOf)
	if err != nil {
		s.writeError(w, r, err, "Budget", log.OpCompute)
		return
	}
	NewJSONResponse().JSON(newBudgetOverviewJSON(ov)).Write(w)
}
