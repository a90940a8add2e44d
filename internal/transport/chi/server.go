package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/domain"
	"github.com/kailas-cloud/folio/internal/domain/item"
	"github.com/kailas-cloud/folio/internal/domain/search/query"
	adminuc "github.com/kailas-cloud/folio/internal/usecase/admin"
	cataloguc "github.com/kailas-cloud/folio/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/folio/internal/usecase/health"
	recentuc "github.com/kailas-cloud/folio/internal/usecase/recent"
	searchuc "github.com/kailas-cloud/folio/internal/usecase/search"
)

const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the folio HTTP API.
type Server struct {
	catalog       *cataloguc.Service
	search        *searchuc.Service
	recent        *recentuc.Recorder
	admin         *adminuc.Service
	health        *healthuc.Service
	live          http.Handler
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog *cataloguc.Service,
	search *searchuc.Service,
	recent *recentuc.Recorder,
	admin *adminuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		catalog: catalog,
		search:  search,
		recent:  recent,
		admin:   admin,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeAlreadyExists),
		sentinelHandler(domain.ErrInvalidItem, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeInvalidQuery),
		sentinelHandler(domain.ErrInvalidKind, http.StatusNotFound, ErrorCodeInvalidKind),
		sentinelHandler(domain.ErrInvalidSession, http.StatusBadRequest, ErrorCodeInvalidSession),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, ErrorCodeUnauthorized),
		sentinelHandler(domain.ErrSnapshotNotReady, http.StatusServiceUnavailable, ErrorCodeNotReady),
	}
	return s
}

// WithLive mounts the live-search WebSocket handler at /api/v1/live.
func (s *Server) WithLive(h http.Handler) *Server {
	s.live = h
	return s
}

// Register mounts every route on r.
func (s *Server) Register(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	var verifier TokenVerifier
	if s.admin != nil {
		verifier = s.admin
	}
	requireAdmin := BearerAuthMiddleware(verifier, s.logger)

	r.Route("/api/v1", func(r gochi.Router) {
		r.Post("/admin/login", s.AdminLogin)
		r.With(requireAdmin).Post("/admin/logout", s.AdminLogout)
		r.Get("/recent", s.ListRecent)
		r.Delete("/recent", s.ClearRecent)
		if s.live != nil {
			r.Handle("/live", s.live)
		}

		r.Route("/{kind}", func(r gochi.Router) {
			r.Get("/", s.ListItems)
			r.Get("/search", s.SearchItems)
			r.Get("/categories", s.ListCategories)
			r.Get("/{id}", s.GetItem)
			r.With(requireAdmin).Post("/", s.CreateItem)
			r.With(requireAdmin).Put("/{id}", s.UpdateItem)
			r.With(requireAdmin).Delete("/{id}", s.DeleteItem)
		})
	})
}

// Handler returns a router with every route mounted.
func (s *Server) Handler() http.Handler {
	r := gochi.NewRouter()
	s.Register(r)
	return r
}

// ListItems handles GET /api/v1/{kind}.
func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.bindKind(w, r)
	if !ok {
		return
	}
	items, err := s.catalog.List(r.Context(), kind)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	resp := ItemListResponse{Items: make([]ItemResponse, len(items)), Total: len(items)}
	for i, it := range items {
		resp.Items[i] = ItemToResponse(it)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetItem handles GET /api/v1/{kind}/{id}.
func (s *Server) GetItem(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.bindKind(w, r)
	if !ok {
		return
	}
	it, err := s.catalog.Get(r.Context(), kind, gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemToResponse(it))
}

// CreateItem handles POST /api/v1/{kind}.
func (s *Server) CreateItem(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.bindKind(w, r)
	if !ok {
		return
	}
	var req ItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	it, err := s.catalog.Create(r.Context(), kind, req.ID, req.fields())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.Header().Set("Location", r.URL.Path+"/"+it.ID())
	writeJSON(w, http.StatusCreated, ItemToResponse(it))
}

// UpdateItem handles PUT /api/v1/{kind}/{id}.
func (s *Server) UpdateItem(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.bindKind(w, r)
	if !ok {
		return
	}
	var req ItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id := gochi.URLParam(r, "id")
	if req.ID != "" && req.ID != id {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "body id does not match path id")
		return
	}
	it, err := s.catalog.Update(r.Context(), kind, id, req.fields())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemToResponse(it))
}

// DeleteItem handles DELETE /api/v1/{kind}/{id}.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.bindKind(w, r)
	if !ok {
		return
	}
	if err := s.catalog.Delete(r.Context(), kind, gochi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchParams are the query parameters of GET /api/v1/{kind}/search.
type SearchParams struct {
	Q        *string
	Category *string
	Session  *string
}

// SearchItems handles GET /api/v1/{kind}/search.
func (s *Server) SearchItems(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.bindKind(w, r)
	if !ok {
		return
	}
	var params SearchParams
	qs := r.URL.Query()
	for name, dest := range map[string]**string{"q": &params.Q, "category": &params.Category, "session": &params.Session} {
		if err := runtime.BindQueryParameter("form", true, false, name, qs, dest); err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid query parameter "+name)
			return
		}
	}

	q, err := query.New(deref(params.Q), deref(params.Category))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidQuery, err.Error())
		return
	}
	out, err := s.search.Search(r.Context(), kind, q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if params.Session != nil && s.recent != nil {
		if err := s.recent.Observe(*params.Session, q.Text()); err != nil {
			s.logger.Debug("recent search not recorded", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, OutcomeToResponse(out))
}

// ListCategories handles GET /api/v1/{kind}/categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.bindKind(w, r)
	if !ok {
		return
	}
	cats, err := s.search.Categories(r.Context(), kind)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: cats})
}

// ListRecent handles GET /api/v1/recent.
func (s *Server) ListRecent(w http.ResponseWriter, r *http.Request) {
	session, ok := bindSession(w, r)
	if !ok {
		return
	}
	queries, err := s.recent.List(r.Context(), session)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RecentResponse{Session: session, Queries: queries})
}

// ClearRecent handles DELETE /api/v1/recent.
func (s *Server) ClearRecent(w http.ResponseWriter, r *http.Request) {
	session, ok := bindSession(w, r)
	if !ok {
		return
	}
	if err := s.recent.Clear(r.Context(), session); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminLogin handles POST /api/v1/admin/login.
func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if s.admin == nil {
		writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "admin access is disabled")
		return
	}
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := s.admin.Login(r.Context(), req.Phone, req.Passcode)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt})
}

// AdminLogout handles POST /api/v1/admin/logout.
func (s *Server) AdminLogout(w http.ResponseWriter, r *http.Request) {
	token, _ := bearerToken(r)
	if err := s.admin.Logout(r.Context(), token); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// bindKind parses the {kind} path parameter. It writes the error response itself.
func (s *Server) bindKind(w http.ResponseWriter, r *http.Request) (item.Kind, bool) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", "kind", gochi.URLParam(r, "kind"), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid kind parameter")
		return "", false
	}
	kind, ok := item.ParseKind(raw)
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodeInvalidKind, "unknown collection "+raw)
		return "", false
	}
	return kind, true
}

func bindSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	var session string
	if err := runtime.BindQueryParameter("form", true, true, "session", r.URL.Query(), &session); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidSession, "session query parameter is required")
		return "", false
	}
	return session, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// SafeMessage returns the client-facing message for err.
func SafeMessage(err error) string { return safeDomainMessage(err) }

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidItem,
		domain.ErrInvalidQuery,
		domain.ErrInvalidKind,
		domain.ErrInvalidSession,
		domain.ErrUnauthorized,
		domain.ErrSnapshotNotReady,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			if s == domain.ErrInvalidItem || s == domain.ErrInvalidSession {
				return err.Error()
			}
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
