package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/integrity"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondValidationError sends field messages from either the tag validator
// or the lifecycle rules
func respondValidationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)

	var ve validator.ValidationErrors
	var de domain.ValidationErrors
	switch {
	case errors.As(err, &ve):
		for _, fe := range ve {
			fields[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	case errors.As(err, &de):
		fields = de.Fields()
	}

	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: fields,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	default:
		return "Failed rule " + fe.Tag()
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	default:
		return domain.ErrorTypeInternal
	}
}

// respondServiceError maps a service error to its HTTP response. Only
// unexpected errors are logged.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	var ve domain.ValidationErrors
	var blocked *domain.IntegrityBlocked

	switch {
	case errors.As(err, &ve):
		respondValidationError(w, ve)
	case errors.As(err, &blocked):
		respondJSON(w, http.StatusConflict, domain.APIError{
			Type:     domain.ErrorTypeBlocked,
			Title:    http.StatusText(http.StatusConflict),
			Status:   http.StatusConflict,
			Detail:   blocked.Error(),
			Blockers: blocked.Blockers,
		})
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Entity not found")
	case errors.Is(err, domain.ErrDuplicateAssignment):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, integrity.ErrUnknownKind),
		errors.Is(err, service.ErrUnsupportedKind),
		errors.Is(err, service.ErrInvalidPayload):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrArchiveDisabled):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("failed to "+action, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// decodeJSON reads a JSON body into v and answers 400 itself on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// readBody returns the raw request body
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return body, true
}

// parseID reads the {id} path parameter and answers 400 itself on failure
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}

// parsePage reads page and pageSize; repository.NormalizePage clamps them
func parsePage(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	return repository.NormalizePage(page, pageSize)
}

// parseSort reads sortBy and sortOrder. An empty field lets each list fall
// back to its own default order.
func parseSort(r *http.Request) repository.SortConfig {
	return repository.SortConfig{
		Field: r.URL.Query().Get("sortBy"),
		Order: repository.ParseSortOrder(r.URL.Query().Get("sortOrder")),
	}
}

// queryInt64 parses an optional positive id filter
func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &v, nil
}

// queryBool parses an optional boolean filter
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &v, nil
}

// idParam binds a query parameter name to the filter field it fills
type idParam struct {
	name   string
	target **int64
}

// queryIDs parses several id filters in order, stopping at the first error
func queryIDs(r *http.Request, params ...idParam) error {
	for _, p := range params {
		v, err := queryInt64(r, p.name)
		if err != nil {
			return err
		}
		*p.target = v
	}
	return nil
}

// pathKind resolves the {kind} path parameter
func pathKind(w http.ResponseWriter, r *http.Request) (domain.EntityKind, bool) {
	kind, ok := domain.ParseEntityKind(chi.URLParam(r, "kind"))
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Unknown entity kind")
		return "", false
	}
	return kind, true
}
