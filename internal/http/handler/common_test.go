package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/integrity"
	"github.com/foxerka/enterprise-assets/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		errType  string
		logged   bool
		blockers int
	}{
		{"validation", domain.ValidationErrors{{Field: "name", Message: "must not be empty"}}, http.StatusBadRequest, domain.ErrorTypeValidation, false, 0},
		{"not found", fmt.Errorf("load: %w", domain.ErrNotFound), http.StatusNotFound, domain.ErrorTypeNotFound, false, 0},
		{"blocked", &domain.IntegrityBlocked{Kind: domain.KindRole, ID: 1, Blockers: []domain.Blocker{{Relation: "users.role_id", Count: 2}}}, http.StatusConflict, domain.ErrorTypeBlocked, false, 1},
		{"duplicate assignment", domain.ErrDuplicateAssignment, http.StatusConflict, domain.ErrorTypeConflict, false, 0},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, false, 0},
		{"unknown kind", fmt.Errorf("%w: planet", integrity.ErrUnknownKind), http.StatusBadRequest, domain.ErrorTypeBadRequest, false, 0},
		{"unsupported kind", service.ErrUnsupportedKind, http.StatusBadRequest, domain.ErrorTypeBadRequest, false, 0},
		{"payload", service.ErrInvalidPayload, http.StatusBadRequest, domain.ErrorTypeBadRequest, false, 0},
		{"archive disabled", service.ErrArchiveDisabled, http.StatusConflict, domain.ErrorTypeConflict, false, 0},
		{"store", &domain.StoreError{Op: "insert", Err: errors.New("disk full")}, http.StatusInternalServerError, domain.ErrorTypeInternal, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			w := httptest.NewRecorder()

			respondServiceError(w, zap.New(core), tt.err, "do thing")

			assert.Equal(t, tt.status, w.Code)
			var body domain.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.errType, body.Type)
			assert.Len(t, body.Blockers, tt.blockers)
			assert.Equal(t, tt.logged, logs.Len() == 1)
		})
	}
}

func TestRespondValidationError_Fields(t *testing.T) {
	w := httptest.NewRecorder()
	respondValidationError(w, domain.ValidationErrors{
		{Field: "quantity", Message: "must be greater than or equal to 0"},
		{Field: "quantity", Message: "second message is dropped"},
		{Field: "typeId", Message: "does not exist"},
	})

	var body domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{
		"quantity": "must be greater than or equal to 0",
		"typeId":   "does not exist",
	}, body.Errors)
}

func TestParseHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?page=0&pageSize=1000&sortBy=name&sortOrder=DESC&typeId=4&active=true&bad=-3", nil)

	page, pageSize := parsePage(r)
	assert.Equal(t, 1, page)
	assert.Equal(t, 200, pageSize)

	sort := parseSort(r)
	assert.Equal(t, "name", sort.Field)
	assert.Equal(t, "desc", string(sort.Order))

	id, err := queryInt64(r, "typeId")
	require.NoError(t, err)
	assert.Equal(t, int64(4), *id)

	missing, err := queryInt64(r, "categoryId")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = queryInt64(r, "bad")
	assert.Error(t, err)

	active, err := queryBool(r, "active")
	require.NoError(t, err)
	assert.True(t, *active)
}

func TestQueryIDs_ReportsFirstInvalidInOrder(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?typeId=2&categoryId=abc&workshopId=0&supplierId=-1", nil)

	for i := 0; i < 20; i++ {
		var typeID, categoryID, workshopID, supplierID *int64
		err := queryIDs(r,
			idParam{"typeId", &typeID},
			idParam{"categoryId", &categoryID},
			idParam{"workshopId", &workshopID},
			idParam{"supplierId", &supplierID},
		)
		require.Error(t, err)
		assert.Equal(t, "invalid categoryId", err.Error())
		require.NotNil(t, typeID)
		assert.Equal(t, int64(2), *typeID)
		assert.Nil(t, workshopID)
	}

	var assetID *int64
	require.NoError(t, queryIDs(httptest.NewRequest(http.MethodGet, "/x?assetId=9", nil), idParam{"assetId", &assetID}))
	assert.Equal(t, int64(9), *assetID)
}

func TestParseID(t *testing.T) {
	route := func(path string) *httptest.ResponseRecorder {
		var got int64
		mux := chi.NewRouter()
		mux.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseID(w, r)
			if !ok {
				return
			}
			got = id
			w.WriteHeader(http.StatusOK)
		})
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code == http.StatusOK {
			assert.Equal(t, int64(42), got)
		}
		return w
	}

	assert.Equal(t, http.StatusOK, route("/items/42").Code)
	assert.Equal(t, http.StatusBadRequest, route("/items/0").Code)
	assert.Equal(t, http.StatusBadRequest, route("/items/x").Code)
}
