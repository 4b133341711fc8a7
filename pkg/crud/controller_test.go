package crud_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/backoffice/pkg/crud"
	"github.com/opsdesk/backoffice/pkg/eventbus"
)

func setupEmployeeServer(t *testing.T) *mux.Router {
	t.Helper()
	schema := employeeSchema()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	service := crud.NewDefaultService(schema, crud.NewMemoryRepository(schema), eventbus.NewEventPublisher(log))
	router := mux.NewRouter()
	crud.NewController("/employees", schema, service).Register(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestController_Lifecycle(t *testing.T) {
	router := setupEmployeeServer(t)

	// create
	resp := doJSON(t, router, http.MethodPost, "/employees", map[string]any{
		"name":       "Jane Doe",
		"department": "Logistics",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "Jane Doe", created["name"])
	assert.Equal(t, "active", created["status"])
	id, ok := created["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	// appears in the listing
	resp = doJSON(t, router, http.MethodGet, "/employees", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var listing struct {
		Data  []map[string]any `json:"data"`
		Total int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	require.Len(t, listing.Data, 1)
	assert.Equal(t, int64(1), listing.Total)

	// partial update keeps untouched fields
	resp = doJSON(t, router, http.MethodPut, "/employees/"+id, map[string]any{
		"department": "Finance",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var updated map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "Finance", updated["department"])
	assert.Equal(t, "Jane Doe", updated["name"])

	// delete
	resp = doJSON(t, router, http.MethodDelete, "/employees/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/employees/"+id, nil)
	require.Equal(t, http.StatusNotFound, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/employees", nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	assert.Empty(t, listing.Data)
	assert.Equal(t, int64(0), listing.Total)
}

func TestController_ValidationErrors(t *testing.T) {
	router := setupEmployeeServer(t)

	t.Run("MissingRequiredField", func(t *testing.T) {
		resp := doJSON(t, router, http.MethodPost, "/employees", map[string]any{
			"department": "Logistics",
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		var envelope struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		assert.Equal(t, "VALIDATION_FAILED", envelope.Code)
		assert.Equal(t, "required", envelope.Fields["name"])
	})

	t.Run("UnparseableDate", func(t *testing.T) {
		resp := doJSON(t, router, http.MethodPost, "/employees", map[string]any{
			"name":     "Jane Doe",
			"hired_at": "03/01/2024",
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("DiscriminantDrivenRequiredness", func(t *testing.T) {
		resp := doJSON(t, router, http.MethodPost, "/employees", map[string]any{
			"name":             "Jane Doe",
			"nationality_type": "foreigner",
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		var envelope struct {
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		assert.Contains(t, envelope.Fields, "residency_number")
	})

	t.Run("InvalidID", func(t *testing.T) {
		resp := doJSON(t, router, http.MethodGet, "/employees/not-a-uuid", nil)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestController_ListFiltering(t *testing.T) {
	router := setupEmployeeServer(t)

	for i, dept := range []string{"Logistics", "Logistics", "Finance"} {
		resp := doJSON(t, router, http.MethodPost, "/employees", map[string]any{
			"name":       fmt.Sprintf("Employee %d", i),
			"department": dept,
		})
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	resp := doJSON(t, router, http.MethodGet, "/employees?department=Logistics", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var listing struct {
		Data  []map[string]any `json:"data"`
		Total int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	assert.Len(t, listing.Data, 2)
	assert.Equal(t, int64(2), listing.Total)

	resp = doJSON(t, router, http.MethodGet, "/employees?q=employee+2", nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	require.Len(t, listing.Data, 1)
	assert.Equal(t, "Finance", listing.Data[0]["department"])
}

func TestController_ExportCSV(t *testing.T) {
	router := setupEmployeeServer(t)

	resp := doJSON(t, router, http.MethodPost, "/employees", map[string]any{
		"name":       "Jane Doe",
		"department": "Logistics",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doJSON(t, router, http.MethodPost, "/employees", map[string]any{
		"name":       `Smith, John "JJ"`,
		"department": "Finance",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/employees/export?format=csv", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "employees_")

	// the document must parse back whole, embedded commas and quotes included
	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Contains(t, records[0], "name")
	names := []string{records[1][1], records[2][1]}
	assert.Contains(t, names, "Jane Doe")
	assert.Contains(t, names, `Smith, John "JJ"`)
}

func TestController_ExportXLSX(t *testing.T) {
	router := setupEmployeeServer(t)

	resp := doJSON(t, router, http.MethodGet, "/employees/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header().Get("Content-Type"))
	assert.NotEmpty(t, resp.Body.Bytes())
}
