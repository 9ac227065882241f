package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/product-api/internal/api"
	"github.com/phrazzld/product-api/internal/config"
	"github.com/phrazzld/product-api/internal/domain"
	"github.com/phrazzld/product-api/internal/platform/sqlstore"
	"github.com/phrazzld/product-api/internal/service"
	"github.com/phrazzld/product-api/internal/service/auth"
	"github.com/phrazzld/product-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiToken = "0123456789abcdef-token"

// newServer wires the real stack over a fresh SQLite database holding one
// user whose token is apiToken.
func newServer(t *testing.T, format string) *httptest.Server {
	t.Helper()
	srv, _ := newServerWithDB(t, format)
	return srv
}

func newServerWithDB(t *testing.T, format string) (*httptest.Server, *sql.DB) {
	t.Helper()

	db := testdb.OpenSQLite(t)
	users := sqlstore.NewUserStore(db, sqlstore.SQLite, nil)
	user, err := domain.NewUser("admin", "hash", apiToken)
	require.NoError(t, err)
	_, err = users.Create(context.Background(), user)
	require.NoError(t, err)

	products, err := service.NewProductService(sqlstore.NewProductStore(db, sqlstore.SQLite, nil), nil)
	require.NoError(t, err)

	srv := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Products:       products,
		Authenticator:  auth.NewTokenAuthenticator(users, nil),
		DB:             db,
		ResponseFormat: format,
		RequestTimeout: 5 * time.Second,
	}))
	t.Cleanup(srv.Close)
	return srv, db
}

type response struct {
	status      int
	contentType string
	body        string
}

func call(t *testing.T, srv *httptest.Server, method, path, authHeader, body string) response {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        string(raw),
	}
}

func authed(t *testing.T, srv *httptest.Server, method, path, body string) response {
	t.Helper()
	return call(t, srv, method, path, "Bearer "+apiToken, body)
}

const validProduct = `{"productEANCodes":"1234567890123","productName":"Widget",` +
	`"productManufacturer":"Acme","productCategory":"Tools","productPrice":9.99}`

func TestAuthentication(t *testing.T) {
	t.Parallel()
	srv := newServer(t, config.ResponseFormatLegacy)

	tests := []struct {
		name   string
		method string
		path   string
		header string
		status int
		body   string
	}{
		{"missing header", http.MethodGet, "/product", "", http.StatusBadRequest, `{"message":"No API token supplied."}`},
		{"wrong token", http.MethodGet, "/product", "Bearer nope", http.StatusUnauthorized, `{"message":"Supplied API token is not valid."}`},
		{"no scheme", http.MethodGet, "/product", apiToken, http.StatusUnauthorized, `{"message":"Supplied API token is not valid."}`},
		{"wrong scheme", http.MethodGet, "/product", "Token " + apiToken, http.StatusUnauthorized, `{"message":"Supplied API token is not valid."}`},
		{"token prefix", http.MethodGet, "/product", "Bearer " + apiToken[:10], http.StatusUnauthorized, `{"message":"Supplied API token is not valid."}`},
		{"unknown endpoint needs a token", http.MethodGet, "/nowhere", "", http.StatusBadRequest, `{"message":"No API token supplied."}`},
		{"unknown endpoint with token", http.MethodGet, "/nowhere", "Bearer " + apiToken, http.StatusNotFound, `{"message":"Unknown endpoint."}`},
		{"health is public", http.MethodGet, "/health", "", http.StatusOK, `{"status":"ok"}`},
		{"other methods on health need a token", http.MethodPost, "/health", "", http.StatusBadRequest, `{"message":"No API token supplied."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, srv, tt.method, tt.path, tt.header, "")
			assert.Equal(t, tt.status, resp.status)
			assert.Equal(t, "application/json; charset=utf-8", resp.contentType)
			assert.JSONEq(t, tt.body, resp.body)
		})
	}
}

func TestProductLifecycleLegacy(t *testing.T) {
	t.Parallel()
	srv := newServer(t, config.ResponseFormatLegacy)

	resp := authed(t, srv, http.MethodGet, "/product", "")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `[]`, resp.body, "an empty catalog is an empty list")

	resp = authed(t, srv, http.MethodPost, "/product", validProduct)
	require.Equal(t, http.StatusCreated, resp.status, resp.body)

	var created api.ProductResponse
	require.NoError(t, json.Unmarshal([]byte(resp.body), &created))
	assert.Positive(t, created.ID)
	assert.Equal(t, "Widget", created.Name)
	assert.Equal(t, "9.99", created.Price.String())

	path := "/product/" + jsonInt(created.ID)

	resp = authed(t, srv, http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, resp.status)
	var fetched api.ProductResponse
	require.NoError(t, json.Unmarshal([]byte(resp.body), &fetched))
	assert.Equal(t, created, fetched)

	resp = authed(t, srv, http.MethodPut, path, `{"productPrice":"12.5","productName":"Gadget"}`)
	require.Equal(t, http.StatusOK, resp.status, resp.body)
	var updated api.ProductResponse
	require.NoError(t, json.Unmarshal([]byte(resp.body), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Gadget", updated.Name)
	assert.Equal(t, "12.5", updated.Price.String())
	assert.Equal(t, created.Manufacturer, updated.Manufacturer, "fields not supplied are unchanged")

	resp = authed(t, srv, http.MethodGet, "/product", "")
	assert.Equal(t, http.StatusOK, resp.status)
	var list []api.ProductResponse
	require.NoError(t, json.Unmarshal([]byte(resp.body), &list))
	require.Len(t, list, 1)
	assert.Equal(t, updated, list[0])

	resp = authed(t, srv, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `{"success":"Product with ID `+jsonInt(created.ID)+` successfully deleted."}`, resp.body)

	resp = authed(t, srv, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.JSONEq(t, `{"message":"Could not find product with ID `+jsonInt(created.ID)+` in database."}`, resp.body)

	resp = authed(t, srv, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.JSONEq(t, `{"message":"Product with ID `+jsonInt(created.ID)+` could not be deleted."}`, resp.body)

	resp = authed(t, srv, http.MethodPut, path, `{"productName":"Ghost"}`)
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.JSONEq(t, `{"message":"Product with ID `+jsonInt(created.ID)+` could not be updated."}`, resp.body)
}

func TestProductValidation(t *testing.T) {
	t.Parallel()
	srv := newServer(t, config.ResponseFormatLegacy)

	t.Run("create with an empty object reports every field", func(t *testing.T) {
		resp := authed(t, srv, http.MethodPost, "/product", `{}`)
		assert.Equal(t, http.StatusBadRequest, resp.status)
		assert.JSONEq(t, `{"message":"Validation of product data failed.","validationErrors":[`+
			`"EAN Code(s) can't be shorter than 13 digits.",`+
			`"Product name can't be blank.",`+
			`"Product manufacturer's name can't be blank.",`+
			`"Product category can't be blank.",`+
			`"Product price must be numeric value."]}`, resp.body)
	})

	t.Run("create ignores unknown fields", func(t *testing.T) {
		body := strings.TrimSuffix(validProduct, "}") + `,"productColour":"red"}`
		resp := authed(t, srv, http.MethodPost, "/product", body)
		assert.Equal(t, http.StatusCreated, resp.status, resp.body)
	})

	t.Run("create rejects non-numeric price", func(t *testing.T) {
		body := strings.Replace(validProduct, `9.99`, `true`, 1)
		resp := authed(t, srv, http.MethodPost, "/product", body)
		assert.Equal(t, http.StatusBadRequest, resp.status)
		assert.JSONEq(t, `{"message":"Validation of product data failed.",`+
			`"validationErrors":["Product price must be numeric value."]}`, resp.body)
	})

	resp := authed(t, srv, http.MethodPost, "/product", validProduct)
	require.Equal(t, http.StatusCreated, resp.status)
	var created api.ProductResponse
	require.NoError(t, json.Unmarshal([]byte(resp.body), &created))
	path := "/product/" + jsonInt(created.ID)

	t.Run("update reports supplied fields in order", func(t *testing.T) {
		resp := authed(t, srv, http.MethodPut, path, `{"productPrice":"abc","productColour":"red","productEANCodes":"123"}`)
		assert.Equal(t, http.StatusBadRequest, resp.status)
		assert.JSONEq(t, `{"message":"Validation of product data failed.","validationErrors":[`+
			`"Product price must be numeric value.",`+
			`"Unknown validation error occurred.",`+
			`"EAN Code(s) can't be shorter than 13 digits."]}`, resp.body)

		after := authed(t, srv, http.MethodGet, path, "")
		var product api.ProductResponse
		require.NoError(t, json.Unmarshal([]byte(after.body), &product))
		assert.Equal(t, created, product, "a rejected update writes nothing")
	})

	t.Run("update with an empty object", func(t *testing.T) {
		resp := authed(t, srv, http.MethodPut, path, `{}`)
		assert.Equal(t, http.StatusBadRequest, resp.status)
		assert.JSONEq(t, `{"message":"No product data supplied in request."}`, resp.body)
	})
}

func TestProductPrices(t *testing.T) {
	t.Parallel()
	srv := newServer(t, config.ResponseFormatLegacy)

	withPrice := func(price string) string {
		return strings.Replace(validProduct, `9.99`, price, 1)
	}

	t.Run("exponent forms are numeric", func(t *testing.T) {
		for price, want := range map[string]string{`1e3`: "1000", `"9.99E0"`: "9.99", `".5"`: "0.5"} {
			resp := authed(t, srv, http.MethodPost, "/product", withPrice(price))
			require.Equal(t, http.StatusCreated, resp.status, resp.body)

			var created api.ProductResponse
			require.NoError(t, json.Unmarshal([]byte(resp.body), &created))
			assert.Equal(t, want, created.Price.String(), price)
		}
	})

	t.Run("prices beyond float64 are rejected and the list stays readable", func(t *testing.T) {
		before := authed(t, srv, http.MethodGet, "/product", "")
		require.Equal(t, http.StatusOK, before.status)

		for _, price := range []string{"1" + strings.Repeat("0", 400), `"1e400"`} {
			resp := authed(t, srv, http.MethodPost, "/product", withPrice(price))
			assert.Equal(t, http.StatusBadRequest, resp.status)
			assert.JSONEq(t, `{"message":"Validation of product data failed.",`+
				`"validationErrors":["Product price must be numeric value."]}`, resp.body)
		}

		after := authed(t, srv, http.MethodGet, "/product", "")
		assert.Equal(t, http.StatusOK, after.status)
		assert.JSONEq(t, before.body, after.body, "rejected prices write nothing")
	})
}

func TestUnreadableStoredPrice(t *testing.T) {
	t.Parallel()
	srv, db := newServerWithDB(t, config.ResponseFormatEnvelope)

	_, err := db.ExecContext(context.Background(), `INSERT INTO products
		(productEANCodes, productName, productManufacturer, productCategory, productPrice)
		VALUES ('1234567890123', 'Broken', 'Acme', 'Tools', 1e999)`)
	require.NoError(t, err)

	resp := authed(t, srv, http.MethodGet, "/product", "")
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, "application/json; charset=utf-8", resp.contentType)
	assert.JSONEq(t, `{"status":"error","error":{"message":"Could not return products due to database error."}}`, resp.body)
}

func TestProductLifecycleEnvelope(t *testing.T) {
	t.Parallel()
	srv := newServer(t, config.ResponseFormatEnvelope)

	resp := authed(t, srv, http.MethodGet, "/product", "")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `{"status":"success","data":[]}`, resp.body)

	resp = authed(t, srv, http.MethodPost, "/product", validProduct)
	require.Equal(t, http.StatusCreated, resp.status, resp.body)
	var envelope struct {
		Status string              `json:"status"`
		Data   api.ProductResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.body), &envelope))
	assert.Equal(t, "success", envelope.Status)
	id := jsonInt(envelope.Data.ID)

	resp = authed(t, srv, http.MethodDelete, "/product/"+id, "")
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `{"status":"success","data":{"message":"Product with ID `+id+` successfully deleted."}}`, resp.body)

	resp = authed(t, srv, http.MethodDelete, "/product/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.JSONEq(t, `{"status":"error","error":{"message":"Product with ID `+id+` could not be deleted."}}`, resp.body)

	resp = authed(t, srv, http.MethodPost, "/product", `{"productName":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.status)
	var failed struct {
		Status string `json:"status"`
		Error  struct {
			Message          string   `json:"message"`
			ValidationErrors []string `json:"validationErrors"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.body), &failed))
	assert.Equal(t, "error", failed.Status)
	assert.Equal(t, "Validation of product data failed.", failed.Error.Message)
	assert.Len(t, failed.Error.ValidationErrors, 5)

	resp = call(t, srv, http.MethodGet, "/product", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.JSONEq(t, `{"status":"error","error":{"message":"No API token supplied."}}`, resp.body)
}

func jsonInt(id int64) string {
	data, _ := json.Marshal(id)
	return string(data)
}
