package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	clientservice "github.com/praxisjuris/praxis/internal/client/service"
	"github.com/praxisjuris/praxis/internal/clock"
	"github.com/praxisjuris/praxis/internal/config"
	contractservice "github.com/praxisjuris/praxis/internal/contract/service"
	invoiceservice "github.com/praxisjuris/praxis/internal/invoice/service"
	lawyerservice "github.com/praxisjuris/praxis/internal/lawyer/service"
	"github.com/praxisjuris/praxis/internal/locks"
	"github.com/praxisjuris/praxis/internal/migration"
	reportsservice "github.com/praxisjuris/praxis/internal/reports/service"
	"github.com/praxisjuris/praxis/internal/server"
	taskservice "github.com/praxisjuris/praxis/internal/task/service"
	teservice "github.com/praxisjuris/praxis/internal/timeentry/service"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// A file-backed throwaway DB: with ":memory:" every pooled connection
	// gets its own empty database, so queries running outside the
	// transaction's connection would not see the migrated tables.
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	genID, err := snowflake.NewNode(6)
	require.NoError(t, err)

	cfg := config.DefaultBillingConfig()
	cfg.Timezone = "UTC"
	holder := config.NewStaticBillingConfigHolder(cfg)
	log := zap.NewNop()
	fc := clock.NewFakeClock(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC))

	ledger := teservice.NewService(teservice.ServiceParam{
		DB: db, Log: log, GenID: genID, Billing: holder,
	})
	taskSvc := taskservice.NewService(taskservice.ServiceParam{
		DB: db, Log: log, GenID: genID, Ledger: ledger,
	})
	clientSvc := clientservice.NewService(clientservice.ServiceParam{
		DB: db, Log: log, GenID: genID, TaskSvc: taskSvc,
	})
	lawyerSvc := lawyerservice.NewService(lawyerservice.ServiceParam{
		DB: db, Log: log, GenID: genID,
	})
	contractSvc := contractservice.NewService(contractservice.ServiceParam{
		DB: db, Log: log, GenID: genID,
	})
	invoiceSvc := invoiceservice.NewService(invoiceservice.ServiceParam{
		DB: db, Log: log, GenID: genID, Billing: holder, Clock: fc,
		Locker: locks.NewLocalLocker(),
		Rates:  lawyerservice.NewRateResolver(db),
	})
	reportsSvc := reportsservice.NewService(reportsservice.ServiceParam{
		DB: db, Log: log, Billing: holder, Clock: fc,
	})

	engine := server.NewEngine()
	server.NewServer(server.ServerParams{
		Gin:     engine,
		Cfg:     config.Config{HTTPAddr: ":0"},
		Log:     log,
		DB:      db,
		GenID:   genID,
		Billing: holder,

		LawyerSvc:   lawyerSvc,
		ClientSvc:   clientSvc,
		TaskSvc:     taskSvc,
		Ledger:      ledger,
		ContractSvc: contractSvc,
		InvoiceSvc:  invoiceSvc,
		ReportsSvc:  reportsSvc,
	})
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// dataField decodes with json.Number so snowflake IDs survive the round
// trip without float truncation.
func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Data map[string]any `json:"data"`
	}
	dec := json.NewDecoder(bytes.NewReader(w.Body.Bytes()))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&resp))
	return resp.Data
}

func numField(t *testing.T, data map[string]any, key string) float64 {
	t.Helper()
	n, ok := data[key].(json.Number)
	require.True(t, ok, "field %s is not a number", key)
	v, err := n.Float64()
	require.NoError(t, err)
	return v
}

func TestHealth(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHourlyInvoiceFlow(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/lawyers", gin.H{
		"name": "Ana", "hourly_rate": 50000,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	lawyerID := dataField(t, w)["ID"]

	w = doJSON(t, engine, http.MethodPost, "/api/v1/clients", gin.H{"name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)
	clientID := dataField(t, w)["ID"]

	w = doJSON(t, engine, http.MethodPost, "/api/v1/tasks", gin.H{
		"client_id": fmt.Sprint(clientID), "title": "litigio", "billing_model": "hourly",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := dataField(t, w)["ID"]

	// Zone-naive timestamps are accepted.
	w = doJSON(t, engine, http.MethodPost, "/api/v1/time-entries", gin.H{
		"task_id":    fmt.Sprint(taskID),
		"lawyer_id":  fmt.Sprint(lawyerID),
		"start_time": "2025-03-03T09:00:00",
		"end_time":   "2025-03-03T11:00:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodPost, "/api/v1/invoices", gin.H{
		"task_id": fmt.Sprint(taskID), "with_tax": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inv := dataField(t, w)
	assert.InDelta(t, 100000.0, numField(t, inv, "Subtotal"), 1e-6)
	assert.InDelta(t, 119000.0, numField(t, inv, "Total"), 1e-6)

	// Nothing left to bill: conflict.
	w = doJSON(t, engine, http.MethodPost, "/api/v1/invoices", gin.H{
		"task_id": fmt.Sprint(taskID), "with_tax": true,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInvalidIntervalMapsToBadRequest(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/clients", gin.H{"name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)
	clientID := dataField(t, w)["ID"]

	w = doJSON(t, engine, http.MethodPost, "/api/v1/tasks", gin.H{
		"client_id": fmt.Sprint(clientID), "title": "litigio", "billing_model": "hourly",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := dataField(t, w)["ID"]

	w = doJSON(t, engine, http.MethodPost, "/api/v1/time-entries", gin.H{
		"task_id":    fmt.Sprint(taskID),
		"lawyer_id":  "123",
		"start_time": "2025-03-03T11:00:00",
		"end_time":   "2025-03-03T09:00:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownBillingModelMapsToBadRequest(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/clients", gin.H{"name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)
	clientID := dataField(t, w)["ID"]

	w = doJSON(t, engine, http.MethodPost, "/api/v1/tasks", gin.H{
		"client_id": fmt.Sprint(clientID), "title": "litigio", "billing_model": "retainer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMissingInvoiceMapsToNotFound(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/invoices/12345", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
