package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"powerview/internal/api/models"
	"powerview/internal/config"
	"powerview/internal/data"
	"powerview/internal/model"
	"powerview/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

type seriesBody struct {
	ID         string      `json:"id"`
	Interval   string      `json:"interval"`
	Categories []time.Time `json:"categories"`
	Series     []struct {
		Label  string            `json:"label"`
		Code   string            `json:"obis_code"`
		Values []json.RawMessage `json:"values"`
	} `json:"series"`
	Normalized []json.RawMessage `json:"normalized"`
	Skipped    []json.RawMessage `json:"skipped"`
}

func (b seriesBody) values(label string, mc model.MetricCode) []json.RawMessage {
	for _, s := range b.Series {
		if s.Label == label && s.Code == mc.String() {
			return s.Values
		}
	}
	return nil
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := NewSeriesHandler(cfg, data.NewResultCache(time.Hour), observability.NewMetrics(), logger)
	require.NoError(t, err)

	r := gin.New()
	api := r.Group("/api/v1")
	api.GET("/capabilities", h.ListCapabilities)
	api.POST("/series", h.Prepare)
	api.GET("/series/:id", h.Get)
	api.POST("/leak", h.Leak)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// waterRequest has one flat with a cold water meter advancing 0.5 m3 every hour.
func waterRequest(hours int) models.PrepareRequest {
	req := models.PrepareRequest{
		Start: t0,
		End:   t0.Add(time.Duration(hours+1) * time.Hour),
	}
	for i := 0; i <= hours; i++ {
		req.Readings = append(req.Readings, model.ReadingRow{
			Label:     "flat-1",
			DeviceID:  "water-7",
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Code:      model.ColdWaterVolume1,
			Value:     float64(1000 + 500*i),
			Scale:     -3,
			Unit:      model.CubicMetre,
		})
	}
	return req
}

func prepare(t *testing.T, r http.Handler, req models.PrepareRequest) seriesBody {
	t.Helper()
	rec := do(r, http.MethodPost, "/api/v1/series", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body seriesBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPrepareSeries(t *testing.T) {
	r := newTestRouter(t, nil)
	body := prepare(t, r, waterRequest(8))

	assert.NotEmpty(t, body.ID)
	assert.Equal(t, "60-minutes", body.Interval)
	assert.Len(t, body.Categories, 9)
	assert.Len(t, body.values("flat-1", model.ColdWaterVolume1Delta), 9)
	assert.Len(t, body.values("flat-1", model.ColdWaterVolume1.ToPeriod()), 9)
	assert.Empty(t, body.Normalized)
	assert.NotNil(t, body.Skipped)
}

func TestGetCachedSeries(t *testing.T) {
	r := newTestRouter(t, nil)
	prepared := prepare(t, r, waterRequest(3))

	rec := do(r, http.MethodGet, "/api/v1/series/"+prepared.ID+"?include_normalized=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body seriesBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, prepared.ID, body.ID)
	assert.Len(t, body.Normalized, 1)

	rec = do(r, http.MethodGet, "/api/v1/series/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "RESULT_NOT_FOUND")
}

func TestPrepareRejectsBadInput(t *testing.T) {
	r := newTestRouter(t, nil)

	req := waterRequest(2)
	req.Interval = "7-minutes"
	rec := do(r, http.MethodPost, "/api/v1/series", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "out of range")

	req = waterRequest(2)
	req.Timezone = "Mars/Olympus_Mons"
	rec = do(r, http.MethodPost, "/api/v1/series", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TIMEZONE")

	rec = do(r, http.MethodPost, "/api/v1/series", map[string]string{"start": "yesterday"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
}

func TestLeak(t *testing.T) {
	r := newTestRouter(t, nil)
	prepared := prepare(t, r, waterRequest(8))

	rec := do(r, http.MethodPost, "/api/v1/leak", models.LeakRequest{
		ID:    prepared.ID,
		Label: "flat-1",
		From:  t0,
		To:    t0.Add(8 * time.Hour),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.LeakResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "LEAK", resp.Verdict)
	assert.Equal(t, model.ColdWaterVolume1Delta, resp.Code)
	require.NotNil(t, resp.Value)
	assert.InDelta(t, 3.5, resp.Value.Value, 1e-9)
	assert.Equal(t, model.CubicMetre, resp.Value.Unit)
}

func TestLeakInsufficientData(t *testing.T) {
	r := newTestRouter(t, nil)
	prepared := prepare(t, r, waterRequest(3))

	rec := do(r, http.MethodPost, "/api/v1/leak", models.LeakRequest{
		ID:    prepared.ID,
		Label: "flat-1",
		From:  t0,
		To:    t0.Add(4 * time.Hour),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.LeakResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INSUFFICIENT_DATA", resp.Verdict)
	assert.Nil(t, resp.Value)

	rec = do(r, http.MethodPost, "/api/v1/leak", models.LeakRequest{
		ID:    prepared.ID,
		Label: "flat-2",
		From:  t0,
		To:    t0.Add(4 * time.Hour),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, http.MethodPost, "/api/v1/leak", models.LeakRequest{
		ID:    prepared.ID,
		Label: "flat-1",
		Code:  model.ColdWaterVolume1,
		From:  t0,
		To:    t0.Add(4 * time.Hour),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCapabilities(t *testing.T) {
	vat := 25
	cfg := &config.Config{
		CostBreakdowns: []config.CostBreakdownConfig{{
			Title:    "grid tariff",
			Currency: model.Dkk,
			Vat:      &vat,
			Entries: []config.EntryConfig{{
				Name:      "peak",
				FromDate:  "2024-01-01",
				ToDate:    "2024-12-31",
				StartHour: 17,
				EndHour:   21,
				Amount:    0.8,
			}},
		}},
		GeneratorSeries: []config.GeneratorConfig{{
			CostBreakdown: "grid tariff",
			Code:          model.MustParseMetricCode("1.65.1.8.0.255"),
			BaseCode:      model.ElectrActiveEnergyA14Delta,
		}},
	}
	cfg.ApplyDefaults()
	r := newTestRouter(t, cfg)

	rec := do(r, http.MethodGet, "/api/v1/capabilities", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.CapabilitiesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Intervals, "60-minutes")
	assert.Len(t, resp.Generators, 4)
	require.Len(t, resp.Bindings, 1)
	assert.Equal(t, "grid tariff", resp.Bindings[0].Title)
	assert.Equal(t, model.Dkk, resp.Bindings[0].Currency)
	assert.Equal(t, 25, resp.Bindings[0].Vat)
	assert.Equal(t, 1, resp.Bindings[0].Entries)
}
