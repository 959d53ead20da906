package handlers

import (
	"net/http"

	"powerview/internal/api/models"
	"powerview/internal/interval"

	"github.com/gin-gonic/gin"
)

// ListCapabilities handles GET /api/v1/capabilities
func (h *SeriesHandler) ListCapabilities(c *gin.Context) {
	resp := models.CapabilitiesResponse{
		Intervals: interval.Names(),
		Generators: []models.GeneratorInfo{
			{
				Name:        "period",
				Description: "Consumption since the first reading of the window, per cumulative register.",
			},
			{
				Name:        "delta",
				Description: "Consumption between consecutive buckets, per cumulative register. Meter wraps are accommodated.",
			},
			{
				Name:        "average",
				Description: "Average rate over each delta span (W from Wh or J, m3/h from m3).",
			},
			{
				Name:        "net-delta",
				Description: "Imported minus exported active energy per bucket, clamped at zero, in both directions.",
			},
		},
		Bindings: make([]models.CostBindingInfo, 0, len(h.bindings)),
	}
	for _, b := range h.bindings {
		resp.Bindings = append(resp.Bindings, models.CostBindingInfo{
			Title:       b.CostBreakdown.Title,
			Currency:    b.CostBreakdown.Currency,
			Vat:         b.CostBreakdown.Vat,
			Code:        b.Series.Code,
			BaseCode:    b.Series.BaseCode,
			Label:       b.Label,
			TargetLabel: b.TargetLabel,
			Entries:     len(b.CostBreakdown.Entries),
		})
	}
	c.JSON(http.StatusOK, resp)
}
