package main

import (
	"net/http"
	"strconv"

	"github.com/ditfinops/opex_backend/models"
	"github.com/gin-gonic/gin"
)

func registerReportRoutes(api *gin.RouterGroup) {
	api.GET("/reports/tower-summary", towerSummaryHandler())
	api.GET("/reports/entity-monthly", entityMonthlyHandler())
	api.GET("/reports/fiscal-year-summary", fiscalYearSummaryHandler())
}

func intQuery(c *gin.Context, name string) *int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return &n
		}
	}
	return nil
}

func towerSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := models.GetTowerSummary(c.Request.Context(), intQuery(c, "fiscal_year_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func entityMonthlyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := models.GetEntityMonthly(c.Request.Context(), intQuery(c, "entity_id"), intQuery(c, "fiscal_year_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func fiscalYearSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := models.GetFiscalYearSummary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
