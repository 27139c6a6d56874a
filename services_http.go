package main

import (
	"net/http"
	"strconv"

	"github.com/ditfinops/opex_backend/middlewares"
	"github.com/ditfinops/opex_backend/models"
	"github.com/ditfinops/opex_backend/utils"
	"github.com/gin-gonic/gin"
)

func registerServiceRoutes(api *gin.RouterGroup) {
	editors := middlewares.RequireRole(string(models.UserRoleAdmin), string(models.UserRoleEditor))

	api.GET("/services", listServicesHandler())
	api.GET("/services/:id", getServiceHandler())
	api.PUT("/services/:id", editors, updateServiceHandler())
	api.DELETE("/services/:id", middlewares.RequireRole(string(models.UserRoleAdmin)), deleteServiceHandler())
	api.GET("/services/:id/audit", serviceAuditHandler())
}

func listServicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ServiceFilter
		if v := c.Query("uid"); v != "" {
			filter.Uid = &v
		}
		if v := c.Query("tower_id"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.TowerId = &n
			}
		}
		if v := c.Query("vendor_id"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.VendorId = &n
			}
		}
		if v := c.Query("fiscal_year_id"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.FiscalYearId = &n
			}
		}

		services, err := models.GetServices(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, services)
	}
}

func getServiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		service, err := models.GetService(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}
		c.JSON(http.StatusOK, service)
	}
}

func updateServiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		var input models.UpdateServiceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		service, err := models.UpdateService(c.Request.Context(), id, &input)
		if err != nil {
			status := http.StatusBadRequest
			if err == utils.ErrorRecordNotFound {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, service)
	}
}

func deleteServiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		service, err := models.DeleteService(c.Request.Context(), id)
		if err != nil {
			status := http.StatusBadRequest
			if err == utils.ErrorRecordNotFound {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, service)
	}
}

func serviceAuditHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		refType := "services"
		logs, err := models.GetAuditLogs(c.Request.Context(), &refType, &id, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}
