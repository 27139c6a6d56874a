package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ditfinops/opex_backend/middlewares"
	"github.com/ditfinops/opex_backend/models"
	"github.com/ditfinops/opex_backend/utils"
	"github.com/gin-gonic/gin"
)

type masterHandlers struct {
	create func(context.Context, *models.NewMaster) (interface{}, error)
	update func(context.Context, int, *models.NewMaster) (interface{}, error)
	delete func(context.Context, int) (interface{}, error)
	list   func(context.Context) (interface{}, error)
}

func registerMasterRoutes(api *gin.RouterGroup) {
	editors := middlewares.RequireRole(string(models.UserRoleAdmin), string(models.UserRoleEditor))

	registerMaster(api, editors, "towers", masterHandlers{
		create: func(ctx context.Context, in *models.NewMaster) (interface{}, error) { return models.CreateTower(ctx, in) },
		update: func(ctx context.Context, id int, in *models.NewMaster) (interface{}, error) {
			return models.UpdateTower(ctx, id, in)
		},
		delete: func(ctx context.Context, id int) (interface{}, error) { return models.DeleteTower(ctx, id) },
		list:   func(ctx context.Context) (interface{}, error) { return models.GetTowers(ctx) },
	})
	registerMaster(api, editors, "vendors", masterHandlers{
		create: func(ctx context.Context, in *models.NewMaster) (interface{}, error) { return models.CreateVendor(ctx, in) },
		update: func(ctx context.Context, id int, in *models.NewMaster) (interface{}, error) {
			return models.UpdateVendor(ctx, id, in)
		},
		delete: func(ctx context.Context, id int) (interface{}, error) { return models.DeleteVendor(ctx, id) },
		list:   func(ctx context.Context) (interface{}, error) { return models.GetVendors(ctx) },
	})
	registerMaster(api, editors, "budget-heads", masterHandlers{
		create: func(ctx context.Context, in *models.NewMaster) (interface{}, error) { return models.CreateBudgetHead(ctx, in) },
		update: func(ctx context.Context, id int, in *models.NewMaster) (interface{}, error) {
			return models.UpdateBudgetHead(ctx, id, in)
		},
		delete: func(ctx context.Context, id int) (interface{}, error) { return models.DeleteBudgetHead(ctx, id) },
		list:   func(ctx context.Context) (interface{}, error) { return models.GetBudgetHeads(ctx) },
	})
	registerMaster(api, editors, "fiscal-years", masterHandlers{
		create: func(ctx context.Context, in *models.NewMaster) (interface{}, error) { return models.CreateFiscalYear(ctx, in) },
		update: func(ctx context.Context, id int, in *models.NewMaster) (interface{}, error) {
			return models.UpdateFiscalYear(ctx, id, in)
		},
		delete: func(ctx context.Context, id int) (interface{}, error) { return models.DeleteFiscalYear(ctx, id) },
		list:   func(ctx context.Context) (interface{}, error) { return models.GetFiscalYears(ctx) },
	})
	registerMaster(api, editors, "po-entities", masterHandlers{
		create: func(ctx context.Context, in *models.NewMaster) (interface{}, error) { return models.CreatePOEntity(ctx, in) },
		update: func(ctx context.Context, id int, in *models.NewMaster) (interface{}, error) {
			return models.UpdatePOEntity(ctx, id, in)
		},
		delete: func(ctx context.Context, id int) (interface{}, error) { return models.DeletePOEntity(ctx, id) },
		list:   func(ctx context.Context) (interface{}, error) { return models.GetPOEntities(ctx) },
	})
	registerMaster(api, editors, "service-types", masterHandlers{
		create: func(ctx context.Context, in *models.NewMaster) (interface{}, error) { return models.CreateServiceType(ctx, in) },
		update: func(ctx context.Context, id int, in *models.NewMaster) (interface{}, error) {
			return models.UpdateServiceType(ctx, id, in)
		},
		delete: func(ctx context.Context, id int) (interface{}, error) { return models.DeleteServiceType(ctx, id) },
		list:   func(ctx context.Context) (interface{}, error) { return models.GetServiceTypes(ctx) },
	})
	registerMaster(api, editors, "allocation-bases", masterHandlers{
		create: func(ctx context.Context, in *models.NewMaster) (interface{}, error) {
			return models.CreateAllocationBasisName(ctx, in)
		},
		update: func(ctx context.Context, id int, in *models.NewMaster) (interface{}, error) {
			return models.UpdateAllocationBasisName(ctx, id, in)
		},
		delete: func(ctx context.Context, id int) (interface{}, error) { return models.DeleteAllocationBasisName(ctx, id) },
		list:   func(ctx context.Context) (interface{}, error) { return models.GetAllocationBasisNames(ctx) },
	})

	// entities are create/list only: immutable once created
	api.POST("/entities", editors, createEntityHandler())
	api.GET("/entities", listEntitiesHandler())
}

func registerMaster(api *gin.RouterGroup, editors gin.HandlerFunc, path string, h masterHandlers) {
	api.GET("/"+path, func(c *gin.Context) {
		result, err := h.list(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	})
	api.POST("/"+path, editors, func(c *gin.Context) {
		var input models.NewMaster
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		result, err := h.create(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, result)
	})
	api.PUT("/"+path+"/:id", editors, func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		var input models.NewMaster
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		result, err := h.update(c.Request.Context(), id, &input)
		if err != nil {
			status := http.StatusBadRequest
			if err == utils.ErrorRecordNotFound {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	})
	api.DELETE("/"+path+"/:id", editors, func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		result, err := h.delete(c.Request.Context(), id)
		if err != nil {
			status := http.StatusBadRequest
			if err == utils.ErrorRecordNotFound {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func createEntityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewEntity
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		entity, err := models.CreateEntity(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, entity)
	}
}

func listEntitiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		entities, err := models.GetEntities(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entities)
	}
}
