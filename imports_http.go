package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ditfinops/opex_backend/config"
	"github.com/ditfinops/opex_backend/imports"
	"github.com/ditfinops/opex_backend/middlewares"
	"github.com/ditfinops/opex_backend/models"
	"github.com/ditfinops/opex_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxImportFileSize = 20 << 20 // 20 MB

func registerImportRoutes(api *gin.RouterGroup) {
	editors := middlewares.RequireRole(string(models.UserRoleAdmin), string(models.UserRoleEditor))

	api.POST("/imports/budgets", editors, importHandler(imports.BudgetImportPolicy()))
	api.POST("/imports/migration", editors, importHandler(imports.MasterMigrationPolicy()))
	api.POST("/imports/boa", editors, importHandler(imports.BoaAllocationPolicy()))
	api.GET("/imports/history", importHistoryHandler())
	api.GET("/imports/:id/archive", importArchiveHandler())
}

// importHandler runs one spreadsheet upload through the pipeline under
// the route's policy. The import is request-scoped; a disconnecting
// client does not stop the in-flight batch loop.
func importHandler(policy imports.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if fileHeader.Size > maxImportFileSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}

		opts := imports.Options{
			DryRun:               parseBoolField(c.PostForm("dry_run")),
			CreateMissingMasters: parseBoolField(c.PostForm("create_missing_masters")),
			Filename:             fileHeader.Filename,
		}

		if raw := strings.TrimSpace(c.PostForm("custom_mapping")); raw != "" {
			var mapping map[string]imports.FieldRole
			if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "custom_mapping must be a JSON object of header to field"})
				return
			}
			opts.CustomMapping = mapping
		}

		ctx := c.Request.Context()

		// archive the workbook before committing anything; best-effort
		if !opts.DryRun {
			objectName := "imports/" + utils.GenerateUniqueFilename(fileHeader.Filename)
			url, err := utils.ArchiveSpreadsheetToGCS(ctx, objectName, strings.NewReader(string(data)))
			if err != nil {
				logger.WithFields(logrus.Fields{
					"filename": fileHeader.Filename,
					"policy":   policy.Name,
				}).WithError(err).Warn("spreadsheet archive failed; continuing import")
			} else {
				opts.ArchiveUrl = url
			}
		}

		outcome, err := imports.Run(ctx, policy, data, opts)
		if err != nil {
			// pipeline-level errors abort before any row is processed
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		if outcome.DryRun != nil {
			c.JSON(http.StatusOK, outcome.DryRun)
			return
		}
		c.JSON(http.StatusOK, outcome.Result)
	}
}

func importHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userId, _ := utils.GetUserIdFromContext(ctx)
		role, _ := utils.GetUserRoleFromContext(ctx)

		limit := 50
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		jobs, err := models.GetImportJobs(ctx, userId, models.UserRole(role), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, jobs)
	}
}

// importArchiveHandler issues a short-lived signed URL for the archived
// workbook of one import run. Non-admins can only reach their own runs.
func importArchiveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		job, err := models.GetImportJob(ctx, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "import job not found"})
			return
		}

		userId, _ := utils.GetUserIdFromContext(ctx)
		role, _ := utils.GetUserRoleFromContext(ctx)
		if models.UserRole(role) != models.UserRoleAdmin && job.UserId != userId {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if job.ArchiveUrl == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "no archive recorded for this import"})
			return
		}

		objectKey := job.ArchiveUrl
		if i := strings.Index(objectKey, "gs://"); i == 0 {
			if slash := strings.IndexByte(objectKey[5:], '/'); slash >= 0 {
				objectKey = objectKey[5+slash+1:]
			}
		}

		download, err := utils.SignArchiveDownload(ctx, objectKey, 15*time.Minute)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, download)
	}
}

func parseBoolField(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
