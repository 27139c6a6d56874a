package imports

import (
	"context"
	"strings"

	"github.com/ditfinops/opex_backend/config"
	"github.com/ditfinops/opex_backend/models"
	"github.com/ditfinops/opex_backend/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

const OutboxTopicImportEvents = "import-events"

// Options are the caller-supplied knobs for one run.
type Options struct {
	DryRun               bool
	CreateMissingMasters bool
	// CustomMapping (raw header -> role) overrides fuzzy matching.
	CustomMapping map[string]FieldRole
	Filename      string
	// ArchiveUrl is where the uploaded workbook was archived, recorded
	// on the import job.
	ArchiveUrl string
}

// Outcome carries either the dry-run report or the import result.
type Outcome struct {
	DryRun *DryRunResult
	Result *ImportResult
}

var tracer = otel.Tracer("opex/imports")

// Run executes the import pipeline for one uploaded workbook under one
// policy. The run is request-scoped and sequential; only pipeline-level
// failures return an error, row problems land in the report.
func Run(ctx context.Context, policy Policy, data []byte, opts Options) (*Outcome, error) {
	logger := config.GetLogger()

	ctx, span := tracer.Start(ctx, "imports.run")
	defer span.End()

	sheet, mapping, err := readAndClassify(ctx, policy, data, opts)
	if err != nil {
		config.LogError(logger, "imports", "Run", "readAndClassify", opts.Filename, err)
		return nil, err
	}

	report, records := normalizeAndReconcile(ctx, policy, sheet, mapping, logger)

	if opts.DryRun {
		return &Outcome{DryRun: &DryRunResult{
			DryRun: true,
			Report: report,
			HeaderMapping: HeaderMappingSummary{
				RawHeaders:        mapping.RawHeaders,
				NormalizedHeaders: mapping.NormalizedHeaders(),
			},
		}}, nil
	}

	entitiesDetected, err := persistRun(ctx, policy, opts, mapping, records, report)
	if err != nil {
		config.LogError(logger, "imports", "Run", "persist", opts.Filename, err)
		return nil, err
	}

	result := BuildResult(report, entitiesDetected)

	jobId, err := recordImportJob(ctx, policy, opts, report)
	if err != nil {
		config.LogError(logger, "imports", "Run", "recordImportJob", opts.Filename, err)
		return nil, err
	}
	result.ImportJobId = jobId

	logger.WithFields(logrus.Fields{
		"policy":    policy.Name,
		"filename":  opts.Filename,
		"total":     report.TotalRows,
		"accepted":  len(report.Accepted),
		"rejected":  len(report.Rejected),
		"importJob": jobId,
	}).Info("import completed")

	return &Outcome{Result: &result}, nil
}

func readAndClassify(ctx context.Context, policy Policy, data []byte, opts Options) (*Sheet, *HeaderMapping, error) {
	ctx, span := tracer.Start(ctx, "imports.read")
	sheet, err := OpenSheet(data)
	span.End()
	if err != nil {
		return nil, nil, err
	}

	_, span = tracer.Start(ctx, "imports.classify")
	mapping, err := ClassifyHeaders(sheet.Headers, opts.CustomMapping, policy.IdentifierAliases...)
	span.End()
	if err != nil {
		return nil, nil, err
	}
	return sheet, mapping, nil
}

// normalizeAndReconcile walks every data row: normalize, apply the
// policy's total reconciliation, sort into accepted/rejected. Returned
// records are the accepted ones, in sheet order.
func normalizeAndReconcile(ctx context.Context, policy Policy, sheet *Sheet, mapping *HeaderMapping, logger *logrus.Logger) (*Report, []*Record) {
	_, span := tracer.Start(ctx, "imports.normalize")
	defer span.End()

	report := NewReport()
	var records []*Record

	for i, cells := range sheet.Rows {
		if rowIsEmpty(cells) {
			continue
		}
		rowNumber := i + 2 // header row is 1
		report.TotalRows++

		record := NormalizeRow(rowNumber, cells, mapping)
		if record.Uid == "" {
			report.Reject(rowNumber, "", record.Errors)
			continue
		}

		amount := policy.ReconcileAmount(record.MonthlySum, record.DeclaredTotal)
		if amount.Mismatch {
			logger.WithFields(logrus.Fields{
				"policy":   policy.Name,
				"row":      rowNumber,
				"uid":      record.Uid,
				"computed": record.MonthlySum.String(),
				"declared": record.DeclaredTotal.String(),
			}).Warn("total mismatch")
			if amount.Reject {
				record.Errors = append(record.Errors, "Total mismatch")
			}
		}
		record.ReconciledTotal = amount.Persist

		count := policy.ReconcileCount(record.CountSum, record.DeclaredCount)
		if count.Mismatch {
			logger.WithFields(logrus.Fields{
				"policy":   policy.Name,
				"row":      rowNumber,
				"uid":      record.Uid,
				"computed": record.CountSum.String(),
				"declared": record.DeclaredCount.String(),
			}).Warn("count mismatch; computed sum wins")
		}
		record.ReconciledCount = count.Persist

		if len(record.Errors) > 0 {
			report.Reject(rowNumber, record.Uid, record.Errors)
			continue
		}

		report.Accept(rowNumber, record.Uid)
		records = append(records, record)
	}

	return report, records
}

func rowIsEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func persistRun(ctx context.Context, policy Policy, opts Options, mapping *HeaderMapping, records []*Record, report *Report) (int, error) {
	ctx, span := tracer.Start(ctx, "imports.persist")
	defer span.End()

	p := &persister{
		policy:        policy,
		createMissing: policy.CreateMissingMasters || opts.CreateMissingMasters,
		logger:        config.GetLogger(),
	}

	maps, err := LoadMasterMaps(ctx)
	if err != nil {
		return 0, err
	}
	p.maps = maps

	entityNames := mapping.EntityNames()
	if err := p.ensureEntities(ctx, entityNames); err != nil {
		return 0, err
	}

	if err := p.persistAll(ctx, records, report); err != nil {
		return 0, err
	}
	return len(entityNames), nil
}

// recordImportJob writes the run's history record and the outbox event
// in one transaction, after all batches finished.
func recordImportJob(ctx context.Context, policy Policy, opts Options, report *Report) (int, error) {
	userId, _ := utils.GetUserIdFromContext(ctx)
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)

	status := models.ImportStatusCompleted
	if len(report.Rejected) > 0 {
		status = models.ImportStatusCompletedWithErrors
	}

	job := models.ImportJob{
		Filename:      opts.Filename,
		ImportType:    policy.ImportType,
		Status:        status,
		TotalRows:     report.TotalRows,
		AcceptedRows:  len(report.Accepted),
		RejectedRows:  len(report.Rejected),
		UserId:        userId,
		ArchiveUrl:    opts.ArchiveUrl,
		CorrelationId: correlationId,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := models.CreateImportJob(tx, &job); err != nil {
			return err
		}
		return models.EnqueueOutbox(tx, OutboxTopicImportEvents, config.ImportEventMessage{
			ImportJobId:   job.ID,
			ImportType:    string(policy.ImportType),
			Filename:      opts.Filename,
			TotalRows:     report.TotalRows,
			AcceptedRows:  len(report.Accepted),
			RejectedRows:  len(report.Rejected),
			Status:        string(status),
			UserId:        userId,
			CorrelationId: correlationId,
		})
	})
	if err != nil {
		return 0, err
	}
	return job.ID, nil
}
