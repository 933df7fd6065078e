// backend/src/services/reconciliation_service.go
package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/srriwatch/backend/src/database"
	"github.com/username/srriwatch/backend/src/logger"
	"github.com/username/srriwatch/backend/src/model"
	"github.com/username/srriwatch/backend/src/models"
	"github.com/username/srriwatch/backend/src/parsers"
	"github.com/username/srriwatch/backend/src/processors"
)

const (
	ckLatestRun = "latest_run_user_%d"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type reconciliationServiceImpl struct {
	manifestParser   parsers.ManifestParser
	monitoringParser parsers.MonitoringParser
	changeProcessor  processors.ChangeProcessor
	reconciler       processors.ReconciliationProcessor
	extractor        ExtractionService
	emailService     EmailService
	reportRecipient  string
	runCache         *cache.Cache
}

func NewReconciliationService(
	manifestParser parsers.ManifestParser,
	monitoringParser parsers.MonitoringParser,
	changeProcessor processors.ChangeProcessor,
	reconciler processors.ReconciliationProcessor,
	extractor ExtractionService,
	emailService EmailService,
	reportRecipient string,
	runCache *cache.Cache,
) ReconciliationService {
	return &reconciliationServiceImpl{
		manifestParser:   manifestParser,
		monitoringParser: monitoringParser,
		changeProcessor:  changeProcessor,
		reconciler:       reconciler,
		extractor:        extractor,
		emailService:     emailService,
		reportRecipient:  reportRecipient,
		runCache:         runCache,
	}
}

// Run executes the full pipeline: parse both inputs, reduce the monitoring
// weeks to change summaries, extract facts from the manifest's documents,
// reconcile, then persist the result under a fresh run ID.
func (s *reconciliationServiceImpl) Run(ctx context.Context, manifest io.Reader, monitoring io.Reader, userID int64) (*RunResult, error) {
	runID := uuid.NewString()
	started := time.Now()
	log := logger.FromContext(ctx).With("runID", runID)
	log.Info("Starting reconciliation run", "userID", userID)

	classes, err := s.manifestParser.Parse(manifest)
	if err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrParsingFailed, err)
	}
	monitoringRecords, err := s.monitoringParser.Parse(monitoring)
	if err != nil {
		var schemaErr *models.SchemaError
		if errors.As(err, &schemaErr) {
			return nil, fmt.Errorf("%w: monitoring: %v", ErrParsingFailed, schemaErr)
		}
		return nil, fmt.Errorf("%w: monitoring: %v", ErrParsingFailed, err)
	}
	log.Info("Inputs parsed",
		"manifestRecords", len(classes), "monitoringRecords", len(monitoringRecords))

	summaries := s.changeProcessor.Process(monitoringRecords)
	facts := s.extractor.ExtractAll(ctx, classes)

	mismatches, err := s.reconciler.Reconcile(summaries, classes, facts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	run := &model.ReconciliationRun{
		ID:                runID,
		UserID:            userID,
		ManifestRecords:   len(classes),
		MonitoringRecords: len(monitoringRecords),
		Summaries:         len(summaries),
		MismatchCount:     len(mismatches),
	}
	if err := model.InsertRun(database.DB, run, mismatches); err != nil {
		return nil, fmt.Errorf("%w: storing run: %v", ErrProcessingFailed, err)
	}

	s.runCache.Delete(fmt.Sprintf(ckLatestRun, userID))

	result := &RunResult{
		RunSummary: RunSummary{
			ID:                run.ID,
			CreatedAt:         run.CreatedAt,
			ManifestRecords:   run.ManifestRecords,
			MonitoringRecords: run.MonitoringRecords,
			Summaries:         run.Summaries,
			MismatchCount:     run.MismatchCount,
		},
		Mismatches: mismatches,
	}

	s.notify(result)

	log.Info("Reconciliation run finished",
		"mismatches", len(mismatches), "duration", time.Since(started))
	return result, nil
}

// notify mails the report when a run found mismatches. Delivery failures
// are logged, never surfaced: the run itself succeeded and is stored.
func (s *reconciliationServiceImpl) notify(result *RunResult) {
	if s.reportRecipient == "" || result.MismatchCount == 0 {
		return
	}
	var buf bytes.Buffer
	if err := RenderReportCSV(&buf, result.Mismatches); err != nil {
		logger.L.Error("Failed to render report for email", "runID", result.ID, "error", err)
		return
	}
	if err := s.emailService.SendMismatchReport(s.reportRecipient, result.ID, result.MismatchCount, buf.Bytes()); err != nil {
		logger.L.Error("Failed to email mismatch report", "runID", result.ID, "error", err)
	}
}

func (s *reconciliationServiceImpl) ListRuns(userID int64) ([]RunSummary, error) {
	runs, err := model.ListRunsByUser(database.DB, userID)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	summaries := make([]RunSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, runSummary(run))
	}
	return summaries, nil
}

func (s *reconciliationServiceImpl) LatestRun(userID int64) (*RunResult, error) {
	cacheKey := fmt.Sprintf(ckLatestRun, userID)
	if cached, found := s.runCache.Get(cacheKey); found {
		logger.L.Debug("Latest run served from cache", "userID", userID)
		return cached.(*RunResult), nil
	}

	run, err := model.GetLatestRunByUser(database.DB, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("loading latest run: %w", err)
	}

	result, err := s.loadResult(userID, run)
	if err != nil {
		return nil, err
	}
	s.runCache.Set(cacheKey, result, DefaultCacheExpiration)
	return result, nil
}

func (s *reconciliationServiceImpl) RunReport(userID int64, runID string) (*RunResult, error) {
	run, err := model.GetRunByID(database.DB, userID, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	return s.loadResult(userID, run)
}

func (s *reconciliationServiceImpl) loadResult(userID int64, run *model.ReconciliationRun) (*RunResult, error) {
	mismatches, err := model.GetMismatchesByRun(database.DB, userID, run.ID)
	if err != nil {
		return nil, fmt.Errorf("loading mismatches for run %s: %w", run.ID, err)
	}
	return &RunResult{RunSummary: runSummary(*run), Mismatches: mismatches}, nil
}

func runSummary(run model.ReconciliationRun) RunSummary {
	return RunSummary{
		ID:                run.ID,
		CreatedAt:         run.CreatedAt,
		ManifestRecords:   run.ManifestRecords,
		MonitoringRecords: run.MonitoringRecords,
		Summaries:         run.Summaries,
		MismatchCount:     run.MismatchCount,
	}
}
