// backend/src/handlers/reconciliation_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/username/srriwatch/backend/src/config"
	"github.com/username/srriwatch/backend/src/logger"
	"github.com/username/srriwatch/backend/src/security/validation"
	"github.com/username/srriwatch/backend/src/services"
	"github.com/username/srriwatch/backend/src/utils"
)

type ReconciliationHandler struct {
	service services.ReconciliationService
}

func NewReconciliationHandler(service services.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		service: service,
	}
}

// HandleReconcile accepts a multipart form with two files, "manifest" (the
// document-link export) and "monitoring" (the SRRI workbook), runs the
// pipeline and returns the stored run.
func (h *ReconciliationHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "userID", userID, "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	manifest, err := h.formFile(r, "manifest", userID, func(file multipart.File, header *multipart.FileHeader) error {
		if err := validation.ValidateManifestContentType(header.Header.Get("Content-Type")); err != nil {
			return err
		}
		_, err := validation.ValidateManifestContent(file)
		return err
	})
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer manifest.Close()

	monitoring, err := h.formFile(r, "monitoring", userID, func(file multipart.File, header *multipart.FileHeader) error {
		if err := validation.ValidateWorkbookContentType(header.Header.Get("Content-Type")); err != nil {
			return err
		}
		return validation.ValidateWorkbookContent(file)
	})
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer monitoring.Close()

	result, err := h.service.Run(r.Context(), manifest, monitoring, userID)
	if err != nil {
		if errors.Is(err, services.ErrParsingFailed) {
			logger.L.Warn("Reconciliation failed while parsing inputs", "userID", userID, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Error parsing input files: %v", err), http.StatusBadRequest)
		} else {
			logger.L.Error("Internal error during reconciliation", "userID", userID, "error", err)
			utils.SendJSONError(w, "An internal error occurred while reconciling. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding JSON response for reconciliation result", "userID", userID, "error", err)
	}
}

type fileCheck func(file multipart.File, header *multipart.FileHeader) error

func (h *ReconciliationHandler) formFile(r *http.Request, field string, userID int64, check fileCheck) (multipart.File, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "userID", userID, "field", field, "error", err)
		return nil, fmt.Errorf("failed to retrieve '%s' file from request", field)
	}
	if header.Size > config.Cfg.MaxUploadSizeBytes {
		file.Close()
		logger.L.Warn("Uploaded file too large", "userID", userID, "field", field, "fileSize", header.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		return nil, fmt.Errorf("'%s' file too large, max %d MB", field, config.Cfg.MaxUploadSizeBytes/(1024*1024))
	}
	if err := check(file, header); err != nil {
		file.Close()
		logger.L.Warn("Upload validation failed", "userID", userID, "field", field, "filename", header.Filename, "error", err)
		return nil, err
	}
	return file, nil
}

func (h *ReconciliationHandler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	runs, err := h.service.ListRuns(userID)
	if err != nil {
		logger.L.Error("Error listing runs", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error retrieving runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []services.RunSummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(runs); err != nil {
		logger.L.Error("Error encoding runs list", "userID", userID, "error", err)
	}
}

// HandleGetLatestRun serves the most recent run with ETag support so
// dashboards polling for changes are answered with 304 when nothing moved.
func (h *ReconciliationHandler) HandleGetLatestRun(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	result, err := h.service.LatestRun(userID)
	if err != nil {
		if errors.Is(err, services.ErrRunNotFound) {
			utils.SendJSONError(w, "No reconciliation runs yet", http.StatusNotFound)
			return
		}
		logger.L.Error("Error retrieving latest run", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error retrieving latest run", http.StatusInternalServerError)
		return
	}

	currentETag, etagErr := utils.GenerateETag(result)
	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				logger.L.Debug("ETag match for latest run", "userID", userID, "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	} else {
		logger.L.Warn("Proceeding without ETag check", "userID", userID, "error", etagErr)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding latest run", "userID", userID, "error", err)
	}
}

// HandleDownloadReport streams one run's mismatch rows as a CSV attachment.
func (h *ReconciliationHandler) HandleDownloadReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	runID := r.PathValue("id")
	if runID == "" {
		utils.SendJSONError(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	result, err := h.service.RunReport(userID, runID)
	if err != nil {
		if errors.Is(err, services.ErrRunNotFound) {
			utils.SendJSONError(w, "Run not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Error retrieving run report", "userID", userID, "runID", runID, "error", err)
		utils.SendJSONError(w, "Error retrieving run report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=srri_mismatches_%s.csv", result.ID))
	if err := services.RenderReportCSV(w, result.Mismatches); err != nil {
		logger.L.Error("Error writing report CSV", "userID", userID, "runID", runID, "error", err)
	}
}
