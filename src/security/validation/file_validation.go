package validation

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/username/srriwatch/backend/src/logger"
)

// allowedManifestContentTypes are the client-declared MIME types accepted
// for the text manifest. CSV exports show up under several labels.
var allowedManifestContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true,
	"text/plain":               true,
	"application/octet-stream": true,
}

// allowedWorkbookContentTypes are the client-declared MIME types accepted
// for the monitoring workbook.
var allowedWorkbookContentTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/zip":          true,
	"application/octet-stream": true,
}

// ValidateManifestContentType checks the Content-Type header the client
// declared for the manifest upload.
func ValidateManifestContentType(contentType string) error {
	if !allowedManifestContentTypes[strings.ToLower(contentType)] {
		logger.L.Warn("Disallowed client-declared manifest Content-Type", "contentType", contentType)
		return fmt.Errorf("client-declared file type '%s' is not allowed for the manifest", contentType)
	}
	return nil
}

// ValidateWorkbookContentType checks the Content-Type header the client
// declared for the workbook upload.
func ValidateWorkbookContentType(contentType string) error {
	if !allowedWorkbookContentTypes[strings.ToLower(contentType)] {
		logger.L.Warn("Disallowed client-declared workbook Content-Type", "contentType", contentType)
		return fmt.Errorf("client-declared file type '%s' is not allowed for the monitoring workbook", contentType)
	}
	return nil
}

// ValidateManifestContent sniffs the manifest's leading bytes and rejects
// anything that is not text. The read pointer is reset so the parser can
// consume the full file afterwards.
func ValidateManifestContent(file io.ReadSeeker) (string, error) {
	head, err := readHead(file)
	if err != nil {
		return "", err
	}

	detected := strings.ToLower(strings.Split(http.DetectContentType(head), ";")[0])
	allowedDetected := map[string]bool{
		"text/plain":               true,
		"text/csv":                 true,
		"application/csv":          true,
		"application/octet-stream": true,
	}
	if !allowedDetected[detected] {
		logger.L.Warn("Disallowed detected manifest content type", "detectedContentType", detected)
		return detected, fmt.Errorf("detected file content type '%s' is not consistent with a text manifest", detected)
	}
	return detected, nil
}

// xlsxMagic is the ZIP local-file-header signature; an .xlsx file is a ZIP
// archive.
var xlsxMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// ValidateWorkbookContent checks the monitoring workbook actually starts
// with the ZIP signature an .xlsx file must carry.
func ValidateWorkbookContent(file io.ReadSeeker) error {
	head, err := readHead(file)
	if err != nil {
		return err
	}
	if len(head) < len(xlsxMagic) || !bytes.HasPrefix(head, xlsxMagic) {
		logger.L.Warn("Workbook upload missing ZIP signature")
		return fmt.Errorf("file content is not consistent with an xlsx workbook")
	}
	return nil
}

func readHead(file io.ReadSeeker) ([]byte, error) {
	if file == nil {
		return nil, fmt.Errorf("file is nil")
	}
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file for content type checking: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to reset file read pointer: %w", err)
	}
	return buffer[:n], nil
}
