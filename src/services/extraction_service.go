// backend/src/services/extraction_service.go
package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/srriwatch/backend/src/logger"
	"github.com/username/srriwatch/backend/src/models"
	"github.com/username/srriwatch/backend/src/pdftext"
	"github.com/username/srriwatch/backend/src/utils"
	"golang.org/x/sync/errgroup"
)

const (
	// Per-URL caches so re-runs against an unchanged manifest skip the
	// document downloads entirely.
	ckKiidFacts = "kiid_facts_%s"
	ckInception = "inception_%s"
)

var (
	// A KIID prints its risk category inside a seven-step scale. The marker
	// locates the scale; the first numeric token after it is the category.
	riskScaleMarkerRe = regexp.MustCompile(`(?is)Risk and Reward Profile\s*1\s*2\s*3\s*4\s*5\s*6\s*7`)
	riskScaleTokenRe  = regexp.MustCompile(`\b\d(\.\d)?\b`)

	ongoingChargesRe = regexp.MustCompile(`(?is)Ongoing charges[^%]{0,100}?(\d{1,2}(?:\.\d{1,2})?)\s?%`)

	inceptionDateRe = regexp.MustCompile(`(?i)Share Class Inception\s*[:\-]?\s*([0-9]{1,2}[./ -][0-9]{1,2}[./ -][0-9]{2,4}|[0-9]{1,2} [A-Za-z]{3,9} [0-9]{4})`)

	// Fallbacks for documents whose layout extraction scrambles the scale.
	// Tried in order against the stream rendering of the same document.
	riskFallbackRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)The lowest category does not mean that the investment is risk free\D+(\d)`),
		regexp.MustCompile(`(?is)Risk and Reward Profile.*?1\s*2\s*3\s*4\s*5\s*6\s*7.*?(\d)`),
		regexp.MustCompile(`(?is)category\s+(\d)\s+reflects`),
		regexp.MustCompile(`(?is)(?:risk profile|risk and reward).*?([1-7])`),
	}
)

// riskFromScale applies the marker-then-token rule to a layout rendering.
func riskFromScale(text string) models.RiskCategory {
	parts := riskScaleMarkerRe.Split(text, 2)
	if len(parts) < 2 {
		return models.RiskAbsent
	}
	token := riskScaleTokenRe.FindString(parts[1])
	return models.ParseRiskCategory(token)
}

// riskFromFallbacks tries the looser patterns in order and keeps the first
// value that lands on the 1..7 scale.
func riskFromFallbacks(text string) models.RiskCategory {
	for _, re := range riskFallbackRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if risk := models.ParseRiskCategory(m[1]); risk.Present() {
			return risk
		}
	}
	return models.RiskAbsent
}

func feeFromText(text string) (float64, bool) {
	m := ongoingChargesRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	fee, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return fee, true
}

func inceptionFromText(text string) (time.Time, bool) {
	m := inceptionDateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	return utils.ParseDayFirstDate(m[1])
}

type kiidFactsEntry struct {
	risk     models.RiskCategory
	fee      float64
	feeFound bool
}

// extractionServiceImpl reads facts out of fetched PDFs. Two text renderings
// of the same document feed the patterns: the layout rendering for the
// scale rule, the stream rendering for the fallbacks and dates.
type extractionServiceImpl struct {
	fetcher     DocumentFetcher
	layout      pdftext.Extractor
	stream      pdftext.Extractor
	factCache   *cache.Cache
	concurrency int
}

func NewExtractionService(
	fetcher DocumentFetcher,
	layout pdftext.Extractor,
	stream pdftext.Extractor,
	factCache *cache.Cache,
	concurrency int,
) ExtractionService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &extractionServiceImpl{
		fetcher:     fetcher,
		layout:      layout,
		stream:      stream,
		factCache:   factCache,
		concurrency: concurrency,
	}
}

func (s *extractionServiceImpl) ExtractFacts(ctx context.Context, class models.ShareClassRecord) models.ExtractedFacts {
	var facts models.ExtractedFacts

	kiid := s.kiidFacts(ctx, class.KiidURL)
	facts.RiskCategory = kiid.risk
	facts.FeePercent = kiid.fee
	facts.FeeFound = kiid.feeFound

	if date, ok := s.inceptionDate(ctx, class.FactSheetURL); ok {
		facts.InceptionDate = date
	}
	return facts
}

// ExtractAll fans the per-class extraction out over a bounded worker pool.
// Results are written back by index so the output matches the input order.
func (s *extractionServiceImpl) ExtractAll(ctx context.Context, classes []models.ShareClassRecord) []models.ExtractedFacts {
	results := make([]models.ExtractedFacts, len(classes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, class := range classes {
		g.Go(func() error {
			results[i] = s.ExtractFacts(gctx, class)
			return nil
		})
	}
	// Workers never fail: a document that yields nothing is an absent fact,
	// not an error.
	_ = g.Wait()
	return results
}

func (s *extractionServiceImpl) kiidFacts(ctx context.Context, url string) kiidFactsEntry {
	if url == "" {
		return kiidFactsEntry{}
	}
	cacheKey := fmt.Sprintf(ckKiidFacts, url)
	if cached, found := s.factCache.Get(cacheKey); found {
		return cached.(kiidFactsEntry)
	}

	var entry kiidFactsEntry
	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		logger.L.Warn("KIID fetch failed, recording facts as absent", "url", url, "error", err)
		return entry
	}

	layoutText := s.pageText(s.layout, data, url, "\n")
	entry.risk = riskFromScale(layoutText)
	entry.fee, entry.feeFound = feeFromText(layoutText)

	if !entry.risk.Present() || !entry.feeFound {
		streamText := s.pageText(s.stream, data, url, "")
		if !entry.risk.Present() {
			entry.risk = riskFromFallbacks(streamText)
		}
		if !entry.feeFound {
			entry.fee, entry.feeFound = feeFromText(streamText)
		}
	}

	s.factCache.Set(cacheKey, entry, cache.DefaultExpiration)
	return entry
}

func (s *extractionServiceImpl) inceptionDate(ctx context.Context, url string) (time.Time, bool) {
	if url == "" {
		return time.Time{}, false
	}
	cacheKey := fmt.Sprintf(ckInception, url)
	if cached, found := s.factCache.Get(cacheKey); found {
		date := cached.(time.Time)
		return date, !date.IsZero()
	}

	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		logger.L.Warn("Fact sheet fetch failed, recording inception as absent", "url", url, "error", err)
		return time.Time{}, false
	}

	date, ok := inceptionFromText(s.pageText(s.stream, data, url, "\n"))
	s.factCache.Set(cacheKey, date, cache.DefaultExpiration)
	return date, ok
}

func (s *extractionServiceImpl) pageText(extractor pdftext.Extractor, data []byte, url, sep string) string {
	pages, err := extractor.PageTexts(data)
	if err != nil {
		logger.L.Warn("PDF text extraction failed", "url", url, "error", err)
		return ""
	}
	return strings.Join(pages, sep)
}
