package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Acquisition
	LinksScanned       int64
	TitlesRejected     int64
	DuplicatesFiltered int64
	ImagesRejected     int64
	BodiesTooShort     int64
	FetchErrors        int64
	CandidatesAccepted int64
	ArticlesPublished  int64

	// Text generation
	GenerationCalls    int64
	GenerationFailures int64

	// Editorial pass
	ArticlesReviewed int64
	Edits            int64
	Deletions        int64
	Quarantines      int64
	BlockedByLimit   int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) add(field *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*field++
}

func (m *Metrics) IncrementLinksScanned()       { m.add(&m.LinksScanned) }
func (m *Metrics) IncrementTitlesRejected()     { m.add(&m.TitlesRejected) }
func (m *Metrics) IncrementDuplicatesFiltered() { m.add(&m.DuplicatesFiltered) }
func (m *Metrics) IncrementImagesRejected()     { m.add(&m.ImagesRejected) }
func (m *Metrics) IncrementBodiesTooShort()     { m.add(&m.BodiesTooShort) }
func (m *Metrics) IncrementFetchErrors()        { m.add(&m.FetchErrors) }
func (m *Metrics) IncrementCandidatesAccepted() { m.add(&m.CandidatesAccepted) }
func (m *Metrics) IncrementArticlesPublished()  { m.add(&m.ArticlesPublished) }
func (m *Metrics) IncrementGenerationCalls()    { m.add(&m.GenerationCalls) }
func (m *Metrics) IncrementGenerationFailures() { m.add(&m.GenerationFailures) }
func (m *Metrics) IncrementArticlesReviewed()   { m.add(&m.ArticlesReviewed) }
func (m *Metrics) IncrementEdits()              { m.add(&m.Edits) }
func (m *Metrics) IncrementDeletions()          { m.add(&m.Deletions) }
func (m *Metrics) IncrementQuarantines()        { m.add(&m.Quarantines) }
func (m *Metrics) IncrementBlockedByLimit()     { m.add(&m.BlockedByLimit) }

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++
	m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"links_scanned":              m.LinksScanned,
		"titles_rejected":            m.TitlesRejected,
		"duplicates_filtered":        m.DuplicatesFiltered,
		"images_rejected":            m.ImagesRejected,
		"bodies_too_short":           m.BodiesTooShort,
		"fetch_errors":               m.FetchErrors,
		"candidates_accepted":        m.CandidatesAccepted,
		"articles_published":         m.ArticlesPublished,
		"generation_calls":           m.GenerationCalls,
		"generation_failures":        m.GenerationFailures,
		"articles_reviewed":          m.ArticlesReviewed,
		"edits":                      m.Edits,
		"deletions":                  m.Deletions,
		"quarantines":                m.Quarantines,
		"blocked_by_limit":           m.BlockedByLimit,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
