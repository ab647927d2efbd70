package entities

// SourceType classifies how close a source is to the events it describes.
type SourceType string

// Source types.
const (
	SourcePrimary   SourceType = "primary"
	SourceSecondary SourceType = "secondary"
	SourceTertiary  SourceType = "tertiary"
	SourceBook      SourceType = "book"
	SourceArticle   SourceType = "article"
	SourceWebsite   SourceType = "website"
)

// ExtractionStatus tracks whether a source's text has been through the
// extraction pipeline. Ingestion always creates sources as pending; the
// pipeline itself is an external collaborator.
type ExtractionStatus string

// Extraction statuses.
const (
	ExtractionPending    ExtractionStatus = "pending"
	ExtractionInProgress ExtractionStatus = "in_progress"
	ExtractionCompleted  ExtractionStatus = "completed"
	ExtractionFailed     ExtractionStatus = "failed"
)

// Source is a text or document in the canonical model. AuthorID references
// an Actor. Raw dating fields carry source-native period strings unparsed.
type Source struct {
	ID                string           `json:"id,omitempty"`
	Title             string           `json:"title"`
	Type              SourceType       `json:"source_type"`
	Genre             string           `json:"genre,omitempty"`
	AuthorID          string           `json:"author_id,omitempty"`
	RawDatingEvidence string           `json:"raw_dating_evidence,omitempty"`
	RawPeriodCovered  string           `json:"raw_period_covered,omitempty"`
	OriginalLanguage  string           `json:"original_language,omitempty"`
	DigitalURL        string           `json:"digital_url,omitempty"`
	ExtractionStatus  ExtractionStatus `json:"extraction_status,omitempty"`
	ExternalID        string           `json:"external_id,omitempty"`
}
