package domain

import (
	"context"
	"encoding/base64"
)

// CardArtifact is one rasterized badge or ticket image, paired with the
// registrant it represents. Artifacts live in memory only; they are packaged
// for download and never persisted server-side.
type CardArtifact struct {
	RegistrantID string
	FileName     string
	PNG          []byte
}

// DataURI returns the artifact encoded as a data URI.
func (a *CardArtifact) DataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(a.PNG)
}

// CardError records a per-registrant generation failure inside a batch.
type CardError struct {
	RegistrantID string `json:"registrant_id"`
	Message      string `json:"message"`
}

// CardBatchResult is the outcome of generating cards for a list of
// registrants. Success is true iff at least one artifact was produced.
// Artifacts preserve the input order of the registrants that succeeded.
type CardBatchResult struct {
	Success   bool
	Artifacts []*CardArtifact
	Errors    []CardError
}

// ProgressFunc receives (completed, total) after each registrant is processed.
// For multi-batch exports the counts are a running total across all batches.
type ProgressFunc func(completed, total int)

// CardExport is the downloadable output of an export: a single PDF when the
// registrant count fits one batch, a ZIP of numbered PDFs otherwise.
// Failed lists registrants whose card could not be generated.
type CardExport struct {
	FileName    string      `json:"file_name"`
	ContentType string      `json:"content_type"`
	Data        []byte      `json:"-"`
	Zipped      bool        `json:"zipped"`
	Failed      []CardError `json:"failed,omitempty"`
}

// CardComposer renders a single registrant into a fixed-size card image.
type CardComposer interface {
	Compose(ctx context.Context, reg *Registrant) (*CardArtifact, error)
}

// CardExportService defines the card generation and packaging pipeline.
type CardExportService interface {
	// GenerateBatch renders cards sequentially in input order, collecting
	// per-registrant failures without aborting. Cancellation is observed via
	// ctx at the top of each iteration.
	GenerateBatch(ctx context.Context, regs []*Registrant, progress ProgressFunc) *CardBatchResult
	// ExportCards produces the PDF (or ZIP of PDFs) for the given registrants.
	ExportCards(ctx context.Context, regs []*Registrant, progress ProgressFunc) (*CardExport, error)
}
