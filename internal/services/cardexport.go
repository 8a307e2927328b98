package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"parishevents/internal/cards"
	"parishevents/internal/domain"
)

// MaxCardsPerPDF is the per-PDF cap; exports beyond it are split into
// consecutive batches of this size and bundled into one ZIP archive.
const MaxCardsPerPDF = 12

// interCardDelay throttles generation between registrants to bound rendering
// pressure. Deliberate pacing, not a correctness requirement.
const interCardDelay = 50 * time.Millisecond

type cardExportService struct {
	composer   domain.CardComposer
	logger     *slog.Logger
	delay      time.Duration
	perPDF     int
	archPrefix string
	now        func() time.Time
}

// NewCardExportService creates a CardExportService around the given composer.
// archivePrefix names the ZIP produced by multi-batch exports.
func NewCardExportService(composer domain.CardComposer, logger *slog.Logger, archivePrefix string) domain.CardExportService {
	if archivePrefix == "" {
		archivePrefix = "cards"
	}
	return &cardExportService{
		composer:   composer,
		logger:     logger,
		delay:      interCardDelay,
		perPDF:     MaxCardsPerPDF,
		archPrefix: archivePrefix,
		now:        time.Now,
	}
}

// GenerateBatch renders cards one at a time, strictly in input order.
// A per-registrant failure is recorded and generation continues; the batch
// only counts as failed when nothing was produced. Cancellation is checked at
// the top of each iteration.
func (s *cardExportService) GenerateBatch(ctx context.Context, regs []*domain.Registrant, progress domain.ProgressFunc) *domain.CardBatchResult {
	total := len(regs)
	result := &domain.CardBatchResult{}

	for i, reg := range regs {
		if ctx.Err() != nil {
			s.logger.Info("card generation cancelled", "completed", i, "total", total)
			break
		}
		if i > 0 && s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				s.logger.Info("card generation cancelled", "completed", i, "total", total)
				return finishBatch(result)
			}
		}

		artifact, err := s.composer.Compose(ctx, reg)
		if err != nil {
			s.logger.Error("card generation failed", "registrant_id", reg.ID, "err", err)
			result.Errors = append(result.Errors, domain.CardError{
				RegistrantID: reg.ID,
				Message:      err.Error(),
			})
		} else {
			result.Artifacts = append(result.Artifacts, artifact)
		}

		if progress != nil {
			progress(i+1, total)
		}
	}
	return finishBatch(result)
}

func finishBatch(r *domain.CardBatchResult) *domain.CardBatchResult {
	r.Success = len(r.Artifacts) > 0
	return r
}

// ExportCards produces the downloadable output for the given registrants:
// a single PDF when they fit one batch, otherwise a ZIP of numbered batch
// PDFs. Progress is reported as a running total across all batches. A batch
// whose generation or layout fails entirely is skipped and the rest continue.
func (s *cardExportService) ExportCards(ctx context.Context, regs []*domain.Registrant, progress domain.ProgressFunc) (*domain.CardExport, error) {
	if len(regs) == 0 {
		return nil, fmt.Errorf("no registrants selected: %w", domain.ErrInvalidInput)
	}

	grandTotal := len(regs)
	batches := chunkRegistrants(regs, s.perPDF)

	var (
		pdfs      []cards.ZipFile
		failed    []domain.CardError
		completed int
	)
	for bi, batch := range batches {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		base := completed
		res := s.GenerateBatch(ctx, batch, func(done, _ int) {
			if progress != nil {
				progress(base+done, grandTotal)
			}
		})
		completed += len(batch)
		failed = append(failed, res.Errors...)

		if !res.Success {
			s.logger.Warn("batch produced no cards, skipping", "batch", bi+1, "size", len(batch))
			continue
		}
		data, err := cards.BuildPDF(res.Artifacts)
		if err != nil {
			s.logger.Error("batch pdf layout failed, skipping", "batch", bi+1, "err", err)
			continue
		}
		pdfs = append(pdfs, cards.ZipFile{Name: cards.BatchPDFName(bi + 1), Data: data})
	}

	if len(pdfs) == 0 {
		return nil, fmt.Errorf("card export produced no output")
	}

	if len(batches) == 1 {
		return &domain.CardExport{
			FileName:    pdfs[0].Name,
			ContentType: "application/pdf",
			Data:        pdfs[0].Data,
			Zipped:      false,
			Failed:      failed,
		}, nil
	}

	archive, err := cards.BuildZip(pdfs)
	if err != nil {
		return nil, fmt.Errorf("bundle card archive: %w", err)
	}
	return &domain.CardExport{
		FileName:    cards.ArchiveName(s.archPrefix, s.now()),
		ContentType: "application/zip",
		Data:        archive,
		Zipped:      true,
		Failed:      failed,
	}, nil
}

// chunkRegistrants splits regs into consecutive batches of at most size,
// preserving order. Every registrant lands in exactly one batch.
func chunkRegistrants(regs []*domain.Registrant, size int) [][]*domain.Registrant {
	var out [][]*domain.Registrant
	for start := 0; start < len(regs); start += size {
		end := start + size
		if end > len(regs) {
			end = len(regs)
		}
		out = append(out, regs[start:end])
	}
	return out
}
