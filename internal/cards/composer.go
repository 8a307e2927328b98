package cards

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"

	"github.com/fogleman/gg"

	"parishevents/internal/domain"
)

// Kind selects which credential template the composer renders.
type Kind string

const (
	KindBadge  Kind = "badge"
	KindTicket Kind = "ticket"
)

// Card canvas dimensions in pixels. Output size is fixed regardless of input.
const (
	cardWidth  = 640
	cardHeight = 1000

	portraitRadius = 150
	qrSize         = 220
)

// ComposerConfig configures a card composer instance.
type ComposerConfig struct {
	Kind      Kind
	EventName string
	WithQR    bool
}

// Composer renders registrants into fixed-size card images off-screen.
// It implements domain.CardComposer.
type Composer struct {
	cfg    ComposerConfig
	assets *AssetStore
	logger *slog.Logger
}

// NewComposer returns a Composer using the given assets.
func NewComposer(cfg ComposerConfig, assets *AssetStore, logger *slog.Logger) *Composer {
	if cfg.Kind == "" {
		cfg.Kind = KindBadge
	}
	return &Composer{cfg: cfg, assets: assets, logger: logger}
}

// Compose renders one registrant. The only hard failures are a missing
// display name and PNG encoding; missing assets degrade to drawn fallbacks so
// a best-effort image is always produced.
func (c *Composer) Compose(ctx context.Context, reg *domain.Registrant) (*domain.CardArtifact, error) {
	if strings.TrimSpace(reg.FullName) == "" {
		return nil, fmt.Errorf("registrant %s has no display name: %w", reg.ID, domain.ErrInvalidInput)
	}

	dc := gg.NewContext(cardWidth, cardHeight)
	c.drawBackground(dc, reg.RoleKind())
	c.drawPortrait(ctx, dc, reg)
	c.drawText(dc, reg)
	if c.cfg.WithQR {
		c.drawQR(dc, reg)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode card png: %w", err)
	}

	name := BadgeFileName(reg.FullName)
	if c.cfg.Kind == KindTicket {
		name = TicketFileName(reg.InvoiceCode, reg.FullName)
	}
	return &domain.CardArtifact{
		RegistrantID: reg.ID,
		FileName:     name,
		PNG:          buf.Bytes(),
	}, nil
}

func (c *Composer) drawBackground(dc *gg.Context, kind domain.RoleKind) {
	if bg, ok := c.assets.Background(kind); ok {
		drawImageCover(dc, bg, 0, 0, cardWidth, cardHeight)
		return
	}
	// No template asset: solid color per role category.
	if kind == domain.RoleOrganizer {
		dc.SetRGB255(140, 30, 30)
	} else {
		dc.SetRGB255(25, 55, 110)
	}
	dc.Clear()
	dc.SetRGBA(1, 1, 1, 0.25)
	dc.SetLineWidth(6)
	dc.DrawRoundedRectangle(14, 14, cardWidth-28, cardHeight-28, 18)
	dc.Stroke()
}

func (c *Composer) drawPortrait(ctx context.Context, dc *gg.Context, reg *domain.Registrant) {
	const cx, cy = cardWidth / 2.0, 330.0

	var portrait image.Image
	if reg.PortraitURL != "" {
		img, err := c.assets.FetchPortrait(ctx, reg.PortraitURL)
		if err != nil {
			c.logger.Warn("portrait unavailable, using logo", "registrant_id", reg.ID, "err", err)
		} else {
			portrait = img
		}
	}
	if portrait == nil {
		if logo, ok := c.assets.Logo(); ok {
			portrait = logo
		}
	}

	// White ring behind the portrait.
	dc.SetRGB(1, 1, 1)
	dc.DrawCircle(cx, cy, portraitRadius+6)
	dc.Fill()

	if portrait == nil {
		dc.SetRGB255(220, 220, 220)
		dc.DrawCircle(cx, cy, portraitRadius)
		dc.Fill()
		return
	}

	dc.Push()
	dc.DrawCircle(cx, cy, portraitRadius)
	dc.Clip()
	drawImageCover(dc, portrait, cx-portraitRadius, cy-portraitRadius, 2*portraitRadius, 2*portraitRadius)
	dc.Pop()
}

func (c *Composer) drawText(dc *gg.Context, reg *domain.Registrant) {
	white := func() { dc.SetRGB(1, 1, 1) }

	if c.cfg.EventName != "" {
		if face, err := c.assets.FontFace(26); err == nil {
			dc.SetFontFace(face)
			white()
			dc.DrawStringAnchored(c.cfg.EventName, cardWidth/2, 70, 0.5, 0.5)
		}
	}

	if reg.SaintName != "" {
		if face, err := c.assets.FontFace(28); err == nil {
			dc.SetFontFace(face)
			white()
			dc.DrawStringAnchored(reg.SaintName, cardWidth/2, 540, 0.5, 0.5)
		}
	}

	// Long names are drawn as-is; overflow is an accepted limitation.
	if face, err := c.assets.FontFace(40); err == nil {
		dc.SetFontFace(face)
		white()
		dc.DrawStringAnchored(reg.FullName, cardWidth/2, 600, 0.5, 0.5)
	}

	if reg.EventRole != nil && reg.EventRole.Name != "" {
		if face, err := c.assets.FontFace(24); err == nil {
			dc.SetFontFace(face)
			w, h := dc.MeasureString(reg.EventRole.Name)
			dc.SetRGBA(1, 1, 1, 0.2)
			dc.DrawRoundedRectangle(cardWidth/2-w/2-18, 660-h/2-8, w+36, h+16, (h+16)/2)
			dc.Fill()
			white()
			dc.DrawStringAnchored(reg.EventRole.Name, cardWidth/2, 660, 0.5, 0.5)
		}
	}
}

func (c *Composer) drawQR(dc *gg.Context, reg *domain.Registrant) {
	payload := domain.ScanPayload{
		ID:    reg.ID,
		Name:  reg.FullName,
		Event: c.cfg.EventName,
	}
	qrImg, err := EncodeQR(payload, qrSize)
	if err != nil {
		// Card without a QR block is still a usable credential.
		c.logger.Warn("qr encode failed, rendering card without qr", "registrant_id", reg.ID, "err", err)
		return
	}
	const pad = 16.0
	x := (cardWidth - qrSize) / 2.0
	y := 730.0
	dc.SetRGB(1, 1, 1)
	dc.DrawRoundedRectangle(x-pad, y-pad, qrSize+2*pad, qrSize+2*pad, 10)
	dc.Fill()
	dc.DrawImage(qrImg, int(x), int(y))
}

// drawImageCover scales img to cover the target rectangle, preserving aspect
// ratio and cropping overflow.
func drawImageCover(dc *gg.Context, img image.Image, x, y, w, h float64) {
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	scale := w / iw
	if s := h / ih; s > scale {
		scale = s
	}
	dc.Push()
	dc.Translate(x+(w-iw*scale)/2, y+(h-ih*scale)/2)
	dc.Scale(scale, scale)
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}
