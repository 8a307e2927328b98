package cards

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"parishevents/internal/domain"
)

// Asset filenames expected under the asset directory. All are optional;
// the compositor falls back to drawn placeholders when one is missing.
const (
	organizerBackgroundFile   = "bg_organizer.png"
	participantBackgroundFile = "bg_participant.png"
	logoFile                  = "logo.png"
	fontFile                  = "font.ttf"
)

// AssetStore loads and caches card template assets (backgrounds, logo, font)
// from a local directory and fetches registrant portraits over HTTP with a
// bounded timeout.
type AssetStore struct {
	dir     string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger

	mu     sync.Mutex
	images map[string]image.Image
	ttf    *opentype.Font
	faces  map[float64]font.Face
}

// NewAssetStore returns an AssetStore rooted at dir. Portrait fetches and
// asset loads are bounded by timeout.
func NewAssetStore(dir string, timeout time.Duration, logger *slog.Logger) *AssetStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AssetStore{
		dir:     dir,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		images:  make(map[string]image.Image),
		faces:   make(map[float64]font.Face),
	}
}

// Background returns the template background for the given role category,
// or (nil, false) when the asset file is missing or unreadable.
func (s *AssetStore) Background(kind domain.RoleKind) (image.Image, bool) {
	name := participantBackgroundFile
	if kind == domain.RoleOrganizer {
		name = organizerBackgroundFile
	}
	img, err := s.localImage(name)
	if err != nil {
		s.logger.Debug("card background unavailable", "file", name, "err", err)
		return nil, false
	}
	return img, true
}

// Logo returns the fallback logo image, or (nil, false) when unavailable.
func (s *AssetStore) Logo() (image.Image, bool) {
	img, err := s.localImage(logoFile)
	if err != nil {
		s.logger.Debug("card logo unavailable", "err", err)
		return nil, false
	}
	return img, true
}

// FontFace returns a cached face at the given point size. A TTF in the asset
// directory takes precedence; otherwise the bundled Go Regular font is used
// so rendering always has a face available.
func (s *AssetStore) FontFace(points float64) (font.Face, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if face, ok := s.faces[points]; ok {
		return face, nil
	}
	if s.ttf == nil {
		data, err := os.ReadFile(filepath.Join(s.dir, fontFile))
		if err != nil {
			data = goregular.TTF
		}
		f, err := opentype.Parse(data)
		if err != nil {
			// Asset font corrupt; fall back to the bundled font.
			f, err = opentype.Parse(goregular.TTF)
			if err != nil {
				return nil, fmt.Errorf("parse font: %w", err)
			}
		}
		s.ttf = f
	}
	face, err := opentype.NewFace(s.ttf, &opentype.FaceOptions{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build font face: %w", err)
	}
	s.faces[points] = face
	return face, nil
}

// FetchPortrait downloads and decodes the registrant portrait. The request is
// bounded by the store timeout so composition can always fall back rather
// than hang on a slow origin.
func (s *AssetStore) FetchPortrait(ctx context.Context, url string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build portrait request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch portrait: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch portrait: status %d", resp.StatusCode)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode portrait: %w", err)
	}
	return img, nil
}

func (s *AssetStore) localImage(name string) (image.Image, error) {
	s.mu.Lock()
	if img, ok := s.images[name]; ok {
		s.mu.Unlock()
		return img, nil
	}
	s.mu.Unlock()

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	s.mu.Lock()
	s.images[name] = img
	s.mu.Unlock()
	return img, nil
}
