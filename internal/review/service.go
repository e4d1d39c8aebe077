package review

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgallion1/mirror/internal/config"
	"github.com/dgallion1/mirror/internal/highlight"
	"github.com/dgallion1/mirror/internal/images"
	"github.com/dgallion1/mirror/internal/theme"
)

// Service owns the open documents and the resources they share.
type Service struct {
	docs        *Store
	images      *images.Manager
	highlighter *highlight.Highlighter
	theme       theme.Theme
	mode        Mode
	log         *slog.Logger
	cfg         config.Config

	opened  atomic.Int64
	evicted atomic.Int64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService validates the review mode and sets up shared caches.
func NewService(cfg config.Config, th theme.Theme, log *slog.Logger) (*Service, error) {
	mode, err := ParseMode(cfg.ReviewMode)
	if err != nil {
		return nil, err
	}
	im := images.NewManager(log)
	im.MaxTextureWidth = cfg.MaxTextureWidth
	return &Service{
		docs:        NewStore(cfg.DocumentTTL),
		images:      im,
		highlighter: highlight.New(th.Highlight.Style),
		theme:       th,
		mode:        mode,
		log:         log,
		cfg:         cfg,
	}, nil
}

// Start launches the idle document cleanup loop.
func (s *Service) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				if n := s.docs.Cleanup(); n > 0 {
					s.evicted.Add(int64(n))
					s.log.Info("evicted idle documents", "count", n)
				}
			}
		}
	}()
}

// Stop ends the cleanup loop and waits for it.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Open registers a new document. Relative image paths resolve against
// basePath; review files go to the configured output directory.
func (s *Service) Open(filename, source, basePath string) (*Document, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename is required")
	}
	th := s.theme
	doc := NewDocument(filename, source, Options{
		BasePath:    basePath,
		Mode:        s.mode,
		Theme:       &th,
		Images:      s.images,
		Highlighter: s.highlighter,
		Storage:     NewStorage(s.cfg.OutDir, filepath.Base(filename), s.cfg.SessionID),
		Logger:      s.log,
	})
	s.docs.Put(doc)
	s.opened.Add(1)
	s.log.Info("document opened", "doc_id", doc.ID, "file", filename, "bytes", len(source))
	return doc, nil
}

func (s *Service) Get(id string) *Document {
	return s.docs.Get(id)
}

func (s *Service) Close(id string) bool {
	return s.docs.Delete(id)
}

func (s *Service) List() []*Document {
	return s.docs.List()
}

// Stats is a point-in-time summary of the service.
type Stats struct {
	Documents int    `json:"documents"`
	Opened    int64  `json:"opened"`
	Evicted   int64  `json:"evicted"`
	Queued    int    `json:"queued_comments"`
	Approved  int    `json:"approved"`
	Mode      Mode   `json:"mode"`
	OutDir    string `json:"out_dir"`
}

func (s *Service) Stats() Stats {
	st := Stats{
		Opened:  s.opened.Load(),
		Evicted: s.evicted.Load(),
		Mode:    s.mode,
		OutDir:  s.cfg.OutDir,
	}
	for _, d := range s.docs.List() {
		snap := d.Snapshot()
		st.Documents++
		st.Queued += snap.Queued
		if snap.Approved {
			st.Approved++
		}
	}
	return st
}
