// Package settings holds the language and font preferences of one session
// with an explicit load/save life cycle against the kv store.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yungbote/mathtutor-backend/internal/data/repos/kv"
	"github.com/yungbote/mathtutor-backend/internal/domain"
	"github.com/yungbote/mathtutor-backend/internal/i18n"
	apperr "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

const (
	LanguageKey = "math-solver-language"
	FontKey     = "math-solver-font"
)

type Service struct {
	store   kv.Store
	langKey string
	fontKey string
	log     *logger.Logger

	mu      sync.RWMutex
	current domain.Settings
}

func NewService(store kv.Store, sessionID string, log *logger.Logger) *Service {
	return &Service{
		store:   store,
		langKey: kv.Key(LanguageKey, sessionID),
		fontKey: kv.Key(FontKey, sessionID),
		log:     log.With("service", "SettingsService", "session_id", sessionID),
		current: domain.DefaultSettings(),
	}
}

// Load reads persisted preferences. Missing, invalid or unreadable values
// fall back to the defaults; the first read failure is also returned.
func (s *Service) Load(ctx context.Context) (domain.Settings, error) {
	out := domain.DefaultSettings()
	raw, ok, langErr := s.read(ctx, s.langKey)
	if ok {
		if lang, valid := domain.ParseLanguage(raw); valid {
			out.Language = lang
		}
	}
	raw, ok, fontErr := s.read(ctx, s.fontKey)
	if ok {
		if f, valid := domain.ParseFont(raw); valid {
			out.Font = f
		}
	}

	s.mu.Lock()
	s.current = out
	s.mu.Unlock()
	return out, errors.Join(langErr, fontErr)
}

func (s *Service) read(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil {
		serr := &apperr.StorageError{Op: "get", Key: key, Err: err}
		s.log.Warn("settings read failed", "error", serr)
		return "", false, serr
	}
	return v, ok, nil
}

func (s *Service) Get() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Service) Language() domain.Language {
	return s.Get().Language
}

func (s *Service) Localizer() i18n.Localizer {
	return i18n.New(s.Language())
}

// SetLanguage reports whether the language changed.
func (s *Service) SetLanguage(ctx context.Context, raw string) (bool, error) {
	lang, ok := domain.ParseLanguage(raw)
	if !ok {
		return false, fmt.Errorf("unsupported language %q: %w", raw, apperr.ErrInvalidArgument)
	}
	s.mu.Lock()
	changed := s.current.Language != lang
	s.current.Language = lang
	s.mu.Unlock()

	s.write(ctx, s.langKey, string(lang))
	return changed, nil
}

func (s *Service) SetFont(ctx context.Context, raw string) error {
	f, ok := domain.ParseFont(raw)
	if !ok {
		return fmt.Errorf("unsupported font %q: %w", raw, apperr.ErrInvalidArgument)
	}
	s.mu.Lock()
	s.current.Font = f
	s.mu.Unlock()

	s.write(ctx, s.fontKey, string(f))
	return nil
}

func (s *Service) write(ctx context.Context, key, value string) {
	if err := s.store.Set(ctx, key, value); err != nil {
		s.log.Warn("settings write failed", "error", &apperr.StorageError{Op: "set", Key: key, Err: err})
	}
}
