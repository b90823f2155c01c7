package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/corepath-impact/storefront-client/pkg/enums"
	"github.com/corepath-impact/storefront-client/pkg/logger"
)

const maxRecentSearches = 10

type uiSnapshot struct {
	Theme          enums.Theme `json:"theme"`
	RecentSearches []string    `json:"recent_searches"`
}

// UIStore tracks chrome state. Only the theme and the recent-search history
// are durable; open/closed flags and the live search query reset on restart.
type UIStore struct {
	mu     sync.RWMutex
	medium Medium
	log    *logger.Logger

	theme          enums.Theme
	recentSearches []string

	mobileMenuOpen    bool
	searchOpen        bool
	loginModalOpen    bool
	registerModalOpen bool
	pageLoading       bool
	searchQuery       string
}

func NewUIStore(ctx context.Context, medium Medium, log *logger.Logger) (*UIStore, error) {
	s := &UIStore{medium: medium, log: log, theme: enums.ThemeSystem}
	var snap uiSnapshot
	found, err := load(ctx, medium, log, uiKey, &snap)
	if found {
		if snap.Theme.IsValid() {
			s.theme = snap.Theme
		}
		if len(snap.RecentSearches) > maxRecentSearches {
			snap.RecentSearches = snap.RecentSearches[:maxRecentSearches]
		}
		s.recentSearches = snap.RecentSearches
	}
	return s, err
}

func (s *UIStore) Theme() enums.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *UIStore) SetTheme(ctx context.Context, theme enums.Theme) {
	if !theme.IsValid() {
		return
	}
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	s.persistUI(ctx)
}

func (s *UIStore) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

func (s *UIStore) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = query
}

// AddRecentSearch records a submitted query at the front of the history.
// Blank queries are ignored, duplicates move to the front, and the history
// keeps at most the ten most recent entries.
func (s *UIStore) AddRecentSearch(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	s.mu.Lock()
	next := make([]string, 0, len(s.recentSearches)+1)
	next = append(next, query)
	for _, existing := range s.recentSearches {
		if !strings.EqualFold(existing, query) {
			next = append(next, existing)
		}
	}
	if len(next) > maxRecentSearches {
		next = next[:maxRecentSearches]
	}
	s.recentSearches = next
	s.mu.Unlock()
	s.persistUI(ctx)
}

func (s *UIStore) RecentSearches() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.recentSearches))
	copy(out, s.recentSearches)
	return out
}

func (s *UIStore) ClearRecentSearches(ctx context.Context) {
	s.mu.Lock()
	s.recentSearches = nil
	s.mu.Unlock()
	s.persistUI(ctx)
}

func (s *UIStore) SetMobileMenuOpen(open bool) { s.setFlag(&s.mobileMenuOpen, open) }
func (s *UIStore) MobileMenuOpen() bool        { return s.flag(&s.mobileMenuOpen) }

func (s *UIStore) SetSearchOpen(open bool) { s.setFlag(&s.searchOpen, open) }
func (s *UIStore) SearchOpen() bool        { return s.flag(&s.searchOpen) }

func (s *UIStore) SetLoginModalOpen(open bool) { s.setFlag(&s.loginModalOpen, open) }
func (s *UIStore) LoginModalOpen() bool        { return s.flag(&s.loginModalOpen) }

func (s *UIStore) SetRegisterModalOpen(open bool) { s.setFlag(&s.registerModalOpen, open) }
func (s *UIStore) RegisterModalOpen() bool        { return s.flag(&s.registerModalOpen) }

func (s *UIStore) SetPageLoading(loading bool) { s.setFlag(&s.pageLoading, loading) }
func (s *UIStore) PageLoading() bool           { return s.flag(&s.pageLoading) }

func (s *UIStore) setFlag(target *bool, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*target = value
}

func (s *UIStore) flag(target *bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *target
}

func (s *UIStore) persistUI(ctx context.Context) {
	s.mu.RLock()
	snap := uiSnapshot{Theme: s.theme, RecentSearches: append([]string(nil), s.recentSearches...)}
	s.mu.RUnlock()
	persist(ctx, s.medium, s.log, uiKey, snap)
}
