package state

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/voluntree/voluntree/internal/profile"
)

const (
	// NoticeDuration is how long a favorite toggle notice stays visible.
	NoticeDuration = 2500 * time.Millisecond

	NoticeAdded   = "added"
	NoticeRemoved = "removed"
)

// Notice is the transient message emitted by a favorite toggle. Only one
// notice is live at a time; a new toggle replaces any pending one.
type Notice struct {
	Action     string `json:"action"`
	ID         any    `json:"id"`
	DurationMS int64  `json:"duration_ms"`
}

// Session is the state container owning the current profile and favorites.
// Every mutation goes through it and is persisted immediately; views receive
// copies and never hold references into the container.
type Session struct {
	store  *Store
	logger *zap.Logger

	mu          sync.Mutex
	profile     profile.Profile
	favorites   *Favorites
	notice      *Notice
	noticeTimer *time.Timer
}

// NewSession rehydrates the session from the store, substituting defaults
// for anything missing or corrupt.
func NewSession(store *Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Session{
		store:     store,
		logger:    logger,
		profile:   profile.Rehydrate(store.Get(KeyProfile)),
		favorites: FavoritesFromJSON(store.Get(KeyFavorites)),
	}
}

// Profile returns a copy of the current profile.
func (s *Session) Profile() profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProfile(s.profile)
}

// UpdateProfile validates, normalizes and persists the submitted profile.
// A malformed email blocks the update; everything else is repaired.
func (s *Session) UpdateProfile(p profile.Profile) (profile.Profile, error) {
	if err := p.Validate(); err != nil {
		return profile.Profile{}, fmt.Errorf("validating profile: %w", err)
	}
	p.Normalize()

	s.mu.Lock()
	s.profile = p
	current := copyProfile(s.profile)
	s.mu.Unlock()

	s.persistProfile(current)
	return current, nil
}

// ApplyTags merges extracted quiz tags into the profile and persists it.
func (s *Session) ApplyTags(interests, skills []string) profile.Profile {
	s.mu.Lock()
	for _, interest := range interests {
		s.profile.AddInterest(interest)
	}
	for _, skill := range skills {
		s.profile.AddSkill(skill)
	}
	current := copyProfile(s.profile)
	s.mu.Unlock()

	s.persistProfile(current)
	return current
}

// Favorites returns the normalized favorite ids.
func (s *Session) Favorites() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.List()
}

// IsFavorite reports whether the id is starred.
func (s *Session) IsFavorite(id any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.Has(id)
}

// ToggleFavorite flips membership for the id, persists the set and installs
// the replacement notice.
func (s *Session) ToggleFavorite(id any) Notice {
	s.mu.Lock()

	added := s.favorites.Toggle(id)
	action := NoticeRemoved
	if added {
		action = NoticeAdded
	}

	notice := Notice{
		Action:     action,
		ID:         NormalizeID(id),
		DurationMS: NoticeDuration.Milliseconds(),
	}
	s.setNoticeLocked(notice)

	raw, err := json.Marshal(s.favorites)
	s.mu.Unlock()

	if err == nil {
		err = s.store.Put(KeyFavorites, raw)
	}
	if err != nil {
		s.logger.Warn("persisting favorites failed", zap.Error(err))
	}

	return notice
}

// Notice returns the currently visible notice, if any.
func (s *Session) Notice() *Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice == nil {
		return nil
	}
	copied := *s.notice
	return &copied
}

func (s *Session) setNoticeLocked(notice Notice) {
	if s.noticeTimer != nil {
		s.noticeTimer.Stop()
	}
	s.notice = &notice
	s.noticeTimer = time.AfterFunc(NoticeDuration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// Only clear if no newer notice replaced this one meanwhile.
		if s.notice != nil && *s.notice == notice {
			s.notice = nil
		}
	})
}

func (s *Session) persistProfile(p profile.Profile) {
	raw, err := json.Marshal(p)
	if err == nil {
		err = s.store.Put(KeyProfile, raw)
	}
	if err != nil {
		s.logger.Warn("persisting profile failed", zap.Error(err))
	}
}

func copyProfile(p profile.Profile) profile.Profile {
	if p.Interests != nil {
		p.Interests = append([]string{}, p.Interests...)
	}
	if p.Skills != nil {
		p.Skills = append([]string{}, p.Skills...)
	}
	return p
}
