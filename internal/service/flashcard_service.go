package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"secplus_backend/internal/event"
	"secplus_backend/internal/quiz"
	"secplus_backend/internal/util"
	"secplus_backend/pkg/logger"
	"secplus_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultFlashcardTimeout = 30 * time.Minute
	defaultFlashcardPool    = 100
	defaultCardsPerPage     = 50
	noAnswerBack            = "No answer provided"
)

type Flashcard struct {
	ID           string   `json:"id"`
	Front        string   `json:"front"`
	Back         string   `json:"back"`
	Category     string   `json:"category"`
	Difficulty   string   `json:"difficulty"`
	QuestionType string   `json:"questionType"`
	Tags         []string `json:"tags"`
	Reference    string   `json:"reference,omitempty"`

	SessionID   string `json:"sessionId"`
	CardNumber  int    `json:"cardNumber"`
	TotalCards  int    `json:"totalCards"`
	Section     int    `json:"section"`
	SectionName string `json:"sectionName"`
}

type FlashcardCreated struct {
	SessionID   string     `json:"sessionId"`
	Section     int        `json:"section"`
	SectionName string     `json:"sectionName"`
	TotalCards  int        `json:"totalCards"`
	Card        *Flashcard `json:"card,omitempty"`
}

type FlashcardPage struct {
	Flashcards  []Flashcard `json:"flashcards"`
	TotalCards  int         `json:"totalCards"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
	PerPage     int         `json:"perPage"`
	HasNext     bool        `json:"hasNext"`
	HasPrev     bool        `json:"hasPrev"`
}

type flashcardSession struct {
	mu           sync.Mutex
	id           string
	section      quiz.Section
	cards        []Flashcard
	current      int
	lastAccessed time.Time
}

// card returns a copy of the 0-based card with session metadata attached.
func (fs *flashcardSession) card(idx int) Flashcard {
	c := fs.cards[idx]
	c.Tags = append([]string(nil), c.Tags...)
	c.SessionID = fs.id
	c.CardNumber = idx + 1
	c.TotalCards = len(fs.cards)
	c.Section = fs.section.Number
	c.SectionName = fs.section.Name
	return c
}

// FlashcardService keeps study-mode card decks in memory. Decks expire after
// an idle timeout like quiz sessions do.
type FlashcardService struct {
	Source   quiz.QuestionSource
	Catalog  *quiz.Catalog
	Progress *ProgressService
	Events   event.Publisher

	mu       sync.RWMutex
	sessions map[string]*flashcardSession
	timeout  atomic.Int64
	poolSize int
	now      func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewFlashcardService(source quiz.QuestionSource, catalog *quiz.Catalog, progress *ProgressService, events event.Publisher, timeout time.Duration) *FlashcardService {
	if catalog == nil {
		catalog = quiz.DefaultCatalog()
	}
	if events == nil {
		events = event.NopPublisher{}
	}
	s := &FlashcardService{
		Source:   source,
		Catalog:  catalog,
		Progress: progress,
		Events:   events,
		sessions: make(map[string]*flashcardSession),
		poolSize: defaultFlashcardPool,
		now:      time.Now,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.SetTimeout(timeout)
	return s
}

func (s *FlashcardService) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultFlashcardTimeout
	}
	s.timeout.Store(int64(d))
}

// CreateSession builds a shuffled deck from every category of the section.
// A positive limit caps the deck size.
func (s *FlashcardService) CreateSession(ctx context.Context, section, limit int) (*FlashcardCreated, error) {
	sec, ok := s.Catalog.Section(section)
	if !ok {
		return nil, util.ErrInvalidSection
	}

	seen := make(map[string]bool)
	var cards []Flashcard
	for _, cat := range sec.Categories {
		qs, err := s.Source.GetQuestions(ctx, quiz.QuestionFilter{Category: cat, Limit: s.poolSize})
		if err != nil {
			return nil, fmt.Errorf("fetch flashcards for category %q: %w", cat, err)
		}
		for i := range qs {
			if qs[i].ID != "" && seen[qs[i].ID] {
				continue
			}
			seen[qs[i].ID] = true
			if card, ok := ToFlashcard(&qs[i]); ok {
				cards = append(cards, card)
			}
		}
	}
	if len(cards) == 0 {
		logger.Log.Warn("No flashcards found for section", zap.Int("section", section))
		return nil, util.ErrNoFlashcards
	}

	s.rngMu.Lock()
	s.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	s.rngMu.Unlock()
	if limit > 0 && limit < len(cards) {
		cards = cards[:limit]
	}

	now := s.now()
	fs := &flashcardSession{
		id:           fmt.Sprintf("flashcard_%d_%s_%s", section, now.UTC().Format(util.SessionStampFormat), uuid.NewString()[:8]),
		section:      sec,
		cards:        cards,
		lastAccessed: now,
	}

	s.mu.Lock()
	s.sessions[fs.id] = fs
	s.mu.Unlock()

	logger.Log.Info("Created flashcard session",
		zap.String("sessionId", fs.id),
		zap.Int("section", section),
		zap.Int("cards", len(cards)))

	first := fs.card(0)
	return &FlashcardCreated{
		SessionID:   fs.id,
		Section:     sec.Number,
		SectionName: sec.Name,
		TotalCards:  len(cards),
		Card:        &first,
	}, nil
}

// GetCard returns the 1-based card without moving the cursor, or the card
// under the cursor when number is not positive.
func (s *FlashcardService) GetCard(sessionID string, number int) (*Flashcard, error) {
	fs, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	idx := fs.current
	if number > 0 {
		idx = number - 1
	}
	if idx < 0 || idx >= len(fs.cards) {
		return nil, util.ErrCardOutOfRange
	}
	c := fs.card(idx)
	return &c, nil
}

func (s *FlashcardService) GetPage(sessionID string, page, perPage int) (*FlashcardPage, error) {
	fs, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultCardsPerPage
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	total := len(fs.cards)
	totalPages := (total + perPage - 1) / perPage
	out := &FlashcardPage{
		Flashcards:  []Flashcard{},
		TotalCards:  total,
		CurrentPage: page,
		TotalPages:  totalPages,
		PerPage:     perPage,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
	for i := (page - 1) * perPage; i < total && i < page*perPage; i++ {
		out.Flashcards = append(out.Flashcards, fs.card(i))
	}
	return out, nil
}

// Navigate moves the cursor one card forward or back. Moving past either
// end returns ErrCardOutOfRange and leaves the cursor where it was.
func (s *FlashcardService) Navigate(sessionID, direction string) (*Flashcard, error) {
	fs, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	next := fs.current
	switch strings.ToLower(direction) {
	case "next":
		next++
	case "previous", "prev":
		next--
	default:
		return nil, util.ErrInvalidDirection
	}
	if next < 0 || next >= len(fs.cards) {
		return nil, util.ErrCardOutOfRange
	}
	fs.current = next
	c := fs.card(next)
	return &c, nil
}

func (s *FlashcardService) SetCard(sessionID string, number int) (*Flashcard, error) {
	fs, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	idx := number - 1
	if idx < 0 || idx >= len(fs.cards) {
		return nil, util.ErrCardOutOfRange
	}
	fs.current = idx
	c := fs.card(idx)
	return &c, nil
}

// RecordView stores a card view for an authenticated user and publishes
// flashcard.viewed. Failures are logged, never returned.
func (s *FlashcardService) RecordView(ctx context.Context, userID string, card *Flashcard) {
	if card == nil {
		return
	}
	if userID != "" && s.Progress != nil {
		if err := s.Progress.SaveFlashcardProgress(ctx, userID, card.Section, 1, card.SessionID); err != nil {
			logger.Log.Error("Failed to save flashcard progress", zap.String("sessionId", card.SessionID), zap.Error(err))
		}
	}
	err := s.Events.Publish(util.EventFlashcardViewed, event.FlashcardViewed{
		SessionID:   card.SessionID,
		Section:     card.Section,
		UserID:      userID,
		CardsViewed: 1,
	})
	if err != nil {
		logger.Log.Warn("Failed to publish flashcard event", zap.Error(err))
	}
}

func (s *FlashcardService) Cleanup(sessionID string) error {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return util.ErrFlashcardSessionNotFound
	}
	logger.Log.Info("Cleaned up flashcard session", zap.String("sessionId", sessionID))
	return nil
}

func (s *FlashcardService) SweepExpired() int {
	cutoff := s.now().Add(-time.Duration(s.timeout.Load()))

	s.mu.Lock()
	removed := 0
	for id, fs := range s.sessions {
		if fs.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	remaining := len(s.sessions)
	s.mu.Unlock()

	monitoring.ActiveSessions.WithLabelValues("flashcard").Set(float64(remaining))
	if removed > 0 {
		logger.Log.Info("Swept expired flashcard sessions", zap.Int("removed", removed))
	}
	return removed
}

func (s *FlashcardService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// session looks up a deck, evicting it on the spot when it has expired, and
// refreshes its idle timer.
func (s *FlashcardService) session(id string) (*flashcardSession, error) {
	s.mu.RLock()
	fs := s.sessions[id]
	s.mu.RUnlock()
	if fs == nil {
		return nil, util.ErrFlashcardSessionNotFound
	}

	now := s.now()
	if fs.idleSince().Before(now.Add(-time.Duration(s.timeout.Load()))) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, util.ErrFlashcardSessionNotFound
	}

	fs.mu.Lock()
	fs.lastAccessed = now
	fs.mu.Unlock()
	return fs, nil
}

func (fs *flashcardSession) idleSince() time.Time {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.lastAccessed
}

// ToFlashcard turns a question into a card. Questions without text cannot
// be studied and are skipped.
func ToFlashcard(q *quiz.Question) (Flashcard, bool) {
	front := strings.TrimSpace(q.Text)
	if front == "" {
		return Flashcard{}, false
	}

	var parts []string
	if q.Explanation != "" {
		parts = append(parts, q.Explanation)
	}
	if answer := cardAnswer(q); answer != "" {
		parts = append(parts, answer)
	}
	back := noAnswerBack
	if len(parts) > 0 {
		back = strings.Join(parts, "\n\n")
	}

	return Flashcard{
		ID:           q.ID,
		Front:        front,
		Back:         back,
		Category:     q.Category,
		Difficulty:   q.Difficulty,
		QuestionType: strings.ToLower(q.Type),
		Tags:         append([]string{}, q.Tags...),
		Reference:    q.Reference,
	}, true
}

func cardAnswer(q *quiz.Question) string {
	accepted := nonEmpty(q.CorrectAnswers)
	if q.Kind() == quiz.KindFillInBlank && len(accepted) > 1 {
		return "Correct Answers: " + strings.Join(accepted, ", ")
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" && len(accepted) == 0 {
		return ""
	}
	display := quiz.CorrectAnswerDisplay(q)
	if display == "" {
		return ""
	}
	return "Correct Answer: " + display
}

func nonEmpty(items []string) []string {
	var out []string
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			out = append(out, it)
		}
	}
	return out
}
