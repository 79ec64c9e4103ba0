package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultQuizLimit         = 10
	DefaultPracticeTestCount = 90
	DefaultPoolSize          = 100

	// randomPoolFactor oversizes the candidate pool of random quizzes.
	randomPoolFactor = 3
)

// QuestionFilter narrows a repository query. Empty strings mean no filter.
type QuestionFilter struct {
	Category   string
	Difficulty string
	Limit      int
	Skip       int
}

// QuestionSource is the question repository the engine pulls from.
type QuestionSource interface {
	GetQuestions(ctx context.Context, filter QuestionFilter) ([]Question, error)
	GetQuestionCount(ctx context.Context, category, difficulty string) (int64, error)
}

// PracticeTestOptions configures a weighted practice test. Zero values fall
// back to DefaultPracticeTestCount and every section of the catalog.
type PracticeTestOptions struct {
	QuestionCount int
	Sections      []int
	Difficulty    string
}

// Assembler builds question lists for each quiz mode and registers the
// resulting sessions.
type Assembler struct {
	source   QuestionSource
	registry *Registry
	catalog  *Catalog
	poolSize int
	log      *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

type AssemblerOption func(*Assembler)

func WithCatalog(c *Catalog) AssemblerOption {
	return func(a *Assembler) {
		if c != nil {
			a.catalog = c
		}
	}
}

// WithPoolSize sets how many candidates are fetched per category.
func WithPoolSize(n int) AssemblerOption {
	return func(a *Assembler) {
		if n > 0 {
			a.poolSize = n
		}
	}
}

func WithRand(r *rand.Rand) AssemblerOption {
	return func(a *Assembler) {
		if r != nil {
			a.rng = r
		}
	}
}

func WithLogger(l *zap.Logger) AssemblerOption {
	return func(a *Assembler) {
		if l != nil {
			a.log = l
		}
	}
}

func NewAssembler(source QuestionSource, registry *Registry, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		source:   source,
		registry: registry,
		catalog:  DefaultCatalog(),
		poolSize: DefaultPoolSize,
		log:      zap.NewNop(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assembler) Catalog() *Catalog {
	return a.catalog
}

// SectionQuiz draws up to limit questions from every category of a section.
func (a *Assembler) SectionQuiz(ctx context.Context, section, limit int, difficulty string) (*Session, error) {
	sec, ok := a.catalog.Section(section)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSection, section)
	}
	return a.categoryBased(ctx, TypeSectionQuiz, strconv.Itoa(section), sec.Categories, limit, difficulty)
}

// CategoryQuiz draws up to limit questions from a single category.
func (a *Assembler) CategoryQuiz(ctx context.Context, category string, limit int, difficulty string) (*Session, error) {
	return a.categoryBased(ctx, TypeCategoryQuiz, category, []string{category}, limit, difficulty)
}

// RandomQuiz draws from an oversized pool taken across the whole repository.
func (a *Assembler) RandomQuiz(ctx context.Context, limit int, difficulty string) (*Session, error) {
	if limit <= 0 {
		limit = DefaultQuizLimit
	}

	pool, err := a.source.GetQuestions(ctx, QuestionFilter{
		Difficulty: difficulty,
		Limit:      limit * randomPoolFactor,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch random pool: %w", err)
	}
	if len(pool) == 0 {
		a.log.Warn("No questions found for random quiz", zap.String("difficulty", difficulty))
		return nil, ErrNoQuestions
	}

	a.shuffle(pool)
	return a.start(TypeRandomQuiz, "", truncate(pool, limit)), nil
}

// PracticeTest composes a test whose per-section counts follow the section
// weights (largest-remainder apportionment). Sections that cannot fill their
// share are topped up from other sections' leftovers, and when nothing at
// all can be collected an unfiltered random pool is used instead.
func (a *Assembler) PracticeTest(ctx context.Context, opts PracticeTestOptions) (*Session, error) {
	target := opts.QuestionCount
	if target <= 0 {
		target = DefaultPracticeTestCount
	}

	sections := a.practiceSections(opts.Sections)
	weights := make([]float64, len(sections))
	for i, s := range sections {
		weights[i] = s.Weight
	}
	allocation := Allocate(weights, target)

	seen := make(map[string]bool)
	var selected, reserve []Question

	for i, sec := range sections {
		pool, err := a.gather(ctx, sec.Categories, opts.Difficulty, seen)
		if err != nil {
			return nil, err
		}
		a.shuffle(pool)

		take := allocation[i]
		if take > len(pool) {
			a.log.Warn("Section short of questions for practice test",
				zap.Int("section", sec.Number),
				zap.Int("wanted", take),
				zap.Int("available", len(pool)))
			take = len(pool)
		}
		selected = append(selected, pool[:take]...)
		reserve = append(reserve, pool[take:]...)
	}

	if short := target - len(selected); short > 0 && len(reserve) > 0 {
		a.shuffle(reserve)
		selected = append(selected, truncate(reserve, short)...)
	}

	if len(selected) == 0 {
		a.log.Warn("Practice test sections empty, falling back to random pool", zap.Int("target", target))
		pool, err := a.source.GetQuestions(ctx, QuestionFilter{Limit: target * randomPoolFactor})
		if err != nil {
			return nil, fmt.Errorf("fetch fallback pool: %w", err)
		}
		selected = pool
	}
	if len(selected) == 0 {
		return nil, ErrNoQuestions
	}

	a.shuffle(selected)
	return a.start(TypePracticeTest, "", truncate(selected, target)), nil
}

func (a *Assembler) categoryBased(ctx context.Context, typ Type, scope string, categories []string, limit int, difficulty string) (*Session, error) {
	if limit <= 0 {
		limit = DefaultQuizLimit
	}

	pool, err := a.gather(ctx, categories, difficulty, make(map[string]bool))
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		a.log.Warn("No questions found",
			zap.String("quiz_type", string(typ)),
			zap.String("scope", scope),
			zap.String("difficulty", difficulty))
		return nil, ErrNoQuestions
	}

	a.shuffle(pool)
	return a.start(typ, scope, truncate(pool, limit)), nil
}

// gather collects candidates from each category, skipping ids already in
// seen and recording the new ones.
func (a *Assembler) gather(ctx context.Context, categories []string, difficulty string, seen map[string]bool) ([]Question, error) {
	var pool []Question
	for _, category := range categories {
		qs, err := a.source.GetQuestions(ctx, QuestionFilter{
			Category:   category,
			Difficulty: difficulty,
			Limit:      a.poolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch questions for category %q: %w", category, err)
		}
		for _, q := range qs {
			if q.ID != "" {
				if seen[q.ID] {
					continue
				}
				seen[q.ID] = true
			}
			pool = append(pool, q)
		}
	}
	return pool, nil
}

func (a *Assembler) practiceSections(numbers []int) []Section {
	if len(numbers) == 0 {
		return a.catalog.All()
	}
	var out []Section
	used := make(map[int]bool)
	for _, n := range numbers {
		if used[n] {
			continue
		}
		if s, ok := a.catalog.Section(n); ok {
			out = append(out, s)
			used[n] = true
		}
	}
	if len(out) == 0 {
		return a.catalog.All()
	}
	return out
}

func (a *Assembler) start(typ Type, scope string, questions []Question) *Session {
	s := a.registry.Create(typ, scope)
	s.AddQuestions(questions)
	a.log.Info("Added questions to quiz session",
		zap.String("quiz_id", s.ID()),
		zap.Int("count", len(questions)))
	return s
}

func (a *Assembler) shuffle(qs []Question) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
}

func truncate(qs []Question, n int) []Question {
	if len(qs) > n {
		return qs[:n]
	}
	return qs
}
