package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strings"
	"time"

	"secplus_backend/internal/quiz"
	"secplus_backend/internal/repository"
	"secplus_backend/internal/util"
	"secplus_backend/pkg/logger"
	"secplus_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// BankQuestion is one entry of an importable question bank file. The same
// field names are used for JSON and YAML.
type BankQuestion struct {
	QuestionText   string      `json:"question_text" yaml:"question_text"`
	QuestionType   string      `json:"question_type" yaml:"question_type"`
	Category       string      `json:"category" yaml:"category"`
	Difficulty     string      `json:"difficulty" yaml:"difficulty"`
	Explanation    string      `json:"explanation" yaml:"explanation"`
	Options        []string    `json:"options" yaml:"options"`
	CorrectAnswer  interface{} `json:"correct_answer" yaml:"correct_answer"`
	CorrectAnswers []string    `json:"correct_answers" yaml:"correct_answers"`
	Tags           []string    `json:"tags" yaml:"tags"`
	Reference      string      `json:"reference" yaml:"reference"`
}

type bankFile struct {
	Questions []BankQuestion `json:"questions" yaml:"questions"`
}

type ImportResult struct {
	Source   string `json:"source"`
	Total    int    `json:"total"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Invalid  int    `json:"invalid"`
	URL      string `json:"url,omitempty"`
}

type QuestionPage struct {
	Questions  []quiz.Question `json:"questions"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

type CategorySummary struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// QuestionService serves the question catalog and imports bank files.
type QuestionService struct {
	Repo       *repository.QuestionRepository
	Storage    StorageProvider
	DefaultKey string
}

func NewQuestionService(repo *repository.QuestionRepository, storage StorageProvider, defaultKey string) *QuestionService {
	return &QuestionService{Repo: repo, Storage: storage, DefaultKey: defaultKey}
}

func (s *QuestionService) ListQuestions(ctx context.Context, category, difficulty string, page, pageSize int) (*QuestionPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total, err := s.Repo.GetQuestionCount(ctx, category, difficulty)
	if err != nil {
		return nil, err
	}
	questions, err := s.Repo.GetQuestions(ctx, quiz.QuestionFilter{
		Category:   category,
		Difficulty: difficulty,
		Limit:      pageSize,
		Skip:       (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []quiz.Question{}
	}
	return &QuestionPage{
		Questions:  questions,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*quiz.Question, error) {
	q, err := s.Repo.GetQuestion(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}

func (s *QuestionService) Categories(ctx context.Context) ([]CategorySummary, error) {
	rows, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategorySummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategorySummary{Category: r.Category, Count: r.Count})
	}
	return out, nil
}

func (s *QuestionService) Tags(ctx context.Context) ([]string, error) {
	return s.Repo.ListTags(ctx)
}

// ImportFromStorage imports the bank stored under key, or under the
// configured default key when key is empty.
func (s *QuestionService) ImportFromStorage(ctx context.Context, key string) (*ImportResult, error) {
	if s.Storage == nil {
		return nil, util.ErrStorageNotConfigured
	}
	if key == "" {
		key = s.DefaultKey
	}

	rc, err := s.Storage.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open question bank %q: %w", key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read question bank %q: %w", key, err)
	}
	res, err := s.Import(ctx, key, data)
	if err != nil {
		return nil, err
	}
	res.URL = s.Storage.GetURL(key)
	return res, nil
}

// ImportUpload archives an uploaded bank file to storage, when storage is
// configured, and imports it.
func (s *QuestionService) ImportUpload(ctx context.Context, filename string, r io.Reader, contentType string) (*ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var url string
	if s.Storage != nil {
		key := path.Join("banks", time.Now().Format(util.SessionStampFormat)+"_"+path.Base(filename))
		url, err = s.Storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
		if err != nil {
			logger.Log.Warn("Failed to archive uploaded question bank", zap.String("file", filename), zap.Error(err))
			url = ""
		}
	}

	res, err := s.Import(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	res.URL = url
	return res, nil
}

// Import parses data as a JSON or YAML bank and inserts every valid question
// whose text is not already stored.
func (s *QuestionService) Import(ctx context.Context, name string, data []byte) (*ImportResult, error) {
	items, err := ParseBank(name, data)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Source: name, Total: len(items)}
	for i := range items {
		q, ok := items[i].toQuestion()
		if !ok {
			res.Invalid++
			continue
		}
		exists, err := s.Repo.ExistsByText(ctx, q.Text)
		if err != nil {
			return nil, err
		}
		if exists {
			res.Skipped++
			continue
		}
		if err := s.Repo.Create(ctx, repository.FromQuizQuestion(&q)); err != nil {
			return nil, fmt.Errorf("insert question %d: %w", i+1, err)
		}
		res.Imported++
	}

	if res.Imported > 0 {
		s.Repo.InvalidateCounts(ctx)
		monitoring.QuestionsImported.Add(float64(res.Imported))
	}
	logger.Log.Info("Question bank imported",
		zap.String("source", name),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
		zap.Int("invalid", res.Invalid))
	return res, nil
}

// ParseBank accepts a list of questions or an object with a "questions"
// list, as JSON or YAML. Files named *.yaml or *.yml are read as YAML only.
func ParseBank(name string, data []byte) ([]BankQuestion, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, util.ErrInvalidBankFormat
	}
	ext := strings.ToLower(path.Ext(name))
	if ext != ".yaml" && ext != ".yml" {
		if items, err := parseJSONBank(data); err == nil {
			return items, nil
		}
	}
	return parseYAMLBank(data)
}

func parseJSONBank(data []byte) ([]BankQuestion, error) {
	var items []BankQuestion
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}
	var wrapped bankFile
	if err := json.Unmarshal(data, &wrapped); err != nil || wrapped.Questions == nil {
		return nil, util.ErrInvalidBankFormat
	}
	return wrapped.Questions, nil
}

func parseYAMLBank(data []byte) ([]BankQuestion, error) {
	var items []BankQuestion
	if err := yaml.Unmarshal(data, &items); err == nil {
		return items, nil
	}
	var wrapped bankFile
	if err := yaml.Unmarshal(data, &wrapped); err != nil || wrapped.Questions == nil {
		return nil, util.ErrInvalidBankFormat
	}
	return wrapped.Questions, nil
}

func (b *BankQuestion) toQuestion() (quiz.Question, bool) {
	text := strings.TrimSpace(b.QuestionText)
	category := strings.TrimSpace(b.Category)
	if text == "" || category == "" {
		return quiz.Question{}, false
	}
	typ := strings.ToLower(strings.TrimSpace(b.QuestionType))
	if typ == "" {
		typ = "multiple_choice"
	}

	var answer string
	switch v := b.CorrectAnswer.(type) {
	case nil:
	case string:
		answer = strings.TrimSpace(v)
	case bool:
		answer = "False"
		if v {
			answer = "True"
		}
	case float64:
		// numeric answers are option indexes
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return quiz.Question{}, false
		}
		answer = fmt.Sprint(int64(v))
	default:
		answer = fmt.Sprint(v)
	}

	q := quiz.Question{
		Text:           text,
		Type:           typ,
		Category:       category,
		Difficulty:     strings.ToLower(strings.TrimSpace(b.Difficulty)),
		Explanation:    b.Explanation,
		Options:        b.Options,
		CorrectAnswer:  answer,
		CorrectAnswers: b.CorrectAnswers,
		Tags:           b.Tags,
		Reference:      b.Reference,
	}
	if q.Kind().IsChoice() && len(q.Options) == 0 {
		return quiz.Question{}, false
	}
	if answer == "" && len(nonEmpty(q.CorrectAnswers)) == 0 {
		return quiz.Question{}, false
	}
	return q, true
}
