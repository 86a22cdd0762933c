package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"
)

var (
	_ output.QuestionSource = (*QuestionProvider)(nil)

	ErrQuestionNotFound = errors.New("question not found")
)

type ProviderConfig struct {
	Split string
	// Level keeps only questions of this level; zero keeps all levels.
	Level int
	// LocalFile, when set, is read instead of the hub metadata (.json or .jsonl).
	LocalFile string
	Logger    output.LoggerPort
}

// QuestionProvider loads the benchmark metadata once and serves it in dataset order.
type QuestionProvider struct {
	hub *Hub
	cfg ProviderConfig

	mu        sync.Mutex
	loaded    bool
	questions []entity.LabeledQuestion
}

func NewQuestionProvider(hub *Hub, cfg ProviderConfig) *QuestionProvider {
	if cfg.Split == "" {
		cfg.Split = DefaultSplit
	}
	return &QuestionProvider{hub: hub, cfg: cfg}
}

// record is one row of metadata.jsonl.
type record struct {
	TaskID      string    `json:"task_id"`
	Question    string    `json:"Question"`
	Level       flexLevel `json:"Level"`
	FinalAnswer string    `json:"Final answer"`
	FileName    string    `json:"file_name"`
}

// flexLevel accepts 1 as well as "1".
type flexLevel int

func (l *flexLevel) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*l = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid level %s: %w", data, err)
	}
	*l = flexLevel(n)
	return nil
}

func (p *QuestionProvider) load(ctx context.Context) ([]entity.LabeledQuestion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return p.questions, nil
	}

	file := p.cfg.LocalFile
	if file == "" {
		if p.hub == nil {
			return nil, fmt.Errorf("no dataset source configured")
		}
		var err error
		file, err = p.hub.Fetch(ctx, path.Join(DefaultYear, p.cfg.Split, "metadata.jsonl"))
		if err != nil {
			return nil, fmt.Errorf("fetch metadata: %w", err)
		}
	}

	records, err := readRecords(file)
	if err != nil {
		return nil, err
	}

	questions := make([]entity.LabeledQuestion, 0, len(records))
	for _, r := range records {
		if p.cfg.Level != 0 && int(r.Level) != p.cfg.Level {
			continue
		}
		questions = append(questions, entity.LabeledQuestion{
			Question: entity.Question{
				TaskID:   r.TaskID,
				Question: r.Question,
				FileName: r.FileName,
				Level:    int(r.Level),
			},
			GroundTruth: r.FinalAnswer,
		})
	}

	if p.cfg.Logger != nil {
		p.cfg.Logger.Info("Questions loaded", "file", file, "total", len(records), "selected", len(questions), "level", p.cfg.Level)
	}

	p.questions = questions
	p.loaded = true
	return questions, nil
}

func readRecords(file string) ([]record, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	if strings.EqualFold(filepath.Ext(file), ".json") {
		var records []record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		return records, nil
	}

	var records []record
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		var r record
		if err := json.Unmarshal(text, &r); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", file, line, err)
		}
		records = append(records, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", file, err)
	}
	return records, nil
}

func (p *QuestionProvider) GetQuestions(ctx context.Context) ([]entity.LabeledQuestion, error) {
	qs, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.LabeledQuestion, len(qs))
	copy(out, qs)
	return out, nil
}

// GetQuestion returns the first question of the selection.
func (p *QuestionProvider) GetQuestion(ctx context.Context) (entity.LabeledQuestion, error) {
	qs, err := p.load(ctx)
	if err != nil {
		return entity.LabeledQuestion{}, err
	}
	if len(qs) == 0 {
		return entity.LabeledQuestion{}, ErrQuestionNotFound
	}
	return qs[0], nil
}

// GetQuestionByID matches a task id first, then a 1-based position.
func (p *QuestionProvider) GetQuestionByID(ctx context.Context, idOrIndex string) (entity.LabeledQuestion, error) {
	qs, err := p.load(ctx)
	if err != nil {
		return entity.LabeledQuestion{}, err
	}
	idOrIndex = strings.TrimSpace(idOrIndex)
	for _, q := range qs {
		if q.Question.TaskID == idOrIndex {
			return q, nil
		}
	}
	if n, err := strconv.Atoi(idOrIndex); err == nil && n >= 1 && n <= len(qs) {
		return qs[n-1], nil
	}
	return entity.LabeledQuestion{}, fmt.Errorf("%q: %w", idOrIndex, ErrQuestionNotFound)
}

type FileEntry struct {
	TaskID   string
	Level    int
	FileName string
}

type Summary struct {
	Count int
	Files []FileEntry
}

// Summarize lists the attachment of every selected question.
func (p *QuestionProvider) Summarize(ctx context.Context) (Summary, error) {
	qs, err := p.load(ctx)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{Count: len(qs), Files: make([]FileEntry, 0, len(qs))}
	for _, q := range qs {
		s.Files = append(s.Files, FileEntry{TaskID: q.Question.TaskID, Level: q.Question.Level, FileName: q.Question.FileName})
	}
	return s, nil
}
