package answerlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gaia-agent/internal/application/port/output"
	"gaia-agent/internal/domain/entity"
)

var _ output.AnswerStore = (*FileStore)(nil)

const answersKey = "answers"

// FileStore appends answer records to a JSON document of the form
// {"answers": [...]}. It assumes a single writer.
type FileStore struct {
	path   string
	logger output.LoggerPort
}

func NewFileStore(path string, logger output.LoggerPort) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Path() string {
	return s.path
}

// read tolerates a missing or corrupt file and a missing or malformed
// answers list; each case starts from an empty list.
func (s *FileStore) read() (map[string]json.RawMessage, []json.RawMessage) {
	doc := map[string]json.RawMessage{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Answer log unreadable, starting fresh", "path", s.path, "error", err)
		}
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("Answer log corrupt, starting fresh", "path", s.path, "error", err)
		return map[string]json.RawMessage{}, nil
	}
	if doc == nil {
		// a bare null decodes without error into a nil map
		s.logger.Warn("Answer log is null, starting fresh", "path", s.path)
		return map[string]json.RawMessage{}, nil
	}

	var answers []json.RawMessage
	if raw, ok := doc[answersKey]; ok {
		if err := json.Unmarshal(raw, &answers); err != nil {
			s.logger.Warn("Answer log has no usable answers list", "path", s.path)
			answers = nil
		}
	}
	return doc, answers
}

func (s *FileStore) Write(record entity.AnswerRecord) error {
	s.logger.Info("Preparing to write to answers file", "path", s.path, "taskID", record.TaskID)

	doc, answers := s.read()

	entry, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	answers = append(answers, entry)
	if answers == nil {
		answers = []json.RawMessage{}
	}

	list, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	doc[answersKey] = list

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode answer log: %w", err)
	}
	if err := writeAtomic(s.path, append(data, '\n')); err != nil {
		return err
	}

	s.logger.Info("Answer file updated", "path", s.path, "answers", len(answers))
	return nil
}

// ReadAll returns the records that decode as answers, skipping foreign entries.
func (s *FileStore) ReadAll() ([]entity.AnswerRecord, error) {
	_, answers := s.read()
	records := make([]entity.AnswerRecord, 0, len(answers))
	for _, raw := range answers {
		var r entity.AnswerRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create answer log dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp answer log: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp answer log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp answer log: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace answer log: %w", err)
	}
	return nil
}
