package spellcheck

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// CustomDictionaryFile is the file name of the persisted custom word list.
const CustomDictionaryFile = "custom_dictionary.txt"

// WordStore persists user-approved words, one per line.
type WordStore struct {
	path string
}

// NewWordStore creates a store backed by the file at path.
func NewWordStore(path string) *WordStore {
	return &WordStore{path: path}
}

// Path returns the backing file path.
func (s *WordStore) Path() string {
	return s.path
}

// Load reads the persisted words. Blank lines and repeated words are
// dropped. A missing file yields no words and existed == false.
func (s *WordStore) Load() (words []string, existed bool, err error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to open custom dictionary: %w", err)
	}
	defer file.Close()

	seen := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, true, fmt.Errorf("failed to read custom dictionary: %w", err)
	}
	return words, true, nil
}

// Merge unions the persisted words with supplied ones: persisted words
// first, then supplied words not yet present, in call order. The file is
// rewritten only if the union grew or the file did not exist.
func (s *WordStore) Merge(supplied []string) ([]string, error) {
	persisted, existed, err := s.Load()
	if err != nil {
		return nil, err
	}

	merged := mergeWords(persisted, supplied)
	if existed && len(merged) == len(persisted) {
		return merged, nil
	}

	if err := s.write(merged); err != nil {
		return nil, err
	}
	log.Printf("[Spell] Saved %d custom words to %s", len(merged), s.path)
	return merged, nil
}

// Append adds a single word as a new line at the end of the file,
// creating the file if needed.
func (s *WordStore) Append(word string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open custom dictionary: %w", err)
	}
	defer file.Close()

	line := word + "\n"
	missing, err := missingTrailingNewline(file)
	if err != nil {
		return fmt.Errorf("failed to read custom dictionary: %w", err)
	}
	if missing {
		line = "\n" + line
	}

	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to custom dictionary: %w", err)
	}
	return nil
}

// Watch reloads the file whenever another process writes it and passes the
// persisted words to onChange. It blocks until ctx is done.
func (s *WordStore) Watch(ctx context.Context, onChange func([]string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			words, _, err := s.Load()
			if err != nil {
				log.Printf("[Spell] Failed to reload custom dictionary: %v", err)
				continue
			}
			onChange(words)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Spell] Watcher error: %v", err)
		}
	}
}

func (s *WordStore) write(words []string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var b strings.Builder
	for _, word := range words {
		b.WriteString(word)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write custom dictionary: %w", err)
	}
	return nil
}

// mergeWords returns base followed by the trimmed, non-empty words of extra
// that base does not contain. base is assumed to be deduplicated.
func mergeWords(base, extra []string) []string {
	merged := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool, len(base)+len(extra))
	for _, word := range base {
		seen[word] = true
		merged = append(merged, word)
	}
	for _, word := range extra {
		word = strings.TrimSpace(word)
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		merged = append(merged, word)
	}
	return merged
}

func missingTrailingNewline(file *os.File) (bool, error) {
	info, err := file.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := file.ReadAt(last, info.Size()-1); err != nil && err != io.EOF {
		return false, err
	}
	return last[0] != '\n', nil
}
