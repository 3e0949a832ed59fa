package tutor

import (
	"context"
	"strings"
	"sync"

	"github.com/Pratyush-06/Barista-Agent/internal/logging"
	"github.com/Pratyush-06/Barista-Agent/internal/store"
)

// ContentFile is the topic library file name inside the data dir.
const ContentFile = "coding_tutor_content.json"

// Topic is one lesson of the library.
type Topic struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	SampleQuestion string `json:"sample_question"`
}

// DefaultTopics is written to the content file on first run.
func DefaultTopics() []Topic {
	return []Topic{
		{
			ID:             "variables",
			Title:          "Variables & Data Types",
			Summary:        "Variables are containers for storing data values. In Python, you create a variable the moment you assign a value to it. Common data types include Integers (whole numbers), Floats (decimals), Strings (text), and Booleans (True/False).",
			SampleQuestion: "What is the difference between an Integer and a String?",
		},
		{
			ID:             "loops",
			Title:          "Loops",
			Summary:        "Loops allow you to repeat a block of code. A 'for' loop is used for iterating over a sequence (like a list, tuple, or string). A 'while' loop repeats as long as a specific condition remains true.",
			SampleQuestion: "When would you use a 'for' loop instead of a 'while' loop?",
		},
		{
			ID:             "functions",
			Title:          "Functions",
			Summary:        "A function is a block of code which only runs when it is called. You can pass data, known as parameters, into a function. A function can return data as a result. In Python, they are defined using the 'def' keyword.",
			SampleQuestion: "Why do we use functions in programming instead of writing the same code twice?",
		},
		{
			ID:             "conditionals",
			Title:          "Conditionals (If/Else)",
			Summary:        "Conditionals support logical conditions from mathematics. They allow the program to make decisions. Python uses 'if', 'elif', and 'else' keywords to execute code only if certain conditions are met.",
			SampleQuestion: "Explain how an 'if-else' statement controls the flow of a program.",
		},
	}
}

// Library is the topic list, reloadable while a session runs.
type Library struct {
	mu     sync.RWMutex
	path   string
	topics []Topic
}

// LoadLibrary reads path, creating it from DefaultTopics when missing.
func LoadLibrary(path string) (*Library, error) {
	l := &Library{path: path}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload re-reads the content file. On error the old topics are kept.
func (l *Library) Reload() error {
	topics, err := store.LoadDocument(l.path, DefaultTopics())
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.topics = topics
	l.mu.Unlock()
	logging.PersonaDebug("Loaded %d tutor topics from %s", len(topics), l.path)
	return nil
}

// Watch reloads the library whenever the file changes until the returned
// stop function is called.
func (l *Library) Watch(ctx context.Context) (stop func(), err error) {
	fw, err := store.NewFileWatcher(l.path, 0, func(string) {
		if err := l.Reload(); err != nil {
			logging.Get(logging.CategoryPersona).Warnf("Tutor content reload failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if err := fw.Start(ctx); err != nil {
		return nil, err
	}
	return fw.Stop, nil
}

// Topics returns a copy of the topics.
func (l *Library) Topics() []Topic {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Topic, len(l.topics))
	copy(out, l.topics)
	return out
}

// Find looks a topic up by id, ignoring case.
func (l *Library) Find(id string) (Topic, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, t := range l.topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// IDs returns the topic ids in file order.
func (l *Library) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, len(l.topics))
	for i, t := range l.topics {
		ids[i] = t.ID
	}
	return ids
}
