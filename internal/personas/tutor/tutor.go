// Package tutor is a coding tutor that explains, quizzes and listens to
// the learner teach a concept back.
package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/logging"
	"github.com/Pratyush-06/Barista-Agent/internal/textmatch"
	"github.com/Pratyush-06/Barista-Agent/internal/tools"
	"github.com/Pratyush-06/Barista-Agent/internal/voice"
)

// Name is the persona key.
const Name = "tutor"

// Mode is the tutoring style.
type Mode string

const (
	ModeLearn     Mode = "learn"
	ModeQuiz      Mode = "quiz"
	ModeTeachBack Mode = "teach_back"
)

// Voices maps each mode to its TTS voice.
var Voices = map[Mode]voice.Options{
	ModeLearn:     {Voice: "en-US-matthew", Style: "Promo", TextPacing: true},
	ModeQuiz:      {Voice: "en-US-alicia", Style: "Conversational", TextPacing: true},
	ModeTeachBack: {Voice: "en-US-ken", Style: "Promo", TextPacing: true},
}

// State is the tutoring session.
type State struct {
	TopicID string `json:"current_topic_id,omitempty"`
	Topic   *Topic `json:"current_topic,omitempty"`
	Mode    Mode   `json:"mode"`
}

type session struct {
	state   State
	library *Library
	tts     voice.Synthesizer
}

// New builds a tutor agent.
func New(deps agent.Deps) (*agent.Agent, error) {
	library, err := LoadLibrary(deps.DataPath(ContentFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load tutor content: %w", err)
	}

	s := &session{
		state:   State{Mode: ModeLearn},
		library: library,
		tts:     deps.TTS,
	}

	a := &agent.Agent{
		Name:         Name,
		Title:        "Coding Tutor",
		Company:      deps.Company,
		Instructions: Instructions(deps.Company, library.Topics()),
		Greeting:     fmt.Sprintf("Hi! I'm your coding tutor from %s. Which topic would you like to study today: %s?", deps.Company, strings.Join(library.IDs(), ", ")),
		Tools:        s.registry(),
		Voice:        Voices[ModeLearn],
		Snapshot:     func() any { return s.state },
	}

	stop, err := library.Watch(context.Background())
	if err != nil {
		logging.Get(logging.CategoryPersona).Warnf("Tutor content hot reload disabled: %v", err)
	} else {
		a.OnClose(stop)
	}
	return a, nil
}

func (s *session) registry() *tools.Registry {
	reg := tools.NewRegistry(Name)
	reg.MustRegister(&tools.Tool{
		Name:        "list_topics",
		Description: "List the available coding topics with their ids.",
		Execute:     s.listTopics,
	})
	reg.MustRegister(&tools.Tool{
		Name:        "select_topic",
		Description: "Select the topic to study by its id.",
		Execute:     s.selectTopic,
		Schema: tools.ToolSchema{
			Required:   []string{"topic_id"},
			Properties: map[string]tools.Property{"topic_id": {Type: "string", Description: "topic id to select"}},
		},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "set_learning_mode",
		Description: "Switch between learn, quiz and teach_back modes. Also switches the voice.",
		Execute:     s.setLearningMode,
		Schema: tools.ToolSchema{
			Required: []string{"mode"},
			Properties: map[string]tools.Property{
				"mode": {Type: "string", Description: "learn | quiz | teach_back", Enum: []any{"learn", "quiz", "teach_back"}},
			},
		},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "get_quiz_question",
		Description: "Get the quiz question for the current topic.",
		Execute:     s.getQuizQuestion,
	})
	reg.MustRegister(&tools.Tool{
		Name:        "evaluate_teaching",
		Description: "Score the user's teach-back explanation of the current topic.",
		Execute:     s.evaluateTeaching,
		Schema: tools.ToolSchema{
			Required:   []string{"user_explanation"},
			Properties: map[string]tools.Property{"user_explanation": {Type: "string", Description: "user's teach-back explanation"}},
		},
	})
	return reg
}

func (s *session) listTopics(_ context.Context, _ map[string]any) (string, error) {
	topics := s.library.Topics()
	if len(topics) == 0 {
		return "No topics are available right now.", nil
	}
	parts := make([]string, len(topics))
	for i, t := range topics {
		parts[i] = fmt.Sprintf("%s (%s)", t.ID, t.Title)
	}
	return "Available topics: " + strings.Join(parts, ", ") + ".", nil
}

func (s *session) selectTopic(_ context.Context, args map[string]any) (string, error) {
	topic, ok := s.library.Find(tools.String(args, "topic_id"))
	if !ok {
		return "", tools.Rejectf("Topic not found. Available topics: %s", strings.Join(s.library.IDs(), ", "))
	}
	s.state.TopicID = topic.ID
	s.state.Topic = &topic
	return fmt.Sprintf("Topic set to %s. Ask me to 'learn', 'quiz', or 'teach_back'.", topic.Title), nil
}

func (s *session) setLearningMode(_ context.Context, args map[string]any) (string, error) {
	mode := Mode(strings.ToLower(tools.String(args, "mode")))
	opts, ok := Voices[mode]
	if !ok {
		return "", tools.Rejectf("Mode must be one of: learn, quiz, teach_back")
	}
	s.state.Mode = mode

	if s.tts == nil {
		return fmt.Sprintf("Switched to %s mode. Mode set locally. No active session for voice change.", mode), nil
	}
	s.tts.UpdateOptions(opts)

	var detail string
	switch mode {
	case ModeLearn:
		title := "no topic selected"
		if s.state.Topic != nil {
			title = s.state.Topic.Title
		}
		detail = "Mode LEARN. Ready to explain: " + title
	case ModeQuiz:
		detail = "Mode QUIZ. I will ask a question to test your coding knowledge."
	case ModeTeachBack:
		detail = "Mode TEACH_BACK. Ask the user to explain the code concept back to you."
	}
	return fmt.Sprintf("Switched to %s mode. %s", mode, detail), nil
}

func (s *session) getQuizQuestion(_ context.Context, _ map[string]any) (string, error) {
	if s.state.Topic == nil {
		return "", tools.Rejectf("No topic selected. Ask the user to pick one of: %s", strings.Join(s.library.IDs(), ", "))
	}
	return fmt.Sprintf("Quiz question on %s: %s", s.state.Topic.Title, s.state.Topic.SampleQuestion), nil
}

// Score rates an explanation against a topic summary on a 0..10 scale by
// the share of distinct summary words the explanation reuses.
func Score(summary, explanation string) int {
	overlap, total := textmatch.KeywordOverlap(summary, explanation)
	if total == 0 {
		return 0
	}
	return overlap * 10 / total
}

// Feedback describes a score.
func Feedback(score int) string {
	switch {
	case score >= 8:
		return "Excellent, you covered the technical definitions perfectly."
	case score >= 5:
		return "Good, you understood the core logic."
	case score >= 3:
		return "A start, try to use more specific programming terminology."
	default:
		return "Needs work, try reviewing the concept definition again."
	}
}

func (s *session) evaluateTeaching(_ context.Context, args map[string]any) (string, error) {
	if s.state.Topic == nil || strings.TrimSpace(s.state.Topic.Summary) == "" {
		return "", tools.Rejectf("No topic selected to evaluate.")
	}
	score := Score(s.state.Topic.Summary, tools.String(args, "user_explanation"))
	return fmt.Sprintf("Score: %d/10. %s", score, Feedback(score)), nil
}
