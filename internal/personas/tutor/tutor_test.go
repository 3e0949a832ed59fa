package tutor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/voice"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeTTS struct{ opts voice.Options }

func (f *fakeTTS) Provider() string                { return "fake" }
func (f *fakeTTS) Options() voice.Options          { return f.opts }
func (f *fakeTTS) UpdateOptions(opts voice.Options) { f.opts = opts }

func newTutor(t *testing.T, tts voice.Synthesizer) (*agent.Agent, string) {
	t.Helper()
	dir := t.TempDir()
	a, err := New(agent.Deps{DataDir: dir, Company: "Physics Wallah", TTS: tts})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, dir
}

func call(t *testing.T, a *agent.Agent, tool string, args map[string]any) string {
	t.Helper()
	return a.Tools.Invoke(context.Background(), tool, args)
}

func TestNew_CreatesDefaultContent(t *testing.T) {
	a, dir := newTutor(t, nil)

	data, err := os.ReadFile(filepath.Join(dir, ContentFile))
	require.NoError(t, err)
	var topics []Topic
	require.NoError(t, json.Unmarshal(data, &topics))
	assert.Len(t, topics, 4)

	assert.Contains(t, a.Instructions, "Physics Wallah")
	assert.Contains(t, a.Instructions, "loops (Loops)")
	assert.Equal(t, "en-US-matthew", a.Voice.Voice)
	assert.Equal(t, []string{"evaluate_teaching", "get_quiz_question", "list_topics", "select_topic", "set_learning_mode"}, a.ToolNames())
}

func TestSelectTopic(t *testing.T) {
	a, _ := newTutor(t, nil)

	assert.Equal(t, "Topic set to Loops. Ask me to 'learn', 'quiz', or 'teach_back'.",
		call(t, a, "select_topic", map[string]any{"topic_id": "LOOPS"}))
	assert.Equal(t, "loops", a.Snapshot().(State).TopicID)

	assert.Equal(t, "Topic not found. Available topics: variables, loops, functions, conditionals",
		call(t, a, "select_topic", map[string]any{"topic_id": "recursion"}))
	assert.Equal(t, "loops", a.Snapshot().(State).TopicID, "failed selection keeps the old topic")
}

func TestSetLearningMode(t *testing.T) {
	t.Run("without tts", func(t *testing.T) {
		a, _ := newTutor(t, nil)
		assert.Equal(t, "Switched to quiz mode. Mode set locally. No active session for voice change.",
			call(t, a, "set_learning_mode", map[string]any{"mode": "quiz"}))
		assert.Equal(t, ModeQuiz, a.Snapshot().(State).Mode)
	})

	t.Run("switches voices", func(t *testing.T) {
		tts := &fakeTTS{}
		a, _ := newTutor(t, tts)

		assert.Equal(t, "Switched to learn mode. Mode LEARN. Ready to explain: no topic selected",
			call(t, a, "set_learning_mode", map[string]any{"mode": "learn"}))

		call(t, a, "select_topic", map[string]any{"topic_id": "functions"})
		assert.Equal(t, "Switched to learn mode. Mode LEARN. Ready to explain: Functions",
			call(t, a, "set_learning_mode", map[string]any{"mode": "Learn"}))

		call(t, a, "set_learning_mode", map[string]any{"mode": "quiz"})
		assert.Equal(t, voice.Options{Voice: "en-US-alicia", Style: "Conversational", TextPacing: true}, tts.opts)

		got := call(t, a, "set_learning_mode", map[string]any{"mode": "teach_back"})
		assert.Contains(t, got, "Mode TEACH_BACK.")
		assert.Equal(t, "en-US-ken", tts.opts.Voice)
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		a, _ := newTutor(t, nil)
		assert.Equal(t, "Mode must be one of: learn, quiz, teach_back",
			call(t, a, "set_learning_mode", map[string]any{"mode": "exam"}))
		assert.Equal(t, ModeLearn, a.Snapshot().(State).Mode)
	})
}

func TestGetQuizQuestion(t *testing.T) {
	a, _ := newTutor(t, nil)
	assert.Contains(t, call(t, a, "get_quiz_question", nil), "No topic selected")

	call(t, a, "select_topic", map[string]any{"topic_id": "variables"})
	assert.Equal(t, "Quiz question on Variables & Data Types: What is the difference between an Integer and a String?",
		call(t, a, "get_quiz_question", nil))
}

func TestEvaluateTeaching(t *testing.T) {
	a, _ := newTutor(t, nil)
	assert.Equal(t, "No topic selected to evaluate.",
		call(t, a, "evaluate_teaching", map[string]any{"user_explanation": "anything"}))

	call(t, a, "select_topic", map[string]any{"topic_id": "loops"})
	summary := DefaultTopics()[1].Summary
	assert.Equal(t, "Score: 10/10. Excellent, you covered the technical definitions perfectly.",
		call(t, a, "evaluate_teaching", map[string]any{"user_explanation": summary}))
	assert.Equal(t, "Score: 0/10. Needs work, try reviewing the concept definition again.",
		call(t, a, "evaluate_teaching", map[string]any{"user_explanation": "no idea"}))
}

func TestScoreAndFeedback(t *testing.T) {
	summary := "Loops allow you to repeat a block of code."
	assert.Equal(t, 6, Score(summary, "loops repeat a block of code"))
	assert.Equal(t, 0, Score("", "loops"))

	tests := []struct {
		score int
		want  string
	}{
		{10, "Excellent"}, {8, "Excellent"}, {7, "Good"}, {5, "Good"},
		{4, "A start"}, {3, "A start"}, {2, "Needs work"}, {0, "Needs work"},
	}
	for _, tt := range tests {
		assert.Contains(t, Feedback(tt.score), tt.want, "score %d", tt.score)
	}
}

func TestLibraryHotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), ContentFile)
	lib, err := LoadLibrary(path)
	require.NoError(t, err)

	stop, err := lib.Watch(context.Background())
	require.NoError(t, err)
	defer stop()

	topics := append(DefaultTopics(), Topic{ID: "recursion", Title: "Recursion", Summary: "A function calling itself."})
	data, err := json.Marshal(topics)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	assert.Eventually(t, func() bool {
		_, ok := lib.Find("recursion")
		return ok
	}, 3*time.Second, 20*time.Millisecond)
}
