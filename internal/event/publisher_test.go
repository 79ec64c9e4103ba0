package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	body, err := Encode("quiz.completed", QuizCompleted{QuizID: "q1", QuizType: "random_quiz", Score: 2, TotalQuestions: 3, Percentage: 66.67})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "quiz.completed", decoded["type"])
	payload := decoded["payload"].(map[string]interface{})
	assert.Equal(t, "q1", payload["quizId"])
	assert.Equal(t, 66.67, payload["percentage"])
	assert.NotContains(t, payload, "userId")
}

func TestRecorderAndNop(t *testing.T) {
	var p Publisher = &Recorder{}
	require.NoError(t, p.Publish("a", nil))
	require.NoError(t, p.Publish("b", nil))
	assert.Equal(t, []string{"a", "b"}, p.(*Recorder).Types())

	p = NopPublisher{}
	assert.NoError(t, p.Publish("a", nil))
	p.Close()
}
