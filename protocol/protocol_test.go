package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	utils "github.com/vsiao/oenology-sub000/internal"
)

func TestActionJSON(t *testing.T) {
	t.Run("uses names and the log sequence key", func(t *testing.T) {
		a := Action{Type: PlaceWorker, PlayerID: "p1", SpotID: "drawVine", SequenceKey: "k1"}
		b, err := json.Marshal(a)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"type":"placeWorker"`)
		assert.Contains(t, string(b), `"_logSequenceKey":"k1"`)

		var got Action
		require.NoError(t, json.Unmarshal(b, &got))
		utils.AssertDeepEqual(t, got, a)
	})

	t.Run("rejects unknown types", func(t *testing.T) {
		var got Action
		assert.Error(t, json.Unmarshal([]byte(`{"type":"cheat"}`), &got))
	})
}

func TestAnswers(t *testing.T) {
	assert.True(t, ChooseField.Answers(ChooseFieldPrompt))
	assert.False(t, ChooseField.Answers(ChooseCardPrompt))
	assert.True(t, Pass.Answers(PlaceWorkerPrompt))
	assert.False(t, Pass.Answers(GameOverPrompt))
	assert.False(t, Unknown.AnswersPrompt())
}
