package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go-interview-client/internal/model"
)

func TestDefaultQuestionBankProgression(t *testing.T) {
	t.Parallel()

	bank, err := LoadQuestionBank("")
	require.NoError(t, err)

	types := make([]string, 0, 8)
	for step := 0; step < 8; step++ {
		types = append(types, bank.At(step).Type)
	}

	require.Equal(t, []string{
		model.QuestionTypeIntro,
		model.QuestionTypeResume, model.QuestionTypeResume,
		model.QuestionTypeBehavioral, model.QuestionTypeBehavioral,
		model.QuestionTypeCoding, model.QuestionTypeCoding, model.QuestionTypeCoding,
	}, types)
	require.Equal(t, "Tell me about yourself.", bank.At(0).Text)
	require.Equal(t, bank.At(5).Text, bank.At(8).Text)
}

func TestParseQuestionBankValidates(t *testing.T) {
	t.Parallel()

	_, err := ParseQuestionBank([]byte("stages: []"))
	require.Error(t, err)

	_, err = ParseQuestionBank([]byte("stages:\n  - qtype: intro\n    count: 1\n"))
	require.ErrorContains(t, err, "no questions")

	bank, err := ParseQuestionBank([]byte("stages:\n  - qtype: general\n    count: 2\n    questions: [a, b, c]\n"))
	require.NoError(t, err)
	require.Equal(t, "a", bank.At(3).Text)
	require.Equal(t, "general", bank.At(-1).Type)
}
