package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionChoiceLetters(t *testing.T) {
	index, err := parseOptionChoice("A", 4)
	require.NoError(t, err)
	assert.Equal(t, 0, index)

	index, err = parseOptionChoice("b", 4)
	require.NoError(t, err)
	assert.Equal(t, 1, index)

	index, err = parseOptionChoice("  D  ", 4)
	require.NoError(t, err)
	assert.Equal(t, 3, index)

	_, err = parseOptionChoice("E", 4)
	assert.Error(t, err)
}

func TestParseOptionChoiceNumbers(t *testing.T) {
	index, err := parseOptionChoice("1", 4)
	require.NoError(t, err)
	assert.Equal(t, 0, index)

	index, err = parseOptionChoice("4", 4)
	require.NoError(t, err)
	assert.Equal(t, 3, index)

	_, err = parseOptionChoice("0", 4)
	assert.Error(t, err)

	_, err = parseOptionChoice("5", 4)
	assert.Error(t, err)
}

func TestParseOptionChoiceGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "AB", "вариант", "1.5"} {
		_, err := parseOptionChoice(input, 4)
		assert.Error(t, err, "ввод %q должен отклоняться", input)
	}
}

func TestStateDescriptionCoversAllStates(t *testing.T) {
	// описания нужны для /status, неизвестное состояние не должно падать
	assert.Equal(t, "Ожидание", stateDescription("idle"))
	assert.Equal(t, "Ожидание ответа", stateDescription("waiting_answer"))
	assert.Equal(t, "Отправка ответа", stateDescription("submitting"))
	assert.Equal(t, "Завершено", stateDescription("completed"))
	assert.Equal(t, "Неизвестно", stateDescription("???"))
}
