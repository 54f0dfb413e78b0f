package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAgenda_EmptyInputs(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, []byte("null")} {
		agenda, err := NormalizeAgenda(raw)
		require.NoError(t, err)
		assert.Empty(t, agenda.Items)
		assert.Empty(t, agenda.AttendeeNames)
	}
}

func TestNormalizeAgenda_LegacyArrayShape(t *testing.T) {
	raw := []byte(`[
		{"id": "1", "title": "Abertura", "description": "Boas-vindas"},
		{"id": "2", "title": "Orçamento", "actionItems": [
			{"description": "Rever contas", "responsible": "Maria"}
		]}
	]`)

	agenda, err := NormalizeAgenda(raw)
	require.NoError(t, err)

	require.Len(t, agenda.Items, 2)
	assert.Equal(t, "Abertura", agenda.Items[0].Title)
	assert.Equal(t, "Boas-vindas", agenda.Items[0].Description)
	require.Len(t, agenda.Items[1].ActionItems, 1)
	assert.Equal(t, "Maria", agenda.Items[1].ActionItems[0].Responsible)

	// The legacy shape carries no attendee metadata.
	assert.Empty(t, agenda.AttendeeNames)
	assert.Empty(t, agenda.ChefeAgrupamento)
}

func TestNormalizeAgenda_ObjectShape(t *testing.T) {
	raw := []byte(`{
		"items": [{"title": "Plano anual"}],
		"attendeeNames": ["Ana", "Rui"],
		"chefeAgrupamento": "Carlos",
		"secretario": "Inês"
	}`)

	agenda, err := NormalizeAgenda(raw)
	require.NoError(t, err)

	require.Len(t, agenda.Items, 1)
	assert.Equal(t, "Plano anual", agenda.Items[0].Title)
	assert.Equal(t, []string{"Ana", "Rui"}, agenda.AttendeeNames)
	assert.Equal(t, "Carlos", agenda.ChefeAgrupamento)
	assert.Equal(t, "Inês", agenda.Secretario)
}

func TestNormalizeAgenda_Malformed(t *testing.T) {
	_, err := NormalizeAgenda([]byte(`"just a string"`))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NormalizeAgenda([]byte(`{broken`))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMeetingType_Rule(t *testing.T) {
	rule := MeetingType{ID: "mt-1", Code: "RD", Name: "Reunião de Direção"}.Rule()
	assert.Equal(t, "RD", rule.TypeCode)
	assert.Equal(t, "RD", rule.Prefix)
	assert.True(t, rule.Annual, "meeting numbering is always annual")
}
