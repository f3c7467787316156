package availability

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{
	"canchas": [
		{"id": 1, "nombre": "Cancha 1", "tipo": "Fútbol 5", "condicion": "Techada", "monto": 15000.5},
		{"id": 2, "nombre": "Cancha 2", "tipo": "Fútbol 7", "condicion": "Aire libre", "monto": 20000}
	],
	"horarios_disponibles": {
		"1": [{"hora_inicio": "15:00", "hora_fin": "16:00"}, {"hora_inicio": "18:00", "hora_fin": "19:00"}]
	}
}`

func TestResponseDecode(t *testing.T) {
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(sampleBody), &resp))

	require.Len(t, resp.Resources, 2)
	assert.Equal(t, ResourceID("1"), resp.Resources[0].ID)
	assert.Equal(t, "Cancha 1", resp.Resources[0].Name)
	assert.Equal(t, "Techada", resp.Resources[0].Condition)
	assert.True(t, decimal.RequireFromString("15000.5").Equal(resp.Resources[0].Price))

	assert.True(t, resp.IsAvailable("1", "15:00"))
	assert.True(t, resp.IsAvailable("1", "18:00"))
	assert.False(t, resp.IsAvailable("1", "16:00"))
	// Resource 2 has no key at all.
	assert.False(t, resp.IsAvailable("2", "15:00"))

	res, ok := resp.Resource("2")
	require.True(t, ok)
	assert.Equal(t, "Cancha 2", res.Name)
	_, ok = resp.Resource("9")
	assert.False(t, ok)
}

func TestResourceIDForms(t *testing.T) {
	var ids []ResourceID
	require.NoError(t, json.Unmarshal([]byte(`[7, "b-12", null, 3.0]`), &ids))
	assert.Equal(t, []ResourceID{"7", "b-12", "", "3.0"}, ids)

	var id ResourceID
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
}

func TestNilResponse(t *testing.T) {
	var resp *Response
	assert.False(t, resp.IsAvailable("1", "15:00"))
	_, ok := resp.Resource("1")
	assert.False(t, ok)
}
