package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidates_ArrayLimpio(t *testing.T) {
	raw := `[
		{"name": "Resma A4", "category": "Papelería", "quantity": 3, "unit": "Resma", "min_stock": 1},
		{"name": "Café", "category": "Cafetería", "quantity": -2, "unit": "Kg", "min_stock": 0}
	]`

	cands, err := parseCandidates(raw)
	require.NoError(t, err)
	require.Len(t, cands, 2)
	assert.Equal(t, "Resma A4", cands[0].Name)
	assert.Equal(t, 3, cands[0].Quantity)
	assert.Equal(t, -2, cands[1].Quantity, "la cantidad conserva el signo")
}

// Los modelos a veces envuelven la salida en bloques de código pese al prompt.
func TestParseCandidates_ConBloqueMarkdown(t *testing.T) {
	raw := "```json\n[{\"name\": \"Tijeras\", \"quantity\": 1}]\n```"

	cands, err := parseCandidates(raw)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "Tijeras", cands[0].Name)
}

func TestParseCandidates_ConTextoAlrededor(t *testing.T) {
	raw := `Claro, aquí está el inventario extraído:
[{"name": "Toner", "quantity": 2, "min_stock": 1}]
Espero que sirva.`

	cands, err := parseCandidates(raw)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "Toner", cands[0].Name)
}

func TestParseCandidates_NormalizaEspacios(t *testing.T) {
	raw := `[{"name": "  Grapadora ", "category": " Papelería ", "quantity": 1, "unit": " Pcs "}]`

	cands, err := parseCandidates(raw)
	require.NoError(t, err)
	assert.Equal(t, "Grapadora", cands[0].Name)
	assert.Equal(t, "Papelería", cands[0].Category)
	assert.Equal(t, "Pcs", cands[0].Unit)
}

func TestParseCandidates_ArrayVacio(t *testing.T) {
	cands, err := parseCandidates("[]")
	require.NoError(t, err)
	assert.Empty(t, cands, "texto sin artículos => lote vacío, no error")
}

// La falla es completa: un solo elemento malformado invalida todo el lote.
func TestParseCandidates_FallaCompleta(t *testing.T) {
	casos := []struct {
		nombre string
		raw    string
	}{
		{"sin array JSON", "no encuentro artículos en el texto"},
		{"JSON roto", `[{"name": "Papel", "quantity": }]`},
		{"candidato sin nombre", `[{"name": "Papel", "quantity": 1}, {"name": "  ", "quantity": 2}]`},
		{"min_stock negativo", `[{"name": "Papel", "quantity": 1, "min_stock": -1}]`},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			cands, err := parseCandidates(tc.raw)
			assert.Error(t, err)
			assert.Nil(t, cands, "nunca se aplica parcialmente")
		})
	}
}
