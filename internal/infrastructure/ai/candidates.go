package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// extractionPrompt define el contrato de salida de ambos proveedores: un
// array JSON de candidatos con cantidad CON SIGNO (positivo = entrada,
// negativo = salida). Compartido para que Anthropic y Gemini sean
// intercambiables sin tocar el parseo.
const extractionPrompt = `Eres el asistente de inventario de una oficina. Recibes notas en lenguaje natural sobre artículos que entran o salen del inventario.
Devuelve ÚNICAMENTE un array JSON válido (sin markdown, sin bloques de código) con esta estructura exacta:
[
  {
    "name": "<nombre del artículo>",
    "category": "<categoría sugerida, ej. Papelería, Limpieza, Cafetería, Tecnología, Mobiliario>",
    "quantity": <entero CON SIGNO: positivo si se recibió stock, negativo si se consumió o retiró>,
    "unit": "<unidad, ej. Pcs, Caja, Resma, Paquete>",
    "min_stock": <entero >= 0: umbral de stock bajo sugerido>
  }
]

Reglas:
- "llegaron", "compramos", "recibimos" => quantity positivo. "se gastaron", "se usaron", "sacamos" => quantity negativo.
- Un objeto por artículo mencionado; conserva el nombre tal como aparece en el texto.
- min_stock: 0 si el texto no sugiere umbral.
- Si el texto no menciona ningún artículo de inventario, devuelve [].
- No incluyas texto fuera del array JSON.`

// jsonArrayRe extrae el primer array JSON del texto aunque el modelo lo
// envuelva en markdown.
var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// candidateJSON estructura de salida acordada con el modelo.
type candidateJSON struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
	MinStock int    `json:"min_stock"`
}

// parseCandidates interpreta la respuesta cruda del modelo. Falla completa si
// no hay array JSON o si algún elemento viene malformado: la extracción nunca
// aplica parcialmente ni produce artículos basura.
func parseCandidates(raw string) ([]entity.Candidate, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	match := jsonArrayRe.FindString(cleaned)
	if match == "" {
		return nil, fmt.Errorf("respuesta sin array JSON: %.120s", cleaned)
	}

	var parsed []candidateJSON
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return nil, fmt.Errorf("deserializar candidatos: %w", err)
	}

	out := make([]entity.Candidate, 0, len(parsed))
	for i, p := range parsed {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("candidato %d sin nombre", i)
		}
		if p.MinStock < 0 {
			return nil, fmt.Errorf("candidato %d con min_stock negativo", i)
		}
		out = append(out, entity.Candidate{
			Name:     strings.TrimSpace(p.Name),
			Category: strings.TrimSpace(p.Category),
			Quantity: p.Quantity,
			Unit:     strings.TrimSpace(p.Unit),
			MinStock: p.MinStock,
		})
	}
	return out, nil
}
