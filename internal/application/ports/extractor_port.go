package ports

import (
	"context"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// ExtractorService define el puerto de salida hacia el servicio de extracción
// por IA. Cualquier adaptador (Anthropic, Gemini, mock) debe implementar esta
// interfaz; la aplicación solo conoce este contrato (DIP).
type ExtractorService interface {
	// ExtractItems interpreta texto libre ("llegaron 2 resmas de papel,
	// se gastaron 3 marcadores") y devuelve cero o más candidatos con
	// cantidad con signo. Un error significa entrada no interpretable y
	// nunca aplica parcialmente. El contexto debe llevar timeout para no
	// bloquear en llamadas externas.
	ExtractItems(ctx context.Context, text string) ([]entity.Candidate, error)
}
