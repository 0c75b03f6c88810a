package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-sync/internal/application/inventory"
	"github.com/jhoicas/inventario-sync/internal/application/ports"
	"github.com/jhoicas/inventario-sync/internal/domain"
)

// IngestUseCase orquesta la ingesta de inventario por lenguaje natural.
// Aplica un timeout de 10 segundos en la llamada al extractor para evitar
// que las latencias externas bloqueen los goroutines del servidor; la fusión
// posterior corre con el contexto original de la petición.
type IngestUseCase struct {
	extractor ports.ExtractorService
	stores    *inventory.Manager
}

// NewIngestUseCase construye el caso de uso inyectando el puerto ExtractorService.
func NewIngestUseCase(extractor ports.ExtractorService, stores *inventory.Manager) *IngestUseCase {
	return &IngestUseCase{extractor: extractor, stores: stores}
}

// IngestText valida el texto, extrae candidatos y los fusiona en el inventario
// del owner, en orden y de forma independiente por candidato. Una falla de
// extracción se convierte en notificación de error y nunca produce artículos
// parciales; cero candidatos es un resultado válido (lote vacío).
func (uc *IngestUseCase) IngestText(ctx context.Context, ownerID, text string) ([]inventory.MergeResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidInput
	}
	st := uc.stores.Get(ownerID)

	// Timeout de 10 s: las llamadas a LLMs pueden demorar varios segundos.
	extractCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	candidates, err := uc.extractor.ExtractItems(extractCtx, text)
	if err != nil {
		st.Notifier().Error("no se pudo interpretar el texto")
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	return st.MergeCandidates(ctx, candidates), nil
}
