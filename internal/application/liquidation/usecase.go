package liquidation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrovia/liquidacion-api/internal/application/dto"
	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/allocation"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
	"github.com/agrovia/liquidacion-api/pkg/logger"
)

// SubmitLiquidationUseCase propaga una liquidación validada al libro mayor:
// balance del distribuidor, transferencias a agroservicios y acta de auditoría.
//
// Las tres escrituras NO son atómicas entre sí: el acta se escribe de ÚLTIMO
// para que una escritura de libro mayor fallida nunca deje un acta huérfana.
type SubmitLiquidationUseCase struct {
	distributors repository.DistributorRepository
	retailers    repository.RetailerRepository
	products     repository.ProductRepository
	distStock    repository.DistributorStockRepository
	retStock     repository.RetailerStockRepository
	entries      repository.LiquidationRepository
	uploader     ProofUploader
	log          *logger.Logger
}

// NewSubmitLiquidationUseCase construye el caso de uso.
func NewSubmitLiquidationUseCase(
	distributors repository.DistributorRepository,
	retailers repository.RetailerRepository,
	products repository.ProductRepository,
	distStock repository.DistributorStockRepository,
	retStock repository.RetailerStockRepository,
	entries repository.LiquidationRepository,
	uploader ProofUploader,
	log *logger.Logger,
) *SubmitLiquidationUseCase {
	return &SubmitLiquidationUseCase{
		distributors: distributors,
		retailers:    retailers,
		products:     products,
		distStock:    distStock,
		retStock:     retStock,
		entries:      entries,
		uploader:     uploader,
		log:          log,
	}
}

// SubmitInput remisión de campo en tiempo real para un distribuidor.
type SubmitInput struct {
	DistributorCode string
	SubmittedBy     string
	Items           []dto.LiquidationItemRequest
	Metadata        map[string]string
	Proofs          []dto.ProofFile
	Signature       *dto.ProofFile
}

// skuPlan asignación aceptada de un SKU junto con su precio resuelto.
type skuPlan struct {
	item  allocation.Item
	price decimal.Decimal
}

// Submit valida TODOS los SKUs antes de escribir (admisión todo-o-nada) y luego
// propaga. Devuelve el id del acta creada, o la lista completa de violaciones.
//
// Las escrituras por destino se lanzan concurrentemente y se espera a que todas
// terminen; un fallo parcial se registra y se omite, sin rollback de lo ya
// aplicado (sin frontera transaccional entre registros).
func (uc *SubmitLiquidationUseCase) Submit(ctx context.Context, in SubmitInput) (string, []allocation.Violation, error) {
	if in.DistributorCode == "" || len(in.Items) == 0 {
		return "", nil, domain.ErrInvalidInput
	}
	dist, err := uc.distributors.GetByCode(ctx, in.DistributorCode)
	if err != nil {
		return "", nil, err
	}
	if dist == nil {
		return "", nil, domain.ErrNotFound
	}

	items, violations, err := uc.buildAllocationItems(ctx, in)
	if err != nil {
		return "", nil, err
	}
	plan, planViolations := allocation.Validate(items)
	violations = append(violations, planViolations...)
	if len(violations) > 0 {
		// Rechazo cerrado: ninguna escritura ocurrió todavía.
		return "", violations, nil
	}

	proofURLs, signatureURL, err := uc.uploadProofs(ctx, in)
	if err != nil {
		return "", nil, fmt.Errorf("subir soportes: %w", err)
	}

	plans := uc.resolvePrices(ctx, plan)
	now := time.Now()

	uc.propagate(ctx, in, plans, now)

	// Acta de auditoría inmutable, escrita de último (ver nota del struct).
	entry := uc.buildEntry(in, plans, proofURLs, signatureURL, now)
	if err := uc.entries.Create(ctx, entry); err != nil {
		return "", nil, fmt.Errorf("crear acta de liquidación: %w", err)
	}
	return entry.ID, nil, nil
}

// buildAllocationItems convierte los renglones HTTP al modelo del validador.
// Los destinos "manual" se pliegan al cupo de agricultor; los destinos
// "retailer" se resuelven contra datos maestros (no resuelto = violación).
func (uc *SubmitLiquidationUseCase) buildAllocationItems(ctx context.Context, in SubmitInput) ([]allocation.Item, []allocation.Violation, error) {
	var violations []allocation.Violation
	items := make([]allocation.Item, 0, len(in.Items))

	for _, req := range in.Items {
		current, err := uc.distStock.Get(ctx, in.DistributorCode, req.ProductCode)
		if err != nil {
			return nil, nil, err
		}
		prev := decimal.Zero
		if current != nil {
			prev = current.BalanceQty
		}

		it := allocation.Item{
			ProductCode:     req.ProductCode,
			PreviousBalance: prev,
			NewBalance:      req.NewBalance,
			FarmerQty:       req.FarmerQty,
		}
		for i, dest := range req.Destinations {
			switch dest.Type {
			case dto.DestinationManual:
				it.FarmerQty = it.FarmerQty.Add(dest.Quantity)
			case dto.DestinationRetailer:
				line := allocation.RetailerLine{RetailerCode: dest.RetailerCode, Quantity: dest.Quantity}
				if dest.RetailerCode != "" {
					ret, err := uc.retailers.GetByCode(ctx, dest.RetailerCode)
					if err != nil {
						return nil, nil, err
					}
					if ret == nil {
						// Resolución en tiempo real: rechazo duro, no degradado.
						violations = append(violations, allocation.Violation{
							ProductCode: req.ProductCode,
							Kind:        allocation.ViolationUnresolvedRetailer,
							LineIndex:   i,
							Message:     fmt.Sprintf("%s: agroservicio %q no existe", req.ProductCode, dest.RetailerCode),
						})
					} else {
						line.RetailerName = ret.Name
					}
				}
				it.Retailers = append(it.Retailers, line)
			default:
				violations = append(violations, allocation.Violation{
					ProductCode: req.ProductCode,
					Kind:        allocation.ViolationUnknownDestinationType,
					LineIndex:   i,
					Message:     fmt.Sprintf("%s: tipo de destino desconocido %q", req.ProductCode, dest.Type),
				})
			}
		}
		items = append(items, it)
	}
	return items, violations, nil
}

// resolvePrices busca el precio unitario de cada SKU. Precio ausente vale cero
// y no bloquea el resto de la remisión.
func (uc *SubmitLiquidationUseCase) resolvePrices(ctx context.Context, plan *allocation.Plan) []skuPlan {
	plans := make([]skuPlan, 0, len(plan.Items))
	for _, it := range plan.Items {
		price := decimal.Zero
		product, err := uc.products.GetByCode(ctx, it.ProductCode)
		if err != nil || product == nil {
			uc.log.Warn().Str("product", it.ProductCode).Msg("producto sin precio, se valoriza en cero")
		} else {
			price = product.UnitPrice
		}
		plans = append(plans, skuPlan{item: it, price: price})
	}
	return plans
}

// propagate lanza las escrituras de libro mayor de todos los destinos en
// paralelo y espera a que todas terminen. Los incrementos por fila son
// atómicos, así que SKUs distintos no interfieren entre sí; un fallo se
// registra y se omite sin afectar a los demás destinos.
func (uc *SubmitLiquidationUseCase) propagate(ctx context.Context, in SubmitInput, plans []skuPlan, now time.Time) {
	var wg sync.WaitGroup

	for _, p := range plans {
		wg.Add(1)
		go func(p skuPlan) {
			defer wg.Done()
			upd := repository.BalanceUpdate{
				DistributorCode:  in.DistributorCode,
				ProductCode:      p.item.ProductCode,
				BalanceQty:       p.item.NewBalance,
				BalanceAmount:    round2(p.item.NewBalance.Mul(p.price)),
				LiquidatedQty:    p.item.FarmerQty,
				LiquidatedAmount: round2(p.item.FarmerQty.Mul(p.price)),
				UpdatedBy:        in.SubmittedBy,
			}
			if err := uc.distStock.SetBalanceAndAccumulate(ctx, upd); err != nil {
				uc.log.Error().Err(err).
					Str("distributor", in.DistributorCode).
					Str("product", p.item.ProductCode).
					Msg("escritura de balance de distribuidor fallida, se omite")
			}
		}(p)

		for _, r := range p.item.Retailers {
			if !r.Quantity.IsPositive() {
				continue
			}
			wg.Add(1)
			go func(p skuPlan, r allocation.RetailerLine) {
				defer wg.Done()
				t := repository.Transfer{
					RetailerCode:    r.RetailerCode,
					RetailerName:    r.RetailerName,
					DistributorCode: in.DistributorCode,
					ProductCode:     p.item.ProductCode,
					Quantity:        r.Quantity,
					UnitValue:       p.price,
					Date:            now,
				}
				if err := uc.retStock.ApplyTransfer(ctx, t); err != nil {
					uc.log.Error().Err(err).
						Str("retailer", r.RetailerCode).
						Str("product", p.item.ProductCode).
						Msg("transferencia a agroservicio fallida, se omite")
				}
			}(p, r)
		}
	}
	wg.Wait()
}

func (uc *SubmitLiquidationUseCase) uploadProofs(ctx context.Context, in SubmitInput) (proofURLs []string, signatureURL string, err error) {
	if uc.uploader == nil {
		return nil, "", nil
	}
	for _, f := range in.Proofs {
		url, err := uc.uploader.Upload(ctx, f.Name, f.ContentType, f.Data)
		if err != nil {
			return nil, "", err
		}
		proofURLs = append(proofURLs, url)
	}
	if in.Signature != nil {
		signatureURL, err = uc.uploader.Upload(ctx, in.Signature.Name, in.Signature.ContentType, in.Signature.Data)
		if err != nil {
			return nil, "", err
		}
	}
	return proofURLs, signatureURL, nil
}

func (uc *SubmitLiquidationUseCase) buildEntry(in SubmitInput, plans []skuPlan, proofURLs []string, signatureURL string, now time.Time) *entity.LiquidationEntry {
	items := make([]entity.LiquidationItem, 0, len(plans))
	for _, p := range plans {
		retailerQty := decimal.Zero
		lines := make([]entity.RetailerLine, 0, len(p.item.Retailers))
		for _, r := range p.item.Retailers {
			retailerQty = retailerQty.Add(r.Quantity)
			lines = append(lines, entity.RetailerLine{
				RetailerCode: r.RetailerCode,
				RetailerName: r.RetailerName,
				Quantity:     r.Quantity,
			})
		}
		items = append(items, entity.LiquidationItem{
			ProductCode:  p.item.ProductCode,
			OpeningQty:   p.item.PreviousBalance,
			BalanceQty:   p.item.NewBalance,
			FarmerQty:    p.item.FarmerQty,
			FarmerAmount: round2(p.item.FarmerQty.Mul(p.price)),
			RetailerQty:  retailerQty,
			Retailers:    lines,
			UnitPrice:    p.price,
		})
	}
	return &entity.LiquidationEntry{
		ID:              uuid.New().String(),
		DistributorCode: in.DistributorCode,
		SubmittedBy:     in.SubmittedBy,
		SubmittedAt:     now,
		EntryDate:       now,
		Items:           items,
		ProofURLs:       proofURLs,
		SignatureURL:    signatureURL,
		Metadata:        in.Metadata,
		Status:          entity.EntryStatusPending,
		Source:          entity.EntrySourceRealtime,
	}
}
