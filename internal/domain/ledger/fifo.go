package ledger

import (
	"sort"

	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Depletion describe cuánto tomar de una capa concreta al costear una salida.
type Depletion struct {
	Layer    *entity.InventoryLayer
	Quantity decimal.Decimal
	Cost     decimal.Decimal // Quantity * Layer.UnitCost
}

// PlanDepletion calcula el plan FIFO para sacar qty de las capas dadas:
// se agota primero la capa con ReceivedAt más antiguo; a igual fecha, la de
// menor Seq (orden de inserción). No muta las capas: devuelve el plan y el
// costo total Σ(tomado × costo unitario de cada capa).
// Si el total disponible es menor que qty retorna ErrInsufficientStock sin
// plan parcial: la salida es todo o nada.
func PlanDepletion(layers []*entity.InventoryLayer, qty decimal.Decimal) ([]Depletion, decimal.Decimal, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, decimal.Zero, domain.ErrInvalidInput
	}

	eligible := make([]*entity.InventoryLayer, 0, len(layers))
	available := decimal.Zero
	for _, l := range layers {
		if l.IsDepleted || !l.RemainingQty.GreaterThan(decimal.Zero) {
			continue
		}
		eligible = append(eligible, l)
		available = available.Add(l.RemainingQty)
	}
	if available.LessThan(qty) {
		return nil, decimal.Zero, domain.ErrInsufficientStock
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].ReceivedAt.Equal(eligible[j].ReceivedAt) {
			return eligible[i].Seq < eligible[j].Seq
		}
		return eligible[i].ReceivedAt.Before(eligible[j].ReceivedAt)
	})

	var plan []Depletion
	remaining := qty
	totalCost := decimal.Zero
	for _, l := range eligible {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := l.RemainingQty
		if take.GreaterThan(remaining) {
			take = remaining
		}
		cost := take.Mul(l.UnitCost)
		plan = append(plan, Depletion{Layer: l, Quantity: take, Cost: cost})
		totalCost = totalCost.Add(cost)
		remaining = remaining.Sub(take)
	}
	return plan, totalCost, nil
}

// Available suma la cantidad restante de las capas vivas.
func Available(layers []*entity.InventoryLayer) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range layers {
		if l.IsDepleted {
			continue
		}
		sum = sum.Add(l.RemainingQty)
	}
	return sum
}

// AverageCost calcula el costo promedio ponderado de las capas vivas:
// Σ(remaining × unit_cost) / Σ(remaining). Cero si no hay stock.
func AverageCost(layers []*entity.InventoryLayer) decimal.Decimal {
	qty := decimal.Zero
	value := decimal.Zero
	for _, l := range layers {
		if l.IsDepleted || !l.RemainingQty.GreaterThan(decimal.Zero) {
			continue
		}
		qty = qty.Add(l.RemainingQty)
		value = value.Add(l.RemainingQty.Mul(l.UnitCost))
	}
	if !qty.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return value.Div(qty)
}
