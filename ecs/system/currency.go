package system

import (
	"log"

	"github.com/milk9111/autogamer/ecs"
	"github.com/milk9111/autogamer/ecs/component"
	"github.com/milk9111/autogamer/ecs/resource"
)

// CurrencySystem moves the value of every pickup a wallet overlaps into
// that wallet and deletes the pickup.
type CurrencySystem struct{}

func NewCurrencySystem() *CurrencySystem { return &CurrencySystem{} }

func (s *CurrencySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	collisions, ok := ecs.Resource[resource.CollisionsMap](w)
	if !ok {
		return
	}

	collected := map[ecs.Entity]bool{}
	ecs.ForEach(w, component.WalletComponent.Kind(), func(e ecs.Entity, _ *component.Wallet) {
		for _, other := range collisions.Get(e).Intersecting {
			if collected[other] {
				continue
			}
			currency, ok := ecs.Get(w, other, component.CurrencyComponent.Kind())
			if !ok {
				continue
			}
			wallet, _ := ecs.GetMut(w, e, component.WalletComponent.Kind())
			wallet.Balance += currency.Value
			collected[other] = true
			ecs.Delete(w, other)
			log.Printf("CurrencySystem: %v collected %d (balance %d)", e, currency.Value, wallet.Balance)
		}
	})
}
