package level

import (
	"strconv"

	"github.com/lafriks/go-tiled"
	"github.com/milk9111/autogamer/ecs"
	"github.com/milk9111/autogamer/ecs/component"
)

// properties looks names up in each set in turn, so earlier sets override
// later ones.
type properties []tiled.Properties

func (p properties) lookup(name string) (*tiled.Property, bool) {
	for _, set := range p {
		for _, prop := range set {
			if prop != nil && prop.Name == name {
				return prop, true
			}
		}
	}
	return nil, false
}

func (p properties) uint32(name string, id uint32) (uint32, bool, error) {
	prop, ok := p.lookup(name)
	if !ok {
		return 0, false, nil
	}
	if prop.Type != "int" {
		return 0, true, &TemplateError{Kind: TypeError, TileID: id, Prop: name, Expected: "int"}
	}
	n, err := strconv.ParseInt(prop.Value, 10, 64)
	if err != nil {
		return 0, true, &TemplateError{Kind: TypeError, TileID: id, Prop: name, Expected: "int"}
	}
	if n < 0 || n > int64(^uint32(0)) {
		return 0, true, &TemplateError{Kind: ExpectedUnsigned, TileID: id, Prop: name}
	}
	return uint32(n), true, nil
}

type componentTemplate func(w *ecs.World, e ecs.Entity, id uint32, tileType string, props properties) error

var templates = []componentTemplate{
	currencyTemplate,
	ladderTemplate,
	damageTemplate,
}

// applyTemplates adds the components implied by a tile's type and custom
// properties to e.
func applyTemplates(w *ecs.World, e ecs.Entity, id uint32, tileType string, props properties) error {
	for _, t := range templates {
		if err := t(w, e, id, tileType, props); err != nil {
			return err
		}
	}
	return nil
}

func currencyTemplate(w *ecs.World, e ecs.Entity, id uint32, _ string, props properties) error {
	value, ok, err := props.uint32("currency_value", id)
	if err != nil || !ok {
		return err
	}
	if err := ecs.Add(w, e, component.CurrencyComponent.Kind(), &component.Currency{Value: value}); err != nil {
		return err
	}
	makeSensor(w, e)
	return nil
}

func ladderTemplate(w *ecs.World, e ecs.Entity, _ uint32, tileType string, _ properties) error {
	if tileType != "ladder" {
		return nil
	}
	if err := ecs.Add(w, e, component.LadderComponent.Kind(), &component.Ladder{}); err != nil {
		return err
	}
	makeSensor(w, e)
	return nil
}

// damageTemplate reserves the damage property; nothing consumes it yet.
func damageTemplate(*ecs.World, ecs.Entity, uint32, string, properties) error {
	return nil
}

// makeSensor lets other bodies pass through e while still reporting
// proximity.
func makeSensor(w *ecs.World, e ecs.Entity) {
	col, ok := ecs.Get(w, e, component.PhysicsColliderComponent.Kind())
	if !ok {
		panic("level: templated entity has no collider")
	}
	col.Sensor = true
}
