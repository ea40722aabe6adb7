package importer

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/piwi3910/packga/internal/model"
)

// RandomParams describes a generated scenario: a square container and a
// number of items with random sides and benefits.
type RandomParams struct {
	ContainerSide int
	ItemCount     int
	ItemMaxSide   int
	MaxBenefit    int
}

// Validate checks that every parameter is positive and the item count is
// within MaxItems.
func (p RandomParams) Validate() error {
	var errs []error
	if p.ContainerSide < 1 {
		errs = append(errs, fmt.Errorf("container side must be positive, got %d", p.ContainerSide))
	}
	if p.ItemCount < 1 {
		errs = append(errs, fmt.Errorf("item count must be positive, got %d", p.ItemCount))
	} else if p.ItemCount > MaxItems {
		errs = append(errs, fmt.Errorf("item count %d exceeds the limit of %d", p.ItemCount, MaxItems))
	}
	if p.ItemMaxSide < 1 {
		errs = append(errs, fmt.Errorf("item max side must be positive, got %d", p.ItemMaxSide))
	}
	if p.MaxBenefit < 1 {
		errs = append(errs, fmt.Errorf("max benefit must be positive, got %d", p.MaxBenefit))
	}
	return errors.Join(errs...)
}

// Random builds a scenario with uniformly drawn item sides in
// [1, ItemMaxSide] and benefits in [1, MaxBenefit].
func Random(p RandomParams, rng *rand.Rand) (model.Scenario, error) {
	if err := p.Validate(); err != nil {
		return model.Scenario{}, fmt.Errorf("random scenario: %w", err)
	}

	items := make([]model.Item, p.ItemCount)
	for i := range items {
		items[i] = model.NewItem(
			1+rng.Intn(p.ItemMaxSide),
			1+rng.Intn(p.ItemMaxSide),
			1+rng.Intn(p.MaxBenefit),
		)
	}

	return model.Scenario{
		Container: model.Container{Width: p.ContainerSide, Height: p.ContainerSide},
		Items:     items,
	}, nil
}
