package model

import (
	"crypto/md5"
	"errors"
	"fmt"
)

// Container is the fixed rectangular area items are packed into.
// Dimensions are in grid cells.
type Container struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Cells returns the number of grid cells in the container.
func (c Container) Cells() int {
	return c.Width * c.Height
}

func (c Container) String() string {
	return fmt.Sprintf("Container %dx%d", c.Width, c.Height)
}

// Item is a rectangle with an associated benefit. Its position in the
// scenario's item slice is its identity.
type Item struct {
	Label   string `json:"label,omitempty"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Benefit int    `json:"benefit"`
}

func NewItem(w, h, benefit int) Item {
	return Item{Width: w, Height: h, Benefit: benefit}
}

// Fits reports whether the item can fit inside the container at all.
// Items are never rotated.
func (it Item) Fits(c Container) bool {
	return it.Width <= c.Width && it.Height <= c.Height
}

// Area returns the number of cells the item covers.
func (it Item) Area() int {
	return it.Width * it.Height
}

func (it Item) String() string {
	return fmt.Sprintf("Item %dx%d (benefit: %d)", it.Width, it.Height, it.Benefit)
}

// Permutation is an ordering of item indices: the order in which the
// placement heuristic attempts to place items.
type Permutation []int

// Clone returns a copy that does not alias p.
func (p Permutation) Clone() Permutation {
	if p == nil {
		return nil
	}
	cp := make(Permutation, len(p))
	copy(cp, p)
	return cp
}

// IsValid reports whether p contains every index in [0, n) exactly once.
func (p Permutation) IsValid(n int) bool {
	if len(p) != n {
		return false
	}
	seen := make([]bool, n)
	for _, v := range p {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Digest returns a stable content hash of the permutation, used to tell
// best solutions apart in reports. It has no security role.
func (p Permutation) Digest() string {
	return fmt.Sprintf("%x", md5.Sum([]byte(fmt.Sprint([]int(p)))))
}

// Scenario is a problem instance: one container and the items to pack.
type Scenario struct {
	Container Container `json:"container"`
	Items     []Item    `json:"items"`
}

// MaxPossibleScore is the sum of all item benefits, the score an
// infinitely large container would reach.
func (s Scenario) MaxPossibleScore() int {
	total := 0
	for _, it := range s.Items {
		total += it.Benefit
	}
	return total
}

// Validate checks that the container and every item have strictly
// positive dimensions and benefit.
func (s Scenario) Validate() error {
	if s.Container.Width <= 0 || s.Container.Height <= 0 {
		return fmt.Errorf("container dimensions must be positive, got %dx%d", s.Container.Width, s.Container.Height)
	}
	if len(s.Items) == 0 {
		return errors.New("scenario has no items")
	}
	for i, it := range s.Items {
		if it.Width <= 0 || it.Height <= 0 || it.Benefit <= 0 {
			return fmt.Errorf("item %d: width, height and benefit must be positive, got %dx%d benefit %d",
				i, it.Width, it.Height, it.Benefit)
		}
	}
	return nil
}
