package planner

import (
	"fmt"
	"slices"

	"larder/models"
)

// Diff lists the members to connect and disconnect so that a persisted
// relation matches the desired one.
type Diff struct {
	Connect    []uint
	Disconnect []uint
}

// Empty reports whether applying the diff would change nothing.
func (d Diff) Empty() bool {
	return len(d.Connect) == 0 && len(d.Disconnect) == 0
}

// Reconcile computes the set difference between current and desired.
// Members present in both are left alone. Both inputs must be free of
// duplicates; validation rejects repeated IDs before they get here.
func Reconcile(current, desired []uint) Diff {
	mustBeDistinct("current", current)
	mustBeDistinct("desired", desired)

	wanted := toSet(desired)
	existing := toSet(current)

	diff := Diff{Connect: make([]uint, 0), Disconnect: make([]uint, 0)}
	for _, id := range current {
		if _, ok := wanted[id]; !ok {
			diff.Disconnect = append(diff.Disconnect, id)
		}
	}
	for _, id := range desired {
		if _, ok := existing[id]; !ok {
			diff.Connect = append(diff.Connect, id)
		}
	}
	return diff
}

// Apply returns current with the diff applied, preserving the order of
// retained members and appending connected ones.
func (d Diff) Apply(current []uint) []uint {
	removed := toSet(d.Disconnect)
	result := make([]uint, 0, len(current)+len(d.Connect))
	for _, id := range current {
		if _, ok := removed[id]; !ok {
			result = append(result, id)
		}
	}
	return append(result, d.Connect...)
}

// LineInput is a desired recipe line.
type LineInput struct {
	IngredientID uint
	Amount       float64
}

// LineUpdate changes the amount of an existing recipe line.
type LineUpdate struct {
	ID           uint
	IngredientID uint
	Amount       float64
}

// LineDiff holds the writes needed to converge a recipe's lines. Delete
// carries recipe line row IDs.
type LineDiff struct {
	Create []LineInput
	Update []LineUpdate
	Delete []uint
}

// Empty reports whether applying the diff would change nothing.
func (d LineDiff) Empty() bool {
	return len(d.Create) == 0 && len(d.Update) == 0 && len(d.Delete) == 0
}

// ReconcileLines compares persisted recipe lines with the desired ones keyed
// by ingredient. Lines present on both sides are updated only when the
// amount differs.
func ReconcileLines(current []models.RecipeIngredient, desired []LineInput) LineDiff {
	desiredIDs := make([]uint, 0, len(desired))
	for _, line := range desired {
		desiredIDs = append(desiredIDs, line.IngredientID)
	}
	mustBeDistinct("desired ingredient", desiredIDs)
	currentIDs := make([]uint, 0, len(current))
	for _, line := range current {
		currentIDs = append(currentIDs, line.IngredientID)
	}
	mustBeDistinct("current ingredient", currentIDs)

	wanted := make(map[uint]LineInput, len(desired))
	for _, line := range desired {
		wanted[line.IngredientID] = line
	}
	existing := make(map[uint]models.RecipeIngredient, len(current))
	for _, line := range current {
		existing[line.IngredientID] = line
	}

	diff := LineDiff{Create: make([]LineInput, 0), Update: make([]LineUpdate, 0), Delete: make([]uint, 0)}
	for _, line := range current {
		target, ok := wanted[line.IngredientID]
		if !ok {
			diff.Delete = append(diff.Delete, line.ID)
			continue
		}
		if target.Amount != line.Amount {
			diff.Update = append(diff.Update, LineUpdate{ID: line.ID, IngredientID: line.IngredientID, Amount: target.Amount})
		}
	}
	for _, line := range desired {
		if _, ok := existing[line.IngredientID]; !ok {
			diff.Create = append(diff.Create, line)
		}
	}
	return diff
}

// PurchaseDiff lists ingredient IDs whose purchase entries must be created
// or deleted.
type PurchaseDiff struct {
	Create []uint
	Delete []uint
}

// Empty reports whether applying the diff would change nothing.
func (d PurchaseDiff) Empty() bool {
	return len(d.Create) == 0 && len(d.Delete) == 0
}

// ReconcileShopPurchases derives the purchase entry changes caused by a shop
// moving from oldMenus to newMenus. Ingredients reachable from both keep
// their entry, and with it the bought flag.
func ReconcileShopPurchases(oldMenus, newMenus []models.Menu) PurchaseDiff {
	return diffSets(reachable(oldMenus), reachable(newMenus))
}

// SyncPurchases compares the persisted purchase entries with what menus can
// currently reach. It repairs shops whose menus or recipes were edited
// after the shop was last saved.
func SyncPurchases(existing []models.Purchase, menus []models.Menu) PurchaseDiff {
	before := make(map[uint]struct{}, len(existing))
	for _, purchase := range existing {
		before[purchase.IngredientID] = struct{}{}
	}
	return diffSets(before, reachable(menus))
}

func diffSets(before, after map[uint]struct{}) PurchaseDiff {
	diff := PurchaseDiff{Create: make([]uint, 0), Delete: make([]uint, 0)}
	for id := range before {
		if _, ok := after[id]; !ok {
			diff.Delete = append(diff.Delete, id)
		}
	}
	for id := range after {
		if _, ok := before[id]; !ok {
			diff.Create = append(diff.Create, id)
		}
	}
	slices.Sort(diff.Create)
	slices.Sort(diff.Delete)
	return diff
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func mustBeDistinct(label string, ids []uint) {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			panic(fmt.Sprintf("planner: duplicate %s id %d", label, id))
		}
		seen[id] = struct{}{}
	}
}
