package catalog

import (
	"errors"
	"fmt"
)

// ErrDetailsNotLoaded means vendor data is unavailable, so no resolution was
// attempted. It is distinct from a selection that matches nothing.
var ErrDetailsNotLoaded = errors.New("vendor product details not loaded")

// UnknownSelectionError reports a selected label the vendor no longer offers.
type UnknownSelectionError struct {
	Option string `json:"option"`
	Value  string `json:"value"`
}

func (e *UnknownSelectionError) Error() string {
	return fmt.Sprintf("option %q has no value %q", e.Option, e.Value)
}

// Resolution is the outcome of matching a selection against a product.
type Resolution struct {
	Variant *Variant
	// Unknown lists selected pairs that did not map to an option value id.
	// Any entry invalidates the selection.
	Unknown []UnknownSelectionError
}

// Matched reports whether exactly one purchasable variant was found.
func (r Resolution) Matched() bool {
	return r.Variant != nil
}

// ResolveVariant matches selected option labels to the single variant whose
// option-id set equals the selected-id set. A nil details value returns
// ErrDetailsNotLoaded. A selection containing a label that the vendor does
// not offer never matches. An incomplete selection never matches either.
func ResolveVariant(details *VendorDetails, selected map[string]string) (Resolution, error) {
	if details == nil {
		return Resolution{}, ErrDetailsNotLoaded
	}

	ids, unknown := selectedIDs(details.Options, selected)
	if len(unknown) > 0 || len(ids) == 0 {
		return Resolution{Unknown: unknown}, nil
	}

	for i := range details.Variants {
		if sameIDSet(ids, details.Variants[i].OptionIDs) {
			return Resolution{Variant: &details.Variants[i]}, nil
		}
	}
	return Resolution{}, nil
}

// selectedIDs maps each (option, label) pair to its vendor id.
func selectedIDs(options []Option, selected map[string]string) (map[int64]struct{}, []UnknownSelectionError) {
	ids := make(map[int64]struct{}, len(selected))
	var unknown []UnknownSelectionError

	for _, name := range sortedKeys(selected) {
		label := selected[name]
		id, ok := lookupValueID(options, name, label)
		if !ok {
			unknown = append(unknown, UnknownSelectionError{Option: name, Value: label})
			continue
		}
		ids[id] = struct{}{}
	}
	return ids, unknown
}

func lookupValueID(options []Option, name, label string) (int64, bool) {
	for _, opt := range options {
		if opt.Name != name {
			continue
		}
		for _, v := range opt.Values {
			if v.Title == label {
				return v.ID, true
			}
		}
		return 0, false
	}
	return 0, false
}

// sameIDSet compares a selected-id set with a variant's id list as sets.
func sameIDSet(selected map[int64]struct{}, variantIDs []int64) bool {
	variantSet := make(map[int64]struct{}, len(variantIDs))
	for _, id := range variantIDs {
		variantSet[id] = struct{}{}
	}
	if len(variantSet) != len(selected) {
		return false
	}
	for id := range selected {
		if _, ok := variantSet[id]; !ok {
			return false
		}
	}
	return true
}
