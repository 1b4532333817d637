package domain

import "strings"

// AttributeKind is the closed set of variant attribute kinds the shop
// sells. Catalog attribute groups carry human-readable display names
// ("With USB 3 ports"); everything past the catalog boundary dispatches
// on kinds, never on display names.
type AttributeKind string

const (
	KindSize            AttributeKind = "size"
	KindColor           AttributeKind = "color"
	KindCapacity        AttributeKind = "capacity"
	KindPorts           AttributeKind = "ports"
	KindTouchIDKeyboard AttributeKind = "touch_id_keyboard"
)

var kindByDisplayName = map[string]AttributeKind{
	"size":                 KindSize,
	"color":                KindColor,
	"capacity":             KindCapacity,
	"with usb 3 ports":     KindPorts,
	"ports":                KindPorts,
	"touch id in keyboard": KindTouchIDKeyboard,
	"touch_id_keyboard":    KindTouchIDKeyboard,
}

// KindForName resolves a catalog display name (or a kind's own string
// form) to an AttributeKind. Unknown names report ok == false.
func KindForName(name string) (AttributeKind, bool) {
	kind, ok := kindByDisplayName[strings.ToLower(strings.TrimSpace(name))]
	return kind, ok
}

// SelectedAttributes maps an attribute kind to the chosen item value.
// A kind absent from the map means nothing was chosen for it.
type SelectedAttributes map[AttributeKind]string

func (s SelectedAttributes) Clone() SelectedAttributes {
	if s == nil {
		return nil
	}
	out := make(SelectedAttributes, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// SameVariant reports whether two attribute selections describe the same
// variant of a product declaring the given attribute groups. Only kinds
// the product actually declares take part in the comparison; both-missing
// counts as equal. A product with no attribute groups has a single
// variant, so any two selections match. Product id equality is the
// caller's precondition.
func SameVariant(groups []AttributeGroup, a, b SelectedAttributes) bool {
	for _, group := range groups {
		kind, ok := KindForName(group.Name)
		if !ok {
			continue
		}
		if a[kind] != b[kind] {
			return false
		}
	}
	return true
}
