// SPDX-License-Identifier: MIT

package dataset

import "fmt"

// Group identifies one measurement table of the distance ladder.
// The numeric order of the constants is the canonical iteration order.
type Group int

const (
	// Cepheids in SN-host galaxies.
	Cepheids Group = iota
	// CepheidAnchors are Cepheids in galaxies with geometric distances.
	CepheidAnchors
	// CepheidMW are Milky Way Cepheids with parallaxes.
	CepheidMW
	// TRGB tips in SN-host galaxies.
	TRGB
	// TRGBAnchors are TRGB tips in anchor galaxies.
	TRGBAnchors
	// SNeCepheids are calibrator supernovae in Cepheid hosts.
	SNeCepheids
	// SNeTRGB are calibrator supernovae in TRGB hosts.
	SNeTRGB
	// SNeHubble are Hubble-flow supernovae.
	SNeHubble

	numGroups
)

var groupLabels = [numGroups]string{
	"Cepheids",
	"Cepheids_anchors",
	"Cepheids_MW",
	"TRGB",
	"TRGB_anchors",
	"SNe_Cepheids",
	"SNe_TRGB",
	"SNe_Hubble",
}

// String returns the canonical label, which is also the CSV file stem.
func (g Group) String() string {
	if !g.Valid() {
		return fmt.Sprintf("Group(%d)", int(g))
	}
	return groupLabels[g]
}

// Valid reports whether g is one of the enumerated groups.
func (g Group) Valid() bool { return g >= 0 && g < numGroups }

// ParseGroup maps a canonical label back to its Group.
func ParseGroup(label string) (Group, error) {
	for i, l := range groupLabels {
		if l == label {
			return Group(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, label)
}

// AllGroups returns every group in canonical order.
func AllGroups() []Group {
	out := make([]Group, numGroups)
	for i := range out {
		out[i] = Group(i)
	}
	return out
}

// CepheidFamily returns the Cepheid groups eligible for outlier rejection,
// in canonical order. The Milky Way group is included only when includeMW.
func CepheidFamily(includeMW bool) []Group {
	if includeMW {
		return []Group{Cepheids, CepheidAnchors, CepheidMW}
	}
	return []Group{Cepheids, CepheidAnchors}
}
