package topology

// VLAN is one broadcast domain of the access layer
type VLAN struct {
	ID      int      `json:"id"`
	Members []Device `json:"members"`
	Subnet  Subnet   `json:"subnet"`
}

// Switches returns the switch members in bucket order
func (v VLAN) Switches() []Device {
	return filterKind(v.Members, KindSwitch)
}

// Computers returns the computer members in bucket order
func (v VLAN) Computers() []Device {
	return filterKind(v.Members, KindComputer)
}

// MainSwitch returns the first switch of the VLAN, which uplinks to the distribution tier.
// ok is false for a VLAN without switches.
func (v VLAN) MainSwitch() (Device, bool) {
	for _, d := range v.Members {
		if d.Kind == KindSwitch {
			return d, true
		}
	}
	return Device{}, false
}

func filterKind(devices []Device, kind Kind) []Device {
	var out []Device
	for _, d := range devices {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
