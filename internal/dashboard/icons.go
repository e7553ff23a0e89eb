package dashboard

import (
	"fmt"
)

// Icon names a section glyph. The set is closed; unknown names fail to decode.
type Icon uint8

const (
	IconDroplets Icon = iota + 1
	IconArrowDownToLine
	IconArrowUpToLine
	IconTrendingUp
	IconRepeat
	IconDollarSign
	IconCoins
	IconFileText
	IconScale
	IconTarget
)

var iconNames = [...]string{
	IconDroplets:        "Droplets",
	IconArrowDownToLine: "ArrowDownToLine",
	IconArrowUpToLine:   "ArrowUpToLine",
	IconTrendingUp:      "TrendingUp",
	IconRepeat:          "Repeat",
	IconDollarSign:      "DollarSign",
	IconCoins:           "Coins",
	IconFileText:        "FileText",
	IconScale:           "Scale",
	IconTarget:          "Target",
}

func (i Icon) String() string {
	if i == 0 || int(i) >= len(iconNames) {
		return ""
	}
	return iconNames[i]
}

// MarshalText encodes the icon by name.
func (i Icon) MarshalText() ([]byte, error) {
	name := i.String()
	if name == "" {
		return nil, fmt.Errorf("dashboard: unknown icon %d", i)
	}
	return []byte(name), nil
}

// UnmarshalText decodes an icon name.
func (i *Icon) UnmarshalText(text []byte) error {
	for idx, name := range iconNames {
		if name != "" && name == string(text) {
			*i = Icon(idx)
			return nil
		}
	}
	return fmt.Errorf("dashboard: unknown icon %q", text)
}
