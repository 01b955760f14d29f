package values

// Unit is a length unit.
type Unit uint8

const (
	_ Unit = iota
	UnitPx
	UnitPt
	UnitPc
	UnitIn
	UnitCm
	UnitMm
	UnitQ
	UnitEm
	UnitRem
	UnitEx
	UnitCh
	UnitVw
	UnitVh
	UnitVmin
	UnitVmax
)

var unitNames = [...]string{
	UnitPx:   "px",
	UnitPt:   "pt",
	UnitPc:   "pc",
	UnitIn:   "in",
	UnitCm:   "cm",
	UnitMm:   "mm",
	UnitQ:    "q",
	UnitEm:   "em",
	UnitRem:  "rem",
	UnitEx:   "ex",
	UnitCh:   "ch",
	UnitVw:   "vw",
	UnitVh:   "vh",
	UnitVmin: "vmin",
	UnitVmax: "vmax",
}

func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return "?"
}

// ParseUnit returns the unit named [s] (lower case).
func ParseUnit(s string) (Unit, bool) {
	for u, name := range unitNames {
		if name != "" && name == s {
			return Unit(u), true
		}
	}
	return 0, false
}

// IsAbsolute is true for units with a fixed ratio to pixels.
func (u Unit) IsAbsolute() bool { return UnitPx <= u && u <= UnitQ }

// IsFontRelative is true for em, rem, ex and ch.
func (u Unit) IsFontRelative() bool { return UnitEm <= u && u <= UnitCh }

// IsViewportRelative is true for vw, vh, vmin and vmax.
func (u Unit) IsViewportRelative() bool { return UnitVw <= u && u <= UnitVmax }

// LengthsToPixels gives how many CSS pixels one <unit> is.
// http://www.w3.org/TR/CSS21/syndata.html#length-units
var LengthsToPixels = map[Unit]Fl{
	UnitPx: 1,
	UnitPt: 1. / 0.75,
	UnitPc: 16.,             // LengthsToPixels["pt"] * 12
	UnitIn: 96.,             // LengthsToPixels["pt"] * 72
	UnitCm: 96. / 2.54,      // LengthsToPixels["in"] / 2.54
	UnitMm: 96. / 25.4,      // LengthsToPixels["in"] / 25.4
	UnitQ:  96. / 25.4 / 4., // LengthsToPixels[Mm] / 4
}
