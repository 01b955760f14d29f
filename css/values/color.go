package values

import (
	"math"
	"strconv"

	"github.com/benoitkugler/webstyle/utils"
	"github.com/pkg/errors"
)

// ParseColorKeyword resolves a named color, 'transparent' included.
// 'currentcolor' is not a color value and is not handled here.
func ParseColorKeyword(name string) (Color, bool) {
	name = utils.AsciiLower(name)
	if name == "transparent" {
		return Color{}, true
	}
	hex, ok := namedColors[name]
	if !ok {
		return Color{}, false
	}
	return fromRGB24(hex, 1), true
}

func fromRGB24(v uint32, alpha Fl) Color {
	return Color{
		R: Fl(v>>16&0xff) / 255,
		G: Fl(v>>8&0xff) / 255,
		B: Fl(v&0xff) / 255,
		A: alpha,
	}
}

// ParseHexColor parses the #rgb, #rgba, #rrggbb and #rrggbbaa
// notations, without the leading '#'.
func ParseHexColor(s string) (Color, bool) {
	var digits [8]uint64
	if len(s) != 3 && len(s) != 4 && len(s) != 6 && len(s) != 8 {
		return Color{}, false
	}
	for i := 0; i < len(s); i++ {
		d, err := strconv.ParseUint(s[i:i+1], 16, 8)
		if err != nil {
			return Color{}, false
		}
		digits[i] = d
	}
	var rgba [4]Fl
	rgba[3] = 255
	switch len(s) {
	case 3, 4:
		for i := 0; i < len(s); i++ {
			rgba[i] = Fl(digits[i] * 17)
		}
	case 6, 8:
		for i := 0; i < len(s)/2; i++ {
			rgba[i] = Fl(digits[2*i]*16 + digits[2*i+1])
		}
	}
	return Color{R: rgba[0] / 255, G: rgba[1] / 255, B: rgba[2] / 255, A: rgba[3] / 255}, true
}

// IsColorFunction returns true for rgb, rgba, hsl and hsla.
func IsColorFunction(name string) bool {
	switch name {
	case "rgb", "rgba", "hsl", "hsla":
		return true
	}
	return false
}

// EvalColorFunction computes the color described by [fn], which
// must be one of rgb(), rgba(), hsl() or hsla(). Out of range
// arguments are clamped.
func EvalColorFunction(fn Function) (Color, error) {
	args := fn.Args
	if len(args) != 3 && len(args) != 4 {
		return Color{}, errors.Errorf("%s() expects 3 or 4 arguments, got %d", fn.Name, len(args))
	}
	alpha := Fl(1)
	if len(args) == 4 {
		switch a := args[3].(type) {
		case Number:
			alpha = a.Value
		case Percentage:
			alpha = a.Value / 100
		default:
			return Color{}, errors.Errorf("invalid alpha value %s", args[3].Canonical())
		}
	}
	switch fn.Name {
	case "rgb", "rgba":
		var channels [3]Fl
		// all numbers or all percentages
		_, isPercent := args[0].(Percentage)
		for i, arg := range args[:3] {
			switch a := arg.(type) {
			case Number:
				if isPercent {
					return Color{}, errors.New("mixed numbers and percentages in rgb()")
				}
				channels[i] = a.Value / 255
			case Percentage:
				if !isPercent {
					return Color{}, errors.New("mixed numbers and percentages in rgb()")
				}
				channels[i] = a.Value / 100
			default:
				return Color{}, errors.Errorf("invalid rgb() argument %s", arg.Canonical())
			}
		}
		return NewColor(channels[0], channels[1], channels[2], alpha)
	case "hsl", "hsla":
		hue, ok := args[0].(Number)
		sat, ok1 := args[1].(Percentage)
		light, ok2 := args[2].(Percentage)
		if !(ok && ok1 && ok2) {
			return Color{}, errors.Errorf("invalid hsl() arguments %s", fn.Canonical())
		}
		r, g, b := hslToRGB(hue.Value, sat.Value/100, light.Value/100)
		return NewColor(r, g, b, alpha)
	default:
		return Color{}, errors.Errorf("unsupported color function %s()", fn.Name)
	}
}

// http://www.w3.org/TR/css3-color/#hsl-color
func hslToRGB(hue, saturation, lightness Fl) (r, g, b Fl) {
	hue = math.Mod(hue/360, 1)
	if hue < 0 {
		hue += 1
	}
	saturation = utils.Clamp(saturation, 0, 1)
	lightness = utils.Clamp(lightness, 0, 1)
	var m2 Fl
	if lightness <= 0.5 {
		m2 = lightness * (saturation + 1)
	} else {
		m2 = lightness + saturation - lightness*saturation
	}
	m1 := lightness*2 - m2
	return hueToRGB(m1, m2, hue+1./3), hueToRGB(m1, m2, hue), hueToRGB(m1, m2, hue-1./3)
}

func hueToRGB(m1, m2, h Fl) Fl {
	if h < 0 {
		h += 1
	}
	if h > 1 {
		h -= 1
	}
	switch {
	case h*6 < 1:
		return m1 + (m2-m1)*h*6
	case h*2 < 1:
		return m2
	case h*3 < 2:
		return m1 + (m2-m1)*(2./3-h)*6
	default:
		return m1
	}
}

// http://www.w3.org/TR/css3-color/#svg-color
var namedColors = map[string]uint32{
	"aliceblue":            0xf0f8ff,
	"antiquewhite":         0xfaebd7,
	"aqua":                 0x00ffff,
	"aquamarine":           0x7fffd4,
	"azure":                0xf0ffff,
	"beige":                0xf5f5dc,
	"bisque":               0xffe4c4,
	"black":                0x000000,
	"blanchedalmond":       0xffebcd,
	"blue":                 0x0000ff,
	"blueviolet":           0x8a2be2,
	"brown":                0xa52a2a,
	"burlywood":            0xdeb887,
	"cadetblue":            0x5f9ea0,
	"chartreuse":           0x7fff00,
	"chocolate":            0xd2691e,
	"coral":                0xff7f50,
	"cornflowerblue":       0x6495ed,
	"cornsilk":             0xfff8dc,
	"crimson":              0xdc143c,
	"cyan":                 0x00ffff,
	"darkblue":             0x00008b,
	"darkcyan":             0x008b8b,
	"darkgoldenrod":        0xb8860b,
	"darkgray":             0xa9a9a9,
	"darkgreen":            0x006400,
	"darkgrey":             0xa9a9a9,
	"darkkhaki":            0xbdb76b,
	"darkmagenta":          0x8b008b,
	"darkolivegreen":       0x556b2f,
	"darkorange":           0xff8c00,
	"darkorchid":           0x9932cc,
	"darkred":              0x8b0000,
	"darksalmon":           0xe9967a,
	"darkseagreen":         0x8fbc8f,
	"darkslateblue":        0x483d8b,
	"darkslategray":        0x2f4f4f,
	"darkslategrey":        0x2f4f4f,
	"darkturquoise":        0x00ced1,
	"darkviolet":           0x9400d3,
	"deeppink":             0xff1493,
	"deepskyblue":          0x00bfff,
	"dimgray":              0x696969,
	"dimgrey":              0x696969,
	"dodgerblue":           0x1e90ff,
	"firebrick":            0xb22222,
	"floralwhite":          0xfffaf0,
	"forestgreen":          0x228b22,
	"fuchsia":              0xff00ff,
	"gainsboro":            0xdcdcdc,
	"ghostwhite":           0xf8f8ff,
	"gold":                 0xffd700,
	"goldenrod":            0xdaa520,
	"gray":                 0x808080,
	"green":                0x008000,
	"greenyellow":          0xadff2f,
	"grey":                 0x808080,
	"honeydew":             0xf0fff0,
	"hotpink":              0xff69b4,
	"indianred":            0xcd5c5c,
	"indigo":               0x4b0082,
	"ivory":                0xfffff0,
	"khaki":                0xf0e68c,
	"lavender":             0xe6e6fa,
	"lavenderblush":        0xfff0f5,
	"lawngreen":            0x7cfc00,
	"lemonchiffon":         0xfffacd,
	"lightblue":            0xadd8e6,
	"lightcoral":           0xf08080,
	"lightcyan":            0xe0ffff,
	"lightgoldenrodyellow": 0xfafad2,
	"lightgray":            0xd3d3d3,
	"lightgreen":           0x90ee90,
	"lightgrey":            0xd3d3d3,
	"lightpink":            0xffb6c1,
	"lightsalmon":          0xffa07a,
	"lightseagreen":        0x20b2aa,
	"lightskyblue":         0x87cefa,
	"lightslategray":       0x778899,
	"lightslategrey":       0x778899,
	"lightsteelblue":       0xb0c4de,
	"lightyellow":          0xffffe0,
	"lime":                 0x00ff00,
	"limegreen":            0x32cd32,
	"linen":                0xfaf0e6,
	"magenta":              0xff00ff,
	"maroon":               0x800000,
	"mediumaquamarine":     0x66cdaa,
	"mediumblue":           0x0000cd,
	"mediumorchid":         0xba55d3,
	"mediumpurple":         0x9370db,
	"mediumseagreen":       0x3cb371,
	"mediumslateblue":      0x7b68ee,
	"mediumspringgreen":    0x00fa9a,
	"mediumturquoise":      0x48d1cc,
	"mediumvioletred":      0xc71585,
	"midnightblue":         0x191970,
	"mintcream":            0xf5fffa,
	"mistyrose":            0xffe4e1,
	"moccasin":             0xffe4b5,
	"navajowhite":          0xffdead,
	"navy":                 0x000080,
	"oldlace":              0xfdf5e6,
	"olive":                0x808000,
	"olivedrab":            0x6b8e23,
	"orange":               0xffa500,
	"orangered":            0xff4500,
	"orchid":               0xda70d6,
	"palegoldenrod":        0xeee8aa,
	"palegreen":            0x98fb98,
	"paleturquoise":        0xafeeee,
	"palevioletred":        0xdb7093,
	"papayawhip":           0xffefd5,
	"peachpuff":            0xffdab9,
	"peru":                 0xcd853f,
	"pink":                 0xffc0cb,
	"plum":                 0xdda0dd,
	"powderblue":           0xb0e0e6,
	"purple":               0x800080,
	"rebeccapurple":        0x663399,
	"red":                  0xff0000,
	"rosybrown":            0xbc8f8f,
	"royalblue":            0x4169e1,
	"saddlebrown":          0x8b4513,
	"salmon":               0xfa8072,
	"sandybrown":           0xf4a460,
	"seagreen":             0x2e8b57,
	"seashell":             0xfff5ee,
	"sienna":               0xa0522d,
	"silver":               0xc0c0c0,
	"skyblue":              0x87ceeb,
	"slateblue":            0x6a5acd,
	"slategray":            0x708090,
	"slategrey":            0x708090,
	"snow":                 0xfffafa,
	"springgreen":          0x00ff7f,
	"steelblue":            0x4682b4,
	"tan":                  0xd2b48c,
	"teal":                 0x008080,
	"thistle":              0xd8bfd8,
	"tomato":               0xff6347,
	"turquoise":            0x40e0d0,
	"violet":               0xee82ee,
	"wheat":                0xf5deb3,
	"white":                0xffffff,
	"whitesmoke":           0xf5f5f5,
	"yellow":               0xffff00,
	"yellowgreen":          0x9acd32,
}
