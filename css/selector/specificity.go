package selector

// Specificity is the CSS specificity as defined in
// https://www.w3.org/TR/selectors/#specificity-rules
// with the convention Specificity = [A,B,C].
type Specificity [3]uint8

// Less returns `true` if s < other (strictly), false otherwise.
func (s Specificity) Less(other Specificity) bool {
	for i := range s {
		if s[i] < other[i] {
			return true
		}
		if s[i] > other[i] {
			return false
		}
	}
	return false
}

// Add sums the components, saturating at 255.
func (s Specificity) Add(other Specificity) Specificity {
	for i, sp := range other {
		if int(s[i])+int(sp) > 255 {
			s[i] = 255
		} else {
			s[i] += sp
		}
	}
	return s
}

func maxSpecificity(group SelectorGroup) Specificity {
	var out Specificity
	for _, sel := range group {
		if out.Less(sel.specificity) {
			out = sel.specificity
		}
	}
	return out
}
