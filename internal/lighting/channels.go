package lighting

import "strings"

// SparseFromDense converts a legacy dense value array into sparse pairs.
// The array index is the channel offset. This is the only place density is
// interpreted; sparse values are never densified.
func SparseFromDense(values []int) []ChannelValue {
	if len(values) == 0 {
		return nil
	}
	channels := make([]ChannelValue, len(values))
	for i, v := range values {
		channels[i] = ChannelValue{Offset: i, Value: v}
	}
	return channels
}

// Clamp restricts v to the inclusive range [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EasingType names a fade curve understood by the playback engine.
type EasingType string

const (
	EasingLinear         EasingType = "LINEAR"
	EasingInOutCubic     EasingType = "EASE_IN_OUT_CUBIC"
	EasingInOutSine      EasingType = "EASE_IN_OUT_SINE"
	EasingOutExponential EasingType = "EASE_OUT_EXPONENTIAL"
	EasingBezier         EasingType = "BEZIER"
	EasingSCurve         EasingType = "S_CURVE"
)

var easingTypes = []EasingType{
	EasingLinear, EasingInOutCubic, EasingInOutSine,
	EasingOutExponential, EasingBezier, EasingSCurve,
}

// ParseEasing normalizes an easing name. Unknown names return false.
func ParseEasing(name string) (EasingType, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "_")
	n = strings.ReplaceAll(n, " ", "_")
	for _, e := range easingTypes {
		if string(e) == n {
			return e, true
		}
	}
	return "", false
}

// EasingNames lists the supported easing names.
func EasingNames() []string {
	names := make([]string, len(easingTypes))
	for i, e := range easingTypes {
		names[i] = string(e)
	}
	return names
}
