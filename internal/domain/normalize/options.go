package normalize

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithScaleMode selects observed min-max or fixed-denominator scaling.
func WithScaleMode(mode ScaleMode) Option {
	return func(n *Normalizer) {
		if mode == ScaleObserved || mode == ScaleFixed {
			n.mode = mode
		}
	}
}

// WithLengthPreference selects how keyword length is oriented.
func WithLengthPreference(pref LengthPreference) Option {
	return func(n *Normalizer) {
		if pref == PreferShorter || pref == PreferTarget {
			n.lengthPref = pref
		}
	}
}

// WithTargetLength sets the ideal keyword length for PreferTarget mode.
func WithTargetLength(length int) Option {
	return func(n *Normalizer) {
		if length > 0 {
			n.targetLength = length
		}
	}
}

// WithAppsBase sets the fixed-mode denominator base for app counts.
func WithAppsBase(base float64) Option {
	return func(n *Normalizer) {
		if base > 0 {
			n.appsBase = base
		}
	}
}

// WithLengthBase sets the fixed-mode denominator base for keyword length.
func WithLengthBase(base float64) Option {
	return func(n *Normalizer) {
		if base > 0 {
			n.lengthBase = base
		}
	}
}
