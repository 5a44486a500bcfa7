package schema

import "strconv"

// SignalKind identifies a derived signal stashed in a snapshot's metadata bag.
type SignalKind string

// All signal kinds read by the multi-snapshot transformation scanners.
const (
	MuscleDefinitionSignal  SignalKind = "muscle_definition"
	SkinQualitySignal       SignalKind = "skin_quality"
	CosmeticProcedureSignal SignalKind = "cosmetic_procedures"
)

// numericSignals marks the kinds whose raw values are parsed as floats.
var numericSignals = map[SignalKind]struct{}{
	MuscleDefinitionSignal: {},
	SkinQualitySignal:      {},
}

// Signal is a small tagged-variant view over one entry of the metadata bag.
// Numeric kinds carry Numeric; textual kinds carry Text. The bag itself stays
// open and string-keyed so upstream scanners can add new keys freely.
type Signal struct {
	Kind    SignalKind
	Numeric float64
	Text    string
}

// ParseSignal builds a typed signal from a raw metadata value. Numeric kinds
// that fail to parse report false rather than an error; scanners treat a
// malformed value the same as a missing one.
func ParseSignal(kind SignalKind, raw string) (Signal, bool) {
	if _, numeric := numericSignals[kind]; numeric {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Signal{}, false
		}
		return Signal{Kind: kind, Numeric: v}, true
	}
	if raw == "" {
		return Signal{}, false
	}
	return Signal{Kind: kind, Text: raw}, true
}

// Signal extracts a typed signal from the snapshot's metadata bag.
func (s Snapshot) Signal(kind SignalKind) (Signal, bool) {
	raw, ok := s.Metadata[string(kind)]
	if !ok {
		return Signal{}, false
	}
	return ParseSignal(kind, raw)
}
