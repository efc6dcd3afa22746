package quant

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Config is the serializable record of a quantizer's identity and
// constructor arguments. Round-tripping a quantizer through Config and
// FromConfig yields an equivalently configured instance (learned state such
// as the LAB kernel is not part of the record).
type Config struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ToJSON serializes the config.
func (c Config) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

// ConfigFromJSON deserializes a config record.
func ConfigFromJSON(data []byte) (Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse quantizer config: %w", err)
	}
	return c, nil
}

// FromConfig constructs a quantizer from a config record. The name table is
// closed: only the operators defined in this package resolve. Missing args
// fall back to the constructor defaults; args that survived a JSON round trip
// (numbers arriving as float64) are accepted.
func FromConfig(cfg Config) (Quantizer, error) {
	switch canonicalName(cfg.Name) {
	case "ste_sign":
		return NewSteSign(cfgFloat(cfg.Args, "clip_value", DefaultClipValue)), nil
	case "approx_sign":
		return NewApproxSign(), nil
	case "ste_heaviside":
		return NewSteHeaviside(cfgFloat(cfg.Args, "clip_value", DefaultClipValue)), nil
	case "swish_sign":
		return NewSwishSign(cfgFloat(cfg.Args, "beta", DefaultSwishBeta)), nil
	case "magnitude_aware_sign":
		return NewMagnitudeAwareSign(cfgFloat(cfg.Args, "clip_value", DefaultClipValue)), nil
	case "ste_tern":
		return NewSteTern(
			cfgFloat(cfg.Args, "threshold_value", DefaultTernThreshold),
			cfgBool(cfg.Args, "ternary_weight_networks", false),
			cfgFloat(cfg.Args, "clip_value", DefaultClipValue),
		), nil
	case "dorefa":
		return NewDoReFa(
			cfgInt(cfg.Args, "k_bit", 2),
			cfgString(cfg.Args, "mode", ModeActivations),
		)
	case "no_op":
		return NewNoOp(cfgInt(cfg.Args, "precision", 32)), nil
	case "lab":
		if trainable := cfgBool(cfg.Args, "trainable", true); !trainable {
			return NewLABWithBeta(cfgFloat(cfg.Args, "beta", 1.0)), nil
		}
		return NewLAB(), nil
	case "niblack":
		return NewNiblack(
			cfgInt(cfg.Args, "window", DefaultAdaptiveWindow),
			cfgFloat(cfg.Args, "k", DefaultNiblackK),
		)
	case "sauvola":
		return NewSauvola(
			cfgInt(cfg.Args, "window", DefaultAdaptiveWindow),
			cfgFloat(cfg.Args, "k", DefaultSauvolaK),
		)
	default:
		return nil, fmt.Errorf("unknown quantizer %q, known quantizers: %v", cfg.Name, KnownQuantizers)
	}
}

// KnownQuantizers lists the resolvable operator names.
var KnownQuantizers = []string{
	"ste_sign", "approx_sign", "ste_heaviside", "swish_sign",
	"magnitude_aware_sign", "ste_tern", "dorefa", "no_op",
	"lab", "niblack", "sauvola",
}

// canonicalName maps accepted spellings onto table keys. Lookup is
// case-insensitive and tolerates the long DoReFa name.
func canonicalName(name string) string {
	name = strings.ToLower(name)
	if name == "dorefa_quantizer" {
		return "dorefa"
	}
	return name
}

func cfgFloat(args map[string]any, key string, fallback float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return fallback
	}
}

func cfgInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func cfgBool(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

func cfgString(args map[string]any, key string, fallback string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return fallback
}
