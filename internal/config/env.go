package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TERMRAIN_RAIN_INTERVAL_MS.
const EnvPrefix = "TERMRAIN"

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// ApplyEnv overlays TERMRAIN_* environment variables onto cfg.
// Values set in the environment win over values read from the file.
// Every malformed variable is reported; cfg keeps the well-formed ones.
func ApplyEnv(cfg *FileConfig) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)

	return errors.Join(
		envValue(v, "rain.interval-ms", &cfg.Rain.IntervalMs, cast.ToIntE),
		envValue(v, "rain.glyphs", &cfg.Rain.Glyphs, cast.ToStringE),
		envValue(v, "rain.fade", &cfg.Rain.Fade, cast.ToFloat64E),
		envValue(v, "rain.reset-chance", &cfg.Rain.ResetChance, cast.ToFloat64E),
		envValue(v, "rain.color", &cfg.Rain.Color, cast.ToStringE),
		envValue(v, "reaction.min-delay-ms", &cfg.Reaction.MinDelayMs, cast.ToIntE),
		envValue(v, "reaction.max-delay-ms", &cfg.Reaction.MaxDelayMs, cast.ToIntE),
		envValue(v, "reaction.sound", &cfg.Reaction.Sound, cast.ToBoolE),
		envValue(v, "typing.length", &cfg.Typing.Length, cast.ToIntE),
		envValue(v, "typing.alphabet", &cfg.Typing.Alphabet, cast.ToStringE),
		envValue(v, "history.enabled", &cfg.History.Enabled, cast.ToBoolE),
	)
}

// envName returns the environment variable that overrides key.
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(envKeyReplacer.Replace(key))
}

func bound(v *viper.Viper, key string) bool {
	if err := v.BindEnv(key); err != nil {
		return false
	}
	return v.IsSet(key)
}

func envValue[T any](v *viper.Viper, key string, target **T, parse func(any) (T, error)) error {
	if !bound(v, key) {
		return nil
	}
	raw := v.Get(key)
	val, err := parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", envName(key), fmt.Sprint(raw), err)
	}
	*target = &val
	return nil
}
