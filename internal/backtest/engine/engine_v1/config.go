package engine_v1

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/quantexlab/quantex/internal/backtest/engine/engine_v1/costmodel"
	"github.com/quantexlab/quantex/internal/risk"
	"github.com/quantexlab/quantex/pkg/errors"
	"gopkg.in/yaml.v2"
)

// BacktestEngineV1Config configures a single engine instance. Loaded from
// YAML, validated before the first run.
type BacktestEngineV1Config struct {
	// InitialCapital is the starting cash balance.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" validate:"gt=0"`
	// Leverage scales margin requirements. 1.0 means fully funded positions.
	Leverage float64 `yaml:"leverage" json:"leverage" validate:"gt=0"`
	// CostModel selects the trading cost model applied on fills.
	CostModel costmodel.ModelName `yaml:"cost_model" json:"cost_model" validate:"required"`
	// CommissionRate is the proportional commission per trade notional.
	CommissionRate float64 `yaml:"commission_rate" json:"commission_rate" validate:"gte=0"`
	// CommissionMin is the per-trade commission floor.
	CommissionMin float64 `yaml:"commission_min" json:"commission_min" validate:"gte=0"`
	// SlippageRate is the proportional price slippage per trade.
	SlippageRate float64 `yaml:"slippage_rate" json:"slippage_rate" validate:"gte=0"`
	// ImpactCoefficient scales market impact by participation rate.
	ImpactCoefficient float64 `yaml:"impact_coefficient" json:"impact_coefficient" validate:"gte=0"`
	// Risk holds the pre-trade risk limits.
	Risk risk.Limits `yaml:"risk" json:"risk"`
	// StartTime optionally restricts the run to rows at or after this time.
	StartTime optional.Option[time.Time] `yaml:"start_time,omitempty" json:"start_time,omitempty"`
	// EndTime optionally restricts the run to rows at or before this time.
	EndTime optional.Option[time.Time] `yaml:"end_time,omitempty" json:"end_time,omitempty"`
}

type rawConfig struct {
	InitialCapital    float64             `yaml:"initial_capital"`
	Leverage          float64             `yaml:"leverage"`
	CostModel         costmodel.ModelName `yaml:"cost_model"`
	CommissionRate    float64             `yaml:"commission_rate"`
	CommissionMin     float64             `yaml:"commission_min"`
	SlippageRate      float64             `yaml:"slippage_rate"`
	ImpactCoefficient float64             `yaml:"impact_coefficient"`
	Risk              risk.Limits         `yaml:"risk"`
	StartTime         string              `yaml:"start_time"`
	EndTime           string              `yaml:"end_time"`
}

// DefaultConfig mirrors the historical engine defaults.
func DefaultConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital:    1_000_000,
		Leverage:          1.0,
		CostModel:         costmodel.ModelLinear,
		CommissionRate:    0.001,
		CommissionMin:     1.0,
		SlippageRate:      0.0005,
		ImpactCoefficient: 0.1,
		Risk:              risk.DefaultLimits(),
	}
}

// UnmarshalYAML fills unset fields from DefaultConfig and parses the
// optional RFC 3339 time bounds.
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	defaults := DefaultConfig()
	raw := rawConfig{
		InitialCapital:    defaults.InitialCapital,
		Leverage:          defaults.Leverage,
		CostModel:         defaults.CostModel,
		CommissionRate:    defaults.CommissionRate,
		CommissionMin:     defaults.CommissionMin,
		SlippageRate:      defaults.SlippageRate,
		ImpactCoefficient: defaults.ImpactCoefficient,
		Risk:              defaults.Risk,
	}
	if err := unmarshal(&raw); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse engine config", err)
	}
	*c = BacktestEngineV1Config{
		InitialCapital:    raw.InitialCapital,
		Leverage:          raw.Leverage,
		CostModel:         raw.CostModel,
		CommissionRate:    raw.CommissionRate,
		CommissionMin:     raw.CommissionMin,
		SlippageRate:      raw.SlippageRate,
		ImpactCoefficient: raw.ImpactCoefficient,
		Risk:              raw.Risk,
	}
	if raw.StartTime != "" {
		t, err := time.Parse(time.RFC3339, raw.StartTime)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid start_time", err)
		}
		c.StartTime = optional.Some(t)
	}
	if raw.EndTime != "" {
		t, err := time.Parse(time.RFC3339, raw.EndTime)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid end_time", err)
		}
		c.EndTime = optional.Some(t)
	}
	return nil
}

// ParseConfig decodes YAML into a validated engine config.
func ParseConfig(data []byte) (BacktestEngineV1Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the config against its struct constraints.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid engine config", err)
	}
	return nil
}

// buildCostModel constructs the configured cost model with the config's
// parameters applied.
func (c *BacktestEngineV1Config) buildCostModel() costmodel.CostModel {
	if c.CostModel == costmodel.ModelZero {
		return costmodel.NewZeroCostModel()
	}
	return &costmodel.LinearCostModel{
		CommissionRate:    c.CommissionRate,
		CommissionMin:     c.CommissionMin,
		SlippageRate:      c.SlippageRate,
		ImpactCoefficient: c.ImpactCoefficient,
	}
}

// GenerateSchema builds the JSON schema describing the engine config.
func GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}
			if t.String() == "costmodel.ModelName" {
				return &jsonschema.Schema{
					Type: "string",
					Enum: costmodel.AllModels,
				}
			}
			return nil
		},
	}
	return reflector.Reflect(&BacktestEngineV1Config{})
}

// GenerateSchemaJSON renders the config schema as indented JSON.
func GenerateSchemaJSON() ([]byte, error) {
	return json.MarshalIndent(GenerateSchema(), "", "  ")
}
