package datasource

import (
	"math"
	"math/rand"
	"time"
)

// Generator produces synthetic market tables for testing, benchmarking
// and demo runs. Prices follow a geometric Brownian motion.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded for reproducible output. Use a
// fixed seed in tests.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// GeneratorConfig configures one synthetic series.
type GeneratorConfig struct {
	// Symbol names the close/volume columns. The default symbol produces
	// bare "close"/"volume" columns; any other produces "<symbol>_close"
	// and "<symbol>_volume".
	Symbol string
	// StartTime is the timestamp of the first row.
	StartTime time.Time
	// Interval is the duration between rows.
	Interval time.Duration
	// Count is the number of rows to generate.
	Count int
	// InitialPrice is the starting price.
	InitialPrice float64
	// Volatility controls the per-bar price movement.
	Volatility float64
	// Trend is the total drift distributed across all bars.
	Trend float64
	// VolumeBase is the average volume per bar.
	VolumeBase float64
	// VolumeVariance is the relative variance in volume, 0 to 1.
	VolumeVariance float64
}

// DefaultGeneratorConfig returns a neutral daily series of 252 rows.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "default",
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       24 * time.Hour,
		Count:          252,
		InitialPrice:   100.0,
		Volatility:     0.01,
		Trend:          0.0,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

func closeColumnName(symbol string) string {
	if symbol == "" || symbol == "default" {
		return "close"
	}

	return symbol + "_close"
}

func volumeColumnName(symbol string) string {
	if symbol == "" || symbol == "default" {
		return "volume"
	}

	return symbol + "_volume"
}

// Generate produces a table with one close and one volume column.
func (g *Generator) Generate(config GeneratorConfig) *Table {
	closeCol := closeColumnName(config.Symbol)
	volumeCol := volumeColumnName(config.Symbol)

	table := &Table{
		Columns: []string{closeCol, volumeCol},
		Rows:    make([]Row, config.Count),
	}

	price := config.InitialPrice
	timestamp := config.StartTime

	for i := 0; i < config.Count; i++ {
		// Box-Muller transform for a standard normal draw
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		next := price * (1 + config.Volatility*z + drift)
		if next <= 0 {
			next = price * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		table.Rows[i] = Row{
			Timestamp: timestamp,
			Values: map[string]float64{
				closeCol:  roundToDecimals(next, 4),
				volumeCol: roundToDecimals(volume, 2),
			},
		}

		price = next
		timestamp = timestamp.Add(config.Interval)
	}

	return table
}

// GenerateMultiSymbol produces one table carrying close and volume
// columns for each symbol, with initial price and volatility varied
// slightly per symbol.
func (g *Generator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) *Table {
	merged := &Table{}

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		single := g.Generate(config)
		merged.Columns = append(merged.Columns, single.Columns...)

		if merged.Rows == nil {
			merged.Rows = single.Rows
			continue
		}

		for i := range merged.Rows {
			if i >= len(single.Rows) {
				break
			}

			for column, value := range single.Rows[i].Values {
				merged.Rows[i].Values[column] = value
			}
		}
	}

	return merged
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
