package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"github.com/quantexlab/quantex/internal/backtest/engine"
	enginev1 "github.com/quantexlab/quantex/internal/backtest/engine/engine_v1"
	"github.com/quantexlab/quantex/internal/backtest/engine/engine_v1/datasource"
	"github.com/quantexlab/quantex/internal/logger"
	"github.com/quantexlab/quantex/internal/strategy"
	"github.com/quantexlab/quantex/internal/types"
	"github.com/quantexlab/quantex/internal/version"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// runAction loads the market data, runs the configured strategy through
// the engine and writes the result bundle.
func runAction(ctx context.Context, cmd *cli.Command) error {
	dataPath := cmd.String("data")
	configPath := cmd.String("config")
	outputPath := cmd.String("output")

	config := enginev1.DefaultConfig()

	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		config, err = enginev1.ParseConfig(raw)
		if err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if !cmd.Timestamp("start").IsZero() {
		config.StartTime = optional.Some(cmd.Timestamp("start"))
	}
	if !cmd.Timestamp("end").IsZero() {
		config.EndTime = optional.Some(cmd.Timestamp("end"))
	}

	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	backtester, err := enginev1.NewBacktestEngineV1(config, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create backtest engine: %w", err)
	}

	loader, err := datasource.NewDuckDBLoader(appLogger)
	if err != nil {
		return fmt.Errorf("failed to create data loader: %w", err)
	}
	defer loader.Close()

	table, err := loader.Load(dataPath)
	if err != nil {
		return fmt.Errorf("failed to load market data: %w", err)
	}

	if err := backtester.LoadData(table); err != nil {
		return fmt.Errorf("failed to load market data into engine: %w", err)
	}

	smaStrategy := strategy.NewSMACrossover(
		int(cmd.Int("short-period")),
		int(cmd.Int("long-period")),
		cmd.String("symbol"),
		cmd.Float("position-size"),
	)

	bar := progressbar.Default(int64(table.Len()))
	onStep := optional.Some[engine.OnStepCallback](func(current, total int) {
		_ = bar.Set(current)
	})

	result, err := backtester.RunBacktest(smaStrategy, config.StartTime, config.EndTime, onStep)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	log.Printf("Final value: %.2f (return %.2f%%), trades: %d, max drawdown: %.2f%%",
		result.FinalValue, result.TotalReturn*100, result.TotalTrades, result.MaxDrawdown*100)

	report := backtester.RiskReport()
	log.Printf("Risk: vol %.4f, sharpe %.2f, historical VaR %.4f",
		report.Volatility, report.SharpeRatio, report.HistoricalVaR)

	if outputPath != "" {
		if err := types.WriteResult(outputPath, result); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}

		log.Printf("Result written to %s", outputPath)
	}

	return nil
}

// demoAction runs the SMA crossover strategy over a synthetic random-walk
// series, for trying the engine without real market data.
func demoAction(ctx context.Context, cmd *cli.Command) error {
	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	config := enginev1.DefaultConfig()

	backtester, err := enginev1.NewBacktestEngineV1(config, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create backtest engine: %w", err)
	}

	generatorConfig := datasource.DefaultGeneratorConfig()
	generatorConfig.Count = int(cmd.Int("steps"))
	generatorConfig.Trend = cmd.Float("trend")

	table := datasource.NewGenerator(cmd.Int("seed")).Generate(generatorConfig)
	if err := backtester.LoadData(table); err != nil {
		return fmt.Errorf("failed to load synthetic data: %w", err)
	}

	smaStrategy := strategy.NewSMACrossover(10, 30, strategy.DefaultSymbol, 1000)

	bar := progressbar.Default(int64(table.Len()))
	onStep := optional.Some[engine.OnStepCallback](func(current, total int) {
		_ = bar.Set(current)
	})

	result, err := backtester.RunBacktest(smaStrategy, optional.None[time.Time](), optional.None[time.Time](), onStep)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	log.Printf("Final value: %.2f (return %.2f%%), trades: %d, win rate %.2f%%",
		result.FinalValue, result.TotalReturn*100, result.TotalTrades, result.WinRate*100)

	if outputPath := cmd.String("output"); outputPath != "" {
		if err := types.WriteResult(outputPath, result); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}

	return nil
}

// schemaAction prints the JSON schema of the engine config.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	data, err := enginev1.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(string(data))

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Run a portfolio backtest over historical market data",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a backtest with the bundled SMA crossover strategy",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to market data (CSV or Parquet)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to engine config YAML",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path to write the result YAML",
					},
					&cli.TimestampFlag{
						Name:  "start",
						Usage: "Start date in `YYYY-MM-DD` format",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02", time.RFC3339},
						},
					},
					&cli.TimestampFlag{
						Name:  "end",
						Usage: "End date in `YYYY-MM-DD` format",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02", time.RFC3339},
						},
					},
					&cli.IntFlag{
						Name:  "short-period",
						Usage: "Short moving average period",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "long-period",
						Usage: "Long moving average period",
						Value: 30,
					},
					&cli.StringFlag{
						Name:  "symbol",
						Usage: "Instrument symbol to trade",
						Value: strategy.DefaultSymbol,
					},
					&cli.FloatFlag{
						Name:  "position-size",
						Usage: "Quantity per entry order",
						Value: 1000,
					},
				},
				Action: runAction,
			},
			{
				Name:  "demo",
				Usage: "Run the SMA crossover strategy over synthetic data",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "steps",
						Usage: "Number of synthetic bars to generate",
						Value: 252,
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "Random seed for the synthetic series",
						Value: 42,
					},
					&cli.FloatFlag{
						Name:  "trend",
						Usage: "Total drift across the series",
						Value: 0.1,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path to write the result YAML",
					},
				},
				Action: demoAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the engine config JSON schema",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
