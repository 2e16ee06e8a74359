package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teryaq/coldtrack/pkg/client"
	"github.com/teryaq/coldtrack/pkg/config"
	"github.com/teryaq/coldtrack/pkg/log"
	"github.com/teryaq/coldtrack/pkg/routing"
	"github.com/teryaq/coldtrack/pkg/session"
	"github.com/teryaq/coldtrack/pkg/storage"
	"github.com/teryaq/coldtrack/pkg/types"
)

var trackCmd = &cobra.Command{
	Use:   "track <order-id>",
	Short: "Run a live tracking session for an order",
	Long: `Track starts one live tracking session: a 2-second telemetry poll, a
1-second excursion countdown, throttled route computation, and a slow
notification refresh. Each rebuilt view state is printed as one line
until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		destFlag, _ := cmd.Flags().GetString("destination")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		log.Init(log.Config{Level: log.Level(cfg.Log.Level), JSONOutput: cfg.Log.JSON})

		destination, err := parseDestination(destFlag)
		if err != nil {
			return err
		}

		backend, err := client.New(client.Config{
			BaseURL: cfg.Backend.BaseURL,
			Token:   cfg.Backend.Token,
			Timeout: cfg.Tracking.HTTPTimeout.Std(),
		})
		if err != nil {
			return err
		}

		store, err := storage.NewBoltStore(cfg.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		s, err := session.New(session.Options{
			OrderID:       args[0],
			NationalID:    cfg.Backend.NationalID,
			Destination:   destination,
			Telemetry:     backend,
			Stability:     backend,
			Notifications: backend,
			Routes:        routing.NewClient(cfg.Routing.BaseURL, cfg.Tracking.HTTPTimeout.Std()),
			Store:         store,
			Tracking:      cfg.Tracking,
		})
		if err != nil {
			return err
		}

		if err := s.Start(context.Background()); err != nil {
			return err
		}
		defer s.Stop()

		sub := s.Subscribe()
		defer s.Unsubscribe(sub)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		for {
			select {
			case view := <-sub:
				printView(view)
			case <-sigCh:
				fmt.Println("\nStopping tracking session...")
				return nil
			}
		}
	},
}

func init() {
	trackCmd.Flags().String("config", "coldtrack.yml", "Path to config file")
	trackCmd.Flags().String("destination", "", "Delivery destination as lat,lon")
}

// parseDestination parses "lat,lon"; empty input means no known
// destination and no route computation.
func parseDestination(s string) (*types.GeoPoint, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("destination must be lat,lon")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude: %w", err)
	}
	return &types.GeoPoint{Lat: lat, Lon: lon}, nil
}

func printView(view *types.TrackingViewState) {
	position := "unknown"
	if view.DriverPosition != nil {
		position = fmt.Sprintf("%.5f,%.5f", view.DriverPosition.Lat, view.DriverPosition.Lon)
	}

	line := fmt.Sprintf("pos=%s temp=%s eta=%s stability=%s notifications=%d",
		position, view.TemperatureLabel, view.ETALabel,
		view.RemainingStabilityLabel, len(view.Notifications))
	if view.InExcursion {
		line += " EXCURSION"
	}
	if view.BudgetExceeded {
		line += " BUDGET-EXCEEDED"
	}
	if view.SoftError != "" {
		line += " (" + view.SoftError + ")"
	}
	fmt.Println(line)
}
