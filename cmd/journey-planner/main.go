package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	lib "github.com/theoremus-urban-solutions/journey-planner"
	"github.com/theoremus-urban-solutions/journey-planner/config"
	"github.com/theoremus-urban-solutions/journey-planner/journey"
	"github.com/theoremus-urban-solutions/journey-planner/timetable"
)

func main() {
	mode := flag.String("mode", "serve", "serve|route|search|build|cleanup")
	from := flag.String("from", "", "comma-separated origin stop ids (route mode)")
	to := flag.String("to", "", "comma-separated destination stop ids (route mode)")
	departure := flag.String("departure", "", "departure time HH:MM or HH:MM:SS (route mode, default now)")
	query := flag.String("query", "", "stop name query (search mode)")
	gtfsZip := flag.String("gtfs", "", "GTFS static zip to convert (build mode)")
	flag.Parse()

	_ = godotenv.Load()
	lib.InitLogging()
	if err := config.LoadAppConfig(); err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg := config.Config

	if *mode == "build" {
		if *gtfsZip == "" {
			log.Fatal("build mode requires -gtfs")
		}
		if err := buildAssets(*gtfsZip, cfg); err != nil {
			log.Fatalf("build: %v", err)
		}
		return
	}

	planner := lib.NewPlanner(cfg)
	defer planner.Close()
	ctx := context.Background()

	switch *mode {
	case "serve":
		if err := planner.Initialize(ctx); err != nil {
			log.Fatalf("initialize: %v", err)
		}
		planner.PreloadCache(ctx)
		lib.StartServer(planner, cfg.Server.Port)
		lib.HandleGracefulShutdown()
	case "route":
		origins := mustParseIDs(*from, "-from")
		destinations := mustParseIDs(*to, "-to")
		dep := -1
		if *departure != "" {
			dep = lib.ParseClock(*departure)
			if dep < 0 {
				log.Fatalf("invalid -departure %q", *departure)
			}
		}
		results, err := planner.ComputeJourneys(ctx, origins, destinations, dep)
		if err != nil {
			log.Fatalf("route: %v", err)
		}
		printJourneys(results)
	case "search":
		stops, err := planner.SearchStops(ctx, *query)
		if err != nil {
			log.Fatalf("search: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(stops)
	case "cleanup":
		removed, err := planner.CleanupExpiredCache()
		if err != nil {
			log.Fatalf("cleanup: %v", err)
		}
		fmt.Printf("removed %d expired entries\n", removed)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func buildAssets(gtfsZip string, cfg config.AppConfig) error {
	data, err := timetable.BuildFromGTFSZip(gtfsZip)
	if err != nil {
		return err
	}
	if err := timetable.WriteStops(data.Stops, cfg.Dataset.StopsPath); err != nil {
		return err
	}
	if err := timetable.WriteRoutes(data.Routes, data.Transfers, cfg.Dataset.RoutesPath); err != nil {
		return err
	}
	log.Printf("assets written: %d stops, %d routes, %d transfers", len(data.Stops), len(data.Routes), len(data.Transfers))
	return nil
}

func mustParseIDs(s, flagName string) []int {
	if s == "" {
		log.Fatalf("route mode requires %s", flagName)
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			log.Fatalf("invalid stop id %q in %s", part, flagName)
		}
		out = append(out, id)
	}
	return out
}

func printJourneys(results []journey.Result) {
	if len(results) == 0 {
		fmt.Println("no itinerary found")
		return
	}
	for i, res := range results {
		fmt.Printf("journey %d: %s -> %s (%d min, %d legs)\n",
			i+1, lib.FormatClock(res.DepartureSeconds), lib.FormatClock(res.ArrivalSeconds),
			res.DurationMinutes, len(res.Legs))
		for _, leg := range res.Legs {
			label := leg.RouteName
			if leg.Walking {
				label = "walk"
			}
			fmt.Printf("  %s  %-12s %s -> %s\n",
				lib.FormatClock(leg.DepartureSeconds), label, leg.FromStopName, leg.ToStopName)
		}
	}
}
