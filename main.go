package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"

	"triage-scheduler/calendar"
	"triage-scheduler/config"
	"triage-scheduler/formatter"
	"triage-scheduler/metrics"
	"triage-scheduler/models"
	"triage-scheduler/pairing"
	"triage-scheduler/parser"
	"triage-scheduler/reconcile"
	"triage-scheduler/scheduler"
	"triage-scheduler/workdays"
)

const dateLayout = "2006-01-02"

func main() {
	// Define flags
	csvFile := flag.String("csvfile", "", "Roster CSV file (overrides TRIAGE_CSVFILE)")
	holidayFile := flag.String("holidays", "", "Holiday date file (overrides TRIAGE_HOLIDAYS_FILE)")
	calendarConfig := flag.String("calendar-config", "", "Calendar settings YAML file (overrides TRIAGE_CALENDAR_CONFIG)")
	startFlag := flag.String("start", "", "Start date YYYY-MM-DD (default: today)")
	endFlag := flag.String("end", "", "End date YYYY-MM-DD (default: start + 90 days)")
	startAt := flag.Int("start-at", 0, "Rotation index to start from (see -list-teams)")
	listTeams := flag.Bool("list-teams", false, "Print the team rotation with indexes and exit")
	mkTriage := flag.Bool("mktriage", false, "Create missing triage duty events for the date range")
	mkHandoff := flag.Bool("mkhandoff", false, "Create/correct hand-off events from existing duty events")
	dryRun := flag.Bool("dryrun", false, "Show what would be done but make no changes")
	debug := flag.Bool("debug", false, "Enable debug logging")
	metricsAddr := flag.String("metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	pushGateway := flag.String("push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	wait := flag.Bool("wait", false, "Keep process running after completion to allow for metric scraping")

	// Parse command-line flags
	flag.Parse()

	level := hclog.Info
	if *debug {
		level = hclog.Debug
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "triage",
		Level: level,
	})

	// Start metrics server if address provided
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			logger.Info("metrics server listening", "addr", *metricsAddr+"/metrics")
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	if !*listTeams && !*mkTriage && !*mkHandoff {
		fmt.Println("Error: one of -list-teams, -mktriage or -mkhandoff is required")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(config.Options{
		CSVFile:        *csvFile,
		HolidayFile:    *holidayFile,
		CalendarConfig: *calendarConfig,
	})
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	start, end, err := resolveRange(*startFlag, *endFlag, cfg.Timezone)
	if err != nil {
		logger.Error("invalid date range", "error", err)
		os.Exit(1)
	}

	metrics.ResetGauges()

	// Every mode needs the roster: pairing for -list-teams and -mktriage,
	// manager duty days for -mkhandoff.
	roster, err := loadRoster(cfg.CSVFile)
	if err != nil {
		metrics.ParserErrorsTotal.WithLabelValues("roster").Inc()
		logger.Error("failed to load roster", "error", err)
		os.Exit(1)
	}

	if *listTeams {
		teams, err := scheduler.Teams(roster, *startAt)
		if err != nil {
			logger.Error("cannot list teams", "error", err)
			os.Exit(1)
		}
		fmt.Print(formatter.FormatTeams(teams))
		return
	}

	client := calendar.NewHTTPClient(calendar.HTTPConfig{
		FeedURL:        cfg.Calendar.FeedURL,
		CollectionURL:  cfg.Calendar.CollectionURL,
		Username:       cfg.Calendar.Username,
		Password:       cfg.Calendar.Password,
		DutyPattern:    cfg.DutyPattern,
		HandoffPattern: cfg.HandoffPattern,
		Location:       cfg.Timezone,
	}, logger)

	recon := &reconcile.Reconciler{
		Cal:        client,
		MODs:       scheduler.NewMODResolver(roster),
		Log:        logger,
		Location:   cfg.Location,
		Categories: cfg.Categories,
		Timezone:   cfg.Timezone,
		DryRun:     *dryRun,
	}

	began := time.Now()

	if *mkTriage {
		logger.Info("attempting to make triage events from roster")
		if err := runMkTriage(logger, cfg, recon, client, roster, *startAt, start, end); err != nil {
			logger.Error("mktriage failed", "error", err)
			os.Exit(1)
		}
	}

	if *mkHandoff {
		logger.Info("attempting to make hand-off events from existing duty events")
		if err := runMkHandoff(recon, client, start, end); err != nil {
			logger.Error("mkhandoff failed", "error", err)
			os.Exit(1)
		}
	}

	metrics.ReconcileDurationSeconds.Observe(time.Since(began).Seconds())

	// Handle metrics pushing or waiting
	if *pushGateway != "" {
		jobName := "triage_scheduler"
		if err := push.New(*pushGateway, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			logger.Error("error pushing to Pushgateway", "error", err)
		} else {
			logger.Info("metrics successfully pushed to Pushgateway")
		}
	}

	if *wait && *metricsAddr != "" {
		logger.Info("process kept alive for metric scraping, press Ctrl+C to exit")
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
	} else if *metricsAddr != "" && *pushGateway == "" {
		// Small delay to allow final scrape if not waiting explicitly
		// but typically batch jobs should use pushgateway or wait
		time.Sleep(100 * time.Millisecond)
	}
}

func runMkTriage(logger hclog.Logger, cfg config.Config, recon *reconcile.Reconciler, client calendar.Client, roster []models.StaffMember, startAt int, start, end time.Time) error {
	holidays, err := loadHolidays(cfg.HolidayFile, cfg.Timezone)
	if err != nil {
		metrics.ParserErrorsTotal.WithLabelValues("holidays").Inc()
		return err
	}

	days := workdays.Workdays(start, end, workdays.NewHolidaySet(holidays))
	if len(days) == 0 {
		logger.Warn("no business days in range",
			"start", start.Format(dateLayout), "end", end.Format(dateLayout))
		return nil
	}
	metrics.WorkdaysInRange.Set(float64(len(days)))

	entries, err := scheduler.Build(roster, startAt, days)
	if err != nil {
		return err
	}
	metrics.RotationLength.Set(float64(len(pairing.NewRotation(roster))))
	logger.Debug("planned schedule", "entries", len(entries))

	index, err := reconcile.BuildIndex(client, days[0], days[len(days)-1])
	if err != nil {
		return err
	}
	return recon.SyncDutyEvents(entries, index)
}

func runMkHandoff(recon *reconcile.Reconciler, client calendar.Client, start, end time.Time) error {
	index, err := reconcile.BuildIndex(client, start, end)
	if err != nil {
		return err
	}
	return recon.SyncHandoffEvents(index)
}

func loadRoster(path string) ([]models.StaffMember, error) {
	if path == "" {
		return nil, fmt.Errorf("missing roster file; use -csvfile or TRIAGE_CSVFILE")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ParseRoster(f)
}

func loadHolidays(path string, loc *time.Location) ([]time.Time, error) {
	if path == "" {
		return nil, fmt.Errorf("missing holiday file; use -holidays or TRIAGE_HOLIDAYS_FILE")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ParseHolidays(f, loc)
}

func resolveRange(startValue, endValue string, loc *time.Location) (time.Time, time.Time, error) {
	now := time.Now().In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if startValue != "" {
		parsed, err := time.ParseInLocation(dateLayout, startValue, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing -start: %w", err)
		}
		start = parsed
	}

	end := start.AddDate(0, 0, 90)
	if endValue != "" {
		parsed, err := time.ParseInLocation(dateLayout, endValue, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing -end: %w", err)
		}
		end = parsed
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s",
			end.Format(dateLayout), start.Format(dateLayout))
	}
	return start, end, nil
}
