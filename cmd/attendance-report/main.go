package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/attendance-report/internal/approval"
	"github.com/username/attendance-report/internal/calendar"
	"github.com/username/attendance-report/internal/config"
	"github.com/username/attendance-report/internal/entry"
	"github.com/username/attendance-report/internal/report"
	"github.com/username/attendance-report/internal/store"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "attendance-report",
		Short: "Daily attendance entries and monthly work reports",
		Long:  "Collect daily attendance entries, maintain the company calendar and build monthly work reports",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger = initFileLogger(cfg.Log.File, cfg.Log.Level)
			} else {
				initLogger() // Default console logger
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: config.yaml in ., $HOME/.attendance-report, /etc/attendance-report)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(dailyCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(entryCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds every service a command may need
type app struct {
	cfg       *config.Config
	store     *store.Store
	calendar  *calendar.Service
	reports   *report.Aggregator
	entries   *entry.Service
	approvals *approval.Service
	authority *approval.Authority
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("Failed to close store", zap.Error(err))
	}
}

func initializeApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := store.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	holidays, err := initializeHolidayCalendar(cfg)
	if err != nil {
		st.Close()
		return nil, err
	}

	calSvc := calendar.NewService(st, holidays, logger)
	rules := report.WorkRules{
		ScheduledStart:    cfg.Attendance.GetScheduledStart(),
		ScheduledEnd:      cfg.Attendance.GetScheduledEnd(),
		DailyHours:        cfg.Attendance.DailyHours,
		MainTitles:        cfg.Attendance.MainTitles,
		OtherSummaryLimit: cfg.Attendance.OtherSummaryLimit,
	}

	return &app{
		cfg:       cfg,
		store:     st,
		calendar:  calSvc,
		reports:   report.NewAggregator(st, calSvc, rules, logger),
		entries:   entry.NewService(st, logger),
		approvals: approval.NewService(st, logger),
		authority: approval.NewAuthority(cfg.Approvals, logger),
	}, nil
}

func initializeHolidayCalendar(cfg *config.Config) (calendar.HolidayCalendar, error) {
	switch cfg.Calendar.Type {
	case "", "builtin":
		logger.Debug("Using built-in Japanese holiday rules")
		return calendar.NewJapaneseCalendar(), nil

	case "holidays-api":
		logger.Info("Using holiday API calendar", zap.String("url", cfg.Calendar.APIURL))
		primaryCal := calendar.NewAPICalendar(cfg.Calendar.APIURL, cfg.Calendar.GetCacheTTL(), logger)
		if cfg.Calendar.FallbackFile == "" {
			return primaryCal, nil
		}

		fallbackCal := calendar.NewFileCalendar(cfg.Calendar.FallbackFile, logger)
		compositeCal := calendar.NewCompositeCalendar(primaryCal, fallbackCal, logger)

		// Load fallback calendar
		if err := compositeCal.LoadFallback(); err != nil {
			logger.Warn("Failed to load fallback calendar, continuing with API only",
				zap.Error(err))
		}
		return compositeCal, nil

	default:
		return nil, fmt.Errorf("unknown calendar type: %s", cfg.Calendar.Type)
	}
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) *zap.Logger {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core)
}
