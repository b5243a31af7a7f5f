package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pontaj/internal/analyzer"
	"github.com/pontaj/internal/config"
	"github.com/pontaj/internal/history"
	"github.com/pontaj/internal/logger"
	"github.com/pontaj/internal/parser"
	"github.com/pontaj/internal/storage"
)

// needsDB marks commands that open the history database
const needsDB = "db"

var (
	cfgPath         string
	cfg             *config.Config
	log             *zap.Logger
	db              *storage.Database
	parseOpts       parser.Options
	analyzerService *analyzer.Analyzer
)

var rootCmd = &cobra.Command{
	Use:   "pontaj",
	Short: "Attendance report analyzer",
	Long: `Pontaj reads the attendance reports exported by badge terminals and turns
them into daily, weekly and monthly worked-hours tables, keeping a history of
every imported report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err = logger.NewLogger(cfg.Log)
		if err != nil {
			return err
		}

		parseOpts, err = analyzer.Options(cfg, log)
		if err != nil {
			return err
		}

		analyzerService = analyzer.New(parseOpts, nil, nil)
		if cmd.Annotations[needsDB] != "" {
			return openHistory()
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if log != nil {
			_ = log.Sync()
		}
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", fmt.Sprintf("config file (default $%s or ~/.pontaj.yaml)", config.EnvConfigPath))

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(visualizeCmd)
	rootCmd.AddCommand(sheetsCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}

// openHistory opens the database and rebuilds the analyzer around it
func openHistory() error {
	if db != nil {
		return nil
	}
	var err error
	db, err = storage.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	analyzerService = analyzer.New(parseOpts, history.NewStore(db, log), db)
	log.Debug("database opened", zap.String("path", cfg.DatabasePath))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
