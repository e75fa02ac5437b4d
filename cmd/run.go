package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai/gemini"
	"github.com/spigell/jd-matcher/internal/documents"
	"github.com/spigell/jd-matcher/internal/email"
	"github.com/spigell/jd-matcher/internal/logger"
	"github.com/spigell/jd-matcher/internal/notify"
	"github.com/spigell/jd-matcher/internal/pipeline"
	"github.com/spigell/jd-matcher/internal/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Match every job description against all consultant profiles and send the notifications",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("workbook", "", "export the batch summary to this .xlsx file")

	viper.BindPFlag("reports.workbook", runCmd.Flags().Lookup("workbook"))
}

// run is the main command for the cli.
func run(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig(viper.GetViper())
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jd-matcher", zap.String("version", version))

	// secrets carry json:"-" and never reach the log
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if err := config.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	comparator, err := newComparator(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating the comparator", zap.Error(err))
	}

	sender, err := newSender(ctx, config.Email, logger)
	if err != nil {
		logger.Fatal("creating the email transport", zap.Error(err))
	}

	loader := documents.NewLoader(logger)
	profiles := loader.LoadFolder(config.Folders.Profiles)
	if profiles.Len() == 0 {
		logger.Warn("no consultant profiles loaded, every job description will get a no-match notification",
			zap.String("folder", config.Folders.Profiles),
		)
	}

	jds := loader.LoadFolder(config.Folders.JD)
	if jds.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no job descriptions found"), zap.String("folder", config.Folders.JD))
		return
	}

	var opts []pipeline.Option
	if config.Reports.Workbook != "" {
		opts = append(opts, pipeline.WithWorkbook(config.Reports.Workbook))
	}

	driver := pipeline.NewDriver(pipeline.Deps{
		Comparator: comparator,
		Notifier:   notify.New(sender, config.Email.Sender, logger),
		Profiles:   profiles,
		Recipients: config.Recipients,
		Logger:     logger,
	}, os.Stdout, opts...)

	summary := driver.Run(ctx, jds)

	if ctx.Err() != nil {
		logger.Warn("batch interrupted", zap.String("run_id", summary.RunID), zap.Int("failed", summary.Failed()))
	}
}

func newComparator(ctx context.Context, config *Config, logger *zap.Logger) (*gemini.Comparator, error) {
	apiKey, err := resolveAPIKey(config.AI.Gemini)
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model)
	if err != nil {
		return nil, err
	}

	store := report.NewStore(config.Reports.Dir)

	return gemini.NewComparator(generator, store, logger, config.AI.Gemini.MaxLogLength), nil
}

func newSender(ctx context.Context, config *EmailConfig, logger *zap.Logger) (email.Sender, error) {
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case providerSES:
		return email.NewSESSender(ctx, config.SES.Region, logger)
	default:
		password, err := resolveSMTPPassword(config.SMTP)
		if err != nil {
			return nil, err
		}

		sender := email.NewSMTPSender(email.SMTPConfig{
			Host:     config.SMTP.Host,
			Port:     config.SMTP.Port,
			Username: config.SMTP.Username,
			Password: password,
		}, logger)

		if !sender.Configured() {
			logger.Warn("smtp password is not set, emails will not be sent",
				zap.String("hint", "set SMTP_PASSWORD or SMTP_PASSWORD_FILE"),
			)
		}
		return sender, nil
	}
}
