package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/spigell/jd-matcher/internal/notify"
	"github.com/spigell/jd-matcher/internal/secrets"
)

const (
	providerGemini = "gemini"
	providerSMTP   = "smtp"
	providerSES    = "ses"
)

type Config struct {
	Folders    *FoldersConfig    `mapstructure:"folders"`
	Reports    *ReportsConfig    `mapstructure:"reports"`
	Recipients notify.Recipients `mapstructure:"recipients"`
	AI         *AIConfig         `mapstructure:"ai"`
	Email      *EmailConfig      `mapstructure:"email"`
}

type FoldersConfig struct {
	JD       string `mapstructure:"jd"`
	Profiles string `mapstructure:"profiles"`
}

type ReportsConfig struct {
	Dir      string `mapstructure:"dir"`
	Workbook string `mapstructure:"workbook"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key" json:"-"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type EmailConfig struct {
	Provider string      `mapstructure:"provider"`
	Sender   string      `mapstructure:"sender"`
	SMTP     *SMTPConfig `mapstructure:"smtp"`
	SES      *SESConfig  `mapstructure:"ses"`
}

type SMTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password" json:"-"`
	PasswordFile string `mapstructure:"password-file"`
}

type SESConfig struct {
	Region string `mapstructure:"region"`
}

var defaults = map[string]any{
	"folders.jd":               "data/jd",
	"folders.profiles":         "data/profiles",
	"reports.dir":              "reports",
	"reports.workbook":         "",
	"ai.provider":              providerGemini,
	"ai.gemini.api-key":        "",
	"ai.gemini.api-key-file":   "",
	"ai.gemini.model":          "gemini-2.0-flash",
	"ai.gemini.max-log-length": 200,
	"email.provider":           providerSMTP,
	"email.sender":             "",
	"email.smtp.host":          "smtp.gmail.com",
	"email.smtp.port":          587,
	"email.smtp.username":      "",
	"email.smtp.password":      "",
	"email.smtp.password-file": "",
	"email.ses.region":         "us-east-1",
	"recipients.ar-requestor":  "",
	"recipients.recruiter":     "",
}

var envBindings = map[string][]string{
	"folders.jd":               {"JD_FOLDER"},
	"folders.profiles":         {"PROFILES_FOLDER"},
	"reports.dir":              {"REPORTS_DIR"},
	"reports.workbook":         {"REPORTS_WORKBOOK"},
	"recipients.ar-requestor":  {"AR_REQUESTOR_EMAIL", "ar_requestor_email"},
	"recipients.recruiter":     {"RECRUITER_EMAIL", "recruiter_email"},
	"ai.provider":              {"AI_PROVIDER"},
	"ai.gemini.api-key":        {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	"ai.gemini.api-key-file":   {"GEMINI_API_KEY_FILE"},
	"ai.gemini.model":          {"GEMINI_MODEL"},
	"email.provider":           {"EMAIL_PROVIDER"},
	"email.sender":             {"SENDER_EMAIL"},
	"email.smtp.host":          {"SMTP_SERVER"},
	"email.smtp.port":          {"SMTP_PORT"},
	"email.smtp.username":      {"SMTP_USERNAME"},
	"email.smtp.password":      {"SMTP_PASSWORD"},
	"email.smtp.password-file": {"SMTP_PASSWORD_FILE"},
	"email.ses.region":         {"AWS_REGION"},
}

func setDefaults(v *viper.Viper) error {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("binding %s environment variables: %w", strings.Join(envs, ", "), err)
		}
	}
	return nil
}

func getConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	err := v.Unmarshal(&config)
	if err != nil {
		return config, err
	}
	if config == nil {
		return nil, errors.New("config is required")
	}

	if config.Folders == nil {
		config.Folders = &FoldersConfig{}
	}
	if config.Reports == nil {
		config.Reports = &ReportsConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Email == nil {
		config.Email = &EmailConfig{}
	}
	if config.Email.SMTP == nil {
		config.Email.SMTP = &SMTPConfig{}
	}
	if config.Email.SES == nil {
		config.Email.SES = &SESConfig{}
	}

	return config, nil
}

// Validate checks everything a batch run needs except secrets.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Recipients.ARRequestor) == "" {
		errs = append(errs, errors.New("recipients.ar-requestor is required (AR_REQUESTOR_EMAIL)"))
	}
	if strings.TrimSpace(c.Recipients.Recruiter) == "" {
		errs = append(errs, errors.New("recipients.recruiter is required (RECRUITER_EMAIL)"))
	}

	if provider := strings.ToLower(strings.TrimSpace(c.AI.Provider)); provider != "" && provider != providerGemini {
		errs = append(errs, fmt.Errorf("unsupported ai provider: %s", c.AI.Provider))
	}

	switch strings.ToLower(strings.TrimSpace(c.Email.Provider)) {
	case "", providerSMTP:
		if strings.TrimSpace(c.Email.SMTP.Host) == "" {
			errs = append(errs, errors.New("email.smtp.host is required (SMTP_SERVER)"))
		}
		if c.Email.SMTP.Port <= 0 || c.Email.SMTP.Port > 65535 {
			errs = append(errs, fmt.Errorf("email.smtp.port is invalid: %d", c.Email.SMTP.Port))
		}
	case providerSES:
		if strings.TrimSpace(c.Email.SES.Region) == "" {
			errs = append(errs, errors.New("email.ses.region is required (AWS_REGION)"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported email provider: %s", c.Email.Provider))
	}

	if strings.TrimSpace(c.Email.Sender) == "" {
		errs = append(errs, errors.New("email.sender is required (SENDER_EMAIL)"))
	}

	return errors.Join(errs...)
}

func resolveAPIKey(c *GeminiConfig) (string, error) {
	key, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: c.APIKey,
		File:  c.APIKeyFile,
	})
	if err != nil {
		return "", fmt.Errorf("%w (set GOOGLE_API_KEY, ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}
	return key, nil
}

// resolveSMTPPassword returns an empty password when none is configured.
func resolveSMTPPassword(c *SMTPConfig) (string, error) {
	return secrets.LoadOptional(secrets.Source{
		Name:  "smtp password",
		Value: c.Password,
		File:  c.PasswordFile,
	})
}
