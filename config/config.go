// Package config is responsible for setting the program config from
// the config file and command-line arguments
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	"lectern/internal/ui"
)

const Version = "v0.3.0"

var appCfg *Settings

var once sync.Once

var errInitFailed = errors.New(
	"unable to initialise lectern settings from the configuration file",
)

var (
	configDir      = "lectern"
	configFileName = "config.yml"
	dbFileName     = "lectern.db"
	logFileName    = "lectern.log"
	dbFilePath     string
	configFilePath string
	logFilePath    string
)

const (
	defaultDailyGoal = 30

	// MinDailyGoal and MaxDailyGoal bound the configurable daily
	// reading goal in minutes.
	MinDailyGoal = 5
	MaxDailyGoal = 300
)

const (
	configDailyGoal   = "daily_goal"
	configNotify      = "notify"
	configTheme       = "theme"
	configWeeklyReset = "weekly_reset"
	configSessionCmd  = "session_cmd"
	configDarkTheme   = "dark_theme"
)

// Settings represents the program configuration derived from the config
// file and command-line arguments.
type Settings struct {
	PathToConfig string `json:"path_to_config"`
	PathToDB     string `json:"path_to_db"`
	Theme        string `json:"theme"`
	SessionCmd   string `json:"session_cmd"`
	DailyGoal    int    `json:"daily_goal"`
	Notify       bool   `json:"notify"`
	WeeklyReset  bool   `json:"weekly_reset"`
	DarkTheme    bool   `json:"dark_theme"`
}

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

// InitializePaths resolves the XDG paths for the config file, the
// database, and the log file. LECTERN_ENV switches to suffixed file
// names so that tests and development never touch real data.
func InitializePaths() {
	lecternEnv := strings.TrimSpace(os.Getenv("LECTERN_ENV"))
	if lecternEnv != "" {
		configFileName = fmt.Sprintf("config_%s.yml", lecternEnv)
		dbFileName = fmt.Sprintf("lectern_%s.db", lecternEnv)
		logFileName = fmt.Sprintf("lectern_%s.log", lecternEnv)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dataDir, err := xdg.DataFile(configDir)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath = filepath.Join(dataDir, dbFileName)

	logFilePath = filepath.Join(dataDir, "log", logFileName)
}

// initAppConfig reads the config file, creating it with defaults on
// first run.
func initAppConfig() error {
	viper.SetConfigName(strings.TrimSuffix(configFileName, ".yml"))
	viper.SetConfigType("yaml")
	viper.AddConfigPath(filepath.Dir(configFilePath))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return viper.WriteConfigAs(configFilePath)
		}

		return err
	}

	return nil
}

func setDefaults() {
	viper.SetDefault(configDailyGoal, defaultDailyGoal)
	viper.SetDefault(configNotify, true)
	viper.SetDefault(configTheme, string(ui.Day))
	viper.SetDefault(configWeeklyReset, false)
	viper.SetDefault(configSessionCmd, "")
	viper.SetDefault(configDarkTheme, true)
}

func setAppConfig(ctx *cli.Context) {
	appCfg = &Settings{
		PathToConfig: configFilePath,
		PathToDB:     dbFilePath,
	}

	// set from config file
	appCfg.DailyGoal = viper.GetInt(configDailyGoal)
	appCfg.Notify = viper.GetBool(configNotify)
	appCfg.Theme = viper.GetString(configTheme)
	appCfg.WeeklyReset = viper.GetBool(configWeeklyReset)
	appCfg.SessionCmd = viper.GetString(configSessionCmd)

	if viper.IsSet(configDarkTheme) {
		appCfg.DarkTheme = viper.GetBool(configDarkTheme)
	} else {
		appCfg.DarkTheme = true
	}

	if appCfg.DailyGoal == 0 {
		appCfg.DailyGoal = defaultDailyGoal
	}

	if !ui.ValidTheme(appCfg.Theme) {
		appCfg.Theme = string(ui.Day)
	}

	// set from command-line arguments
	if ctx.Bool("disable-notification") {
		appCfg.Notify = false
	}

	if ctx.String("session-cmd") != "" {
		appCfg.SessionCmd = ctx.String("session-cmd")
	}

	if ctx.String("theme") != "" && ui.ValidTheme(ctx.String("theme")) {
		appCfg.Theme = ctx.String("theme")
	}
}

// ClampGoal bounds a daily goal value to the supported range. Range
// enforcement is a caller concern, not the stats tracker's.
func ClampGoal(minutes int) int {
	if minutes < MinDailyGoal {
		return MinDailyGoal
	}

	if minutes > MaxDailyGoal {
		return MaxDailyGoal
	}

	return minutes
}

// Get initializes and returns the app configuration. This
// initialization is done just once no matter how many times it is
// called.
func Get(ctx *cli.Context) *Settings {
	once.Do(func() {
		if err := initAppConfig(); err != nil {
			pterm.Error.Printfln("%s: %s", errInitFailed.Error(), err.Error())
			os.Exit(1)
		}

		setAppConfig(ctx)
	})

	return appCfg
}
