package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/yaoapp/kun/exception"
	"github.com/yaoapp/kun/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Conf the current config
var Conf Config

// LogOutput the log output
var LogOutput io.WriteCloser

func init() {
	Init()
}

// Init setting
func Init() {
	filename, _ := filepath.Abs(filepath.Join(".", ".env"))
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		Conf = Load()
	} else {
		Conf = LoadFrom(filename)
	}

	if Conf.Mode == "development" {
		Development()
		return
	}
	Production()
}

// LoadFrom load the config from the given env file, the env file overrides the process environment
func LoadFrom(envfile string) Config {
	file, err := filepath.Abs(envfile)
	if err != nil {
		return Load()
	}

	godotenv.Overload(file)
	return Load()
}

// Load the config
func Load() Config {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		exception.New("Can't read config %s", 500, err.Error()).Throw()
	}

	cfg.Root, _ = filepath.Abs(cfg.Root)
	if cfg.Script.Timeout < 0 {
		cfg.Script.Timeout = 0
	}
	return cfg
}

// Production set the production mode
func Production() {
	os.Setenv("HAL_ENV", "production")
	Conf.Mode = "production"
	log.SetLevel(log.InfoLevel)
	setFormatter()
	ReloadLog()
}

// Development set the development mode
func Development() {
	os.Setenv("HAL_ENV", "development")
	Conf.Mode = "development"
	log.SetLevel(log.TraceLevel)
	setFormatter()
	ReloadLog()
}

func setFormatter() {
	log.SetFormatter(log.TEXT)
	if Conf.LogMode == "JSON" {
		log.SetFormatter(log.JSON)
	}
}

// ReloadLog reopen the log output
func ReloadLog() {
	CloseLog()
	OpenLog()
}

// OpenLog open the log output. Logs are discarded when the log directory does not exist.
func OpenLog() {
	if Conf.Log == "" {
		Conf.Log = filepath.Join(Conf.Root, "logs", "hal.log")
	}

	if !filepath.IsAbs(Conf.Log) {
		Conf.Log = filepath.Join(Conf.Root, Conf.Log)
	}

	logfile, err := filepath.Abs(Conf.Log)
	if err != nil {
		return
	}

	if _, err := os.Stat(filepath.Dir(logfile)); errors.Is(err, os.ErrNotExist) {
		devnull, _ := os.OpenFile(os.DevNull, os.O_WRONLY, 0666)
		LogOutput = devnull
		log.SetOutput(LogOutput)
		return
	}

	LogOutput = &lumberjack.Logger{
		Filename:   logfile,
		MaxSize:    Conf.LogMaxSize, // megabytes
		MaxBackups: Conf.LogMaxBackups,
		MaxAge:     Conf.LogMaxAge, // days
		LocalTime:  Conf.LogLocalTime,
	}
	log.SetOutput(LogOutput)
}

// CloseLog close the log output
func CloseLog() {
	if LogOutput != nil {
		err := LogOutput.Close()
		LogOutput = nil
		if err != nil {
			log.Error("close log: %s", err.Error())
		}
	}
}

// Console send the logs to stderr, used by the CLI in development mode
func Console() {
	CloseLog()
	log.SetOutput(os.Stderr)
}
