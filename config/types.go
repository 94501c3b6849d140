package config

import "time"

// Config the hal runtime config
type Config struct {
	Mode          string `json:"mode,omitempty" env:"HAL_ENV" envDefault:"production"`          // production | development
	Root          string `json:"root,omitempty" env:"HAL_ROOT" envDefault:"."`                  // Working root, scripts are resolved from here
	Log           string `json:"log,omitempty" env:"HAL_LOG"`                                   // Log file, default <root>/logs/hal.log
	LogMode       string `json:"log_mode,omitempty" env:"HAL_LOG_MODE" envDefault:"TEXT"`       // JSON | TEXT
	LogMaxSize    int    `json:"log_max_size,omitempty" env:"HAL_LOG_MAX_SIZE" envDefault:"20"` // megabytes
	LogMaxAge     int    `json:"log_max_age,omitempty" env:"HAL_LOG_MAX_AGE" envDefault:"7"`    // days
	LogMaxBackups int    `json:"log_max_backups,omitempty" env:"HAL_LOG_MAX_BACKUPS" envDefault:"3"`
	LogLocalTime  bool   `json:"log_local_time,omitempty" env:"HAL_LOG_LOCAL_TIME" envDefault:"true"`
	Script        Script `json:"script,omitempty"`
}

// Script the script evaluation config
type Script struct {
	Timeout   time.Duration `json:"timeout,omitempty" env:"HAL_SCRIPT_TIMEOUT" envDefault:"30s"`      // 0 disables the evaluation deadline
	Transform bool          `json:"transform,omitempty" env:"HAL_SCRIPT_TRANSFORM" envDefault:"true"` // Transform TypeScript sources with esbuild before evaluation
}
