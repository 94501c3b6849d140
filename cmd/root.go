package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yaoapp/hal/config"
	"github.com/yaoapp/hal/share"
	"github.com/yaoapp/kun/exception"
)

var appPath string
var envFile string

var lang = os.Getenv("HAL_LANG")
var langs = map[string]string{
	"Script host for exported Go classes":   "Go 导出类脚本运行环境",
	"One or more arguments are not correct": "参数错误",
	"Working directory":                     "指定工作目录",
	"Environment file":                      "指定环境变量文件",
	"Run a script":                          "运行脚本",
	"Show exported classes":                 "显示导出类",
	"Show version":                          "显示当前版本号",
	"Print all version information":         "显示全部版本信息",
	"Silent mode":                           "静默模式",
	"Re-run the script when it changes":     "文件变更时重新运行",
	"Evaluation timeout":                    "脚本执行超时时间",
	"Output format: text, json, yaml, toml": "输出格式: text, json, yaml, toml",
	"Show object statistics":                "显示对象统计",
	"Fatal: %s":                             "失败: %s",
	"Not enough arguments":                  "参数错误: 缺少参数",
	"Run: %s":                               "运行: %s",
	"%s Result":                             "%s 返回结果",
	"Unknown format: %s":                    "未知格式: %s",
	"✨DONE✨":                                "✨完成✨",
}

// L translate the words when HAL_LANG is set
func L(words string) string {
	if lang == "" {
		return words
	}

	if trans, has := langs[words]; has {
		return trans
	}
	return words
}

var rootCmd = &cobra.Command{
	Use:   share.BUILDNAME,
	Short: L("Script host for exported Go classes"),
	Long:  L("Script host for exported Go classes"),
	Args:  cobra.MinimumNArgs(1),
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stderr, L("One or more arguments are not correct"), args)
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(
		versionCmd,
		inspectCmd,
		runCmd,
	)
	rootCmd.PersistentFlags().StringVarP(&appPath, "app", "a", "", L("Working directory"))
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", "", L("Environment file"))
}

// Execute the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Boot load the config of the working directory
func Boot() {
	root := config.Conf.Root
	if appPath != "" {
		r, err := filepath.Abs(appPath)
		if err != nil {
			exception.New("Root error %s", 500, err.Error()).Throw()
		}
		root = r
	}
	if envFile != "" {
		config.Conf = config.LoadFrom(envFile)
	} else {
		config.Conf = config.LoadFrom(filepath.Join(root, ".env"))
	}
	if appPath != "" {
		config.Conf.Root = root
	}

	if config.Conf.Mode == "production" {
		config.Production()
	} else if config.Conf.Mode == "development" {
		config.Development()
	}
}
