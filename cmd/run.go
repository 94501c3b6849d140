package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yaoapp/hal/config"
	"github.com/yaoapp/hal/share"
	"github.com/yaoapp/kun/exception"
)

var runSilent = false
var runWatch = false
var runStats = false
var runTimeout time.Duration

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: L("Run a script"),
	Long:  L("Run a script"),
	Run: func(cmd *cobra.Command, args []string) {
		defer func() {
			err := exception.Catch(recover())
			if err != nil {
				if !runSilent {
					color.Red(L("Fatal: %s")+"\n", err.Error())
					return
				}
				fmt.Printf("%s\n", err.Error())
			}
		}()

		Boot()

		if len(args) < 1 {
			if !runSilent {
				color.Red("%s\n", L("Not enough arguments"))
				color.White("%s help\n", share.BUILDNAME)
				return
			}
			fmt.Println(L("Not enough arguments"))
			return
		}

		file := args[0]
		if !filepath.IsAbs(file) {
			file = filepath.Join(config.Conf.Root, file)
		}

		cfg := config.Conf.Script
		if cmd.Flags().Changed("timeout") {
			cfg.Timeout = runTimeout
		}

		run(file, cfg)
		if !runWatch {
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err := share.Watch(ctx, file, func(op string, file string) {
			if op == "remove" || op == "rename" {
				return
			}
			run(file, cfg)
		})
		if err != nil {
			exception.New("Watch %s: %s", 500, file, err.Error()).Throw()
		}
	},
}

func run(file string, cfg config.Script) {
	if !runSilent {
		color.Green(L("Run: %s")+"\n", file)
	}

	res, err := evalScript(file, cfg)
	if err != nil {
		if !runSilent {
			color.Red(L("Fatal: %s")+"\n", err.Error())
			return
		}
		fmt.Printf("%s\n", err.Error())
		return
	}

	if runSilent {
		fmt.Printf("%s\n", res.Output)
		return
	}

	color.White("--------------------------------------\n")
	color.White(L("%s Result")+"\n", filepath.Base(file))
	color.White("--------------------------------------\n")
	fmt.Println(res.Output)
	color.White("--------------------------------------\n")
	if runStats {
		color.White("objects: created %d, alive %d, finalized %d\n", res.Stats.Created, res.Stats.Alive, res.Stats.Finalized)
	}
	color.Green("%s\n", L("✨DONE✨"))
}

func init() {
	runCmd.PersistentFlags().BoolVarP(&runSilent, "silent", "s", false, L("Silent mode"))
	runCmd.PersistentFlags().BoolVarP(&runWatch, "watch", "w", false, L("Re-run the script when it changes"))
	runCmd.PersistentFlags().BoolVarP(&runStats, "stats", "", false, L("Show object statistics"))
	runCmd.PersistentFlags().DurationVarP(&runTimeout, "timeout", "t", 0, L("Evaluation timeout"))
}
