package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/yaoapp/hal/js"
	"github.com/yaoapp/hal/jsapi"
	"github.com/yaoapp/kun/exception"
	"gopkg.in/yaml.v3"
)

var inspectFormat = "text"

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: L("Show exported classes"),
	Long:  L("Show exported classes"),
	Run: func(cmd *cobra.Command, args []string) {
		defer func() {
			err := exception.Catch(recover())
			if err != nil {
				color.Red(L("Fatal: %s")+"\n", err.Error())
			}
		}()

		Boot()
		registry := js.NewRegistry()
		if err := jsapi.Register(registry); err != nil {
			exception.New("Register: %s", 500, err.Error()).Throw()
		}

		fd := os.Stdout.Fd()
		colored := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		if err := render(os.Stdout, registry.Describe(), inspectFormat, colored); err != nil {
			exception.New("%s", 400, err.Error()).Throw()
		}
	},
}

// render write the class descriptions in the format
func render(w io.Writer, classes []js.ClassInfo, format string, colored bool) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := jsoniter.MarshalIndent(classes, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err

	case "yaml":
		data, err := yaml.Marshal(classes)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err

	case "toml":
		var buf bytes.Buffer
		doc := struct {
			Classes []js.ClassInfo `toml:"classes"`
		}{classes}
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err

	case "text", "":
		return renderText(w, classes, colored)
	}
	return fmt.Errorf(L("Unknown format: %s"), format)
}

func renderText(w io.Writer, classes []js.ClassInfo, colored bool) error {
	title := color.New(color.FgGreen, color.Bold)
	label := color.New(color.FgCyan)
	if !colored {
		title.DisableColor()
		label.DisableColor()
	}

	for i, class := range classes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title.Fprintf(w, "%s", class.Name)
		fmt.Fprintf(w, " (version %d, %s)\n", class.Version, class.Attributes)
		if class.Parent != "" {
			fmt.Fprintf(w, "  %s %s\n", label.Sprint("parent:"), class.Parent)
		}
		if len(class.Values) > 0 {
			fmt.Fprintf(w, "  %s\n", label.Sprint("values:"))
			for _, v := range class.Values {
				access := []string{}
				if v.Getter {
					access = append(access, "get")
				}
				if v.Setter {
					access = append(access, "set")
				}
				fmt.Fprintf(w, "    %-12s %-28s %s\n", v.Name, v.Attributes, strings.Join(access, " "))
			}
		}
		if len(class.Functions) > 0 {
			fmt.Fprintf(w, "  %s\n", label.Sprint("functions:"))
			for _, f := range class.Functions {
				fmt.Fprintf(w, "    %-12s %s\n", f.Name+"()", f.Attributes)
			}
		}
		if len(class.Callbacks) > 0 {
			fmt.Fprintf(w, "  %s %s\n", label.Sprint("callbacks:"), strings.Join(class.Callbacks, ", "))
		}
	}
	return nil
}

func init() {
	inspectCmd.PersistentFlags().StringVarP(&inspectFormat, "format", "f", "text", L("Output format: text, json, yaml, toml"))
}
