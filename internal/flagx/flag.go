// Package flagx lets several loaders share one command line: each loader
// keeps only the flags it owns before handing them to a flag.FlagSet.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs returns the subset of args whose flag name is in allowed,
// keeping each flag's value. Both "-f value" and "-f=value" are recognised.
// A token that starts with "-" is never consumed as a value.
func FilterArgs(args []string, allowed []string) []string {
	keep := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		keep[f] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		if name, _, ok := strings.Cut(arg, "="); ok {
			if keep[name] {
				out = append(out, arg)
			}
			continue
		}
		if !keep[arg] {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigFile extracts the JSON config path given with -c or -config.
// It returns "" when neither is present.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
