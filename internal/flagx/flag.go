// Package flagx lets several components share os.Args without tripping over
// each other's flags: each parser first keeps only the flags it owns.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs returns the arguments from args that belong to allowedFlags,
// together with their values. Both "-d dsn" and "-d=dsn" forms are
// recognised; a following token that starts with "-" is never taken as a
// value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// JsonConfigFlags extracts the config file path given with -c or -config
// from args (usually os.Args[1:]). It returns "" when neither is present.
func JsonConfigFlags(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return config
}
