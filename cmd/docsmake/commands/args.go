package commands

import "strings"

// Flags that consume the following argument. Keep in sync with CLI.
var (
	valueLongFlags  = map[string]bool{"config": true, "env-file": true}
	valueShortFlags = "c"
)

// SplitArgs cuts the command line after the action. Only the head is parsed
// as docsmake flags; everything after the action belongs to the builder, so
// "html -n" stays a nitpicky build rather than a dry run. A single "--"
// directly after the action is dropped.
func SplitArgs(args []string) (head, extra []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			// "-- html ..." forces the next token to be read as the action.
			if i+1 >= len(args) {
				return args, nil
			}
			return args[:i+2], trimSeparator(args[i+2:])
		case len(arg) > 1 && arg[0] == '-':
			if takesValue(arg) {
				i++
			}
		default:
			return args[:i+1], trimSeparator(args[i+1:])
		}
	}
	return args, nil
}

func takesValue(arg string) bool {
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		return !strings.Contains(name, "=") && valueLongFlags[name]
	}
	cluster := arg[1:]
	i := strings.IndexAny(cluster, valueShortFlags)
	// "-cdocs.yaml" carries its value inline.
	return i >= 0 && i == len(cluster)-1
}

func trimSeparator(extra []string) []string {
	if len(extra) > 0 && extra[0] == "--" {
		extra = extra[1:]
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}
