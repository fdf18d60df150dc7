//go:build !windows

package argsresolver

import "strings"

// quoteForEcho renders arg the way a POSIX shell user could paste it
// back: single-quoted when it contains anything the shell would
// interpret, with embedded single quotes escaped via the '\'' dance.
func quoteForEcho(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\n\"'`$&|;<>()*?[]#~=%\\") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
