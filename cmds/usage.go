package cmds

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	p.WriteUsage(p.output)
}

// WriteUsage lists every command once, with its aliases and sub commands.
func (p *Executor) WriteUsage(w io.Writer) {
	writeCommands(w, p.commands, 0)
}

func writeCommands(w io.Writer, commands map[string]*Command, depth int) {
	seen := make(map[*Command]bool)
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		command := commands[name]
		if command == nil || seen[command] {
			continue
		}
		if slices.Contains(command.Aliases, name) {
			// listed under its primary name
			continue
		}
		seen[command] = true

		line := strings.Repeat("  ", depth) + name
		if len(command.Params) > 0 {
			line += " " + strings.Join(command.Params, " ")
		}
		if len(command.Aliases) > 0 {
			line += " (" + strings.Join(command.Aliases, ", ") + ")"
		}
		if command.Description != "" {
			line += "\t" + command.Description
		}
		fmt.Fprintln(w, line)
		if len(command.Subs) > 0 {
			writeCommands(w, command.Subs, depth+1)
		}
	}
}
