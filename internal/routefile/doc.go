// Package routefile reads and writes the plain-text route files the CLI's
// route/greedy/minimize/draw/observe subcommands take as input and the
// search/minimize subcommands emit: one history step per line, blank
// lines and '#'-comments ignored.
package routefile
