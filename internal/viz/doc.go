// Package viz renders mesh functions for the terminal.
//
//   - [TableSink]: the "t=<6.3f> u=<g>" console table, one line per point
//   - [Overlay]: ASCII chart of the numerical solution against the exact one
//   - lipgloss styles shared by the CLI listings and the live explorer
//
// Tables are written undecorated. Styles apply to listings and the explorer.
package viz
