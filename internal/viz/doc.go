// Package viz renders orbital elements for people.
//
//   - [RenderTable]: styled lipgloss table, one row per element
//   - [RenderPlain]: the same rows through text/tabwriter, no ANSI codes
//   - [PlotConic]: asciigraph plot of orbit radius against true anomaly
//
// Every value is rounded to two decimals. Undefined elements are printed as
// "undefined" rather than dropped, so the table always has seven rows.
package viz
