// Package detail provides the lazily loaded detail screen of the interactive
// list views.
//
// Opening a row shows a spinner immediately and runs the screen's Loader in a
// tea.Cmd, so navigating the list never waits on secondary data. A failed
// load stays on screen with an inline retry ('r'); results from a superseded
// run are dropped.
package detail
