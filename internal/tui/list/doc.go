// Package list provides the scrolling row component used by the interactive
// list views.
//
// Only the rows inside the viewport are rendered, so a page of any size
// redraws in time proportional to the terminal height. Navigation keys:
//   - up/down and k/j move one row
//   - pgup/pgdown move one screen
//   - home/end and g/G jump to the first or last row
//
// The component holds no data of its own; the owning model replaces the rows
// whenever a page is loaded or the local filter or sort changes.
package list
