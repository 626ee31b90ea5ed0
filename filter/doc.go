/*
Package filter provides the property membership model used to decide which
projects are visible on the map.

Every project is described along three independent dimensions: transportation
mode, build status and delivery timeline. Each dimension has a PropertyIndex
that maps its string identifiers to dense bit positions, assigned in
registration order:

	modes, _ := filter.NewPropertyIndex(filter.Mode, []string{"Pedestrian / Bike", "Transit", "Freight", "Other"})
	pos, ok := modes.IndexOf("Transit") // 1, true

A PropertyMask is a bit set over one dimension. Two masks are "active"
against each other when they share at least one enabled bit. A
PropertyMaskSet combines one mask per dimension, and two sets are active only
when all three dimension pairs are active:

	idx, _ := filter.NewIndexes(modes, statuses, timelines)
	project := idx.NewMaskSet()
	project.Mode.SetEnabled(1, true)
	project.Status.SetEnabled(0, true)
	project.Timeline.SetAllEnabled(true) // no timeline: matches any selection

	viewer := idx.NewMaskSet()
	viewer.SelectAll()
	project.IsActive(viewer) // true

Masks are plain in-memory values with no locking; the package is meant to be
driven from a single goroutine.
*/
package filter
