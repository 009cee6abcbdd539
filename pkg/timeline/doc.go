// Package timeline lays out tasks on a date axis.
//
// # Overview
//
// A layout pass is a pure function of a [task.Snapshot], a visible [Range]
// and the measured pixel width of the timeline:
//
//  1. [BuildNodes] resolves every task date, drops tasks outside the window,
//     adds the event marker and sorts the result by date.
//  2. [AssignLevels] packs the nodes into lanes so that no two nodes sharing a
//     lane have intersecting footprints.
//  3. [Compute] runs both steps and reports the deepest lane and the pixel
//     height the timeline needs.
//
// Nothing in this package keeps state between calls and nothing returns an
// error. Ill-formed input degrades to an empty or partial result: tasks whose
// date cannot be resolved are skipped, and a zero pixel width yields no nodes.
//
// # Positions and Footprints
//
// Positions and widths are percentages of the timeline width. A node's
// footprint is [Position-Width/2, Position+Width/2]; two footprints overlap
// when they intersect after both are widened by [NodeBuffer] on each side.
//
// # Interaction Queries
//
// [Edges] and [IsRelated] answer hover and selection questions against an
// already packed node list. Both are strictly one hop: they look at direct
// dependencies only and never walk the dependency graph.
//
// # Navigation
//
// [View] carries a zoom level and a visible range and implements the zoom,
// pan and reset behaviour of the interactive timeline.
package timeline
