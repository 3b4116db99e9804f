// Package mode defines the editor modes and the mode groups remappers apply to.
//
// Modes follow Vim: Normal, Insert, the three Visual variants, Replace and
// the command line. Remapping splits them into two disjoint groups:
//
//   - GroupInsert: Insert mode, where keys are committed to the buffer as typed
//   - GroupOther: Normal, Visual, VisualLine and VisualBlock
//
// Replace and CommandLine belong to neither group and are never remapped.
//
// The Manager tracks the current mode and notifies callbacks on transitions.
package mode
