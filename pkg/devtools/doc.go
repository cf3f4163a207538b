// Package devtools serves an inspector for a headless minidom app.
//
// Endpoints:
//
//	GET  /tree       serialized document
//	GET  /metrics    prometheus metrics
//	POST /snapshot   store the document with the snapshot store
//	GET  /ws         driver: commands in, mutation records and trees out
//
// The document belongs to the render loop, so every handler touches it
// through Loop.Post. The loop must be running (Loop.Run) while the server
// serves.
package devtools
