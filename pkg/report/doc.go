// Package report persists the two report artifacts: the raw session snapshot
// and the resolved report with one label per connection.
//
// Artifacts are only written when the snapshot has rows. Each is serialized in
// a single atomic write (see serializer.FileWriter). After a successful write
// the emitter logs how many connections resolved to a name out of the total.
package report
