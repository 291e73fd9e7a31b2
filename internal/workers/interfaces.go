// Package workers runs the agent's background loops: the connectivity
// probe that notices offline/online transitions and kicks a catch-up sync.
// The Workers aggregate starts and stops them as a unit.
package workers

// Worker is a background loop. Run is expected to spawn the loop goroutine
// and return; Stop, when implemented, joins it.
type Worker interface {
	Run()
}
