// Package search explores finite-domain constraint problems depth first.
// Every variable lives in a trail.Manager, so each branch is a Save, a
// handful of writes and a Restore.
//
//	problem, err := search.ParseProblem(data)
//	explorer, err := search.NewExplorer(problem)
//	solutions, stats, err := explorer.All(ctx)
package search
