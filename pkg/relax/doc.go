// Package relax implements density-weighted Lloyd relaxation of stipple
// points.
//
// An [Engine] places n seeds over a [density.Field] by rejection sampling,
// then refines them for a fixed number of rounds. Each round assigns every
// dense pixel to its nearest seed, accumulates weighted centroids, and moves
// each seed past its centroid (over-relaxation) plus a jitter term that
// decays with the round index:
//
//	wiggle(k) = (k+1)^-0.8 * 10
//	x' = x + (cx/s - x)*gain + (u-0.5)*wiggle(k)
//
// After every round the engine emits a [Snapshot] holding a copy of all seed
// positions. There is no convergence check; a run always performs exactly
// Params.Iterations rounds unless its context is cancelled, which is
// observed between rounds.
//
// # Usage
//
//	field, _ := density.New(w, h, values)
//	eng, err := relax.New(field, relax.Params{Points: 4000, Iterations: 80})
//	if err != nil {
//	    return err
//	}
//	final, err := eng.Run(ctx, func(s relax.Snapshot) error {
//	    fmt.Println("round", s.Round, "of", s.TotalRounds)
//	    return nil
//	})
//
// To keep a consumer responsive, run the engine on its own goroutine with
// [Start] and read snapshots from [Job.C].
//
// # Randomness
//
// All randomness flows through a [Source]. By default each engine draws from
// a freshly seeded PCG generator, so runs differ. [WithSeed] or [WithSource]
// make runs reproducible.
package relax
