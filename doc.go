// Package dpgmm implements a Dirichlet Process Gaussian mixture model
// sampler, also known as an infinite Gaussian mixture model (IMM).
//
// Unlike a finite mixture, the number of Gaussian components is not fixed up
// front: a Dirichlet Process prior lets each Gibbs sweep assign points to
// existing components or spawn new ones, and empty components are discarded,
// so the component count is inferred from the data.
//
// Basic usage:
//
//	m, err := dpgmm.New(0.5, dims, dpgmm.DefaultConfig())
//	if err := m.SetPriors(data); err != nil { ... }
//
//	// Warm up, starting from a single component over all points.
//	_, err = m.Sample(data, dpgmm.SampleOptions{Iterations: 100, Init: true})
//
//	// Average the density over a fixed evaluation grid.
//	density, err := m.Sample(data, dpgmm.SampleOptions{
//		Iterations:     1000,
//		SamplingPoints: grid,
//	})
//	// m.K() is the final component count; m.Means() and m.Precisions()
//	// hold the final component parameters.
//
// # Updates
//
// Each sweep either runs a plain Gibbs update (score all points, redraw all
// indicators, redraw component parameters from their conjugate
// Normal-inverse-Wishart posterior) or, with SampleOptions.Folds > 0, a
// cross-validated update in which every point is scored and reseated by a
// model fit on the other folds only. The cross-validated form is slower but
// avoids scoring any point with a model fit on itself.
//
// Priors are weakly informative, derived from a data sample by SetPriors
// (Fraley & Raftery, 2007). All stochastic steps draw from Config.Src, so a
// seeded source gives reproducible chains.
package dpgmm
