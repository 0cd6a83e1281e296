// Package ebmcore provides the single-threaded numerical kernel of an
// Explainable Boosting Machine (EBM): bit-packed categorical input,
// piecewise-constant shape-function tensors, per-round model-update
// application for regression and classification objectives, and a
// pairwise interaction scorer.
//
// ebmcore is deliberately narrow in scope. It does not choose which
// feature combination to boost next, does not build trees, and does not
// own dataset I/O — those responsibilities belong to an external caller
// that drives the boosting round loop and hands this package an update
// tensor to apply.
//
// # Packages
//
//   - bitpack: decoder for bin indices packed into machine words
//   - tensor: SegmentedTensor, the piecewise-constant shape function
//   - dataset: DataSet and its per-instance score/residual buffers
//   - objective: gradient/hessian/loss primitives per objective, dispatched by class count
//   - boosting: ModelUpdateApplier — applies an update tensor to a DataSet
//   - interaction: InteractionScorer — scores a candidate feature combination
//   - ebm: the engine that an outer collaborator drives through a boosting round
//
// # Quick start
//
//	eng, err := ebm.CreateEngine(ebm.Config{Objective: objective.Regression})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	if err := eng.AttachDataset(ebm.RoleTraining, trainSet); err != nil {
//	    log.Fatal(err)
//	}
//	if err := eng.ApplyTrainingUpdate(combinationIndex, update); err != nil {
//	    log.Fatal(err)
//	}
//
// # License
//
// ebmcore is released under the MIT License.
package ebmcore
