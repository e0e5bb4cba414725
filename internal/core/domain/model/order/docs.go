// Package order holds the Order aggregate of the clinical order lifecycle.
//
// An order moves Drafted -> Signed -> Activated -> Filled. Each step records
// who performed it and when, and the pair is always set together. Two flags
// sit beside the stages:
//   - discontinued, dated, so an order may be discontinued "as of" a moment
//   - voided, which blocks every structural transition until unvoided
//
// Orders come in two kinds (GENERIC, DRUG) and two actions (NEW, DISCONTINUE).
// A DISCONTINUE order references the order it terminates by uuid.
//
// The aggregate enforces state preconditions only. Defaults for actor and time,
// order numbering and persistence live in the lifecycle application service.
package order
