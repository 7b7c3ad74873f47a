// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The paper pipeline is split across three collaborators:
//
//   - SessionDriver: drives one ordered backend conversation per paper
//   - title extraction: embedded [[title]] markers and leading-page heuristics
//   - PaperService: sequences retrieval, extraction, segmentation,
//     the session, and persistence, stopping at the first failure
package services
