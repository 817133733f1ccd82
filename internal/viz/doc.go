// Package viz renders models, analysis reports and run summaries as styled
// terminal text.
//
//   - [RenderModel]: continuous and discrete matrices side by side with the
//     current state
//   - [RenderReport]: the structural analysis of a model
//   - [RenderMetrics], [RenderComparison]: run results
//
// Styling follows the active [Theme]. Output written to a pipe or file is
// plain text, since lipgloss drops colour when the terminal has none.
package viz
