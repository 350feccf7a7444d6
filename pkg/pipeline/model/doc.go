// Package model provides the data structures shared by the pipeline package and its options.
// It defines the model handed to a print, the description of the processing steps,
// and the hook interface options implement to follow a run.
package model
