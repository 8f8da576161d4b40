package cmd

import "errors"

var (
	errLabelConflict = errors.New("pass either a label or --clear, not both")
	errLabelMissing  = errors.New("pass a label, or --clear to remove it")
)
