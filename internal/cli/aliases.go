package cli

import "github.com/tengjizhang/drawer/internal/model"

type OutputFormat = model.OutputFormat

const (
	OutputTable = model.OutputTable
	OutputJSON  = model.OutputJSON
	OutputWide  = model.OutputWide
)
