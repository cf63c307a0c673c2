package engine

import (
	"time"

	"github.com/iotaledger/hive.go/app"
)

// ParametersEngine holds the gas cost table and execution limits. The unit
// costs are policy values; changing them changes billing, not semantics.
type ParametersEngine struct {
	BaseGasCost         uint64        `default:"21000" usage:"gas charged on entry of every execution"`
	StorageWriteGasCost uint64        `default:"20000" usage:"gas charged per storage write unit"`
	StorageReadGasCost  uint64        `default:"800" usage:"gas charged per storage read unit"`
	ComputationGasCost  uint64        `default:"3" usage:"gas charged per computation unit"`
	LogGasCost          uint64        `default:"375" usage:"gas charged per emitted log"`
	MaxGasLimit         uint64        `default:"10000000" usage:"maximum gas limit accepted per execution"`
	MaxExecutionTime    time.Duration `default:"30s" usage:"wall-clock ceiling of a single execution"`

	StatisticsInterval time.Duration `default:"1m" usage:"interval of the execution statistics log line"`
}

var ParamsEngine = &ParametersEngine{}

var params = &app.ComponentParams{
	Params: map[string]any{
		"engine": ParamsEngine,
	},
	Masked: []string{},
}
