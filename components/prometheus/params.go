package prometheus

import (
	"github.com/iotaledger/hive.go/app"
)

type ParametersPrometheus struct {
	Enabled     bool   `default:"true" usage:"whether the prometheus exporter is enabled"`
	BindAddress string `default:"localhost:9311" usage:"bind address of the prometheus exporter"`
}

var ParamsPrometheus = &ParametersPrometheus{}

var params = &app.ComponentParams{
	Params: map[string]any{
		"prometheus": ParamsPrometheus,
	},
	Masked: []string{},
}
