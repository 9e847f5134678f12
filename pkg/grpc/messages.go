package grpc

import (
	"helmetwatch.xyz/alert-console/pkg/console"
)

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Empty struct{}

type CurrentResponse struct {
	Status *StatusResponse `json:"status"`
	View   *console.View   `json:"view,omitempty"`
}

type AcknowledgeRequest struct {
	AlertId    string `json:"alertId"`
	ResolvedBy string `json:"resolvedBy"`
}

func (r *AcknowledgeRequest) GetOperator() string {
	if r == nil {
		return ""
	}
	return r.ResolvedBy
}

type AcknowledgeResponse struct {
	Status     *StatusResponse `json:"status"`
	AlertId    string          `json:"alertId,omitempty"`
	ResolvedBy string          `json:"resolvedBy,omitempty"`
}

type LimiterRequest struct {
	Operator      string  `json:"operator"`
	OperatorRate  float64 `json:"operatorRate"`
	OperatorBurst int32   `json:"operatorBurst"`
}

type LimiterResponse struct {
	Status *StatusResponse `json:"status"`
}
