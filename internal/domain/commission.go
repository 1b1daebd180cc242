package domain

type CommissionType string

const (
	CommissionFixed      CommissionType = "fixed"
	CommissionPercentage CommissionType = "percentage"
)

type Commission struct {
	CommissionType  CommissionType `json:"commissionType"`
	CommissionValue float64        `json:"commissionValue"`
}
