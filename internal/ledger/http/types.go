package http

import "github.com/shopspring/decimal"

type createProjectReq struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	FundingGoal decimal.Decimal `json:"funding_goal"`
	CategoryID  string          `json:"category_id"`
}

type contributeReq struct {
	Amount decimal.Decimal `json:"amount"`
}

type commentReq struct {
	Text string `json:"text"`
}
