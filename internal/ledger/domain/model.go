package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project is the metadata of a crowdfunding project. Derived figures live on
// Snapshot, never here.
type Project struct {
	PublicID     string          `json:"public_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	FundingGoal  decimal.Decimal `json:"funding_goal"`
	CreatorID    string          `json:"creator_id"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Contribution is an immutable ledger row. There is no update or delete
// operation anywhere in the public contract.
type Contribution struct {
	PublicID  string          `json:"public_id"`
	ProjectID string          `json:"project_id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// Comment carries the acting user's display name as written, not a live
// reference, so a later rename does not rewrite history.
type Comment struct {
	PublicID  string    `json:"public_id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	PublicID    string `json:"public_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Snapshot is a consistent, point-in-time view of a project plus its derived
// totals and comment log. Every write operation returns one so callers never
// need a second query to display results.
type Snapshot struct {
	Project           Project         `json:"project"`
	TotalRaised       decimal.Decimal `json:"total_raised"`
	Progress          decimal.Decimal `json:"progress"`
	ContributionCount int64           `json:"contribution_count"`
	Comments          []Comment       `json:"comments"`
}

// ProjectSummary is a list-view row: project metadata plus totals, without
// the comment log.
type ProjectSummary struct {
	Project           Project         `json:"project"`
	TotalRaised       decimal.Decimal `json:"total_raised"`
	Progress          decimal.Decimal `json:"progress"`
	ContributionCount int64           `json:"contribution_count"`
}

// ProjectSpec is the validated input to project creation.
type ProjectSpec struct {
	Title       string
	Description string
	FundingGoal decimal.Decimal
	CreatorID   string
	CategoryID  string
}

// ProjectFilter narrows project listings. A zero value lists the most recent
// projects.
type ProjectFilter struct {
	CategoryID string
	CreatorID  string
	Search     string
	Limit      int
}

// PlatformStats are the platform-wide dashboard totals.
type PlatformStats struct {
	TotalProjects      int64           `json:"total_projects"`
	TotalUsers         int64           `json:"total_users"`
	TotalContributions int64           `json:"total_contributions"`
	TotalRaised        decimal.Decimal `json:"total_raised"`
}
