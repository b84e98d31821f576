package client

// HealthResponse from GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Network       string `json:"network"`
	BlockHeight   int64  `json:"block_height"`
}

// Proposal is one launchpad asset proposal row.
type Proposal struct {
	ID              string `json:"id"`
	Creator         string `json:"creator"`
	Name            string `json:"name"`
	AssetType       string `json:"asset_type"`
	Category        string `json:"category"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	FullDescription string `json:"full_description"`
	TargetAmount    string `json:"target_amount"`
	RaisedAmount    string `json:"raised_amount"`
	TokenPrice      string `json:"token_price"`
	TotalShares     int64  `json:"total_shares"`
	ExpectedAPY     string `json:"expected_apy"`
	InvestorCount   int    `json:"investor_count"`
	Status          string `json:"status"`
	FundingDeadline string `json:"funding_deadline"`
	CreatedAt       string `json:"created_at"`
}

// ProposalPage from GET /api/v1/proposals.
type ProposalPage struct {
	Proposals []Proposal `json:"proposals"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
	Total     int        `json:"total"`
}

// ActivityEntry is one platform activity event (investment, refund,
// governance action). Detail is empty for plain transfers and carries
// multi-line context for governance events.
type ActivityEntry struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Actor     string `json:"actor"`
	Proposal  string `json:"proposal_id,omitempty"`
	Amount    string `json:"amount,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ActivityPage from GET /api/v1/activity.
type ActivityPage struct {
	Entries  []ActivityEntry `json:"entries"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Total    int             `json:"total"`
}

// ErrorResponse for API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
