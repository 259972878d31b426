package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Workers        int           // Number of concurrent requests in flight
	Timeout        time.Duration // HTTP request timeout
	AmountStep     int           // Amount increment of the request grid
	PeriodStep     int           // Period increment of the request grid
	IncludeInvalid bool          // Add out-of-bounds requests to the grid
	OutputFile     string        // Where to write mismatches as JSON; empty disables
	Verbose        bool          // Log every mismatch as it is found
}

// Case is one request of the grid together with the answer the service
// must give for it.
type Case struct {
	RequestID    string    `json:"request_id"`
	PersonalCode string    `json:"personal_code"`
	Amount       int       `json:"amount"`
	Period       int       `json:"period"`
	Expected     Reply     `json:"expected"`
	Actual       *Reply    `json:"actual,omitempty"`
	Error        string    `json:"error,omitempty"`
	SentAt       time.Time `json:"sent_at"`
}

// Reply is an HTTP answer reduced to what the probe compares.
type Reply struct {
	Status   int           `json:"status"`
	Decision *DecisionBody `json:"decision,omitempty"`
}

// DecisionBody mirrors the JSON returned by the decision endpoint.
type DecisionBody struct {
	IsApproved          bool   `json:"isApproved"`
	ApprovedAmount      int    `json:"approvedAmount"`
	ApprovedPeriod      int    `json:"approvedPeriod"`
	DecisionDescription string `json:"decisionDescription"`
}

// Stats holds probe statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Matched    int
	Mismatched int
	Failed     int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	Mismatches []Case
}
