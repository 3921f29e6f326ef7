package models

// Feedback messages shown to the writer, one per rule.
const (
	FeedbackCoverageLow  = "It looks like the synopsis misses many important points."
	FeedbackCoverageMid  = "You’ve captured most main ideas, but some key details are missing."
	FeedbackCoverageHigh = "Good job—your synopsis covers the main content well."
	FeedbackCoherence    = "Sentences feel a bit disconnected. Try smoother transitions."
	FeedbackClarity      = "Some sentences are a bit hard to follow—try simpler phrasing."
)

// Date expressions recognised by the anonymizer: 1/2/2020, 01-02-20,
// 2020-01-02 and "Jan 1, 2020" style.
const DateRegex = `\b(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}[/-]\d{1,2}[/-]\d{1,2}|` +
	`(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},\s+\d{4})\b`
