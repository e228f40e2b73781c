package model

// Rule maps a keyword to a category and bucket. The keyword is matched
// against the transaction name as a case-insensitive substring, and only
// records still in the Uncategorized state are updated.
type Rule struct {
	Keyword  string `json:"keyword" yaml:"keyword"`
	Category string `json:"category" yaml:"category"`
	Bucket   Bucket `json:"bucket" yaml:"bucket"`
}
