package model

// Warning is a non-blocking remark attached to a successful update.
type Warning struct {
	Field   string
	Code    string
	Message string
}
